package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/colonyops/powerbar/internal/core/styles"
	tuinotify "github.com/colonyops/powerbar/internal/tui/notify"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 30
	notifyModalMargin    = 4
	notifyModalChrome    = 8 // border + padding + title + divider + help
)

// NotificationModal displays a scrollable history of notifications.
type NotificationModal struct {
	bus      *tuinotify.Bus
	viewport viewport.Model
}

// NewNotificationModal creates a modal showing the bus history.
func NewNotificationModal(bus *tuinotify.Bus, width, height int) *NotificationModal {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := min(height-notifyModalMargin, notifyModalMaxHeight)

	vp := viewport.New(
		viewport.WithWidth(modalWidth-6),
		viewport.WithHeight(max(modalHeight-notifyModalChrome, 1)),
	)

	m := &NotificationModal{bus: bus, viewport: vp}
	m.refreshContent()
	return m
}

func (m *NotificationModal) refreshContent() {
	history, err := m.bus.History()
	if err != nil {
		log := logging.Component("tui")
		log.Error().Err(err).Msg("failed to load notification history")
		m.viewport.SetContent(styles.FormErrorStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	}

	if len(history) == 0 {
		m.viewport.SetContent(styles.PageMetaStyle.Render("No notifications"))
		return
	}

	lines := make([]string, 0, len(history))
	for _, n := range history {
		lines = append(lines, formatNotification(n))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatNotification(n notify.Notification) string {
	ts := styles.PageMetaStyle.Render(n.CreatedAt.Format("15:04:05"))

	var msgStyle lipgloss.Style
	switch n.Level {
	case notify.LevelError:
		msgStyle = styles.FormErrorStyle
	case notify.LevelWarning:
		msgStyle = styles.WarningTextStyle
	default:
		msgStyle = styles.CommandStyle
	}
	icon, _ := levelStyle(n.Level)

	return fmt.Sprintf("%s %s %s", ts, icon, msgStyle.Render(n.Message))
}

// ScrollUp scrolls the viewport up.
func (m *NotificationModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *NotificationModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// Clear deletes all notifications and refreshes the view.
func (m *NotificationModal) Clear() error {
	if err := m.bus.Clear(); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// Overlay renders the notification modal centered over the background.
func (m *NotificationModal) Overlay(background string, width, height int) string {
	modalWidth := calcNotificationModalWidth(width)

	divider := styles.DividerStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Notifications"),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [D] clear all  [esc] close"),
	)

	return centerOverlay(background, styles.ModalStyle.Width(modalWidth).Render(content), width, height)
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}

// centerOverlay composites modal in the middle of background.
func centerOverlay(background, modal string, width, height int) string {
	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)

	bg := lipgloss.NewLayer(background)
	fg := lipgloss.NewLayer(modal).X(x).Y(y).Z(1)
	return lipgloss.NewCompositor(bg, fg).Render()
}
