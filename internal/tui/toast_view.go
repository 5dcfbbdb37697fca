package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/colonyops/powerbar/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack with the oldest toast on top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	icon, style := levelStyle(t.notification.Level)
	return style.Width(toastWidth).Render(icon + " " + t.notification.Message)
}

func levelStyle(level notify.Level) (string, lipgloss.Style) {
	switch level {
	case notify.LevelError:
		return styles.IconNotifyError, styles.ToastErrorStyle
	case notify.LevelWarning:
		return styles.IconNotifyWarning, styles.ToastWarningStyle
	default:
		return styles.IconNotifyInfo, styles.ToastInfoStyle
	}
}

// Overlay composites the toast stack over background in the lower-right
// corner, above the help bar.
func (v *ToastView) Overlay(background string, width, height int) string {
	content := v.View()
	if content == "" {
		return background
	}

	toastW := lipgloss.Width(content)
	toastH := lipgloss.Height(content)

	bg := lipgloss.NewLayer(background)
	fg := lipgloss.NewLayer(content).
		X(max(width-toastW-1, 0)).
		Y(max(height-toastH-1, 0)).
		Z(2)

	return lipgloss.NewCompositor(bg, fg).Render()
}
