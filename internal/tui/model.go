// Package tui implements the powerbar host shell: a page view with history,
// the quick search overlay, settings, and toast notifications.
package tui

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/styles"
	tuinotify "github.com/colonyops/powerbar/internal/tui/notify"
	"github.com/colonyops/powerbar/internal/tui/overlay"
	"github.com/colonyops/powerbar/pkg/executil"
)

// UIState is the host screen that owns the keyboard while the overlay is
// closed.
type UIState int

const (
	stateNormal UIState = iota
	stateGoto
	stateSettings
	stateWhatsNew
	stateNotifications
)

// gotoFieldID identifies the host "go to" input.
const gotoFieldID = "goto"

const keyCtrlC = "ctrl+c"

// Options configures the TUI.
type Options struct {
	// ConfigPath is where settings are saved. Empty keeps them in memory.
	ConfigPath string
	Searcher   search.Searcher
	Player     overlay.Player
	// Executor runs navigation.open_command. Defaults to the real executor.
	Executor executil.Executor
	// Store keeps the notification history (optional).
	Store notify.Store
	// Reload signals config file changes (optional).
	Reload <-chan struct{}
	Build  BuildInfo
	// Warnings are startup warnings shown as toasts.
	Warnings []string
	Clock    search.Clock
	GOOS     string
	Demo     bool
}

type configSavedMsg struct {
	err error
}

type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg        *config.Config
	configPath string
	state      UIState

	overlay   *overlay.Controller
	shell     *Shell
	keys      KeyMap
	help      help.Model
	gotoInput textinput.Model

	settings      *SettingsPanel
	whatsNew      *WhatsNewDialog
	notifications *NotificationModal

	notifyBus       *tuinotify.Bus
	toastController *ToastController
	toastView       *ToastView

	reload   <-chan struct{}
	warnings []string
	demo     bool

	width    int
	height   int
	quitting bool
	log      zerolog.Logger
}

// New builds the root model. The overlay starts closed.
func New(cfg *config.Config, opts Options) Model {
	bus := tuinotify.NewBus(opts.Store)
	toastCtrl := NewToastController()
	bus.Subscribe(toastCtrl.Push)

	shell := NewShell(opts.Executor, cfg.Navigation.OpenCommand)
	settings := settingsFromConfig(cfg)

	ov := overlay.New(opts.Searcher, shell, opts.Player, bus, overlay.Options{
		Settings: settings,
		Delay:    cfg.Search.Debounce,
		Clock:    opts.Clock,
		GOOS:     opts.GOOS,
	})

	gotoInput := textinput.New()
	gotoInput.Prompt = ""
	gotoInput.Placeholder = "spotify:album:… or https://open.spotify.com/…"
	gotoInput.SetWidth(54)
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	gotoInput.SetStyles(inputStyles)

	h := help.New()
	h.Styles.ShortKey = styles.HelpBarStyle
	h.Styles.ShortDesc = styles.HelpBarStyle
	h.Styles.ShortSeparator = styles.HelpBarStyle
	h.Styles.FullKey = styles.HelpBarStyle
	h.Styles.FullDesc = styles.HelpBarStyle
	h.Styles.FullSeparator = styles.HelpBarStyle
	h.ShortSeparator = " • "

	m := Model{
		cfg:             cfg,
		configPath:      opts.ConfigPath,
		state:           stateNormal,
		overlay:         ov,
		shell:           shell,
		keys:            DefaultKeyMap(chordHelp(settings.Chord)),
		help:            h,
		gotoInput:       gotoInput,
		notifyBus:       bus,
		toastController: toastCtrl,
		toastView:       NewToastView(toastCtrl),
		reload:          opts.Reload,
		warnings:        opts.Warnings,
		demo:            opts.Demo,
		log:             logging.Component("tui"),
	}

	if v := opts.Build.Version; v != "" && v != cfg.SeenVersion {
		m.whatsNew = NewWhatsNewDialog(v, changeNotes, defaultWidth, defaultHeight)
		m.state = stateWhatsNew
	}

	return m
}

// settingsFromConfig maps the persisted settings onto the overlay. A missing
// or malformed chord disables activation.
func settingsFromConfig(cfg *config.Config) overlay.Settings {
	chord, err := cfg.Chord()
	if err != nil {
		chord = activation.Chord{}
	}
	return overlay.Settings{
		Limit:      cfg.ResultsPerCategory,
		Chord:      chord,
		AddToQueue: cfg.AddToQueue,
	}
}

func chordHelp(c activation.Chord) string {
	if !c.Valid() {
		return ""
	}
	return c.String()
}

// Overlay returns the quick search controller.
func (m Model) Overlay() *overlay.Controller { return m.overlay }

// Shell returns the page navigator.
func (m Model) Shell() *Shell { return m.shell }

// State returns the screen that owns the keyboard while the overlay is closed.
func (m Model) State() UIState { return m.state }

func (m Model) Init() tea.Cmd {
	for _, w := range m.warnings {
		m.notifyBus.Warnf("%s", w)
	}

	cmds := []tea.Cmd{m.listenForReload()}
	if m.toastController.HasToasts() {
		cmds = append(cmds, scheduleToastTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case toastTickMsg:
		return m.handleToastTick()
	case configReloadedMsg:
		return m.handleConfigReloaded(msg)
	case configSavedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("path", m.configPath).Msg("failed to save config")
			return m, m.notifyError("Could not save settings: %v", msg.err)
		}
		return m, nil
	case openDoneMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("url", msg.url).Msg("external open failed")
			return m, m.notifyError("Could not open %s: %v", msg.url, msg.err)
		}
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleClick(msg)
	}

	cmd, ok := m.overlay.Update(msg)
	if ok {
		return m, m.afterOverlay(cmd)
	}
	if m.overlay.IsOpen() {
		return m, cmd
	}

	if m.state == stateGoto {
		m.gotoInput, cmd = m.gotoInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.overlay.SetSize(msg.Width, msg.Height)

	if m.whatsNew != nil {
		m.whatsNew = NewWhatsNewDialog(m.whatsNew.Version(), changeNotes, msg.Width, msg.Height)
	}
	if m.notifications != nil {
		m.notifications = NewNotificationModal(m.notifyBus, msg.Width, msg.Height)
	}
	return m, nil
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toastController.Tick()
	if m.toastController.HasToasts() {
		return m, scheduleToastTick()
	}
	return m, nil
}

// handleKey routes a key press. While the overlay is open it owns the
// keyboard; otherwise the host screen does.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m.quit()
	}

	if m.overlay.IsOpen() {
		return m.handleOpenKey(msg)
	}

	switch m.state {
	case stateSettings:
		return m.handleSettingsKey(msg)
	case stateWhatsNew:
		return m.handleWhatsNewKey(msg)
	case stateNotifications:
		return m.handleNotificationsKey(msg)
	}

	return m.handleClosedKey(msg)
}

// handleOpenKey is the open-state subscription: every key goes to the
// overlay, including the chord that closes it.
func (m Model) handleOpenKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cmd := m.overlay.HandleKey(msg)
	return m, m.afterOverlay(cmd)
}

// handleClosedKey is the closed-state subscription. The chord is checked
// against whatever has focus, so it is ignored inside the "go to" input.
func (m Model) handleClosedKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.overlay.IsActivation(msg, m.focusTarget()) {
		m.closeGoto()
		return m.openOverlay()
	}

	if m.state == stateGoto {
		return m.handleGotoKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		return m.openOverlay()
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		m.shell.Back()
	case key.Matches(msg, m.keys.Forward):
		m.shell.Forward()
	case key.Matches(msg, m.keys.GoTo):
		m.state = stateGoto
		m.gotoInput.SetValue("")
		return m, m.gotoInput.Focus()
	case key.Matches(msg, m.keys.Settings):
		m.settings = NewSettingsPanel(m.overlay.Settings())
		m.state = stateSettings
	case key.Matches(msg, m.keys.Notifications):
		m.notifications = NewNotificationModal(m.notifyBus, m.width, m.height)
		m.state = stateNotifications
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		m.toastController.Dismiss()
	}
	return m, nil
}

func (m Model) focusTarget() activation.Target {
	if m.state == stateGoto {
		return activation.Target{Kind: activation.TargetTextInput, ID: gotoFieldID}
	}
	return activation.Target{}
}

func (m Model) openOverlay() (tea.Model, tea.Cmd) {
	return m, m.overlay.Open()
}

// afterOverlay batches cmd with the work overlay interactions leave behind:
// pending external opens and the toast timer.
func (m *Model) afterOverlay(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, m.shell.Flush(), m.ensureToastTick())
}

func (m Model) handleGotoKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeGoto()
		return m, nil
	case "enter":
		raw := m.gotoInput.Value()
		if err := m.shell.Navigate(raw); err != nil {
			return m, m.notifyError("Not a Spotify link: %q", raw)
		}
		m.closeGoto()
		return m, tea.Batch(m.shell.Flush(), m.ensureToastTick())
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m *Model) closeGoto() {
	if m.state != stateGoto {
		return
	}
	m.gotoInput.Blur()
	m.gotoInput.SetValue("")
	m.state = stateNormal
}

func (m Model) handleSettingsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	p := m.settings
	p.Update(msg)

	if w := p.TakeWarning(); w != "" {
		m.notifyBus.Warnf("%s", w)
	}

	var cmd tea.Cmd
	switch {
	case p.Submitted():
		m.applySettings(p.Settings())
		m.settings = nil
		m.state = stateNormal
		cmd = m.saveConfig()
	case p.Cancelled():
		m.settings = nil
		m.state = stateNormal
	}
	return m, tea.Batch(cmd, m.ensureToastTick())
}

// applySettings pushes s to the overlay and the in-memory config.
func (m *Model) applySettings(s overlay.Settings) {
	m.overlay.Apply(s)
	m.cfg.ResultsPerCategory = s.Limit
	m.cfg.SetChord(s.Chord)
	m.cfg.AddToQueue = s.AddToQueue
	m.keys = DefaultKeyMap(chordHelp(s.Chord))
}

// saveConfig persists a snapshot of the config. The watcher picks the file
// up again and the reload is a no-op for values already applied.
func (m Model) saveConfig() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	snapshot := *m.cfg
	return func() tea.Msg {
		return configSavedMsg{err: config.Save(path, &snapshot)}
	}
}

func (m Model) handleWhatsNewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.whatsNew.ScrollDown()
	case "k", "up":
		m.whatsNew.ScrollUp()
	case "enter", "esc", "q", "space":
		m.cfg.SeenVersion = m.whatsNew.Version()
		m.whatsNew = nil
		m.state = stateNormal
		return m, m.saveConfig()
	}
	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.notifications.ScrollDown()
	case "k", "up":
		m.notifications.ScrollUp()
	case "D":
		if err := m.notifications.Clear(); err != nil {
			return m, m.notifyError("Could not clear notifications: %v", err)
		}
	case "esc", "q", "n":
		m.notifications = nil
		m.state = stateNormal
	}
	return m, nil
}

// handleClick routes primary-button clicks: to the overlay while it is open,
// otherwise to the header search button.
func (m Model) handleClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return m, nil
	}

	if m.overlay.IsOpen() {
		cmd := m.overlay.HandleClick(mouse.X, mouse.Y, overlay.Mods(mouse.Mod))
		return m, m.afterOverlay(cmd)
	}

	if m.state == stateNormal && m.searchButtonHit(mouse.X, mouse.Y) {
		return m.openOverlay()
	}
	return m, nil
}

// listenForReload waits for the next config change and loads the file.
func (m Model) listenForReload() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	ch, path := m.reload, m.configPath
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		cfg, err := config.Load(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) handleConfigReloaded(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	next := m.listenForReload()
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("config reload failed")
		return m, tea.Batch(next, m.notifyError("Config reload failed: %v", msg.err))
	}

	prev := m.overlay.Settings()
	theme := m.cfg.TUI.Theme
	m.cfg = msg.cfg

	settings := settingsFromConfig(m.cfg)
	m.overlay.Apply(settings)
	m.shell.SetOpenCommand(m.cfg.Navigation.OpenCommand)
	m.keys = DefaultKeyMap(chordHelp(settings.Chord))

	if m.cfg.TUI.Theme != theme {
		m.applyTheme(m.cfg.TUI.Theme)
	}
	if settings.Chord != prev.Chord && !settings.Chord.Valid() {
		m.notifyBus.Warnf("%s", MsgInvalidChord)
	}

	m.log.Debug().Int("limit", settings.Limit).Str("chord", settings.Chord.String()).Msg("config reloaded")
	return m, tea.Batch(next, m.ensureToastTick())
}

// applyTheme switches the active theme at runtime.
func (m *Model) applyTheme(name string) {
	palette, ok := styles.GetPalette(name)
	if !ok {
		m.notifyBus.Errorf("unknown theme %q, available: %v", name, styles.ThemeNames())
		return
	}
	styles.SetTheme(palette)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.overlay.Close()
	return m, tea.Quit
}

// ensureToastTick starts the toast timer when toasts are showing. Extra tick
// chains are harmless since expiry reads the clock.
func (m *Model) ensureToastTick() tea.Cmd {
	if m.toastController.HasToasts() {
		return scheduleToastTick()
	}
	return nil
}

// notifyError publishes an error-level notification and returns a command
// to start the toast tick timer if needed.
func (m *Model) notifyError(format string, args ...any) tea.Cmd {
	m.notifyBus.Errorf(format, args...)
	return m.ensureToastTick()
}

func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render composites the screen: page, mode modal, overlay, then toasts.
func (m Model) render() string {
	if m.quitting {
		return ""
	}

	w, h := m.size()
	content := m.renderMain(w, h)

	switch m.state {
	case stateGoto:
		content = m.renderGoto(content, w, h)
	case stateSettings:
		content = m.settings.Overlay(content, w, h)
	case stateWhatsNew:
		content = m.whatsNew.Overlay(content, w, h)
	case stateNotifications:
		content = m.notifications.Overlay(content, w, h)
	}

	content = m.overlay.Overlay(content)

	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}
