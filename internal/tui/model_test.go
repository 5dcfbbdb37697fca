package tui

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/colonyops/powerbar/internal/spotify"
	"github.com/colonyops/powerbar/internal/tui/overlay"
	"github.com/colonyops/powerbar/pkg/executil"
	"github.com/colonyops/powerbar/pkg/tuitest"
)

// manualTimer only fires when the test says so.
type manualTimer struct {
	ch chan time.Time
}

func (t *manualTimer) Stop() bool          { return true }
func (t *manualTimer) C() <-chan time.Time { return t.ch }

type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) Now() time.Time { return time.Time{} }

func (c *manualClock) NewTimer(time.Duration) search.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

// expire fires the most recent debounce timer.
func (c *manualClock) expire(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.timers, "no debounce timer started")
	c.timers[len(c.timers)-1].ch <- time.Time{}
}

// driver runs a Model the way the Bubble Tea runtime does: commands execute
// on their own goroutines and their messages are fed back into Update.
type driver struct {
	t     *testing.T
	m     Model
	clock *manualClock
	exec  *executil.RecordingExecutor
	demo  *spotify.Demo
	msgs  chan tea.Msg
}

func newDriver(t *testing.T, cfg *config.Config, opts Options) *driver {
	t.Helper()
	d := &driver{
		t:     t,
		clock: &manualClock{},
		exec:  &executil.RecordingExecutor{},
		demo:  spotify.NewDemo(),
		msgs:  make(chan tea.Msg, 64),
	}
	if opts.Searcher == nil {
		opts.Searcher = d.demo
	}
	if opts.Player == nil {
		opts.Player = d.demo
	}
	opts.Executor = d.exec
	opts.Clock = d.clock
	if opts.GOOS == "" {
		opts.GOOS = "linux"
	}

	d.m = New(cfg, opts)
	d.run(d.m.Init())
	d.send(tuitest.WindowSize(100, 40))
	return d
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SetChord(activation.Chord{Modifier: activation.ModifierCtrl, Key: "space"})
	return &cfg
}

func (d *driver) send(msg tea.Msg) {
	d.t.Helper()
	next, cmd := d.m.Update(msg)
	d.m = next.(Model)
	d.run(cmd)
}

func (d *driver) keys(msgs ...tea.KeyPressMsg) {
	d.t.Helper()
	for _, msg := range msgs {
		d.send(msg)
	}
}

func (d *driver) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() { d.msgs <- cmd() }()
}

// pump delivers command results until cond holds.
func (d *driver) pump(cond func(Model) bool) {
	d.t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond(d.m) {
		select {
		case msg := <-d.msgs:
			switch msg := msg.(type) {
			case nil:
			case tea.BatchMsg:
				for _, cmd := range msg {
					d.run(cmd)
				}
			default:
				d.send(msg)
			}
		case <-deadline:
			d.t.Fatal("timed out waiting for model condition")
		}
	}
}

// search opens the overlay, types query and waits for the results.
func (d *driver) search(query string) {
	d.t.Helper()
	d.send(tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl))
	require.True(d.t, d.m.Overlay().IsOpen())
	d.keys(tuitest.Type(query)...)
	d.clock.expire(d.t)
	d.pump(func(m Model) bool { return m.Overlay().State() == overlay.StateOpenWithResults })
}

func TestModel_ChordOpensOverlayAndEnterNavigates(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.search("daft pu")

	entry, ok := d.m.Overlay().Current()
	require.True(t, ok)
	assert.Equal(t, "One More Time", entry.Item.Name)

	d.send(tuitest.KeyEnter())

	assert.False(t, d.m.Overlay().IsOpen())
	cur, ok := d.m.Shell().Current()
	require.True(t, ok)
	assert.Equal(t, "spotify:track:0DiWol3AO6WpXZgp0goxAV", cur.URI.String())
	assert.Equal(t, "One More Time", cur.Title)
	assert.Empty(t, d.demo.Played())
}

func TestModel_PlayModifierPlaysWithoutNavigating(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.search("daft pu")
	d.send(tuitest.KeyPressMod(tea.KeyEnter, tea.ModCtrl))
	d.pump(func(Model) bool { return len(d.demo.Played()) == 1 })

	assert.True(t, d.m.Overlay().IsOpen())
	_, ok := d.m.Shell().Current()
	assert.False(t, ok)
	assert.Equal(t, []string{"spotify:track:0DiWol3AO6WpXZgp0goxAV"}, d.demo.Played())
}

func TestModel_AddToQueueQueuesAlbumTracks(t *testing.T) {
	cfg := testConfig()
	cfg.AddToQueue = true
	d := newDriver(t, cfg, Options{})

	d.search("discovery")
	d.send(tuitest.KeyPressMod(tea.KeyEnter, tea.ModCtrl))
	d.pump(func(m Model) bool { return !m.Overlay().IsOpen() })

	assert.Equal(t, []string{
		"spotify:track:0DiWol3AO6WpXZgp0goxAV",
		"spotify:track:5W3cjX2J3tjhG8zb6u0qHn",
	}, d.demo.Queue())
	require.True(t, d.m.toastController.HasToasts())
	assert.Equal(t, overlay.MsgAddedToQueue, d.m.toastController.Toasts()[0].notification.Message)
}

func TestModel_ChordTogglesOverlayClosed(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl))
	require.True(t, d.m.Overlay().IsOpen())

	d.send(tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl))
	assert.False(t, d.m.Overlay().IsOpen())
}

func TestModel_SearchKeyOpensOverlay(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress('/'))

	assert.True(t, d.m.Overlay().IsOpen())
	assert.Empty(t, d.m.Overlay().Value())
}

func TestModel_HeaderButtonClickOpensOverlay(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.Click(0, 5))
	assert.False(t, d.m.Overlay().IsOpen())

	d.send(tuitest.Click(99, 0))
	assert.True(t, d.m.Overlay().IsOpen())
}

func TestModel_ClickOutsideClosesOverlay(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress('/'))
	require.True(t, d.m.Overlay().IsOpen())

	d.send(tuitest.Click(0, 39))
	assert.False(t, d.m.Overlay().IsOpen())
}

func TestModel_DisabledChordDoesNothing(t *testing.T) {
	cfg := testConfig()
	cfg.SetChord(activation.Chord{})
	d := newDriver(t, cfg, Options{})

	d.send(tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl))

	assert.False(t, d.m.Overlay().IsOpen())
}

func TestModel_ChordIgnoredInsideGotoInput(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress('g'))
	require.Equal(t, stateGoto, d.m.State())

	d.send(tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl))

	assert.False(t, d.m.Overlay().IsOpen())
	assert.Equal(t, stateGoto, d.m.State())
}

func TestModel_GotoNavigates(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress('g'))
	d.keys(tuitest.Type("https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc")...)
	d.send(tuitest.KeyEnter())

	assert.Equal(t, stateNormal, d.m.State())
	cur, ok := d.m.Shell().Current()
	require.True(t, ok)
	assert.Equal(t, "spotify:album:2noRn2Aes5aoNVsU6iWThc", cur.URI.String())
}

func TestModel_GotoRejectsJunk(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress('g'))
	d.keys(tuitest.Type("not a link")...)
	d.send(tuitest.KeyEnter())

	assert.Equal(t, stateGoto, d.m.State())
	_, ok := d.m.Shell().Current()
	assert.False(t, ok)
	require.True(t, d.m.toastController.HasToasts())
	assert.Contains(t, d.m.toastController.Toasts()[0].notification.Message, "Not a Spotify link")
}

func TestModel_BackAndForward(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})
	require.NoError(t, d.m.Shell().Navigate("spotify:artist:4tZwfgrHOc3mvqYlEYSvVi"))
	require.NoError(t, d.m.Shell().Navigate("spotify:album:2noRn2Aes5aoNVsU6iWThc"))

	d.send(tuitest.KeyPress('b'))
	cur, _ := d.m.Shell().Current()
	assert.Equal(t, "artist", cur.URI.Kind)

	d.send(tuitest.KeyPress('f'))
	cur, _ = d.m.Shell().Current()
	assert.Equal(t, "album", cur.URI.Kind)
}

func TestModel_OpenCommandRunsOnNavigate(t *testing.T) {
	cfg := testConfig()
	cfg.Navigation.OpenCommand = "xdg-open"
	d := newDriver(t, cfg, Options{})

	d.search("daft pu")
	d.send(tuitest.KeyEnter())
	d.pump(func(Model) bool { return len(d.exec.Commands()) == 1 })

	assert.Equal(t, []executil.RecordedCommand{
		{Cmd: "xdg-open", Args: []string{"https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV"}},
	}, d.exec.Commands())
}

func TestModel_OpenCommandFailureShowsToast(t *testing.T) {
	cfg := testConfig()
	cfg.Navigation.OpenCommand = "xdg-open"
	d := newDriver(t, cfg, Options{})
	d.exec.Errors = map[string]error{"xdg-open": errors.New("not found")}

	d.send(tuitest.KeyPress('g'))
	d.keys(tuitest.Type("spotify:artist:4tZwfgrHOc3mvqYlEYSvVi")...)
	d.send(tuitest.KeyEnter())
	d.pump(func(m Model) bool { return m.toastController.HasToasts() })

	assert.Contains(t, d.m.toastController.Toasts()[0].notification.Message, "Could not open")
}

func TestModel_SettingsSaveAppliesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	d := newDriver(t, testConfig(), Options{ConfigPath: path})

	d.send(tuitest.KeyPress(','))
	require.Equal(t, stateSettings, d.m.State())

	// Results 3 -> 5, then record alt+k on the chord field and save.
	d.keys(tuitest.KeyPress('l'), tuitest.KeyPress('l'))
	d.send(tuitest.KeyDown())
	d.send(tuitest.KeyEnter())
	d.send(tuitest.KeyPressMod('k', tea.ModAlt))
	d.send(tuitest.KeyEnter())
	require.False(t, d.m.settings.Recording())
	d.send(tuitest.KeyDown())
	d.send(tuitest.KeyEnter())

	assert.Equal(t, stateNormal, d.m.State())
	got := d.m.Overlay().Settings()
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, activation.Chord{Modifier: activation.ModifierAlt, Key: "k"}, got.Chord)

	var saved *config.Config
	d.pump(func(Model) bool {
		cfg, err := config.Load(path)
		if err != nil || cfg.ResultsPerCategory != 5 {
			return false
		}
		saved = cfg
		return true
	})
	assert.Equal(t, "alt", saved.Activation.Modifier)
	assert.Equal(t, "k", saved.Activation.Key)

	d.send(tuitest.KeyPressMod('k', tea.ModAlt))
	assert.True(t, d.m.Overlay().IsOpen())
}

func TestModel_SettingsCancelKeepsValues(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress(','))
	d.send(tuitest.KeyPress('l'))
	d.send(tuitest.KeyEsc())

	assert.Equal(t, stateNormal, d.m.State())
	assert.Equal(t, 3, d.m.Overlay().Settings().Limit)
}

func TestModel_SettingsInvalidChordWarns(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(tuitest.KeyPress(','))
	d.send(tuitest.KeyDown())
	d.send(tuitest.KeyEnter())
	d.send(tuitest.KeyEnter())

	require.True(t, d.m.toastController.HasToasts())
	assert.Equal(t, MsgInvalidChord, d.m.toastController.Toasts()[0].notification.Message)

	d.send(tuitest.KeyDown())
	d.send(tuitest.KeyEnter())
	assert.Equal(t, stateNormal, d.m.State())
	assert.False(t, d.m.Overlay().Settings().Chord.Valid())
}

func TestModel_WhatsNewShownOnceAfterUpgrade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := testConfig()
	cfg.SeenVersion = "v1.0.0"
	d := newDriver(t, cfg, Options{ConfigPath: path, Build: BuildInfo{Version: "v1.1.0"}})

	require.Equal(t, stateWhatsNew, d.m.State())
	assert.Contains(t, tuitest.StripANSI(d.m.render()), "New in powerbar v1.1.0")

	d.send(tuitest.KeyEnter())

	assert.Equal(t, stateNormal, d.m.State())
	d.pump(func(Model) bool {
		saved, err := config.Load(path)
		return err == nil && saved.SeenVersion == "v1.1.0"
	})

	again := New(d.m.cfg, Options{Build: BuildInfo{Version: "v1.1.0"}, Searcher: d.demo})
	assert.Equal(t, stateNormal, again.State())
}

func TestModel_ConfigReloadApplies(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	next := testConfig()
	next.ResultsPerCategory = 7
	next.AddToQueue = true
	d.send(configReloadedMsg{cfg: next})

	got := d.m.Overlay().Settings()
	assert.Equal(t, 7, got.Limit)
	assert.True(t, got.AddToQueue)
	assert.False(t, d.m.toastController.HasToasts())
}

func TestModel_ConfigReloadWarnsOnBrokenChord(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	next := testConfig()
	next.Activation = config.ActivationConfig{Modifier: "space", Key: "k"}
	d.send(configReloadedMsg{cfg: next})

	assert.False(t, d.m.Overlay().Settings().Chord.Valid())
	require.True(t, d.m.toastController.HasToasts())
	assert.Equal(t, MsgInvalidChord, d.m.toastController.Toasts()[0].notification.Message)
}

func TestModel_ConfigReloadError(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})

	d.send(configReloadedMsg{err: errors.New("bad yaml")})

	require.True(t, d.m.toastController.HasToasts())
	assert.Contains(t, d.m.toastController.Toasts()[0].notification.Message, "Config reload failed")
	assert.Equal(t, 3, d.m.Overlay().Settings().Limit)
}

func TestModel_ReloadChannelLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := testConfig()
	cfg.ResultsPerCategory = 6
	require.NoError(t, config.Save(path, cfg))

	reload := make(chan struct{}, 1)
	d := newDriver(t, testConfig(), Options{ConfigPath: path, Reload: reload})

	reload <- struct{}{}
	d.pump(func(m Model) bool { return m.Overlay().Settings().Limit == 6 })
}

func TestModel_StartupWarningsBecomeToasts(t *testing.T) {
	d := newDriver(t, testConfig(), Options{Warnings: []string{"no credentials"}})

	require.True(t, d.m.toastController.HasToasts())
	assert.Contains(t, tuitest.StripANSI(d.m.render()), "no credentials")
}

func TestModel_ToastsExpire(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})
	now := time.Now()
	d.m.toastController.now = func() time.Time { return now }
	d.m.notifyBus.Infof("hello")
	require.True(t, d.m.toastController.HasToasts())

	now = now.Add(defaultToastTTL + time.Millisecond)
	d.send(toastTickMsg{})

	assert.False(t, d.m.toastController.HasToasts())
}

func TestModel_NotificationsModal(t *testing.T) {
	d := newDriver(t, testConfig(), Options{Store: notify.NewMemoryStore(10)})
	d.m.notifyBus.Errorf("boom")

	d.send(tuitest.KeyPress('n'))
	require.Equal(t, stateNotifications, d.m.State())
	assert.Contains(t, tuitest.StripANSI(d.m.render()), "boom")

	d.send(tuitest.KeyEsc())
	assert.Equal(t, stateNormal, d.m.State())
}

func TestModel_Quit(t *testing.T) {
	d := newDriver(t, testConfig(), Options{})
	d.send(tuitest.KeyPress('/'))

	next, cmd := d.m.Update(tea.KeyPressMsg(tea.Key{Code: 'c', Mod: tea.ModCtrl}))
	m := next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Overlay().IsOpen())
	assert.Empty(t, m.render())
}

func spotifyDiscovery() suggest.Item {
	return suggest.Item{
		ID:            "2noRn2Aes5aoNVsU6iWThc",
		URI:           "spotify:album:2noRn2Aes5aoNVsU6iWThc",
		Kind:          suggest.KindAlbum,
		Name:          "Discovery",
		SecondaryText: "Daft Punk",
	}
}

func TestModel_ViewShowsDemoBadgeAndPage(t *testing.T) {
	d := newDriver(t, testConfig(), Options{Demo: true})
	require.NoError(t, d.m.Shell().NavigateItem(spotifyDiscovery()))

	out := tuitest.StripANSI(d.m.render())

	assert.Contains(t, out, "(demo catalog)")
	assert.Contains(t, out, "Discovery")
	assert.Contains(t, out, "https://open.spotify.com/album/2noRn2Aes5aoNVsU6iWThc")
}
