package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/colonyops/powerbar/pkg/tuitest"
)

type fakeTimer struct {
	ch chan time.Time
}

func (t *fakeTimer) Stop() bool          { return true }
func (t *fakeTimer) C() <-chan time.Time { return t.ch }

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time { return time.Time{} }

func (c *fakeClock) NewTimer(time.Duration) search.Timer {
	t := &fakeTimer{ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string]map[suggest.Category][]suggest.Item
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) (map[suggest.Category][]suggest.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

type recordingNavigator struct {
	uris []string
	err  error
}

func (n *recordingNavigator) Navigate(uri string) error {
	n.uris = append(n.uris, uri)
	return n.err
}

type recordingPlayer struct {
	mu         sync.Mutex
	played     []string
	queued     []string
	albums     []string
	enqueueErr error
	tracks     []suggest.Item
}

func (p *recordingPlayer) Play(_ context.Context, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, uri)
	return nil
}

func (p *recordingPlayer) Enqueue(_ context.Context, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enqueueErr != nil {
		return p.enqueueErr
	}
	p.queued = append(p.queued, uri)
	return nil
}

func (p *recordingPlayer) AlbumTracks(_ context.Context, albumID string, _ int) ([]suggest.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.albums = append(p.albums, albumID)
	return p.tracks, nil
}

type recordingNotifier struct {
	infos  []string
	errors []string
}

func (n *recordingNotifier) Infof(format string, args ...any) {
	n.infos = append(n.infos, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Errorf(format string, args ...any) {
	n.errors = append(n.errors, fmt.Sprintf(format, args...))
}

var (
	trackOne   = suggest.Item{ID: "t1", URI: "spotify:track:t1", Kind: suggest.KindTrack, Name: "One More Time", SecondaryText: "Daft Punk"}
	trackTwo   = suggest.Item{ID: "t2", URI: "spotify:track:t2", Kind: suggest.KindTrack, Name: "Aerodynamic", SecondaryText: "Daft Punk"}
	albumOne   = suggest.Item{ID: "al1", URI: "spotify:album:al1", Kind: suggest.KindAlbum, Name: "Discovery", SecondaryText: "Daft Punk"}
	artistOne  = suggest.Item{ID: "ar1", URI: "spotify:artist:ar1", Kind: suggest.KindArtist, Name: "Daft Punk"}
	errNetwork = errors.New("connection reset")
)

func daftPunkResults() map[suggest.Category][]suggest.Item {
	return map[suggest.Category][]suggest.Item{
		suggest.CategoryTracks:    {trackOne, trackTwo},
		suggest.CategoryArtists:   {},
		suggest.CategoryAlbums:    {albumOne},
		suggest.CategoryPlaylists: nil,
	}
}

type harness struct {
	c        *Controller
	clock    *fakeClock
	searcher *stubSearcher
	nav      *recordingNavigator
	player   *recordingPlayer
	notifier *recordingNotifier
}

func newHarness(t *testing.T, settings Settings) *harness {
	t.Helper()
	if settings.Chord.IsZero() {
		settings.Chord = activation.Chord{Modifier: activation.ModifierCtrl, Key: "space"}
	}
	h := &harness{
		clock: &fakeClock{},
		searcher: &stubSearcher{results: map[string]map[suggest.Category][]suggest.Item{
			"daft pu": daftPunkResults(),
		}},
		nav:      &recordingNavigator{},
		player:   &recordingPlayer{},
		notifier: &recordingNotifier{},
	}
	h.c = New(h.searcher, h.nav, h.player, h.notifier, Options{
		Settings: settings,
		Clock:    h.clock,
		GOOS:     "linux",
	})
	h.c.SetSize(80, 40)
	return h
}

func chordPress() tea.KeyPressMsg {
	return tuitest.KeyPressMod(tea.KeySpace, tea.ModCtrl)
}

func (h *harness) typeText(s string) {
	for _, msg := range tuitest.Type(s) {
		h.c.HandleKey(msg)
	}
}

// expire fires the newest debounce timer and returns its expiration.
func (h *harness) expire(t *testing.T) search.Elapsed {
	t.Helper()
	h.clock.timers[len(h.clock.timers)-1].ch <- time.Now()

	select {
	case ev := <-h.c.dispatcher.Elapsed():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounce expiration")
		return search.Elapsed{}
	}
}

// settle fires the pending debounce timer and applies the search response.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	cmd := h.c.fire(h.expire(t))
	if cmd == nil {
		t.Fatal("expected a search request")
	}
	h.c.Update(cmd())
}

// run executes cmd and feeds its message back into the controller.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, ok := h.c.Update(cmd())
	if !ok {
		t.Fatal("controller did not handle the command result")
	}
}
