// Package overlay implements the quick search overlay: a keyboard-activated
// search box over the catalog with categorized, selectable suggestions.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/catalog"
	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/selection"
	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/colonyops/powerbar/internal/spotify"
)

const (
	// Placeholder is shown in the empty search field.
	Placeholder = "Search Spotify"

	actionTimeout = 15 * time.Second
)

// Notification texts shown for queue actions.
const (
	MsgAddedToQueue   = "Added to queue"
	MsgNotQueueable   = "This item can't be added to the queue"
	MsgSomethingWrong = "Something went wrong"
)

type (
	elapsedMsg search.Elapsed
	resultMsg  search.Response

	actionKind int

	actionDoneMsg struct {
		kind actionKind
		uri  string
		err  error
	}
)

const (
	actionPlay actionKind = iota
	actionEnqueue
)

// Settings are the user-adjustable overlay options.
type Settings struct {
	Limit      int
	Chord      activation.Chord
	AddToQueue bool
}

// Options configures a Controller.
type Options struct {
	Settings
	Delay time.Duration
	Clock search.Clock
	GOOS  string
}

// Controller owns the overlay state. All methods must be called from the
// Bubble Tea update loop.
type Controller struct {
	state      State
	input      textinput.Model
	dispatcher *search.Dispatcher
	detector   *activation.Detector
	cursor     *selection.Cursor
	viewport   selection.Viewport
	result     suggest.Result
	noResults  bool
	addToQueue bool
	playMods   activation.Mods

	navigator Navigator
	player    Player
	notifier  Notifier

	width, height int
	layout        Layout

	listening bool
	cancel    context.CancelFunc
	log       zerolog.Logger
}

// New creates a closed overlay.
func New(searcher search.Searcher, nav Navigator, player Player, notifier Notifier, opts Options) *Controller {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}

	input := textinput.New()
	input.Placeholder = Placeholder
	input.Prompt = styles.IconSearch + " "
	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Focused.Prompt = lipgloss.NewStyle().Foreground(styles.ColorPrimary)
	inputStyles.Focused.Placeholder = styles.OverlayPlaceholder
	inputStyles.Cursor.Color = styles.ColorPrimary
	input.SetStyles(inputStyles)

	c := &Controller{
		state: StateClosed,
		input: input,
		dispatcher: search.New(searcher, search.Options{
			Delay: opts.Delay,
			Limit: opts.Limit,
			Clock: opts.Clock,
		}),
		detector:   activation.NewDetector(opts.Chord),
		addToQueue: opts.AddToQueue,
		playMods:   activation.PlayMods(opts.GOOS),
		navigator:  nav,
		player:     player,
		notifier:   notifier,
		width:      80,
		height:     24,
		log:        logging.Component("overlay"),
	}
	c.cursor = selection.New(c.viewport.Follow(c.span))
	c.relayout()
	return c
}

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the overlay is visible.
func (c *Controller) IsOpen() bool { return c.state.Open() }

// Result returns the suggestions currently shown.
func (c *Controller) Result() suggest.Result { return c.result }

// Current returns the highlighted suggestion.
func (c *Controller) Current() (suggest.Entry, bool) { return c.cursor.Current() }

// Value returns the raw search field text.
func (c *Controller) Value() string { return c.input.Value() }

// Detector returns the activation detector shared with the host.
func (c *Controller) Detector() *activation.Detector { return c.detector }

// Settings returns the active settings.
func (c *Controller) Settings() Settings {
	return Settings{
		Limit:      c.dispatcher.Limit(),
		Chord:      c.detector.Chord(),
		AddToQueue: c.addToQueue,
	}
}

// Apply replaces the user settings. A changed limit takes effect on the next
// query.
func (c *Controller) Apply(s Settings) {
	c.dispatcher.SetLimit(s.Limit)
	c.detector.SetChord(s.Chord)
	c.addToQueue = s.AddToQueue
}

// SetSize records the terminal size.
func (c *Controller) SetSize(width, height int) {
	c.width, c.height = width, height
	c.relayout()
}

// IsActivation reports whether msg is the activation chord for target.
func (c *Controller) IsActivation(msg tea.KeyPressMsg, target activation.Target) bool {
	return c.detector.IsActivation(KeyEvent(msg, target))
}

// Open shows the overlay with an empty, focused search field.
func (c *Controller) Open() tea.Cmd {
	if c.state.Open() {
		return nil
	}
	c.input.SetValue("")
	c.state = StateOpenEmpty
	c.log.Debug().Msg("opened")
	return tea.Batch(c.input.Focus(), c.listen())
}

// Close hides the overlay and drops every pending search.
func (c *Controller) Close() {
	if !c.state.Open() {
		return
	}
	c.input.Blur()
	c.input.SetValue("")
	c.clear()
	c.state = StateClosed
	c.log.Debug().Msg("closed")
}

// Toggle opens a closed overlay and closes an open one.
func (c *Controller) Toggle() tea.Cmd {
	if c.state.Open() {
		c.Close()
		return nil
	}
	return c.Open()
}

func (c *Controller) clear() {
	c.dispatcher.Reset()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.result = suggest.Result{}
	c.noResults = false
	c.viewport.Offset = 0
	c.relayout()
	c.cursor.Clear()
}

// listen waits for the next debounce expiration. Only one listener is
// outstanding at a time.
func (c *Controller) listen() tea.Cmd {
	if c.listening {
		return nil
	}
	c.listening = true
	ch := c.dispatcher.Elapsed()
	return func() tea.Msg {
		return elapsedMsg(<-ch)
	}
}

// Update handles overlay messages. It reports false for messages the overlay
// does not own; while open those still reach the search field so its cursor
// keeps blinking.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case elapsedMsg:
		c.listening = false
		return tea.Batch(c.fire(search.Elapsed(msg)), c.listen()), true
	case resultMsg:
		c.accept(search.Response(msg))
		return nil, true
	case actionDoneMsg:
		c.actionDone(msg)
		return nil, true
	}

	if !c.state.Open() {
		return nil, false
	}
	// Pastes and other non-key input still edit the query.
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.submit()
	}
	return cmd, false
}

func (c *Controller) fire(ev search.Elapsed) tea.Cmd {
	req, ok := c.dispatcher.Fire(ev)
	if !ok {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	d := c.dispatcher
	return func() tea.Msg {
		return resultMsg(d.Run(ctx, req))
	}
}

func (c *Controller) accept(resp search.Response) {
	if !c.state.Open() || !c.dispatcher.Accept(resp) {
		return
	}

	if resp.Err != nil {
		if errors.Is(resp.Err, context.Canceled) {
			return
		}
		c.log.Error().Err(resp.Err).Str("query", resp.Query).Msg("search failed")
		c.notifier.Errorf("Search failed: %v", resp.Err)
		c.dispatcher.Forget(resp.Query)
		if c.result.Empty() {
			c.state = StateOpenEmpty
		} else {
			c.state = StateOpenWithResults
		}
		return
	}

	c.result = resp.Result
	c.noResults = resp.Result.Empty()
	c.viewport.Offset = 0
	c.relayout()
	c.cursor.Reset(c.result.Flat())
	if c.result.Empty() {
		c.state = StateOpenEmpty
	} else {
		c.state = StateOpenWithResults
	}
}

// HandleKey processes a key press while the overlay is open.
func (c *Controller) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	if !c.state.Open() {
		return nil
	}
	if c.IsActivation(msg, activation.Target{Kind: activation.TargetTextInput, ID: activation.SearchFieldID}) {
		c.Close()
		return nil
	}

	k := msg.Key()
	switch msg.String() {
	case "esc":
		if c.input.Value() != "" {
			c.input.SetValue("")
			c.clear()
			c.state = StateOpenEmpty
			return nil
		}
		c.Close()
		return nil
	case "up":
		c.cursor.MoveBy(-1)
		return nil
	case "down":
		c.cursor.MoveBy(1)
		return nil
	case "tab":
		if c.state == StateOpenWithResults {
			c.cursor.NextCategory()
		}
		return nil
	case "shift+tab":
		if c.state == StateOpenWithResults {
			c.cursor.PrevCategory()
		}
		return nil
	}

	if k.Code == tea.KeyEnter {
		entry, ok := c.cursor.Current()
		if !ok {
			return nil
		}
		return c.emit(entry.Item, Mods(k.Mod))
	}

	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() != before {
		c.submit()
	}
	return cmd
}

func (c *Controller) submit() {
	switch c.dispatcher.Submit(c.input.Value()) {
	case search.OutcomeCleared:
		c.clear()
		c.state = StateOpenEmpty
	case search.OutcomeScheduled:
		c.noResults = false
		c.state = StateOpenSearching
	case search.OutcomeDuplicate:
	}
}

// HandleClick processes a primary-button click at screen cell (x, y). A click
// outside the box closes the overlay; a click on a suggestion selects it.
func (c *Controller) HandleClick(x, y int, mods activation.Mods) tea.Cmd {
	if !c.state.Open() {
		return nil
	}
	l := c.Layout()
	if !l.Contains(x, y) {
		c.Close()
		return nil
	}
	idx, ok := l.HitTest(x, y)
	if !ok || !c.cursor.Select(idx) {
		return nil
	}
	entry, _ := c.cursor.Current()
	return c.emit(entry.Item, mods)
}

// emit hands the selected item to the host. Without the play modifier the
// item is opened and the overlay closes; with it the item is played or, when
// queueing is enabled, added to the queue.
func (c *Controller) emit(it suggest.Item, mods activation.Mods) tea.Cmd {
	if !mods.Has(c.playMods) {
		err := c.navigate(it)
		c.Close()
		if err != nil {
			c.log.Error().Err(err).Str("uri", it.URI).Msg("navigate failed")
			c.notifier.Errorf("Could not open %s: %v", it.Name, err)
		}
		return nil
	}

	if c.addToQueue {
		return c.enqueue(it)
	}
	return c.play(it)
}

func (c *Controller) navigate(it suggest.Item) error {
	if n, ok := c.navigator.(ItemNavigator); ok {
		return n.NavigateItem(it)
	}
	return c.navigator.Navigate(it.URI)
}

func (c *Controller) play(it suggest.Item) tea.Cmd {
	p := c.player
	uri := it.URI
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionDoneMsg{kind: actionPlay, uri: uri, err: p.Play(ctx, uri)}
	}
}

func (c *Controller) enqueue(it suggest.Item) tea.Cmd {
	var uris func(ctx context.Context) ([]string, error)
	switch it.Kind {
	case suggest.KindTrack:
		uris = func(context.Context) ([]string, error) { return []string{it.URI}, nil }
	case suggest.KindAlbum:
		uris = c.albumURIs(it)
	default:
		c.notifier.Errorf(MsgNotQueueable)
		return nil
	}

	p := c.player
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		list, err := uris(ctx)
		if err != nil {
			return actionDoneMsg{kind: actionEnqueue, uri: it.URI, err: err}
		}
		for _, u := range list {
			if err := p.Enqueue(ctx, u); err != nil {
				return actionDoneMsg{kind: actionEnqueue, uri: it.URI, err: fmt.Errorf("enqueue %s: %w", u, err)}
			}
		}
		return actionDoneMsg{kind: actionEnqueue, uri: it.URI}
	}
}

func (c *Controller) albumURIs(it suggest.Item) func(context.Context) ([]string, error) {
	p := c.player
	return func(ctx context.Context) ([]string, error) {
		id := it.ID
		if id == "" {
			u, err := catalog.ParseURI(it.URI)
			if err != nil {
				return nil, err
			}
			id = u.ID
		}
		tracks, err := p.AlbumTracks(ctx, id, spotify.MaxAlbumTracks)
		if err != nil {
			return nil, fmt.Errorf("album tracks %s: %w", id, err)
		}
		out := make([]string, 0, len(tracks))
		for _, t := range tracks {
			out = append(out, t.URI)
		}
		return out, nil
	}
}

func (c *Controller) actionDone(msg actionDoneMsg) {
	switch msg.kind {
	case actionPlay:
		if msg.err != nil {
			c.log.Error().Err(msg.err).Str("uri", msg.uri).Msg("play failed")
			c.notifier.Errorf(MsgSomethingWrong)
		}
	case actionEnqueue:
		c.Close()
		if msg.err != nil {
			c.log.Error().Err(msg.err).Str("uri", msg.uri).Msg("enqueue failed")
			c.notifier.Errorf(MsgSomethingWrong)
			return
		}
		c.notifier.Infof(MsgAddedToQueue)
	}
}

// span reports the list rows of entry index.
func (c *Controller) span(index int) (int, int) {
	if index < 0 || index >= len(c.layout.Spans) {
		return 0, 0
	}
	s := c.layout.Spans[index]
	// Keep the heading above the first item of a category in view.
	top := s.Top
	if top > 0 && c.layout.Rows[top-1].Kind == RowHeading {
		top--
	}
	return top, s.Bottom
}

func (c *Controller) relayout() {
	c.input.SetWidth(max(c.innerWidth()-lipgloss.Width(c.input.Prompt)-1, 1))
	c.layout = ComputeLayout(c.snapshot(), c.width, c.height, c.viewport.Offset)
	c.viewport.Height = c.layout.Visible
	c.viewport.Content = len(c.layout.Rows)
	c.viewport.Offset = c.layout.Offset
}

func (c *Controller) innerWidth() int {
	return min(max(c.width-4, minBoxWidth), maxBoxWidth) - innerPad
}

func (c *Controller) snapshot() Snapshot {
	selected := -1
	if c.cursor != nil {
		if i, ok := c.cursor.Index(); ok {
			selected = i
		}
	}
	return Snapshot{
		State:     c.state,
		Input:     c.input.View(),
		Sets:      c.result.Sets(),
		Selected:  selected,
		NoResults: c.noResults,
		Short:     len([]rune(c.input.Value())) > 0 && c.state == StateOpenEmpty && !c.noResults && c.result.Empty(),
	}
}

// Snapshot returns the state the next frame is drawn from.
func (c *Controller) Snapshot() Snapshot {
	return c.snapshot()
}

// Layout returns the placement of the current frame.
func (c *Controller) Layout() Layout {
	return ComputeLayout(c.snapshot(), c.width, c.height, c.viewport.Offset)
}

// View renders the overlay box, or "" when closed.
func (c *Controller) View() string {
	return Render(c.snapshot(), c.Layout())
}

// Overlay composites the box over background.
func (c *Controller) Overlay(background string) string {
	s := c.snapshot()
	l := ComputeLayout(s, c.width, c.height, c.viewport.Offset)
	return Overlay(Render(s, l), l, background)
}
