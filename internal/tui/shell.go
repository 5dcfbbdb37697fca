package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/powerbar/internal/core/catalog"
	"github.com/colonyops/powerbar/internal/core/history"
	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/colonyops/powerbar/pkg/executil"
)

const openTimeout = 10 * time.Second

// openDoneMsg reports the result of running the external opener.
type openDoneMsg struct {
	url string
	err error
}

// Shell is the host's page navigator. Visited pages go onto a back/forward
// history; when an open command is configured each visit is also handed to
// it as an open.spotify.com link.
type Shell struct {
	history     *history.Stack
	exec        executil.Executor
	openCommand string
	pending     []string
	now         func() time.Time
	log         zerolog.Logger
}

// NewShell returns a shell with an empty history.
func NewShell(exec executil.Executor, openCommand string) *Shell {
	if exec == nil {
		exec = &executil.RealExecutor{}
	}
	return &Shell{
		history:     history.New(history.DefaultLimit),
		exec:        exec,
		openCommand: openCommand,
		now:         time.Now,
		log:         logging.Component("shell"),
	}
}

// Navigate visits the page for uri.
func (s *Shell) Navigate(uri string) error {
	return s.visit(uri, "")
}

// NavigateItem visits the page for it, titled with the item name.
func (s *Shell) NavigateItem(it suggest.Item) error {
	return s.visit(it.URI, it.Name)
}

func (s *Shell) visit(raw, title string) error {
	u, err := catalog.ParseURI(raw)
	if err != nil {
		return err
	}

	s.history.Push(history.Entry{URI: u, Title: title, VisitedAt: s.now()})
	s.log.Debug().Str("uri", u.String()).Msg("visit")

	if s.openCommand != "" {
		s.pending = append(s.pending, u.WebURL())
	}
	return nil
}

// Back moves to the previous page.
func (s *Shell) Back() bool {
	_, ok := s.history.Back()
	return ok
}

// Forward moves to the next page.
func (s *Shell) Forward() bool {
	_, ok := s.history.Forward()
	return ok
}

// Current returns the page being shown.
func (s *Shell) Current() (history.Entry, bool) {
	return s.history.Current()
}

// History returns the underlying stack.
func (s *Shell) History() *history.Stack {
	return s.history
}

// SetOpenCommand replaces the external open command. Empty disables it.
func (s *Shell) SetOpenCommand(cmd string) {
	s.openCommand = cmd
}

// Flush returns a command that hands every pending visit to the external
// opener, or nil when nothing is pending.
func (s *Shell) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	urls := s.pending
	s.pending = nil

	cmds := make([]tea.Cmd, 0, len(urls))
	for _, url := range urls {
		cmds = append(cmds, s.open(url))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) open(url string) tea.Cmd {
	e, command := s.exec, s.openCommand
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()
		return openDoneMsg{url: url, err: executil.Open(ctx, e, command, url)}
	}
}
