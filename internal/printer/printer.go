// Package printer writes styled status lines for the non-interactive
// commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/powerbar/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to a writer.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) line(prefix string, style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		msg = style.Render(prefix) + " " + msg
	}
	_, _ = fmt.Fprintln(p.w, msg)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line("", lipgloss.Style{}, format, args...)
}

// Successf writes a line marked as passed.
func (p *Printer) Successf(format string, args ...any) {
	p.line("✔", lipgloss.NewStyle().Foreground(styles.ColorSuccess), format, args...)
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line("•", lipgloss.NewStyle().Foreground(styles.ColorPrimary), format, args...)
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line("!", lipgloss.NewStyle().Foreground(styles.ColorWarning), format, args...)
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line("✘", lipgloss.NewStyle().Foreground(styles.ColorError), format, args...)
}

// Section writes a bold heading.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w, lipgloss.NewStyle().Bold(true).Render(title))
}
