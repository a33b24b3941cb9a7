package out

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
	apperrors "certflow/internal/platform/errors"
	"certflow/internal/ui/theme"
	"certflow/internal/ui/views/chooser"
)

// TUIConsole asks through a bubbletea menu; it needs a terminal on both ends.
type TUIConsole struct {
	in       io.Reader
	out      io.Writer
	width    int
	renderer *glamour.TermRenderer
}

var _ resolverout.Console = (*TUIConsole)(nil)

func NewTUIConsole(in io.Reader, out io.Writer, width int) *TUIConsole {
	if width <= 0 {
		width = 80
	}
	c := &TUIConsole{in: in, out: out, width: width}
	// Without a renderer Show prints guidance with theme.Guidance.
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	); err == nil {
		c.renderer = r
	}
	return c
}

func (c *TUIConsole) CreateSpace() {
	fmt.Fprintln(c.out)
}

func (c *TUIConsole) Show(label string, value string) {
	if label != "" {
		fmt.Fprintln(c.out, theme.Title.Render(label)+" "+value)
		return
	}
	if c.renderer != nil {
		if rendered, err := c.renderer.Render(value); err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, theme.Guidance.Width(c.width-2).Render(value))
}

func (c *TUIConsole) ChooseOptional(ctx context.Context, prompt string, choices []domain.Choice, abortLabel string) (int, bool, error) {
	result, err := c.run(ctx, chooser.New(prompt, choices, true, abortLabel), choices)
	if err != nil {
		return 0, false, err
	}
	if result.Aborted {
		return 0, false, nil
	}
	return result.Index, true, nil
}

func (c *TUIConsole) ChooseRequired(ctx context.Context, prompt string, choices []domain.Choice) (int, error) {
	result, err := c.run(ctx, chooser.New(prompt, choices, false, ""), choices)
	if err != nil {
		return 0, err
	}
	return result.Index, nil
}

func (c *TUIConsole) run(ctx context.Context, model chooser.Model, choices []domain.Choice) (chooser.Result, error) {
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(c.in), tea.WithOutput(c.out))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return chooser.Result{}, ctx.Err()
		}
		return chooser.Result{}, fmt.Errorf("run chooser: %w", err)
	}
	m, ok := final.(chooser.Model)
	if !ok {
		return chooser.Result{}, fmt.Errorf("run chooser: unexpected model %T", final)
	}
	result, done := m.Result()
	if !done || result.Interrupted {
		return chooser.Result{}, apperrors.ErrCanceled
	}
	// the menu clears itself; leave the answer on screen
	if result.Aborted {
		fmt.Fprintln(c.out, theme.Muted.Render("aborted"))
	} else if result.Index >= 0 && result.Index < len(choices) {
		fmt.Fprintln(c.out, theme.Muted.Render("> "+choices[result.Index].Label))
	}
	return result, nil
}
