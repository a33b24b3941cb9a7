package out

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
	"certflow/internal/ui/theme"
)

// LineConsole asks through a numbered menu on plain streams, for pipes and
// terminals without cursor control.
type LineConsole struct {
	in    *bufio.Reader
	out   io.Writer
	width int
}

var _ resolverout.Console = (*LineConsole)(nil)

func NewLineConsole(in io.Reader, out io.Writer) *LineConsole {
	return &LineConsole{in: bufio.NewReader(in), out: out, width: 80}
}

func (c *LineConsole) CreateSpace() {
	fmt.Fprintln(c.out)
}

func (c *LineConsole) Show(label string, value string) {
	if label != "" {
		fmt.Fprintf(c.out, "%s: %s\n", label, value)
		return
	}
	fmt.Fprintln(c.out, lipgloss.NewStyle().Width(c.width).Render(value))
}

func (c *LineConsole) ChooseOptional(ctx context.Context, prompt string, choices []domain.Choice, abortLabel string) (int, bool, error) {
	return c.choose(ctx, prompt, choices, abortLabel)
}

func (c *LineConsole) ChooseRequired(ctx context.Context, prompt string, choices []domain.Choice) (int, error) {
	idx, _, err := c.choose(ctx, prompt, choices, "")
	return idx, err
}

func (c *LineConsole) choose(ctx context.Context, prompt string, choices []domain.Choice, abortLabel string) (int, bool, error) {
	if len(choices) == 0 {
		return 0, false, errors.New("no choices to present")
	}
	c.render(prompt, choices, abortLabel)
	def := -1
	for i, choice := range choices {
		if choice.Default && !choice.Disabled {
			def = i
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		fmt.Fprint(c.out, theme.Title.Render(prompt)+" ")
		line, err := c.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return 0, false, fmt.Errorf("read answer: %w", err)
			}
			if answer == "" {
				return 0, false, domain.ErrConsoleUnavailable
			}
		}
		switch {
		case answer == "" && def >= 0:
			return def, true, nil
		case strings.EqualFold(answer, "c") && abortLabel != "":
			return 0, false, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < 1 || n > len(choices) {
			fmt.Fprintln(c.out, theme.Hot.Render("Invalid choice, pick a number from the list."))
			continue
		}
		if choices[n-1].Disabled {
			fmt.Fprintln(c.out, theme.Hot.Render(choices[n-1].Label+" is not available: "+choices[n-1].DisabledReason))
			continue
		}
		return n - 1, true, nil
	}
}

func (c *LineConsole) render(prompt string, choices []domain.Choice, abortLabel string) {
	for i, choice := range choices {
		line := fmt.Sprintf(" %d: %s", i+1, choice.Label)
		switch {
		case choice.Disabled:
			line = theme.Muted.Render(line + " (" + choice.DisabledReason + ")")
		case choice.Default:
			line += " [default]"
		}
		fmt.Fprintln(c.out, line)
	}
	if abortLabel != "" {
		fmt.Fprintf(c.out, " C: %s\n", abortLabel)
	}
}
