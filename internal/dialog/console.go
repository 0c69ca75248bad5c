// Package dialog implements the user-facing message surfaces: a terminal
// console, zenity popups and a text-to-speech speaker.
package dialog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/desktop-scenarios/internal/action"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	errorBoxStyle = boxStyle.BorderForeground(lipgloss.Color("204"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
)

// Console shows messages as boxes on out and reads form input line by line
// from in. When interactive, messages wait for Enter.
type Console struct {
	out         io.Writer
	in          io.Reader
	interactive bool

	mu    sync.Mutex
	once  sync.Once
	lines chan string
}

// NewConsole returns a console dialog.
func NewConsole(in io.Reader, out io.Writer, interactive bool) *Console {
	return &Console{in: in, out: out, interactive: interactive}
}

func (c *Console) start() {
	c.once.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			if c.in == nil {
				return
			}
			sc := bufio.NewScanner(c.in)
			for sc.Scan() {
				c.lines <- sc.Text()
			}
		}()
	})
}

// ReadLine waits up to timeout for one input line. A zero timeout waits
// forever. ok is false on EOF or timeout.
func (c *Console) ReadLine(timeout time.Duration) (string, bool) {
	c.start()
	if timeout <= 0 {
		line, ok := <-c.lines
		return line, ok
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case line, ok := <-c.lines:
		return line, ok
	case <-t.C:
		return "", false
	}
}

// Confirm reports whether a line was entered within timeout.
func (c *Console) Confirm(timeout time.Duration) bool {
	_, ok := c.ReadLine(timeout)
	return ok
}

// Render formats a message box.
func Render(title, body string, isError bool) string {
	style := boxStyle
	if isError {
		style = errorBoxStyle
	}
	return style.Render(titleStyle.Render(title) + "\n" + body)
}

func (c *Console) DisplayMessage(title, body string, isError bool) {
	c.mu.Lock()
	fmt.Fprintln(c.out, Render(title, body, isError))
	if c.interactive {
		fmt.Fprintln(c.out, hintStyle.Render("press Enter to continue"))
	}
	c.mu.Unlock()
	if c.interactive {
		c.ReadLine(0)
	}
}

// PromptForm asks for each field on its own line. End of input cancels.
func (c *Console) PromptForm(title string, fields []action.FormField) (map[string]string, bool, error) {
	c.mu.Lock()
	fmt.Fprintln(c.out, Render(title, "Fill in the fields below. End input (Ctrl-D) to cancel.", false))
	c.mu.Unlock()

	values := make(map[string]string, len(fields))
	for _, f := range fields {
		c.mu.Lock()
		fmt.Fprintf(c.out, "%s: ", f.Label())
		c.mu.Unlock()
		line, ok := c.ReadLine(0)
		if !ok {
			fmt.Fprintln(c.out)
			return nil, false, nil
		}
		values[f.Name] = strings.TrimRight(line, "\r")
	}
	return values, true, nil
}
