package style

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/rebackup/pkg/errors"
)

// Entry is a named item of a rendered list
type Entry struct {
	Name        string
	Description string
}

// Renderer renders messages for a terminal or a plain stream
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer writing to w. Without color, every style
// renders as plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{w: w, styles: NewStyles(r)}
}

// NewAutoRenderer creates a renderer writing to w, with colors when w
// supports them
func NewAutoRenderer(w io.Writer) *Renderer {
	return NewRenderer(w, ColorEnabled(w))
}

// RenderError renders an error message followed by its details, sorted by key
func (r *Renderer) RenderError(err error) string {
	var b strings.Builder
	b.WriteString(r.styles.Error.Render("Error:"))
	b.WriteString(" ")
	b.WriteString(errorMessage(err))

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString("\n")
		b.WriteString(r.styles.Detail.Render(fmt.Sprintf("%s: %v", key, details[key])))
	}

	return b.String()
}

// RenderWarning renders a warning message
func (r *Renderer) RenderWarning(message string) string {
	return r.styles.Warning.Render("Warning:") + " " + message
}

// RenderList renders a titled list of entries, one per line
func (r *Renderer) RenderList(title string, entries []Entry) string {
	width := 0
	for _, e := range entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(title))
	for _, e := range entries {
		b.WriteString("\n  ")
		b.WriteString(r.styles.Name.Render(e.Name))
		b.WriteString(strings.Repeat(" ", width-len(e.Name)+2))
		b.WriteString(r.styles.Muted.Render(e.Description))
	}

	return b.String()
}

// Error writes the rendered error on its own line
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.w, r.RenderError(err))
}

// Warning writes the rendered warning on its own line
func (r *Renderer) Warning(message string) {
	_, _ = fmt.Fprintln(r.w, r.RenderWarning(message))
}

// errorMessage drops the code prefix of rebackup errors, keeping the
// wrapped cause
func errorMessage(err error) string {
	var rbErr *errors.RebackupError
	if stderrors.As(err, &rbErr) {
		if rbErr.Wrapped != nil {
			return rbErr.Message + ": " + errorMessage(rbErr.Wrapped)
		}
		return rbErr.Message
	}
	return err.Error()
}
