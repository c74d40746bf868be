package table

import (
	"strings"
)

const (
	// ColumnDelimiter separates cells inside a row of a raw table
	ColumnDelimiter = ";"
	// RowDelimiter separates rows of a raw table
	RowDelimiter = "\n"
	// PayloadColumnDelimiter separates cells in clipboard payloads
	PayloadColumnDelimiter = "\t"
)

// Row is a rendered body row. Label is the first cell, shown as a
// non-selectable row identifier and never copied.
type Row struct {
	Label  string
	Values []string
}

// Cells returns the label followed by the values
func (r Row) Cells() []string {
	return append([]string{r.Label}, r.Values...)
}

// Renderer holds a raw semicolon-delimited table and the display state
// derived from it. A Renderer is owned by a single request and is not safe
// for concurrent use.
type Renderer struct {
	raw            string
	commaSeparator bool
	display        string
	clipboard      bool
	groups         []CopyGroup
}

// Option configures a Renderer
type Option func(*Renderer)

// WithClipboard enables or disables the copy affordances
func WithClipboard(enabled bool) Option {
	return func(r *Renderer) {
		r.clipboard = enabled
	}
}

// WithCommaSeparator sets the initial decimal separator mode
func WithCommaSeparator(comma bool) Option {
	return func(r *Renderer) {
		r.commaSeparator = comma
	}
}

// WithCopyGroups replaces the default copy groups
func WithCopyGroups(groups []CopyGroup) Option {
	return func(r *Renderer) {
		r.groups = append([]CopyGroup(nil), groups...)
	}
}

// New creates a renderer for the given raw table
func New(data string, opts ...Option) *Renderer {
	r := &Renderer{
		raw:       data,
		clipboard: true,
		groups:    DefaultCopyGroups(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.display = Normalize(r.raw, r.commaSeparator)
	return r
}

// Raw returns the table exactly as supplied
func (r *Renderer) Raw() string {
	return r.raw
}

// Display returns the table after decimal separator normalization
func (r *Renderer) Display() string {
	return r.display
}

// CommaSeparator reports whether the comma display is active
func (r *Renderer) CommaSeparator() bool {
	return r.commaSeparator
}

// ClipboardEnabled reports whether copy affordances should be offered
func (r *Renderer) ClipboardEnabled() bool {
	return r.clipboard
}

// Groups returns the configured copy groups
func (r *Renderer) Groups() []CopyGroup {
	return append([]CopyGroup(nil), r.groups...)
}

// Toggle flips the decimal separator mode and recomputes the display table
// from the raw input.
func (r *Renderer) Toggle() {
	r.SetCommaSeparator(!r.commaSeparator)
}

// SetCommaSeparator sets the decimal separator mode
func (r *Renderer) SetCommaSeparator(comma bool) {
	r.commaSeparator = comma
	r.display = Normalize(r.raw, comma)
}

// Header returns the header cells of the display table
func (r *Renderer) Header() []string {
	lines := splitLines(r.display)
	return strings.Split(lines[0], ColumnDelimiter)
}

// Rows returns the display body rows split into cells. Empty lines are skipped.
func (r *Renderer) Rows() [][]string {
	lines := bodyLines(r.display)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.Split(line, ColumnDelimiter))
	}
	return rows
}

// Body returns the display body rows with the label column separated
func (r *Renderer) Body() []Row {
	cells := r.Rows()
	rows := make([]Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, Row{Label: c[0], Values: c[1:]})
	}
	return rows
}

// CopyAll returns the clipboard payload for every body row
func (r *Renderer) CopyAll() string {
	return CleanData(r.display)
}

// CopyRange returns the clipboard payload for body rows [start, end).
// Indexes outside the table are tolerated and yield whatever subset exists.
func (r *Renderer) CopyRange(start, end int) string {
	lines := payloadLines(r.display)
	from, to := sliceBounds(len(lines), start, end)
	return strings.Join(lines[from:to], RowDelimiter)
}

// CopyGroup returns the payload of the named group
func (r *Renderer) CopyGroup(name string) (string, bool) {
	for _, g := range r.groups {
		if g.Name == name {
			return r.CopyRange(g.Start, g.End), true
		}
	}
	return "", false
}

// Normalize rewrites decimal separators line by line: every "." becomes ","
// when comma is set, otherwise every "," becomes ".".
func Normalize(data string, comma bool) string {
	old, repl := ",", "."
	if comma {
		old, repl = ".", ","
	}
	lines := strings.Split(data, RowDelimiter)
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, old, repl)
	}
	return strings.Join(lines, RowDelimiter)
}

// CleanData drops the header row and the first column of every body row and
// returns the rest as tab-separated, newline-joined text.
func CleanData(data string) string {
	return strings.Join(payloadLines(data), RowDelimiter)
}

func payloadLines(data string) []string {
	lines := bodyLines(data)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cells := strings.Split(line, ColumnDelimiter)
		out = append(out, strings.Join(cells[1:], PayloadColumnDelimiter))
	}
	return out
}

func splitLines(data string) []string {
	lines := strings.Split(data, RowDelimiter)
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func bodyLines(data string) []string {
	lines := splitLines(data)[1:]
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// sliceBounds resolves start and end against a sequence of length n.
// Negative indexes count back from the end; everything is clamped to [0, n].
func sliceBounds(n, start, end int) (int, int) {
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	from, to := clamp(start), clamp(end)
	if to < from {
		to = from
	}
	return from, to
}
