// Package report renders comparison results for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"litediff/internal/compare"
)

var markers = map[compare.Status]string{
	compare.Added:     "+",
	compare.Deleted:   "-",
	compare.Modified:  "~",
	compare.Conflict:  "!",
	compare.Unchanged: " ",
}

var headings = map[compare.Status]string{
	compare.Added:     "ADDED",
	compare.Deleted:   "DELETED",
	compare.Modified:  "MODIFIED",
	compare.Conflict:  "CONFLICT",
	compare.Unchanged: "UNCHANGED",
}

// sectionOrder is the order sections appear in a text report.
var sectionOrder = []compare.Status{
	compare.Added,
	compare.Modified,
	compare.Deleted,
	compare.Conflict,
	compare.Unchanged,
}

// Formatter renders result lists as styled text.
type Formatter struct {
	hideUnchanged bool
	styles        map[compare.Status]lipgloss.Style
	heading       lipgloss.Style
}

type Option func(*Formatter)

// HideUnchanged leaves unchanged entries out of the listing. They are still
// counted in the summary.
func HideUnchanged() Option {
	return func(f *Formatter) {
		f.hideUnchanged = true
	}
}

// New returns a Formatter whose styles render through renderer. A nil
// renderer uses the lipgloss default.
func New(renderer *lipgloss.Renderer, opts ...Option) *Formatter {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	f := &Formatter{
		heading: renderer.NewStyle().Bold(true),
		styles: map[compare.Status]lipgloss.Style{
			compare.Added:     renderer.NewStyle().Foreground(lipgloss.Color("2")),
			compare.Deleted:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
			compare.Modified:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
			compare.Conflict:  renderer.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
			compare.Unchanged: renderer.NewStyle().Faint(true),
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders entries grouped by status, each group in the order given,
// followed by a summary line.
func (f *Formatter) Format(entries []compare.DiffEntry) string {
	if !compare.HasChanges(entries) && f.hideUnchanged {
		return "No differences found.\n" + Summarize(entries).String() + "\n"
	}

	groups := make(map[compare.Status][]compare.DiffEntry)
	for _, e := range entries {
		groups[e.Status] = append(groups[e.Status], e)
	}

	var b strings.Builder
	for _, status := range sectionOrder {
		group := groups[status]
		if len(group) == 0 || (status == compare.Unchanged && f.hideUnchanged) {
			continue
		}

		fmt.Fprintf(&b, "%s\n", f.heading.Render(fmt.Sprintf("%s (%d):", headings[status], len(group))))
		style := f.styles[status]
		for _, e := range group {
			b.WriteString("  ")
			b.WriteString(style.Render(markers[status] + " " + DisplayPath(e)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(Summarize(entries).String())
	b.WriteString("\n")
	return b.String()
}

// DisplayPath is the relative path as shown in reports. The root is shown as
// "." and directories carry a trailing slash.
func DisplayPath(e compare.DiffEntry) string {
	p := e.RelativePath
	if p == "" {
		p = "."
	}
	if e.IsDirectory {
		p += "/"
	}
	return p
}

// Summary counts entries per status.
type Summary map[compare.Status]int

func Summarize(entries []compare.DiffEntry) Summary {
	s := make(Summary, len(compare.Statuses))
	for _, e := range entries {
		s[e.Status]++
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Summary: %d added, %d modified, %d deleted, %d conflicts, %d unchanged",
		s[compare.Added], s[compare.Modified], s[compare.Deleted], s[compare.Conflict], s[compare.Unchanged])
}

// WriteJSON writes entries as an indented JSON array. An empty list is
// written as [] rather than null.
func WriteJSON(w io.Writer, entries []compare.DiffEntry) error {
	if entries == nil {
		entries = []compare.DiffEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
