package report_test

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litediff/internal/compare"
	"litediff/internal/report"
)

func plain() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return r
}

var sample = []compare.DiffEntry{
	{RelativePath: "", PathA: "/l", PathB: "/r", Status: compare.Unchanged, IsDirectory: true},
	{RelativePath: "docs", PathB: "/r/docs", Status: compare.Added, IsDirectory: true},
	{RelativePath: "docs/new.md", PathB: "/r/docs/new.md", Status: compare.Added},
	{RelativePath: "main.go", PathA: "/l/main.go", PathB: "/r/main.go", Status: compare.Modified},
	{RelativePath: "old.txt", PathA: "/l/old.txt", Status: compare.Deleted},
	{RelativePath: "shape", PathA: "/l/shape", PathB: "/r/shape", Status: compare.Conflict, IsDirectory: true},
}

func TestFormat(t *testing.T) {
	t.Parallel()

	got := report.New(plain()).Format(sample)

	want := "ADDED (2):\n" +
		"  + docs/\n" +
		"  + docs/new.md\n" +
		"\n" +
		"MODIFIED (1):\n" +
		"  ~ main.go\n" +
		"\n" +
		"DELETED (1):\n" +
		"  - old.txt\n" +
		"\n" +
		"CONFLICT (1):\n" +
		"  ! shape/\n" +
		"\n" +
		"UNCHANGED (1):\n" +
		"    ./\n" +
		"\n" +
		"Summary: 2 added, 1 modified, 1 deleted, 1 conflicts, 1 unchanged\n"
	assert.Equal(t, want, got)
}

func TestFormat_HideUnchanged(t *testing.T) {
	t.Parallel()

	got := report.New(plain(), report.HideUnchanged()).Format(sample)

	assert.NotContains(t, got, "UNCHANGED")
	assert.Contains(t, got, "1 unchanged")
}

func TestFormat_NoDifferences(t *testing.T) {
	t.Parallel()

	entries := []compare.DiffEntry{
		{RelativePath: "", Status: compare.Unchanged, IsDirectory: true},
		{RelativePath: "a.txt", Status: compare.Unchanged},
	}

	got := report.New(plain(), report.HideUnchanged()).Format(entries)
	assert.Equal(t, "No differences found.\nSummary: 0 added, 0 modified, 0 deleted, 0 conflicts, 2 unchanged\n", got)
}

func TestFormat_ColorProfile(t *testing.T) {
	t.Parallel()

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	got := report.New(r).Format(sample)

	assert.Contains(t, got, "\x1b[")
	assert.Contains(t, got, "docs/new.md")
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "./", report.DisplayPath(compare.DiffEntry{IsDirectory: true}))
	assert.Equal(t, ".", report.DisplayPath(compare.DiffEntry{}))
	assert.Equal(t, "a/b/", report.DisplayPath(compare.DiffEntry{RelativePath: "a/b", IsDirectory: true}))
	assert.Equal(t, "a/b.txt", report.DisplayPath(compare.DiffEntry{RelativePath: "a/b.txt"}))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := report.Summarize(sample)
	assert.Equal(t, 2, s[compare.Added])
	assert.Equal(t, 1, s[compare.Modified])
	assert.Equal(t, 1, s[compare.Deleted])
	assert.Equal(t, 1, s[compare.Conflict])
	assert.Equal(t, 1, s[compare.Unchanged])
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, sample[:3]))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "", raw[0]["relativePath"])
	assert.Nil(t, raw[1]["pathA"])
	assert.Equal(t, "/r/docs/new.md", raw[2]["pathB"])
	assert.Equal(t, "added", raw[2]["status"])

	var decoded []compare.DiffEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sample[:3], decoded)
}

func TestWriteJSON_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
