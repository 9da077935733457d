package compare

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"litediff/internal/config"
	"litediff/internal/fault"
	"litediff/internal/walker"
)

// IsFileModified decides whether two regular files differ under cfg.
// Content is read only when both sizes are within MaxFileSize and either the
// sizes match or a normalization option is set.
func IsFileModified(fsys billy.Filesystem, pathA, pathB string, a, b walker.Entry, cfg *config.Config) (bool, error) {
	if modified, decided := sizeVerdict(a, b, cfg); decided {
		return modified, nil
	}
	return contentModified(fsys, pathA, pathB, cfg)
}

// sizeVerdict settles a file pair from metadata alone when it can.
func sizeVerdict(a, b walker.Entry, cfg *config.Config) (modified, decided bool) {
	if cfg.IgnoreContents {
		return a.Size != b.Size, true
	}
	if a.Size != b.Size {
		// Line ending and whitespace normalization can make files of
		// different sizes equal, so those still need a read.
		normalizing := cfg.IgnoreEndOfLine || cfg.IgnoreTrimWhitespace
		if !normalizing || a.Size > cfg.MaxFileSize || b.Size > cfg.MaxFileSize {
			return true, true
		}
		return false, false
	}
	// Equal sizes past the ceiling are assumed unchanged without reading.
	if a.Size > cfg.MaxFileSize {
		return false, true
	}
	return false, false
}

func contentModified(fsys billy.Filesystem, pathA, pathB string, cfg *config.Config) (bool, error) {
	dataA, err := util.ReadFile(fsys, pathA)
	if err != nil {
		return false, fault.Read("read", pathA, err)
	}
	dataB, err := util.ReadFile(fsys, pathB)
	if err != nil {
		return false, fault.Read("read", pathB, err)
	}

	if bytes.Equal(dataA, dataB) {
		return false, nil
	}
	if !cfg.IgnoreEndOfLine && !cfg.IgnoreTrimWhitespace {
		return true, nil
	}
	return normalize(dataA, cfg) != normalize(dataB, cfg), nil
}

// normalize applies the configured line ending and whitespace rules, line
// endings first. Bytes that are not valid UTF-8 are kept as they are, so
// binary differences survive normalization.
func normalize(data []byte, cfg *config.Config) string {
	text := string(data)

	if cfg.IgnoreEndOfLine {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	if cfg.IgnoreTrimWhitespace {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimFunc(line, isTrimmable)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

// isTrimmable matches the white space and line terminators stripped by an
// ECMAScript trim: Unicode White_Space without U+0085, plus the BOM.
func isTrimmable(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
