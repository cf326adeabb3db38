// Package text normalizes free text into search terms.
package text

import (
	"strings"
	"unicode"
)

// keep reports whether r survives normalization. Everything else becomes a space.
func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '+', r == '/', r == '.', r == '-':
		return true
	}
	return unicode.IsSpace(r)
}

// isSplit reports whether r separates two terms.
func isSplit(r rune) bool {
	switch r {
	case '/', ',', '.', '+', '-':
		return true
	}
	return unicode.IsSpace(r)
}

// Tokenize lowercases s, blanks out anything that is not a letter, digit or
// one of "+/.-", splits on whitespace and those separators, and drops pieces
// shorter than two characters.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if keep(r) {
			return r
		}
		return ' '
	}, strings.ToLower(s))

	fields := strings.FieldsFunc(cleaned, isSplit)
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Searchable joins the non-empty parts with single spaces and lowercases the
// result. It is the haystack every substring rule runs against.
func Searchable(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return strings.ToLower(b.String())
}
