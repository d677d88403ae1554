// Package docparse extracts plain text from uploaded resume documents.
package docparse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser turns an uploaded document into clean plain text.
type Parser interface {
	Parse(filename string, content []byte) (string, error)
}

var (
	runsOfSpace    = regexp.MustCompile(`[^\S\n]+`)
	runsOfNewlines = regexp.MustCompile(`\n{2,}`)
)

// TextParser handles plain-text uploads. Binary formats need dedicated
// parsers and are rejected with ErrUnsupportedFormat.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Parse(filename string, content []byte) (string, error) {
	switch ext(filename) {
	case "txt", "text", "md":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext(filename))
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %q is not valid utf-8", ErrUnsupportedFormat, filename)
	}
	return CleanText(string(content)), nil
}

// CleanText collapses whitespace runs while keeping line structure.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = runsOfNewlines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func ext(filename string) string {
	parts := strings.Split(strings.ToLower(filename), ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
