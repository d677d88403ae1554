// Package normalize canonicalizes skill identifiers so the same skill from
// different sources resolves to one graph node.
package normalize

import (
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("normalize: empty skill name")

// Name lower-cases and trims a raw skill name. Callers must skip entries
// that fail rather than create a node for them.
func Name(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
