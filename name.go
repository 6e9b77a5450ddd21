package docbase

import (
	"fmt"
	"strings"
)

// validateCollectionName enforces spec.md §6's grammar: 1-64 chars
// from [A-Za-z0-9_-], first char a letter, no ".", "/", "\",
// whitespace, or any of <>:"|?*.
func validateCollectionName(name string) error {
	if len(name) == 0 || len(name) > 64 {
		return fmt.Errorf("collection name must be 1-64 characters, got %d", len(name))
	}
	first := name[0]
	if !isLetter(first) {
		return fmt.Errorf("collection name %q must start with a letter", name)
	}
	if strings.ContainsAny(name, "<>:\"|?*/\\") || strings.Contains(name, " ") || strings.Contains(name, "\t") {
		return fmt.Errorf("collection name %q contains a disallowed character", name)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' && c != '-' {
			return fmt.Errorf("collection name %q contains a disallowed character", name)
		}
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
