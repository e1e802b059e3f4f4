// Package blocklist loads a domain blocklist and answers whether a given
// query name is blocked: either an exact match against a plain entry, or
// an ancestor-domain match against a wildcard entry's suffix.
package blocklist

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// List is an immutable, loaded blocklist. entries maps a stored suffix to
// whether it was a wildcard (*.suffix) entry.
type List struct {
	entries map[string]bool
}

// Load reads the sequence-of-strings YAML document at path and validates
// every entry. A missing file is created empty and an empty List is
// returned — this is not an error. An entry with more than one "*.", with
// "*." at its very end, or with a "*" not followed by "." at all, is
// fatal.
func Load(path string, logger *slog.Logger) (*List, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to create blocklist file %s: %w", path, err)
		}
		logger.Info("blocklist file did not exist, created empty", "path", path)
		return &List{entries: map[string]bool{}}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist file %s: %w", path, err)
	}

	var names []string
	if err := yaml.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("invalid blocklist yaml in %s: %w", path, err)
	}

	entries := make(map[string]bool, len(names))
	for _, name := range names {
		suffix, wildcard, err := validateEntry(name)
		if err != nil {
			return nil, fmt.Errorf("invalid blocklist entry in %s: %w", path, err)
		}
		entries[suffix] = wildcard
	}

	logger.Info("loaded blocklist", "path", path, "count", len(entries))
	return &List{entries: entries}, nil
}

// validateEntry mirrors the original implementation's three rejected
// shapes for a wildcard entry: a "*" not followed immediately by ".", more
// than one "*." occurrence, and a "*." that lands at the very end.
func validateEntry(s string) (suffix string, wildcard bool, err error) {
	if !strings.Contains(s, "*") {
		return s, false, nil
	}

	first := strings.Index(s, "*.")
	if first == -1 {
		return "", false, fmt.Errorf("'*' must be followed by '.': %q", s)
	}
	if last := strings.LastIndex(s, "*."); first != last {
		return "", false, fmt.Errorf("blocklist entry contained more than one '*.': %q", s)
	}
	if first == len(s)-2 {
		return "", false, fmt.Errorf("'*.' must not appear at end of entry: %q", s)
	}

	return s[first+2:], true, nil
}

// Blocked reports whether name is blocked: either it exactly matches a
// non-wildcard entry, or some ancestor of it (built by progressively
// dropping the leftmost label) matches a wildcard entry's suffix.
func (l *List) Blocked(name string) bool {
	if wildcard, ok := l.entries[name]; ok && !wildcard {
		return true
	}

	ancestor := name
	for {
		idx := strings.IndexByte(ancestor, '.')
		if idx == -1 {
			return false
		}
		ancestor = ancestor[idx+1:]
		if wildcard, ok := l.entries[ancestor]; ok && wildcard {
			return true
		}
	}
}
