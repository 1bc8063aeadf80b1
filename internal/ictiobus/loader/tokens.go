package loader

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/internal/ictiobus/lexspec"
)

// ParseTokenList parses src, a line-oriented list of token definitions, one
// `name = pattern` assignment per line, mirroring ParseGrammar's
// comment/blank-line rules (# or // comments, blank lines ignored). Token
// ids are assigned by line order starting at 1, matching lexspec.TokenDef's
// priority-is-list-order convention: the first definition in the file has
// the highest maximal-munch priority.
//
// A pattern may optionally be wrapped in double quotes, which is stripped
// before the pattern reaches the regex parser; this lets a pattern contain
// leading or trailing whitespace unambiguously.
func ParseTokenList(src string) ([]lexspec.TokenDef, error) {
	var defs []lexspec.TokenDef
	nextID := 1

	for lineNo, raw := range strings.Split(src, "\n") {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, fmt.Errorf("loader: line %d: expected 'name = pattern' in %q", lineNo+1, line)
		}
		name := strings.TrimSpace(line[:eq])
		pattern := strings.TrimSpace(line[eq+1:])
		if name == "" {
			return nil, fmt.Errorf("loader: line %d: token definition has no name", lineNo+1)
		}
		if len(pattern) >= 2 && pattern[0] == '"' && pattern[len(pattern)-1] == '"' {
			pattern = pattern[1 : len(pattern)-1]
		}
		if pattern == "" {
			return nil, fmt.Errorf("loader: line %d: token %q has no pattern", lineNo+1, name)
		}

		defs = append(defs, lexspec.TokenDef{ID: nextID, Name: name, Pattern: pattern})
		nextID++
	}

	if len(defs) == 0 {
		return nil, fmt.Errorf("loader: no token definitions found")
	}
	return defs, nil
}
