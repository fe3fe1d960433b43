package sprout

import (
	"sort"

	"github.com/sproutlang/sprout/scanner"
)

// FindVariableReferences returns the deduplicated, lexicographically
// sorted names of the top-level variables referenced in input. It needs
// no provider and resolves nothing.
//
// Names inside $(...) and `...` spans are not descended into, and names
// inside single-quoted spans never surface because those regions are
// absorbed into literals. Scanning stops quietly at the first syntax
// error; references collected up to that point are returned.
func FindVariableReferences(input string) []string {
	sc := scanner.New(input)
	seen := make(map[string]struct{})

	for {
		tok, err := sc.Next()
		if err != nil || tok.Type == scanner.EOF {
			break
		}
		if tok.Type == scanner.VARIABLE {
			seen[tok.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
