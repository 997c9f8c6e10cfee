package assembler

import (
	"fmt"
	"strings"
)

// fixation tokens, longest first so the scan is greedy
var fixationTokens = []string{"PP", "PX", "PY", "PZ", "MM", "MX", "MY", "MZ", "MB", "F"}

// degrees of freedom covered by each token
var fixationDOF = map[string][]string{
	"PP": {"PX", "PY", "PZ"},
	"PX": {"PX"},
	"PY": {"PY"},
	"PZ": {"PZ"},
	"MM": {"MX", "MY", "MZ"},
	"MX": {"MX"},
	"MY": {"MY"},
	"MZ": {"MZ"},
	"MB": {"MB"},
	"F":  {"PX", "PY", "PZ", "MX", "MY", "MZ"},
}

/*
checkFixation splits a fixation code like "PPMX" into its tokens, blanks ignored as when it is written;
the returned problem is non empty when the code cannot be read, or names a degree of freedom twice,
both of which the solver resolves in ways the user probably did not intend.
*/
func checkFixation(code string) (problem string) {
	rest := strings.ToUpper(strings.Join(strings.Fields(code), ""))
	if rest == "" {
		return ""
	}
	seen := make(map[string]bool)
	for rest != "" {
		var tok string
		for _, t := range fixationTokens {
			if strings.HasPrefix(rest, t) {
				tok = t
				break
			}
		}
		if tok == "" {
			return fmt.Sprintf("fixation %q is not recognized at %q", code, rest)
		}
		for _, dof := range fixationDOF[tok] {
			if seen[dof] {
				return fmt.Sprintf("fixation %q is ambiguous, %s is fixed more than once", code, dof)
			}
			seen[dof] = true
		}
		rest = rest[len(tok):]
	}
	return ""
}
