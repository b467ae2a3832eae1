package crawler

import (
	"fmt"
	"regexp"
	"strings"
)

// CompileGlob compiles a URL glob into an anchored regular expression.
// "**" matches any run of characters including slashes, "*" matches any
// run excluding slashes, everything else matches literally.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, ErrEmptyGlob
	}

	var sb strings.Builder
	sb.WriteString("^")

	i := 0
	for i < len(pattern) {
		if pattern[i] == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i += 2
			} else {
				sb.WriteString("[^/]*")
				i++
			}
			continue
		}
		sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
		i++
	}

	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile glob %q: %w", pattern, err)
	}

	return re, nil
}
