package router

import (
	"fmt"
	"regexp"
	"strings"
)

// CompiledPattern is the cached, derived view of a route pattern: an anchored
// regular expression plus the parameter names in the order their capturing
// groups appear.
type CompiledPattern struct {
	pattern    string
	regexp     *regexp.Regexp
	paramNames []string
}

// CompilePattern compiles a route pattern into a matcher. The pattern is
// scanned left to right: a segment beginning with ':' becomes a capture of
// one-or-more non-'/' characters named by the text up to the next '/', a
// literal '*' becomes an unnamed match of zero-or-more arbitrary characters
// (including '/'), and everything else matches literally. The compiled
// matcher anchors at both ends of the input path.
func CompilePattern(pattern string) (*CompiledPattern, error) {
	var expr strings.Builder
	var paramNames []string

	expr.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case pattern[i] == ':' && (i == 0 || pattern[i-1] == '/'):
			rest := pattern[i+1:]
			end := strings.IndexByte(rest, '/')
			var name string
			if end < 0 {
				name = rest
				i = len(pattern)
			} else {
				name = rest[:end]
				i += 1 + end
			}
			if name == "" {
				return nil, fmt.Errorf("pattern %q: missing parameter name after ':'", pattern)
			}
			paramNames = append(paramNames, name)
			expr.WriteString("([^/]+)")
		case pattern[i] == '*':
			expr.WriteString(".*")
			i++
		default:
			expr.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	return &CompiledPattern{
		pattern:    pattern,
		regexp:     re,
		paramNames: paramNames,
	}, nil
}

// Pattern returns the original pattern string.
func (p *CompiledPattern) Pattern() string {
	return p.pattern
}

// ParamNames returns the parameter names in encounter order.
func (p *CompiledPattern) ParamNames() []string {
	return p.paramNames
}

// Match applies the compiled matcher to path. On success it returns the
// parameter bindings, zipping the ordered names with the ordered captures; a
// missing capture binds to the empty string, never to an absent key. If the
// same name appears more than once, the later capture overwrites the earlier.
// No URL decoding is performed; parameter values are raw path substrings.
func (p *CompiledPattern) Match(path string) (map[string]string, bool) {
	submatches := p.regexp.FindStringSubmatch(path)
	if submatches == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.paramNames))
	for i, name := range p.paramNames {
		if i+1 < len(submatches) {
			params[name] = submatches[i+1]
		} else {
			params[name] = ""
		}
	}
	return params, true
}
