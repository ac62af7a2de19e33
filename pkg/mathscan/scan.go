// Package mathscan finds TeX math in a run of Markdown text.
//
// A Scanner walks one segment left to right and reports non-overlapping
// spans, each tagged inline or display. Recognised forms:
//
//	$$ ... $$              display
//	\[ ... \]              display
//	\begin{env} ... \end{env}  display, for known environments
//	$ ... $                inline
//	\( ... \)              inline
//
// A backslash escapes the following character, so \$ is never a delimiter.
package mathscan

import (
	"bytes"
	"slices"
)

// Kind tells inline math from display math.
type Kind uint8

const (
	// KindInline is math embedded in running text.
	KindInline Kind = iota

	// KindDisplay is block-level math.
	KindDisplay
)

func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindDisplay:
		return "display"
	default:
		return "unknown"
	}
}

// Span is a math occurrence with absolute byte offsets [Start, End),
// delimiters included.
type Span struct {
	Start int
	End   int
	Kind  Kind
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Options selects which delimiter families are recognised.
type Options struct {
	// Dollars enables $...$ and $$...$$.
	Dollars bool

	// Brackets enables \[...\].
	Brackets bool

	// Parens enables \(...\).
	Parens bool

	// Environments enables \begin{env}...\end{env} for the names in
	// EnvironmentNames, or DefaultEnvironments when that is empty.
	Environments     bool
	EnvironmentNames []string
}

// DefaultOptions enables every delimiter family except environments.
func DefaultOptions() Options {
	return Options{
		Dollars:  true,
		Brackets: true,
		Parens:   true,
	}
}

// DefaultEnvironments lists the LaTeX environments treated as display math.
func DefaultEnvironments() []string {
	return []string{
		"equation", "equation*",
		"align", "align*",
		"gather", "gather*",
		"multline", "multline*",
		"eqnarray", "eqnarray*",
		"displaymath",
	}
}

// Scanner recognises math spans. It holds no per-scan state and is safe
// for concurrent use.
type Scanner struct {
	opts Options
	envs map[string]struct{}
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	names := opts.EnvironmentNames
	if len(names) == 0 {
		names = DefaultEnvironments()
	}

	envs := make(map[string]struct{}, len(names))
	for _, name := range names {
		envs[name] = struct{}{}
	}

	return &Scanner{opts: opts, envs: envs}
}

// Options returns the scanner's configuration.
func (s *Scanner) Options() Options {
	opts := s.opts
	opts.EnvironmentNames = slices.Clone(opts.EnvironmentNames)
	return opts
}

// Scan returns the math spans in segment, in order. base is the absolute
// offset of segment[0] and is added to every reported offset.
func (s *Scanner) Scan(segment []byte, base int) []Span {
	var spans []Span

	for i := 0; i < len(segment); {
		end, kind, ok := s.match(segment, i)
		if !ok {
			if segment[i] == '\\' {
				i += 2
			} else {
				i++
			}
			continue
		}

		spans = append(spans, Span{Start: base + i, End: base + end, Kind: kind})
		i = end
	}

	return spans
}

// match tries to recognise math starting exactly at segment[i].
func (s *Scanner) match(segment []byte, i int) (int, Kind, bool) {
	switch segment[i] {
	case '$':
		if !s.opts.Dollars {
			return 0, 0, false
		}
		if i+1 < len(segment) && segment[i+1] == '$' {
			end, ok := matchDisplayDollars(segment, i)
			return end, KindDisplay, ok
		}
		end, ok := matchInlineDollar(segment, i)
		return end, KindInline, ok

	case '\\':
		if i+1 >= len(segment) {
			return 0, 0, false
		}
		switch segment[i+1] {
		case '[':
			if s.opts.Brackets {
				end, ok := matchEscaped(segment, i+2, ']')
				return end, KindDisplay, ok
			}
		case '(':
			if s.opts.Parens {
				end, ok := matchEscaped(segment, i+2, ')')
				return end, KindInline, ok
			}
		case 'b':
			if s.opts.Environments {
				end, ok := s.matchEnvironment(segment, i)
				return end, KindDisplay, ok
			}
		}
	}

	return 0, 0, false
}

// matchDisplayDollars matches $$...$$ with non-blank content.
func matchDisplayDollars(segment []byte, open int) (int, bool) {
	for j := open + 2; j+1 < len(segment); j++ {
		switch segment[j] {
		case '\\':
			j++
		case '$':
			if segment[j+1] != '$' {
				continue
			}
			if isBlankRun(segment[open+2 : j]) {
				return 0, false
			}
			return j + 2, true
		}
	}
	return 0, false
}

// matchInlineDollar matches $...$ on a single line. The content may not
// start or end with a space, and the closing $ may not be followed by a
// digit, so "$5 and $6" is plain text.
func matchInlineDollar(segment []byte, open int) (int, bool) {
	first := open + 1
	if first >= len(segment) || isSpace(segment[first]) || segment[first] == '$' {
		return 0, false
	}

	for j := first; j < len(segment); j++ {
		switch segment[j] {
		case '\\':
			j++
		case '\n':
			return 0, false
		case '$':
			if isSpace(segment[j-1]) {
				return 0, false
			}
			if j+1 < len(segment) && isDigit(segment[j+1]) {
				return 0, false
			}
			return j + 1, true
		}
	}
	return 0, false
}

// matchEscaped finds the first unescaped "\" + closer at or after from.
func matchEscaped(segment []byte, from int, closer byte) (int, bool) {
	for j := from; j+1 < len(segment); j++ {
		if segment[j] != '\\' {
			continue
		}
		if segment[j+1] == closer {
			return j + 2, true
		}
		j++
	}
	return 0, false
}

func (s *Scanner) matchEnvironment(segment []byte, i int) (int, bool) {
	const begin = `\begin{`

	if !bytes.HasPrefix(segment[i:], []byte(begin)) {
		return 0, false
	}

	nameStart := i + len(begin)
	nameLen := bytes.IndexByte(segment[nameStart:], '}')
	if nameLen <= 0 {
		return 0, false
	}
	name := segment[nameStart : nameStart+nameLen]
	if _, ok := s.envs[string(name)]; !ok {
		return 0, false
	}

	closing := []byte(`\end{` + string(name) + `}`)
	bodyStart := nameStart + nameLen + 1
	idx := bytes.Index(segment[bodyStart:], closing)
	if idx < 0 {
		return 0, false
	}

	return bodyStart + idx + len(closing), true
}

func isBlankRun(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
