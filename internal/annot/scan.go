package annot

import "strings"

// markPrefix opens an equation annotation: \mark[term]{content}.
const markPrefix = `\mark[`

// MatchBrace returns the index just past the '}' matching the '{' whose
// content begins at start (one level of nesting is already open when the
// scan begins). Braces preceded by a single unescaped backslash are
// ignored. Returns -1 if the text ends before the depth returns to zero.
func MatchBrace(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			if !escaped(s, i) {
				depth++
			}
		case '}':
			if !escaped(s, i) {
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return -1
}

// escaped reports whether the character at i is escaped: the preceding
// character is a backslash that is not itself escaped. Only single-level
// escaping is recognized.
func escaped(s string, i int) bool {
	if i == 0 || s[i-1] != '\\' {
		return false
	}
	return i < 2 || s[i-2] != '\\'
}

// mark is one successfully scanned \mark[term]{content} annotation.
type mark struct {
	term    string
	content string
	end     int // index just past the closing brace
}

// scanMark scans a \mark annotation beginning at start (which must point
// at the backslash of markPrefix). Returns ok=false for malformed input:
// missing ']', empty term, no '{' after the bracket, or an unmatched brace.
func scanMark(s string, start int) (mark, bool) {
	nameStart := start + len(markPrefix)
	rb := strings.IndexByte(s[nameStart:], ']')
	if rb < 0 {
		return mark{}, false
	}
	term := s[nameStart : nameStart+rb]
	if term == "" {
		return mark{}, false
	}
	open := nameStart + rb + 1
	if open >= len(s) || s[open] != '{' {
		return mark{}, false
	}
	end := MatchBrace(s, open+1)
	if end < 0 {
		return mark{}, false
	}
	return mark{term: term, content: s[open+1 : end-1], end: end}, true
}

// ref is one successfully scanned [display]{.term} reference.
type ref struct {
	display string
	term    string
	end     int // index just past the closing brace
}

// scanRef scans a description reference beginning at start (which must
// point at the '['). The display text may not contain ']' and the term
// may not contain '}'; neither construct nests.
func scanRef(s string, start int) (ref, bool) {
	rb := strings.IndexByte(s[start+1:], ']')
	if rb < 0 {
		return ref{}, false
	}
	display := s[start+1 : start+1+rb]
	rest := start + 1 + rb + 1
	if rest+1 >= len(s) || s[rest] != '{' || s[rest+1] != '.' {
		return ref{}, false
	}
	cb := strings.IndexByte(s[rest+2:], '}')
	if cb < 0 {
		return ref{}, false
	}
	term := s[rest+2 : rest+2+cb]
	if term == "" {
		return ref{}, false
	}
	return ref{display: display, term: term, end: rest + 2 + cb + 1}, true
}
