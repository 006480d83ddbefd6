package export

import "strings"

// segment is a run of either plain text or an inline $...$ math fragment
// (delimiters included). Escaping must tokenize math first: reserved
// characters inside math belong to the math notation and are passed
// through untouched.
type segment struct {
	math bool
	text string
}

// splitMath tokenizes s into text and inline-math segments. A '$' opens a
// math fragment unless escaped with a single backslash; an unterminated
// fragment is treated as plain text to the end of input.
func splitMath(s string) []segment {
	var segs []segment
	start := 0
	i := 0
	for i < len(s) {
		if s[i] == '$' && !escapedAt(s, i) {
			end := -1
			for j := i + 1; j < len(s); j++ {
				if s[j] == '$' && !escapedAt(s, j) {
					end = j
					break
				}
			}
			if end < 0 {
				break
			}
			if i > start {
				segs = append(segs, segment{text: s[start:i]})
			}
			segs = append(segs, segment{math: true, text: s[i : end+1]})
			start = end + 1
			i = end + 1
			continue
		}
		i++
	}
	if start < len(s) {
		segs = append(segs, segment{text: s[start:]})
	}
	return segs
}

// escapedAt reports whether the byte at i is preceded by a single
// unescaped backslash.
func escapedAt(s string, i int) bool {
	if i == 0 || s[i-1] != '\\' {
		return false
	}
	return i < 2 || s[i-2] != '\\'
}

// latexReplacements maps LaTeX's reserved characters to their text-mode
// escapes. Backslash is handled separately so replacements don't cascade.
var latexReplacements = map[byte]string{
	'{': `\{`,
	'}': `\}`,
	'$': `\$`,
	'&': `\&`,
	'%': `\%`,
	'#': `\#`,
	'_': `\_`,
	'~': `\textasciitilde{}`,
	'^': `\textasciicircum{}`,
}

// escapeLaTeX escapes one run of plain (non-math) text for LaTeX.
func escapeLaTeX(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '\\' {
			b.WriteString(`\textbackslash{}`)
			continue
		}
		if rep, ok := latexReplacements[ch]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// escapeLaTeXText escapes s for LaTeX, leaving inline $...$ fragments
// byte-for-byte untouched.
func escapeLaTeXText(s string) string {
	var b strings.Builder
	for _, seg := range splitMath(s) {
		if seg.math {
			b.WriteString(seg.text)
		} else {
			b.WriteString(escapeLaTeX(seg.text))
		}
	}
	return b.String()
}

// typstSpecials are Typst's markup-mode special characters.
const typstSpecials = "\\#*_[]`"

// escapeTypst escapes one run of plain text for Typst markup mode.
func escapeTypst(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(typstSpecials, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeHTML escapes the HTML metacharacters in one run of plain text.
func escapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
