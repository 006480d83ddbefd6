package export

import (
	"strings"

	"eqtint/internal/annot"
)

// latexCommands maps LaTeX control sequences with no arguments to their
// Typst math spellings. Unlisted commands fall through as bare words,
// which Typst resolves for most Greek letters and function names anyway.
var latexCommands = map[string]string{
	"cdot":    "dot.op",
	"times":   "times",
	"pm":      "plus.minus",
	"mp":      "minus.plus",
	"leq":     "lt.eq",
	"geq":     "gt.eq",
	"neq":     "eq.not",
	"approx":  "approx",
	"infty":   "infinity",
	"partial": "diff",
	"nabla":   "nabla",
	"sum":     "sum",
	"prod":    "product",
	"int":     "integral",
	"to":      "arrow.r",
	"ldots":   "dots.h",
	"cdots":   "dots.h.c",
	"left":    "",
	"right":   "",
	",":       "thin",
	" ":       "space",
}

// latexToTypst converts LaTeX math to Typst math notation. It handles
// the structural forms the annotation pipeline produces (\textcolor,
// \frac, \sqrt, sub/superscript groups, invisible brace groups) and a
// table of common symbols; anything else passes through as a bare word,
// which keeps the output typesettable even for unconverted input.
func latexToTypst(latex string) string {
	var b strings.Builder
	i := 0
	for i < len(latex) {
		switch latex[i] {
		case '\\':
			i = convertCommand(latex, i, &b)
		case '^', '_':
			if i+1 < len(latex) && latex[i+1] == '{' {
				end := annot.MatchBrace(latex, i+1)
				if end > 0 {
					b.WriteByte(latex[i])
					b.WriteString("(")
					b.WriteString(latexToTypst(latex[i+2 : end-1]))
					b.WriteString(")")
					i = end
					continue
				}
			}
			b.WriteByte(latex[i])
			i++
		case '{':
			// Bare braces are invisible grouping in LaTeX.
			end := annot.MatchBrace(latex, i)
			if end > 0 {
				b.WriteString(latexToTypst(latex[i+1 : end-1]))
				i = end
				continue
			}
			i++
		case '}':
			i++
		default:
			b.WriteByte(latex[i])
			i++
		}
	}
	return b.String()
}

// braceArg returns the contents of the brace group starting at i and the
// index past its closing brace, or ("", -1) when no group is present.
func braceArg(s string, i int) (string, int) {
	if i >= len(s) || s[i] != '{' {
		return "", -1
	}
	end := annot.MatchBrace(s, i)
	if end < 0 {
		return "", -1
	}
	return s[i+1 : end-1], end
}

// convertCommand translates one control sequence starting at the
// backslash and returns the index past everything it consumed.
func convertCommand(latex string, at int, b *strings.Builder) int {
	i := at + 1
	start := i
	for i < len(latex) && isCommandLetter(latex[i]) {
		i++
	}
	name := latex[start:i]
	if name == "" && i < len(latex) {
		// Single-character commands like \, and \{.
		name = string(latex[i])
		i++
	}

	switch name {
	case "textcolor":
		color, afterColor := braceArg(latex, i)
		if afterColor < 0 {
			b.WriteString(name)
			return i
		}
		content, afterContent := braceArg(latex, afterColor)
		if afterContent < 0 {
			b.WriteString(name)
			return i
		}
		b.WriteString(`text(fill: rgb("` + color + `"), `)
		b.WriteString(latexToTypst(content))
		b.WriteString(")")
		return afterContent
	case "frac":
		num, afterNum := braceArg(latex, i)
		if afterNum < 0 {
			b.WriteString(name)
			return i
		}
		den, afterDen := braceArg(latex, afterNum)
		if afterDen < 0 {
			b.WriteString(name)
			return i
		}
		b.WriteString("frac(")
		b.WriteString(latexToTypst(num))
		b.WriteString(", ")
		b.WriteString(latexToTypst(den))
		b.WriteString(")")
		return afterDen
	case "sqrt":
		arg, after := braceArg(latex, i)
		if after < 0 {
			b.WriteString("sqrt")
			return i
		}
		b.WriteString("sqrt(")
		b.WriteString(latexToTypst(arg))
		b.WriteString(")")
		return after
	case "text", "mathrm", "operatorname":
		arg, after := braceArg(latex, i)
		if after < 0 {
			b.WriteString(name)
			return i
		}
		b.WriteString(`"` + arg + `"`)
		return after
	case "{", "}":
		// Escaped braces become literal delimiters in Typst math.
		b.WriteString(name)
		return i
	}

	if repl, ok := latexCommands[name]; ok {
		if repl != "" {
			b.WriteString(repl)
			padWord(latex, i, b)
		}
		return i
	}
	// Greek letters and math functions keep their LaTeX names in Typst.
	b.WriteString(name)
	padWord(latex, i, b)
	return i
}

// padWord inserts the space that separated a control sequence from what
// follows it, unless the source already has one or the sequence ended
// the input.
func padWord(latex string, i int, b *strings.Builder) {
	if i < len(latex) && latex[i] != ' ' {
		b.WriteString(" ")
	}
}

func isCommandLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
