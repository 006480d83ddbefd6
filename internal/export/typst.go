package export

import (
	"fmt"
	"strings"

	"eqtint/internal/annot"
	"eqtint/internal/log"
	"eqtint/internal/palette"
)

// MathConverter turns a LaTeX equation into Typst math notation. The
// default is a best-effort structural converter; callers with a real
// translator (pandoc, mitex) can plug it in here.
type MathConverter interface {
	ConvertMath(latex string) (string, error)
}

type defaultConverter struct{}

func (defaultConverter) ConvertMath(latex string) (string, error) {
	return latexToTypst(latex), nil
}

// typstColorName builds the Typst binding name for a term. Typst
// identifiers allow hyphens, so term names map over almost directly.
func typstColorName(term string) string {
	var b strings.Builder
	b.WriteString("term-")
	for _, r := range term {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// typstColorBindings emits one #let per term so the document reads with
// names instead of raw hex values.
func typstColorBindings(c *annot.Content, s palette.Scheme) (string, map[string]string, error) {
	byHex := make(map[string]string)
	var b strings.Builder
	for _, term := range c.TermOrder {
		color, err := palette.ColorFor(term, c.TermOrder, s)
		if err != nil {
			return "", nil, err
		}
		name := typstColorName(term)
		fmt.Fprintf(&b, "#let %s = rgb(%q)\n", name, color)
		byHex[color] = name
	}
	return b.String(), byHex, nil
}

// typstEquation colors each span by hex, converts the whole equation to
// Typst math, then swaps the literal hex fills for the named bindings.
// Spans whose term is missing from the palette degrade to plain content
// rather than failing the export; the equation stays typesettable.
func typstEquation(c *annot.Content, s palette.Scheme, conv MathConverter, byHex map[string]string) (string, error) {
	colored := annot.TransformSpans(c.Equation, func(term, content string, idx int) (string, bool) {
		color, err := palette.ColorFor(term, c.TermOrder, s)
		if err != nil {
			log.Warn(log.CatExport, "typst span left uncolored", "term", term, "err", err)
			return content, true
		}
		return `\textcolor{` + color + `}{` + content + `}`, true
	})
	math, err := conv.ConvertMath(colored)
	if err != nil {
		return "", fmt.Errorf("convert equation: %w", err)
	}
	for hex, name := range byHex {
		math = strings.ReplaceAll(math, fmt.Sprintf("rgb(%q)", hex), name)
	}
	return math, nil
}

// typstDescription renders the description with #text fills for each
// reference. Unknown-term references are an authoring error and abort.
func typstDescription(c *annot.Content) (string, error) {
	var rErr error
	next := 0
	injected := make(map[string]string)
	masked := annot.TransformRefs(c.Description, func(term, display string, idx int) (string, bool) {
		if !c.HasTerm(term) {
			if rErr == nil {
				rErr = fmt.Errorf("description reference %q: %w", term, palette.ErrUnknownTerm)
			}
			return "", false
		}
		key := placeholder(next)
		next++
		injected[key] = fmt.Sprintf("#text(fill: %s)[%s]", typstColorName(term), escapeTypst(display))
		return key, true
	})
	if rErr != nil {
		return "", rErr
	}
	out := escapeTypstText(masked)
	for key, span := range injected {
		out = strings.Replace(out, key, span, 1)
	}
	return out, nil
}

// escapeTypstText escapes prose markup but converts $...$ runs to Typst
// inline math instead of escaping their contents.
func escapeTypstText(s string) string {
	var b strings.Builder
	for _, seg := range splitMath(s) {
		if seg.math {
			inner := strings.TrimPrefix(strings.TrimSuffix(seg.text, "$"), "$")
			b.WriteString("$" + latexToTypst(inner) + "$")
		} else {
			b.WriteString(escapeTypst(seg.text))
		}
	}
	return b.String()
}

func typstDefinitions(c *annot.Content) string {
	var b strings.Builder
	for _, d := range c.Definitions {
		label := escapeTypst(d.Term)
		if c.HasTerm(d.Term) {
			label = fmt.Sprintf("#text(fill: %s)[*%s*]", typstColorName(d.Term), label)
		} else {
			label = "*" + label + "*"
		}
		fmt.Fprintf(&b, "/ %s: %s\n", label, escapeTypstText(d.Body))
	}
	return b.String()
}

// Typst renders a standalone .typ document with named color bindings,
// the converted equation as display math, the description, and a term
// list of the definitions.
func Typst(c *annot.Content, s palette.Scheme) (string, error) {
	return TypstWith(c, s, defaultConverter{})
}

// TypstWith renders the document through the supplied MathConverter.
func TypstWith(c *annot.Content, s palette.Scheme, conv MathConverter) (string, error) {
	bindings, byHex, err := typstColorBindings(c, s)
	if err != nil {
		return "", fmt.Errorf("typst export: %w", err)
	}
	description, err := typstDescription(c)
	if err != nil {
		return "", fmt.Errorf("typst export: %w", err)
	}
	equation, err := typstEquation(c, s, conv, byHex)
	if err != nil {
		return "", fmt.Errorf("typst export: %w", err)
	}

	var b strings.Builder
	b.WriteString("#set page(margin: 2cm)\n")
	b.WriteString("#set text(font: \"New Computer Modern\", size: 11pt)\n\n")
	b.WriteString(bindings)
	b.WriteString("\n")
	if c.Title != "" {
		fmt.Fprintf(&b, "= %s\n\n", escapeTypst(c.Title))
	}
	if equation != "" {
		fmt.Fprintf(&b, "$ %s $\n\n", equation)
	}
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	b.WriteString(typstDefinitions(c))

	log.Debug(log.CatExport, "typst export complete",
		"terms", len(c.TermOrder), "definitions", len(c.Definitions), "bytes", b.Len())
	return b.String(), nil
}
