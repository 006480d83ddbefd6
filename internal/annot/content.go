// Package annot implements the equation annotation parser.
//
// Source documents are Markdown-flavoured text with three recognized
// constructs: \mark[term]{content} inside a $$-delimited equation block,
// [display]{.term} references inside the "## Description" section, and
// "## .term" definition headings. Everything else is opaque passthrough.
package annot

// Definition is one "## .term" entry: the term name and its explanatory body.
type Definition struct {
	Term string
	Body string
}

// Content is the parsed representation of an annotated document.
// It is produced once by Parse and never mutated afterwards; re-parsing
// a changed source yields a brand-new Content.
type Content struct {
	// Title is the text of the first level-1 heading, or "" if none.
	Title string

	// Equation is the equation block with every \mark site rewritten to
	// the neutral tagged-span form (see EquationSpan). May contain nested
	// spans and arbitrary LaTeX passed through verbatim.
	Equation string

	// Description is the description section with every [x]{.t} reference
	// rewritten to the neutral flat-reference form (see RefSpan).
	Description string

	// Definitions holds one entry per "## .term" heading in document order.
	Definitions []Definition

	// TermOrder lists unique terms in first-appearance order within the
	// equation block. Position in this slice is the authoritative color
	// index; description and definition order never affect it.
	TermOrder []string

	// Errors are hard referential-consistency failures. Warnings are soft
	// issues. Neither prevents the Content from being rendered.
	Errors   []string
	Warnings []string
}

// Definition returns the body for term and whether it exists.
func (c *Content) Definition(term string) (string, bool) {
	for _, d := range c.Definitions {
		if d.Term == term {
			return d.Body, true
		}
	}
	return "", false
}

// HasTerm reports whether term appears in the equation's term order.
func (c *Content) HasTerm(term string) bool {
	for _, t := range c.TermOrder {
		if t == term {
			return true
		}
	}
	return false
}

// TermIndex returns the color index of term in TermOrder, or -1.
func (c *Content) TermIndex(term string) int {
	for i, t := range c.TermOrder {
		if t == term {
			return i
		}
	}
	return -1
}
