package annot

import (
	"strings"

	"eqtint/internal/log"
)

// Section markers recognized by the document scanner.
const (
	equationDelimiter = "$$"
	descriptionMarker = "## Description"
	definitionPrefix  = "## ."
)

// section tracks which accumulation mode the line scanner is in.
type section int

const (
	sectionNeutral section = iota
	sectionEquation
	sectionDescription
	sectionDefinition
)

// docParser accumulates the pieces of a Content while scanning lines.
type docParser struct {
	title     string
	titleSet  bool
	eqLines   []string
	descParts []string
	defs      []Definition
	defOpen   bool
	defTerm   string
	defLines  []string

	termOrder []string
	termSeen  map[string]bool
	descTerms map[string]bool

	mode section
}

// Parse converts raw source text into a Content. Parse is total: malformed
// annotation syntax is copied through verbatim and scanning resumes just
// past the failure point, and referential inconsistencies are collected as
// diagnostics on the returned Content rather than returned as an error.
func Parse(source string) *Content {
	p := &docParser{
		termSeen:  make(map[string]bool),
		descTerms: make(map[string]bool),
	}

	for _, line := range strings.Split(source, "\n") {
		p.scanLine(line)
	}
	p.flushDefinition()

	c := &Content{
		Title:       p.title,
		Equation:    strings.TrimSpace(strings.Join(p.eqLines, "\n")),
		Description: strings.Join(p.descParts, " "),
		Definitions: p.defs,
		TermOrder:   p.termOrder,
	}
	c.Errors, c.Warnings = Validate(c.TermOrder, p.descTerms, p.defs)

	log.Debug(log.CatParse, "parsed document",
		"terms", len(c.TermOrder),
		"definitions", len(c.Definitions),
		"errors", len(c.Errors),
		"warnings", len(c.Warnings))
	return c
}

// scanLine dispatches one line through the section state machine.
func (p *docParser) scanLine(line string) {
	trimmed := strings.TrimSpace(line)

	// The equation delimiter toggles equation mode wherever it appears.
	if trimmed == equationDelimiter {
		if p.mode == sectionEquation {
			p.mode = sectionNeutral
		} else {
			p.mode = sectionEquation
		}
		return
	}

	if p.mode == sectionEquation {
		p.eqLines = append(p.eqLines, p.scanEquationLine(line))
		return
	}

	// Title: first "# " heading not followed by another '#'. Later matches
	// are inert and fall through to the current section's handling.
	if !p.titleSet && isTitleLine(line) {
		p.title = strings.TrimSpace(line[2:])
		p.titleSet = true
		return
	}

	if trimmed == descriptionMarker {
		p.mode = sectionDescription
		return
	}

	// A "## .term" heading opens a new definition and ends description mode.
	if strings.HasPrefix(trimmed, definitionPrefix) {
		p.flushDefinition()
		p.defOpen = true
		p.defTerm = strings.TrimSpace(trimmed[len(definitionPrefix):])
		p.mode = sectionDefinition
		return
	}

	switch p.mode {
	case sectionDescription:
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return
		}
		p.descParts = append(p.descParts, p.scanDescriptionLine(line))
	case sectionDefinition:
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return
		}
		p.defLines = append(p.defLines, line)
	}
}

// flushDefinition closes the currently accumulating definition, if any.
func (p *docParser) flushDefinition() {
	if !p.defOpen {
		return
	}
	p.defs = append(p.defs, Definition{
		Term: p.defTerm,
		Body: strings.TrimSpace(strings.Join(p.defLines, "\n")),
	})
	p.defOpen = false
	p.defTerm = ""
	p.defLines = nil
}

// scanEquationLine rewrites every \mark[term]{content} on the line to the
// neutral tagged-span form, registering terms in first-seen order. Content
// is scanned recursively so nested annotations are normalized too.
// Malformed annotations are copied through verbatim and the scan resumes
// just past the \mark[ head.
func (p *docParser) scanEquationLine(line string) string {
	var out strings.Builder
	i := 0
	for {
		rel := strings.Index(line[i:], markPrefix)
		if rel < 0 {
			out.WriteString(line[i:])
			break
		}
		at := i + rel
		out.WriteString(line[i:at])

		m, ok := scanMark(line, at)
		if !ok {
			log.Debug(log.CatParse, "malformed equation annotation", "at", at)
			out.WriteString(markPrefix)
			i = at + len(markPrefix)
			continue
		}
		p.registerTerm(m.term)
		out.WriteString(EquationSpan(m.term, p.scanEquationLine(m.content)))
		i = m.end
	}
	return out.String()
}

// scanDescriptionLine rewrites every [display]{.term} reference on the
// line to the neutral flat form and records the referenced terms.
func (p *docParser) scanDescriptionLine(line string) string {
	var out strings.Builder
	i := 0
	for {
		rel := strings.IndexByte(line[i:], '[')
		if rel < 0 {
			out.WriteString(line[i:])
			break
		}
		at := i + rel

		r, ok := scanRef(line, at)
		if !ok {
			out.WriteString(line[i : at+1])
			i = at + 1
			continue
		}
		out.WriteString(line[i:at])
		p.descTerms[r.term] = true
		out.WriteString(RefSpan(r.term, r.display))
		i = r.end
	}
	return out.String()
}

// registerTerm appends term to the term order on first sight.
func (p *docParser) registerTerm(term string) {
	if p.termSeen[term] {
		return
	}
	p.termSeen[term] = true
	p.termOrder = append(p.termOrder, term)
}

// isTitleLine reports whether line is a level-1 heading ("# " followed by
// something that is not another '#').
func isTitleLine(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	rest := line[1:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return false
	}
	body := strings.TrimLeft(rest, " \t")
	return body != "" && body[0] != '#'
}
