package annot

import "strings"

// Neutral tagged-span wrappers. The equation form is the HTML-class wrapper
// the math renderer consumes directly; the description form is a flat span.
// Parser output and every exporter input agree on these two shapes.
const (
	spanPrefix = `\htmlClass{term-`
	refPrefix  = `<span class="term-`
	refClose   = `</span>`
)

// EquationSpan returns the neutral tagged-span form of an equation
// annotation. Content may itself contain nested spans.
func EquationSpan(term, content string) string {
	return spanPrefix + term + "}{" + content + "}"
}

// RefSpan returns the neutral flat form of a description reference.
func RefSpan(term, display string) string {
	return refPrefix + term + `">` + display + refClose
}

// RewriteFunc rewrites one tagged span. Returning ok=false keeps the
// original matched text, wrapper included; index still advances so that
// later spans keep their document-order positions.
type RewriteFunc func(term, content string, index int) (string, bool)

// TransformSpans walks every equation tagged span in markup in document
// order and applies rewrite. Nested spans are visited preorder: an outer
// span receives a lower index than the spans inside its content, and the
// content passed to rewrite has its inner spans already rewritten.
//
// The index sequence is the anchor namespace the Beamer exporter shares
// between its equation pass and its overlay pass, so it must be identical
// for identical markup no matter what rewrite returns.
func TransformSpans(markup string, rewrite RewriteFunc) string {
	idx := 0
	return transformSpans(markup, rewrite, &idx)
}

func transformSpans(markup string, rewrite RewriteFunc, idx *int) string {
	var out strings.Builder
	i := 0
	for {
		rel := strings.Index(markup[i:], spanPrefix)
		if rel < 0 {
			out.WriteString(markup[i:])
			break
		}
		at := i + rel
		out.WriteString(markup[i:at])

		nameStart := at + len(spanPrefix)
		cb := strings.IndexByte(markup[nameStart:], '}')
		if cb < 0 {
			out.WriteString(markup[at:])
			break
		}
		term := markup[nameStart : nameStart+cb]
		open := nameStart + cb + 1
		if open >= len(markup) || markup[open] != '{' {
			// Not a well-formed span; copy the head and resume after it.
			out.WriteString(markup[at:open])
			i = open
			continue
		}
		end := MatchBrace(markup, open+1)
		if end < 0 {
			out.WriteString(markup[at:])
			break
		}

		current := *idx
		*idx++
		inner := transformSpans(markup[open+1:end-1], rewrite, idx)
		if replaced, ok := rewrite(term, inner, current); ok {
			out.WriteString(replaced)
		} else {
			out.WriteString(markup[at:end])
		}
		i = end
	}
	return out.String()
}

// TransformRefs is the description-side analogue of TransformSpans. The
// flat reference form never nests, so the scan is a single pass.
func TransformRefs(markup string, rewrite RewriteFunc) string {
	var out strings.Builder
	i := 0
	idx := 0
	for {
		rel := strings.Index(markup[i:], refPrefix)
		if rel < 0 {
			out.WriteString(markup[i:])
			break
		}
		at := i + rel
		out.WriteString(markup[i:at])

		nameStart := at + len(refPrefix)
		q := strings.IndexByte(markup[nameStart:], '"')
		if q < 0 {
			out.WriteString(markup[at:])
			break
		}
		term := markup[nameStart : nameStart+q]
		textStart := nameStart + q + 2 // past `">`
		if textStart > len(markup) || !strings.HasPrefix(markup[nameStart+q:], `">`) {
			out.WriteString(markup[at : nameStart+q])
			i = nameStart + q
			continue
		}
		close := strings.Index(markup[textStart:], refClose)
		if close < 0 {
			out.WriteString(markup[at:])
			break
		}
		display := markup[textStart : textStart+close]
		end := textStart + close + len(refClose)

		if replaced, ok := rewrite(term, display, idx); ok {
			out.WriteString(replaced)
		} else {
			out.WriteString(markup[at:end])
		}
		idx++
		i = end
	}
	return out.String()
}
