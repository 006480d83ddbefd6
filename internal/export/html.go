package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"eqtint/internal/annot"
	"eqtint/internal/log"
	"eqtint/internal/palette"
)

// MathRenderer turns a LaTeX equation string into markup for the HTML
// page. The default emits a katex.render call so the page typesets
// itself in the browser; tests substitute a plain passthrough.
type MathRenderer interface {
	RenderMath(latex string) (string, error)
}

// katexRenderer is the default MathRenderer. It leaves typesetting to
// the KaTeX script loaded by the page and only emits the render call,
// so the output file works offline-after-first-load with no server.
type katexRenderer struct{}

func (katexRenderer) RenderMath(latex string) (string, error) {
	enc, err := json.Marshal(latex)
	if err != nil {
		return "", fmt.Errorf("encode equation for katex: %w", err)
	}
	var b strings.Builder
	b.WriteString(`<div id="equation" class="equation"></div>` + "\n")
	b.WriteString("<script>\n")
	fmt.Fprintf(&b, "katex.render(%s, document.getElementById(\"equation\"), { displayMode: true, trust: true });\n", enc)
	b.WriteString("</script>\n")
	return b.String(), nil
}

// termStyles emits one CSS custom property and one class rule per term,
// in equation order. Both the KaTeX-rendered spans and the description
// spans carry class term-<t>, so a single rule colors both.
func termStyles(c *annot.Content, s palette.Scheme) (string, error) {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, term := range c.TermOrder {
		color, err := palette.ColorFor(term, c.TermOrder, s)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "  --term-%s: %s;\n", term, color)
	}
	b.WriteString("}\n")
	for _, term := range c.TermOrder {
		fmt.Fprintf(&b, ".term-%s { color: var(--term-%s); }\n", term, term)
	}
	return b.String(), nil
}

// htmlDescription re-emits the description with every reference span
// carrying a data-term attribute for the interaction script, escaping
// the surrounding prose but leaving inline $...$ math for KaTeX's
// auto-render pass.
func htmlDescription(c *annot.Content) (string, error) {
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
		injected[key] = fmt.Sprintf(`<span class="term-%s term-ref" data-term="%s">%s</span>`,
			term, term, escapeHTML(display))
		return key, true
	})
	if rErr != nil {
		return "", rErr
	}
	out := escapeHTMLText(masked)
	for key, span := range injected {
		out = strings.Replace(out, key, span, 1)
	}
	return out, nil
}

// escapeHTMLText escapes prose for HTML but leaves $...$ runs raw so
// the KaTeX auto-render extension can typeset them in place.
func escapeHTMLText(s string) string {
	var b strings.Builder
	for _, seg := range splitMath(s) {
		if seg.math {
			b.WriteString(seg.text)
		} else {
			b.WriteString(escapeHTML(seg.text))
		}
	}
	return b.String()
}

// htmlDefinitions renders each definition as a hidden block the
// interaction script reveals when its term is hovered or pinned.
func htmlDefinitions(c *annot.Content) string {
	var b strings.Builder
	for _, d := range c.Definitions {
		class := "definition"
		if !c.HasTerm(d.Term) {
			class = "definition stray"
		}
		fmt.Fprintf(&b, `<div class="%s" data-term="%s" hidden><span class="term-%s def-label">%s</span> %s</div>%s`,
			class, d.Term, d.Term, escapeHTML(d.Term), escapeHTMLText(d.Body), "\n")
	}
	return b.String()
}

// interactionScript wires hover and click behavior: hovering any
// term-tagged element highlights all of that term's occurrences and
// reveals its definition; clicking pins the term until the next click.
// A pinned term takes precedence over hover.
const interactionScript = `<script>
(function () {
  var pinned = null;

  function spansFor(term) {
    return document.querySelectorAll('.term-' + CSS.escape(term));
  }
  function setActive(term, on) {
    spansFor(term).forEach(function (el) { el.classList.toggle('active', on); });
    document.querySelectorAll('.definition[data-term="' + CSS.escape(term) + '"]')
      .forEach(function (el) { el.hidden = !on; });
  }
  function clearAll() {
    document.querySelectorAll('.active').forEach(function (el) { el.classList.remove('active'); });
    document.querySelectorAll('.definition').forEach(function (el) { el.hidden = true; });
  }
  function termOf(el) {
    var node = el.closest('[data-term]');
    if (node) return node.getAttribute('data-term');
    var match = Array.prototype.find.call(el.classList, function (cls) {
      return cls.indexOf('term-') === 0;
    });
    return match ? match.slice('term-'.length) : null;
  }

  document.addEventListener('mouseover', function (ev) {
    if (pinned) return;
    var term = termOf(ev.target);
    if (!term) return;
    clearAll();
    setActive(term, true);
  });
  document.addEventListener('mouseout', function (ev) {
    if (pinned) return;
    if (termOf(ev.target)) clearAll();
  });
  document.addEventListener('click', function (ev) {
    var term = termOf(ev.target);
    if (term === null) {
      if (pinned) { pinned = null; clearAll(); }
      return;
    }
    if (pinned === term) {
      pinned = null;
      clearAll();
      return;
    }
    pinned = term;
    clearAll();
    setActive(term, true);
  });
})();
</script>
`

const htmlBaseStyles = `body {
  max-width: 48rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font-family: Georgia, serif;
  line-height: 1.6;
}
.equation { font-size: 1.4rem; margin: 2rem 0; }
.term-ref { cursor: pointer; border-bottom: 1px dotted currentColor; }
.active { font-weight: bold; text-decoration: underline; }
.definition { margin: 0.5rem 0; padding: 0.5rem 0.75rem; border-left: 3px solid currentColor; }
.def-label { font-weight: bold; }
`

// htmlPage assembles the full document around the rendered pieces.
func htmlPage(c *annot.Content, styles, equation, description, definitions string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	title := c.Title
	if title == "" {
		title = "Annotated Equation"
	}
	fmt.Fprintf(&b, "<title>%s</title>\n", escapeHTML(title))
	b.WriteString(`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css">` + "\n")
	b.WriteString(`<script src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"></script>` + "\n")
	b.WriteString(`<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js" onload="renderMathInElement(document.body, { delimiters: [{ left: '$', right: '$', display: false }] });"></script>` + "\n")
	b.WriteString("<style>\n")
	b.WriteString(htmlBaseStyles)
	b.WriteString(styles)
	b.WriteString("</style>\n</head>\n<body>\n")
	if c.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", escapeHTML(c.Title))
	}
	b.WriteString(equation)
	if description != "" {
		fmt.Fprintf(&b, "<p class=\"description\">%s</p>\n", description)
	}
	b.WriteString("<section class=\"definitions\">\n")
	b.WriteString(definitions)
	b.WriteString("</section>\n")
	b.WriteString(interactionScript)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// HTML renders a self-contained interactive page. The equation keeps its
// \htmlClass term wrappers, which KaTeX converts to classed spans in
// trust mode, so the same CSS rules color equation and prose spans.
func HTML(c *annot.Content, s palette.Scheme) (string, error) {
	return HTMLWith(c, s, katexRenderer{})
}

// HTMLWith renders the page through the supplied MathRenderer.
func HTMLWith(c *annot.Content, s palette.Scheme, r MathRenderer) (string, error) {
	// Surface unknown-term references before any rendering work.
	styles, err := termStyles(c, s)
	if err != nil {
		return "", fmt.Errorf("html export: %w", err)
	}
	description, err := htmlDescription(c)
	if err != nil {
		return "", fmt.Errorf("html export: %w", err)
	}
	equation, err := r.RenderMath(c.Equation)
	if err != nil {
		return "", fmt.Errorf("html export: %w", err)
	}
	page := htmlPage(c, styles, equation, description, htmlDefinitions(c))
	log.Debug(log.CatExport, "html export complete",
		"terms", len(c.TermOrder), "definitions", len(c.Definitions), "bytes", len(page))
	return page, nil
}
