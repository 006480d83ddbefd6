// Package preview contains the interactive terminal preview of an
// annotated equation document.
package preview

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	zone "github.com/lrstanley/bubblezone"

	"eqtint/internal/annot"
	"eqtint/internal/cachemanager"
	"eqtint/internal/config"
	"eqtint/internal/keys"
	"eqtint/internal/log"
	"eqtint/internal/markdown"
	"eqtint/internal/palette"
	"eqtint/internal/watcher"
)

// parseTTL is how long a parsed document stays cached; reloads within the
// window for unchanged content are free.
const parseTTL = 5 * time.Minute

// documentLoadedMsg carries a freshly loaded and parsed document.
type documentLoadedMsg struct {
	source  string
	content *annot.Content
	err     error
}

// fileChangedMsg signals a debounced change of the watched source file.
type fileChangedMsg struct{}

// Model is the preview application state.
type Model struct {
	path string
	cfg  config.Config

	schemeName string
	scheme     palette.Scheme

	source  string
	content *annot.Content
	loadErr error

	// Term per equation span occurrence and per description ref
	// occurrence, in document order. Rebuilt on every load; the view
	// marks one mouse zone per occurrence.
	spanTerms []string
	refTerms  []string

	parseCache *cachemanager.ParseCache

	interaction Interaction

	showSource      bool
	showDiagnostics bool
	showHelp        bool

	md *markdown.Renderer

	watcherHandle *watcher.Watcher
	changes       <-chan struct{}

	keys   keys.KeyMap
	width  int
	height int
}

// New creates a preview model for the document at path. The watcher is
// optional: when auto-reload is disabled or the watcher cannot start, the
// preview still works with manual reloads.
func New(path string, cfg config.Config) Model {
	scheme, err := cfg.SchemeFor("")
	if err != nil {
		// Config validation happens before the preview starts; fall back
		// to the builtin default if something slipped through anyway.
		scheme, _ = palette.Builtin(palette.DefaultName)
	}

	cache := cachemanager.NewInMemoryCacheManager[cachemanager.SourceKey, *annot.Content](
		"preview-parse", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	m := Model{
		path:            path,
		cfg:             cfg,
		schemeName:      scheme.Name,
		scheme:          scheme,
		parseCache:      cachemanager.NewParseCache(cache, false),
		showDiagnostics: cfg.UI.ShowDiagnostics,
		keys:            keys.DefaultKeyMap(),
	}

	if cfg.AutoReload {
		w, err := watcher.New(watcher.DefaultConfig(path))
		if err == nil {
			if changes, err := w.Start(); err == nil {
				m.watcherHandle = w
				m.changes = changes
			} else {
				_ = w.Stop()
			}
		}
		// Watcher init errors are not fatal - the preview works without
		// auto-reload.
	}

	if r, err := markdown.New(72, cfg.UI.MarkdownStyle); err == nil {
		m.md = r
	}

	return m
}

// Close releases the watcher.
func (m *Model) Close() error {
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}

// Init loads the document and starts listening for file changes.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadDocument()}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// loadDocument reads and parses the source file.
func (m Model) loadDocument() tea.Cmd {
	path := m.path
	cache := m.parseCache
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's own document
		if err != nil {
			return documentLoadedMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}
		source := string(data)
		content := cache.Parse(context.Background(), source, parseTTL)
		return documentLoadedMsg{source: source, content: content}
	}
}

// waitForChange blocks until the watcher reports a change.
func (m Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case documentLoadedMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.source = msg.source
			m.content = msg.content
			m.spanTerms, m.refTerms = occurrenceTerms(msg.content)
			// Drop a selection that no longer resolves to a term.
			if term, ok := m.interaction.Active(); ok && !m.content.HasTerm(term) {
				m.interaction = m.interaction.Clear()
			}
			log.Debug(log.CatUI, "document loaded", "path", m.path,
				"terms", len(msg.content.TermOrder), "errors", len(msg.content.Errors))
		}
		return m, nil

	case fileChangedMsg:
		return m, tea.Batch(m.loadDocument(), m.waitForChange())

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.interaction = m.interaction.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadDocument()

	case key.Matches(msg, m.keys.NextTerm):
		return m.selectTerm(m.stepTerm(1)), nil

	case key.Matches(msg, m.keys.PrevTerm):
		return m.selectTerm(m.stepTerm(-1)), nil

	case key.Matches(msg, m.keys.Pin):
		if term, ok := m.interaction.Active(); ok {
			m.interaction = m.interaction.Click(term)
		}
		return m, nil

	case key.Matches(msg, m.keys.Palette):
		m.cyclePalette()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.showDiagnostics = !m.showDiagnostics
		return m, nil

	case key.Matches(msg, m.keys.Source):
		m.showSource = !m.showSource
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m, nil
}

// selectTerm moves the selection to term. While a term is pinned the pin
// itself moves so keyboard navigation keeps working.
func (m Model) selectTerm(term string) Model {
	if term == "" {
		return m
	}
	if current, ok := m.interaction.Active(); ok && current == term {
		return m
	}
	if m.interaction.Pinned() {
		m.interaction = m.interaction.Click(term)
	} else {
		m.interaction = m.interaction.Hover(term)
	}
	return m
}

// stepTerm returns the term delta positions away from the current
// selection in equation order, wrapping at both ends.
func (m Model) stepTerm(delta int) string {
	if m.content == nil || len(m.content.TermOrder) == 0 {
		return ""
	}
	order := m.content.TermOrder
	current, ok := m.interaction.Active()
	if !ok {
		if delta > 0 {
			return order[0]
		}
		return order[len(order)-1]
	}
	idx := m.content.TermIndex(current)
	if idx < 0 {
		return order[0]
	}
	idx = (idx + delta + len(order)) % len(order)
	return order[idx]
}

// cyclePalette switches to the next builtin scheme. Selection survives
// since colors are positional either way.
func (m *Model) cyclePalette() {
	builtins := palette.Builtins()
	for i, s := range builtins {
		if s.Name == m.schemeName {
			next := builtins[(i+1)%len(builtins)]
			m.schemeName = next.Name
			m.scheme = next
			log.Debug(log.CatUI, "palette switched", "palette", next.Name)
			return
		}
	}
	// Current scheme is a config palette; start the cycle at the first builtin.
	if len(builtins) > 0 {
		m.schemeName = builtins[0].Name
		m.scheme = builtins[0]
	}
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.UI.Mouse || m.content == nil {
		return m, nil
	}

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
		if term, ok := m.termZoneAt(msg); ok {
			m.interaction = m.interaction.Click(term)
		} else if m.interaction.Pinned() {
			m.interaction = m.interaction.Clear()
		}
		return m, nil
	}

	if msg.Action == tea.MouseActionMotion {
		if term, ok := m.termZoneAt(msg); ok {
			m.interaction = m.interaction.Hover(term)
		} else {
			m.interaction = m.interaction.Unhover()
		}
	}

	return m, nil
}

// termZoneAt hit-tests the pointer against every term zone.
func (m Model) termZoneAt(msg tea.MouseMsg) (string, bool) {
	for i, term := range m.spanTerms {
		if z := zone.Get(spanZoneID(i)); z != nil && z.InBounds(msg) {
			return term, true
		}
	}
	for i, term := range m.refTerms {
		if z := zone.Get(refZoneID(i)); z != nil && z.InBounds(msg) {
			return term, true
		}
	}
	for _, d := range m.content.Definitions {
		if z := zone.Get(defZoneID(d.Term)); z != nil && z.InBounds(msg) {
			return d.Term, true
		}
	}
	return "", false
}

// occurrenceTerms records which term owns each span and ref occurrence,
// using the same index sequence the view uses when marking zones.
func occurrenceTerms(c *annot.Content) (spans, refs []string) {
	// Nested spans are visited inner-first while indexes run outer-first,
	// so place by index instead of append order.
	annot.TransformSpans(c.Equation, func(term, content string, index int) (string, bool) {
		for len(spans) <= index {
			spans = append(spans, "")
		}
		spans[index] = term
		return "", false
	})
	annot.TransformRefs(c.Description, func(term, content string, index int) (string, bool) {
		refs = append(refs, term)
		return "", false
	})
	return spans, refs
}
