// Package render writes the generated documentation site: one HTML page
// per source file, an alphabetic symbol index, and the shared stylesheet.
// Bodies arrive in the lightweight markup interchange format and are
// converted here, with free-text links resolved through the symbol table.
package render

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/menu"
	"github.com/scribedocs/scribe/internal/prototype"
	"github.com/scribedocs/scribe/internal/symbols"
	"github.com/scribedocs/scribe/internal/topic"
)

// Page is one source file's worth of input to the renderer.
type Page struct {
	File     string
	Language string
	Topics   []*topic.Topic
}

// Renderer writes the site under one output directory.
type Renderer struct {
	table    *symbols.Table
	menu     *menu.Menu
	registry *lang.Registry
	out      string
	tmpl     *template.Template
}

// New creates a renderer. The menu may be nil when the project has none.
func New(table *symbols.Table, m *menu.Menu, registry *lang.Registry, outDir string) (*Renderer, error) {
	tmpl := template.New("site")
	for _, src := range []string{menuTemplate, entriesTemplate, indexTemplate} {
		if _, err := tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}
	}
	if _, err := tmpl.Parse(pageTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Renderer{table: table, menu: m, registry: registry, out: outDir, tmpl: tmpl}, nil
}

// WriteSite renders every file page, the symbol index, and the stylesheet.
// Pages render in sorted file order so output is deterministic.
func (r *Renderer) WriteSite(pages []Page) error {
	sort.Slice(pages, func(i, j int) bool { return pages[i].File < pages[j].File })

	for _, p := range pages {
		if err := r.writeFilePage(p); err != nil {
			return err
		}
	}
	if err := r.writeIndex(); err != nil {
		return err
	}
	return r.writeAssets()
}

// PagePath returns the site-relative output path of a source file's page.
func PagePath(file string) string {
	return "files/" + file + ".html"
}

// rootPrefix is the "../" chain from a site-relative page back to the root.
func rootPrefix(pagePath string) string {
	return strings.Repeat("../", strings.Count(pagePath, "/"))
}

type pageData struct {
	Title   string
	Root    string
	CSSHref string
	Index   string
	Menu    []*menuEntry
	Topics  []*topicView
	Footer  string
}

type menuEntry struct {
	Title    string
	Href     string
	External bool
	Children []*menuEntry
}

type topicView struct {
	Anchor    string
	Kind      string
	Title     string
	Prototype *protoView
	Body      template.HTML
}

type protoView struct {
	Pre    string
	Open   string
	Params []string
	Close  string
	Post   string
	Plain  string // full text when there is no parameter list
}

func (r *Renderer) writeFilePage(p Page) error {
	pp := PagePath(p.File)
	root := rootPrefix(pp)

	var d *lang.Descriptor
	if r.registry != nil {
		d = r.registry.ByName(p.Language)
	}

	views := make([]*topicView, 0, len(p.Topics))
	for _, tp := range p.Topics {
		views = append(views, r.topicView(tp, d, root))
	}

	data := &pageData{
		Title:   r.pageTitle(p),
		Root:    root,
		CSSHref: root + "styles.css",
		Index:   root + "index.html",
		Menu:    r.menuEntries(root),
		Topics:  views,
		Footer:  r.footer(),
	}
	return r.writeTemplate("page", pp, data)
}

// pageTitle prefers the file's own title topic, then the menu's title for
// the file, then the bare file name.
func (r *Renderer) pageTitle(p Page) string {
	for _, tp := range p.Topics {
		if tp.Kind.Base() == topic.KindFile && tp.Title != "" {
			return tp.Title
		}
	}
	if len(p.Topics) > 0 && p.Topics[0].Title != "" {
		return p.Topics[0].Title
	}
	if r.menu != nil {
		if t := r.menu.DefaultTitle(p.File); t != "" {
			return t
		}
	}
	return path.Base(p.File)
}

func (r *Renderer) footer() string {
	if r.menu != nil {
		return r.menu.Footer
	}
	return ""
}

func (r *Renderer) topicView(tp *topic.Topic, d *lang.Descriptor, root string) *topicView {
	v := &topicView{
		Anchor: Anchor(tp),
		Kind:   tp.Kind.String(),
		Title:  tp.Title,
		Body:   template.HTML(r.htmlBody(tp, root)),
	}
	if tp.Prototype != "" {
		if d != nil {
			f := prototype.Format(tp.Prototype, d)
			if len(f.Params) > 0 {
				v.Prototype = &protoView{
					Pre: f.Pre, Open: f.Open, Params: f.Params, Close: f.Close, Post: f.Post,
				}
			} else {
				v.Prototype = &protoView{Plain: tp.Prototype}
			}
		} else {
			v.Prototype = &protoView{Plain: tp.Prototype}
		}
	}
	return v
}

// Anchor returns the in-page fragment ID of a topic.
func Anchor(tp *topic.Topic) string {
	sym := tp.Symbol()
	if sym == "" {
		sym = topic.NormalizeSymbol(tp.Title)
	}
	var b strings.Builder
	for _, c := range sym {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

var (
	linkTag  = regexp.MustCompile(`<link>(.*?)</link>`)
	urlTag   = regexp.MustCompile(`<url>(.*?)</url>`)
	emailTag = regexp.MustCompile(`<email>(.*?)</email>`)
)

// htmlBody converts the markup interchange format into final HTML. Resolved
// links become anchors into the defining topic's page; unresolved links
// render as the original bracketed text.
func (r *Renderer) htmlBody(tp *topic.Topic, root string) string {
	body := tp.Body

	body = linkTag.ReplaceAllStringFunc(body, func(m string) string {
		inner := linkTag.FindStringSubmatch(m)[1]
		ref := r.table.Reference(tp.ScopePackage(), tp.Using, unescapeEntities(inner), "")
		sym, ok := ref.Target()
		if !ok {
			return "&lt;" + inner + "&gt;"
		}
		target, file, found := r.table.LookupLocation(sym)
		if !found {
			return "&lt;" + inner + "&gt;"
		}
		href := root + PagePath(file) + "#" + Anchor(target)
		return `<a class="CLink" href="` + href + `">` + inner + `</a>`
	})

	body = urlTag.ReplaceAllStringFunc(body, func(m string) string {
		inner := urlTag.FindStringSubmatch(m)[1]
		return `<a class="CUrl" href="` + inner + `" target="_blank" rel="noopener">` + inner + `</a>`
	})
	body = emailTag.ReplaceAllStringFunc(body, func(m string) string {
		inner := emailTag.FindStringSubmatch(m)[1]
		return `<a class="CEmail" href="mailto:` + inner + `">` + inner + `</a>`
	})

	replacer := strings.NewReplacer(
		"<h>", `<h4 class="CHeading">`, "</h>", "</h4>",
		"<de>", "<dt>", "</de>", "</dt>",
		"<code>", `<pre class="CCode">`, "</code>", "</pre>",
	)
	return replacer.Replace(body)
}

func unescapeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

func (r *Renderer) menuEntries(root string) []*menuEntry {
	if r.menu == nil {
		return nil
	}
	return buildMenuEntries(r.menu.Items, root)
}

func buildMenuEntries(items []*menu.Item, root string) []*menuEntry {
	var out []*menuEntry
	for _, it := range items {
		e := &menuEntry{Title: it.Title}
		switch {
		case it.File != "":
			if e.Title == "" {
				e.Title = path.Base(it.File)
			}
			e.Href = root + PagePath(it.File)
		case it.URL != "":
			e.Href = it.URL
			e.External = true
		case it.Text != "" && e.Title == "":
			e.Title = it.Text
		}
		e.Children = buildMenuEntries(it.Group, root)
		out = append(out, e)
	}
	return out
}

type indexData struct {
	Title   string
	CSSHref string
	Menu    []*menuEntry
	Buckets []*bucketView
	Footer  string
}

type bucketView struct {
	Label   string
	Entries []*indexEntryView
}

type indexEntryView struct {
	Symbol   string
	Package  string
	Href     string
	Children []*indexEntryView
}

func (r *Renderer) writeIndex() error {
	buckets := r.table.Index()
	views := make([]*bucketView, 0, len(buckets))
	for _, b := range buckets {
		bv := &bucketView{Label: b.Label}
		for _, el := range b.Entries {
			bv.Entries = append(bv.Entries, newIndexEntryView(el))
		}
		views = append(views, bv)
	}

	title := "Index"
	if r.menu != nil && r.menu.Title != "" {
		title = r.menu.Title + " Index"
	}
	data := &indexData{
		Title:   title,
		CSSHref: "styles.css",
		Menu:    r.menuEntries(""),
		Buckets: views,
		Footer:  r.footer(),
	}
	return r.writeTemplate("index", "index.html", data)
}

func newIndexEntryView(el *symbols.IndexElement) *indexEntryView {
	v := &indexEntryView{Symbol: el.Symbol, Package: el.Package}
	if el.File != "" && el.Topic != nil {
		v.Href = PagePath(el.File) + "#" + Anchor(el.Topic)
	}
	for _, child := range el.Children {
		v.Children = append(v.Children, newIndexEntryView(child))
	}
	return v
}

func (r *Renderer) writeTemplate(name, sitePath string, data any) error {
	abs := filepath.Join(r.out, filepath.FromSlash(sitePath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", sitePath, err)
	}
	defer f.Close()

	if err := r.tmpl.ExecuteTemplate(f, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", sitePath, err)
	}
	return nil
}

func (r *Renderer) writeAssets() error {
	cssPath := filepath.Join(r.out, "styles.css")
	if err := os.WriteFile(cssPath, []byte(defaultCSS), 0o644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}
	return nil
}
