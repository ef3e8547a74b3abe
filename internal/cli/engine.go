package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/scribedocs/scribe/internal/config"
	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/menu"
	"github.com/scribedocs/scribe/internal/project"
	"github.com/scribedocs/scribe/internal/render"
	"github.com/scribedocs/scribe/internal/search"
	"github.com/scribedocs/scribe/internal/storage"
	"github.com/scribedocs/scribe/internal/symbols"
	"github.com/scribedocs/scribe/internal/topic"
)

// engine wires the full build stack for one project: configuration,
// language registry, working database, symbol table, parse cache, search
// index, and the incremental pipeline over them.
type engine struct {
	root     string
	cfg      *config.Config
	registry *lang.Registry
	store    *storage.Store
	table    *symbols.Table
	cache    *project.ParseCache
	pipe     *project.Pipeline
	search   *search.Index // nil when search is disabled
}

// newEngine loads configuration and opens every component. The symbol
// table is restored from the working database so the first Run is
// incremental.
func newEngine(root string) (*engine, error) {
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, err
	}

	registry, err := lang.NewRegistry(cfg.LanguageOverrides())
	if err != nil {
		return nil, fmt.Errorf("invalid language configuration: %w", err)
	}

	store, err := storage.Open(resolvePath(root, cfg.Storage.Database))
	if err != nil {
		return nil, err
	}

	cache, err := project.NewParseCache(cfg.Storage.ParseCacheSize)
	if err != nil {
		store.Close()
		return nil, err
	}

	e := &engine{
		root:     root,
		cfg:      cfg,
		registry: registry,
		store:    store,
		table:    symbols.NewTable(),
		cache:    cache,
	}

	e.pipe, err = project.NewPipeline(project.Options{
		Root:     sourceRoot(root, cfg),
		Registry: registry,
		Store:    store,
		Table:    e.table,
		Ignore:   cfg.Paths.Ignore,
		Cache:    cache,
		Progress: NewCLIProgressReporter(quiet),
	})
	if err != nil {
		e.Close()
		return nil, err
	}

	if cfg.Search.Enabled {
		e.search, err = search.Open(resolvePath(root, cfg.Storage.SearchIndex))
		if err != nil {
			e.Close()
			return nil, err
		}
	}

	if err := e.pipe.Restore(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *engine) Close() {
	if e.search != nil {
		e.search.Close()
	}
	if e.cache != nil {
		e.cache.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}

// buildOnce runs one incremental pass end to end: parse what changed,
// update the search index, reconcile the menu, and rewrite the site.
func (e *engine) buildOnce(ctx context.Context, hint []string) (*project.ChangeSet, error) {
	cs, err := e.pipe.Run(ctx, hint)
	if err != nil {
		return nil, err
	}

	if err := e.updateSearch(cs); err != nil {
		return nil, err
	}

	byFile, err := e.store.AllTopics()
	if err != nil {
		return nil, err
	}
	states, err := e.store.FileStates()
	if err != nil {
		return nil, err
	}

	m, err := e.reconcileMenu(byFile, states)
	if err != nil {
		return nil, err
	}

	if cs.HasChanges() {
		if err := e.renderSite(m, byFile, states); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

func (e *engine) updateSearch(cs *project.ChangeSet) error {
	if e.search == nil {
		return nil
	}
	for _, file := range cs.Deleted {
		if err := e.search.DeleteFile(file); err != nil {
			return err
		}
	}
	changed := append(append([]string{}, cs.Added...), cs.Modified...)
	for _, file := range changed {
		topics, err := e.store.TopicsForFile(file)
		if err != nil {
			return err
		}
		if err := e.search.IndexFile(file, topics); err != nil {
			return err
		}
	}
	return nil
}

// reconcileMenu loads the user's menu, regenerates it from a backup when
// it looks trashed, and keeps it in sync with the file list.
func (e *engine) reconcileMenu(byFile map[string][]*topic.Topic, states map[string]storage.FileState) (*menu.Menu, error) {
	files := make([]string, 0, len(states))
	for file := range states {
		files = append(files, file)
	}
	sort.Strings(files)
	titles := pageTitles(byFile)

	menuPath := resolvePath(e.root, e.cfg.Output.Menu)
	m, err := menu.Load(menuPath)
	if os.IsNotExist(err) {
		m = menu.Generate(e.cfg.Project.Title, files, titles)
		m.Subtitle = e.cfg.Project.Subtitle
		m.Footer = e.cfg.Project.Footer
		return m, m.Save(menuPath)
	}
	if err != nil {
		return nil, err
	}

	exists := func(file string) bool {
		_, ok := states[file]
		return ok
	}
	if m.Trashed(exists) {
		log.Printf("Menu at %s matches no source file; backing it up and regenerating", menuPath)
		if err := menu.Backup(menuPath); err != nil {
			return nil, err
		}
		m = menu.Generate(e.cfg.Project.Title, files, titles)
		m.Subtitle = e.cfg.Project.Subtitle
		m.Footer = e.cfg.Project.Footer
		return m, m.Save(menuPath)
	}

	if m.Sync(files, titles) {
		if err := m.Save(menuPath); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (e *engine) renderSite(m *menu.Menu, byFile map[string][]*topic.Topic, states map[string]storage.FileState) error {
	outDir := resolvePath(e.root, e.cfg.Output.Dir)
	r, err := render.New(e.table, m, e.registry, outDir)
	if err != nil {
		return err
	}

	pages := make([]render.Page, 0, len(byFile))
	for file, topics := range byFile {
		pages = append(pages, render.Page{
			File:     file,
			Language: states[file].Language,
			Topics:   topics,
		})
	}
	return r.WriteSite(pages)
}

// pageTitles maps each file to its display title: the file topic's title
// when one exists, else the first titled topic.
func pageTitles(byFile map[string][]*topic.Topic) map[string]string {
	titles := make(map[string]string, len(byFile))
	for file, topics := range byFile {
		for _, tp := range topics {
			if tp.Kind.Base() == topic.KindFile && tp.Title != "" {
				titles[file] = tp.Title
				break
			}
		}
		if titles[file] == "" && len(topics) > 0 {
			titles[file] = topics[0].Title
		}
	}
	return titles
}

// sourceRoot resolves the configured source directory against the project
// root.
func sourceRoot(root string, cfg *config.Config) string {
	return resolvePath(root, cfg.Paths.Source)
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
