package project

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/scribedocs/scribe/internal/extract"
	"github.com/scribedocs/scribe/internal/lang"
	"github.com/scribedocs/scribe/internal/markup"
	"github.com/scribedocs/scribe/internal/storage"
	"github.com/scribedocs/scribe/internal/symbols"
	"github.com/scribedocs/scribe/internal/topic"
)

// Progress receives build progress events. Implementations must tolerate
// Start(0).
type Progress interface {
	Start(total int)
	Step(path string)
	Done()
}

type noopProgress struct{}

func (noopProgress) Start(int)   {}
func (noopProgress) Step(string) {}
func (noopProgress) Done()       {}

// Options configures a Pipeline. Root, Registry, Store, and Table are
// required; the rest have working defaults.
type Options struct {
	Root     string
	Registry *lang.Registry
	Store    *storage.Store
	Table    *symbols.Table
	Ignore   []string
	Cache    *ParseCache // optional, nil disables parse memoization
	Progress Progress    // optional
}

// Pipeline runs incremental documentation builds. All processing is
// single-threaded and deterministic: files are handled in sorted path
// order, so the same tree always produces the same symbol table.
type Pipeline struct {
	root     string
	registry *lang.Registry
	store    *storage.Store
	table    *symbols.Table
	scanner  *Scanner
	cache    *ParseCache
	progress Progress
}

// NewPipeline validates the options and builds the pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Root == "" || opts.Registry == nil || opts.Store == nil || opts.Table == nil {
		return nil, fmt.Errorf("pipeline requires root, registry, store, and table")
	}
	scanner, err := NewScanner(opts.Root, opts.Registry, opts.Ignore)
	if err != nil {
		return nil, err
	}
	progress := opts.Progress
	if progress == nil {
		progress = noopProgress{}
	}
	return &Pipeline{
		root:     opts.Root,
		registry: opts.Registry,
		store:    opts.Store,
		table:    opts.Table,
		scanner:  scanner,
		cache:    opts.Cache,
		progress: progress,
	}, nil
}

// Restore rebuilds the symbol table from topics stored by previous runs, so
// an incremental build only reparses what changed. Files load in sorted
// order for determinism.
func (p *Pipeline) Restore() error {
	byFile, err := p.store.AllTopics()
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		p.define(path, byFile[path])
	}
	return nil
}

// Run performs one incremental pass. With an empty hint it scans the whole
// root; a non-empty hint (from the watcher) restricts the pass to those
// files. Deletions are retracted exactly, then added and modified files are
// parsed and defined in sorted order.
func (p *Pipeline) Run(ctx context.Context, hint []string) (*ChangeSet, error) {
	candidates, fullScan, err := p.candidates(hint)
	if err != nil {
		return nil, err
	}

	known, err := p.store.FileStates()
	if err != nil {
		return nil, err
	}

	cs, err := DetectChanges(ctx, p.root, candidates, known, fullScan)
	if err != nil {
		return nil, err
	}

	for _, relPath := range cs.Deleted {
		p.table.Undefine(relPath)
		if err := p.store.DeleteFile(relPath); err != nil {
			return nil, err
		}
	}

	work := make([]string, 0, len(cs.Added)+len(cs.Modified))
	work = append(work, cs.Added...)
	work = append(work, cs.Modified...)
	sort.Strings(work)

	p.progress.Start(len(work))
	defer p.progress.Done()

	for _, relPath := range work {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := p.processFile(relPath); err != nil {
			// A single unreadable file degrades that file, not the build.
			log.Printf("Warning: skipping %s: %v", relPath, err)
		}
		p.progress.Step(relPath)
	}

	return cs, nil
}

// candidates resolves the file list for a pass. Hint paths may be absolute
// (watcher events) or root-relative; either way they come back relative
// with forward slashes.
func (p *Pipeline) candidates(hint []string) ([]string, bool, error) {
	if len(hint) == 0 {
		files, err := p.scanner.Scan()
		return files, true, err
	}
	rel := make([]string, 0, len(hint))
	for _, path := range hint {
		if filepath.IsAbs(path) {
			r, err := filepath.Rel(p.root, path)
			if err != nil {
				return nil, false, fmt.Errorf("hint %s outside project root: %w", path, err)
			}
			path = r
		}
		rel = append(rel, filepath.ToSlash(path))
	}
	sort.Strings(rel)
	return rel, false, nil
}

// processFile parses one file and replaces its contribution in the store
// and symbol table.
func (p *Pipeline) processFile(relPath string) error {
	absPath := filepath.Join(p.root, filepath.FromSlash(relPath))
	data, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	source := string(data)

	d := p.registry.ForFile(relPath, source)
	if d == nil {
		// Extension matched at scan time but the shebang did not resolve.
		return nil
	}

	hash, err := HashFile(absPath)
	if err != nil {
		return err
	}

	topics := p.parse(d, hash, source)

	state := storage.FileState{
		Path:     relPath,
		Language: d.Name,
		ModTime:  info.ModTime().Unix(),
		Hash:     hash,
	}
	if err := p.store.SaveFile(state, topics); err != nil {
		return err
	}

	p.table.Undefine(relPath)
	p.define(relPath, topics)
	return nil
}

// parse extracts topics, going through the content-hash cache when one is
// configured.
func (p *Pipeline) parse(d *lang.Descriptor, hash, source string) []*topic.Topic {
	cacheKey := d.Name + "\x00" + hash
	if p.cache != nil {
		if topics, ok := p.cache.Get(cacheKey); ok {
			return topics
		}
	}
	topics := extract.New(d).Extract(source)
	if p.cache != nil {
		p.cache.Put(cacheKey, topics)
	}
	return topics
}

// define adds a file's topics to the symbol table and registers every body
// link as a reference resolved from the topic's own scope.
func (p *Pipeline) define(relPath string, topics []*topic.Topic) {
	for _, tp := range topics {
		p.table.DefineTopic(relPath, tp)
	}
	for _, tp := range topics {
		scope := tp.ScopePackage()
		for _, linkText := range markup.Links(tp.Body) {
			p.table.Reference(scope, tp.Using, linkText, relPath)
		}
	}
}
