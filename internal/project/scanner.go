// Package project drives a documentation build: it discovers source files,
// detects what changed since the last run, parses changed files, and keeps
// the working database and symbol table in sync.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/scribedocs/scribe/internal/lang"
)

// Directories never worth descending into, on top of user ignore patterns.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// compiledPattern pairs a glob pattern with its compiled matcher.
type compiledPattern struct {
	pattern string
	matcher glob.Glob
}

// Scanner discovers the source files of a project root that belong to a
// known language. Paths are reported relative to the root with forward
// slashes, in sorted order.
type Scanner struct {
	root     string
	registry *lang.Registry
	ignore   []compiledPattern
}

// NewScanner compiles the ignore patterns and returns a scanner for root.
// Patterns use glob syntax with '/' as the separator ("build/**", "*.gen.pl").
func NewScanner(root string, registry *lang.Registry, ignorePatterns []string) (*Scanner, error) {
	s := &Scanner{root: root, registry: registry}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		s.ignore = append(s.ignore, compiledPattern{pattern: pattern, matcher: g})
	}
	return s, nil
}

// Scan walks the root and returns every supported source file. A file is
// supported when the registry knows its extension, or when it has no
// extension but starts with a shebang line the registry recognizes.
func (s *Scanner) Scan() ([]string, error) {
	known := make(map[string]bool)
	for _, ext := range s.registry.Extensions() {
		known[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			return nil // unreadable entries are skipped, not fatal
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if skipDirs[info.Name()] || s.ignored(relPath) || s.ignored(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || s.ignored(relPath) {
			return nil
		}

		ext := extensionOf(relPath)
		if ext != "" {
			if known[ext] {
				files = append(files, relPath)
			}
			return nil
		}
		if s.shebangMatch(path) {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) ignored(relPath string) bool {
	for _, p := range s.ignore {
		if p.matcher.Match(relPath) {
			return true
		}
	}
	return false
}

// shebangMatch reads just enough of an extensionless file to let the
// registry check its interpreter line.
func (s *Scanner) shebangMatch(absPath string) bool {
	f, err := os.Open(absPath)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 256)
	n, err := f.Read(buf)
	if n == 0 || (err != nil && n <= 0) {
		return false
	}
	head := string(buf[:n])
	if !strings.HasPrefix(head, "#!") {
		return false
	}
	return s.registry.ForFile(absPath, head) != nil
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
