// Package menu manages the project navigation menu, a YAML file users may
// edit by hand. Builds keep it in sync with the source tree: new files are
// appended, deleted files dropped, and manual ordering preserved. A menu
// that no longer matches any file on disk is treated as trashed and
// regenerated after a backup.
package menu

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one menu entry. Exactly one of File, URL, Text, or Group should
// be set; Title applies to any of them.
type Item struct {
	Title string  `yaml:"title,omitempty"`
	File  string  `yaml:"file,omitempty"`
	URL   string  `yaml:"url,omitempty"`
	Text  string  `yaml:"text,omitempty"`
	Group []*Item `yaml:"group,omitempty"`
}

// Menu is the navigation tree plus the project header fields shown on
// every generated page.
type Menu struct {
	Title    string  `yaml:"title,omitempty"`
	Subtitle string  `yaml:"subtitle,omitempty"`
	Footer   string  `yaml:"footer,omitempty"`
	Items    []*Item `yaml:"menu"`
}

// Load reads and parses a menu file.
func Load(filePath string) (*Menu, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse menu %s: %w", filePath, err)
	}
	return &m, nil
}

// Save writes the menu back as YAML, creating the directory when needed.
func (m *Menu) Save(filePath string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create menu directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write menu %s: %w", filePath, err)
	}
	return nil
}

// Files returns every file path the menu references, in menu order.
func (m *Menu) Files() []string {
	var files []string
	walkItems(m.Items, func(it *Item) {
		if it.File != "" {
			files = append(files, it.File)
		}
	})
	return files
}

// DefaultTitle returns the menu's title for a file, or "" when the file is
// not in the menu or carries no explicit title. Pages whose first topic has
// no usable title fall back to this.
func (m *Menu) DefaultTitle(file string) string {
	var title string
	walkItems(m.Items, func(it *Item) {
		if it.File == file && it.Title != "" {
			title = it.Title
		}
	})
	return title
}

// Trashed reports whether the menu looks destroyed rather than edited: it
// references at least three files and not one of them resolves. A menu
// below that threshold is too small to judge.
func (m *Menu) Trashed(exists func(file string) bool) bool {
	files := m.Files()
	if len(files) < 3 {
		return false
	}
	for _, f := range files {
		if exists(f) {
			return false
		}
	}
	return true
}

// Backup moves the menu file aside to <path>.bak, replacing any previous
// backup.
func Backup(filePath string) error {
	if err := os.Rename(filePath, filePath+".bak"); err != nil {
		return fmt.Errorf("failed to back up menu: %w", err)
	}
	return nil
}

// Generate builds a fresh menu from the source file list. Files group by
// top-level directory, sorted within each group; root-level files come
// first. Titles supplies per-file display titles, falling back to the base
// name without extension.
func Generate(projectTitle string, files []string, titles map[string]string) *Menu {
	m := &Menu{Title: projectTitle}

	groups := make(map[string][]string)
	var groupNames, rootFiles []string
	for _, f := range files {
		dir := topDir(f)
		if dir == "" {
			rootFiles = append(rootFiles, f)
			continue
		}
		if _, seen := groups[dir]; !seen {
			groupNames = append(groupNames, dir)
		}
		groups[dir] = append(groups[dir], f)
	}
	sort.Strings(rootFiles)
	sort.Strings(groupNames)

	for _, f := range rootFiles {
		m.Items = append(m.Items, &Item{Title: titleFor(f, titles), File: f})
	}
	for _, dir := range groupNames {
		group := &Item{Title: dir}
		sort.Strings(groups[dir])
		for _, f := range groups[dir] {
			group.Group = append(group.Group, &Item{Title: titleFor(f, titles), File: f})
		}
		m.Items = append(m.Items, group)
	}
	return m
}

// Sync reconciles the menu with the current file list: entries for files
// that vanished are removed, files with no entry are appended in sorted
// order, and everything the user arranged stays put. Reports whether the
// menu changed.
func (m *Menu) Sync(files []string, titles map[string]string) bool {
	current := make(map[string]bool, len(files))
	for _, f := range files {
		current[f] = true
	}

	changed := false
	inMenu := make(map[string]bool)
	m.Items = pruneItems(m.Items, current, inMenu, &changed)

	var missing []string
	for _, f := range files {
		if !inMenu[f] {
			missing = append(missing, f)
		}
	}
	sort.Strings(missing)
	for _, f := range missing {
		m.Items = append(m.Items, &Item{Title: titleFor(f, titles), File: f})
		changed = true
	}
	return changed
}

// pruneItems drops file entries not in current and empty groups left
// behind, recording which files remain.
func pruneItems(items []*Item, current, inMenu map[string]bool, changed *bool) []*Item {
	kept := items[:0]
	for _, it := range items {
		if it.File != "" && !current[it.File] {
			*changed = true
			continue
		}
		if len(it.Group) > 0 {
			it.Group = pruneItems(it.Group, current, inMenu, changed)
			if len(it.Group) == 0 && it.File == "" && it.URL == "" && it.Text == "" {
				*changed = true
				continue
			}
		}
		if it.File != "" {
			inMenu[it.File] = true
		}
		kept = append(kept, it)
	}
	return kept
}

func walkItems(items []*Item, fn func(*Item)) {
	for _, it := range items {
		fn(it)
		walkItems(it.Group, fn)
	}
}

func topDir(file string) string {
	if i := strings.IndexByte(file, '/'); i >= 0 {
		return file[:i]
	}
	return ""
}

func titleFor(file string, titles map[string]string) string {
	if t := titles[file]; t != "" {
		return t
	}
	base := path.Base(file)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
