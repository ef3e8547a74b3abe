// Package search maintains a full-text index over the documented topics,
// so users can find a symbol without knowing which page it landed on.
package search

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/scribedocs/scribe/internal/topic"
)

// Doc is the indexed projection of one topic.
type Doc struct {
	Symbol  string `json:"symbol"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Package string `json:"package"`
	File    string `json:"file"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// Hit is one search result.
type Hit struct {
	Symbol  string
	Title   string
	Kind    string
	Package string
	File    string
	Summary string
	Score   float64
}

// Index wraps the on-disk bleve index.
type Index struct {
	idx bleve.Index
}

// Open opens the search index at path, creating it when absent.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist || os.IsNotExist(err) {
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.idx.Close()
}

// buildMapping keeps File exact-match so per-file replacement can find a
// file's documents, and leaves the text fields on the default analyzer.
func buildMapping() *mapping.IndexMappingImpl {
	fileField := bleve.NewTextFieldMapping()
	fileField.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("file", fileField)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = docMapping
	return im
}

// IndexFile replaces the documents of one file with the given topics.
func (i *Index) IndexFile(file string, topics []*topic.Topic) error {
	if err := i.DeleteFile(file); err != nil {
		return err
	}
	batch := i.idx.NewBatch()
	for seq, tp := range topics {
		doc := Doc{
			Symbol:  tp.Symbol(),
			Title:   tp.Title,
			Kind:    tp.Kind.String(),
			Package: tp.Package,
			File:    file,
			Summary: tp.Summary,
			Body:    stripTags(tp.Body),
		}
		if err := batch.Index(docID(file, seq), doc); err != nil {
			return fmt.Errorf("failed to index topic %q: %w", tp.Title, err)
		}
	}
	if err := i.idx.Batch(batch); err != nil {
		return fmt.Errorf("failed to commit search batch for %s: %w", file, err)
	}
	return nil
}

// DeleteFile removes every document of one file from the index.
func (i *Index) DeleteFile(file string) error {
	for {
		q := bleve.NewTermQuery(file)
		q.SetField("file")
		req := bleve.NewSearchRequestOptions(q, 1000, 0, false)
		res, err := i.idx.Search(req)
		if err != nil {
			return fmt.Errorf("failed to find documents for %s: %w", file, err)
		}
		if len(res.Hits) == 0 {
			return nil
		}
		batch := i.idx.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := i.idx.Batch(batch); err != nil {
			return fmt.Errorf("failed to delete documents for %s: %w", file, err)
		}
	}
}

// Query runs a free-form query string and returns up to limit hits in
// score order.
func (i *Index) Query(q string, limit int) ([]Hit, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(q), limit, 0, false)
	req.Fields = []string{"symbol", "title", "kind", "package", "file", "summary"}
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			Symbol:  fieldString(h.Fields, "symbol"),
			Title:   fieldString(h.Fields, "title"),
			Kind:    fieldString(h.Fields, "kind"),
			Package: fieldString(h.Fields, "package"),
			File:    fieldString(h.Fields, "file"),
			Summary: fieldString(h.Fields, "summary"),
			Score:   h.Score,
		})
	}
	return hits, nil
}

func docID(file string, seq int) string {
	return file + "\x1f" + strconv.Itoa(seq)
}

func fieldString(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

var (
	tagPattern   = regexp.MustCompile(`</?[a-z]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// stripTags flattens a markup body to plain text for indexing.
func stripTags(body string) string {
	s := tagPattern.ReplaceAllString(body, " ")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
