// Package search provides keyword search over the extracted elements of a
// project using an in-memory bleve index.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/mvp-joe/codeshape/internal/project"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Element kinds stored in the index.
const (
	KindType     = "type"
	KindFunction = "function"
	KindMethod   = "method"
	KindImport   = "import"
	KindBinding  = "binding"
)

// Options narrows a search. Zero values mean no filter and the default limit.
type Options struct {
	Limit    int
	Language string
	Kind     string
}

// Hit is one matching element.
type Hit struct {
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Language string  `json:"language"`
	Path     string  `json:"path"`
	Score    float64 `json:"score"`
}

// Index is a keyword index over one project's elements.
type Index struct {
	index bleve.Index
	mu    sync.RWMutex
}

// NewIndex builds an index from every element of view.
func NewIndex(ctx context.Context, view *project.View) (*Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	if err := indexElements(ctx, index, view); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index elements: %w", err)
	}

	return &Index{index: index}, nil
}

func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = true
	nameMapping.Index = true

	keywordMapping := bleve.NewTextFieldMapping()
	keywordMapping.Analyzer = "keyword"
	keywordMapping.Store = true
	keywordMapping.Index = true

	pathMapping := bleve.NewTextFieldMapping()
	pathMapping.Analyzer = "standard"
	pathMapping.Store = true
	pathMapping.Index = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("kind", keywordMapping)
	docMapping.AddFieldMappingsAt("language", keywordMapping)
	docMapping.AddFieldMappingsAt("path", pathMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func indexElements(ctx context.Context, index bleve.Index, view *project.View) error {
	groups := []struct {
		kind string
		list []project.Tagged
	}{
		{KindType, view.Types},
		{KindFunction, view.Functions},
		{KindMethod, view.Methods},
		{KindImport, view.Imports},
		{KindBinding, view.Bindings},
	}

	batch := index.NewBatch()
	for _, g := range groups {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i, el := range g.list {
			id := fmt.Sprintf("%s#%s#%d", el.Path, g.kind, i)
			doc := map[string]interface{}{
				"name":     el.Value,
				"kind":     g.kind,
				"language": string(el.Language),
				"path":     el.Path,
			}
			if err := batch.Index(id, doc); err != nil {
				return fmt.Errorf("failed to add %s to batch: %w", id, err)
			}
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute batch: %w", err)
		}
	}
	return nil
}

// Search runs terms as a bleve query string and applies the filters in opts.
func (x *Index) Search(ctx context.Context, terms string, opts Options) ([]Hit, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	queries := []query.Query{bleve.NewQueryStringQuery(terms)}
	if opts.Language != "" {
		q := bleve.NewTermQuery(opts.Language)
		q.SetField("language")
		queries = append(queries, q)
	}
	if opts.Kind != "" {
		q := bleve.NewTermQuery(opts.Kind)
		q.SetField("kind")
		queries = append(queries, q)
	}

	var finalQuery query.Query = queries[0]
	if len(queries) > 1 {
		finalQuery = bleve.NewConjunctionQuery(queries...)
	}

	req := bleve.NewSearchRequestOptions(finalQuery, limit, 0, false)
	req.Fields = []string{"name", "kind", "language", "path"}

	x.mu.RLock()
	defer x.mu.RUnlock()

	result, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hit := Hit{Score: h.Score}
		hit.Name, _ = h.Fields["name"].(string)
		hit.Kind, _ = h.Fields["kind"].(string)
		hit.Language, _ = h.Fields["language"].(string)
		hit.Path, _ = h.Fields["path"].(string)
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.index != nil {
		return x.index.Close()
	}
	return nil
}
