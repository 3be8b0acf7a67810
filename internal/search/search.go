// Package search runs full-text queries over the text of one document.
// Positions go stale on every edit, so nothing is kept between queries: each
// call builds a throwaway in-memory index.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve"
)

// Doc is the text of one shape.
type Doc struct {
	Slide     int    `json:"slide"`
	Shape     int    `json:"shape"`
	ShapeName string `json:"shape_name"`
	Text      string `json:"text"`
}

// Hit is a ranked match.
type Hit struct {
	Doc
	Score float64
	Rank  int
}

// ErrQuery wraps every failure caused by the query text itself. Other errors
// come from building the index.
var ErrQuery = errors.New("invalid query")

func docID(d Doc) string { return fmt.Sprintf("%d/%d", d.Slide, d.Shape) }

// Run indexes docs and returns the k best matches for q. q uses the query
// string syntax (e.g. `revenue -draft`, `text:"next steps"`).
func Run(docs []Doc, q string, k int) ([]Hit, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrQuery)
	}
	query := bleve.NewQueryStringQuery(q)
	if _, err := query.Parse(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if k < 1 {
		k = 10
	}
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	defer index.Close()

	meta := make(map[string]Doc, len(docs))
	batch := index.NewBatch()
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		id := docID(d)
		meta[id] = d
		if err := batch.Index(id, d); err != nil {
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := index.Search(req)
	if err != nil {
		return nil, err
	}
	out := make([]Hit, 0, len(res.Hits))
	for i, h := range res.Hits {
		out = append(out, Hit{Doc: meta[h.ID], Score: h.Score, Rank: i + 1})
	}
	return out, nil
}
