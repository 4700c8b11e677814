package backend

import (
	"context"
	"fmt"
	"strings"
)

// Document is one entry in a DocIndex.
type Document struct {
	ID      string
	Content string
}

// DocIndex serves context by keyword-matching a query against a fixed set
// of documents. Results come back as a map keyed by document id, so a
// DocIndex pairs naturally with the dictionary-merge strategy. It is
// read-only: the backend intentionally implements only the fetch
// capability.
type DocIndex struct {
	docs []Document
}

// NewDocIndex creates a DocIndex over the given documents.
// The slice is copied.
func NewDocIndex(docs []Document) *DocIndex {
	return &DocIndex{docs: append([]Document(nil), docs...)}
}

// FetchContext returns every document whose content contains any term of
// the query, case-insensitively. The query must be a string. When nothing
// matches, a single placeholder entry is returned rather than an error.
func (d *DocIndex) FetchContext(_ context.Context, query any) (any, error) {
	q, ok := query.(string)
	if !ok {
		return nil, fmt.Errorf("doc index expects a string query, got %T", query)
	}

	terms := strings.Fields(strings.ToLower(q))

	matches := make(map[string]any)
	for _, doc := range d.docs {
		content := strings.ToLower(doc.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				matches[doc.ID] = doc.Content
				break
			}
		}
	}

	if len(matches) == 0 {
		matches["no-match"] = fmt.Sprintf("no documents found for query: %s", q)
	}
	return matches, nil
}
