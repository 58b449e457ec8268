// Package search keeps an Elasticsearch index of bootcamps for free-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
)

// BootcampIndex indexes and queries bootcamp documents.
type BootcampIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewBootcampIndex(es *elasticsearch.Client, index string) *BootcampIndex {
	return &BootcampIndex{ES: es, Index: index}
}

// Hit is one search match.
type Hit struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Careers     []string `json:"careers"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	Score       float64  `json:"score"`
}

type bootcampDoc struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Careers     []string `json:"careers"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
}

func docFor(b *entity.Bootcamp) bootcampDoc {
	d := bootcampDoc{Name: b.Name, Slug: b.Slug, Description: b.Description, Careers: b.Careers}
	if b.Location != nil {
		d.City, d.State = b.Location.City, b.Location.State
	}
	return d
}

func (x *BootcampIndex) Upsert(ctx context.Context, b *entity.Bootcamp) error {
	body, err := json.Marshal(docFor(b))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *BootcampIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document is already deleted
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over name, description and careers.
func (x *BootcampIndex) Search(ctx context.Context, q string, size int) ([]Hit, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "careers^2", "description", "city", "state"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string      `json:"_id"`
				Score  float64     `json:"_score"`
				Source bootcampDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, Hit{
			ID: h.ID, Score: h.Score,
			Name: h.Source.Name, Slug: h.Source.Slug, Description: h.Source.Description,
			Careers: h.Source.Careers, City: h.Source.City, State: h.Source.State,
		})
	}
	return out, nil
}
