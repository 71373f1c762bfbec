// Package catalog maintains the food search index and answers menu search
// queries against Elasticsearch. CRUD on foods lives in the document store;
// this package only mirrors documents into the index.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/galwaybites/storefront/internal/models"
)

func NewESClient(url, user, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

// IndexFood mirrors a food document into the search index under its id.
func IndexFood(ctx context.Context, es *elasticsearch.Client, index string, f models.Food) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal food: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(f.ID.Hex()),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index food: %s", res.Status())
	}
	return nil
}

// DeleteFood removes a food document from the index.
func DeleteFood(ctx context.Context, es *elasticsearch.Client, index, id string) error {
	res, err := es.Delete(index, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete indexed food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete indexed food: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-field query over the menu.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Food, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, []models.Food{}, nil
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Food `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	foods := make([]models.Food, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		foods[i] = hit.Source
	}
	return r.Hits.Total.Value, foods, nil
}
