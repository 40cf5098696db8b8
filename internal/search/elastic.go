package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/shop_api/internal/models"
)

const maxHits = 1000

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text"},
      "price":       {"type": "double"},
      "description": {"type": "text"}
    }
  }
}`

type ESIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewClient(ctx context.Context, url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}

	return client, nil
}

// EnsureIndex creates the product index when it does not exist yet.
func (i *ESIndex) EnsureIndex(ctx context.Context) error {
	res, err := i.Client.Indices.Exists([]string{i.Index}, i.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.Client.Indices.Create(i.Index,
		i.Client.Indices.Create.WithContext(ctx),
		i.Client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("index create: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index create", res)
	}
	return nil
}

func (i *ESIndex) IndexProduct(ctx context.Context, p models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return err
	}

	res, err := i.Client.Index(i.Index, &buf,
		i.Client.Index.WithContext(ctx),
		i.Client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		i.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product", res)
	}
	return nil
}

func (i *ESIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := i.Client.Delete(i.Index, strconv.FormatUint(uint64(id), 10),
		i.Client.Delete.WithContext(ctx),
		i.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete product", res)
	}
	return nil
}

func (i *ESIndex) Search(ctx context.Context, q string) ([]models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": maxHits,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := i.Client.Search(
		i.Client.Search.WithContext(ctx),
		i.Client.Search.WithIndex(i.Index),
		i.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		prods[n] = hit.Source
	}
	return prods, nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), bytes.TrimSpace(body))
}
