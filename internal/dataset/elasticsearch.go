package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// articleMapping is the index mapping for article records. Content and
// summary are full-text fields, the URL is kept as a keyword for exact
// lookups.
var articleMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"title":   map[string]any{"type": "text"},
			"content": map[string]any{"type": "text"},
			"url":     map[string]any{"type": "keyword"},
			"summary": map[string]any{"type": "text"},
		},
	},
}

// NewClient creates an Elasticsearch client from config and verifies the
// connection with a ping.
func NewClient(cfg *config.ElasticsearchConfig, log logger.Interface) (*es.Client, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, errors.New("elasticsearch configuration is required")
	}

	log.Debug("Connecting to Elasticsearch", "addresses", cfg.Addresses)

	clientConfig := es.Config{
		Addresses: cfg.Addresses,
	}

	// API key authentication wins over basic auth when both are set.
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error pinging Elasticsearch: %s", res.String())
	}

	return client, nil
}

// EnsureIndex creates the article index with its mapping unless it
// already exists.
func EnsureIndex(ctx context.Context, client *es.Client, index string, log logger.Interface) error {
	res, err := client.Indices.Exists(
		[]string{index},
		client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(articleMapping); err != nil {
		return fmt.Errorf("error encoding mapping: %w", err)
	}

	createRes, err := client.Indices.Create(
		index,
		client.Indices.Create.WithContext(ctx),
		client.Indices.Create.WithBody(&buf),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}

	log.Info("Created index", "index", index)
	return nil
}

// ElasticsearchSink indexes article records into Elasticsearch.
type ElasticsearchSink struct {
	client *es.Client
	logger logger.Interface
	index  string
}

// NewElasticsearchSink creates a sink writing to the given index.
func NewElasticsearchSink(client *es.Client, index string, log logger.Interface) *ElasticsearchSink {
	return &ElasticsearchSink{
		client: client,
		logger: log,
		index:  index,
	}
}

// Emit indexes one record, keyed by the record's document ID so repeat
// crawls of the same URL update in place.
func (s *ElasticsearchSink) Emit(ctx context.Context, record *domain.ArticleRecord) error {
	if s.client == nil {
		return errors.New("elasticsearch client is not initialized")
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for indexing: %w", err)
	}

	docID := record.DocID()

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(docID),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		s.logger.Error("Failed to index record",
			"error", err,
			"index", s.index,
			"docID", docID)
		return fmt.Errorf("failed to index record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Elasticsearch returned error response",
			"error", res.String(),
			"index", s.index,
			"docID", docID)
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}

	s.logger.Debug("Record indexed",
		"index", s.index,
		"docID", docID,
		"url", record.URL)
	return nil
}

// Close is a no-op; the client holds no resources needing release.
func (s *ElasticsearchSink) Close() error {
	return nil
}

var _ Sink = (*ElasticsearchSink)(nil)

// Reader queries stored article records.
type Reader struct {
	client *es.Client
	index  string
}

// NewReader creates a reader over the article index.
func NewReader(client *es.Client, index string) *Reader {
	return &Reader{client: client, index: index}
}

// SearchRecent returns up to size stored records, newest first by
// internal document order.
func (r *Reader) SearchRecent(ctx context.Context, size int) ([]domain.ArticleRecord, error) {
	if r.client == nil {
		return nil, errors.New("elasticsearch client is not initialized")
	}

	query := map[string]any{
		"size":  size,
		"query": map[string]any{"match_all": map[string]any{}},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error marshaling search query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&searchResult); decodeErr != nil {
		return nil, fmt.Errorf("error decoding search response: %w", decodeErr)
	}

	records := make([]domain.ArticleRecord, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		var record domain.ArticleRecord
		if unmarshalErr := mapstructure.Decode(hit.Source, &record); unmarshalErr != nil {
			return nil, fmt.Errorf("error unmarshaling hit: %w", unmarshalErr)
		}
		records = append(records, record)
	}

	return records, nil
}
