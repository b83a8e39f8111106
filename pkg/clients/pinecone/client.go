package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/CUknot/rag-model/pkg/clients/httptool"
)

const (
	clientNameControl = "pinecone_control"
	clientNameData    = "pinecone_data"

	DefaultControlAddr = "https://api.pinecone.io"
	defaultNamespace   = "default"
	defaultTimeout     = 30 * time.Second

	headerAPIKey     = "Api-Key"
	headerAPIVersion = "X-Pinecone-API-Version"
	apiVersion       = "2025-01"
)

type Config struct {
	APIKey      string
	ControlAddr string // control plane, defaults to api.pinecone.io
	Host        string // index data plane host
	IndexName   string
	Namespace   string // fallback namespace when no category is given
	Timeout     time.Duration
	RequestLog  bool
}

// Client talks to the vector index over its REST surface: record upsert and
// search on the data plane, index lifecycle on the control plane. Records are
// embedded server-side.
type Client struct {
	cfg     *Config
	control *httptool.HTTPClient
	data    *httptool.HTTPClient
}

func NewClient(cfg *Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: api key is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("pinecone: index host is required")
	}
	if cfg.ControlAddr == "" {
		cfg.ControlAddr = DefaultControlAddr
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	control := httptool.NewHTTPClient(cfg.ControlAddr, clientNameControl, cfg.Timeout, cfg.RequestLog)
	data := httptool.NewHTTPClient(cfg.Host, clientNameData, cfg.Timeout, cfg.RequestLog)
	for _, hc := range []*httptool.HTTPClient{control, data} {
		hc.SetHeader(headerAPIKey, cfg.APIKey)
		hc.SetHeader(headerAPIVersion, apiVersion)
	}

	return &Client{cfg: cfg, control: control, data: data}, nil
}

// Namespace resolves the namespace for a document category, falling back to
// the configured default when the category is empty.
func (c *Client) Namespace(category string) string {
	if category == "" {
		return c.cfg.Namespace
	}
	return category
}

// UpsertRecords inserts or overwrites records by ID in the given namespace.
// The body is NDJSON, one record per line.
func (c *Client) UpsertRecords(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return errors.WithStack(err)
		}
	}

	path := fmt.Sprintf("/records/namespaces/%s/upsert", url.PathEscape(namespace))
	if _, err := c.data.PostRawWithContext(ctx, path, httptool.ContentTypeNDJSON, buf.Bytes()); err != nil {
		return fmt.Errorf("pinecone upsert: %w", err)
	}
	return nil
}

// SearchRecords runs a server-side-embedded similarity search and returns the
// hits ranked most relevant first.
func (c *Client) SearchRecords(ctx context.Context, namespace, query string, topK int) ([]Hit, error) {
	req := searchRequest{Query: searchQuery{TopK: topK, Inputs: searchInputs{Text: query}}}

	path := fmt.Sprintf("/records/namespaces/%s/search", url.PathEscape(namespace))
	body, err := c.data.PostJSONWithContext(ctx, path, req)
	if err != nil {
		return nil, fmt.Errorf("pinecone search: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WithStack(err)
	}
	return resp.Result.Hits, nil
}

// DeleteRecords removes records by ID from the namespace. The index accepts
// deletions of unknown IDs silently, so success means the call was accepted,
// not that every ID existed.
func (c *Client) DeleteRecords(ctx context.Context, namespace string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	req := deleteRequest{IDs: ids, Namespace: namespace}
	if _, err := c.data.PostJSONWithContext(ctx, "/vectors/delete", req); err != nil {
		return fmt.Errorf("pinecone delete: %w", err)
	}
	return nil
}

// DescribeIndexStats returns per-namespace vector counts and index fullness.
func (c *Client) DescribeIndexStats(ctx context.Context) (map[string]interface{}, error) {
	body, err := c.data.PostJSONWithContext(ctx, "/describe_index_stats", struct{}{})
	if err != nil {
		return nil, fmt.Errorf("pinecone index stats: %w", err)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, errors.WithStack(err)
	}
	return stats, nil
}

// DescribeIndex returns the control-plane description of the configured index.
func (c *Client) DescribeIndex(ctx context.Context) (map[string]interface{}, error) {
	body, err := c.control.GetWithContext(ctx, "/indexes/"+url.PathEscape(c.cfg.IndexName))
	if err != nil {
		return nil, fmt.Errorf("pinecone describe index: %w", err)
	}

	var desc map[string]interface{}
	if err := json.Unmarshal(body, &desc); err != nil {
		return nil, errors.WithStack(err)
	}
	return desc, nil
}

// DeleteIndex destroys the entire index.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("pinecone: index name is required")
	}
	if _, err := c.control.DeleteWithContext(ctx, "/indexes/"+url.PathEscape(name)); err != nil {
		return fmt.Errorf("pinecone delete index: %w", err)
	}
	return nil
}

// IndexName returns the configured index name.
func (c *Client) IndexName() string {
	return c.cfg.IndexName
}
