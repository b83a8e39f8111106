package httptool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/CUknot/rag-model/pkg/tools"
)

const (
	ConnectionRefusedTag = "connection refused"

	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
	ContentTypeNDJSON = "application/x-ndjson"
)

// HTTPClient is a shared outbound client: one base address, one timeout, a
// default header set, and optional request logging. All calls carry the
// caller's context so cancellation propagates to the wire.
type HTTPClient struct {
	sync.RWMutex
	hc         http.Client
	baseAddr   string
	header     http.Header
	clientName string
	requestLog bool
}

// NewHTTPClient builds a client for baseAddr. The address keeps its scheme if
// present; plain host:port defaults to http.
func NewHTTPClient(baseAddr, clientName string, timeout time.Duration, requestLog bool) *HTTPClient {
	if !strings.Contains(baseAddr, "://") {
		baseAddr = "http://" + baseAddr
	}
	return &HTTPClient{
		baseAddr: baseAddr,
		hc: http.Client{
			Timeout: timeout,
		},
		clientName: clientName,
		requestLog: requestLog,
	}
}

func (hc *HTTPClient) SetHeader(key, value string) {
	hc.Lock()
	defer hc.Unlock()

	if hc.header == nil {
		hc.header = http.Header{}
	}
	hc.header.Set(key, value)
}

func (hc *HTTPClient) GetWithContext(ctx context.Context, url string) ([]byte, error) {
	return hc.fetchWithContext(ctx, http.MethodGet, url, nil, "")
}

func (hc *HTTPClient) PostJSONWithContext(ctx context.Context, url string, obj interface{}) ([]byte, error) {
	body, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return hc.fetchWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body), ContentTypeJSON)
}

// PostRawWithContext sends a pre-encoded body with an explicit content type,
// used for NDJSON uploads.
func (hc *HTTPClient) PostRawWithContext(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	return hc.fetchWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body), contentType)
}

func (hc *HTTPClient) DeleteWithContext(ctx context.Context, url string) ([]byte, error) {
	return hc.fetchWithContext(ctx, http.MethodDelete, url, nil, "")
}

func (hc *HTTPClient) fetchWithContext(ctx context.Context, method, url string, body io.Reader, contentType string) ([]byte, error) {
	targetURL := fmt.Sprintf("%v%v", hc.baseAddr, url)
	now := time.Now()

	if hc.requestLog && body != nil {
		b, _ := io.ReadAll(body)
		body = bytes.NewReader(b)
		log.Debugf("%s: sending %v request to %v", hc.clientName, method, targetURL)
		log.Debugf("%s: body = %v", hc.clientName, string(b))
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hc.RLock()
	req.Header = hc.header.Clone()
	hc.RUnlock()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}

	resp, err := hc.hc.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), ConnectionRefusedTag) {
			return nil, fmt.Errorf("%s: connection to %s refused", hc.clientName, req.Host)
		}
		return nil, errors.WithStack(err)
	}
	defer tools.ErrorWithPrintContext(resp.Body.Close, "close response body")

	return hc.readResponse(resp, req, now)
}

func (hc *HTTPClient) readResponse(resp *http.Response, req *http.Request, start time.Time) ([]byte, error) {
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if hc.requestLog {
		log.Debugf("%s: %s %s -> %d in %v", hc.clientName, req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return responseBody, fmt.Errorf("%s: %s %s returned %d: %s",
			hc.clientName, req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}
	return responseBody, nil
}
