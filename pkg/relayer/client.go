// Package relayer is a client for the 0x Standard Relayer API v2.
package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/uhyunpark/zeroex-order/pkg/order"
)

// RequestOpts are the query parameters accepted by every SRA endpoint.
type RequestOpts struct {
	NetworkID uint64 `schema:"networkId"`
}

// HTTPError is a non-2xx relayer response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("relayer %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// OrderRecord is one entry of the relayer's order book.
type OrderRecord struct {
	Order    order.SignedOrder `json:"order"`
	MetaData json.RawMessage   `json:"metaData"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

var encoder = schema.NewEncoder()

const maxErrorBody = 4096

// NewClient returns a client for the relayer at baseURL, e.g.
// https://api.kovan.radarrelay.com/0x/v2. A nil httpClient gets a default
// without a timeout; callers bound requests through the context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) endpoint(path string, opts RequestOpts) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parse relayer url: %w", err)
	}
	values := url.Values{}
	if err := encoder.Encode(opts, values); err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// SubmitOrder posts a signed order to the relayer's order book.
func (c *Client) SubmitOrder(ctx context.Context, signed *order.SignedOrder, opts RequestOpts) error {
	body, err := json.Marshal(signed)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	endpoint, err := c.endpoint("/order", opts)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), nil)
}

// GetOrder fetches a single order by hash.
func (c *Client) GetOrder(ctx context.Context, hash common.Hash, opts RequestOpts) (*OrderRecord, error) {
	endpoint, err := c.endpoint("/order/"+hash.Hex(), opts)
	if err != nil {
		return nil, err
	}
	var record OrderRecord
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relayer %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode relayer response: %w", err)
	}
	return nil
}
