// Package rpc provides a minimal JSON-RPC 2.0 client for EVM nodes.
// It answers exactly one question: the native balance of an address at the
// latest block, from one endpoint, with one request.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/metrics"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

const (
	// DefaultTimeout bounds a single balance request, including connection setup.
	DefaultTimeout = 10 * time.Second

	// maxResponseBodySize caps how much of a response body is read.
	maxResponseBodySize = 1 << 20

	// requestID is the fixed JSON-RPC id; every call is a single exchange.
	requestID = 1
)

var (
	// ErrRPCRequest indicates an RPC request failed at the transport level.
	ErrRPCRequest = &scanerr.ScanError{
		Code:     "RPC_REQUEST_FAILED",
		Message:  "RPC request failed",
		ExitCode: scanerr.ExitGeneral,
	}

	// ErrRPCResponse indicates an invalid RPC response.
	ErrRPCResponse = &scanerr.ScanError{
		Code:     "RPC_INVALID_RESPONSE",
		Message:  "invalid RPC response",
		ExitCode: scanerr.ExitGeneral,
	}

	// ErrUnexpectedContentType indicates the endpoint did not answer with JSON.
	ErrUnexpectedContentType = &scanerr.ScanError{
		Code:     "RPC_UNEXPECTED_CONTENT_TYPE",
		Message:  "unexpected response content type",
		ExitCode: scanerr.ExitGeneral,
	}

	// ErrNilResponse indicates a missing or null result.
	ErrNilResponse = &scanerr.ScanError{
		Code:     "RPC_NIL_RESPONSE",
		Message:  "nil RPC response",
		ExitCode: scanerr.ExitGeneral,
	}

	// ErrInvalidHexNumber indicates an invalid hex number.
	ErrInvalidHexNumber = &scanerr.ScanError{
		Code:     "RPC_INVALID_HEX",
		Message:  "invalid hex number",
		ExitCode: scanerr.ExitInput,
	}

	// ErrEmptyEndpoint indicates no endpoint URL was supplied.
	ErrEmptyEndpoint = &scanerr.ScanError{
		Code:     "RPC_EMPTY_ENDPOINT",
		Message:  "endpoint URL is empty",
		ExitCode: scanerr.ExitInput,
	}
)

// Client is a minimal EVM JSON-RPC client.
// A single Client is safe for concurrent use and shares one connection pool
// across all endpoints and probes.
type Client struct {
	httpClient *http.Client
	limiter    *chain.RateLimiter
	metrics    *metrics.Metrics
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimiter sets a per-endpoint rate limiter. A nil limiter disables limiting.
func WithRateLimiter(rl *chain.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = rl
	}
}

// WithMetrics records every exchange in m. A nil m disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a new RPC client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: newTransport()},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newTransport returns a transport tuned for many hosts with few requests each.
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   DefaultTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   DefaultTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// Call performs one JSON-RPC call against endpoint under the client's per-call timeout.
// The response must carry an application/json content type.
func (c *Client) Call(ctx context.Context, endpoint, method string, params ...any) (result json.RawMessage, err error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrEmptyEndpoint
	}
	if params == nil {
		params = []any{}
	}

	// Rate limit tokens are awaited before the per-call timeout starts.
	if err = c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, scanerr.WithCause(ErrRPCRequest, err)
	}

	if c.metrics != nil {
		start := time.Now()
		defer func() { c.metrics.RecordRPCCall(time.Since(start), err) }()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, scanerr.WithCause(ErrRPCRequest, fmt.Errorf("creating HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq) //nolint:gosec // G107: endpoints come from the operator's chain catalog
	if err != nil {
		return nil, scanerr.WithCause(ErrRPCRequest, err)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, scanerr.WithCause(ErrRPCRequest, fmt.Errorf("HTTP status %d", httpResp.StatusCode))
	}

	if !isJSON(httpResp.Header.Get("Content-Type")) {
		return nil, scanerr.WithDetails(ErrUnexpectedContentType, map[string]string{
			"content_type": httpResp.Header.Get("Content-Type"),
		})
	}

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBodySize))
	if err != nil {
		return nil, scanerr.WithCause(ErrRPCRequest, fmt.Errorf("reading response body: %w", err))
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, scanerr.WithCause(ErrRPCResponse, err)
	}

	if resp.Error != nil {
		return nil, scanerr.WithCause(ErrRPCResponse, resp.Error)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, ErrNilResponse
	}

	return resp.Result, nil
}

// GetBalance returns the balance of an address in the smallest currency unit
// at the given block tag ("latest" when empty).
func (c *Client) GetBalance(ctx context.Context, endpoint, address, block string) (*big.Int, error) {
	if block == "" {
		block = "latest"
	}

	result, err := c.Call(ctx, endpoint, "eth_getBalance", address, block)
	if err != nil {
		return nil, err
	}

	var hexVal string
	if err := json.Unmarshal(result, &hexVal); err != nil {
		return nil, scanerr.WithCause(ErrRPCResponse, fmt.Errorf("parsing balance: %w", err))
	}

	return parseHexBigInt(hexVal)
}

// FetchBalance returns the latest balance of address on endpoint.
// It rejects malformed addresses before touching the network.
func (c *Client) FetchBalance(ctx context.Context, endpoint, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, scanerr.WithDetails(scanerr.ErrInvalidAddress, map[string]string{"address": address})
	}
	return c.GetBalance(ctx, endpoint, address, "latest")
}

// isJSON reports whether a Content-Type header names application/json,
// ignoring parameters such as charset.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// parseHexBigInt parses a 0x-prefixed hex string to a nonnegative big.Int.
func parseHexBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, ErrInvalidHexNumber
	}
	s = s[2:]
	if s == "" {
		return nil, ErrInvalidHexNumber
	}

	n := new(big.Int)
	if _, ok := n.SetString(s, 16); !ok || n.Sign() < 0 {
		return nil, ErrInvalidHexNumber
	}

	return n, nil
}
