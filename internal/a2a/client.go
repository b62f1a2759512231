// Package a2a implements the JSON-RPC-over-HTTP client for the Babylon
// agent-to-agent protocol.
package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Remote methods consumed by the agent.
const (
	MethodGetMarketData = "a2a.getMarketData"
	MethodGetBalance    = "a2a.getBalance"
	MethodGetPositions  = "a2a.getPositions"
	MethodBuyShares     = "a2a.buyShares"
	MethodCreatePost    = "a2a.createPost"
	MethodGetFeed       = "a2a.getFeed"
)

const requestTimeout = 30 * time.Second

// FailureKind classifies a failed call for diagnostics. All kinds surface as
// the same *CallError type; callers that need the distinction read the kind.
type FailureKind string

const (
	// FailureTransport is an HTTP-level failure: connection error, timeout,
	// or a non-2xx status.
	FailureTransport FailureKind = "transport"
	// FailureProtocol is a well-formed response carrying an error object.
	FailureProtocol FailureKind = "protocol"
	// FailureMalformed is a response with neither result nor error.
	FailureMalformed FailureKind = "malformed"
)

// CallError is the uniform failure type for remote calls.
type CallError struct {
	Method  string
	Kind    FailureKind
	Status  int // HTTP status, when one was received
	Code    int // JSON-RPC error code, for protocol failures
	Message string
}

func (e *CallError) Error() string {
	switch e.Kind {
	case FailureProtocol:
		return fmt.Sprintf("a2a: %s failed: protocol error %d: %s", e.Method, e.Code, e.Message)
	case FailureMalformed:
		return fmt.Sprintf("a2a: %s failed: malformed response: %s", e.Method, e.Message)
	default:
		return fmt.Sprintf("a2a: %s failed: transport error: %s", e.Method, e.Message)
	}
}

// Client issues identified JSON-RPC calls to the Babylon A2A endpoint.
// One call is exactly one HTTP round trip: no retry, no backoff. Side-effecting
// methods (buyShares, createPost) must never be silently retried here.
type Client struct {
	endpoint string
	address  string
	chainID  int64
	tokenID  int64
	// privateKey is held for a future protocol version that signs request
	// payloads. The current protocol identifies agents via headers only.
	privateKey string
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient creates a client bound to one agent identity.
func NewClient(endpoint, address string, chainID, tokenID int64, privateKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		address:    address,
		chainID:    chainID,
		tokenID:    tokenID,
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// AgentID returns the "<chainID>:<tokenID>" identifier sent with every request.
func (c *Client) AgentID() string {
	return fmt.Sprintf("%d:%d", c.chainID, c.tokenID)
}

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ID      int64          `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Call performs one JSON-RPC call. A nil params is sent as an empty object.
// Request ids increase by one per call and are never reused for the lifetime
// of the client, across every method.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	if method == "" {
		return nil, fmt.Errorf("a2a: method must not be empty")
	}
	if params == nil {
		params = map[string]any{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("a2a: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("a2a: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-agent-id", c.AgentID())
	httpReq.Header.Set("x-agent-address", c.address)
	httpReq.Header.Set("x-agent-token-id", strconv.FormatInt(c.tokenID, 10))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &CallError{Method: method, Kind: FailureTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Method: method, Kind: FailureTransport, Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CallError{
			Method:  method,
			Kind:    FailureTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
		}
	}

	var envelope rpcResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &CallError{Method: method, Kind: FailureMalformed, Status: resp.StatusCode, Message: err.Error()}
	}
	if envelope.Error != nil {
		return nil, &CallError{
			Method:  method,
			Kind:    FailureProtocol,
			Status:  resp.StatusCode,
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil, &CallError{
			Method:  method,
			Kind:    FailureMalformed,
			Status:  resp.StatusCode,
			Message: "response has neither result nor error",
		}
	}

	var result map[string]any
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, &CallError{Method: method, Kind: FailureMalformed, Status: resp.StatusCode, Message: fmt.Sprintf("result is not an object: %v", err)}
	}
	return result, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
