package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/babylon-agents/babylon-agent/internal/a2a"
	"github.com/babylon-agents/babylon-agent/internal/memory"
)

// a2aStub scripts responses per method and records the requests it saw.
type a2aStub struct {
	t         *testing.T
	responses map[string]any // method -> envelope body
	requests  []stubRequest
}

type stubRequest struct {
	Method string
	Params map[string]any
}

func newA2AStub(t *testing.T) (*a2aStub, *a2a.Client) {
	t.Helper()
	stub := &a2aStub{t: t, responses: map[string]any{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		stub.requests = append(stub.requests, stubRequest{Method: req.Method, Params: req.Params})

		body, ok := stub.responses[req.Method]
		if !ok {
			body = map[string]any{"result": map[string]any{}}
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return stub, a2a.NewClient(server.URL, "0xabc", 11155111, 7, "")
}

func (s *a2aStub) result(method string, result map[string]any) {
	s.responses[method] = map[string]any{"result": result}
}

func (s *a2aStub) protocolError(method, message string) {
	s.responses[method] = map[string]any{"error": map[string]any{"code": -32000, "message": message}}
}

func (s *a2aStub) lastRequest() stubRequest {
	if len(s.requests) == 0 {
		s.t.Fatal("no requests recorded")
	}
	return s.requests[len(s.requests)-1]
}

func TestGetMarketsPassthrough(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodGetMarketData, map[string]any{
		"markets": []any{map[string]any{"id": "m1", "question": "Will it rain?"}},
	})

	tool := NewGetMarketsTool(client)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if _, ok := parsed["markets"]; !ok {
		t.Errorf("expected markets passthrough, got %s", out)
	}
}

func TestGetMarketsSurfacesRemoteError(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.protocolError(a2a.MethodGetMarketData, "service unavailable")

	tool := NewGetMarketsTool(client)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("adapter must not return an error, got %v", err)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("error payload is not JSON: %v", err)
	}
	if !strings.Contains(parsed["error"], "service unavailable") {
		t.Errorf("remote message not preserved: %s", parsed["error"])
	}
}

func TestGetPortfolioMergesBalanceAndPositions(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodGetBalance, map[string]any{"balance": 150.5})
	stub.result(a2a.MethodGetPositions, map[string]any{
		"positions": []any{map[string]any{"marketId": "m1", "shares": 3}},
	})

	tool := NewGetPortfolioTool(client)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed["balance"] != 150.5 {
		t.Errorf("expected balance 150.5, got %v", parsed["balance"])
	}
	if parsed["positions"] == nil {
		t.Error("expected positions in merged result")
	}

	// The positions call is keyed by agent id.
	last := stub.lastRequest()
	if last.Method != a2a.MethodGetPositions {
		t.Fatalf("expected getPositions last, got %s", last.Method)
	}
	if last.Params["userId"] != "11155111:7" {
		t.Errorf("expected userId keyed by agent id, got %v", last.Params["userId"])
	}
}

func TestBuySharesUppercasesOutcome(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodBuyShares, map[string]any{"shares": 10})
	log := memory.NewActionLog()

	tool := NewBuySharesTool(client, log)
	_, err := tool.Execute(context.Background(), map[string]any{
		"market_id": "m1",
		"outcome":   "yes",
		"amount":    10.0,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	req := stub.lastRequest()
	if req.Params["outcome"] != "YES" {
		t.Errorf("expected outcome YES, got %v", req.Params["outcome"])
	}
	if req.Params["marketId"] != "m1" {
		t.Errorf("expected marketId m1, got %v", req.Params["marketId"])
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Action != "BUY_YES" {
		t.Errorf("expected BUY_YES recorded, got %v", entries)
	}
}

func TestBuySharesFailureNotRecorded(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.protocolError(a2a.MethodBuyShares, "insufficient balance")
	log := memory.NewActionLog()

	tool := NewBuySharesTool(client, log)
	out, err := tool.Execute(context.Background(), map[string]any{
		"market_id": "m1",
		"outcome":   "no",
		"amount":    5.0,
	})
	if err != nil {
		t.Fatalf("adapter must not return an error, got %v", err)
	}
	if !strings.Contains(out, "insufficient balance") {
		t.Errorf("expected error payload, got %s", out)
	}
	if log.Len() != 0 {
		t.Error("failed trades must not be recorded")
	}
}

func TestBuySharesRequiresMarketID(t *testing.T) {
	_, client := newA2AStub(t)
	tool := NewBuySharesTool(client, memory.NewActionLog())

	out, err := tool.Execute(context.Background(), map[string]any{"outcome": "yes", "amount": 1.0})
	if err != nil {
		t.Fatalf("adapter must not return an error, got %v", err)
	}
	if !strings.Contains(out, "market_id") {
		t.Errorf("expected validation payload, got %s", out)
	}
}

func TestCreatePostTruncatesContent(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodCreatePost, map[string]any{"postId": "p1"})
	log := memory.NewActionLog()

	tool := NewCreatePostTool(client, log)
	_, err := tool.Execute(context.Background(), map[string]any{
		"content": strings.Repeat("x", 500),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	req := stub.lastRequest()
	content, _ := req.Params["content"].(string)
	if len(content) != 280 {
		t.Errorf("expected content truncated to 280, got %d", len(content))
	}
	if req.Params["type"] != "post" {
		t.Errorf("expected type post, got %v", req.Params["type"])
	}

	entries := log.Entries()
	if len(entries) != 1 || entries[0].Action != "CREATE_POST" {
		t.Errorf("expected CREATE_POST recorded, got %v", entries)
	}
}

func TestGetFeedReturnsPosts(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodGetFeed, map[string]any{
		"posts": []any{map[string]any{"content": "hello"}},
	})

	tool := NewGetFeedTool(client)
	out, err := tool.Execute(context.Background(), map[string]any{"limit": 5})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	var posts []any
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatalf("expected a JSON list, got %s", out)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}

	req := stub.lastRequest()
	if req.Params["limit"] != float64(5) {
		t.Errorf("expected limit 5, got %v", req.Params["limit"])
	}
	if req.Params["offset"] != float64(0) {
		t.Errorf("expected fixed offset 0, got %v", req.Params["offset"])
	}
}

func TestGetFeedEmptyWhenPostsAbsent(t *testing.T) {
	stub, client := newA2AStub(t)
	stub.result(a2a.MethodGetFeed, map[string]any{})

	tool := NewGetFeedTool(client)
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected empty list, got %s", out)
	}
}
