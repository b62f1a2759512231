package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/babylon-agents/babylon-agent/internal/a2a"
	"github.com/babylon-agents/babylon-agent/internal/memory"
)

// maxPostLength is the Babylon feed post limit.
const maxPostLength = 280

// errorPayload renders a failure as a structured tool result. Adapters never
// return a Go error for remote failures: a failed tool must not abort the
// whole decision cycle, the model just sees the error text.
func errorPayload(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

func errorText(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

func marshalResult(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return errorText("encode result: " + err.Error())
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// get_markets
// ---------------------------------------------------------------------------

// GetMarketsTool fetches the available prediction markets.
type GetMarketsTool struct {
	client *a2a.Client
}

func NewGetMarketsTool(client *a2a.Client) *GetMarketsTool {
	return &GetMarketsTool{client: client}
}

func (t *GetMarketsTool) Name() string { return "get_markets" }

func (t *GetMarketsTool) Description() string {
	return "Get available prediction markets."
}

func (t *GetMarketsTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *GetMarketsTool) Tier() int { return TierReadOnly }

func (t *GetMarketsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	result, err := t.client.Call(ctx, a2a.MethodGetMarketData, nil)
	if err != nil {
		return errorPayload(err), nil
	}
	return marshalResult(result), nil
}

// ---------------------------------------------------------------------------
// get_portfolio
// ---------------------------------------------------------------------------

// GetPortfolioTool fetches balance and positions and merges them.
type GetPortfolioTool struct {
	client *a2a.Client
}

func NewGetPortfolioTool(client *a2a.Client) *GetPortfolioTool {
	return &GetPortfolioTool{client: client}
}

func (t *GetPortfolioTool) Name() string { return "get_portfolio" }

func (t *GetPortfolioTool) Description() string {
	return "Get current portfolio including balance and positions."
}

func (t *GetPortfolioTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *GetPortfolioTool) Tier() int { return TierReadOnly }

func (t *GetPortfolioTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	balance, err := t.client.Call(ctx, a2a.MethodGetBalance, nil)
	if err != nil {
		return errorPayload(err), nil
	}
	positions, err := t.client.Call(ctx, a2a.MethodGetPositions, map[string]any{
		"userId": t.client.AgentID(),
	})
	if err != nil {
		return errorPayload(err), nil
	}

	var bal any = 0
	if v, ok := balance["balance"]; ok {
		bal = v
	}
	return marshalResult(map[string]any{
		"balance":   bal,
		"positions": positions,
	}), nil
}

// ---------------------------------------------------------------------------
// buy_shares
// ---------------------------------------------------------------------------

// BuySharesTool buys YES or NO shares in a prediction market.
type BuySharesTool struct {
	client *a2a.Client
	log    *memory.ActionLog
}

func NewBuySharesTool(client *a2a.Client, log *memory.ActionLog) *BuySharesTool {
	return &BuySharesTool{client: client, log: log}
}

func (t *BuySharesTool) Name() string { return "buy_shares" }

func (t *BuySharesTool) Description() string {
	return "Buy YES or NO shares in a prediction market."
}

func (t *BuySharesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"market_id": map[string]any{
				"type":        "string",
				"description": "Identifier of the market to trade",
			},
			"outcome": map[string]any{
				"type":        "string",
				"description": "YES or NO",
			},
			"amount": map[string]any{
				"type":        "number",
				"description": "Amount to spend",
			},
		},
		"required": []string{"market_id", "outcome", "amount"},
	}
}

func (t *BuySharesTool) Tier() int { return TierHighRisk }

func (t *BuySharesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	marketID := GetString(params, "market_id", "")
	outcome := strings.ToUpper(GetString(params, "outcome", ""))
	amount := GetFloat(params, "amount", 0)
	if marketID == "" {
		return errorText("market_id is required"), nil
	}
	if outcome == "" {
		return errorText("outcome is required"), nil
	}

	result, err := t.client.Call(ctx, a2a.MethodBuyShares, map[string]any{
		"marketId": marketID,
		"outcome":  outcome,
		"amount":   amount,
	})
	if err != nil {
		return errorPayload(err), nil
	}

	t.log.Record("BUY_"+outcome, result)
	return marshalResult(result), nil
}

// ---------------------------------------------------------------------------
// create_post
// ---------------------------------------------------------------------------

// CreatePostTool creates a post in the Babylon feed.
type CreatePostTool struct {
	client *a2a.Client
	log    *memory.ActionLog
}

func NewCreatePostTool(client *a2a.Client, log *memory.ActionLog) *CreatePostTool {
	return &CreatePostTool{client: client, log: log}
}

func (t *CreatePostTool) Name() string { return "create_post" }

func (t *CreatePostTool) Description() string {
	return "Create a post in the Babylon feed."
}

func (t *CreatePostTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "Post text, truncated to 280 characters",
			},
		},
		"required": []string{"content"},
	}
}

func (t *CreatePostTool) Tier() int { return TierHighRisk }

func (t *CreatePostTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	content := GetString(params, "content", "")
	if content == "" {
		return errorText("content is required"), nil
	}
	if runes := []rune(content); len(runes) > maxPostLength {
		content = string(runes[:maxPostLength])
	}

	result, err := t.client.Call(ctx, a2a.MethodCreatePost, map[string]any{
		"content": content,
		"type":    "post",
	})
	if err != nil {
		return errorPayload(err), nil
	}

	t.log.Record("CREATE_POST", result)
	return marshalResult(result), nil
}

// ---------------------------------------------------------------------------
// get_feed
// ---------------------------------------------------------------------------

// GetFeedTool reads recent posts from the Babylon feed.
type GetFeedTool struct {
	client *a2a.Client
}

func NewGetFeedTool(client *a2a.Client) *GetFeedTool {
	return &GetFeedTool{client: client}
}

func (t *GetFeedTool) Name() string { return "get_feed" }

func (t *GetFeedTool) Description() string {
	return "Get recent posts from the Babylon feed."
}

func (t *GetFeedTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of posts to return (default 20)",
			},
		},
	}
}

func (t *GetFeedTool) Tier() int { return TierReadOnly }

func (t *GetFeedTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	limit := GetInt(params, "limit", 20)

	result, err := t.client.Call(ctx, a2a.MethodGetFeed, map[string]any{
		"limit":  limit,
		"offset": 0,
	})
	if err != nil {
		return errorPayload(err), nil
	}

	posts, ok := result["posts"]
	if !ok || posts == nil {
		posts = []any{}
	}
	return marshalResult(posts), nil
}

// RegisterBabylonTools registers the five Babylon action adapters.
func RegisterBabylonTools(r *Registry, client *a2a.Client, log *memory.ActionLog) {
	r.Register(NewGetMarketsTool(client))
	r.Register(NewGetPortfolioTool(client))
	r.Register(NewBuySharesTool(client, log))
	r.Register(NewCreatePostTool(client, log))
	r.Register(NewGetFeedTool(client))
}
