package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	botinternal "battlebrain/internal/bot/internal"
	"battlebrain/internal/domain"
)

// AdvisorRequest is the payload offered to an external advisor: the top-K
// scored candidates with their contribution trails, plus enough context to
// reason about them.
type AdvisorRequest struct {
	BattleID   string                     `json:"battle_id,omitempty"`
	Turn       int                        `json:"turn"`
	Digest     string                     `json:"digest"`
	Snapshot   *domain.Snapshot           `json:"snapshot"`
	Candidates []botinternal.ScoredAction `json:"candidates"`
}

// AdvisorResponse carries the advisor's preferred ordering, expressed as
// action labels best-first, with an optional rationale for the trace.
type AdvisorResponse struct {
	Order     []string `json:"order"`
	Rationale string   `json:"rationale,omitempty"`
}

// Advisor is the reranking strategy. Returning (nil, nil) means the advisor
// defers to the evaluator's own ranking; any error is treated identically.
type Advisor interface {
	Rerank(ctx context.Context, req AdvisorRequest) (*AdvisorResponse, error)
}

// NoopAdvisor always defers. It is the default wiring when no advisory
// endpoint is configured.
type NoopAdvisor struct{}

func (NoopAdvisor) Rerank(context.Context, AdvisorRequest) (*AdvisorResponse, error) {
	return nil, nil
}

// HTTPAdvisor posts the request as JSON to an external advisory service. Every
// failure mode (transport, status, decode, timeout) is an error the caller
// treats as "no rerank"; the advisor never blocks past its timeout.
type HTTPAdvisor struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPAdvisor builds an advisor with a dedicated client and a per-call
// timeout.
func NewHTTPAdvisor(url string, timeout time.Duration) *HTTPAdvisor {
	return &HTTPAdvisor{
		URL:     url,
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (a *HTTPAdvisor) Rerank(ctx context.Context, req AdvisorRequest) (*AdvisorResponse, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode advisor request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build advisor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("advisor call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}
	var out AdvisorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode advisor response: %w", err)
	}
	return &out, nil
}

// applyRerank reorders the top-K of scored according to the advisor's label
// order. The advisor's order must be a permutation of the labels it was
// offered; anything else discards the advice and keeps the evaluator ranking.
func applyRerank(scored []botinternal.ScoredAction, topK int, resp *AdvisorResponse) ([]botinternal.ScoredAction, bool) {
	if resp == nil || len(resp.Order) == 0 {
		return scored, false
	}
	k := topK
	if k > len(scored) {
		k = len(scored)
	}
	if len(resp.Order) != k {
		return scored, false
	}

	byLabel := make(map[string]botinternal.ScoredAction, k)
	for _, sa := range scored[:k] {
		byLabel[sa.Action.Label()] = sa
	}
	reordered := make([]botinternal.ScoredAction, 0, len(scored))
	for _, label := range resp.Order {
		sa, ok := byLabel[label]
		if !ok {
			return scored, false
		}
		delete(byLabel, label)
		reordered = append(reordered, sa)
	}
	reordered = append(reordered, scored[k:]...)
	return reordered, true
}
