package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	botinternal "battlebrain/internal/bot/internal"
	"battlebrain/internal/domain"
)

func scoredFixture(t *testing.T) []botinternal.ScoredAction {
	t.Helper()
	return []botinternal.ScoredAction{
		{Action: domain.Action{Type: domain.ActionMove, Move: mustMove(t, "Thunderbolt")}, Score: 40},
		{Action: domain.Action{Type: domain.ActionMove, Move: mustMove(t, "Flash Cannon")}, Score: 38},
		{Action: domain.Action{Type: domain.ActionSwitch, SwitchTo: 0}, Score: 12},
	}
}

func TestHTTPAdvisorRoundTrip(t *testing.T) {
	scored := scoredFixture(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AdvisorRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "battle-1", req.BattleID)
		require.Len(t, req.Candidates, 2)

		resp := AdvisorResponse{
			Order: []string{
				req.Candidates[1].Action.Label(),
				req.Candidates[0].Action.Label(),
			},
			Rationale: "second line covers the switch tree better",
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	advisor := NewHTTPAdvisor(srv.URL, time.Second)
	resp, err := advisor.Rerank(context.Background(), AdvisorRequest{
		BattleID:   "battle-1",
		Turn:       7,
		Candidates: scored[:2],
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, []string{"move:Flash Cannon", "move:Thunderbolt"}, resp.Order)
	require.NotEmpty(t, resp.Rationale)
}

func TestHTTPAdvisorNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	advisor := NewHTTPAdvisor(srv.URL, time.Second)
	_, err := advisor.Rerank(context.Background(), AdvisorRequest{})
	require.Error(t, err)
}

func TestHTTPAdvisorTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	advisor := NewHTTPAdvisor(srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := advisor.Rerank(context.Background(), AdvisorRequest{})
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second, "advisor blocked past its timeout")
}

func TestApplyRerankRejectsBadAdvice(t *testing.T) {
	scored := scoredFixture(t)

	// Not a permutation of the offered labels.
	_, applied := applyRerank(scored, 2, &AdvisorResponse{Order: []string{"move:Surf", "move:Thunderbolt"}})
	require.False(t, applied)

	// Wrong cardinality.
	_, applied = applyRerank(scored, 2, &AdvisorResponse{Order: []string{"move:Thunderbolt"}})
	require.False(t, applied)

	// Duplicate labels.
	_, applied = applyRerank(scored, 2, &AdvisorResponse{Order: []string{"move:Thunderbolt", "move:Thunderbolt"}})
	require.False(t, applied)

	// Valid permutation reorders the head and keeps the tail.
	reordered, applied := applyRerank(scored, 2, &AdvisorResponse{Order: []string{"move:Flash Cannon", "move:Thunderbolt"}})
	require.True(t, applied)
	require.Equal(t, "move:Flash Cannon", reordered[0].Action.Label())
	require.Equal(t, "move:Thunderbolt", reordered[1].Action.Label())
	require.Equal(t, "switch:0", reordered[2].Action.Label())
}
