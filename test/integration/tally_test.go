package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTally(t *testing.T, app *testApp) []domain.TallyEntry {
	t.Helper()

	resp, err := app.Client.Get(app.Server.URL + "/api/tally")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []domain.TallyEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	return entries
}

func TestTallyOrderingAndPercentages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ada := createCandidate(t, app, "Ada")
	grace := createCandidate(t, app, "Grace")

	// Three voters for Grace, one for Ada.
	for i := 0; i < 3; i++ {
		_, token := voterToken(t)
		resp := castVoteRequest(t, app, token, grace.ID)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	_, token := voterToken(t)
	resp := castVoteRequest(t, app, token, ada.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	entries := getTally(t, app)
	require.Len(t, entries, 2)

	assert.Equal(t, grace.ID, entries[0].CandidateID)
	assert.Equal(t, int64(3), entries[0].VoteCount)
	assert.InDelta(t, 75.0, entries[0].Percentage, 0.001)

	assert.Equal(t, ada.ID, entries[1].CandidateID)
	assert.Equal(t, int64(1), entries[1].VoteCount)
	assert.InDelta(t, 25.0, entries[1].Percentage, 0.001)
}

func TestTallyTieBrokenByCreationOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	first := createCandidate(t, app, "First")
	second := createCandidate(t, app, "Second")

	for _, c := range []domain.Candidate{second, first} {
		_, token := voterToken(t)
		resp := castVoteRequest(t, app, token, c.ID)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	entries := getTally(t, app)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].CandidateID)
	assert.Equal(t, second.ID, entries[1].CandidateID)
}

func TestTallyExcludesDeletedCandidateButKeepsVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ada := createCandidate(t, app, "Ada")
	retired := createCandidate(t, app, "Retired")

	for i := 0; i < 5; i++ {
		_, token := voterToken(t)
		resp := castVoteRequest(t, app, token, retired.ID)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	_, token := voterToken(t)
	resp := castVoteRequest(t, app, token, ada.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/api/admin/candidates/%s", app.Server.URL, retired.ID), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken(t)})
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	entries := getTally(t, app)
	require.Len(t, entries, 1)
	assert.Equal(t, ada.ID, entries[0].CandidateID)
	assert.InDelta(t, 100.0, entries[0].Percentage, 0.001)

	// The deleted candidate's votes still count against the ledger.
	var totalVotes, claimedVoters int64
	require.NoError(t, app.DB.QueryRow("SELECT COALESCE(SUM(vote_count), 0) FROM candidates").Scan(&totalVotes))
	require.NoError(t, app.DB.QueryRow("SELECT COUNT(*) FROM voters WHERE has_voted").Scan(&claimedVoters))
	assert.Equal(t, int64(6), totalVotes)
	assert.Equal(t, claimedVoters, totalVotes)
}

func TestEmptyTally(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	entries := getTally(t, app)
	assert.Empty(t, entries)
}
