package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReconciliation(t *testing.T, app *testApp) domain.ReconciliationReport {
	t.Helper()

	req, err := http.NewRequest("POST", app.Server.URL+"/api/admin/reconcile", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken(t)})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.ReconciliationReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return report
}

func TestReconcileRepairsCorruptedCounter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	candidate := createCandidate(t, app, "Ada")
	for i := 0; i < 4; i++ {
		_, token := voterToken(t)
		resp := castVoteRequest(t, app, token, candidate.ID)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// Corrupt the cached counter behind the store's back.
	_, err := app.DB.Exec("UPDATE candidates SET vote_count = 99 WHERE id = $1", candidate.ID)
	require.NoError(t, err)

	report := runReconciliation(t, app)

	require.Len(t, report.Drifts, 1)
	assert.Equal(t, candidate.ID, report.Drifts[0].CandidateID)
	assert.Equal(t, int64(99), report.Drifts[0].Cached)
	assert.Equal(t, int64(4), report.Drifts[0].Actual)

	var count int64
	require.NoError(t, app.DB.QueryRow("SELECT vote_count FROM candidates WHERE id = $1", candidate.ID).Scan(&count))
	assert.Equal(t, int64(4), count)

	// Clean second run.
	report = runReconciliation(t, app)
	assert.Empty(t, report.Drifts)
	assert.Empty(t, report.Mismatches)
}

func TestReconcileSurfacesVoterMismatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	candidate := createCandidate(t, app, "Ada")

	// A voter claimed with no record, e.g. a crash between claim and append
	// whose compensation also failed.
	stranded := uuid.New()
	_, err := app.DB.Exec(
		"INSERT INTO voters (id, has_voted, voted_at) VALUES ($1, TRUE, NOW())", stranded)
	require.NoError(t, err)

	// A record with no claim, e.g. a manually patched ledger row.
	orphan := uuid.New()
	_, err = app.DB.Exec(
		"INSERT INTO votes (id, voter_id, candidate_id) VALUES ($1, $2, $3)",
		uuid.New(), orphan, candidate.ID)
	require.NoError(t, err)

	report := runReconciliation(t, app)

	kinds := map[uuid.UUID]domain.MismatchKind{}
	for _, m := range report.Mismatches {
		kinds[m.VoterID] = m.Kind
	}
	assert.Equal(t, domain.MismatchClaimedWithoutRecord, kinds[stranded])
	assert.Equal(t, domain.MismatchRecordedWithoutClaim, kinds[orphan])

	// Voter state untouched: mismatches are for manual resolution.
	var hasVoted bool
	require.NoError(t, app.DB.QueryRow("SELECT has_voted FROM voters WHERE id = $1", stranded).Scan(&hasVoted))
	assert.True(t, hasVoted)

	// The orphan record also drifts the counter recount; repair happened.
	var count int64
	require.NoError(t, app.DB.QueryRow("SELECT vote_count FROM candidates WHERE id = $1", candidate.ID).Scan(&count))
	assert.Equal(t, int64(1), count)
}
