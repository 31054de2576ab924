package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnp-robotics/scout-cli/internal/model"
	"github.com/cnp-robotics/scout-cli/internal/roster"
	"github.com/cnp-robotics/scout-cli/internal/store"
)

func newTestRoster(t *testing.T) *roster.Roster {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	r := roster.New(st, model.DefaultRegistry())
	require.NoError(t, r.Load(ctx))
	return r
}

func newTestRouter(t *testing.T) (*roster.Roster, http.Handler) {
	t.Helper()
	ro := newTestRoster(t)
	r := chi.NewRouter()
	registerRoutes(r, ro)
	return ro, r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServeTeams(t *testing.T) {
	ro, h := newTestRouter(t)
	ctx := context.Background()

	_, err := ro.Upsert(ctx, "755", model.SourceManual, map[string]any{model.FieldName: "Delbotics"})
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/teams", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Delbotics"`)

	rec = doRequest(t, h, http.MethodGet, "/teams/755", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"number":"755"`)

	rec = doRequest(t, h, http.MethodGet, "/teams/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeEdits(t *testing.T) {
	ro, h := newTestRouter(t)
	ctx := context.Background()

	_, err := ro.Upsert(ctx, "755", model.SourceManual, map[string]any{model.FieldName: "Delbotics"})
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPost, "/teams/755/edits",
		`{"field":"opr","value":"68.4","reason":"verified at event"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	team, err := ro.Get("755")
	require.NoError(t, err)
	require.NotNil(t, team.OPR)
	assert.Equal(t, 68.4, *team.OPR)

	// missing reason is a 400
	rec = doRequest(t, h, http.MethodPost, "/teams/755/edits",
		`{"field":"opr","value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/teams/755/edits/opr", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServeObservations(t *testing.T) {
	ro, h := newTestRouter(t)
	ctx := context.Background()

	_, err := ro.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPost, "/observations",
		`{"team":"755","fields":{"avg_auto":4,"has_auto":true}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts["applied"])
	assert.Equal(t, 0, counts["skipped_edited"])

	team, err := ro.Get("755")
	require.NoError(t, err)
	assert.Equal(t, 1, team.MatchCount)
	assert.Equal(t, 4.0, team.AvgAuto)
	assert.True(t, team.HasAuto)

	rec = doRequest(t, h, http.MethodGet, "/observations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"755"`)
}

func TestServeTarget(t *testing.T) {
	ro, h := newTestRouter(t)
	ctx := context.Background()

	_, err := ro.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPut, "/target", `{"number":"755"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "755", ro.Target())

	rec = doRequest(t, h, http.MethodPut, "/target", `{"number":"9999"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/target", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"755"`)
}

func TestServeDeleteTeam(t *testing.T) {
	ro, h := newTestRouter(t)
	ctx := context.Background()

	_, err := ro.Upsert(ctx, "755", model.SourceManual, nil)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodDelete, "/teams/755", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, ro.Len())
}
