package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"job-portal/internal/facet"
	"job-portal/internal/model"
	"job-portal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestHandler(src *stubSource, ref Refresher, store JobStore, perMinute int) http.Handler {
	return NewHandler(src, ref, store, Options{
		RefreshPerMinute: perMinute,
		LogWriter:        io.Discard,
		Now:              func() time.Time { return fixedNow },
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := do(newTestHandler(&stubSource{}, nil, nil, 0), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListJobsPaged(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{jobs: manyJobs(25)}, nil, nil, 0)
	w := do(h, http.MethodGet, "/api/jobs?page=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "3", w.Header().Get("X-Page"))
	assert.Equal(t, "25", w.Header().Get("X-Total"))
	assert.Equal(t, "false", w.Header().Get("X-Has-More"))

	var body struct {
		Jobs    []model.Job `json:"jobs"`
		Total   int         `json:"total"`
		HasNext bool        `json:"has_next"`
		Query   string      `json:"query"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Jobs, 1)
	assert.Equal(t, 25, body.Total)
	assert.Equal(t, "", body.Query, "page is not part of the shareable query")
}

func TestListJobsFilteredInfinite(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{jobs: manyJobs(25)}, nil, nil, 0)
	w := do(h, http.MethodGet, "/api/jobs?mode=infinite&page=2&employment_types=Contract&sort=oldest", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Jobs    []model.Job `json:"jobs"`
		Total   int         `json:"total"`
		HasNext bool        `json:"has_next"`
		Mode    string      `json:"mode"`
		Chips   []struct {
			Label string `json:"label"`
		} `json:"chips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "infinite", body.Mode)
	assert.Equal(t, 12, body.Total)
	assert.Len(t, body.Jobs, 12)
	assert.False(t, body.HasNext)
	assert.Equal(t, "j23", body.Jobs[0].ID)
	require.Len(t, body.Chips, 1)
	assert.Equal(t, "Contract", body.Chips[0].Label)
}

func TestGetJob(t *testing.T) {
	t.Parallel()

	store := &stubStore{jobs: map[string]model.Job{"s1": {ID: "s1", Title: "From snapshot"}}}
	h := newTestHandler(&stubSource{jobs: manyJobs(3)}, nil, store, 0)

	w := do(h, http.MethodGet, "/api/jobs/s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "From snapshot")

	w = do(h, http.MethodGet, "/api/jobs/j01", "")
	require.Equal(t, http.StatusOK, w.Code, "falls back to the in-memory collection")
	assert.Contains(t, w.Body.String(), "Role 1")

	w = do(h, http.MethodGet, "/api/jobs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"job not found"}`, w.Body.String())

	store.err = errors.New("disk on fire")
	w = do(h, http.MethodGet, "/api/jobs/s1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFacets(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{jobs: manyJobs(4)}, nil, nil, 0)
	w := do(h, http.MethodGet, "/api/facets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body FacetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Contract", "Full-time"}, body.EmploymentTypes)
	assert.Equal(t, []string{"all"}, body.Locations)
	assert.Equal(t, []int{1, 7, 14, 30, 90}, body.CreatedWithin)
	require.Len(t, body.SortOptions, 5)
	assert.Equal(t, "Newest First", body.SortOptions[0].Label)
	assert.Equal(t, float64(500000), body.SalaryMax)
}

func TestUpdateFilters(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{}, nil, nil, 0)

	w := do(h, http.MethodPost, "/api/filters?search=go&mode=infinite", `{"is_remote":true,"salary_range":{"min":10000,"max":500000}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp FilterUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, "is_remote=true&min_salary=10000&mode=infinite&search=go", resp.Query)

	w = do(h, http.MethodPost, "/api/filters?search=go", `{"search":"go"}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Changed)

	w = do(h, http.MethodPost, "/api/filters", `{"sort":"cheapest"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodPost, "/api/filters", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{jobs: manyJobs(25)}, nil, nil, 0)

	w := do(h, http.MethodGet, "/api/export/csv?employment_types=Contract", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="jobs_export_2026-10-16.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 13, "header plus every match")

	w = do(h, http.MethodGet, "/api/export/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = do(h, http.MethodGet, "/api/export/html?search=Role%201", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Total results: 11")

	w = do(h, http.MethodGet, "/api/export/xlsx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	ref := &stubRefresher{n: 7}
	h := newTestHandler(&stubSource{}, ref, nil, 2)

	for i := 0; i < 2; i++ {
		w := do(h, http.MethodPost, "/api/refresh", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"jobs":7}`, w.Body.String())
	}
	w := do(h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, int32(2), ref.calls.Load())

	w = do(h, http.MethodGet, "/api/refresh", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshFailure(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{}, &stubRefresher{err: errors.New("upstream 503")}, nil, 0)
	w := do(h, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "upstream 503")

	w = do(newTestHandler(&stubSource{}, nil, nil, 0), http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&stubSource{jobs: manyJobs(2)}, nil, nil, 0)
	do(h, http.MethodGet, "/api/jobs", "")

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "job_portal_filter_results")
}

// --- stubs ---

func manyJobs(n int) []model.Job {
	jobs := make([]model.Job, 0, n)
	for i := 0; i < n; i++ {
		typ := "Full-time"
		if i%2 == 1 {
			typ = "Contract"
		}
		jobs = append(jobs, model.Job{
			ID:             fmt.Sprintf("j%02d", i),
			Title:          fmt.Sprintf("Role %d", i),
			EmploymentType: typ,
			SalaryFrom:     20000,
			SalaryTo:       40000,
			CreatedAt:      fixedNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	return jobs
}

type stubSource struct {
	jobs []model.Job
}

func (s *stubSource) Jobs(context.Context) []model.Job { return s.jobs }

func (s *stubSource) Facets(context.Context) facet.Options { return facet.Extract(s.jobs) }

func (s *stubSource) Loading() bool { return false }

type stubStore struct {
	jobs map[string]model.Job
	err  error
}

func (s *stubStore) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	job, ok := s.jobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &job, nil
}

type stubRefresher struct {
	n     int
	err   error
	calls atomic.Int32
}

func (s *stubRefresher) RunOnce(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return s.n, s.err
}
