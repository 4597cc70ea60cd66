package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"job-portal/internal/facet"
	"job-portal/internal/model"
	"job-portal/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newSession(t *testing.T, raw string) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(&stubSource{jobs: manyJobs(25)}, raw, Options{
		Now:       func() time.Time { return now },
		Navigator: rec,
	})
	t.Cleanup(s.Close)
	return s, rec
}

func TestSessionPagedNavigation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newSession(t, "")

	v := s.View(ctx)
	assert.Equal(t, 25, v.Total)
	assert.Len(t, v.Jobs, 12)
	assert.Equal(t, "j00", v.Jobs[0].ID, "newest first by default")

	require.True(t, s.NextPage(ctx))
	require.True(t, s.NextPage(ctx))
	assert.False(t, s.NextPage(ctx))

	v = s.View(ctx)
	assert.Equal(t, 3, v.Page)
	assert.Len(t, v.Jobs, 1)
	assert.False(t, v.HasNext)

	require.True(t, s.PrevPage())
	assert.Equal(t, 2, s.View(ctx).Page)
	assert.False(t, s.LoadMore(ctx), "load more only applies in infinite mode")
}

func TestSessionFilterChangeResetsPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, rec := newSession(t, "")

	s.GoTo(ctx, 3)
	require.Equal(t, 3, s.View(ctx).Page)

	sort := model.SortOldest
	require.True(t, s.Update(query.Patch{Sort: &sort}))
	v := s.View(ctx)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, "j24", v.Jobs[0].ID)
	assert.Equal(t, []string{"sort=oldest"}, rec.all())

	// Same value again: no navigation, page untouched.
	require.True(t, s.NextPage(ctx))
	assert.False(t, s.Update(query.Patch{Sort: &sort}))
	assert.Equal(t, 2, s.View(ctx).Page)
	assert.Len(t, rec.all(), 1)
}

func TestSessionInfiniteMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, rec := newSession(t, "")

	require.True(t, s.SetInfinite(true))
	assert.Equal(t, "mode=infinite", s.Query())
	assert.Equal(t, []string{"mode=infinite"}, rec.all())
	assert.False(t, s.SetInfinite(true))

	v := s.View(ctx)
	assert.Len(t, v.Jobs, 12)
	assert.True(t, v.HasNext)

	require.True(t, s.LoadMore(ctx))
	v = s.View(ctx)
	assert.Len(t, v.Jobs, 24)
	assert.True(t, v.HasNext)

	require.True(t, s.LoadMore(ctx))
	v = s.View(ctx)
	assert.Len(t, v.Jobs, 25)
	assert.False(t, v.HasNext)
	assert.False(t, s.LoadMore(ctx))
	assert.False(t, s.NextPage(ctx))

	// Filter change resets the window and keeps the mode key.
	remote := true
	require.True(t, s.Update(query.Patch{IsRemote: &remote}))
	v = s.View(ctx)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, "is_remote=true&mode=infinite", v.Query)
}

func TestSessionDebouncedSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, rec := newSession(t, "")

	s.Type("Role 1")
	v := s.View(ctx)
	assert.Equal(t, "Role 1", v.SearchDraft)
	assert.Equal(t, "", v.State.Filters.Search, "draft is not committed yet")
	assert.Empty(t, rec.all())

	s.FlushSearch()
	v = s.View(ctx)
	assert.Equal(t, "Role 1", v.State.Filters.Search)
	assert.Equal(t, []string{"search=Role+1"}, rec.all())
	// Role 1, Role 10..19
	assert.Equal(t, 11, v.Total)
}

func TestSessionRemoveAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newSession(t, "search=Role&employment_types=Full-time&employment_types=Contract&is_remote=true&sort=salary_high")

	v := s.View(ctx)
	labels := make([]string, 0, len(v.Chips))
	for _, c := range v.Chips {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"Search: Role", "Full-time", "Contract", "Remote only"}, labels)

	require.True(t, s.RemoveFilter(model.KeyEmploymentTypes, "Contract"))
	assert.Equal(t, []string{"Full-time"}, s.State().Filters.EmploymentTypes)

	require.True(t, s.ResetFilters())
	st := s.State()
	assert.Equal(t, "Role", st.Filters.Search, "reset keeps the search term")
	assert.False(t, st.Filters.IsRemote)
	assert.Empty(t, st.Filters.EmploymentTypes)
	assert.Equal(t, model.SortSalaryHigh, st.Sort)

	s.Type("Role 2")
	require.True(t, s.ClearAll())
	v = s.View(ctx)
	assert.Equal(t, "sort=salary_high", v.Query)
	assert.Equal(t, "", v.SearchDraft, "clear all resets the draft")
	assert.Equal(t, 25, v.Total)
}

func TestSessionViewAndReport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newSession(t, "?mode=infinite&employment_types=Contract")

	v := s.View(ctx)
	assert.Equal(t, "infinite", string(v.Mode))
	assert.Equal(t, []string{"Contract", "Full-time"}, v.Facets.EmploymentTypes)
	assert.False(t, v.Loading)

	r := s.Report(ctx)
	assert.Len(t, r.Jobs, 12, "report holds every match, not one page")
	assert.Equal(t, now, r.Generated)
	assert.Equal(t, []string{"Contract"}, r.Filters.EmploymentTypes)
}

func TestSessionMalformedQuery(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, "%zz")
	assert.True(t, s.State().Equal(query.DefaultState()))
	assert.Equal(t, 25, s.View(context.Background()).Total)
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
			IsRemoteWork:   i%3 == 0,
			SalaryFrom:     float64(10000 + i*1000),
			SalaryTo:       float64(20000 + i*1000),
			CreatedAt:      now.Add(-time.Duration(i) * time.Hour),
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

type recorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorder) Navigate(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}
