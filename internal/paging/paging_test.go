package paging

import (
	"strconv"
	"testing"

	"job-portal/internal/model"

	"github.com/stretchr/testify/assert"
)

func makeJobs(n int) []model.Job {
	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{ID: strconv.Itoa(i + 1)}
	}
	return jobs
}

func TestSlicePagedLastPage(t *testing.T) {
	t.Parallel()

	jobs := makeJobs(25)

	w := Slice(jobs, ModePaged, 3, 12)
	assert.Len(t, w.Jobs, 1)
	assert.Equal(t, "25", w.Jobs[0].ID)
	assert.False(t, w.HasNext)
	assert.Equal(t, 3, w.TotalPages)

	w = Slice(jobs, ModePaged, 2, 12)
	assert.Len(t, w.Jobs, 12)
	assert.Equal(t, "13", w.Jobs[0].ID)
	assert.True(t, w.HasNext)
}

func TestSliceOutOfRange(t *testing.T) {
	t.Parallel()

	w := Slice(makeJobs(5), ModePaged, 9, 12)
	assert.Empty(t, w.Jobs)
	assert.False(t, w.HasNext)

	w = Slice(nil, ModeInfinite, 0, 0)
	assert.Empty(t, w.Jobs)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, DefaultPageSize, w.PageSize)
}

func TestControllerInfiniteAdvance(t *testing.T) {
	t.Parallel()

	jobs := makeJobs(25)
	c := NewController(12)
	c.SetMode(ModeInfinite)

	assert.Len(t, c.Window(jobs).Jobs, 12)

	assert.True(t, c.Advance(len(jobs)))
	w := c.Window(jobs)
	assert.Len(t, w.Jobs, 24)
	assert.True(t, w.HasNext)

	assert.True(t, c.Advance(len(jobs)))
	w = c.Window(jobs)
	assert.Len(t, w.Jobs, 25)
	assert.False(t, w.HasNext)

	assert.False(t, c.Advance(len(jobs)), "no advance once the end is reached")
	assert.Equal(t, 3, c.Page())
}

func TestControllerResetsOnChange(t *testing.T) {
	t.Parallel()

	jobs := makeJobs(40)
	c := NewController(12)
	c.Observe("search=go")

	assert.True(t, c.Next(len(jobs)))
	assert.True(t, c.Next(len(jobs)))
	assert.Equal(t, 3, c.Page())

	c.Observe("search=go")
	assert.Equal(t, 3, c.Page(), "same filters keep the position")

	c.Observe("search=go&sort=oldest")
	assert.Equal(t, 1, c.Page())

	c.Next(len(jobs))
	c.SetMode(ModeInfinite)
	assert.Equal(t, 1, c.Page())

	c.Advance(len(jobs))
	c.Observe("")
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, ModeInfinite, c.Mode(), "filter changes keep the mode")
}

func TestControllerPagedNavigation(t *testing.T) {
	t.Parallel()

	c := NewController(12)
	assert.False(t, c.Prev())
	assert.False(t, c.Advance(100), "advance only applies to infinite mode")

	c.GoTo(99, 25)
	assert.Equal(t, 3, c.Page())
	assert.False(t, c.Next(25))
	assert.True(t, c.Prev())
	assert.Equal(t, 2, c.Page())

	c.GoTo(-1, 0)
	assert.Equal(t, 1, c.Page())
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeInfinite, ParseMode("infinite"))
	assert.Equal(t, ModePaged, ParseMode(""))
	assert.Equal(t, ModePaged, ParseMode("scroll"))
}
