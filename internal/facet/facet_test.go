package facet

import (
	"testing"

	"job-portal/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	jobs := []model.Job{
		{JobCategory: "Sales", Location: "Paris", EmploymentType: "Part-time"},
		{JobCategory: "Engineering", Location: "Berlin", EmploymentType: "Full-time"},
		{JobCategory: "Engineering", Location: "", EmploymentType: "Contract"},
		{JobCategory: "", Location: "Berlin", EmploymentType: ""},
	}

	got := Extract(jobs)
	assert.Equal(t, []string{"Engineering", "Sales"}, got.Categories)
	assert.Equal(t, []string{"all", "Berlin", "Paris"}, got.Locations)
	assert.Equal(t, []string{"Contract", "Full-time", "Part-time"}, got.EmploymentTypes)
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()

	got := Extract(nil)
	assert.Empty(t, got.Categories)
	assert.Equal(t, []string{"all"}, got.Locations)
	assert.Empty(t, got.EmploymentTypes)
}
