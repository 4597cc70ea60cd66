// Package filter 实现职位的筛选与排序，是纯函数，不修改输入集合。
package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"job-portal/internal/model"
)

// Engine 持有时间源，用于"最近 N 天"判断。
type Engine struct {
	now func() time.Time
}

// New 创建 Engine，now 为空时使用 time.Now。
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Apply 使用当前时间筛选并排序。
func Apply(jobs []model.Job, f model.Filters, sort model.SortOption) []model.Job {
	return New(nil).Apply(jobs, f, sort)
}

// Apply 返回满足全部条件的职位，按 sort 稳定排序，结果为新切片。
func (e *Engine) Apply(jobs []model.Job, f model.Filters, sort model.SortOption) []model.Job {
	m := newMatcher(f, e.now())
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if m.match(job) {
			out = append(out, job)
		}
	}
	slices.SortStableFunc(out, comparator(sort))
	return out
}

// Matches 判断单个职位是否满足条件。
func (e *Engine) Matches(job model.Job, f model.Filters) bool {
	return newMatcher(f, e.now()).match(job)
}

// matcher 预先归一化筛选值，避免每条记录重复处理。
type matcher struct {
	search   string
	location string
	category string
	types    []string
	remote   bool
	salary   model.SalaryRange
	openings int
	cutoff   *time.Time
}

func newMatcher(f model.Filters, now time.Time) matcher {
	m := matcher{
		search:   strings.ToLower(strings.TrimSpace(f.Search)),
		remote:   f.IsRemote,
		salary:   f.SalaryRange,
		openings: f.MinOpenings,
	}
	if !isAll(f.Location) {
		m.location = normalize(f.Location)
	}
	if !isAll(f.Category) {
		m.category = normalize(f.Category)
	}
	for _, t := range f.EmploymentTypes {
		m.types = append(m.types, normalize(t))
	}
	if f.CreatedWithin != nil && *f.CreatedWithin > 0 {
		cutoff := now.AddDate(0, 0, -*f.CreatedWithin)
		m.cutoff = &cutoff
	}
	return m
}

func (m matcher) match(job model.Job) bool {
	if m.search != "" &&
		!strings.Contains(strings.ToLower(job.Title), m.search) &&
		!strings.Contains(strings.ToLower(job.Company), m.search) &&
		!strings.Contains(strings.ToLower(job.Description), m.search) {
		return false
	}
	if m.location != "" && normalize(job.Location) != m.location {
		return false
	}
	if len(m.types) > 0 && !slices.Contains(m.types, normalize(job.EmploymentType)) {
		return false
	}
	if m.category != "" && normalize(job.JobCategory) != m.category {
		return false
	}
	if m.remote && !job.IsRemoteWork {
		return false
	}
	// 薪资是包含关系而非区间重叠。
	if job.SalaryFrom < m.salary.Min || job.SalaryTo > m.salary.Max {
		return false
	}
	if job.Openings < m.openings {
		return false
	}
	if m.cutoff != nil && (job.CreatedAt.IsZero() || job.CreatedAt.Before(*m.cutoff)) {
		return false
	}
	return true
}

func comparator(sort model.SortOption) func(a, b model.Job) int {
	switch sort {
	case model.SortOldest:
		return func(a, b model.Job) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case model.SortSalaryHigh:
		return func(a, b model.Job) int { return cmp.Compare(b.SalaryTo, a.SalaryTo) }
	case model.SortSalaryLow:
		return func(a, b model.Job) int { return cmp.Compare(a.SalaryFrom, b.SalaryFrom) }
	case model.SortMostOpenings:
		return func(a, b model.Job) int { return cmp.Compare(b.Openings, a.Openings) }
	default:
		return func(a, b model.Job) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == model.AllValue
}
