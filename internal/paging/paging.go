// Package paging 在筛选结果上计算可见窗口，支持分页与无限滚动两种模式。
package paging

import "job-portal/internal/model"

// DefaultPageSize 是每页职位数。
const DefaultPageSize = 12

// Mode 表示分页模式。
type Mode string

const (
	ModePaged    Mode = "paged"
	ModeInfinite Mode = "infinite"
)

// ParseMode 解析模式参数，未知值视为分页模式。
func ParseMode(v string) Mode {
	if Mode(v) == ModeInfinite {
		return ModeInfinite
	}
	return ModePaged
}

// Window 是某一时刻的可见结果。
type Window struct {
	Jobs       []model.Job `json:"jobs"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Mode       Mode        `json:"mode"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
}

// Slice 按模式截取结果：分页模式为 [(p-1)*size, p*size)，无限模式为 [0, p*size)。
func Slice(jobs []model.Job, mode Mode, page, size int) Window {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(jobs)

	start := (page - 1) * size
	if mode == ModeInfinite {
		start = 0
	}
	end := min(page*size, total)
	start = min(start, end)

	visible := make([]model.Job, end-start)
	copy(visible, jobs[start:end])

	w := Window{
		Jobs:       visible,
		Page:       page,
		PageSize:   size,
		Mode:       mode,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}
	if mode == ModeInfinite {
		w.HasNext = len(visible) < total
	} else {
		w.HasNext = page*size < total
	}
	return w
}
