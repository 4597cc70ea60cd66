package filter

import (
	"fmt"
	"strings"

	"job-portal/internal/format"
	"job-portal/internal/model"
)

// Chip 表示一个生效中的筛选条件，Value 仅用于多选项。
type Chip struct {
	Key   model.FilterKey `json:"key"`
	Value string          `json:"value,omitempty"`
	Label string          `json:"label"`
}

// Active 按展示顺序列出生效中的筛选条件。
func Active(f model.Filters) []Chip {
	chips := make([]Chip, 0, 8)
	if f.Search != "" {
		chips = append(chips, Chip{Key: model.KeySearch, Label: "Search: " + f.Search})
	}
	if !isAll(f.Category) {
		chips = append(chips, Chip{Key: model.KeyCategory, Label: f.Category})
	}
	if !isAll(f.Location) {
		chips = append(chips, Chip{Key: model.KeyLocation, Label: f.Location})
	}
	for _, t := range f.EmploymentTypes {
		chips = append(chips, Chip{Key: model.KeyEmploymentTypes, Value: t, Label: t})
	}
	if f.IsRemote {
		chips = append(chips, Chip{Key: model.KeyIsRemote, Label: "Remote only"})
	}
	if f.MinOpenings > 0 {
		chips = append(chips, Chip{Key: model.KeyMinOpenings, Label: fmt.Sprintf("Min %d openings", f.MinOpenings)})
	}
	if f.CreatedWithin != nil && *f.CreatedWithin > 0 {
		chips = append(chips, Chip{Key: model.KeyCreatedWithin, Label: fmt.Sprintf("Last %d days", *f.CreatedWithin)})
	}
	if f.SalaryRange.Min > model.DefaultMinSalary || f.SalaryRange.Max < model.DefaultMaxSalary {
		chips = append(chips, Chip{Key: model.KeySalaryRange, Label: format.SalaryRange(f.SalaryRange.Min, f.SalaryRange.Max)})
	}
	return chips
}

// SummaryLine 返回报表抬头使用的一行摘要。
func SummaryLine(f model.Filters) string {
	parts := make([]string, 0, 4)
	if f.Search != "" {
		parts = append(parts, "Search: "+f.Search)
	}
	if !isAll(f.Category) {
		parts = append(parts, "Category: "+f.Category)
	}
	if !isAll(f.Location) {
		parts = append(parts, "Location: "+f.Location)
	}
	if f.IsRemote {
		parts = append(parts, "Remote Only")
	}
	return strings.Join(parts, " | ")
}
