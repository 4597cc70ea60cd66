package model

import "slices"

// 筛选条件默认值。
const (
	AllValue         = "all"
	DefaultMinSalary = 0
	DefaultMaxSalary = 500000
	SalaryStep       = 10000
)

// SalaryRange 表示闭区间 [Min, Max]。
type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsDefault 判断是否为 [0, 500000]。
func (r SalaryRange) IsDefault() bool {
	return r.Min == DefaultMinSalary && r.Max == DefaultMaxSalary
}

// Filters 描述用户选择的筛选条件。
// CreatedWithin 为 nil 表示不限制发布时间。
type Filters struct {
	Search          string      `json:"search"`
	Location        string      `json:"location"`
	Category        string      `json:"category"`
	EmploymentTypes []string    `json:"employment_types"`
	IsRemote        bool        `json:"is_remote"`
	SalaryRange     SalaryRange `json:"salary_range"`
	MinOpenings     int         `json:"min_openings"`
	CreatedWithin   *int        `json:"created_within"`
}

// DefaultFilters 返回不做任何限制的筛选条件。
func DefaultFilters() Filters {
	return Filters{
		Location:        AllValue,
		Category:        AllValue,
		EmploymentTypes: []string{},
		SalaryRange:     SalaryRange{Min: DefaultMinSalary, Max: DefaultMaxSalary},
	}
}

// Equal 比较两组筛选条件，EmploymentTypes 按顺序比较。
func (f Filters) Equal(other Filters) bool {
	if f.Search != other.Search || f.Location != other.Location || f.Category != other.Category {
		return false
	}
	if f.IsRemote != other.IsRemote || f.SalaryRange != other.SalaryRange || f.MinOpenings != other.MinOpenings {
		return false
	}
	if (f.CreatedWithin == nil) != (other.CreatedWithin == nil) {
		return false
	}
	if f.CreatedWithin != nil && *f.CreatedWithin != *other.CreatedWithin {
		return false
	}
	return slices.Equal(f.EmploymentTypes, other.EmploymentTypes)
}

// HasEmploymentType 判断是否已选中某个类型（精确匹配）。
func (f Filters) HasEmploymentType(t string) bool {
	return slices.Contains(f.EmploymentTypes, t)
}

// Days 是 CreatedWithin 的便捷构造。
func Days(n int) *int {
	return &n
}

// CreatedWithinChoices 是界面提供的发布时间选项（天）。
var CreatedWithinChoices = []int{1, 7, 14, 30, 90}

// FilterKey 标识一个筛选维度，取值与查询参数名一致。
type FilterKey string

const (
	KeySearch          FilterKey = "search"
	KeyLocation        FilterKey = "location"
	KeyCategory        FilterKey = "category"
	KeyEmploymentTypes FilterKey = "employment_types"
	KeyIsRemote        FilterKey = "is_remote"
	KeySalaryRange     FilterKey = "salary_range"
	KeyMinOpenings     FilterKey = "min_openings"
	KeyCreatedWithin   FilterKey = "created_within"
)
