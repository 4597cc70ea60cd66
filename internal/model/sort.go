package model

// SortOption 是排序方式的枚举。
type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortOldest       SortOption = "oldest"
	SortSalaryHigh   SortOption = "salary_high"
	SortSalaryLow    SortOption = "salary_low"
	SortMostOpenings SortOption = "most_openings"
)

// DefaultSort 为未指定时的排序方式。
const DefaultSort = SortNewest

// SortOptions 按界面展示顺序列出全部排序方式。
var SortOptions = []SortOption{SortNewest, SortOldest, SortSalaryHigh, SortSalaryLow, SortMostOpenings}

var sortLabels = map[SortOption]string{
	SortNewest:       "Newest First",
	SortOldest:       "Oldest First",
	SortSalaryHigh:   "Salary: High to Low",
	SortSalaryLow:    "Salary: Low to High",
	SortMostOpenings: "Most Openings",
}

// Valid 判断是否属于已知排序方式。
func (s SortOption) Valid() bool {
	_, ok := sortLabels[s]
	return ok
}

// Label 返回展示文案。
func (s SortOption) Label() string {
	return sortLabels[s]
}

// ParseSortOption 解析排序参数，未知值回退为 newest。
func ParseSortOption(v string) SortOption {
	s := SortOption(v)
	if !s.Valid() {
		return DefaultSort
	}
	return s
}
