// Package query 负责筛选条件与 URL 查询参数之间的双向转换。
//
// 查询串是筛选、排序状态唯一可分享的表示：读取时每次重新解码，写入时只
// 保留非默认值，等于默认值的键会被整体删除。
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"job-portal/internal/model"
)

// 查询参数名。
const (
	ParamSearch          = "search"
	ParamLocation        = "location"
	ParamCategory        = "category"
	ParamEmploymentTypes = "employment_types"
	ParamIsRemote        = "is_remote"
	ParamMinSalary       = "min_salary"
	ParamMaxSalary       = "max_salary"
	ParamMinOpenings     = "min_openings"
	ParamCreatedWithin   = "created_within"
	ParamSort            = "sort"
)

// State 是查询串解码后的完整状态。
type State struct {
	Filters model.Filters    `json:"filters"`
	Sort    model.SortOption `json:"sort"`
}

// DefaultState 返回空查询串对应的状态。
func DefaultState() State {
	return State{Filters: model.DefaultFilters(), Sort: model.DefaultSort}
}

// Equal 比较两个状态。
func (s State) Equal(other State) bool {
	return s.Sort == other.Sort && s.Filters.Equal(other.Filters)
}

// Decode 从查询参数还原状态，缺失或非法的值使用默认值。
func Decode(v url.Values) State {
	f := model.DefaultFilters()

	f.Search = v.Get(ParamSearch)
	if loc := v.Get(ParamLocation); loc != "" {
		f.Location = loc
	}
	if cat := v.Get(ParamCategory); cat != "" {
		f.Category = cat
	}
	for _, t := range v[ParamEmploymentTypes] {
		if t != "" {
			f.EmploymentTypes = append(f.EmploymentTypes, t)
		}
	}
	f.IsRemote = v.Get(ParamIsRemote) == "true"

	if n, ok := parseNumber(v.Get(ParamMinSalary)); ok && n > 0 {
		f.SalaryRange.Min = n
	}
	if n, ok := parseNumber(v.Get(ParamMaxSalary)); ok && n > 0 {
		f.SalaryRange.Max = n
	}
	if n, ok := parseNumber(v.Get(ParamMinOpenings)); ok && n > 0 {
		f.MinOpenings = int(n)
	}
	if n, ok := parseNumber(v.Get(ParamCreatedWithin)); ok && int(n) > 0 {
		f.CreatedWithin = model.Days(int(n))
	}

	return State{Filters: f, Sort: model.ParseSortOption(v.Get(ParamSort))}
}

// DecodeString 解析原始查询串，解析失败视为空查询。
func DecodeString(raw string) State {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return DefaultState()
	}
	return Decode(v)
}

// Encode 把完整状态编码为查询参数。
func Encode(s State) url.Values {
	next, _ := Update(url.Values{}, PatchFromState(s))
	return next
}

// parseNumber 宽松解析数字，非法输入返回 false。
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
