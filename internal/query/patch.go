package query

import (
	"net/url"
	"strconv"

	"job-portal/internal/model"
)

// Patch 描述一次局部更新，nil 字段表示不修改。
// EmploymentTypes 为非 nil 的空切片表示清空；CreatedWithin 小于等于 0 表示取消限制。
type Patch struct {
	Search          *string            `json:"search,omitempty"`
	Location        *string            `json:"location,omitempty"`
	Category        *string            `json:"category,omitempty"`
	EmploymentTypes []string           `json:"employment_types,omitempty"`
	IsRemote        *bool              `json:"is_remote,omitempty"`
	SalaryRange     *model.SalaryRange `json:"salary_range,omitempty"`
	MinOpenings     *int               `json:"min_openings,omitempty"`
	CreatedWithin   *int               `json:"created_within,omitempty"`
	Sort            *model.SortOption  `json:"sort,omitempty"`
}

// Empty 判断补丁是否不包含任何字段。
func (p Patch) Empty() bool {
	return p.Search == nil && p.Location == nil && p.Category == nil && p.EmploymentTypes == nil &&
		p.IsRemote == nil && p.SalaryRange == nil && p.MinOpenings == nil && p.CreatedWithin == nil && p.Sort == nil
}

// PatchFromState 生成覆盖全部字段的补丁。
func PatchFromState(s State) Patch {
	f := s.Filters
	types := append([]string{}, f.EmploymentTypes...)
	salary := f.SalaryRange
	sort := s.Sort
	within := 0
	if f.CreatedWithin != nil {
		within = *f.CreatedWithin
	}
	return Patch{
		Search:          &f.Search,
		Location:        &f.Location,
		Category:        &f.Category,
		EmploymentTypes: types,
		IsRemote:        &f.IsRemote,
		SalaryRange:     &salary,
		MinOpenings:     &f.MinOpenings,
		CreatedWithin:   &within,
		Sort:            &sort,
	}
}

// Update 将补丁合并到当前查询参数，返回新参数以及是否发生变化。
// 当前参数不会被修改；补丁外的键（包括非筛选键）原样保留。
func Update(current url.Values, p Patch) (url.Values, bool) {
	next := clone(current)

	if p.Search != nil {
		setOrDelete(next, ParamSearch, *p.Search, *p.Search == "")
	}
	if p.Location != nil {
		setOrDelete(next, ParamLocation, *p.Location, *p.Location == "" || *p.Location == model.AllValue)
	}
	if p.Category != nil {
		setOrDelete(next, ParamCategory, *p.Category, *p.Category == "" || *p.Category == model.AllValue)
	}
	if p.EmploymentTypes != nil {
		next.Del(ParamEmploymentTypes)
		for _, t := range p.EmploymentTypes {
			if t != "" {
				next.Add(ParamEmploymentTypes, t)
			}
		}
	}
	if p.IsRemote != nil {
		setOrDelete(next, ParamIsRemote, "true", !*p.IsRemote)
	}
	if p.SalaryRange != nil {
		r := *p.SalaryRange
		setOrDelete(next, ParamMinSalary, formatNumber(r.Min), r.Min == model.DefaultMinSalary)
		setOrDelete(next, ParamMaxSalary, formatNumber(r.Max), r.Max == model.DefaultMaxSalary)
	}
	if p.MinOpenings != nil {
		setOrDelete(next, ParamMinOpenings, strconv.Itoa(*p.MinOpenings), *p.MinOpenings <= 0)
	}
	if p.CreatedWithin != nil {
		setOrDelete(next, ParamCreatedWithin, strconv.Itoa(*p.CreatedWithin), *p.CreatedWithin <= 0)
	}
	if p.Sort != nil {
		setOrDelete(next, ParamSort, string(*p.Sort), *p.Sort == "" || *p.Sort == model.DefaultSort)
	}

	return next, next.Encode() != current.Encode()
}

// Navigator 接收新的查询串，负责客户端跳转（不刷新、不滚动）。
type Navigator interface {
	Navigate(query string)
}

// NavigatorFunc 适配普通函数。
type NavigatorFunc func(query string)

// Navigate 实现 Navigator。
func (f NavigatorFunc) Navigate(query string) { f(query) }

// Commit 合并补丁，仅在查询串变化时触发跳转，避免重复的历史记录。
func Commit(nav Navigator, current url.Values, p Patch) (url.Values, bool) {
	next, changed := Update(current, p)
	if changed && nav != nil {
		nav.Navigate(next.Encode())
	}
	return next, changed
}

func setOrDelete(v url.Values, key, value string, omit bool) {
	if omit {
		v.Del(key)
		return
	}
	v.Set(key, value)
}

func clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// RemovePatch 生成移除单个筛选标签的补丁：雇佣类型只移除 value，其余键回到默认值。
func RemovePatch(f model.Filters, key model.FilterKey, value string) Patch {
	switch key {
	case model.KeySearch:
		empty := ""
		return Patch{Search: &empty}
	case model.KeyLocation:
		all := model.AllValue
		return Patch{Location: &all}
	case model.KeyCategory:
		all := model.AllValue
		return Patch{Category: &all}
	case model.KeyEmploymentTypes:
		types := make([]string, 0, len(f.EmploymentTypes))
		for _, t := range f.EmploymentTypes {
			if t != value {
				types = append(types, t)
			}
		}
		return Patch{EmploymentTypes: types}
	case model.KeyIsRemote:
		off := false
		return Patch{IsRemote: &off}
	case model.KeySalaryRange:
		r := model.DefaultFilters().SalaryRange
		return Patch{SalaryRange: &r}
	case model.KeyMinOpenings:
		zero := 0
		return Patch{MinOpenings: &zero}
	case model.KeyCreatedWithin:
		zero := 0
		return Patch{CreatedWithin: &zero}
	default:
		return Patch{}
	}
}

// ResetPatch 把除搜索词以外的筛选条件恢复默认，排序不变。
func ResetPatch() Patch {
	p := PatchFromState(DefaultState())
	p.Search = nil
	p.Sort = nil
	return p
}

// ClearPatch 把包括搜索词在内的全部筛选条件恢复默认，排序不变。
func ClearPatch() Patch {
	p := PatchFromState(DefaultState())
	p.Sort = nil
	return p
}
