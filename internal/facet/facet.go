// Package facet 从完整职位集合中提取可选的筛选项。
package facet

import (
	"slices"

	"job-portal/internal/model"
)

// Options 是筛选面板的可选值，Locations 首项固定为 "all"。
type Options struct {
	Categories      []string `json:"categories"`
	Locations       []string `json:"locations"`
	EmploymentTypes []string `json:"employment_types"`
}

// Extract 统计去重后的类别、地点、雇佣类型，空值被忽略。
// 必须传入未筛选的集合，否则筛选越窄选项越少。
func Extract(jobs []model.Job) Options {
	categories := make(map[string]struct{})
	locations := make(map[string]struct{})
	types := make(map[string]struct{})

	for _, job := range jobs {
		if job.JobCategory != "" {
			categories[job.JobCategory] = struct{}{}
		}
		if job.Location != "" {
			locations[job.Location] = struct{}{}
		}
		if job.EmploymentType != "" {
			types[job.EmploymentType] = struct{}{}
		}
	}

	return Options{
		Categories:      sortedKeys(categories),
		Locations:       append([]string{model.AllValue}, sortedKeys(locations)...),
		EmploymentTypes: sortedKeys(types),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
