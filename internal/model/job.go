package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Job 表示一条招聘信息，创建后不再修改。
// 中文注释说明字段用途
// - Qualifications: 原始 JSON 字符串，读取时通过 QualificationList 容错解析
// - CreatedAt: 发布时间，由抓取器解析，无法解析时为零值
// - RawAttributes: 数据源原始字段，便于排查
// - UpdatedAt: 由 GORM 自动维护，表示快照写入时间
type Job struct {
	ID                  string            `gorm:"primaryKey" json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	Company             string            `json:"company"`
	Location            string            `json:"location"`
	SalaryFrom          float64           `json:"salary_from"`
	SalaryTo            float64           `json:"salary_to"`
	EmploymentType      string            `json:"employment_type"`
	ApplicationDeadline string            `json:"application_deadline"`
	Qualifications      string            `json:"qualifications"`
	Contact             string            `json:"contact"`
	JobCategory         string            `json:"job_category"`
	IsRemoteWork        bool              `json:"is_remote_work"`
	CreatedAt           time.Time         `gorm:"autoCreateTime:false;index" json:"created_at"`
	Openings            int               `json:"openings"`
	RawAttributes       datatypes.JSONMap `json:"-"`
	UpdatedAt           time.Time         `json:"-"`
}

// QualificationList 解析 Qualifications，格式异常时返回空列表。
func (j Job) QualificationList() []string {
	raw := strings.TrimSpace(j.Qualifications)
	if raw == "" {
		return []string{}
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RemoteLabel 返回导出使用的 Yes/No。
func (j Job) RemoteLabel() string {
	if j.IsRemoteWork {
		return "Yes"
	}
	return "No"
}
