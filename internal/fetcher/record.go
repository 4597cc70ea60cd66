package fetcher

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"job-portal/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// apiJob 对应数据源返回的单条记录（字段类型不可信）。
type apiJob struct {
	ID                  flexString `json:"id"`
	Title               flexString `json:"title"`
	Description         flexString `json:"description"`
	Company             flexString `json:"company"`
	Location            flexString `json:"location"`
	SalaryFrom          flexNumber `json:"salary_from"`
	SalaryTo            flexNumber `json:"salary_to"`
	EmploymentType      flexString `json:"employment_type"`
	ApplicationDeadline flexString `json:"application_deadline"`
	Qualifications      flexList   `json:"qualifications"`
	Contact             flexString `json:"contact"`
	JobCategory         flexString `json:"job_category"`
	IsRemoteWork        flexBool   `json:"is_remote_work"`
	CreatedAt           flexString `json:"created_at"`
	NumberOfOpening     flexNumber `json:"number_of_opening"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeRecord 把一条原始记录转换为 model.Job，非对象记录返回 false。
func decodeRecord(raw json.RawMessage) (model.Job, bool) {
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil || attrs == nil {
		return model.Job{}, false
	}
	var rec apiJob
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Job{}, false
	}

	job := model.Job{
		ID:                  strings.TrimSpace(string(rec.ID)),
		Title:               string(rec.Title),
		Description:         string(rec.Description),
		Company:             string(rec.Company),
		Location:            string(rec.Location),
		SalaryFrom:          nonNegative(float64(rec.SalaryFrom)),
		SalaryTo:            nonNegative(float64(rec.SalaryTo)),
		EmploymentType:      string(rec.EmploymentType),
		ApplicationDeadline: string(rec.ApplicationDeadline),
		Qualifications:      string(rec.Qualifications),
		Contact:             string(rec.Contact),
		JobCategory:         string(rec.JobCategory),
		IsRemoteWork:        bool(rec.IsRemoteWork),
		CreatedAt:           parseCreatedAt(string(rec.CreatedAt)),
		Openings:            int(nonNegative(math.Trunc(float64(rec.NumberOfOpening)))),
		RawAttributes:       datatypes.JSONMap(attrs),
	}
	if job.ID == "" {
		job.ID = syntheticID(job, string(rec.CreatedAt))
	}
	return job, true
}

func parseCreatedAt(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// syntheticID 为缺少 id 的记录生成稳定标识，重复抓取得到相同结果。
func syntheticID(job model.Job, createdAt string) string {
	key := strings.Join([]string{job.Title, job.Company, job.Location, createdAt}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// flexString 接受字符串、数字、布尔，其他类型视为空串。
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	switch val := v.(type) {
	case string:
		*s = flexString(val)
	case float64:
		*s = flexString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*s = flexString(strconv.FormatBool(val))
	default:
		*s = ""
	}
	return nil
}

// flexNumber 接受数字或数字字符串，无法解析时为 0。
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	switch val := v.(type) {
	case float64:
		*n = flexNumber(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(val, ",", "")), 64)
		if err != nil {
			f = 0
		}
		*n = flexNumber(f)
	default:
		*n = 0
	}
	return nil
}

// flexBool 接受 0/1、true/false 及其字符串形式。
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*b = false
		return nil
	}
	switch val := v.(type) {
	case bool:
		*b = flexBool(val)
	case float64:
		*b = val == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		*b = s == "1" || s == "true"
	default:
		*b = false
	}
	return nil
}

// flexList 保存序列化后的字符串列表；数据源直接给数组时重新编码为 JSON。
type flexList string

func (l *flexList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*l = ""
		return nil
	}
	switch val := v.(type) {
	case string:
		*l = flexList(val)
	case []any:
		encoded, err := json.Marshal(val)
		if err != nil {
			*l = ""
			return nil
		}
		*l = flexList(encoded)
	default:
		*l = ""
	}
	return nil
}
