// Package export 把当前筛选结果写成可下载的文件。
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"job-portal/internal/format"
	"job-portal/internal/metrics"
	"job-portal/internal/model"
)

// Format 导出格式。
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat 解析导出格式，大小写不敏感。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatPDF, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType 返回 HTTP 响应使用的 MIME 类型。
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Filename 返回带日期戳的文件名：CSV 为 jobs_export_，报告为 jobs_report_。
func (f Format) Filename(now time.Time) string {
	prefix := "jobs_report_"
	if f == FormatCSV {
		prefix = "jobs_export_"
	}
	return prefix + format.FileDate(now) + "." + string(f)
}

// Report 是一次导出的输入：已筛选的职位与生成它的筛选条件。
type Report struct {
	Jobs      []model.Job
	Filters   model.Filters
	Generated time.Time
}

// Write 按格式写出报告，并记录导出指标。
func Write(w io.Writer, f Format, r Report) error {
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(w, r.Jobs)
	case FormatPDF:
		err = WritePDF(w, r)
	case FormatHTML:
		err = WriteHTML(w, r)
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	metrics.ObserveExport(string(f), err)
	return err
}

var reportColumns = []string{"Title", "Company", "Location", "Salary Range", "Type", "Remote"}

func reportRow(job model.Job) []string {
	return []string{
		job.Title,
		job.Company,
		job.Location,
		format.SalaryRange(job.SalaryFrom, job.SalaryTo),
		job.EmploymentType,
		job.RemoteLabel(),
	}
}
