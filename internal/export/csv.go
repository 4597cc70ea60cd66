package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"job-portal/internal/format"
	"job-portal/internal/model"
)

var csvHeader = []string{
	"Title",
	"Company",
	"Location",
	"Salary From",
	"Salary To",
	"Employment Type",
	"Category",
	"Remote",
	"Openings",
	"Created At",
}

// WriteCSV 每个职位一行，日期为本地化短日期。
func WriteCSV(w io.Writer, jobs []model.Job) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, job := range jobs {
		row := []string{
			job.Title,
			job.Company,
			job.Location,
			strconv.FormatFloat(job.SalaryFrom, 'f', -1, 64),
			strconv.FormatFloat(job.SalaryTo, 'f', -1, 64),
			job.EmploymentType,
			job.JobCategory,
			job.RemoteLabel(),
			strconv.Itoa(job.Openings),
			format.Date(job.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", job.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
