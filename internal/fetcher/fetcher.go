package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"job-portal/internal/model"
)

// DefaultSourceURL 是默认的职位数据源。
const DefaultSourceURL = "https://jsonfakery.com/jobs"

// Config 定义数据源配置。
type Config struct {
	URL     string `yaml:"url" json:"url" validate:"omitempty,url"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// JobFetcher 抓取统一接口。
type JobFetcher interface {
	Fetch(ctx context.Context) ([]model.Job, error)
}

// APIFetcher 通过 HTTP 一次性拉取全部职位。
type APIFetcher struct {
	url    string
	client *http.Client
	logger *log.Logger
}

// NewAPIFetcher 创建抓取器，client 为空时按配置超时创建。
func NewAPIFetcher(cfg Config, client *http.Client) *APIFetcher {
	if client == nil {
		timeout := 15 * time.Second
		if cfg.Timeout != "" {
			if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
				timeout = d
			}
		}
		client = &http.Client{Timeout: timeout}
	}
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		target = DefaultSourceURL
	}
	return &APIFetcher{
		url:    target,
		client: client,
		logger: log.New(os.Stdout, "[fetcher] ", log.LstdFlags),
	}
}

// Fetch 拉取并归一化职位列表，单条记录异常时跳过或降级字段。
func (f *APIFetcher) Fetch(ctx context.Context) ([]model.Job, error) {
	f.logf("start fetch: url=%s", f.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	records, err := splitRecords(body)
	if err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}

	jobs := make([]model.Job, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	skipped := 0
	for _, raw := range records {
		job, ok := decodeRecord(raw)
		if !ok {
			skipped++
			continue
		}
		if _, exists := seen[job.ID]; exists {
			f.logf("skip_duplicate job_id=%s", job.ID)
			continue
		}
		seen[job.ID] = struct{}{}
		jobs = append(jobs, job)
	}

	f.logf("fetch done total_jobs=%d skipped=%d", len(jobs), skipped)
	return jobs, nil
}

func (f *APIFetcher) logf(format string, args ...any) {
	if f.logger == nil {
		f.logger = log.New(os.Stdout, "[fetcher] ", log.LstdFlags)
	}
	f.logger.Printf(format, args...)
}

// splitRecords 支持顶层数组，或 {"jobs": [...]} / {"data": [...]} 包装。
func splitRecords(body []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("unmarshal list: %w", err)
		}
		return records, nil
	}

	var envelope struct {
		Jobs []json.RawMessage `json:"jobs"`
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if envelope.Jobs != nil {
		return envelope.Jobs, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return nil, fmt.Errorf("job list not found in payload")
}
