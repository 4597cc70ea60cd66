package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"job-portal/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound 表示职位不存在。
var ErrNotFound = errors.New("job not found")

// Store 封装 SQLite 数据库访问，保存最近一次成功抓取的职位快照。
type Store struct {
	db *gorm.DB
}

// SnapshotResult 表示快照替换结果。
type SnapshotResult struct {
	Created int
	Updated int
	Removed int64
}

// JobQueryOptions 提供分页参数。
type JobQueryOptions struct {
	Limit  int
	Offset int
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.Job{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// ReplaceJobs 用新的集合替换快照：已有主键更新，新增写入，不在集合中的删除。
func (s *Store) ReplaceJobs(ctx context.Context, jobs []model.Job) (SnapshotResult, error) {
	res := SnapshotResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&model.Job{}).Pluck("id", &existing).Error; err != nil {
			return fmt.Errorf("query existing ids: %w", err)
		}
		existingSet := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			existingSet[id] = struct{}{}
		}

		ids := make([]string, 0, len(jobs))
		for _, job := range jobs {
			ids = append(ids, job.ID)
			if _, ok := existingSet[job.ID]; ok {
				res.Updated++
			} else {
				res.Created++
			}
		}

		if len(jobs) > 0 {
			rows := append([]model.Job(nil), jobs...)
			upsert := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title",
					"description",
					"company",
					"location",
					"salary_from",
					"salary_to",
					"employment_type",
					"application_deadline",
					"qualifications",
					"contact",
					"job_category",
					"is_remote_work",
					"created_at",
					"openings",
					"raw_attributes",
					"updated_at",
				}),
			}).CreateInBatches(&rows, 200)
			if upsert.Error != nil {
				return fmt.Errorf("upsert jobs: %w", upsert.Error)
			}
		}

		del := tx.Where("1 = 1")
		if len(ids) > 0 {
			del = tx.Where("id NOT IN ?", ids)
		}
		removed := del.Delete(&model.Job{})
		if removed.Error != nil {
			return fmt.Errorf("delete stale jobs: %w", removed.Error)
		}
		res.Removed = removed.RowsAffected
		return nil
	})
	if err != nil {
		return SnapshotResult{}, err
	}
	return res, nil
}

// ListJobs 返回按发布时间倒序的职位列表。
func (s *Store) ListJobs(ctx context.Context, opts JobQueryOptions) ([]model.Job, error) {
	var jobs []model.Job
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	query := s.db.WithContext(ctx).Model(&model.Job{}).Order("created_at DESC").Order("id ASC")
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// CountJobs 返回快照中的职位数量。
func (s *Store) CountJobs(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Job{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

// GetJob 根据 ID 获取职位，不存在时返回 ErrNotFound。
func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// Fetch 以快照作为离线数据源，实现 fetcher.JobFetcher。
func (s *Store) Fetch(ctx context.Context) ([]model.Job, error) {
	return s.ListJobs(ctx, JobQueryOptions{})
}
