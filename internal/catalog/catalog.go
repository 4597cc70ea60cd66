// Package catalog 持有进程内的完整职位集合：首次访问时加载一次，之后按需刷新。
package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"job-portal/internal/facet"
	"job-portal/internal/fetcher"
	"job-portal/internal/metrics"
	"job-portal/internal/model"
	"job-portal/internal/storage"

	"golang.org/x/sync/singleflight"
)

// Snapshotter 保存最近一次成功抓取的集合。
type Snapshotter interface {
	ReplaceJobs(ctx context.Context, jobs []model.Job) (storage.SnapshotResult, error)
}

// Catalog 并发安全；并发的首次加载或刷新只会触发一次抓取。
type Catalog struct {
	fetcher fetcher.JobFetcher
	snap    Snapshotter
	logger  *log.Logger
	now     func() time.Time

	group   singleflight.Group
	loading atomic.Bool

	mu        sync.RWMutex
	loaded    bool
	jobs      []model.Job
	facets    facet.Options
	version   uint64
	updatedAt time.Time
}

// Option 配置 Catalog。
type Option func(*Catalog)

// WithSnapshot 每次成功抓取后写入快照。
func WithSnapshot(s Snapshotter) Option {
	return func(c *Catalog) { c.snap = s }
}

// WithLogger 替换默认日志。
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock 注入时间源。
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// New 创建 Catalog。
func New(f fetcher.JobFetcher, opts ...Option) *Catalog {
	c := &Catalog{
		fetcher: f,
		logger:  log.New(os.Stdout, "[catalog] ", log.LstdFlags),
		now:     time.Now,
		facets:  facet.Extract(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Jobs 返回完整集合，首次调用时加载；加载失败得到空集合。
func (c *Catalog) Jobs(ctx context.Context) []model.Job {
	c.mu.RLock()
	if c.loaded {
		jobs := c.jobs
		c.mu.RUnlock()
		return jobs
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do("load", func() (any, error) {
		c.mu.RLock()
		if c.loaded {
			jobs := c.jobs
			c.mu.RUnlock()
			return jobs, nil
		}
		c.mu.RUnlock()

		c.loading.Store(true)
		defer c.loading.Store(false)

		started := time.Now()
		jobs, err := c.fetch(ctx)
		metrics.ObserveFetch(started, err)
		if err != nil {
			c.logf("fetch jobs failed, using empty collection: %v", err)
			jobs = []model.Job{}
		} else {
			c.persist(ctx, jobs)
		}
		c.set(jobs)
		return jobs, nil
	})
	return v.([]model.Job)
}

// Refresh 重新抓取；失败时保留当前集合并返回错误。
func (c *Catalog) Refresh(ctx context.Context) (int, error) {
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		c.loading.Store(true)
		defer c.loading.Store(false)

		started := time.Now()
		jobs, err := c.fetch(ctx)
		metrics.ObserveFetch(started, err)
		if err != nil {
			return 0, fmt.Errorf("refresh jobs: %w", err)
		}
		c.persist(ctx, jobs)
		c.set(jobs)
		c.logf("refreshed collection: jobs=%d", len(jobs))
		return len(jobs), nil
	})
	if err != nil {
		c.logf("%v", err)
		return 0, err
	}
	return v.(int), nil
}

// Facets 返回基于完整集合计算的筛选项。
func (c *Catalog) Facets(ctx context.Context) facet.Options {
	c.Jobs(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.facets
}

// Loading 表示是否正在抓取。
func (c *Catalog) Loading() bool {
	return c.loading.Load()
}

// Version 每次集合替换后递增，未加载时为 0。
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// UpdatedAt 返回最近一次集合替换的时间。
func (c *Catalog) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

func (c *Catalog) fetch(ctx context.Context) ([]model.Job, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("catalog has no fetcher")
	}
	jobs, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

func (c *Catalog) persist(ctx context.Context, jobs []model.Job) {
	if c.snap == nil {
		return
	}
	res, err := c.snap.ReplaceJobs(ctx, jobs)
	if err != nil {
		c.logf("write snapshot failed: %v", err)
		return
	}
	c.logf("snapshot written: created=%d updated=%d removed=%d", res.Created, res.Updated, res.Removed)
}

func (c *Catalog) set(jobs []model.Job) {
	opts := facet.Extract(jobs)

	c.mu.Lock()
	c.jobs = jobs
	c.facets = opts
	c.loaded = true
	c.version++
	c.updatedAt = c.now()
	c.mu.Unlock()

	metrics.SetJobs(len(jobs))
}

func (c *Catalog) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
