package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval 为未配置或配置无效时的刷新间隔。
const DefaultInterval = 2 * time.Hour

// Config 用于调度配置。Interval 可以是 Go duration，也可以是 5 段 cron 表达式。
type Config struct {
	Interval string `yaml:"interval" json:"interval"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// Refresher 抽象目录刷新，便于测试替换。
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler 负责周期性刷新职位集合。
type Scheduler struct {
	target    Refresher
	interval  time.Duration
	cronSpec  string
	cron      cron.Schedule
	timeout   time.Duration
	running   atomic.Bool
	newTicker func(time.Duration) ticker
	now       func() time.Time
	logger    *log.Logger
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewScheduler 创建 Scheduler，解析配置的间隔与超时。
func NewScheduler(r Refresher, cfg Config) *Scheduler {
	interval, spec, schedule := parseSchedule(cfg.Interval)
	timeout := 30 * time.Second
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}

	return &Scheduler{
		target:    r,
		interval:  interval,
		cronSpec:  spec,
		cron:      schedule,
		timeout:   timeout,
		newTicker: defaultTicker,
		now:       time.Now,
		logger:    log.New(os.Stdout, "[scheduler] ", log.LstdFlags),
	}
}

// Describe 返回生效的调度描述，用于启动日志。
func (s *Scheduler) Describe() string {
	if s.cron != nil {
		return "cron " + s.cronSpec
	}
	return "every " + s.interval.String()
}

// Start 启动调度循环，直到上下文取消。单次刷新失败只记录日志。
func (s *Scheduler) Start(ctx context.Context) error {
	if s.target == nil {
		return fmt.Errorf("scheduler missing refresher")
	}

	g, ctx := errgroup.WithContext(ctx)

	if s.cron != nil {
		g.Go(func() error {
			return s.startCron(ctx)
		})
	} else {
		tick := s.newTicker(s.interval)
		ch := tick.C()

		g.Go(func() error {
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ch:
					s.tick(ctx)
				drain:
					for {
						select {
						case <-ch:
							continue
						default:
							break drain
						}
					}
				}
			}
		})
	}

	return g.Wait()
}

// RunOnce 对外暴露单次刷新接口，便于手动刷新。上一轮未结束时直接返回。
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.runOnce(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.runOnce(ctx)
	if err != nil {
		s.logf("refresh failed: %v", err)
		return
	}
	s.logf("refresh done: jobs=%d", n)
}

func (s *Scheduler) runOnce(ctx context.Context) (int, error) {
	if s.running.Swap(true) {
		return 0, nil
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.target.Refresh(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh catalog: %w", err)
	}
	return n, nil
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }

func (s *Scheduler) startCron(ctx context.Context) error {
	for {
		next := s.cron.Next(s.now())
		if next.IsZero() {
			return fmt.Errorf("cron spec %q never fires", s.cronSpec)
		}
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

// parseSchedule 优先按 duration 解析，其次按标准 cron，均失败时回落到默认间隔。
func parseSchedule(value string) (time.Duration, string, cron.Schedule) {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" {
		if d, err := time.ParseDuration(trimmed); err == nil && d > 0 {
			return d, "", nil
		}
		if schedule, err := cron.ParseStandard(trimmed); err == nil {
			return 0, trimmed, schedule
		}
	}

	return DefaultInterval, "", nil
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
