package main

import (
	"context"
	"fmt"
	"log"

	"job-portal/internal/api"
	"job-portal/internal/catalog"
	"job-portal/internal/config"
	"job-portal/internal/fetcher"
	"job-portal/internal/scheduler"
	"job-portal/internal/session"
	"job-portal/internal/storage"
)

// refreshScheduler 是命令使用的调度能力。
type refreshScheduler interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (int, error)
}

// appDeps 汇总运行时依赖。
type appDeps struct {
	source session.Source
	store  api.JobStore
	sched  refreshScheduler
}

type depsBuilder func(cfg config.AppConfig, offline bool) (appDeps, func(), error)

// buildDeps 打开快照库并组装目录与调度。offline 时以快照作为数据源，不访问远端。
func buildDeps(cfg config.AppConfig, offline bool) (appDeps, func(), error) {
	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return appDeps{}, func() {}, fmt.Errorf("init store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}

	var src fetcher.JobFetcher = fetcher.NewAPIFetcher(cfg.Source, nil)
	opts := []catalog.Option{catalog.WithSnapshot(store)}
	if offline {
		src = store
		opts = nil
	}
	cat := catalog.New(src, opts...)
	sched := scheduler.NewScheduler(cat, cfg.Scheduler)

	return appDeps{source: cat, store: store, sched: sched}, cleanup, nil
}

// runOnceManual 构建依赖并执行一次刷新，便于命令行手动触发。
func runOnceManual(ctx context.Context, cfg config.AppConfig, build depsBuilder) (int, error) {
	deps, cleanup, err := build(cfg, false)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	return deps.sched.RunOnce(ctx)
}
