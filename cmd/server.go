package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"job-portal/internal/api"
	"job-portal/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type backgroundScheduler interface {
	Start(ctx context.Context) error
}

func newServeCmd(cfg func() config.AppConfig, build depsBuilder) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg(), build, offline)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "serve the stored snapshot instead of the remote source")
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig, build depsBuilder, offline bool) error {
	deps, cleanup, err := build(cfg, offline)
	if err != nil {
		return err
	}
	defer cleanup()

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(deps.source, deps.sched, deps.store, api.Options{
		PageSize:         cfg.Paging.PageSize,
		RefreshPerMinute: cfg.Server.RefreshPerMinute,
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	// 启动时预加载，首个请求无需等待抓取。
	go deps.source.Jobs(ctx)

	log.Printf("listening on %s (offline=%t)", cfg.Server.Addr, offline)
	return runServer(ctx, srv, deps.sched, 5*time.Second)
}

// runServer 并行运行 HTTP 服务与调度，ctx 取消后在 timeout 内优雅关闭。
func runServer(ctx context.Context, srv httpServer, sched backgroundScheduler, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newRefreshCmd(cfg func() config.AppConfig, build depsBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the job collection once and store the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := runOnceManual(cmd.Context(), cfg(), build)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d jobs\n", n)
			return nil
		},
	}
}
