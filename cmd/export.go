package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/export"
	"job-portal/internal/session"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	Format  string
	Query   string
	Out     string
	Offline bool
}

func newExportCmd(cfg func() config.AppConfig, build depsBuilder) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the jobs matching a filter query to CSV, PDF or HTML",
		Example: `  job-portal export --format csv --query "category=Engineering&is_remote=true"
  job-portal export --format pdf --offline --out reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runExport(cmd.Context(), cfg(), opts, build, time.Now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "csv, pdf or html")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "filter query string, as in the shareable URL")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "export from the stored snapshot")
	return cmd
}

// runExport 写出文件并返回路径。
func runExport(ctx context.Context, cfg config.AppConfig, opts exportOptions, build depsBuilder, now func() time.Time) (string, error) {
	f, err := export.ParseFormat(opts.Format)
	if err != nil {
		return "", err
	}

	deps, cleanup, err := build(cfg, opts.Offline)
	if err != nil {
		return "", err
	}
	defer cleanup()

	sess := session.New(deps.source, opts.Query, session.Options{PageSize: cfg.Paging.PageSize, Now: now})
	defer sess.Close()

	return writeReport(sess.Report(ctx), f, opts.Out)
}

func writeReport(report export.Report, f export.Format, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, f.Filename(report.Generated))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(file, f, report); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
