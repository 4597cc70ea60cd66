package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"job-portal/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(buildDeps).ExecuteContext(ctx); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

// newRootCmd 组装全部子命令，build 可在测试中替换。
func newRootCmd(build depsBuilder) *cobra.Command {
	var configPath string
	var cfg config.AppConfig

	root := &cobra.Command{
		Use:           "job-portal",
		Short:         "Browse, filter and export job listings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_FILE or config.yaml)")

	cfgFn := func() config.AppConfig { return cfg }
	root.AddCommand(
		newServeCmd(cfgFn, build),
		newExportCmd(cfgFn, build),
		newBrowseCmd(cfgFn, build),
		newRefreshCmd(cfgFn, build),
	)
	return root
}
