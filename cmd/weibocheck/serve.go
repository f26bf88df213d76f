package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/Backtthefuture/weibocheck/internal/display"
	"github.com/Backtthefuture/weibocheck/internal/logger"
)

func newServeCmd(load loader) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动报告浏览服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fail(err)
			}
			if addr != "" {
				cfg.Display.Addr = addr
			}

			klog := logger.Kratos()
			log.SetLogger(klog)

			repo := display.NewReportRepo(cfg.Output.Dir, klog)
			uc := display.NewReportUseCase(repo, klog)
			srv := display.NewHTTPServer(cfg.Display, uc, klog)

			app := kratos.New(
				kratos.Name("weibocheck-display"),
				kratos.Version(Version),
				kratos.Logger(klog),
				kratos.Server(srv),
				kratos.Context(cmd.Context()),
			)
			logger.Log.Infof("报告浏览服务监听 %s，报告目录 %s", cfg.Display.Addr, cfg.Output.Dir)
			if err := app.Run(); err != nil {
				return fail(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "监听地址，覆盖 display.addr")
	return cmd
}
