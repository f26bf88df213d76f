package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Backtthefuture/weibocheck/internal/config"
	"github.com/Backtthefuture/weibocheck/internal/engine"
	"github.com/Backtthefuture/weibocheck/internal/hotlist"
	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/notify"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "weibocheck",
		Short: "微博热搜产品创意分析",
		Long: `抓取微博热搜榜，为每个话题获取背景信息并按有趣度/有用度打分，
对高分话题从日常生活、社交娱乐、商业价值三个维度深度挖掘产品创意，最后生成 HTML 报告。

各阶段的结果会保存为 JSON 快照，可以从任意阶段继续：
  weibocheck run        完整流程
  weibocheck fetch      只抓取热搜
  weibocheck analyze    从话题快照开始分析
  weibocheck deepdive   从分析结果快照开始深度挖掘
  weibocheck render     从深度挖掘快照重新生成报告
  weibocheck serve      浏览已生成的报告`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("无法加载配置文件: %w", err)
		}
		if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
			return nil, fmt.Errorf("无法初始化日志: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		newRunCmd(load),
		newFetchCmd(load),
		newStageCmd(load, "analyze", "从话题快照开始分析", func(ctx context.Context, e *engine.Engine) (*engine.Summary, error) {
			return e.ResumeAnalyze(ctx)
		}),
		newStageCmd(load, "deepdive", "从分析结果快照开始深度挖掘", func(ctx context.Context, e *engine.Engine) (*engine.Summary, error) {
			return e.ResumeDeepDive(ctx)
		}),
		newRenderCmd(load),
		newServeCmd(load),
	)
	return root
}

type loader func() (*config.Config, error)

func fail(err error) error {
	logger.Log.Errorf("运行失败: %v", err)
	fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
	return err
}

func newRunCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "执行完整流程：抓取、分析、深度挖掘、渲染",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fail(err)
			}
			if err := cfg.ValidateSource(); err != nil {
				return fail(err)
			}
			e, err := engine.Build(cmd.Context(), cfg)
			if err != nil {
				return fail(err)
			}
			logger.Log.Infof("启动热搜分析 run_id=%s", e.RunID())
			sum, err := e.Run(cmd.Context())
			if err != nil {
				return fail(err)
			}
			finish(cmd.Context(), cfg, sum)
			return nil
		},
	}
}

func newFetchCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "抓取热搜榜并保存话题快照",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fail(err)
			}
			if err := cfg.ValidateSource(); err != nil {
				return fail(err)
			}
			source := hotlist.NewClient(cfg.Source.Endpoint, cfg.Source.TianAPIKey, cfg.Source.MaxTopics)
			topics, err := engine.NewEngine(cfg, source, nil, nil).Fetch(cmd.Context())
			if err != nil {
				return fail(err)
			}
			fmt.Println(renderTopics(topics))
			return nil
		},
	}
}

func newStageCmd(load loader, use, short string, stage func(context.Context, *engine.Engine) (*engine.Summary, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fail(err)
			}
			e, err := engine.Build(cmd.Context(), cfg)
			if err != nil {
				return fail(err)
			}
			sum, err := stage(cmd.Context(), e)
			if err != nil {
				return fail(err)
			}
			finish(cmd.Context(), cfg, sum)
			return nil
		},
	}
}

func newRenderCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "从深度挖掘快照重新生成报告",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fail(err)
			}
			// 渲染阶段不调用模型
			sum, err := engine.NewEngine(cfg, nil, nil, nil).ResumeRender()
			if err != nil {
				return fail(err)
			}
			finish(cmd.Context(), cfg, sum)
			return nil
		},
	}
}

// finish 打印摘要并按配置发送通知，通知失败不影响退出码
func finish(ctx context.Context, cfg *config.Config, sum *engine.Summary) {
	fmt.Println(renderSummary(sum))
	if err := notify.New(cfg.Slack.Token, cfg.Slack.Channel).Notify(ctx, sum); err != nil {
		logger.Log.Warnf("发送通知失败: %v", err)
	}
}
