package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Backtthefuture/weibocheck/internal/engine"
	"github.com/Backtthefuture/weibocheck/internal/model"
	"github.com/Backtthefuture/weibocheck/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	tierStyles = map[model.ScoreTier]lipgloss.Style{
		model.TierExcellent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		model.TierGood:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.TierFair:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func renderSummary(sum *engine.Summary) string {
	s := sum.Stats
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("微博热搜产品创意分析完成"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s %d   %s %d   %s %d   %s %d   %s %.1f\n",
		labelStyle.Render("话题"), s.TotalTopics,
		labelStyle.Render("深度挖掘"), s.DeepDiveCount,
		labelStyle.Render("优秀"), s.HighScoreCount,
		labelStyle.Render("良好"), s.MediumScoreCount,
		labelStyle.Render("平均分"), s.AvgScore)

	if len(sum.Top) > 0 {
		sb.WriteString("\n")
		for i, r := range sum.Top {
			score := tierStyles[model.Tier(r.TotalScore)].Render(fmt.Sprintf("%3d", r.TotalScore))
			fmt.Fprintf(&sb, "%d. %s  %s", i+1, score, r.Title)
			if r.IsDeepDive {
				sb.WriteString(labelStyle.Render("  [深度挖掘]"))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s", labelStyle.Render("报告"), sum.Report.HTMLPath)
	if sum.Report.XLSXPath != "" {
		fmt.Fprintf(&sb, "\n%s %s", labelStyle.Render("表格"), sum.Report.XLSXPath)
	}
	fmt.Fprintf(&sb, "\n%s %s  %s %s", labelStyle.Render("run_id"), sum.RunID, labelStyle.Render("耗时"), sum.Duration.Round(time.Millisecond))
	return boxStyle.Render(sb.String())
}

func renderTopics(topics []model.Topic) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("已抓取 %d 个热搜话题", len(topics))))
	sb.WriteString("\n\n")
	for _, t := range topics {
		fmt.Fprintf(&sb, "%2d. %s %s\n", t.Rank, t.Title, labelStyle.Render("热度 "+render.Thousands(t.Heat)))
	}
	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
