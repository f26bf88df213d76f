package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/Backtthefuture/weibocheck/internal/engine"
)

// Poster 发送消息的最小接口，*slack.Client 满足该接口
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier 把运行摘要发送到 Slack 频道
type Notifier struct {
	poster  Poster
	channel string
}

// New 创建通知器，token 或 channel 为空时返回 nil
func New(token, channel string, opts ...slack.Option) *Notifier {
	if token == "" || channel == "" {
		return nil
	}
	return &Notifier{poster: slack.New(token, opts...), channel: channel}
}

// NewWithPoster 使用自定义发送端
func NewWithPoster(p Poster, channel string) *Notifier {
	return &Notifier{poster: p, channel: channel}
}

// Notify 发送摘要，nil 通知器直接返回
func (n *Notifier) Notify(ctx context.Context, sum *engine.Summary) error {
	if n == nil || sum == nil {
		return nil
	}
	_, _, err := n.poster.PostMessageContext(ctx, n.channel, slack.MsgOptionText(Format(sum), false))
	if err != nil {
		return fmt.Errorf("slack post failed: %w", err)
	}
	return nil
}

// Format 运行摘要的文本形式
func Format(sum *engine.Summary) string {
	var sb strings.Builder
	s := sum.Stats
	fmt.Fprintf(&sb, "*微博热搜产品创意分析完成* (run %s)\n", sum.RunID)
	fmt.Fprintf(&sb, "分析话题 %d 个，深度挖掘 %d 个，优秀 %d 个，良好 %d 个，平均分 %.1f\n",
		s.TotalTopics, s.DeepDiveCount, s.HighScoreCount, s.MediumScoreCount, s.AvgScore)
	for i, r := range sum.Top {
		fmt.Fprintf(&sb, "%d. %s  %d 分", i+1, r.Title, r.TotalScore)
		if r.Product != nil {
			fmt.Fprintf(&sb, "  创意：%s", r.Product.Name)
		}
		sb.WriteByte('\n')
	}
	if sum.Report.HTMLPath != "" {
		fmt.Fprintf(&sb, "报告：%s", sum.Report.HTMLPath)
	}
	return sb.String()
}
