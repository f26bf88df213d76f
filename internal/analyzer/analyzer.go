package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Backtthefuture/weibocheck/internal/llm"
	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// Analyzer 按评分标准对话题打分并给出产品创意
type Analyzer struct {
	llm llm.Completer
	log *logrus.Entry
}

// New 创建分析器
func New(completer llm.Completer) *Analyzer {
	return &Analyzer{llm: completer, log: logrus.NewEntry(logger.Log)}
}

// WithLogger 返回写入指定日志条目的副本
func (a *Analyzer) WithLogger(l *logrus.Entry) *Analyzer {
	cp := *a
	cp.log = l
	return &cp
}

const systemPrompt = "你是一个 JSON 生成器。请只输出 JSON 字符串。"

const rubric = `评分标准（满分100分）：
1. 有趣度（0-80分）：话题是否新奇有趣、能否激发好奇心、是否具有娱乐性、能否带来独特体验。
2. 有用度（0-20分）：能否解决实际问题、是否实用、能否提升效率。

如果总分≥60分，请基于话题构思一个产品创意；否则不需要产品创意，并说明原因。

请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{
	"fun_score": 0,
	"useful_score": 0,
	"total_score": 0,
	"summary": "话题摘要，100字以内",
	"has_idea": true,
	"product": {
		"name": "产品名称",
		"features": "核心功能",
		"target_users": "目标用户",
		"description": "产品描述，50字以内"
	},
	"reason": "没有产品创意时的原因"
}
has_idea 为 false 时省略 product 字段。`

// Prompt 构造话题的评分请求
func Prompt(topic model.Topic, enrichment string) string {
	var sb strings.Builder
	sb.WriteString("你是一位资深的产品经理和创意专家。请分析以下微博热搜话题。\n\n")
	fmt.Fprintf(&sb, "话题：%s\n", topic.Title)
	fmt.Fprintf(&sb, "排名：第 %d 位\n", topic.Rank)
	fmt.Fprintf(&sb, "热度：%d\n", topic.Heat)
	fmt.Fprintf(&sb, "背景信息：%s\n\n", enrichment)
	sb.WriteString(rubric)
	return sb.String()
}

// Evaluate 请求模型并返回带标签的分析结果，不返回错误
func (a *Analyzer) Evaluate(ctx context.Context, topic model.Topic, enrichment string) Outcome {
	raw, err := a.llm.Complete(ctx, systemPrompt, Prompt(topic, enrichment))
	if err != nil {
		return Unparseable{Err: err}
	}
	return Parse(raw)
}

// Analyze 分析单个话题，任何失败都落到零分兜底结果
func (a *Analyzer) Analyze(ctx context.Context, topic model.Topic, enrichment string) model.AnalysisResult {
	o := a.Evaluate(ctx, topic, enrichment)
	if u, ok := o.(Unparseable); ok {
		a.log.Warnf("话题分析失败 [%d %s]: %v", topic.Rank, topic.Title, u.Err)
		a.log.Debugf("原始返回: %s", u.Raw)
	}
	return ToResult(topic, o)
}
