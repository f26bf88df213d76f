package deepdive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Backtthefuture/weibocheck/internal/enrich"
	"github.com/Backtthefuture/weibocheck/internal/llm"
	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// Expander 为高分话题生成三个不同维度的产品创意
type Expander struct {
	llm      llm.Completer
	enricher enrich.Enricher
	log      *logrus.Entry
}

// New 创建深度挖掘器
func New(completer llm.Completer, enricher enrich.Enricher) *Expander {
	return &Expander{llm: completer, enricher: enricher, log: logrus.NewEntry(logger.Log)}
}

// WithLogger 返回写入指定日志条目的副本
func (e *Expander) WithLogger(l *logrus.Entry) *Expander {
	cp := *e
	cp.log = l
	return &cp
}

const systemPrompt = "你是一个 JSON 生成器。请只输出 JSON 字符串。"

// Prompt 构造深度挖掘请求
func Prompt(r model.AnalysisResult, background string) string {
	var sb strings.Builder
	sb.WriteString("你是一位资深的产品经理。以下微博热搜话题在初步评估中获得了高分，请进行深度挖掘。\n\n")
	fmt.Fprintf(&sb, "话题：%s\n", r.Title)
	fmt.Fprintf(&sb, "评分：%d（有趣度 %d，有用度 %d）\n", r.TotalScore, r.FunScore, r.UsefulScore)
	fmt.Fprintf(&sb, "摘要：%s\n", r.Summary)
	if r.Product != nil {
		fmt.Fprintf(&sb, "初步创意：%s（%s）\n", r.Product.Name, r.Product.Features)
	}
	fmt.Fprintf(&sb, "最新背景：%s\n\n", background)
	sb.WriteString("请从以下三个维度各构思一个差异化的产品创意，每个维度恰好一个：\n")
	for i, d := range model.Dimensions {
		fmt.Fprintf(&sb, "%d. %s（dimension 填 \"%s\"）\n", i+1, d.Label(), d)
	}
	sb.WriteString(`
请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{
	"product_ideas": [
		{
			"dimension": "daily-life",
			"name": "产品名称",
			"features": "核心功能",
			"target_users": "目标用户",
			"unique_value": "独特价值"
		}
	]
}
product_ideas 必须恰好包含 3 个元素。`)
	return sb.String()
}

// Expand 返回 3 个按维度排序的创意，任何失败都返回空切片。
// 调用方负责保证 r 已达到深度挖掘门槛。
func (e *Expander) Expand(ctx context.Context, r model.AnalysisResult) []model.ProductIdea {
	background, err := e.enricher.Enrich(ctx, r.Title)
	if err != nil {
		e.log.Warnf("深度挖掘背景获取失败 [%s]: %v", r.Title, err)
		background = enrich.Placeholder(r.Title)
	}

	raw, err := e.llm.Complete(ctx, systemPrompt, Prompt(r, background))
	if err != nil {
		e.log.Errorf("深度挖掘失败 [%d %s]: %v", r.Rank, r.Title, err)
		return nil
	}

	ideas, err := Parse(raw)
	if err != nil {
		e.log.Errorf("深度挖掘结果无效 [%d %s]: %v", r.Rank, r.Title, err)
		e.log.Debugf("原始返回: %s", raw)
		return nil
	}
	return ideas
}

type wireIdea struct {
	Dimension   string `json:"dimension"`
	Name        string `json:"name"`
	Features    string `json:"features"`
	TargetUsers string `json:"target_users"`
	UniqueValue string `json:"unique_value"`
}

// Parse 解析并校验深度挖掘结果，接受 {"product_ideas": [...]} 或直接的数组
func Parse(raw string) ([]model.ProductIdea, error) {
	clean := llm.StripFences(raw)

	var wire []wireIdea
	switch {
	case strings.HasPrefix(clean, "["):
		if err := json.Unmarshal([]byte(clean), &wire); err != nil {
			return nil, fmt.Errorf("unmarshal response failed: %w", err)
		}
	case strings.HasPrefix(clean, "{"):
		var env struct {
			ProductIdeas []wireIdea `json:"product_ideas"`
		}
		if err := json.Unmarshal([]byte(clean), &env); err != nil {
			return nil, fmt.Errorf("unmarshal response failed: %w", err)
		}
		wire = env.ProductIdeas
	default:
		return nil, errors.New("response is not JSON")
	}

	ideas := make([]model.ProductIdea, 0, len(wire))
	for _, w := range wire {
		d, _ := model.ParseDimension(w.Dimension)
		ideas = append(ideas, model.ProductIdea{
			Name:        strings.TrimSpace(w.Name),
			Features:    strings.TrimSpace(w.Features),
			TargetUsers: strings.TrimSpace(w.TargetUsers),
			Dimension:   d,
			UniqueValue: strings.TrimSpace(w.UniqueValue),
		})
	}
	return Validate(ideas)
}

// Validate 要求恰好 3 个创意且三个维度各出现一次，返回按维度顺序排列的副本
func Validate(ideas []model.ProductIdea) ([]model.ProductIdea, error) {
	if len(ideas) != model.DeepDiveIdeaCount {
		return nil, fmt.Errorf("expected %d ideas, got %d", model.DeepDiveIdeaCount, len(ideas))
	}

	seen := make(map[model.Dimension]bool, len(ideas))
	for i, idea := range ideas {
		if idea.Name == "" || idea.Features == "" || idea.TargetUsers == "" {
			return nil, fmt.Errorf("idea %d is missing required fields", i+1)
		}
		if idea.Dimension.Index() < 0 {
			return nil, fmt.Errorf("idea %d has unknown dimension %q", i+1, idea.Dimension)
		}
		if seen[idea.Dimension] {
			return nil, fmt.Errorf("dimension %s appears more than once", idea.Dimension)
		}
		seen[idea.Dimension] = true
	}

	out := append([]model.ProductIdea(nil), ideas...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Dimension.Index() < out[j].Dimension.Index()
	})
	return out, nil
}
