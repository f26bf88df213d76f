package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Backtthefuture/weibocheck/internal/llm"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// FailedSummary 兜底结果的摘要
const FailedSummary = "analysis failed"

// DefaultNoIdeaReason 模型未给出原因时使用
const DefaultNoIdeaReason = "总分未达60分阈值"

// Outcome 一次结构化分析的结果，只有 Parsed 与 Unparseable 两种
type Outcome interface {
	outcome()
}

// Parsed 模型返回了合法的评分结构
type Parsed struct {
	FunScore    int
	UsefulScore int
	Summary     string
	HasIdea     bool
	Product     *model.ProductIdea
	Reason      string
}

// Unparseable 调用失败或返回内容无法解析
type Unparseable struct {
	Raw string
	Err error
}

func (Parsed) outcome()      {}
func (Unparseable) outcome() {}

// Total 总分
func (p Parsed) Total() int {
	return p.FunScore + p.UsefulScore
}

// ToResult 把分析结果映射为 AnalysisResult，兜底结果全部为零分
func ToResult(topic model.Topic, o Outcome) model.AnalysisResult {
	r := model.AnalysisResult{
		Rank:  topic.Rank,
		Title: topic.Title,
		Heat:  topic.Heat,
	}
	switch v := o.(type) {
	case Parsed:
		r.FunScore = v.FunScore
		r.UsefulScore = v.UsefulScore
		r.TotalScore = v.Total()
		r.Summary = v.Summary
		r.HasIdea = v.HasIdea
		if v.HasIdea {
			p := *v.Product
			r.Product = &p
		} else {
			r.Reason = v.Reason
		}
	case Unparseable:
		r.Summary = FailedSummary
		r.Reason = "分析失败: " + describe(v.Err)
	default:
		r.Summary = FailedSummary
		r.Reason = "分析失败: unknown outcome"
	}
	return r
}

func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// wireResult 模型返回的原始结构，指针字段用于区分缺失和零值
type wireResult struct {
	FunScore    *float64     `json:"fun_score"`
	UsefulScore *float64     `json:"useful_score"`
	TotalScore  *float64     `json:"total_score"`
	Summary     *string      `json:"summary"`
	HasIdea     *bool        `json:"has_idea"`
	Product     *wireProduct `json:"product"`
	Reason      string       `json:"reason"`
}

type wireProduct struct {
	Name        string `json:"name"`
	Features    string `json:"features"`
	TargetUsers string `json:"target_users"`
	Description string `json:"description"`
}

func (p *wireProduct) usable() bool {
	return p != nil &&
		strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Features) != "" &&
		strings.TrimSpace(p.TargetUsers) != ""
}

// Parse 解析模型返回的文本。total_score 与 has_idea 必须存在，但按本地规则重新计算，模型给出的值不参与判定
func Parse(raw string) Outcome {
	fail := func(err error) Outcome { return Unparseable{Raw: raw, Err: err} }

	clean := llm.StripFences(raw)
	if !strings.HasPrefix(clean, "{") {
		return fail(errors.New("response is not a JSON object"))
	}

	var w wireResult
	if err := json.Unmarshal([]byte(clean), &w); err != nil {
		return fail(fmt.Errorf("unmarshal response failed: %w", err))
	}

	switch {
	case w.FunScore == nil:
		return fail(errors.New("missing field fun_score"))
	case w.UsefulScore == nil:
		return fail(errors.New("missing field useful_score"))
	case w.TotalScore == nil:
		return fail(errors.New("missing field total_score"))
	case w.Summary == nil:
		return fail(errors.New("missing field summary"))
	case w.HasIdea == nil:
		return fail(errors.New("missing field has_idea"))
	}

	p := Parsed{
		FunScore:    model.Clamp(toInt(*w.FunScore), model.MaxFunScore),
		UsefulScore: model.Clamp(toInt(*w.UsefulScore), model.MaxUsefulScore),
		Summary:     strings.TrimSpace(*w.Summary),
	}
	p.HasIdea = model.Eligible(p.Total())

	if p.HasIdea {
		if !w.Product.usable() {
			return fail(fmt.Errorf("total score %d requires a product but none was returned", p.Total()))
		}
		p.Product = &model.ProductIdea{
			Name:        strings.TrimSpace(w.Product.Name),
			Features:    strings.TrimSpace(w.Product.Features),
			TargetUsers: strings.TrimSpace(w.Product.TargetUsers),
			Description: strings.TrimSpace(w.Product.Description),
		}
		return p
	}

	p.Reason = strings.TrimSpace(w.Reason)
	if p.Reason == "" {
		p.Reason = DefaultNoIdeaReason
	}
	return p
}

func toInt(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(math.Round(f))
}
