package aggregate

import (
	"math"
	"sort"

	"github.com/Backtthefuture/weibocheck/internal/model"
)

// DeepDiveCandidates 返回达到深度挖掘门槛的结果
func DeepDiveCandidates(results []model.AnalysisResult) []model.AnalysisResult {
	var out []model.AnalysisResult
	for _, r := range results {
		if model.DeepDiveEligible(r.TotalScore) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate 合并深度挖掘结果并计算统计。expansions 以 rank 为键；
// 未达门槛或创意不完整的扩展会被忽略，结果按 rank 排序。
func Aggregate(results []model.AnalysisResult, expansions map[int][]model.ProductIdea) model.ResultSet {
	out := make([]model.AnalysisResult, len(results))
	copy(out, results)

	for i := range out {
		r := &out[i]
		if !model.DeepDiveEligible(r.TotalScore) {
			continue
		}
		ideas := expansions[r.Rank]
		if !complete(ideas) {
			continue
		}
		r.IsDeepDive = true
		r.ProductIdeas = append([]model.ProductIdea(nil), ideas...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })

	return model.ResultSet{Results: out, Stats: ComputeStats(out)}
}

func complete(ideas []model.ProductIdea) bool {
	if len(ideas) != model.DeepDiveIdeaCount {
		return false
	}
	seen := make(map[model.Dimension]bool, len(ideas))
	for _, idea := range ideas {
		if idea.Dimension.Index() < 0 || seen[idea.Dimension] {
			return false
		}
		seen[idea.Dimension] = true
	}
	return true
}

// ComputeStats 计算汇总统计，平均分保留一位小数
func ComputeStats(results []model.AnalysisResult) model.Stats {
	s := model.Stats{TotalTopics: len(results)}
	if len(results) == 0 {
		return s
	}

	sum := 0
	for _, r := range results {
		sum += r.TotalScore
		switch model.Tier(r.TotalScore) {
		case model.TierExcellent:
			s.HighScoreCount++
		case model.TierGood:
			s.MediumScoreCount++
		}
		if r.IsDeepDive {
			s.DeepDiveCount++
		}
	}
	s.AvgScore = round1(float64(sum) / float64(len(results)))
	return s
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
