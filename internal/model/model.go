package model

// 评分阈值。想法判定、深度挖掘入口和报告分档共用同一组分界线。
const (
	ThresholdIdea     = 60
	ThresholdDeepDive = 80

	MaxFunScore    = 80
	MaxUsefulScore = 20

	// DeepDiveIdeaCount 深度挖掘固定产出的想法数量
	DeepDiveIdeaCount = 3
)

// Topic 热搜话题
type Topic struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Heat        int64  `json:"heat"`
	SearchQuery string `json:"search_query"`
}

// ProductIdea 产品想法
type ProductIdea struct {
	Name        string    `json:"name"`
	Features    string    `json:"features"`
	TargetUsers string    `json:"target_users"`
	Description string    `json:"description,omitempty"`
	Dimension   Dimension `json:"dimension,omitempty"`
	UniqueValue string    `json:"unique_value,omitempty"`
}

// AnalysisResult 单个话题的分析结果
type AnalysisResult struct {
	Rank         int           `json:"rank"`
	Title        string        `json:"title"`
	Heat         int64         `json:"heat"`
	FunScore     int           `json:"fun_score"`
	UsefulScore  int           `json:"useful_score"`
	TotalScore   int           `json:"total_score"`
	Summary      string        `json:"summary"`
	HasIdea      bool          `json:"has_idea"`
	Product      *ProductIdea  `json:"product,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	IsDeepDive   bool          `json:"is_deep_dive"`
	ProductIdeas []ProductIdea `json:"product_ideas,omitempty"`
}

// Stats 汇总统计
type Stats struct {
	TotalTopics      int     `json:"total_topics"`
	HighScoreCount   int     `json:"high_score_count"`
	MediumScoreCount int     `json:"medium_score_count"`
	AvgScore         float64 `json:"avg_score"`
	DeepDiveCount    int     `json:"deep_dive_count"`
}

// ResultSet 一次运行的完整结果
type ResultSet struct {
	Results []AnalysisResult `json:"results"`
	Stats   Stats            `json:"stats"`
}

// ScoreTier 报告中的分数档位
type ScoreTier string

const (
	TierExcellent ScoreTier = "excellent"
	TierGood      ScoreTier = "good"
	TierFair      ScoreTier = "fair"
)

// Tier 根据总分返回档位
func Tier(total int) ScoreTier {
	switch {
	case total >= ThresholdDeepDive:
		return TierExcellent
	case total >= ThresholdIdea:
		return TierGood
	default:
		return TierFair
	}
}

// Eligible 是否达到产品想法门槛
func Eligible(total int) bool {
	return total >= ThresholdIdea
}

// DeepDiveEligible 是否达到深度挖掘门槛
func DeepDiveEligible(total int) bool {
	return total >= ThresholdDeepDive
}

// Clamp 把分数限制在 [0, max]
func Clamp(score, max int) int {
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}
