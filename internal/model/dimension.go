package model

import "strings"

// Dimension 深度挖掘的想法维度
type Dimension string

const (
	DimensionDailyLife           Dimension = "daily-life"
	DimensionSocialEntertainment Dimension = "social-entertainment"
	DimensionCommercialValue     Dimension = "commercial-value"
)

// Dimensions 固定的维度顺序
var Dimensions = []Dimension{
	DimensionDailyLife,
	DimensionSocialEntertainment,
	DimensionCommercialValue,
}

var dimensionLabels = map[Dimension]string{
	DimensionDailyLife:           "日常生活",
	DimensionSocialEntertainment: "社交娱乐",
	DimensionCommercialValue:     "商业价值",
}

// Label 中文展示名
func (d Dimension) Label() string {
	if l, ok := dimensionLabels[d]; ok {
		return l
	}
	return string(d)
}

// Index 在固定顺序中的位置，未知维度返回 -1
func (d Dimension) Index() int {
	for i, v := range Dimensions {
		if v == d {
			return i
		}
	}
	return -1
}

// ParseDimension 接受英文键或中文标签，大小写和首尾空白不敏感
func ParseDimension(s string) (Dimension, bool) {
	s = strings.TrimSpace(s)
	key := strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	for _, d := range Dimensions {
		if key == string(d) || strings.Contains(s, d.Label()) {
			return d, true
		}
	}
	return "", false
}
