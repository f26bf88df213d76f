package hotlist

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// ParseHeat 取热度文本中第一段连续 ASCII 数字，没有数字时返回 0，溢出时取 MaxInt64
func ParseHeat(raw string) int64 {
	m := digitRun.FindString(raw)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return n
}

// SearchQuery 生成话题的检索语句，例如 "某话题 微博热搜 2026年10月"
func SearchQuery(title string, now time.Time) string {
	return title + " 微博热搜 " + now.Format("2006年01月")
}
