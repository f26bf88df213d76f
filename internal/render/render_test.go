package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Backtthefuture/weibocheck/internal/aggregate"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

var genTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

func sampleSet() model.ResultSet {
	ideas := make([]model.ProductIdea, 0, 3)
	for _, d := range model.Dimensions {
		ideas = append(ideas, model.ProductIdea{
			Name: "创意-" + string(d), Features: "功能", TargetUsers: "用户", Dimension: d, UniqueValue: "价值",
		})
	}
	results := []model.AnalysisResult{
		{Rank: 1, Title: "高分<话题>", Heat: 1234567, FunScore: 78, UsefulScore: 17, TotalScore: 95, Summary: "s1", HasIdea: true,
			Product: &model.ProductIdea{Name: "基础创意", Features: "f", TargetUsers: "u", Description: "d"}},
		{Rank: 2, Title: "中分话题", Heat: 5000, FunScore: 50, UsefulScore: 15, TotalScore: 65, Summary: "s2", HasIdea: true,
			Product: &model.ProductIdea{Name: "单一创意", Features: "f", TargetUsers: "u"}},
		{Rank: 3, Title: "低分话题", Heat: 0, FunScore: 30, UsefulScore: 10, TotalScore: 40, Summary: "s3", Reason: "话题偏严肃"},
		{Rank: 4, Title: "无原因", TotalScore: 65, FunScore: 60, UsefulScore: 5, Summary: "s4"},
	}
	return aggregate.Aggregate(results, map[int][]model.ProductIdea{1: ideas})
}

func parse(t *testing.T, html []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRender_Branches(t *testing.T) {
	html, err := Render(sampleSet(), genTime)
	require.NoError(t, err)
	doc := parse(t, html)

	rows := doc.Find("#results-body tr")
	require.Equal(t, 4, rows.Length())

	deep := rows.Eq(0)
	assert.Equal(t, "95", deep.AttrOr("data-score", ""))
	assert.Equal(t, 3, deep.Find(".deep-dive .idea").Length())
	var dims []string
	deep.Find(".idea").Each(func(_ int, s *goquery.Selection) {
		dims = append(dims, s.AttrOr("data-dimension", ""))
	})
	assert.Equal(t, []string{"daily-life", "social-entertainment", "commercial-value"}, dims)
	assert.Equal(t, "日常生活", deep.Find(".dimension-tag").First().Text())
	assert.Equal(t, 0, deep.Find(".idea.single").Length(), "深度挖掘优先于单一创意")
	assert.Equal(t, "高分<话题>热度 1,234,567", deep.Find("td.title").Text())
	assert.True(t, deep.Find(".score-badge").HasClass("score-excellent"))

	single := rows.Eq(1)
	assert.Equal(t, 1, single.Find(".idea.single").Length())
	assert.Equal(t, "单一创意", single.Find(".idea.single h4").Text())
	assert.True(t, single.Find(".score-badge").HasClass("score-good"))

	none := rows.Eq(2)
	assert.Equal(t, "话题偏严肃", none.Find(".no-idea .reason").Text())
	assert.True(t, none.Find(".score-badge").HasClass("score-fair"))

	// has_idea 为假且没有原因时使用默认文案
	assert.Equal(t, DefaultReason, rows.Eq(3).Find(".no-idea .reason").Text())
}

func TestRender_Stats(t *testing.T) {
	html, err := Render(sampleSet(), genTime)
	require.NoError(t, err)
	doc := parse(t, html)

	assert.Equal(t, "4", doc.Find("#stat-total .stat-value").Text())
	assert.Equal(t, "1", doc.Find("#stat-deep-dive .stat-value").Text())
	assert.Equal(t, "1", doc.Find("#stat-excellent .stat-value").Text())
	assert.Equal(t, "2", doc.Find("#stat-good .stat-value").Text())
	assert.Equal(t, "66.3", doc.Find("#stat-average .stat-value").Text())
	assert.Contains(t, doc.Find("footer").Text(), "2026-10-18 09:30:00")
	assert.Contains(t, doc.Find("title").Text(), "2026年10月18日")
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render(sampleSet(), genTime)
	require.NoError(t, err)
	b, err := Render(sampleSet(), genTime)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_Empty(t *testing.T) {
	html, err := Render(aggregate.Aggregate(nil, nil), genTime)
	require.NoError(t, err)
	doc := parse(t, html)
	assert.Equal(t, 0, doc.Find("#results-body tr").Length())
	assert.Equal(t, "0.0", doc.Find("#stat-average .stat-value").Text())
}

// 页面脚本按 data-score 降序排序，再次点击时按初始快照 originalRows 恢复
func TestRender_SortToggle(t *testing.T) {
	html, err := Render(sampleSet(), genTime)
	require.NoError(t, err)
	doc := parse(t, html)

	var indexes, scores []int
	doc.Find("#results-body tr").Each(func(_ int, s *goquery.Selection) {
		idx, err := strconv.Atoi(s.AttrOr("data-index", ""))
		require.NoError(t, err)
		score, err := strconv.Atoi(s.AttrOr("data-score", ""))
		require.NoError(t, err)
		indexes = append(indexes, idx)
		scores = append(scores, score)
	})
	assert.Equal(t, []int{0, 1, 2, 3}, indexes)
	assert.Equal(t, []int{95, 65, 40, 65}, scores)

	script := doc.Find("script").Text()
	require.NotEmpty(t, script)

	// 快照在点击之前取得，之后每次点击都从快照的副本开始
	snapshotAt := strings.Index(script, "var originalRows = Array.prototype.slice.call(tbody.querySelectorAll('tr'));")
	clickAt := strings.Index(script, "button.addEventListener('click'")
	copyAt := strings.Index(script, "var rows = originalRows.slice();")
	guardAt := strings.Index(script, "if (!sorted) {")
	sortAt := strings.Index(script, "rows.sort(")
	appendAt := strings.Index(script, "rows.forEach(function (row) { tbody.appendChild(row); });")
	flipAt := strings.Index(script, "sorted = !sorted;")
	for name, at := range map[string]int{
		"snapshot": snapshotAt, "click": clickAt, "copy": copyAt, "guard": guardAt,
		"sort": sortAt, "append": appendAt, "flip": flipAt,
	} {
		require.GreaterOrEqual(t, at, 0, name)
	}
	assert.Less(t, snapshotAt, clickAt)
	assert.Less(t, clickAt, copyAt)
	assert.Less(t, copyAt, guardAt)
	assert.Less(t, guardAt, sortAt)

	// 只有排序分支在 if 块内，恢复分支直接按快照顺序追加
	block := script[guardAt:appendAt]
	assert.Equal(t, 1, strings.Count(block, "rows.sort("))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(block), "}"))
	assert.Less(t, appendAt, flipAt)

	assert.Contains(t, script, "Number(b.dataset.score) - Number(a.dataset.score)")
	assert.Contains(t, script, "Number(a.dataset.index) - Number(b.dataset.index)")
}

func TestByScore(t *testing.T) {
	in := []model.AnalysisResult{{Rank: 1, TotalScore: 40}, {Rank: 2, TotalScore: 95}, {Rank: 3, TotalScore: 40}}
	out := ByScore(in)
	assert.Equal(t, []int{2, 1, 3}, []int{out[0].Rank, out[1].Rank, out[2].Rank})
	assert.Equal(t, 1, in[0].Rank, "原切片不变")
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0", Thousands(0))
	assert.Equal(t, "999", Thousands(999))
	assert.Equal(t, "1,234,567", Thousands(1234567))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("output", "weibo_hotspot_analysis_enhanced_20261018.html"), ReportPath("output", genTime))
	assert.Equal(t, filepath.Join("output", "weibo_hotspot_analysis_enhanced_20261018.xlsx"), XLSXPath("output", genTime))

	stamp, ok := ParseReportName("weibo_hotspot_analysis_enhanced_20261018.html")
	assert.True(t, ok)
	assert.Equal(t, "20261018", stamp)

	for _, bad := range []string{"weibo_hotspot_analysis_enhanced_2026101.html", "weibo_hotspot_analysis_enhanced_20261399.html", "other.html", "weibo_hotspot_analysis_enhanced_20261018.xlsx"} {
		_, ok := ParseReportName(bad)
		assert.False(t, ok, bad)
	}
}

func TestWriteReport_Idempotent(t *testing.T) {
	dir := t.TempDir()
	p1, err := WriteReport(dir, sampleSet(), genTime)
	require.NoError(t, err)
	first, err := os.ReadFile(p1)
	require.NoError(t, err)

	p2, err := WriteReport(dir, sampleSet(), genTime)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	second, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteXLSX(dir, sampleSet(), genTime)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "排名", rows[0][0])
	assert.Equal(t, "高分<话题>", rows[1][1])
	assert.Equal(t, "excellent", rows[1][6])
	assert.Contains(t, rows[1][9], "[日常生活]")
	assert.Equal(t, "话题偏严肃", rows[3][8])

	avg, err := f.GetCellValue(statsSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "66.3", avg)
}

func TestFillWorkbook_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	// 默认工作表已被改名，结果表写入失败
	require.NoError(t, f.SetSheetName("Sheet1", "其他"))

	err := fillWorkbook(f, sampleSet())
	assert.Error(t, err)
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleSet())
	require.NoError(t, err)
	assert.Equal(t, []string{resultSheet, statsSheet}, f.GetSheetList())
	assert.NoError(t, f.Close())
}
