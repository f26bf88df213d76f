package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Backtthefuture/weibocheck/internal/atomicfile"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// DefaultReason 结果没有原因时展示的文本
const DefaultReason = "总分未达60分阈值"

const filePrefix = "weibo_hotspot_analysis_enhanced_"

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

var numberPrinter = message.NewPrinter(language.English)

type pageData struct {
	Date        string
	GeneratedAt string
	Stats       model.Stats
	Rows        []row
	Idea        int
	GoodMax     int
	DeepDive    int
}

type row struct {
	model.AnalysisResult
	Index      int
	Tier       model.ScoreTier
	HeatText   string
	ReasonText string
}

// Render 把结果集渲染为独立的 HTML 文档，相同输入与时间得到相同输出
func Render(rs model.ResultSet, generatedAt time.Time) ([]byte, error) {
	data := pageData{
		Date:        generatedAt.Format("2006年01月02日"),
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
		Stats:       rs.Stats,
		Rows:        make([]row, 0, len(rs.Results)),
		Idea:        model.ThresholdIdea,
		GoodMax:     model.ThresholdDeepDive - 1,
		DeepDive:    model.ThresholdDeepDive,
	}
	for i, r := range rs.Results {
		reason := r.Reason
		if reason == "" {
			reason = DefaultReason
		}
		data.Rows = append(data.Rows, row{
			AnalysisResult: r,
			Index:          i,
			Tier:           model.Tier(r.TotalScore),
			HeatText:       Thousands(r.Heat),
			ReasonText:     reason,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Thousands 千分位格式化
func Thousands(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// ByScore 按总分降序返回副本，同分保持原顺序
func ByScore(results []model.AnalysisResult) []model.AnalysisResult {
	out := append([]model.AnalysisResult(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}

// DateStamp 报告文件名使用的日期
func DateStamp(t time.Time) string {
	return t.Format("20060102")
}

// ReportPath 指定日期的报告路径
func ReportPath(dir string, t time.Time) string {
	return filepath.Join(dir, filePrefix+DateStamp(t)+".html")
}

// XLSXPath 指定日期的表格路径
func XLSXPath(dir string, t time.Time) string {
	return filepath.Join(dir, filePrefix+DateStamp(t)+".xlsx")
}

// ParseReportName 从报告文件名中解析日期，不匹配时返回 false
func ParseReportName(name string) (string, bool) {
	const suffix = ".html"
	if len(name) != len(filePrefix)+8+len(suffix) ||
		name[:len(filePrefix)] != filePrefix || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	stamp := name[len(filePrefix) : len(filePrefix)+8]
	if _, err := time.Parse("20060102", stamp); err != nil {
		return "", false
	}
	return stamp, true
}

// WriteReport 渲染并写入当天的报告，同一天重复运行覆盖同一文件
func WriteReport(dir string, rs model.ResultSet, now time.Time) (string, error) {
	html, err := Render(rs, now)
	if err != nil {
		return "", err
	}
	path := ReportPath(dir, now)
	if err := atomicfile.WriteFile(path, html, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
