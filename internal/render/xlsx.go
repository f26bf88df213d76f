package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Backtthefuture/weibocheck/internal/atomicfile"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

const (
	resultSheet = "热点分析"
	statsSheet  = "统计"
)

var resultHeader = []interface{}{"排名", "话题", "热度", "有趣度", "有用度", "总分", "档位", "摘要", "产品创意", "深度挖掘"}

// BuildWorkbook 生成结果表格，调用方负责 Close；出错时表格已关闭
func BuildWorkbook(rs model.ResultSet) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, rs); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, rs model.ResultSet) error {
	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(resultSheet, "A1", &resultHeader); err != nil {
		return err
	}
	for i, r := range rs.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Rank, r.Title, r.Heat, r.FunScore, r.UsefulScore, r.TotalScore,
			string(model.Tier(r.TotalScore)), r.Summary, productCell(r), deepDiveCell(r),
		}
		if err := f.SetSheetRow(resultSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(resultSheet, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(resultSheet, "H", "J", 50); err != nil {
		return err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}
	stats := [][]interface{}{
		{"分析话题", rs.Stats.TotalTopics},
		{"深度挖掘", rs.Stats.DeepDiveCount},
		{"优秀", rs.Stats.HighScoreCount},
		{"良好", rs.Stats.MediumScoreCount},
		{"平均分", rs.Stats.AvgScore},
	}
	for i, values := range stats {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(statsSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func productCell(r model.AnalysisResult) string {
	switch {
	case r.HasIdea && r.Product != nil:
		return fmt.Sprintf("%s：%s（%s）", r.Product.Name, r.Product.Features, r.Product.TargetUsers)
	case r.Reason != "":
		return r.Reason
	default:
		return DefaultReason
	}
}

func deepDiveCell(r model.AnalysisResult) string {
	if !r.IsDeepDive {
		return ""
	}
	parts := make([]string, 0, len(r.ProductIdeas))
	for _, idea := range r.ProductIdeas {
		parts = append(parts, fmt.Sprintf("[%s] %s：%s", idea.Dimension.Label(), idea.Name, idea.Features))
	}
	return strings.Join(parts, "\n")
}

// WriteXLSX 写入当天的结果表格
func WriteXLSX(dir string, rs model.ResultSet, now time.Time) (string, error) {
	f, err := BuildWorkbook(rs)
	if err != nil {
		return "", fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("encode workbook: %w", err)
	}
	path := XLSXPath(dir, now)
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
