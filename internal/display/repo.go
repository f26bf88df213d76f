package display

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/Backtthefuture/weibocheck/internal/render"
)

// ErrReportNotFound 指定日期的报告不存在
var ErrReportNotFound = errors.New("report not found")

// ReportSummary 报告列表项
type ReportSummary struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updated_at"`
}

// ReportRepo 报告仓库接口
type ReportRepo interface {
	// ListReports 按日期倒序列出报告
	ListReports(ctx context.Context) ([]*ReportSummary, error)
	// GetReport 读取指定日期 (YYYYMMDD) 的报告
	GetReport(ctx context.Context, date string) ([]byte, error)
}

type dirRepo struct {
	dir string
	log *log.Helper
}

// NewReportRepo 基于输出目录的报告仓库
func NewReportRepo(dir string, logger log.Logger) ReportRepo {
	return &dirRepo{dir: dir, log: log.NewHelper(logger)}
}

func (r *dirRepo) ListReports(ctx context.Context) ([]*ReportSummary, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	var out []*ReportSummary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := render.ParseReportName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			r.log.Warnf("读取报告信息失败 [%s]: %v", entry.Name(), err)
			continue
		}
		out = append(out, &ReportSummary{
			Date:      date,
			Name:      entry.Name(),
			URL:       "/reports/" + date,
			Size:      info.Size(),
			UpdatedAt: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *dirRepo) GetReport(ctx context.Context, date string) ([]byte, error) {
	name := "weibo_hotspot_analysis_enhanced_" + date + ".html"
	if _, ok := render.ParseReportName(name); !ok {
		return nil, ErrReportNotFound
	}
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}
