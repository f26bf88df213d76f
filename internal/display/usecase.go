package display

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// ReportUseCase 报告浏览逻辑
type ReportUseCase struct {
	repo ReportRepo
	log  *log.Helper
}

// NewReportUseCase 创建报告浏览逻辑实例
func NewReportUseCase(repo ReportRepo, logger log.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List 列出全部报告
func (uc *ReportUseCase) List(ctx context.Context) ([]*ReportSummary, error) {
	return uc.repo.ListReports(ctx)
}

// Get 读取指定日期的报告
func (uc *ReportUseCase) Get(ctx context.Context, date string) ([]byte, error) {
	return uc.repo.GetReport(ctx, date)
}

// Latest 读取最新的报告
func (uc *ReportUseCase) Latest(ctx context.Context) ([]byte, error) {
	reports, err := uc.repo.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrReportNotFound
	}
	uc.log.Debugf("最新报告: %s", reports[0].Name)
	return uc.repo.GetReport(ctx, reports[0].Date)
}
