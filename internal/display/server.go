package display

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/Backtthefuture/weibocheck/internal/config"
)

// NewHTTPServer 创建报告浏览服务
func NewHTTPServer(c config.DisplayConfig, uc *ReportUseCase, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	h := &handler{uc: uc, log: log.NewHelper(logger)}

	srv.HandleFunc("/", h.latest)
	srv.HandleFunc("/api/reports", h.list)
	srv.HandlePrefix("/reports/", nethttp.HandlerFunc(h.report))

	return srv
}

type handler struct {
	uc  *ReportUseCase
	log *log.Helper
}

func (h *handler) latest(w nethttp.ResponseWriter, r *nethttp.Request) {
	data, err := h.uc.Latest(r.Context())
	h.writeHTML(w, data, err)
}

func (h *handler) report(w nethttp.ResponseWriter, r *nethttp.Request) {
	date := strings.Trim(strings.TrimPrefix(r.URL.Path, "/reports/"), "/")
	data, err := h.uc.Get(r.Context(), date)
	h.writeHTML(w, data, err)
}

func (h *handler) list(w nethttp.ResponseWriter, r *nethttp.Request) {
	reports, err := h.uc.List(r.Context())
	if err != nil {
		h.log.Errorf("列出报告失败: %v", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*ReportSummary{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total":   len(reports),
		"reports": reports,
	})
}

func (h *handler) writeHTML(w nethttp.ResponseWriter, data []byte, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound):
		nethttp.Error(w, "report not found", nethttp.StatusNotFound)
	case err != nil:
		h.log.Errorf("读取报告失败: %v", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}
}
