package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Backtthefuture/weibocheck/internal/aggregate"
	"github.com/Backtthefuture/weibocheck/internal/analyzer"
	"github.com/Backtthefuture/weibocheck/internal/config"
	"github.com/Backtthefuture/weibocheck/internal/deepdive"
	"github.com/Backtthefuture/weibocheck/internal/enrich"
	"github.com/Backtthefuture/weibocheck/internal/hotlist"
	"github.com/Backtthefuture/weibocheck/internal/llm"
	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/model"
	"github.com/Backtthefuture/weibocheck/internal/render"
	"github.com/Backtthefuture/weibocheck/internal/search"
	"github.com/Backtthefuture/weibocheck/internal/search/factory"
	"github.com/Backtthefuture/weibocheck/internal/snapshot"
)

// 运行级错误，出现时不会产出报告
var (
	ErrNoTopics   = errors.New("no topics to analyze")
	ErrNoSnapshot = errors.New("no snapshot to resume from")
	ErrOutput     = errors.New("failed to write output")
)

// Engine 核心处理引擎
type Engine struct {
	cfg      *config.Config
	source   hotlist.Source
	enricher enrich.Enricher
	analyzer *analyzer.Analyzer
	expander *deepdive.Expander
	store    *snapshot.Store
	now      func() time.Time

	runID string
	log   *logrus.Entry
}

// NewEngine 用给定依赖创建引擎，source 只在抓取阶段使用，可为空
func NewEngine(cfg *config.Config, source hotlist.Source, completer llm.Completer, searcher search.Searcher) *Engine {
	runID := uuid.NewString()
	log := logger.Log.WithField("run_id", runID)
	enricher := enrich.NewClient(completer, searcher).WithLogger(log)
	return &Engine{
		cfg:      cfg,
		source:   source,
		enricher: enricher,
		analyzer: analyzer.New(completer).WithLogger(log),
		expander: deepdive.New(completer, enricher).WithLogger(log),
		store:    snapshot.NewStore(cfg.Output.SnapshotDir),
		now:      time.Now,
		runID:    runID,
		log:      log,
	}
}

// Build 根据配置创建真实的模型、搜索与数据源客户端
func Build(ctx context.Context, cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置错误: %w", err)
	}
	client, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	searcher, err := factory.NewSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	if searcher == nil {
		logger.Log.Info("未配置搜索服务，话题背景由模型直接生成")
	}
	source := hotlist.NewClient(cfg.Source.Endpoint, cfg.Source.TianAPIKey, cfg.Source.MaxTopics)
	return NewEngine(cfg, source, client, searcher), nil
}

func (e *Engine) workers() int {
	return max(1, e.cfg.Concurrency.Workers)
}

// RunID 本次运行的标识
func (e *Engine) RunID() string { return e.runID }

// Fetch 抓取热搜并保存话题快照
func (e *Engine) Fetch(ctx context.Context) ([]model.Topic, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: 未配置热搜数据源", ErrNoTopics)
	}
	topics, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTopics, err)
	}
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}
	if err := e.store.SaveTopics(topics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	e.log.Infof("已抓取 %d 个话题", len(topics))
	return topics, nil
}

// Analyze 逐个话题获取背景并打分，单个话题失败只影响自身
func (e *Engine) Analyze(ctx context.Context, topics []model.Topic) ([]model.AnalysisResult, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	results := make([]model.AnalysisResult, len(topics))
	var done atomic.Int32
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i, topic := range topics {
		g.Go(func() error {
			results[i] = e.analyzeTopic(ctx, topic)
			e.log.Infof("[%d/%d] %s 总分 %d", done.Add(1), len(topics), topic.Title, results[i].TotalScore)
			return nil
		})
	}
	_ = g.Wait()

	// 中断时不覆盖已有快照
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("分析阶段中断: %w", err)
	}
	if err := e.store.SaveResults(results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return results, nil
}

func (e *Engine) analyzeTopic(ctx context.Context, topic model.Topic) (r model.AnalysisResult) {
	defer func() {
		if p := recover(); p != nil {
			e.log.Errorf("话题处理异常 [%d %s]: %v", topic.Rank, topic.Title, p)
			r = analyzer.ToResult(topic, analyzer.Unparseable{Err: fmt.Errorf("panic: %v", p)})
		}
	}()

	background, err := e.enricher.Enrich(ctx, topic.SearchQuery)
	if err != nil {
		e.log.Warnf("背景获取失败 [%s]: %v", topic.Title, err)
		background = enrich.Placeholder(topic.SearchQuery)
	}
	return e.analyzer.Analyze(ctx, topic, background)
}

// DeepDive 对高分话题做深度挖掘并汇总
func (e *Engine) DeepDive(ctx context.Context, results []model.AnalysisResult) (model.ResultSet, error) {
	if len(results) == 0 {
		return model.ResultSet{}, ErrNoTopics
	}

	candidates := aggregate.DeepDiveCandidates(results)
	e.log.Infof("%d 个话题进入深度挖掘", len(candidates))

	expanded := make([][]model.ProductIdea, len(candidates))
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i, c := range candidates {
		g.Go(func() error {
			expanded[i] = e.expandTopic(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.ResultSet{}, fmt.Errorf("深度挖掘阶段中断: %w", err)
	}

	expansions := make(map[int][]model.ProductIdea, len(candidates))
	for i, c := range candidates {
		if len(expanded[i]) > 0 {
			expansions[c.Rank] = expanded[i]
		}
	}

	rs := aggregate.Aggregate(results, expansions)
	if err := e.store.SaveEnhanced(rs.Results); err != nil {
		return model.ResultSet{}, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return rs, nil
}

func (e *Engine) expandTopic(ctx context.Context, r model.AnalysisResult) (ideas []model.ProductIdea) {
	defer func() {
		if p := recover(); p != nil {
			e.log.Errorf("深度挖掘异常 [%d %s]: %v", r.Rank, r.Title, p)
			ideas = nil
		}
	}()
	return e.expander.Expand(ctx, r)
}

// Report 渲染产物路径
type Report struct {
	HTMLPath string
	XLSXPath string
}

// Render 写出当天的报告
func (e *Engine) Render(rs model.ResultSet) (Report, error) {
	now := e.now()
	var rep Report
	path, err := render.WriteReport(e.cfg.Output.Dir, rs, now)
	if err != nil {
		return rep, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	rep.HTMLPath = path

	if e.cfg.Output.XLSX {
		path, err := render.WriteXLSX(e.cfg.Output.Dir, rs, now)
		if err != nil {
			return rep, fmt.Errorf("%w: %v", ErrOutput, err)
		}
		rep.XLSXPath = path
	}
	e.log.Infof("报告已生成: %s", rep.HTMLPath)
	return rep, nil
}

// Summary 一次运行的摘要
type Summary struct {
	RunID    string
	Stats    model.Stats
	Report   Report
	Top      []model.AnalysisResult
	Duration time.Duration
}

const topN = 3

func (e *Engine) summarize(rs model.ResultSet, rep Report, start time.Time) *Summary {
	top := render.ByScore(rs.Results)
	if len(top) > topN {
		top = top[:topN]
	}
	return &Summary{
		RunID:    e.runID,
		Stats:    rs.Stats,
		Report:   rep,
		Top:      top,
		Duration: e.now().Sub(start),
	}
}

// Run 执行完整流程：抓取、分析、深度挖掘、渲染
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	start := e.now()
	topics, err := e.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return e.runFromTopics(ctx, topics, start)
}

// ResumeAnalyze 从话题快照继续
func (e *Engine) ResumeAnalyze(ctx context.Context) (*Summary, error) {
	start := e.now()
	topics, err := e.store.LoadTopics()
	if err != nil {
		return nil, snapshotErr(err)
	}
	return e.runFromTopics(ctx, topics, start)
}

// ResumeDeepDive 从分析结果快照继续
func (e *Engine) ResumeDeepDive(ctx context.Context) (*Summary, error) {
	start := e.now()
	results, err := e.store.LoadResults()
	if err != nil {
		return nil, snapshotErr(err)
	}
	return e.runFromResults(ctx, results, start)
}

// ResumeRender 只根据深度挖掘快照重新渲染
func (e *Engine) ResumeRender() (*Summary, error) {
	start := e.now()
	results, err := e.store.LoadEnhanced()
	if err != nil {
		return nil, snapshotErr(err)
	}
	if len(results) == 0 {
		return nil, ErrNoTopics
	}
	rs := aggregate.Aggregate(results, nil)
	rep, err := e.Render(rs)
	if err != nil {
		return nil, err
	}
	return e.summarize(rs, rep, start), nil
}

func (e *Engine) runFromTopics(ctx context.Context, topics []model.Topic, start time.Time) (*Summary, error) {
	results, err := e.Analyze(ctx, topics)
	if err != nil {
		return nil, err
	}
	return e.runFromResults(ctx, results, start)
}

func (e *Engine) runFromResults(ctx context.Context, results []model.AnalysisResult, start time.Time) (*Summary, error) {
	rs, err := e.DeepDive(ctx, results)
	if err != nil {
		return nil, err
	}
	rep, err := e.Render(rs)
	if err != nil {
		return nil, err
	}
	return e.summarize(rs, rep, start), nil
}

func snapshotErr(err error) error {
	if errors.Is(err, snapshot.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	return err
}
