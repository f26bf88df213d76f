package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/Backtthefuture/weibocheck/internal/config"
	"github.com/Backtthefuture/weibocheck/internal/logger"
)

// ChatModel 生成式服务的最小抽象，eino 的 openai ChatModel 直接满足该接口
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Completer 单轮对话能力，*Client 实现该接口
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var _ Completer = (*Client)(nil)

// ErrEmptyResponse 服务返回了空内容
var ErrEmptyResponse = errors.New("empty response from model")

// Client 带限流、超时与 429 重试的调用封装
type Client struct {
	model       ChatModel
	limiter     *rate.Limiter
	timeout     time.Duration
	maxRetries  int
	baseDelay   time.Duration
	temperature *float32
}

// NewClient 创建调用封装，limiter 为 nil 时不限流
func NewClient(cm ChatModel, limiter *rate.Limiter, cfg config.LLMConfig) *Client {
	c := &Client{
		model:      cm,
		limiter:    limiter,
		timeout:    cfg.CallTimeout(),
		maxRetries: cfg.Retries(),
		baseDelay:  2 * time.Second,
	}
	if cfg.Temperature != nil {
		t := *cfg.Temperature
		c.temperature = &t
	}
	return c
}

// NewLimiter 按 rpm/qps 创建限流器
func NewLimiter(cc config.ConcurrencyConfig) *rate.Limiter {
	limit := rate.Limit(float64(cc.RPM) / 60.0)
	return rate.NewLimiter(limit, cc.QPS)
}

// New 根据配置创建模型与调用封装
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	var (
		cm  ChatModel
		err error
	)
	switch cfg.LLM.Provider {
	case "", "openai":
		cm, err = newOpenAI(ctx, cfg.LLM)
	case "gemini":
		cm, err = newGemini(ctx, cfg.LLM)
	default:
		err = fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limiter := NewLimiter(cfg.Concurrency)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limiter.Limit(), limiter.Burst())
	return NewClient(cm, limiter, cfg.LLM), nil
}

// Complete 发送一次 system + user 对话并返回原始文本
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	var opts []model.Option
	if c.temperature != nil {
		opts = append(opts, model.WithTemperature(*c.temperature))
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		resp, err := c.generate(ctx, messages, opts)
		if err == nil {
			if strings.TrimSpace(resp.Content) == "" {
				return "", ErrEmptyResponse
			}
			return resp.Content, nil
		}

		lastErr = err
		if !IsRateLimited(err) || i == c.maxRetries {
			break
		}
		delay := c.baseDelay * time.Duration(1<<i)
		logger.Log.Warnf("触发限流，%v 后重试 (%d/%d)", delay, i+1, c.maxRetries)
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) generate(ctx context.Context, messages []*schema.Message, opts []model.Option) (*schema.Message, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.model.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

// IsRateLimited 判断错误是否为限流
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource_exhausted")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StripFences 去掉模型可能包裹在外层的 markdown 代码块
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
