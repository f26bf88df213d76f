package hotlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/model"
)

// ErrEmptyFeed 数据源没有返回任何可用话题
var ErrEmptyFeed = errors.New("hot list is empty")

// Source 热搜话题来源
type Source interface {
	Fetch(ctx context.Context) ([]model.Topic, error)
}

// Client 天行数据微博热搜客户端
type Client struct {
	endpoint  string
	apiKey    string
	maxTopics int
	client    *http.Client
	now       func() time.Time
}

// NewClient 创建一个新的热搜客户端
func NewClient(endpoint, apiKey string, maxTopics int) *Client {
	return &Client{
		endpoint:  endpoint,
		apiKey:    apiKey,
		maxTopics: maxTopics,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

var _ Source = (*Client)(nil)

// feedResponse 天行接口响应
type feedResponse struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		List []feedItem `json:"list"`
	} `json:"result"`
}

type feedItem struct {
	HotWord    string `json:"hotword"`
	HotWordNum string `json:"hotwordnum"`
	HotTag     string `json:"hottag"`
}

// Fetch 拉取热搜榜并转换为话题列表
func (c *Client) Fetch(ctx context.Context) ([]model.Topic, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hot list api error (status %d): %s", res.StatusCode, string(body))
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if feed.Code != 200 {
		return nil, fmt.Errorf("hot list api error (code %d): %s", feed.Code, feed.Msg)
	}

	topics := c.convert(feed.Result.List)
	if len(topics) == 0 {
		return nil, ErrEmptyFeed
	}
	logger.Log.Infof("获取到 %d 条热搜，保留 %d 条", len(feed.Result.List), len(topics))
	return topics, nil
}

// convert 保留前 maxTopics 条，rank 为在榜单中的位置
func (c *Client) convert(items []feedItem) []model.Topic {
	if c.maxTopics > 0 && len(items) > c.maxTopics {
		items = items[:c.maxTopics]
	}
	now := c.now()
	topics := make([]model.Topic, 0, len(items))
	for i, item := range items {
		title := strings.TrimSpace(item.HotWord)
		if title == "" {
			logger.Log.Warnf("第 %d 条热搜标题为空，已跳过", i+1)
			continue
		}
		topics = append(topics, model.Topic{
			Rank:        i + 1,
			Title:       title,
			Heat:        ParseHeat(item.HotWordNum),
			SearchQuery: SearchQuery(title, now),
		})
	}
	return topics
}
