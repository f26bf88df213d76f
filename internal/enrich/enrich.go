package enrich

import (
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/Backtthefuture/weibocheck/internal/llm"
	"github.com/Backtthefuture/weibocheck/internal/logger"
	"github.com/Backtthefuture/weibocheck/internal/search"
)

const (
	maxSources     = 5
	shortSnippet   = 200
	maxSourceBytes = 3000
)

// Enricher 为话题获取背景信息
type Enricher interface {
	Enrich(ctx context.Context, query string) (string, error)
}

// Client 先检索再由模型总结的背景信息客户端，searcher 可为空
type Client struct {
	llm      llm.Completer
	searcher search.Searcher
	fetch    func(ctx context.Context, url string) (string, error)
	log      *logrus.Entry
}

// NewClient 创建背景信息客户端
func NewClient(completer llm.Completer, searcher search.Searcher) *Client {
	return &Client{
		llm:      completer,
		searcher: searcher,
		fetch:    fetchAndCleanContent,
		log:      logrus.NewEntry(logger.Log),
	}
}

// WithLogger 返回写入指定日志条目的副本
func (c *Client) WithLogger(l *logrus.Entry) *Client {
	cp := *c
	cp.log = l
	return &cp
}

var _ Enricher = (*Client)(nil)

const systemPrompt = "你是一个新闻资讯助手，擅长用简洁的中文介绍热点事件。"

// Enrich 返回不超过 200 字的话题背景
func (c *Client) Enrich(ctx context.Context, query string) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "请详细介绍关于「%s」的信息，包括：\n", query)
	sb.WriteString("1. 事件的核心内容和背景\n")
	sb.WriteString("2. 涉及的主要人物或机构\n")
	sb.WriteString("3. 事件的影响和讨论热度\n")
	sb.WriteString("4. 相关的有趣细节或亮点\n")
	sb.WriteString("请用中文回答，控制在200字以内。\n")

	if sources := c.gather(ctx, query); len(sources) > 0 {
		sb.WriteString("\n以下是检索到的相关资料，请以此为依据：\n\n")
		for i, src := range sources {
			fmt.Fprintf(&sb, "资料 %d:\n标题: %s\n", i+1, src.Title)
			if src.PublishedDate != "" {
				fmt.Fprintf(&sb, "发布时间: %s\n", src.PublishedDate)
			}
			fmt.Fprintf(&sb, "内容: %s\n\n", src.Content)
		}
	}

	out, err := c.llm.Complete(ctx, systemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("enrich %q: %w", query, err)
	}
	return strings.TrimSpace(out), nil
}

// gather 检索失败只记录日志，背景信息退化为模型自身知识
func (c *Client) gather(ctx context.Context, query string) []search.Result {
	if c.searcher == nil {
		return nil
	}
	resp, err := c.searcher.Search(ctx, &search.Request{
		Query:      query,
		Topic:      "news",
		MaxResults: maxSources,
	})
	if err != nil {
		c.log.Warnf("检索失败 [%s]: %v", query, err)
		return nil
	}

	var out []search.Result
	for _, item := range resp.Top(maxSources) {
		content := item.Content
		if len(content) < shortSnippet && item.URL != "" && c.fetch != nil {
			fetched, err := c.fetch(ctx, item.URL)
			if err == nil && len(fetched) > len(content) {
				content = fetched
			}
		}
		content = Truncate(strings.TrimSpace(content), maxSourceBytes)
		if content == "" {
			continue
		}
		item.Content = content
		out = append(out, item)
	}
	return out
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// fetchAndCleanContent 抓取网页并提取正文，请求随 ctx 取消
func fetchAndCleanContent(ctx context.Context, url string) (string, error) {
	pageURL, err := nurl.Parse(url)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// Placeholder 获取失败时替代的背景文本
func Placeholder(query string) string {
	return fmt.Sprintf("无法获取 %s 的详细信息", query)
}

// Truncate 按字节截断且不切断多字节字符
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
