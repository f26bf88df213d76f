package factory

import (
	"fmt"

	"github.com/Backtthefuture/weibocheck/internal/config"
	"github.com/Backtthefuture/weibocheck/internal/search"
	"github.com/Backtthefuture/weibocheck/internal/searxng"
	"github.com/Backtthefuture/weibocheck/internal/tavily"
)

// NewSearcher 根据配置创建搜索实例，未配置时返回 nil，话题背景完全交给模型生成
func NewSearcher(cfg config.SearchConfig) (search.Searcher, error) {
	provider := cfg.Provider
	if provider == "" && cfg.Tavily.APIKey != "" {
		provider = "tavily"
	}

	switch provider {
	case "", "none":
		return nil, nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey), nil

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
