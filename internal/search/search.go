package search

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Topic      string // "news" or "general"
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	PublishedDate string
}

// Top 返回前 n 条结果
func (r *Response) Top(n int) []Result {
	if r == nil {
		return nil
	}
	if n <= 0 || n >= len(r.Results) {
		return r.Results
	}
	return r.Results[:n]
}
