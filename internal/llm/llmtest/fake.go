// Package llmtest 提供测试用的假模型
package llmtest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Reply 根据 system 与 user 内容决定返回值
type Reply func(system, user string) (string, error)

// FakeModel 可并发调用的假 ChatModel，记录每次请求
type FakeModel struct {
	reply Reply

	mu    sync.Mutex
	calls []Call
}

// Call 一次调用的记录
type Call struct {
	System      string
	User        string
	Temperature *float32
}

// New 创建假模型
func New(reply Reply) *FakeModel {
	return &FakeModel{reply: reply}
}

// Generate 实现 llm.ChatModel
func (f *FakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	c := Call{Temperature: model.GetCommonOptions(nil, opts...).Temperature}
	for _, m := range input {
		switch m.Role {
		case schema.System:
			c.System = m.Content
		case schema.User:
			c.User = m.Content
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := f.reply(c.System, c.User)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: out}, nil
}

// Calls 返回调用记录的副本
func (f *FakeModel) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
