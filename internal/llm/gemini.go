package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Backtthefuture/weibocheck/internal/config"
)

// geminiModel 把 Gemini 适配为 ChatModel
type geminiModel struct {
	client *genai.Client
	name   string
}

func newGemini(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &geminiModel{client: client, name: cfg.Model}, nil
}

// Generate 实现 ChatModel，system 消息作为 SystemInstruction，其余消息拼接为一次请求
func (g *geminiModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	// 每次调用新建 GenerativeModel，避免并发修改同一实例
	gm := g.client.GenerativeModel(g.name)
	if o := model.GetCommonOptions(nil, opts...); o.Temperature != nil {
		gm.SetTemperature(*o.Temperature)
	}

	var system []string
	var parts []genai.Part
	for _, m := range input {
		if m.Role == schema.System {
			system = append(system, m.Content)
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(system) > 0 {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(strings.Join(system, "\n"))}}
	}

	resp, err := gm.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: responseText(resp)}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				fmt.Fprint(&sb, string(txt))
			}
		}
		// 只取第一个候选
		break
	}
	return sb.String()
}
