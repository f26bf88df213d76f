package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/Backtthefuture/weibocheck/internal/config"
)

func newOpenAI(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.CallTimeout(),
	})
	if err != nil {
		return nil, err
	}
	return cm, nil
}
