package llm

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/sync/semaphore"
)

var ErrClientNotReady = errors.New("llm client is not initialized")

// maxConcurrentCalls 同时进行的模型请求上限，发布与补齐任务共享
const maxConcurrentCalls = 5

var callSem = semaphore.NewWeighted(maxConcurrentCalls)

func readPrompt(file string) string {
	if file == "" {
		return ""
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("读取prompt文件失败", "file", file, "err", err)
		return ""
	}
	return string(data)
}

func fetchModel(ctx context.Context, model llms.Model, modelName, systemPrompt, userPrompt string, temp float64) (*llms.ContentResponse, error) {
	if model == nil {
		return nil, ErrClientNotReady
	}
	if err := callSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer callSem.Release(1)

	messages := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}
	log.InfoContext(ctx, "正在请求AI大模型", "model", modelName)

	opts := []llms.CallOption{llms.WithTemperature(temp)}
	if modelName != "" {
		opts = append(opts, llms.WithModel(modelName))
	}
	return model.GenerateContent(ctx, messages, opts...)
}

// cleanJSON 去掉模型回复中的 markdown 代码块标记
func cleanJSON(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
