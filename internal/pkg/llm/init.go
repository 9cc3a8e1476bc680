package llm

import (
	"Mintora/internal/api/config"
	"errors"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

var trendForecastPrompt string

// InitLLM 初始化 OpenAI 兼容客户端与趋势预测 prompt，仅在 predictor.scorer=llm 时调用
func InitLLM() error {
	cfg := config.Cfg.LLM

	trendForecastPrompt = readPrompt(cfg.PromptsPath.TrendForecast)
	if trendForecastPrompt == "" {
		return errors.New("trend forecast prompt is empty: check llm.prompts_path.trend_forecast")
	}

	client, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return err
	}

	llmClient = client
	log.Info("AI大模型初始化完成", "model", cfg.TextModel)
	return nil
}
