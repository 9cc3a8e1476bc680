package llm

import (
	"Mintora/internal/api/config"
	"Mintora/internal/pkg/predictor"
	"context"
	"errors"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/tmc/langchaingo/llms"
)

const ScorerLLM = "llm"

// ForecastScorer 由大模型给出预测原始分数
type ForecastScorer struct {
	model     llms.Model
	modelName string
	prompt    string
}

// NewForecastScorer 使用全局初始化的客户端
func NewForecastScorer() *ForecastScorer {
	return NewForecastScorerWith(llmClient, config.Cfg.LLM.TextModel, trendForecastPrompt)
}

func NewForecastScorerWith(model llms.Model, modelName, prompt string) *ForecastScorer {
	return &ForecastScorer{
		model:     model,
		modelName: modelName,
		prompt:    prompt,
	}
}

func (s *ForecastScorer) Name() string {
	return ScorerLLM
}

func (s *ForecastScorer) Score(ctx context.Context, f *predictor.Features) (*predictor.Scores, error) {
	featuresJSON, err := json.Marshal(f)
	if err != nil {
		log.ErrorContext(ctx, "趋势预测-AI大模型请求数据序列化失败", "err", err)
		return nil, err
	}

	resp, err := fetchModel(ctx, s.model, s.modelName, s.prompt, string(featuresJSON), 0.2)
	if err != nil {
		log.ErrorContext(ctx, "趋势预测-AI大模型请求失败", "err", err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("趋势预测-AI大模型返回数据为空")
	}

	scores, err := ParseScores(resp.Choices[0].Content)
	if err != nil {
		log.ErrorContext(ctx, "趋势预测-AI大模型返回数据解析失败", "err", err)
		return nil, err
	}
	return scores, nil
}

// ParseScores 解析模型返回的 JSON 分数
func ParseScores(content string) (*predictor.Scores, error) {
	var scores predictor.Scores
	if err := json.Unmarshal([]byte(cleanJSON(content)), &scores); err != nil {
		return nil, err
	}
	return &scores, nil
}
