package llm

import (
	"Mintora/internal/pkg/predictor"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	content string
	err     error
	got     []llms.MessageContent
}

func (s *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	s.got = messages
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.content}}}, nil
}

func (s *fakeModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return s.content, s.err
}

func TestParseScores(t *testing.T) {
	scores, err := ParseScores("```json\n{\"price_change_pct\": 7.5, \"engagement_pct\": 120, \"volatility\": 0.4}\n```")
	require.NoError(t, err)
	assert.Equal(t, 7.5, scores.PriceChangePct)
	assert.Equal(t, 120.0, scores.EngagementPct)
	assert.Equal(t, 0.4, scores.Volatility)

	_, err = ParseScores("not json")
	assert.Error(t, err)
}

func TestForecastScorer(t *testing.T) {
	model := &fakeModel{content: `{"price_change_pct": 3, "volume_change_pct": 25, "engagement_pct": 80, "projected_mints": 12, "confidence_pct": 55, "volatility": 0.9}`}
	scorer := NewForecastScorerWith(model, "gpt-test", "system prompt")

	scores, err := scorer.Score(context.Background(), &predictor.Features{Title: "Test", ContentType: "image"})
	require.NoError(t, err)
	assert.Equal(t, 25.0, scores.VolumeChangePct)
	assert.Equal(t, ScorerLLM, scorer.Name())

	require.Len(t, model.got, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, model.got[0].Role)
	assert.Contains(t, model.got[1].Parts[0].(llms.TextContent).Text, `"title":"Test"`)
}

func TestForecastScorerErrors(t *testing.T) {
	_, err := NewForecastScorerWith(nil, "", "").Score(context.Background(), &predictor.Features{})
	assert.ErrorIs(t, err, ErrClientNotReady)

	boom := errors.New("rate limited")
	_, err = NewForecastScorerWith(&fakeModel{err: boom}, "", "").Score(context.Background(), &predictor.Features{})
	assert.ErrorIs(t, err, boom)
}
