package kafka

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/logger"
	"Mintora/internal/service"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	calls atomic.Int32
	err   error
}

func (s *fakeRecorder) RecordMint(_ context.Context, id uint64, _ string) (*model.ContentRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &model.ContentRecord{ID: id, MintCount: 1}, nil
}

type fakeUpdater struct {
	status string
	err    error
}

func (s *fakeUpdater) UpdateStatus(_ context.Context, id uint64, status string) (*model.ContentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.status = status
	return &model.ContentRecord{ID: id, Status: status}, nil
}

func message(t *testing.T, v any) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "test", Value: data}
}

func TestMintHandlerLogic(t *testing.T) {
	ctx := context.Background()

	rec := &fakeRecorder{}
	h := NewMintHandler(rec)
	require.NoError(t, h.logic(ctx, message(t, MintEvent{ContentID: 1, TxHash: "0xabc"})))
	assert.Equal(t, int32(1), rec.calls.Load())

	require.NoError(t, h.logic(ctx, message(t, MintEvent{ContentID: 0, TxHash: "0xabc"})))
	assert.Equal(t, int32(1), rec.calls.Load())

	for _, skip := range []error{service.ErrDuplicateMint, service.ErrNotFound} {
		h = NewMintHandler(&fakeRecorder{err: skip})
		assert.NoError(t, h.logic(ctx, message(t, MintEvent{ContentID: 1, TxHash: "0xabc"})))
	}

	transient := errors.New("db down")
	h = NewMintHandler(&fakeRecorder{err: transient})
	assert.ErrorIs(t, h.logic(ctx, message(t, MintEvent{ContentID: 1, TxHash: "0xabc"})), transient)

	err := h.logic(ctx, &sarama.ConsumerMessage{Value: []byte("{not json")})
	assert.ErrorIs(t, err, ErrPoisonMessage)
}

func TestModerationHandlerLogic(t *testing.T) {
	ctx := context.Background()

	up := &fakeUpdater{}
	h := NewModerationHandler(up)
	require.NoError(t, h.logic(ctx, message(t, ModerationDecision{ContentID: 3, Status: model.ContentStatusApproved})))
	assert.Equal(t, model.ContentStatusApproved, up.status)

	h = NewModerationHandler(&fakeUpdater{err: service.ErrInvalidTransition})
	assert.NoError(t, h.logic(ctx, message(t, ModerationDecision{ContentID: 3, Status: model.ContentStatusRejected})))

	transient := errors.New("db down")
	h = NewModerationHandler(&fakeUpdater{err: transient})
	assert.ErrorIs(t, h.logic(ctx, message(t, ModerationDecision{ContentID: 3, Status: model.ContentStatusRejected})), transient)
}

func TestHandleWithRetryDropsPoison(t *testing.T) {
	var calls int
	handleWithRetry(context.Background(), &sarama.ConsumerMessage{}, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		return ErrPoisonMessage
	})
	assert.Equal(t, 1, calls)
}

func TestHandleWithRetryRetriesTransient(t *testing.T) {
	var calls int
	handleWithRetry(context.Background(), &sarama.ConsumerMessage{}, func(context.Context, *sarama.ConsumerMessage) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.Equal(t, 3, calls)
}

func TestMessageContextTraceID(t *testing.T) {
	msg := &sarama.ConsumerMessage{Headers: []*sarama.RecordHeader{{Key: []byte(traceHeader), Value: []byte("trace-1")}}}
	assert.Equal(t, "trace-1", logger.TraceIDFrom(messageContext(context.Background(), msg)))

	generated := logger.TraceIDFrom(messageContext(context.Background(), &sarama.ConsumerMessage{}))
	assert.NotEmpty(t, generated)
}

func TestProducerPublish(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev map[string]any
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev["type"] != service.EventContentPublished {
			return errors.New("unexpected event type")
		}
		return nil
	})
	p := NewProducerWith(mp, "content-events")

	ctx := logger.WithTraceID(context.Background(), "trace-2")
	err := p.Publish(ctx, "7", &service.ContentEvent{Type: service.EventContentPublished, ContentID: 7})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducerPublishError(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	p := NewProducerWith(mp, "content-events")

	err := p.Publish(context.Background(), "7", map[string]string{"type": "x"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
