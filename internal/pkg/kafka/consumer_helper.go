package kafka

import (
	"Mintora/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
)

// ErrPoisonMessage 无法解析的消息，记录后跳过，不再重试
var ErrPoisonMessage = errors.New("poison message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				// 清空缓冲区 & 重值定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			ctx := messageContext(session.Context(), m)
			handleWithRetry(ctx, m, logic)
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
}

// handleWithRetry 指数退避重试，解析失败的消息直接丢弃
func handleWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	var retryInterval = 100 * time.Millisecond

	for {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if errors.Is(err, ErrPoisonMessage) {
			log.ErrorContext(ctx, "drop poison message", "topic", m.Topic, "offset", m.Offset, "err", err)
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)
		time.Sleep(retryInterval)

		retryInterval *= 2
		if retryInterval > 5*time.Second {
			retryInterval = 5 * time.Second
		}
	}
}

// messageContext 从消息头恢复 trace_id，没有则生成
func messageContext(ctx context.Context, m *sarama.ConsumerMessage) context.Context {
	for _, h := range m.Headers {
		if h != nil && string(h.Key) == traceHeader && len(h.Value) > 0 {
			return logger.WithTraceID(ctx, string(h.Value))
		}
	}
	return logger.WithTraceID(ctx, uuid.NewString())
}

// decodeMessage 将消息体解析为 T
func decodeMessage[T any](msg *sarama.ConsumerMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(msg.Value, &v); err != nil {
		return nil, errors.Wrapf(ErrPoisonMessage, "unmarshal: %v", err)
	}
	return &v, nil
}
