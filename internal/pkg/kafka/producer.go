package kafka

import (
	"Mintora/internal/api/config"
	"Mintora/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const traceHeader = "X-Trace-ID"

// Producer 内容事件生产者
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg *config.Config) (*Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return NewProducerWith(p, cfg.KafkaContentProducer.Topic), nil
}

func NewProducerWith(p sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: p, topic: topic}
}

// Publish 以 key 分区发送 JSON 事件，并透传 trace_id
func (s *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	if traceID := logger.TraceIDFrom(ctx); traceID != "" {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(traceHeader), Value: []byte(traceID)}}
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send to topic %s", s.topic)
	}
	log.DebugContext(ctx, "kafka event sent", "topic", s.topic, "key", key, "partition", partition, "offset", offset)
	return nil
}

func (s *Producer) Close() error {
	return s.producer.Close()
}
