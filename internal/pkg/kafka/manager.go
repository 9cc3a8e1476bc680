package kafka

import (
	"Mintora/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	mintConsumer sarama.ConsumerGroup
	mintHandler  sarama.ConsumerGroupHandler

	moderationConsumer sarama.ConsumerGroup
	moderationHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, mints MintRecorder, moderation StatusUpdater) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	mintConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaMintConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	moderationConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaModerationConsumer.GroupID, saramaCfg)
	if err != nil {
		_ = mintConsumer.Close()
		return nil, err
	}

	return &ConsumerManager{
		mintConsumer:       mintConsumer,
		mintHandler:        NewMintHandler(mints),
		moderationConsumer: moderationConsumer,
		moderationHandler:  NewModerationHandler(moderation),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go m.consume(ctx, "Mint", cfg.KafkaMintConsumer.Topic, m.mintConsumer, m.mintHandler)
	go m.consume(ctx, "Moderation", cfg.KafkaModerationConsumer.Topic, m.moderationConsumer, m.moderationHandler)

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.mintConsumer.Close(); err != nil {
		log.Error("Failed to close mint consumer", "err", err)
	}
	if err := m.moderationConsumer.Close(); err != nil {
		log.Error("Failed to close moderation consumer", "err", err)
	}
	return nil
}

func (m *ConsumerManager) consume(ctx context.Context, name, topic string, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler) {
	log.Info(name+" consumer started", "topic", topic)
	go func() {
		for err := range group.Errors() {
			log.Error(name+" consumer error", "err", err)
		}
	}()
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			log.Error("Error from consumer", "consumer", name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
