package kafka

import (
	"Mintora/internal/model"
	"Mintora/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// MintEvent 链上铸造事件
type MintEvent struct {
	ContentID uint64 `json:"contentId"`
	TxHash    string `json:"txHash"`
}

type MintRecorder interface {
	RecordMint(ctx context.Context, id uint64, txHash string) (*model.ContentRecord, error)
}

type MintHandler struct {
	recorder MintRecorder
}

func NewMintHandler(recorder MintRecorder) *MintHandler {
	return &MintHandler{recorder: recorder}
}

func (s *MintHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("mint consumer setup")
	return nil
}

func (s *MintHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("mint consumer cleanup")
	return nil
}

func (s *MintHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-mint consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-mint process batch error", "err", err)
		return err
	}
	return nil
}

func (s *MintHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := decodeMessage[MintEvent](msg)
	if err != nil {
		return err
	}
	if event.ContentID == 0 || event.TxHash == "" {
		log.WarnContext(ctx, "invalid mint event, skip", "contentId", event.ContentID, "txHash", event.TxHash)
		return nil
	}

	rec, err := s.recorder.RecordMint(ctx, event.ContentID, event.TxHash)
	switch {
	case err == nil:
		log.InfoContext(ctx, "mint event applied", "contentId", event.ContentID, "mintCount", rec.MintCount)
		return nil
	case errors.Is(err, service.ErrDuplicateMint):
		log.InfoContext(ctx, "duplicate mint event, skip", "contentId", event.ContentID, "txHash", event.TxHash)
		return nil
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrValidation):
		log.WarnContext(ctx, "mint event rejected, skip", "contentId", event.ContentID, "err", err)
		return nil
	default:
		return err
	}
}
