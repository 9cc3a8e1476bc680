package kafka

import (
	"Mintora/internal/model"
	"Mintora/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ModerationDecision 审核服务给出的结论
type ModerationDecision struct {
	ContentID uint64 `json:"contentId"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id uint64, status string) (*model.ContentRecord, error)
}

type ModerationHandler struct {
	updater StatusUpdater
}

func NewModerationHandler(updater StatusUpdater) *ModerationHandler {
	return &ModerationHandler{updater: updater}
}

func (s *ModerationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("moderation consumer setup")
	return nil
}

func (s *ModerationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("moderation consumer cleanup")
	return nil
}

func (s *ModerationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-moderation consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-moderation process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ModerationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	decision, err := decodeMessage[ModerationDecision](msg)
	if err != nil {
		return err
	}

	rec, err := s.updater.UpdateStatus(ctx, decision.ContentID, decision.Status)
	switch {
	case err == nil:
		log.InfoContext(ctx, "moderation decision applied",
			"contentId", decision.ContentID, "status", rec.Status, "reason", decision.Reason)
		return nil
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrValidation):
		log.WarnContext(ctx, "moderation decision rejected, skip",
			"contentId", decision.ContentID, "status", decision.Status, "err", err)
		return nil
	default:
		return err
	}
}
