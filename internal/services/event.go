package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/repos"
	"github.com/learnhub/lms-backend/internal/types"
)

// EventService appends audit rows for notable user actions. Recording is
// best effort: a failed insert is logged and never fails the caller.
type EventService interface {
	Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, payload map[string]any)
}

type eventService struct {
	log    *logger.Logger
	events repos.UserEventRepo
}

func NewEventService(log *logger.Logger, events repos.UserEventRepo) EventService {
	return &eventService{
		log:    log.With("service", "EventService"),
		events: events,
	}
}

func (es *eventService) Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, payload map[string]any) {
	var body datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			es.log.Warn("failed to marshal event payload", "action", action, "error", err)
			return
		}
		body = datatypes.JSON(raw)
	}
	event := &types.UserEvent{
		ID:      uuid.New(),
		UserID:  userID,
		Action:  action,
		Payload: body,
	}
	if err := es.events.Create(ctx, tx, event); err != nil {
		es.log.Warn("failed to record user event", "action", action, "user_id", userID, "error", err)
	}
}
