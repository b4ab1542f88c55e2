package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/questx-lab/quest-engine/pkg/idutil"
	"github.com/questx-lab/quest-engine/pkg/pubsub"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

const (
	EventParticipantJoined       = "participant_joined"
	EventTaskSubmitted           = "task_submitted"
	EventParticipantCompleted    = "participant_completed"
	EventWinnerSelected          = "winner_selected"
	EventParticipantDisqualified = "participant_disqualified"
	EventRewardDistributed       = "reward_distributed"
	EventRewardFailed            = "reward_failed"
)

type QuestEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	QuestID   string         `json:"quest_id"`
	UserID    string         `json:"user_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventPublisher notifies other services about quest changes. Events are
// keyed by quest id so that events of a quest keep their order. Publishing
// never fails the caller.
type EventPublisher struct {
	publisher   pubsub.Publisher
	idGenerator *idutil.Generator
}

func NewEventPublisher(publisher pubsub.Publisher, idGenerator *idutil.Generator) *EventPublisher {
	return &EventPublisher{publisher: publisher, idGenerator: idGenerator}
}

func (p *EventPublisher) Publish(
	ctx context.Context, eventType, questID, userID string, data map[string]any,
) {
	if p == nil || p.publisher == nil {
		return
	}

	event := QuestEvent{
		ID:        p.idGenerator.Generate().String(),
		Type:      eventType,
		QuestID:   questID,
		UserID:    userID,
		Data:      data,
		CreatedAt: time.Now(),
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", eventType, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.EventTopic
	err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(questID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %s of quest %s: %v", eventType, questID, err)
	}
}
