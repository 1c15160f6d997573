// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/pkg/events"
	pktNats "github.com/emiflair/wazhop/pkg/nats" // Renamed to avoid collision
)

// PlanChangedTopic is the in-process topic the referral ledger consumer
// subscribes to.
const PlanChangedTopic = "PLAN_CHANGED"

type IPlanChangePublisher interface {
	PublishPlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) error
}

type planChangePublisher struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher // optional mirror to the external bus
}

func NewPlanChangePublisher(pubSub *gochannel.GoChannel, topicName string, eventPublisher *pktNats.Publisher) IPlanChangePublisher {
	return &planChangePublisher{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
	}
}

func (p *planChangePublisher) PublishPlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) error {
	payload := dto.PlanChangedMessage{
		AccountId:  accountId,
		OldPlan:    string(oldPlan),
		NewPlan:    string(newPlan),
		OccurredAt: time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := p.pubSub.Publish(p.topicName, msg); err != nil {
		return err
	}

	// Mirror to NATS for external consumers (analytics, CRM). Best effort.
	if p.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "PLAN_CHANGED",
			Data: map[string]interface{}{
				"account_id":  accountId,
				"old_plan":    oldPlan,
				"new_plan":    newPlan,
				"occurred_at": payload.OccurredAt,
			},
			OccurredAt: payload.OccurredAt,
		}
		if err := p.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish PLAN_CHANGED event: %v\n", err)
		}
	}

	return nil
}
