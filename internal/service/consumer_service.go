// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains PLAN_CHANGED messages off the in-process bus and
// hands them to the referral ledger.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	referrals IReferralService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	referrals IReferralService,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		referrals: referrals,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PlanChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal plan change message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing plan change for AccountId: %s (%s -> %s)",
		payload.AccountId, payload.OldPlan, payload.NewPlan)

	err := cs.referrals.HandlePlanChange(ctx, payload.AccountId,
		entity.Plan(payload.OldPlan), entity.Plan(payload.NewPlan))
	if err != nil {
		log.Printf("[ERROR] Failed to apply plan change for %s: %v", payload.AccountId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
