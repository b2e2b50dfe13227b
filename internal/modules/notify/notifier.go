// README: FCM push notifications for finished vacation plans.
package notify

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/service"
)

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PlanNotifier pushes a data+notification message when a plan is ready.
type PlanNotifier struct {
	sender Sender
	logger *zap.Logger
}

func NewPlanNotifier(sender Sender, logger *zap.Logger) *PlanNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanNotifier{sender: sender, logger: logger}
}

// PlanReady sends the plan summary to deviceToken. The deviceToken must be resolved by the caller.
func (n *PlanNotifier) PlanReady(ctx context.Context, deviceToken string, plan *service.VacationPlan) error {
	if deviceToken == "" {
		return fmt.Errorf("empty device token for plan to %s", plan.Intent.Destination)
	}

	messageID, err := n.sender.Send(ctx, planMessage(deviceToken, plan))
	if err != nil {
		return fmt.Errorf("sending FCM to token %s: %w", deviceToken, err)
	}

	n.logger.Info("Plan notification sent",
		zap.String("destination", plan.Intent.Destination),
		zap.String("message_id", messageID),
	)
	return nil
}

func planMessage(deviceToken string, plan *service.VacationPlan) *messaging.Message {
	vi := plan.Intent
	return &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"type":          "vacation_plan",
			"destination":   vi.Destination,
			"duration_days": strconv.Itoa(vi.DurationDays),
			"theme":         vi.Theme,
			"lodging":       strconv.Itoa(len(plan.Lodging)),
			"restaurants":   strconv.Itoa(len(plan.Restaurants)),
			"attractions":   strconv.Itoa(len(plan.Attractions)),
			"nightlife":     strconv.Itoa(len(plan.Nightlife)),
		},
		Notification: &messaging.Notification{
			Title: "Your trip is planned",
			Body:  fmt.Sprintf("%d days in %s", vi.DurationDays, vi.Destination),
		},
	}
}
