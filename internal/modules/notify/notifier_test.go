package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
	"github.com/gkatsarova/planzy-sub001/internal/maps"
	"github.com/gkatsarova/planzy-sub001/internal/service"
)

type stubSender struct {
	sent []*messaging.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	s.sent = append(s.sent, m)
	return "projects/planzy/messages/1", s.err
}

func samplePlan() *service.VacationPlan {
	return &service.VacationPlan{
		Intent:      intent.VacationIntent{Destination: "Lisbon", DurationDays: 5, Theme: intent.ThemeBeach},
		Lodging:     []maps.Place{{Name: "Hotel"}},
		Restaurants: []maps.Place{{Name: "A"}, {Name: "B"}},
	}
}

func TestPlanReady(t *testing.T) {
	sender := &stubSender{}
	if err := NewPlanNotifier(sender, nil).PlanReady(context.Background(), "device-1", samplePlan()); err != nil {
		t.Fatalf("PlanReady: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if m.Token != "device-1" {
		t.Errorf("token = %q", m.Token)
	}
	want := map[string]string{
		"type": "vacation_plan", "destination": "Lisbon", "duration_days": "5",
		"theme": "beach", "lodging": "1", "restaurants": "2", "attractions": "0", "nightlife": "0",
	}
	for k, v := range want {
		if m.Data[k] != v {
			t.Errorf("data[%s] = %q, want %q", k, m.Data[k], v)
		}
	}
	if m.Notification == nil || m.Notification.Body != "5 days in Lisbon" {
		t.Errorf("notification = %+v", m.Notification)
	}
}

func TestPlanReady_Errors(t *testing.T) {
	sender := &stubSender{}
	n := NewPlanNotifier(sender, nil)
	if err := n.PlanReady(context.Background(), "", samplePlan()); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent without a token")
	}

	sender.err = errors.New("registration-token-not-registered")
	if err := n.PlanReady(context.Background(), "stale", samplePlan()); err == nil {
		t.Fatalf("expected send error")
	}
}
