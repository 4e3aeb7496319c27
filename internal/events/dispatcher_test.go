package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reported, escalated int
	d.Subscribe(EventIssueReported, func(context.Context, Event) error {
		reported++
		return nil
	})
	d.Subscribe(EventIssueEscalated, func(context.Context, Event) error {
		escalated++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventIssueReported}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if reported != 1 || escalated != 0 {
		t.Errorf("reported=%d escalated=%d, want 1/0", reported, escalated)
	}
}

func TestDispatcherMultipleHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	for i := 0; i < 3; i++ {
		d.Subscribe(EventIssueCommented, func(context.Context, Event) error {
			calls++
			return nil
		})
	}
	if err := d.Publish(context.Background(), Event{Type: EventIssueCommented}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDispatcherHandlerErrorDoesNotBlock(t *testing.T) {
	d := NewInMemoryDispatcher()

	var second bool
	d.Subscribe(EventIssueAssigned, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventIssueAssigned, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventIssueAssigned}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !second {
		t.Error("later handler not invoked after earlier error")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventIssueStatusChanged}); err != nil {
		t.Errorf("Publish without subscribers: %v", err)
	}
}
