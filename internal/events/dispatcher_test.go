package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventIssueCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventIssueAssigned, func(_ context.Context, e Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueCreated, IssueID: "abc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].IssueID)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var called bool
	d.Subscribe(EventIssueAssigned, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventIssueAssigned, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueAssigned})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventIssueCreated}))
}
