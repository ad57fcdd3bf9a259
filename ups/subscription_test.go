package ups_test

import (
	"testing"

	"github.com/codeninja55/go-radx/ups"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStore_MatchingSubscriptions_ScopedAndGlobal(t *testing.T) {
	store := ups.NewSubscriptionStore()
	store.Subscribe(ups.Subscription{SubscriberID: "A", AETitle: "A", WorkitemUID: "1.2.3"})
	store.Subscribe(ups.Subscription{SubscriberID: "B", AETitle: "B"}) // global

	matches := store.MatchingSubscriptions(ups.Event{Type: ups.EventStateReport, WorkitemUID: "1.2.3"})
	assert.Len(t, matches, 2)

	matches = store.MatchingSubscriptions(ups.Event{Type: ups.EventStateReport, WorkitemUID: "9.9.9"})
	assert.Len(t, matches, 1)
	assert.Equal(t, "B", matches[0].SubscriberID)
}

func TestSubscriptionStore_EventFilter(t *testing.T) {
	store := ups.NewSubscriptionStore()
	store.Subscribe(ups.Subscription{
		SubscriberID: "A", AETitle: "A", WorkitemUID: "1.2.3",
		EventFilter: []ups.EventType{ups.EventCompleted},
	})

	matches := store.MatchingSubscriptions(ups.Event{Type: ups.EventStateReport, WorkitemUID: "1.2.3"})
	assert.Empty(t, matches)

	matches = store.MatchingSubscriptions(ups.Event{Type: ups.EventCompleted, WorkitemUID: "1.2.3"})
	assert.Len(t, matches, 1)
}

func TestSubscriptionStore_SuspendedSubscriptionsDoNotMatch(t *testing.T) {
	store := ups.NewSubscriptionStore()
	store.Subscribe(ups.Subscription{SubscriberID: "A", AETitle: "A", WorkitemUID: "1.2.3"})
	require := assert.New(t)
	require.True(store.Suspend("1.2.3", "A", true))

	matches := store.MatchingSubscriptions(ups.Event{Type: ups.EventStateReport, WorkitemUID: "1.2.3"})
	require.Empty(matches)
}

func TestSubscriptionStore_Unsubscribe_IsIdempotent(t *testing.T) {
	store := ups.NewSubscriptionStore()
	store.Unsubscribe("1.2.3", "nonexistent") // must not panic
	store.Subscribe(ups.Subscription{SubscriberID: "A", AETitle: "A", WorkitemUID: "1.2.3"})
	store.Unsubscribe("1.2.3", "A")
	store.Unsubscribe("1.2.3", "A")
	assert.Empty(t, store.MatchingSubscriptions(ups.Event{WorkitemUID: "1.2.3"}))
}

func TestSubscriptionStore_HasDeletionLock(t *testing.T) {
	store := ups.NewSubscriptionStore()
	assert.False(t, store.HasDeletionLock("1.2.3"))

	store.Subscribe(ups.Subscription{SubscriberID: "A", AETitle: "A", WorkitemUID: "1.2.3", DeletionLock: true})
	assert.True(t, store.HasDeletionLock("1.2.3"))
	assert.False(t, store.HasDeletionLock("9.9.9"))

	store.Subscribe(ups.Subscription{SubscriberID: "B", AETitle: "B", DeletionLock: true})
	assert.True(t, store.HasDeletionLock("9.9.9"))
}
