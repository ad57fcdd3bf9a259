package ups

import "sync"

// Subscription represents a subscriber's interest in workitem events, as
// created by POST /workitems/{uid}/subscribers/{aeTitle} (or the global
// form targeting /workitems/1.2.840.10008.5.1.4.34.5/subscribers/{aeTitle}).
type Subscription struct {
	SubscriberID string
	AETitle      string
	WorkitemUID  string // empty means global: every workitem
	DeletionLock bool
	Suspended    bool
	EventFilter  []EventType // nil/empty means all event types
}

func (s Subscription) isGlobal() bool { return s.WorkitemUID == "" }

func (s Subscription) wantsEventType(t EventType) bool {
	if len(s.EventFilter) == 0 {
		return true
	}
	for _, want := range s.EventFilter {
		if want == t {
			return true
		}
	}
	return false
}

// subscriptionKey identifies a subscription by (workitem scope, subscriber).
type subscriptionKey struct {
	workitemUID  string
	subscriberID string
}

// SubscriptionStore holds subscriptions in memory, synchronized so
// concurrent subscribe/unsubscribe/match calls are atomic with respect to
// each other.
type SubscriptionStore struct {
	mu   sync.Mutex
	subs map[subscriptionKey]Subscription
}

// NewSubscriptionStore creates an empty subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[subscriptionKey]Subscription)}
}

// Subscribe creates or replaces a subscription. Re-subscribing the same
// (workitem, subscriber) pair updates its deletion lock / filter in place.
func (s *SubscriptionStore) Subscribe(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[subscriptionKey{workitemUID: sub.WorkitemUID, subscriberID: sub.SubscriberID}] = sub
}

// Unsubscribe removes a subscription. Removing one that does not exist is
// a no-op that returns successfully, matching the idempotent-unsubscribe
// invariant.
func (s *SubscriptionStore) Unsubscribe(workitemUID, subscriberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, subscriptionKey{workitemUID: workitemUID, subscriberID: subscriberID})
}

// Suspend toggles the Suspended flag on an existing subscription. Returns
// false if no such subscription exists.
func (s *SubscriptionStore) Suspend(workitemUID, subscriberID string, suspended bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subscriptionKey{workitemUID: workitemUID, subscriberID: subscriberID}
	sub, ok := s.subs[key]
	if !ok {
		return false
	}
	sub.Suspended = suspended
	s.subs[key] = sub
	return true
}

// MatchingSubscriptions returns every non-suspended subscription interested
// in evt: subscriptions scoped to evt.WorkitemUID, plus every global
// subscription, filtered by each subscription's event-type allow-list.
func (s *SubscriptionStore) MatchingSubscriptions(evt Event) []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []Subscription
	for _, sub := range s.subs {
		if sub.Suspended {
			continue
		}
		if !sub.isGlobal() && sub.WorkitemUID != evt.WorkitemUID {
			continue
		}
		if !sub.wantsEventType(evt.Type) {
			continue
		}
		matches = append(matches, sub)
	}
	return matches
}

// HasDeletionLock reports whether any non-suspended subscription with
// DeletionLock=true guards workitemUID, either directly or via a global
// subscription.
func (s *SubscriptionStore) HasDeletionLock(workitemUID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.Suspended || !sub.DeletionLock {
			continue
		}
		if sub.isGlobal() || sub.WorkitemUID == workitemUID {
			return true
		}
	}
	return false
}
