package ups_test

import (
	"context"
	"testing"

	"github.com/codeninja55/go-radx/ups"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_CreateAndGet(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	w := ups.NewWorkitem("1.2.840.10.1", ups.PriorityStat, nil)
	require.NoError(t, store.Create(t.Context(), w))

	got, err := store.Get(t.Context(), w.UID)
	require.NoError(t, err)
	assert.Equal(t, w.UID, got.UID)
	assert.Equal(t, ups.PriorityStat, got.Priority)
}

func TestInMemoryStore_CreateDuplicate(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	w := ups.NewWorkitem("1.2.840.10.2", ups.PriorityLow, nil)
	require.NoError(t, store.Create(t.Context(), w))

	err := store.Create(t.Context(), ups.NewWorkitem(w.UID, ups.PriorityLow, nil))
	require.Error(t, err)
	var exists *ups.ErrAlreadyExists
	require.ErrorAs(t, err, &exists)
}

func TestInMemoryStore_GetMissing(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	_, err := store.Get(t.Context(), "does-not-exist")
	require.Error(t, err)
	var notFound *ups.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestInMemoryStore_Search_FiltersAndOrdersByUID(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	require.NoError(t, store.Create(t.Context(), ups.NewWorkitem("1.2.3", ups.PriorityHigh, nil)))
	require.NoError(t, store.Create(t.Context(), ups.NewWorkitem("1.2.1", ups.PriorityHigh, nil)))
	require.NoError(t, store.Create(t.Context(), ups.NewWorkitem("1.2.2", ups.PriorityLow, nil)))

	results, err := store.Search(t.Context(), ups.Query{Priority: ups.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1.2.1", results[0].UID)
	assert.Equal(t, "1.2.3", results[1].UID)
}

func TestInMemoryStore_Search_LimitOffset(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	for _, uid := range []string{"1.2.1", "1.2.2", "1.2.3"} {
		require.NoError(t, store.Create(t.Context(), ups.NewWorkitem(uid, ups.PriorityLow, nil)))
	}

	results, err := store.Search(t.Context(), ups.Query{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1.2.2", results[0].UID)
}

func TestInMemoryStore_RequestCancel_RejectsTerminal(t *testing.T) {
	store := ups.NewInMemoryStore(nil)
	w := ups.NewWorkitem("1.2.9", ups.PriorityLow, nil)
	require.NoError(t, store.Create(t.Context(), w))
	_, err := store.ChangeState(t.Context(), w.UID, ups.StateCanceled, "")
	require.NoError(t, err)

	_, err = store.RequestCancel(t.Context(), w.UID, &ups.CancellationInfo{Reason: "too late"})
	require.Error(t, err)
}

func TestInMemoryStore_Delete_BlockedByDeletionLock(t *testing.T) {
	subs := ups.NewSubscriptionStore()
	subs.Subscribe(ups.Subscription{SubscriberID: "STATION1", AETitle: "STATION1", DeletionLock: true})

	dispatcher := ups.NewDispatcher(subs, func(ctx context.Context, sub ups.Subscription, evt ups.Event) error {
		return nil
	}, ups.DispatcherConfig{})
	defer dispatcher.Stop()

	store := ups.NewInMemoryStore(dispatcher)
	w := ups.NewWorkitem("1.2.10", ups.PriorityLow, nil)
	require.NoError(t, store.Create(t.Context(), w))

	err := store.Delete(t.Context(), w.UID)
	require.Error(t, err)

	subs.Unsubscribe("", "STATION1")
	assert.NoError(t, store.Delete(t.Context(), w.UID))
}
