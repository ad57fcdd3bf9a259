package ups

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/codeninja55/go-radx/audit"
	"github.com/codeninja55/go-radx/dicom"
)

func timeNow() time.Time { return time.Now() }

// ErrNotFound is returned when a workitem UID has no matching record.
type ErrNotFound struct {
	UID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("workitem %s not found", e.UID)
}

// ErrAlreadyExists is returned by Create when the UID is already in use.
type ErrAlreadyExists struct {
	UID string
}

func (e *ErrAlreadyExists) Error() string {
	return fmt.Sprintf("workitem %s already exists", e.UID)
}

// Query is a coarse filter over the workitem collection. It mirrors the
// subset of PS3.18 §11.2 search parameters this toolkit supports natively;
// callers needing full matching semantics can post-filter the result.
//
// The source standard does not mandate a stable ordering across paginated
// responses; this store documents its own choice (ascending UID) rather
// than guess at one (see SPEC_FULL.md Open Questions).
type Query struct {
	State    State
	Priority Priority
	Limit    int
	Offset   int
}

// Patch carries the mutable subset of workitem attributes an UPDATE
// transaction (PUT /workitems/{uid}) is allowed to change; state and
// transactionUID moves go through ChangeState instead.
type Patch struct {
	Merge func(attrs *dicom.DataSet) error
}

// Store is the persistence boundary for workitems. The spec calls for a
// pluggable store so a PACS can back it with whatever database it already
// runs; this package ships InMemoryStore for tests, embedding, and small
// deployments.
type Store interface {
	Create(ctx context.Context, w *Workitem) error
	Get(ctx context.Context, workitemUID string) (*Workitem, error)
	Search(ctx context.Context, q Query) ([]*Workitem, error)
	Update(ctx context.Context, workitemUID string, patch Patch) (*Workitem, error)
	ChangeState(ctx context.Context, workitemUID string, target State, transactionUID string) (*Workitem, error)
	RequestCancel(ctx context.Context, workitemUID string, info *CancellationInfo) (*Workitem, error)
	Delete(ctx context.Context, workitemUID string) error
}

// InMemoryStore is a mutex-protected, single-process Store. Every
// state-changing method is atomic with respect to other calls on the same
// store, and the associated Dispatcher (if any) observes events in the
// same order the corresponding changes commit — both are invariants the
// spec requires of the UPS engine regardless of backing storage.
type InMemoryStore struct {
	mu         sync.Mutex
	workitems  map[string]*Workitem
	dispatcher *Dispatcher

	// AuditLog, if set, receives one audit.Event per attempted state
	// transition (including rejected ones, e.g. a transaction UID
	// mismatch). Nil disables auditing.
	AuditLog *audit.Logger
}

// NewInMemoryStore creates an empty store. dispatcher may be nil, in which
// case state changes commit without emitting events (useful for tests that
// only exercise the state machine).
func NewInMemoryStore(dispatcher *Dispatcher) *InMemoryStore {
	return &InMemoryStore{
		workitems:  make(map[string]*Workitem),
		dispatcher: dispatcher,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, w *Workitem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workitems[w.UID]; exists {
		return &ErrAlreadyExists{UID: w.UID}
	}
	s.workitems[w.UID] = w.Clone()

	s.emit(ctx, Event{
		Type:        EventAssigned,
		WorkitemUID: w.UID,
		Payload:     map[string]any{"state": string(w.State)},
	})
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, workitemUID string) (*Workitem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workitems[workitemUID]
	if !ok {
		return nil, &ErrNotFound{UID: workitemUID}
	}
	return w.Clone(), nil
}

func (s *InMemoryStore) Search(ctx context.Context, q Query) ([]*Workitem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Workitem
	for _, w := range s.workitems {
		if q.State != "" && w.State != q.State {
			continue
		}
		if q.Priority != "" && w.Priority != q.Priority {
			continue
		}
		matched = append(matched, w.Clone())
	}

	// Deterministic, documented ordering: ascending workitem UID.
	sort.Slice(matched, func(i, j int) bool { return matched[i].UID < matched[j].UID })

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *InMemoryStore) Update(ctx context.Context, workitemUID string, patch Patch) (*Workitem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workitems[workitemUID]
	if !ok {
		return nil, &ErrNotFound{UID: workitemUID}
	}
	if IsTerminal(w.State) {
		return nil, &ErrInvalidTransition{From: w.State, To: w.State}
	}
	if patch.Merge != nil {
		if err := patch.Merge(w.Attributes); err != nil {
			return nil, err
		}
	}
	w.UpdatedAt = timeNow()

	s.emit(ctx, Event{Type: EventStateReport, WorkitemUID: workitemUID, Payload: map[string]any{"updated": true}})
	return w.Clone(), nil
}

func (s *InMemoryStore) ChangeState(ctx context.Context, workitemUID string, target State, transactionUID string) (*Workitem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workitems[workitemUID]
	if !ok {
		return nil, &ErrNotFound{UID: workitemUID}
	}

	fromState := w.State
	if err := w.applyTransition(target, transactionUID); err != nil {
		s.logStateChange(audit.OutcomeDenied, workitemUID, string(fromState), string(target), transactionUID)
		return nil, err
	}
	s.logStateChange(audit.OutcomeSuccess, workitemUID, string(fromState), string(target), transactionUID)

	evtType := EventStateReport
	switch target {
	case StateCompleted:
		evtType = EventCompleted
	case StateCanceled:
		evtType = EventCanceled
	}

	s.emit(ctx, Event{
		Type:           evtType,
		WorkitemUID:    workitemUID,
		TransactionUID: w.TransactionUID,
		Payload:        map[string]any{"state": string(w.State)},
	})

	return w.Clone(), nil
}

func (s *InMemoryStore) RequestCancel(ctx context.Context, workitemUID string, info *CancellationInfo) (*Workitem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workitems[workitemUID]
	if !ok {
		return nil, &ErrNotFound{UID: workitemUID}
	}
	if IsTerminal(w.State) {
		return nil, &ErrInvalidTransition{From: w.State, To: StateCanceled}
	}
	w.Cancellation = info
	w.UpdatedAt = timeNow()

	s.emit(ctx, Event{
		Type:        EventCancelRequested,
		WorkitemUID: workitemUID,
		Payload:     map[string]any{"reason": info.Reason},
	})
	return w.Clone(), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, workitemUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workitems[workitemUID]; !ok {
		return &ErrNotFound{UID: workitemUID}
	}
	if s.dispatcher != nil && s.dispatcher.HasDeletionLock(workitemUID) {
		return fmt.Errorf("workitem %s has an active deletion lock", workitemUID)
	}
	delete(s.workitems, workitemUID)
	return nil
}

// logStateChange appends a UPS state-transition attempt to the audit log.
func (s *InMemoryStore) logStateChange(outcome audit.Outcome, workitemUID, from, to, transactionUID string) {
	if s.AuditLog == nil {
		return
	}
	_ = s.AuditLog.Log(audit.UPSStateChange(outcome, workitemUID, "", from, to, transactionUID))
}

// emit forwards an event to the dispatcher, if one is attached, within the
// same critical section that committed the underlying state change.
func (s *InMemoryStore) emit(ctx context.Context, evt Event) {
	if s.dispatcher == nil {
		return
	}
	evt.Timestamp = timeNow()
	s.dispatcher.Publish(ctx, evt)
}
