package ups

import (
	"fmt"
	"time"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/uid"
)

// State is a UPS workitem's Procedure Step State, tag (0074,1000).
type State string

const (
	StateScheduled  State = "SCHEDULED"
	StateInProgress State = "IN PROGRESS"
	StateCompleted  State = "COMPLETED"
	StateCanceled   State = "CANCELED"
)

// transitions enumerates every legal (from, to) pair. Terminal states have
// no entry, so canTransition(Completed, anything) is always false.
var transitions = map[State]map[State]bool{
	StateScheduled:  {StateInProgress: true, StateCanceled: true},
	StateInProgress: {StateCompleted: true, StateCanceled: true},
}

// CanTransition reports whether moving from one state to another is legal
// per the workitem state diagram (PS3.4 CC.1.4). Terminal states
// (Completed, Canceled) accept no outgoing transition.
func CanTransition(from, to State) bool {
	return transitions[from][to]
}

// IsTerminal reports whether state has no further legal transitions.
func IsTerminal(s State) bool {
	return s == StateCompleted || s == StateCanceled
}

// Priority is a workitem's scheduling priority, tag (0074,1200).
type Priority string

const (
	PriorityStat   Priority = "STAT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// CancellationInfo records the requester's reason for a cancel request
// placed against a workitem (tags under 0074,0100 "Unified Procedure Step
// Performed Procedure Sequence" are left to callers; this struct captures
// the Request side).
type CancellationInfo struct {
	Reason        string
	Contact       string
	RequestedTime time.Time
}

// Workitem is the in-memory representation of a single UPS instance.
// Attributes is the full DICOM dataset of the workitem (Scheduled
// Procedure Step attributes, Patient/Study references, etc.); the fields
// below are the subset the engine itself needs to enforce invariants and
// are kept in sync with the corresponding tags in Attributes.
type Workitem struct {
	UID            string
	State          State
	Priority       Priority
	TransactionUID string

	Attributes *dicom.DataSet

	CreatedAt     time.Time
	UpdatedAt     time.Time
	Cancellation  *CancellationInfo
}

// NewWorkitem creates a Scheduled workitem. If attrs is nil an empty
// dataset is allocated. A UID is generated when none is supplied, mirroring
// how an SCP assigns instance UIDs on N-CREATE / POST when the caller omits
// one.
func NewWorkitem(workitemUID string, priority Priority, attrs *dicom.DataSet) *Workitem {
	if workitemUID == "" {
		workitemUID = uid.Generate()
	}
	if attrs == nil {
		attrs = dicom.NewDataSet()
	}
	now := time.Now()
	return &Workitem{
		UID:        workitemUID,
		State:      StateScheduled,
		Priority:   priority,
		Attributes: attrs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ErrInvalidTransition is returned when a requested state change is not in
// the legal transition table.
type ErrInvalidTransition struct {
	From, To State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid UPS state transition %s -> %s", e.From, e.To)
}

// ErrTransactionUIDMismatch is returned when a state-change request to
// Completed/Canceled carries a transactionUID different from the one
// recorded when the workitem entered InProgress.
type ErrTransactionUIDMismatch struct {
	Expected, Got string
}

func (e *ErrTransactionUIDMismatch) Error() string {
	return fmt.Sprintf("transaction UID mismatch: expected %q, got %q", e.Expected, e.Got)
}

// ErrTransactionUIDRequired is returned when a Scheduled->InProgress
// request does not supply a transactionUID.
var ErrTransactionUIDRequired = fmt.Errorf("transactionUID is required to enter IN PROGRESS")

// applyTransition validates and performs a state change in place. Callers
// (the Store implementation) are responsible for holding whatever lock
// guards the workitem while calling this so the check-then-set is atomic.
func (w *Workitem) applyTransition(target State, transactionUID string) error {
	if w.State == target && w.State != StateInProgress {
		// Idempotent re-application of a terminal state is allowed only
		// when the transaction UID matches; non-terminal same-state
		// requests are simply rejected as "not a transition".
		if IsTerminal(w.State) {
			if w.TransactionUID != transactionUID {
				return &ErrTransactionUIDMismatch{Expected: w.TransactionUID, Got: transactionUID}
			}
			return nil
		}
	}

	if !CanTransition(w.State, target) {
		return &ErrInvalidTransition{From: w.State, To: target}
	}

	switch target {
	case StateInProgress:
		if transactionUID == "" {
			return ErrTransactionUIDRequired
		}
		w.TransactionUID = transactionUID
	case StateCompleted, StateCanceled:
		if w.State == StateInProgress {
			if transactionUID != w.TransactionUID {
				return &ErrTransactionUIDMismatch{Expected: w.TransactionUID, Got: transactionUID}
			}
		}
	}

	w.State = target
	w.UpdatedAt = time.Now()
	return nil
}

// Clone returns a deep-enough copy for safe handoff outside the store's
// lock: the Attributes dataset is copied, scalar fields are copied by value.
func (w *Workitem) Clone() *Workitem {
	clone := *w
	clone.Attributes = w.Attributes.Copy()
	if w.Cancellation != nil {
		c := *w.Cancellation
		clone.Cancellation = &c
	}
	return &clone
}
