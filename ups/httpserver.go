package ups

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
)

// validate checks the request fields this server extracts out of the
// DICOM-JSON body before handing them to the Store, rejecting malformed
// UPS-RS requests (PS3.18 §11.5) before they reach the state machine.
var validate = validator.New()

// stateChangeRequest is the subset of a PUT .../state request body this
// server validates before handing it to the Store: target must be one of
// the four workitem states. The transactionUID presence/match rules
// (required to enter IN PROGRESS, must match when leaving it) depend on
// the workitem's current state, so they stay enforced by
// Workitem.applyTransition rather than being duplicated here.
type stateChangeRequest struct {
	Target string `validate:"required,oneof=SCHEDULED 'IN PROGRESS' COMPLETED CANCELED"`
}

// Server exposes the UPS-RS (PS3.18) HTTP surface over a Store and
// SubscriptionStore. It deliberately uses net/http's pattern-matching
// ServeMux rather than a third-party router: nothing in the reference
// corpus wires an HTTP router to working handlers (see DESIGN.md), and the
// stdlib mux is sufficient for this surface's small, static route table.
type Server struct {
	store Store
	subs  *SubscriptionStore
	log   *slog.Logger
}

// NewServer creates a UPS-RS HTTP server backed by store and subs.
func NewServer(store Store, subs *SubscriptionStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, subs: subs, log: logger}
}

// Handler builds the net/http.Handler implementing the UPS-RS route table
// described in SPEC_FULL.md §6.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workitems", s.handleSearch)
	mux.HandleFunc("POST /workitems", s.handleCreate)
	mux.HandleFunc("GET /workitems/{uid}", s.handleGet)
	mux.HandleFunc("POST /workitems/{uid}", s.handleCreate)
	mux.HandleFunc("PUT /workitems/{uid}", s.handleUpdate)
	mux.HandleFunc("PUT /workitems/{uid}/state", s.handleChangeState)
	mux.HandleFunc("PUT /workitems/{uid}/cancelrequest", s.handleCancelRequest)
	mux.HandleFunc("POST /workitems/{uid}/subscribers/{aeTitle}", s.handleSubscribe)
	mux.HandleFunc("DELETE /workitems/{uid}/subscribers/{aeTitle}", s.handleUnsubscribe)
	mux.HandleFunc("POST /workitems/{uid}/subscribers/{aeTitle}/suspend", s.handleSuspend)
	return mux
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := Query{
		State:    State(r.URL.Query().Get("state")),
		Priority: Priority(r.URL.Query().Get("priority")),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			q.Limit = n
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			q.Offset = n
		}
	}

	workitems, err := s.store.Search(r.Context(), q)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	objs := make([]json.RawMessage, 0, len(workitems))
	for _, wi := range workitems {
		encoded, err := EncodeDataSet(wi.Attributes)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		objs = append(objs, encoded)
	}

	s.writeJSON(w, http.StatusOK, objs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	wi, err := s.store.Get(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	encoded, err := EncodeDataSet(wi.Attributes)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/dicom+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(encoded)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	attrs, err := DecodeDataSet(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	workitemUID := r.PathValue("uid")
	priority := Priority(attributeString(attrs, tag.New(0x0074, 0x1200)))
	wi := NewWorkitem(workitemUID, priority, attrs)

	if err := s.store.Create(r.Context(), wi); err != nil {
		s.writeStoreError(w, err)
		return
	}

	w.Header().Set("Location", "/workitems/"+wi.UID)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	patchAttrs, err := DecodeDataSet(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	_, err = s.store.Update(r.Context(), uid, Patch{
		Merge: func(attrs *dicom.DataSet) error {
			return attrs.Merge(patchAttrs)
		},
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleChangeState(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	attrs, err := DecodeDataSet(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	target := State(attributeString(attrs, tag.New(0x0074, 0x1000)))
	transactionUID := attributeString(attrs, tag.New(0x0008, 0x1195))

	req := stateChangeRequest{Target: string(target)}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid state change request: %w", err))
		return
	}

	if _, err := s.store.ChangeState(r.Context(), uid, target, transactionUID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	body, _ := readBody(r)

	info := &CancellationInfo{RequestedTime: timeNow()}
	if len(body) > 0 {
		if attrs, err := DecodeDataSet(body); err == nil {
			info.Reason = attributeString(attrs, tag.New(0x0074, 0x1238))
		}
	}

	if _, err := s.store.RequestCancel(r.Context(), uid, info); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	aeTitle := r.PathValue("aeTitle")
	if uid == globalWorkitemUID {
		uid = ""
	}

	deletionLock := r.Header.Get("Deletion-Lock") == "true"
	s.subs.Subscribe(Subscription{
		SubscriberID: aeTitle,
		AETitle:      aeTitle,
		WorkitemUID:  uid,
		DeletionLock: deletionLock,
	})
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	aeTitle := r.PathValue("aeTitle")
	if uid == globalWorkitemUID {
		uid = ""
	}
	s.subs.Unsubscribe(uid, aeTitle)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSuspend(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	aeTitle := r.PathValue("aeTitle")
	if uid == globalWorkitemUID {
		uid = ""
	}
	if !s.subs.Suspend(uid, aeTitle, true) {
		s.writeError(w, http.StatusNotFound, errors.New("subscription not found"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// globalWorkitemUID is the well-known SOP Instance UID UPS-RS clients use
// in the URL path to address the "global" (all-workitems) subscription.
const globalWorkitemUID = "1.2.840.10008.5.1.4.34.5"

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var notFound *ErrNotFound
	var alreadyExists *ErrAlreadyExists
	var invalidTransition *ErrInvalidTransition
	var txMismatch *ErrTransactionUIDMismatch

	switch {
	case errors.As(err, &notFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &alreadyExists):
		s.writeError(w, http.StatusConflict, err)
	case errors.As(err, &invalidTransition), errors.As(err, &txMismatch), errors.Is(err, ErrTransactionUIDRequired):
		s.writeError(w, http.StatusConflict, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("ups-rs request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/dicom+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBody(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}

// attributeString returns the first string value of t in attrs, or "" if
// t is absent or not a string-valued element.
func attributeString(attrs *dicom.DataSet, t tag.Tag) string {
	elem, err := attrs.Get(t)
	if err != nil {
		return ""
	}
	sv, ok := elem.Value().(*value.StringValue)
	if !ok {
		return ""
	}
	strs := sv.Strings()
	if len(strs) == 0 {
		return ""
	}
	return strs[0]
}
