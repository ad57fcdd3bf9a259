package scp

import (
	"context"

	"github.com/codeninja55/go-radx/dimse/dimse"
)

// DefaultEchoHandler provides a simple C-ECHO handler that always returns success
type DefaultEchoHandler struct{}

// HandleEcho implements EchoHandler
func (h *DefaultEchoHandler) HandleEcho(ctx context.Context, req *EchoRequest) *EchoResponse {
	return &EchoResponse{
		Status: dimse.StatusSuccess,
	}
}

// NewDefaultEchoHandler creates a new default echo handler
func NewDefaultEchoHandler() *DefaultEchoHandler {
	return &DefaultEchoHandler{}
}

// EchoHandlerFunc is a function adapter for EchoHandler
type EchoHandlerFunc func(ctx context.Context, req *EchoRequest) *EchoResponse

// HandleEcho implements EchoHandler
func (f EchoHandlerFunc) HandleEcho(ctx context.Context, req *EchoRequest) *EchoResponse {
	return f(ctx, req)
}

// StoreHandlerFunc is a function adapter for StoreHandler
type StoreHandlerFunc func(ctx context.Context, req *StoreRequest) *StoreResponse

// HandleStore implements StoreHandler
func (f StoreHandlerFunc) HandleStore(ctx context.Context, req *StoreRequest) *StoreResponse {
	return f(ctx, req)
}

// FindHandlerFunc is a function adapter for FindHandler
type FindHandlerFunc func(ctx context.Context, req *FindRequest) *FindResponse

// HandleFind implements FindHandler
func (f FindHandlerFunc) HandleFind(ctx context.Context, req *FindRequest) *FindResponse {
	return f(ctx, req)
}

// GetHandlerFunc is a function adapter for GetHandler
type GetHandlerFunc func(ctx context.Context, req *GetRequest) *GetResponse

// HandleGet implements GetHandler
func (f GetHandlerFunc) HandleGet(ctx context.Context, req *GetRequest) *GetResponse {
	return f(ctx, req)
}

// MoveHandlerFunc is a function adapter for MoveHandler
type MoveHandlerFunc func(ctx context.Context, req *MoveRequest) *MoveResponse

// HandleMove implements MoveHandler
func (f MoveHandlerFunc) HandleMove(ctx context.Context, req *MoveRequest) *MoveResponse {
	return f(ctx, req)
}

// NCreateHandlerFunc is a function adapter for NCreateHandler
type NCreateHandlerFunc func(ctx context.Context, req *NCreateRequest) *NCreateResponse

// HandleNCreate implements NCreateHandler
func (f NCreateHandlerFunc) HandleNCreate(ctx context.Context, req *NCreateRequest) *NCreateResponse {
	return f(ctx, req)
}

// NSetHandlerFunc is a function adapter for NSetHandler
type NSetHandlerFunc func(ctx context.Context, req *NSetRequest) *NSetResponse

// HandleNSet implements NSetHandler
func (f NSetHandlerFunc) HandleNSet(ctx context.Context, req *NSetRequest) *NSetResponse {
	return f(ctx, req)
}

// NGetHandlerFunc is a function adapter for NGetHandler
type NGetHandlerFunc func(ctx context.Context, req *NGetRequest) *NGetResponse

// HandleNGet implements NGetHandler
func (f NGetHandlerFunc) HandleNGet(ctx context.Context, req *NGetRequest) *NGetResponse {
	return f(ctx, req)
}

// NActionHandlerFunc is a function adapter for NActionHandler
type NActionHandlerFunc func(ctx context.Context, req *NActionRequest) *NActionResponse

// HandleNAction implements NActionHandler
func (f NActionHandlerFunc) HandleNAction(ctx context.Context, req *NActionRequest) *NActionResponse {
	return f(ctx, req)
}

// NDeleteHandlerFunc is a function adapter for NDeleteHandler
type NDeleteHandlerFunc func(ctx context.Context, req *NDeleteRequest) *NDeleteResponse

// HandleNDelete implements NDeleteHandler
func (f NDeleteHandlerFunc) HandleNDelete(ctx context.Context, req *NDeleteRequest) *NDeleteResponse {
	return f(ctx, req)
}
