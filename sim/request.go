// Defines the Request struct that models one client request in the simulation.
// A request lives for a single admission decision and, if admitted, one slot hold.

package sim

import (
	"fmt"
)

// RequestKind is the traffic role that emitted a request.
type RequestKind string

const (
	KindNormal RequestKind = "normal"
	KindAttack RequestKind = "attack"
)

// RequestState represents the lifecycle state of a request.
type RequestState string

const (
	StatePending    RequestState = "pending"
	StateProcessing RequestState = "processing"
	StateCompleted  RequestState = "completed"
	StateDropped    RequestState = "dropped"
)

// DropReason records why a request was dropped.
type DropReason string

const (
	DropNone        DropReason = ""
	DropRateLimited DropReason = "rate_limited"
	DropCapacity    DropReason = "capacity"
)

// Request models a single request's lifecycle in the simulation.
// Lifecycle: pending → processing → completed, or pending → dropped.
type Request struct {
	ID          string      // Unique identifier for the request
	Kind        RequestKind // normal or attack
	ClientID    string      // Identity the rate limiter keys on
	ArrivalTime int64       // Tick at which the request was emitted

	State      RequestState
	DropReason DropReason // set only when State == StateDropped
}

// Dropped reports whether the request was rejected.
func (req *Request) Dropped() bool {
	return req.State == StateDropped
}

// This method returns a human-readable string representation of a Request.
func (req Request) String() string {
	return fmt.Sprintf("Request: (ID: %s, Kind: %s, Client: %s, State: %s, ArrivalTime: %d)",
		req.ID, req.Kind, req.ClientID, req.State, req.ArrivalTime)
}
