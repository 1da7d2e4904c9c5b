package sim

import "fmt"

// Server is a finite pool of concurrent processing slots. Admission is
// immediate-reject on full: there is no backlog beyond the slots themselves.
//
// All methods must be called from the simulation goroutine.
type Server struct {
	capacity  int
	active    int
	dropped   int
	load      float64 // percentage, recomputed on every completion
	admission AdmissionPolicy
}

// NewServer creates a server with capacity slots. A nil admission policy
// admits everything. Panics if capacity < 1.
func NewServer(capacity int, admission AdmissionPolicy) *Server {
	if capacity < 1 {
		panic(fmt.Sprintf("NewServer: capacity must be >= 1, got %d", capacity))
	}
	if admission == nil {
		admission = &AlwaysAdmit{}
	}
	return &Server{
		capacity:  capacity,
		admission: admission,
	}
}

// Admit runs the admission policy and then tries to take a slot.
// On success the request moves to processing and holds one slot until
// Complete. On failure the dropped counter grows and the request is marked
// dropped with the reason.
func (s *Server) Admit(req *Request, now int64) bool {
	if ok, reason := s.admission.Admit(req, now); !ok {
		s.drop(req, reason)
		return false
	}
	if s.active >= s.capacity {
		s.drop(req, DropCapacity)
		return false
	}
	s.active++
	req.State = StateProcessing
	return true
}

// Complete measures load while req still holds its slot, then releases the
// slot. It returns the new load percentage.
// Panics if req is not processing.
func (s *Server) Complete(req *Request) float64 {
	if req.State != StateProcessing {
		panic(fmt.Sprintf("Server.Complete: request %s is %s, not processing", req.ID, req.State))
	}
	s.load = loadPercent(s.active, s.capacity)
	s.active--
	req.State = StateCompleted
	return s.load
}

// Grow adds n slots and returns the capacity before and after.
func (s *Server) Grow(n int) (from, to int) {
	from = s.capacity
	s.capacity += n
	return from, s.capacity
}

func (s *Server) drop(req *Request, reason DropReason) {
	s.dropped++
	req.State = StateDropped
	req.DropReason = reason
}

// Load returns the load percentage recorded at the last completion.
func (s *Server) Load() float64 { return s.load }

// Utilization returns the instantaneous share of busy slots as a percentage.
func (s *Server) Utilization() float64 { return loadPercent(s.active, s.capacity) }

// Dropped returns the cumulative number of dropped requests.
func (s *Server) Dropped() int { return s.dropped }

// Capacity returns the current number of slots.
func (s *Server) Capacity() int { return s.capacity }

// Active returns the number of busy slots.
func (s *Server) Active() int { return s.active }

// Admission returns the server's admission policy.
func (s *Server) Admission() AdmissionPolicy { return s.admission }

// loadPercent is 100·active/capacity clamped to [0, 100].
func loadPercent(active, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return min(100, max(0, 100*float64(active)/float64(capacity)))
}
