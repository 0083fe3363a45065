package panel

import (
	"sync"
	"time"
)

// Factory builds the Panel of a manager on first use.
type Factory func(managerID, token string) *Panel

type session struct {
	panel    *Panel
	token    string
	lastSeen time.Time
}

// Registry keeps one Panel per manager.  Sessions idle for longer than the
// configured timeout are closed by Sweep.
type Registry struct {
	factory Factory
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry returns an empty Registry.
func NewRegistry(factory Factory, idle time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		factory:  factory,
		idle:     idle,
		now:      now,
		sessions: make(map[string]*session),
	}
}

// Get returns the manager's Panel, creating it when needed.  A changed host
// token is forwarded to the existing panel.
func (r *Registry) Get(managerID, token string) *Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[managerID]
	if !ok {
		s = &session{panel: r.factory(managerID, token), token: token}
		r.sessions[managerID] = s
	} else if s.token != token {
		s.token = token
		s.panel.SetToken(token)
	}
	s.lastSeen = r.now()
	return s.panel
}

// Sweep closes and forgets idle sessions and reports how many were dropped.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			s.panel.Close()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
