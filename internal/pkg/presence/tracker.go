package presence

import (
	"sync"
	"time"
)

// Tracker keeps the process-local map of user -> live connection ids. It is
// constructed at startup and injected wherever presence matters, so it can be
// unit-tested and later swapped for a shared backing store.
//
// Presence is ephemeral: a process restart legitimately resets every user to
// offline until they reconnect. The durable shadow (isOnline/lastActive on
// the user record) is written by the caller on the transitions this type
// reports.
type Tracker struct {
	mu    sync.Mutex
	conns map[string]map[string]struct{} // userID -> set of connection ids
}

func NewTracker() *Tracker {
	return &Tracker{conns: make(map[string]map[string]struct{})}
}

// Connect registers a connection for the user and reports whether this was
// the user's first live connection (the online transition). A second tab does
// not re-announce presence.
func (t *Tracker) Connect(userID, connID string) (becameOnline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.conns[userID]
	if set == nil {
		set = make(map[string]struct{})
		t.conns[userID] = set
	}
	set[connID] = struct{}{}
	return len(set) == 1
}

// Disconnect removes a connection and reports whether the user just lost
// their last one (the offline transition). Unknown ids are ignored.
func (t *Tracker) Disconnect(userID, connID string) (becameOffline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.conns[userID]
	if set == nil {
		return false
	}
	if _, ok := set[connID]; !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(t.conns, userID)
		return true
	}
	return false
}

// Online reports whether the user currently holds at least one connection.
func (t *Tracker) Online(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns[userID]) > 0
}

// Connections returns the number of live connections for the user.
func (t *Tracker) Connections(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns[userID])
}

// MirrorKey is the cache key under which a user's online flag is mirrored so
// sibling instances can answer lookups without a database round trip.
func MirrorKey(userID string) string {
	return "presence:" + userID
}

// StatusChange is the payload broadcast globally when a user's presence flips.
type StatusChange struct {
	UserID     string     `json:"userId"`
	IsOnline   bool       `json:"isOnline"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}
