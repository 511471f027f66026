package realtime

import (
	"encoding/json"
	"sync"
)

// RoomGlobal is the sentinel room name addressing every live session.
const RoomGlobal = "*"

// envelope is the wire frame for every server-to-client event.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks live websocket sessions and logical rooms (one per conversation,
// one personal room per user) and fans event payloads out to room members.
// A user may hold several concurrent sessions; each session is addressed
// individually and dropped individually when it stalls.
//
// Delivery is best effort: a failed or missing session never fails the caller.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	users        map[string]map[string]*Connection // userID -> sessionID -> connection
	rooms        map[string]map[string]*Connection // room -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of rooms
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]*Connection),
		users:        make(map[string]map[string]*Connection),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and starts its write loop. Multiple sessions
// per user are kept side by side; nothing is evicted.
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	h.sessions[conn.ID] = conn
	userSessions := h.users[conn.UserID]
	if userSessions == nil {
		userSessions = make(map[string]*Connection)
		h.users[conn.UserID] = userSessions
	}
	userSessions[conn.ID] = conn
	h.sessionRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()
}

// Detach removes a connection and its room memberships if still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Join adds the connection to the room.
func (h *Hub) Join(room string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[conn.ID]; !ok {
		return
	}
	members := h.rooms[room]
	if members == nil {
		members = make(map[string]*Connection)
		h.rooms[room] = members
	}
	members[conn.ID] = conn

	memberships := h.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.sessionRooms[conn.ID] = memberships
	}
	memberships[room] = struct{}{}
}

// Leave removes the connection from the room.
func (h *Hub) Leave(room string, conn *Connection) {
	h.mu.Lock()
	h.leaveLocked(room, conn.ID)
	h.mu.Unlock()
}

// Publish encodes {type, data} and delivers it to every session in the given
// rooms, each session at most once even when rooms overlap. RoomGlobal
// addresses all sessions. Returns the number of sessions delivered to.
//
// Publish is the transport side of the broadcast intents produced by the
// application layer.
func (h *Hub) Publish(rooms []string, event string, payload any) int {
	return h.publish(rooms, "", event, payload)
}

// PublishExcept is Publish minus every session belonging to excludeUserID,
// used for relays that must not echo back to the originator (typing).
func (h *Hub) PublishExcept(rooms []string, excludeUserID string, event string, payload any) int {
	return h.publish(rooms, excludeUserID, event, payload)
}

func (h *Hub) publish(rooms []string, excludeUserID string, event string, payload any) int {
	data, err := json.Marshal(envelope{Type: event, Data: payload})
	if err != nil {
		return 0
	}

	h.mu.RLock()
	targets := make(map[string]*Connection)
	for _, room := range rooms {
		if room == RoomGlobal {
			for id, conn := range h.sessions {
				targets[id] = conn
			}
			continue
		}
		for id, conn := range h.rooms[room] {
			targets[id] = conn
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(data); err == nil {
			delivered++
		}
	}
	return delivered
}

// Online reports whether the user has at least one live session.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID]) > 0
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		conns = append(conns, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.users = make(map[string]map[string]*Connection)
	h.rooms = make(map[string]map[string]*Connection)
	h.sessionRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if userSessions, ok := h.users[conn.UserID]; ok {
		delete(userSessions, sessionID)
		if len(userSessions) == 0 {
			delete(h.users, conn.UserID)
		}
	}

	for room := range h.sessionRooms[sessionID] {
		h.leaveLocked(room, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(room string, sessionID string) {
	members := h.rooms[room]
	if members == nil {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, room)
	}
}
