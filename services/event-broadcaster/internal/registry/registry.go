package registry

import "sync"

// Conn is an open client connection that accepts outbound messages.
type Conn interface {
	// Send enqueues msg without blocking and reports whether it was accepted.
	Send(msg []byte) bool
	// Close ends the connection. It must not block or touch the registry.
	Close()
}

// Registry maps user ids to their open connections.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[Conn]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{users: make(map[string]map[Conn]struct{})}
}

// Add registers conn under userID.
func (r *Registry) Add(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		conns = make(map[Conn]struct{})
		r.users[userID] = conns
	}
	conns[conn] = struct{}{}
}

// Remove unregisters conn and drops the user once no connection is left.
// It reports whether conn was registered.
func (r *Registry) Remove(userID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		return false
	}
	if _, ok := conns[conn]; !ok {
		return false
	}

	delete(conns, conn)
	if len(conns) == 0 {
		delete(r.users, userID)
	}
	return true
}

// ForEach calls fn for every connection of userID under the read lock.
// fn must not block and must not call back into the registry.
func (r *Registry) ForEach(userID string, fn func(Conn)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for conn := range r.users[userID] {
		fn(conn)
	}
}

// Count returns the number of open connections of userID.
func (r *Registry) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users[userID])
}

// Users returns the ids of every user with an open connection.
func (r *Registry) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.users))
	for id := range r.users {
		users = append(users, id)
	}
	return users
}

// Total returns the number of open connections across all users.
func (r *Registry) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, conns := range r.users {
		total += len(conns)
	}
	return total
}
