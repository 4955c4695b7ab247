package realtime

import (
	"sync"

	"github.com/Laolu02/Linq/internal/metrics"
)

// Conn is one live client connection able to receive pushed events.
type Conn interface {
	Push(event string, payload any) error
	Close()
}

// Registry maps a user to their live connections (one per tab or device)
// and a group to the users currently interested in its broadcasts. It is an
// explicit instance handed to the components that need it, so tests and
// shutdown can build and drop registries freely.
type Registry struct {
	lock    sync.RWMutex
	byUser  map[string]map[Conn]struct{}
	byGroup map[string]map[string]struct{}
	owners  map[Conn]string
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:  make(map[string]map[Conn]struct{}),
		byGroup: make(map[string]map[string]struct{}),
		owners:  make(map[Conn]string),
	}
}

// Register binds a connection to a user. A user may hold any number of
// simultaneous connections; growth is bounded only by disconnects, which is
// why Unregister must run on every close path.
func (r *Registry) Register(userUUID string, c Conn) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byUser[userUUID]; !ok {
		r.byUser[userUUID] = make(map[Conn]struct{})
	}
	if _, dup := r.byUser[userUUID][c]; !dup {
		r.byUser[userUUID][c] = struct{}{}
		r.owners[c] = userUUID
		metrics.ConnectedClients.Inc()
	}
}

// JoinGroup records live broadcast interest. It does not touch persisted
// membership; that is validated against the store before sends are allowed.
func (r *Registry) JoinGroup(userUUID, groupUUID string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byGroup[groupUUID]; !ok {
		r.byGroup[groupUUID] = make(map[string]struct{})
	}
	r.byGroup[groupUUID][userUUID] = struct{}{}
}

func (r *Registry) LeaveGroup(userUUID, groupUUID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.dropGroupInterest(userUUID, groupUUID)
}

// Unregister removes the connection from every set it belongs to. When it
// was the user's last connection, the user's group interests are dropped
// too, and the caller learns which groups those were.
func (r *Registry) Unregister(c Conn) (userUUID string, lastConn bool, groups []string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	userUUID, ok := r.owners[c]
	if !ok {
		return "", false, nil
	}
	delete(r.owners, c)
	delete(r.byUser[userUUID], c)
	metrics.ConnectedClients.Dec()

	if len(r.byUser[userUUID]) > 0 {
		return userUUID, false, nil
	}
	delete(r.byUser, userUUID)

	for groupUUID := range r.byGroup {
		if _, in := r.byGroup[groupUUID][userUUID]; in {
			groups = append(groups, groupUUID)
			r.dropGroupInterest(userUUID, groupUUID)
		}
	}
	return userUUID, true, groups
}

// ConnsFor snapshots the user's live connections.
func (r *Registry) ConnsFor(userUUID string) []Conn {
	r.lock.RLock()
	defer r.lock.RUnlock()

	conns := make([]Conn, 0, len(r.byUser[userUUID]))
	for c := range r.byUser[userUUID] {
		conns = append(conns, c)
	}
	return conns
}

// GroupInterest snapshots the users currently listening to a group.
func (r *Registry) GroupInterest(groupUUID string) []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	users := make([]string, 0, len(r.byGroup[groupUUID]))
	for userUUID := range r.byGroup[groupUUID] {
		users = append(users, userUUID)
	}
	return users
}

func (r *Registry) ConnectionCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.owners)
}

func (r *Registry) dropGroupInterest(userUUID, groupUUID string) {
	if set, ok := r.byGroup[groupUUID]; ok {
		delete(set, userUUID)
		if len(set) == 0 {
			delete(r.byGroup, groupUUID)
		}
	}
}
