// Package timeline merges the three message sources a chat view receives
// (REST history, live pushes, local optimistic echoes) into one ordered,
// deduplicated sequence for a single destination.
package timeline

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Laolu02/Linq/internal/entity"
)

// Status of an outgoing message in its two-phase send cycle.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusFailed
)

// echoWindow bounds how far apart an optimistic echo and the confirming
// server copy may be timestamped and still count as the same logical send.
const echoWindow = 10 * time.Second

// Entry is one display message. UUID is empty while the entry is an
// unconfirmed optimistic echo; LocalRef is empty for server-sourced entries.
type Entry struct {
	UUID       string
	LocalRef   string
	Body       string
	SenderUUID string
	CreatedAt  time.Time
	Self       bool
	Edited     bool
	Status     Status
}

// Timeline reconciles messages for one open conversation or group view.
// History is the authoritative baseline; envelopes for other destinations
// are ignored; a self-authored live push never duplicates a pending echo,
// it confirms it instead.
type Timeline struct {
	mu       sync.Mutex
	selfUUID string
	destType string
	destUUID string

	entries []*Entry          // insertion order, re-sorted on read
	seen    map[string]*Entry // confirmed entries by message uuid
	echoes  map[string]*Entry // pending echoes by local ref
}

func New(selfUUID, destType, destUUID string) *Timeline {
	return &Timeline{
		selfUUID: selfUUID,
		destType: destType,
		destUUID: destUUID,
		seen:     make(map[string]*Entry),
		echoes:   make(map[string]*Entry),
	}
}

// ApplyHistory merges a REST history fetch into the view.
func (t *Timeline) ApplyHistory(messages []*entity.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, message := range messages {
		t.applyConfirmed(message)
	}
}

// ApplyEnvelope merges a live push. It reports whether the envelope was for
// this view; envelopes targeting other destinations are dropped unseen.
func (t *Timeline) ApplyEnvelope(env *entity.Envelope) bool {
	if env == nil || env.Message == nil {
		return false
	}
	if env.DestinationType != t.destType || env.DestinationUUID != t.destUUID {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.applyConfirmed(env.Message)
	return true
}

// AppendLocalEcho records an optimistic echo for a message the local user
// just composed, shown as pending until a server copy confirms it.
func (t *Timeline) AppendLocalEcho(localRef, body string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := &Entry{
		LocalRef:   localRef,
		Body:       strings.TrimSpace(body),
		SenderUUID: t.selfUUID,
		CreatedAt:  at,
		Self:       true,
		Status:     StatusPending,
	}
	t.echoes[localRef] = entry
	t.entries = append(t.entries, entry)
}

// ConfirmEcho resolves an echo with the persisted message from the REST
// acknowledgment. If a live push already confirmed the same send, the echo
// is dropped instead of producing a second bubble.
func (t *Timeline) ConfirmEcho(localRef string, message *entity.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	echo, ok := t.echoes[localRef]
	if !ok {
		// The echo is gone (already reconciled); still make sure the
		// confirmed message is present.
		t.applyConfirmed(message)
		return
	}

	if _, dup := t.seen[message.UUID]; dup {
		t.removeEntry(echo)
		delete(t.echoes, localRef)
		return
	}
	t.promoteEcho(echo, message)
	delete(t.echoes, localRef)
}

// FailEcho marks an echo as failed after the send was rejected. The entry
// stays visible so the user can see what did not go through.
func (t *Timeline) FailEcho(localRef string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if echo, ok := t.echoes[localRef]; ok {
		echo.Status = StatusFailed
		delete(t.echoes, localRef)
	}
}

// Entries returns the display sequence: ascending CreatedAt, ties keeping
// arrival order.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]Entry, len(t.entries))
	for i, entry := range t.entries {
		snapshot[i] = *entry
	}
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.Before(snapshot[j].CreatedAt)
	})
	return snapshot
}

// applyConfirmed merges one server-confirmed message. Callers hold the lock.
func (t *Timeline) applyConfirmed(message *entity.Message) {
	if message == nil {
		return
	}

	if existing, ok := t.seen[message.UUID]; ok {
		existing.Body = message.Body
		existing.Edited = message.IsEdited
		return
	}

	if message.SenderUUID == t.selfUUID {
		if echo := t.matchEcho(message); echo != nil {
			t.promoteEcho(echo, message)
			for ref, pending := range t.echoes {
				if pending == echo {
					delete(t.echoes, ref)
				}
			}
			return
		}
	}

	entry := &Entry{
		UUID:       message.UUID,
		Body:       message.Body,
		SenderUUID: message.SenderUUID,
		CreatedAt:  message.CreatedAt,
		Self:       message.SenderUUID == t.selfUUID,
		Edited:     message.IsEdited,
		Status:     StatusConfirmed,
	}
	t.seen[message.UUID] = entry
	t.entries = append(t.entries, entry)
}

// matchEcho finds the pending echo representing the same logical send as a
// self-authored server copy: same trimmed body, timestamps within the echo
// window. The server copy carries a different id regime than the echo, so
// this proximity key is the only dedup handle available.
func (t *Timeline) matchEcho(message *entity.Message) *Entry {
	body := strings.TrimSpace(message.Body)
	var best *Entry
	for _, echo := range t.echoes {
		if echo.Status != StatusPending || echo.Body != body {
			continue
		}
		gap := message.CreatedAt.Sub(echo.CreatedAt)
		if gap < 0 {
			gap = -gap
		}
		if gap > echoWindow {
			continue
		}
		if best == nil || echo.CreatedAt.Before(best.CreatedAt) {
			best = echo
		}
	}
	return best
}

func (t *Timeline) promoteEcho(echo *Entry, message *entity.Message) {
	echo.UUID = message.UUID
	echo.Body = message.Body
	echo.CreatedAt = message.CreatedAt
	echo.Edited = message.IsEdited
	echo.Status = StatusConfirmed
	t.seen[message.UUID] = echo
}

func (t *Timeline) removeEntry(target *Entry) {
	for i, entry := range t.entries {
		if entry == target {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}
