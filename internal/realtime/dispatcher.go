package realtime

import (
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/metrics"
	"github.com/Laolu02/Linq/internal/nlog"
)

// Dispatcher fans envelopes and group events out to live connections.
// Every push is fire-and-forget: a failed push to one connection is logged
// and counted, never propagated, since the message is already durable.
type Dispatcher struct {
	registry *Registry
	logger   nlog.Logger
}

func NewDispatcher(registry *Registry, logger nlog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

func (d *Dispatcher) Logf(format string, v ...any) {
	d.logger.Logf(format, v...)
}

// ToUsers pushes a newMessage envelope to every live connection of the
// given users. Users without a registered connection are skipped; they see
// the message on their next history fetch.
func (d *Dispatcher) ToUsers(env *entity.Envelope, userUUIDs ...string) {
	delivered := make(map[string]struct{}, len(userUUIDs))
	for _, userUUID := range userUUIDs {
		if _, done := delivered[userUUID]; done {
			continue
		}
		delivered[userUUID] = struct{}{}

		for _, conn := range d.registry.ConnsFor(userUUID) {
			if err := conn.Push(EventNewMessage, env); err != nil {
				d.Logf("Dropped push to a connection of user %s {%v}", userUUID, err)
				metrics.FanoutFailures.Inc()
			}
		}
	}
}

// Announce pushes a group lifecycle event to every user listening to the
// group's broadcasts.
func (d *Dispatcher) Announce(groupUUID, event string, payload any) {
	for _, userUUID := range d.registry.GroupInterest(groupUUID) {
		for _, conn := range d.registry.ConnsFor(userUUID) {
			if err := conn.Push(event, payload); err != nil {
				d.Logf("Dropped %s event to a connection of user %s {%v}", event, userUUID, err)
				metrics.FanoutFailures.Inc()
			}
		}
	}
}
