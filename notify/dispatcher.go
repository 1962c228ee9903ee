package notify

import "github.com/sirupsen/logrus"

// Publisher is the handle mutation paths hold to announce data changes.
// Implementations never surface errors to the caller; a failed notification
// must not fail the write that triggered it.
type Publisher interface {
	Publish(module string, action string, id string, data map[string]any)
}

// Dispatcher fans events out to the WebSocket hub and, when a bridge is
// configured, onto Pub/Sub.
type Dispatcher struct {
	Hub    *Hub
	Bridge func(obj interface{}) error
	Logger *logrus.Logger
}

func NewDispatcher(hub *Hub, bridge func(obj interface{}) error, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{Hub: hub, Bridge: bridge, Logger: logger}
}

func (d *Dispatcher) Publish(module string, action string, id string, data map[string]any) {
	event := NewEvent(module, action, id, data)

	if d.Hub != nil {
		d.Hub.Broadcast(event)
	}

	if d.Bridge != nil {
		if err := d.Bridge(event); err != nil {
			d.Logger.WithError(err).WithFields(logrus.Fields{
				"module": module,
				"action": action,
			}).Warn("event bridge publish failed")
		}
	}
}

// Noop is a Publisher that discards events. Handy in tests and for code
// paths that run before the hub is up.
type Noop struct{}

func (Noop) Publish(module string, action string, id string, data map[string]any) {}
