// Package channel defines the named-message transport the client talks to the service over.
package channel

// Handler receives the payload of a named inbound message. Lifecycle events such as
// connect carry an empty payload.
type Handler func(payload string)

// Channel is a bidirectional named-message transport.
//
// Handlers registered with On run in registration order on the channel's delivery
// goroutine, and may be registered before Open. Transport failures are delivered as an
// "error" message whose payload is a JSON object with a "message" field.
type Channel interface {
	On(event string, h Handler)
	Emit(event string, payload string) error
	Open() error
	Close() error
}

// Lifecycle event names every implementation must deliver.
const (
	EventConnect = "connect"
	EventError   = "error"
)
