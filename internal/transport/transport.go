// Package transport describes the peer link collaborator: how a local endpoint
// is published, how a remote one is dialed, and the events a link reports.
package transport

import "errors"

var (
	ErrLinkClosed = errors.New("link is closed")
	ErrOutboxFull = errors.New("link outbox is full")
	ErrLinkBusy   = errors.New("another link is already open")
)

type EventKind int

const (
	// EventEndpointReady - the local endpoint is published and can be dialed.
	EventEndpointReady EventKind = iota + 1
	// EventListenFailed - the local endpoint could not be published.
	EventListenFailed
	EventLinkOpened
	EventDataReceived
	EventLinkClosed
	// EventLinkError - the link broke, or an outbound dial failed (Link is nil then).
	EventLinkError
)

func (that EventKind) String() string {
	switch that {
	case EventEndpointReady:
		return "endpoint_ready"
	case EventListenFailed:
		return "listen_failed"
	case EventLinkOpened:
		return "link_opened"
	case EventDataReceived:
		return "data_received"
	case EventLinkClosed:
		return "link_closed"
	case EventLinkError:
		return "link_error"
	default:
		return "unknown"
	}
}

type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Link is an established, reliable and ordered connection to the remote peer.
type Link interface {
	ID() string
	Direction() Direction
	// Send queues payload for delivery and returns without waiting for the network.
	Send(payload []byte) error
	Close() error
}

// Event is everything the transport reports, in delivery order.
type Event struct {
	Kind     EventKind
	Link     Link
	Endpoint string
	Payload  []byte
	Err      error
}

// Handler receives transport events. It is called from transport goroutines.
type Handler func(Event)
