package session

import "github.com/rocketscienceinc/p2p-tictactoe/internal/transport"

// Event is everything the session reacts to. Each event is handled to completion
// before the next one is taken from the inbox.
type Event interface {
	isSessionEvent()
}

// StartListening - reset the game and publish the local endpoint.
type StartListening struct{}

// RequestMove - the local participant wants to play Cell (0-8).
type RequestMove struct {
	Cell int
}

// RequestConnect - the local participant wants to dial RemoteID.
type RequestConnect struct {
	RemoteID string
}

// TransportEvent - something the transport reported.
type TransportEvent struct {
	transport.Event
}

func (StartListening) isSessionEvent() {}
func (RequestMove) isSessionEvent()    {}
func (RequestConnect) isSessionEvent() {}
func (TransportEvent) isSessionEvent() {}
