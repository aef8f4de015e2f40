// Package session owns the state of one game between two peers and the link
// between them. Every change happens inside Handle, one event at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/protocol"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/transport"
)

var ErrStaleLink = errors.New("event from a link that is no longer current")

const inboxSize = 64

type transporter interface {
	Listen(ctx context.Context, localID string) error
	Connect(ctx context.Context, remoteID string) error
}

type Session struct {
	logger    *slog.Logger
	localID   string
	transport transporter

	inbox   chan Event
	done    chan struct{}
	updates chan View

	mu         sync.RWMutex
	snapshot   entity.Snapshot
	role       entity.Mark
	myTurn     bool
	connection ConnectionState
	phase      Phase
	endpoint   string
	link       transport.Link
	warning    string
}

func New(logger *slog.Logger, localID string, transport transporter) *Session {
	return &Session{
		logger:     logger.With("component", "session", "peerID", localID),
		localID:    localID,
		transport:  transport,
		inbox:      make(chan Event, inboxSize),
		done:       make(chan struct{}),
		updates:    make(chan View, 1),
		snapshot:   entity.NewSnapshot(),
		role:       entity.PlayerX,
		connection: Disconnected,
		phase:      PhaseIdle,
	}
}

// Deliver - queues a transport event. It is the transport's event handler.
func (that *Session) Deliver(event transport.Event) {
	that.enqueue(TransportEvent{Event: event})
}

// Move - queues a local move request.
func (that *Session) Move(cell int) {
	that.enqueue(RequestMove{Cell: cell})
}

// Connect - queues a request to dial remoteID.
func (that *Session) Connect(remoteID string) {
	that.enqueue(RequestConnect{RemoteID: remoteID})
}

func (that *Session) enqueue(event Event) {
	select {
	case that.inbox <- event:
	case <-that.done:
	}
}

// Subscribe - a channel that always holds the latest View. Older views are dropped.
func (that *Session) Subscribe() <-chan View {
	return that.updates
}

// Run - starts listening, then handles queued events until ctx is done.
func (that *Session) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer close(that.done)

	if err := that.Handle(ctx, StartListening{}); err != nil {
		log.Error("failed to start listening", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("session stopped")
			return nil
		case event := <-that.inbox:
			if err := that.Handle(ctx, event); err != nil {
				log.Debug("event not applied", "event", fmt.Sprintf("%T", event), "error", err)
			}
		}
	}
}

// Handle - applies one event to the session and publishes the resulting View.
// A returned error means the event changed nothing the caller asked for.
func (that *Session) Handle(ctx context.Context, event Event) error {
	that.mu.Lock()
	err := that.handle(ctx, event)
	view := that.viewLocked()
	that.mu.Unlock()

	that.publish(view)

	return err
}

func (that *Session) handle(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case StartListening:
		return that.startListening(ctx)
	case RequestMove:
		return that.applyLocalMove(e.Cell)
	case RequestConnect:
		return that.connectTo(ctx, e.RemoteID)
	case TransportEvent:
		return that.onTransportEvent(e.Event)
	default:
		return fmt.Errorf("unknown event %T", event)
	}
}

func (that *Session) onTransportEvent(event transport.Event) error {
	switch event.Kind {
	case transport.EventEndpointReady:
		return that.onEndpointReady(event.Endpoint)
	case transport.EventListenFailed:
		that.logger.Error("local endpoint unavailable", "error", event.Err)
		that.warning = "Could not publish endpoint"
		return event.Err
	case transport.EventLinkOpened:
		if event.Link == nil {
			return fmt.Errorf("%s without a link", event.Kind)
		}
		if event.Link.Direction() == transport.Inbound {
			return that.onInboundLinkOpened(event.Link)
		}
		return that.onOutboundLinkOpened(event.Link)
	case transport.EventDataReceived:
		if event.Link != that.link {
			return ErrStaleLink
		}
		return that.onMessageReceived(event.Payload)
	case transport.EventLinkClosed, transport.EventLinkError:
		return that.onLinkLost(event)
	default:
		return fmt.Errorf("unknown transport event %s", event.Kind)
	}
}

func (that *Session) startListening(ctx context.Context) error {
	that.snapshot = entity.NewSnapshot()
	that.warning = ""

	if err := that.transport.Listen(ctx, that.localID); err != nil {
		that.warning = "Could not open endpoint"
		return fmt.Errorf("failed to listen: %w", err)
	}

	return nil
}

func (that *Session) onEndpointReady(endpoint string) error {
	that.endpoint = endpoint
	if that.phase == PhaseIdle {
		that.phase = PhaseListening
	}

	that.logger.Info("endpoint ready", "endpoint", endpoint)

	return nil
}

func (that *Session) connectTo(ctx context.Context, remoteID string) error {
	if that.endpoint == "" {
		return apperror.ErrEndpointNotReady
	}

	if remoteID == "" {
		return apperror.ErrEmptyRemoteID
	}

	if that.link != nil {
		return apperror.ErrAlreadyLinked
	}

	if err := that.transport.Connect(ctx, remoteID); err != nil {
		that.warning = "Could not connect to " + remoteID
		return fmt.Errorf("failed to connect to %s: %w", remoteID, err)
	}

	that.phase = PhaseDialing
	that.warning = ""

	return nil
}

// acceptLink - only one link is kept; any other one is closed right away.
func (that *Session) acceptLink(link transport.Link) error {
	if that.link != nil {
		that.logger.Warn("closing extra link", "linkID", link.ID())
		_ = link.Close()
		return apperror.ErrAlreadyLinked
	}

	that.link = link
	that.connection = Connected
	that.phase = PhaseLinked
	that.warning = ""

	return nil
}

// onInboundLinkOpened - the listener plays X and moves first.
func (that *Session) onInboundLinkOpened(link transport.Link) error {
	if err := that.acceptLink(link); err != nil {
		return err
	}

	that.role = entity.PlayerX
	that.myTurn = true

	that.logger.Info("peer connected", "linkID", link.ID(), "direction", link.Direction())
	that.sendSync()

	return nil
}

// onOutboundLinkOpened - the dialer waits for the listener's Sync before moving.
func (that *Session) onOutboundLinkOpened(link transport.Link) error {
	if err := that.acceptLink(link); err != nil {
		return err
	}

	that.myTurn = false

	that.logger.Info("connected to peer", "linkID", link.ID(), "direction", link.Direction())
	that.sendSync()

	return nil
}

// onMessageReceived - the peer's history replaces ours and the turn passes to us.
func (that *Session) onMessageReceived(payload []byte) error {
	snapshot, err := protocol.Decode(payload)
	if err != nil {
		that.logger.Warn("discarding sync from peer", "error", err)
		that.warning = "Ignored a malformed message from the peer"
		return err
	}

	that.snapshot = snapshot
	that.role = entity.RoleForCursor(snapshot.Cursor)
	that.myTurn = true
	that.warning = ""

	return nil
}

func (that *Session) applyLocalMove(cell int) error {
	if that.snapshot.Result().IsTerminal() {
		return apperror.ErrGameFinished
	}

	if !that.myTurn {
		return apperror.ErrNotYourTurn
	}

	next, err := that.snapshot.Advance(that.role, cell)
	if err != nil {
		return err
	}

	that.snapshot = next
	that.myTurn = false
	that.sendSync()

	return nil
}

func (that *Session) onLinkLost(event transport.Event) error {
	if event.Link == nil {
		// a dial that never produced a link
		that.logger.Warn("failed to connect", "error", event.Err)
		if that.phase == PhaseDialing {
			that.phase = PhaseDisconnected
		}
		that.warning = "Could not connect to peer"
		return nil
	}

	if event.Link != that.link {
		return ErrStaleLink
	}

	if event.Kind == transport.EventLinkError {
		that.logger.Warn("peer link failed", "linkID", event.Link.ID(), "error", event.Err)
		that.warning = "Connection to peer lost"
	} else {
		that.logger.Info("peer link closed", "linkID", event.Link.ID())
	}

	that.link = nil
	that.connection = Disconnected
	that.phase = PhaseDisconnected

	return nil
}

func (that *Session) sendSync() {
	if that.link == nil || that.connection != Connected {
		return
	}

	payload, err := protocol.Encode(that.snapshot)
	if err != nil {
		that.logger.Error("failed to encode sync", "error", err)
		return
	}

	if err = that.link.Send(payload); err != nil {
		that.logger.Warn("failed to send sync", "linkID", that.link.ID(), "error", err)
		that.warning = "Move was not sent to the peer"
	}
}

// View - the current state as the UI sees it.
func (that *Session) View() View {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.viewLocked()
}

// Snapshot - a copy of the move history and cursor.
func (that *Session) Snapshot() entity.Snapshot {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.snapshot.Clone()
}

func (that *Session) viewLocked() View {
	result := that.snapshot.Result()

	return View{
		LocalID:    that.localID,
		Endpoint:   that.endpoint,
		Board:      that.snapshot.Current(),
		Result:     result,
		Status:     statusLine(result, that.role),
		Role:       that.role,
		MyTurn:     that.myTurn,
		Connection: that.connection,
		Phase:      that.phase,
		Cursor:     that.snapshot.Cursor,
		HistoryLen: len(that.snapshot.History),
		Warning:    that.warning,
	}
}

func (that *Session) publish(view View) {
	select {
	case that.updates <- view:
		return
	default:
	}

	select {
	case <-that.updates:
	default:
	}

	select {
	case that.updates <- view:
	default:
	}
}
