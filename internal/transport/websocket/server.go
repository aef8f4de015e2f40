package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/config"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/transport"
)

var ErrAlreadyListening = errors.New("transport is already listening")

type peerRepo interface {
	CreateOrUpdate(ctx context.Context, peer *entity.Peer) error
	GetByID(ctx context.Context, id string) (*entity.Peer, error)
	DeleteByID(ctx context.Context, id string) error
}

// Server is the websocket peer transport: it accepts one inbound link on
// /peers/{peerID} and dials remote peers resolved through the peer directory.
type Server struct {
	logger *slog.Logger
	conf   config.Peer
	peers  peerRepo

	mu      sync.Mutex
	handler transport.Handler
	baseCtx context.Context
	localID string
	server  *http.Server
	active  *link
}

func New(logger *slog.Logger, conf config.Peer, peers peerRepo) *Server {
	return &Server{
		logger: logger.With("component", "transport"),
		conf:   conf,
		peers:  peers,
	}
}

// OnEvent - registers the receiver of every transport event.
func (that *Server) OnEvent(handler transport.Handler) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.handler = handler
}

func (that *Server) emit(event transport.Event) {
	that.mu.Lock()
	handler := that.handler
	that.mu.Unlock()

	if handler != nil {
		handler(event)
	}
}

// Listen - binds the listen address and serves peer links in the background.
// EventEndpointReady follows once the endpoint is published in the directory.
func (that *Server) Listen(ctx context.Context, localID string) error {
	log := that.logger.With("method", "Listen")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.server != nil {
		return ErrAlreadyListening
	}

	listener, err := net.Listen("tcp", that.conf.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", that.conf.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           that.router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	that.baseCtx = ctx
	that.localID = localID
	that.server = srv

	peer := &entity.Peer{
		ID:       localID,
		Endpoint: that.endpointFor(listener.Addr(), localID),
	}

	go func() {
		log.Info("Starting peer listener", "addr", listener.Addr().String())
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("peer listener error", "error", serveErr)
			that.emit(transport.Event{Kind: transport.EventListenFailed, Err: serveErr})
		}
	}()

	go func() {
		if regErr := that.peers.CreateOrUpdate(ctx, peer); regErr != nil {
			log.Error("failed to publish endpoint", "error", regErr)
			that.emit(transport.Event{Kind: transport.EventListenFailed, Err: regErr})
			return
		}

		log.Info("endpoint published", "peerID", peer.ID, "endpoint", peer.Endpoint)
		that.emit(transport.Event{Kind: transport.EventEndpointReady, Endpoint: peer.Endpoint})
	}()

	return nil
}

// Connect - resolves and dials remoteID in the background. The outcome arrives as
// EventLinkOpened or EventLinkError.
func (that *Server) Connect(ctx context.Context, remoteID string) error {
	if remoteID == "" {
		return apperror.ErrEmptyRemoteID
	}

	if that.busy() {
		return transport.ErrLinkBusy
	}

	go that.dial(ctx, remoteID)

	return nil
}

func (that *Server) dial(ctx context.Context, remoteID string) {
	log := that.logger.With("method", "dial", "remoteID", remoteID)

	endpoint, err := that.resolve(ctx, remoteID)
	if err != nil {
		log.Error("failed to resolve peer", "error", err)
		that.emit(transport.Event{Kind: transport.EventLinkError, Err: err})
		return
	}

	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		log.Error("failed to dial peer", "endpoint", endpoint, "error", err)
		that.emit(transport.Event{Kind: transport.EventLinkError, Err: fmt.Errorf("failed to dial %s: %w", endpoint, err)})
		return
	}

	l := newLink(conn, transport.Outbound, that.conf.OutboxSize, that.conf.WriteTimeout)
	if !that.claim(l) {
		_ = conn.Close(websocket.StatusTryAgainLater, "peer is busy")
		that.emit(transport.Event{Kind: transport.EventLinkError, Err: transport.ErrLinkBusy})
		return
	}

	log.Info("link opened", "linkID", l.ID())

	go l.writeLoop(ctx)
	that.emit(transport.Event{Kind: transport.EventLinkOpened, Link: l})
	that.serve(ctx, l)
}

// Close - closes the open link, stops the listener and removes the published endpoint.
func (that *Server) Close(ctx context.Context) error {
	that.mu.Lock()
	srv, active, localID := that.server, that.active, that.localID
	that.server = nil
	that.mu.Unlock()

	var errs []error

	if active != nil {
		if err := active.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close link: %w", err))
		}
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop listener: %w", err))
		}

		if err := that.peers.DeleteByID(ctx, localID); err != nil && !errors.Is(err, apperror.ErrPeerNotFound) {
			errs = append(errs, fmt.Errorf("failed to unpublish endpoint: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (that *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/ping", that.handlePing)
	r.Get("/peers/{peerID}", that.handlePeer)

	return r
}

// handlePing - liveness probe for the listener.
func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handlePeer - upgrades an inbound request to a peer link and reads from it until it ends.
func (that *Server) handlePeer(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePeer")

	that.mu.Lock()
	localID, ctx := that.localID, that.baseCtx
	that.mu.Unlock()

	if chi.URLParam(r, "peerID") != localID {
		http.Error(w, "peer not found", http.StatusNotFound)
		return
	}

	if that.busy() {
		http.Error(w, "peer is busy", http.StatusConflict)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// peers are not authenticated, so any origin may connect
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}

	l := newLink(conn, transport.Inbound, that.conf.OutboxSize, that.conf.WriteTimeout)
	if !that.claim(l) {
		_ = conn.Close(websocket.StatusTryAgainLater, "peer is busy")
		return
	}

	log.Info("link opened", "linkID", l.ID(), "remote", r.RemoteAddr)

	go l.writeLoop(ctx)
	that.emit(transport.Event{Kind: transport.EventLinkOpened, Link: l})
	that.serve(ctx, l)
}

// serve - reads payloads until the link ends, then reports how it ended.
func (that *Server) serve(ctx context.Context, l *link) {
	log := that.logger.With("method", "serve", "linkID", l.ID())

	for {
		_, data, err := l.conn.Read(ctx)
		if err != nil {
			that.release(l)
			_ = l.shutdown(websocket.StatusNormalClosure, "bye")

			switch status := websocket.CloseStatus(err); {
			case l.closedLocally.Load(), status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
				log.Info("link closed")
				that.emit(transport.Event{Kind: transport.EventLinkClosed, Link: l})
			default:
				log.Warn("link failed", "error", err)
				that.emit(transport.Event{Kind: transport.EventLinkError, Link: l, Err: err})
			}

			return
		}

		that.emit(transport.Event{Kind: transport.EventDataReceived, Link: l, Payload: data})
	}
}

func (that *Server) busy() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.active != nil
}

func (that *Server) claim(l *link) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.active != nil {
		return false
	}

	that.active = l

	return true
}

func (that *Server) release(l *link) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.active == l {
		that.active = nil
	}
}

// resolve - a ws:// or wss:// remote id is dialed as is, anything else is looked up in the directory.
func (that *Server) resolve(ctx context.Context, remoteID string) (string, error) {
	if strings.HasPrefix(remoteID, "ws://") || strings.HasPrefix(remoteID, "wss://") {
		return remoteID, nil
	}

	peer, err := that.peers.GetByID(ctx, remoteID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve peer %s: %w", remoteID, err)
	}

	return peer.Endpoint, nil
}

func (that *Server) endpointFor(addr net.Addr, localID string) string {
	base := strings.TrimRight(that.conf.PublicURL, "/")

	if base == "" {
		host, port := "localhost", ""
		if tcpAddr, ok := addr.(*net.TCPAddr); ok {
			port = fmt.Sprint(tcpAddr.Port)
			if !tcpAddr.IP.IsUnspecified() {
				host = tcpAddr.IP.String()
			}
		}

		base = "ws://" + net.JoinHostPort(host, port)
	}

	return base + "/peers/" + url.PathEscape(localID)
}
