package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/config"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/pkg"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/repository"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/repository/storage"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/session"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/transport/websocket"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/tui"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

const shutdownTimeout = 5 * time.Second

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	peers, closeDirectory, err := newPeerDirectory(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeDirectory(); closeErr != nil {
			log.Error("could not close peer directory", "error", closeErr)
		}
	}()

	localID := conf.Peer.ID
	if localID == "" {
		if localID, err = pkg.GeneratePeerID(); err != nil {
			return err
		}
	}

	wsTransport := websocket.New(logger, conf.Peer, peers)
	sess := session.New(logger, localID, wsTransport)
	wsTransport.OnEvent(sess.Deliver)

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if closeErr := wsTransport.Close(shutdownCtx); closeErr != nil {
			log.Error("could not close transport", "error", closeErr)
		}
	}()

	log.Info("Starting peer", "peerID", localID, "listenAddr", conf.Peer.ListenAddr)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return sess.Run(groupCtx)
	})

	group.Go(func() error {
		// leaving the UI ends the session as well
		defer cancel()

		return tui.Run(groupCtx, sess, sess.Subscribe(), sess.View())
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("peer stopped: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newPeerDirectory - the directory the local endpoint is published in, and how to release it.
func newPeerDirectory(ctx context.Context, conf *config.Config) (repository.PeerRepository, func() error, error) {
	if conf.Registry.Backend == config.BackendMemory {
		return repository.NewMemoryPeerRepository(), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewPeerRepository(redisStorage.Connection, conf.Registry.TTL), redisStorage.Close, nil
}
