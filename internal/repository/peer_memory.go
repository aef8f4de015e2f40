package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
)

type memoryPeer struct {
	mu    sync.RWMutex
	peers map[string]entity.Peer
}

// NewMemoryPeerRepository - process local directory, for a single host or tests.
func NewMemoryPeerRepository() PeerRepository {
	return &memoryPeer{
		peers: make(map[string]entity.Peer),
	}
}

func (that *memoryPeer) CreateOrUpdate(_ context.Context, peer *entity.Peer) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.peers[peer.ID] = *peer

	return nil
}

func (that *memoryPeer) GetByID(_ context.Context, id string) (*entity.Peer, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	peer, ok := that.peers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPeerNotFound, id)
	}

	return &peer, nil
}

func (that *memoryPeer) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.peers[id]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrPeerNotFound, id)
	}

	delete(that.peers, id)

	return nil
}
