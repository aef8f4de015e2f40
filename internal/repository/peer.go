package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
)

// PeerRepository maps a peer id to the endpoint it can be dialed at.
type PeerRepository interface {
	CreateOrUpdate(ctx context.Context, peer *entity.Peer) error
	GetByID(ctx context.Context, id string) (*entity.Peer, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbPeer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPeerRepository - redis backed directory; entries expire after ttl so dead peers disappear.
func NewPeerRepository(client *redis.Client, ttl time.Duration) PeerRepository {
	return &dbPeer{
		client: client,
		ttl:    ttl,
	}
}

func peerKey(id string) string {
	return "peer:" + id
}

func (that *dbPeer) CreateOrUpdate(ctx context.Context, peer *entity.Peer) error {
	peerJSON, err := json.Marshal(peer)
	if err != nil {
		return fmt.Errorf("failed to marshal peer: %w", err)
	}

	if err = that.client.Set(ctx, peerKey(peer.ID), peerJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set peer: %w", err)
	}

	return nil
}

func (that *dbPeer) GetByID(ctx context.Context, id string) (*entity.Peer, error) {
	response, err := that.client.Get(ctx, peerKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPeerNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get peer by ID: %w", err)
	}

	var peer entity.Peer
	if err = json.Unmarshal([]byte(response), &peer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal peer: %w", err)
	}

	return &peer, nil
}

func (that *dbPeer) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, peerKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete peer by ID: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrPeerNotFound, id)
	}

	return nil
}
