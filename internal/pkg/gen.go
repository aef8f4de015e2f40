package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// maxPeerID - peer ids are short numbers so they are easy to read out to the other player.
const maxPeerID = 1000

// GeneratePeerID - generates a short numeric identifier for the local peer.
func GeneratePeerID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxPeerID))
	if err != nil {
		return "", fmt.Errorf("failed to generate peer id: %w", err)
	}

	return n.String(), nil
}

// GenerateLinkID - generates a unique identifier for a peer link.
func GenerateLinkID() string {
	return uuid.NewString()
}
