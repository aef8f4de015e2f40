// Package protocol defines the one message peers exchange: a Sync carrying the
// whole move history and the cursor of the active position.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
)

var ErrMalformedSync = errors.New("malformed sync message")

// Sync is the wire shape. Empty cells travel as null.
type Sync struct {
	History [][]*string `json:"history"`
	Cursor  *int        `json:"cursor"`
}

// Encode - serializes a snapshot into a Sync payload.
func Encode(snapshot entity.Snapshot) ([]byte, error) {
	history := make([][]*string, 0, len(snapshot.History))

	for _, board := range snapshot.History {
		cells := make([]*string, entity.BoardSize)
		for i, mark := range board {
			if mark == entity.EmptyCell {
				continue
			}

			value := string(mark)
			cells[i] = &value
		}

		history = append(history, cells)
	}

	cursor := snapshot.Cursor

	payload, err := json.Marshal(Sync{History: history, Cursor: &cursor})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync: %w", err)
	}

	return payload, nil
}

// Decode - parses and validates a Sync payload. Anything that would not be a
// valid snapshot is rejected, so the caller can keep its prior state.
func Decode(payload []byte) (entity.Snapshot, error) {
	var msg Sync
	if err := json.Unmarshal(payload, &msg); err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedSync, err)
	}

	if msg.Cursor == nil {
		return entity.Snapshot{}, fmt.Errorf("%w: cursor is missing", ErrMalformedSync)
	}

	snapshot := entity.Snapshot{
		History: make([]entity.Board, 0, len(msg.History)),
		Cursor:  *msg.Cursor,
	}

	for i, cells := range msg.History {
		if len(cells) != entity.BoardSize {
			return entity.Snapshot{}, fmt.Errorf("%w: board %d has %d cells", ErrMalformedSync, i, len(cells))
		}

		var board entity.Board
		for j, cell := range cells {
			if cell != nil {
				board[j] = entity.Mark(*cell)
			}
		}

		snapshot.History = append(snapshot.History, board)
	}

	if err := snapshot.Validate(); err != nil {
		return entity.Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedSync, err)
	}

	return snapshot, nil
}
