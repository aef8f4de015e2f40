package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
)

func TestRoleForCursor(t *testing.T) {
	for cursor, want := range []Mark{PlayerX, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO} {
		assert.Equal(t, want, RoleForCursor(cursor), "cursor %d", cursor)
	}
}

func TestSnapshot_Advance(t *testing.T) {
	t.Run("Appends the next board and moves the cursor", func(t *testing.T) {
		// Given: a fresh snapshot
		snapshot := NewSnapshot()

		// When: X plays the center
		next, err := snapshot.Advance(PlayerX, 4)

		// Then: history grows to two boards and the cursor points at the new one
		require.NoError(t, err)
		assert.Len(t, next.History, 2)
		assert.Equal(t, 1, next.Cursor)
		assert.Equal(t, Board{4: PlayerX}, next.Current())
		require.NoError(t, next.Validate())

		// And: the original snapshot is unchanged
		assert.Len(t, snapshot.History, 1)
		assert.Equal(t, 0, snapshot.Cursor)
	})

	t.Run("Truncates entries after the cursor", func(t *testing.T) {
		// Given: a history of three boards with the cursor moved back to the first move
		snapshot := Snapshot{
			History: []Board{{}, {0: PlayerX}, {0: PlayerX, 1: PlayerO}},
			Cursor:  1,
		}

		// When: O plays a different cell
		next, err := snapshot.Advance(PlayerO, 8)

		// Then: the old third board is replaced
		require.NoError(t, err)
		assert.Equal(t, []Board{{}, {0: PlayerX}, {0: PlayerX, 8: PlayerO}}, next.History)
		assert.Equal(t, 2, next.Cursor)

		// And: the source history is not overwritten
		assert.Equal(t, Board{0: PlayerX, 1: PlayerO}, snapshot.History[2])
	})

	t.Run("Refuses moves on a won board", func(t *testing.T) {
		snapshot := Snapshot{
			History: []Board{{}, {PlayerX, PlayerX, PlayerX, PlayerO, PlayerO}},
			Cursor:  1,
		}

		_, err := snapshot.Advance(PlayerO, 5)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Refuses occupied cells", func(t *testing.T) {
		snapshot := Snapshot{History: []Board{{}, {0: PlayerX}}, Cursor: 1}

		_, err := snapshot.Advance(PlayerO, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		wantErr  error
	}{
		{
			name:     "fresh snapshot",
			snapshot: NewSnapshot(),
		},
		{
			name:     "repeated board is allowed",
			snapshot: Snapshot{History: []Board{{}, {}, {2: PlayerO}}, Cursor: 2},
		},
		{
			name:     "empty history",
			snapshot: Snapshot{},
			wantErr:  ErrEmptyHistory,
		},
		{
			name:     "negative cursor",
			snapshot: Snapshot{History: []Board{{}}, Cursor: -1},
			wantErr:  ErrCursorOutOfBounds,
		},
		{
			name:     "cursor past the end",
			snapshot: Snapshot{History: []Board{{}}, Cursor: 1},
			wantErr:  ErrCursorOutOfBounds,
		},
		{
			name:     "unknown mark",
			snapshot: Snapshot{History: []Board{{0: "Z"}}, Cursor: 0},
			wantErr:  ErrInvalidMark,
		},
		{
			name:     "history starts mid-game",
			snapshot: Snapshot{History: []Board{{0: PlayerX}}, Cursor: 0},
			wantErr:  ErrNonEmptyStart,
		},
		{
			name:     "two cells change in one step",
			snapshot: Snapshot{History: []Board{{}, {0: PlayerX, 1: PlayerO}}, Cursor: 1},
			wantErr:  ErrBrokenChain,
		},
		{
			name:     "marker overwritten",
			snapshot: Snapshot{History: []Board{{}, {0: PlayerX}, {0: PlayerO}}, Cursor: 2},
			wantErr:  ErrBrokenChain,
		},
		{
			name:     "marker removed",
			snapshot: Snapshot{History: []Board{{}, {0: PlayerX}, {}}, Cursor: 2},
			wantErr:  ErrBrokenChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()

			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSnapshot_Clone(t *testing.T) {
	// Given: a snapshot and its clone
	snapshot := Snapshot{History: []Board{{}, {0: PlayerX}}, Cursor: 1}
	clone := snapshot.Clone()

	// When: the clone's history is modified
	clone.History[1][1] = PlayerO

	// Then: the source is not affected
	assert.Equal(t, Board{0: PlayerX}, snapshot.History[1])
	assert.Equal(t, snapshot.Cursor, clone.Cursor)
}
