package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
)

var (
	ErrEmptyHistory      = errors.New("history is empty")
	ErrNonEmptyStart     = errors.New("history does not start from an empty board")
	ErrBrokenChain       = errors.New("history is not a valid move chain")
	ErrCursorOutOfBounds = errors.New("cursor is out of range")
)

// Snapshot is the full move history plus the cursor of the active position.
type Snapshot struct {
	History []Board
	Cursor  int
}

// NewSnapshot - a history holding only the empty board.
func NewSnapshot() Snapshot {
	return Snapshot{
		History: []Board{{}},
		Cursor:  0,
	}
}

// RoleForCursor - the role that plays the position at cursor: X on even positions, O on odd ones.
func RoleForCursor(cursor int) Mark {
	if cursor%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// Current - the board at the cursor.
func (that Snapshot) Current() Board {
	return that.History[that.Cursor]
}

// Result - the move validator's verdict for the board at the cursor.
func (that Snapshot) Result() Result {
	return Evaluate(that.Current())
}

// Clone - deep copy, so the history never aliases a slice held by someone else.
func (that Snapshot) Clone() Snapshot {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return Snapshot{History: history, Cursor: that.Cursor}
}

// Advance - plays mark at cell on the board at the cursor and returns the new snapshot.
// Entries after the cursor are dropped before the new board is appended.
func (that Snapshot) Advance(mark Mark, cell int) (Snapshot, error) {
	if that.Result().IsTerminal() {
		return that, apperror.ErrGameFinished
	}

	next, err := that.Current().Place(mark, cell)
	if err != nil {
		return that, err
	}

	history := make([]Board, that.Cursor+1, that.Cursor+2)
	copy(history, that.History[:that.Cursor+1])
	history = append(history, next)

	return Snapshot{History: history, Cursor: len(history) - 1}, nil
}

// Validate - checks the move chain and cursor invariants.
func (that Snapshot) Validate() error {
	if len(that.History) == 0 {
		return ErrEmptyHistory
	}

	if that.Cursor < 0 || that.Cursor >= len(that.History) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfBounds, that.Cursor, len(that.History))
	}

	for i, board := range that.History {
		if err := board.Validate(); err != nil {
			return fmt.Errorf("board %d: %w", i, err)
		}
	}

	if that.History[0] != (Board{}) {
		return ErrNonEmptyStart
	}

	for i := 1; i < len(that.History); i++ {
		if err := checkStep(that.History[i-1], that.History[i]); err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrBrokenChain, i, err)
		}
	}

	return nil
}

var (
	errTooManyChanges = errors.New("more than one cell changed")
	errCellRewritten  = errors.New("occupied cell changed")
)

// checkStep - next may differ from prev in at most one cell, and only from empty to a marker.
func checkStep(prev, next Board) error {
	changed := 0
	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		if prev[i] != EmptyCell {
			return fmt.Errorf("%w: cell %d", errCellRewritten, i)
		}

		changed++
		if changed > 1 {
			return errTooManyChanges
		}
	}

	return nil
}
