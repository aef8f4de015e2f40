package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/apperror"
)

// Mark is the content of a single cell, and also the marker a player plays with.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

// BoardSize - number of cells on the 3x3 board.
const BoardSize = 9

type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWinner     Outcome = "winner"
	OutcomeDraw       Outcome = "draw"
)

var (
	ErrInvalidMark = errors.New("invalid mark")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board - one grid configuration at a point in the game.
type Board [BoardSize]Mark

// Result - what the move validator reports for a board.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  Mark    `json:"winner,omitempty"`
}

// IsTerminal - true once the board has a winner or is a draw.
func (that Result) IsTerminal() bool {
	return that.Outcome == OutcomeWinner || that.Outcome == OutcomeDraw
}

func (that Result) String() string {
	switch that.Outcome {
	case OutcomeWinner:
		return "Winner: " + string(that.Winner)
	case OutcomeDraw:
		return "Draw"
	default:
		return "In progress"
	}
}

// IsValidMark - reports whether m may appear in a cell.
func IsValidMark(m Mark) bool {
	return m == EmptyCell || m == PlayerX || m == PlayerO
}

// Opponent - returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// DetermineGameResult - returns the winning mark, PlayerTie for a full board, or EmptyCell while the game goes on.
func (that Board) DetermineGameResult() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range that {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return PlayerTie
}

// Evaluate - the move validator: winner, draw or in progress.
func Evaluate(board Board) Result {
	switch winner := board.DetermineGameResult(); winner {
	case PlayerX, PlayerO:
		return Result{Outcome: OutcomeWinner, Winner: winner}
	case PlayerTie:
		return Result{Outcome: OutcomeDraw}
	default:
		return Result{Outcome: OutcomeInProgress}
	}
}

// Place - returns a copy of the board with mark placed at cell.
func (that Board) Place(mark Mark, cell int) (Board, error) {
	if cell < 0 || cell >= len(that) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if mark != PlayerX && mark != PlayerO {
		return that, fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	if that[cell] != EmptyCell {
		return that, apperror.ErrCellOccupied
	}

	that[cell] = mark

	return that, nil
}

// Validate - checks that every cell holds a known mark.
func (that Board) Validate() error {
	for i, cell := range that {
		if !IsValidMark(cell) {
			return fmt.Errorf("%w: %q at cell %d", ErrInvalidMark, cell, i)
		}
	}

	return nil
}
