package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrEndpointNotReady = errors.New("local endpoint is not ready")
	ErrEmptyRemoteID    = errors.New("remote peer id is empty")
	ErrAlreadyLinked    = errors.New("peer link is already open")
	ErrNotConnected     = errors.New("no peer link")
	ErrPeerNotFound     = errors.New("peer not found")
)
