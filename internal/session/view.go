package session

import "github.com/rocketscienceinc/p2p-tictactoe/internal/entity"

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseListening    Phase = "listening"
	PhaseDialing      Phase = "dialing"
	PhaseLinked       Phase = "linked"
	PhaseDisconnected Phase = "disconnected"
)

type ConnectionState string

const (
	Connected    ConnectionState = "connected"
	Disconnected ConnectionState = "disconnected"
)

// View is what the UI renders: a copy of the session state after an event.
type View struct {
	LocalID    string
	Endpoint   string
	Board      entity.Board
	Result     entity.Result
	Status     string
	Role       entity.Mark
	MyTurn     bool
	Connection ConnectionState
	Phase      Phase
	Cursor     int
	HistoryLen int
	Warning    string
}

func statusLine(result entity.Result, role entity.Mark) string {
	if result.IsTerminal() {
		return result.String()
	}

	return "You are: " + string(role)
}
