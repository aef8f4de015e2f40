// Package tui is the terminal front end of a session: it renders the board and
// turns key presses into move and connect requests.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/p2p-tictactoe/internal/entity"
	"github.com/rocketscienceinc/p2p-tictactoe/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	cellStyle = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center)

	freeCellStyle = cellStyle.
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type controller interface {
	Move(cell int)
	Connect(remoteID string)
}

type viewMsg session.View

// Model is the bubbletea model of the game screen.
type Model struct {
	ctrl       controller
	updates    <-chan session.View
	view       session.View
	input      textinput.Model
	connecting bool
}

func New(ctrl controller, updates <-chan session.View, initial session.View) *Model {
	ti := textinput.New()
	ti.Placeholder = "peer id or ws:// url"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Blur()

	return &Model{
		ctrl:    ctrl,
		updates: updates,
		view:    initial,
		input:   ti,
	}
}

func (that *Model) Init() tea.Cmd {
	return waitForView(that.updates)
}

// waitForView - blocks until the session publishes the next view.
func waitForView(updates <-chan session.View) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-updates
		if !ok {
			return nil
		}

		return viewMsg(view)
	}
}

func (that *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		that.view = session.View(msg)
		return that, waitForView(that.updates)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return that, tea.Quit
		}

		if that.connecting {
			return that.updateInput(msg)
		}

		switch key := msg.String(); key {
		case "q":
			return that, tea.Quit
		case "c":
			that.connecting = true
			return that, that.input.Focus()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			that.ctrl.Move(int(key[0] - '1'))
		}
	}

	return that, nil
}

func (that *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if remoteID := strings.TrimSpace(that.input.Value()); remoteID != "" {
			that.ctrl.Connect(remoteID)
		}
		that.stopInput()
		return that, nil

	case tea.KeyEsc:
		that.stopInput()
		return that, nil
	}

	var cmd tea.Cmd
	that.input, cmd = that.input.Update(msg)

	return that, cmd
}

func (that *Model) stopInput() {
	that.connecting = false
	that.input.SetValue("")
	that.input.Blur()
}

func (that *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic-tac-toe, peer " + that.view.LocalID))
	b.WriteString("\n")

	if that.view.Endpoint != "" {
		b.WriteString(helpStyle.Render("Endpoint: " + that.view.Endpoint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderBoard(that.view.Board))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render(that.view.Status))
	b.WriteString("\n")
	b.WriteString(turnLine(that.view))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Connection: %s (%s)\n", that.view.Connection, that.view.Phase)

	if that.view.Warning != "" {
		b.WriteString(warningStyle.Render(that.view.Warning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if that.connecting {
		b.WriteString(inputStyle.Render("Connect to > " + that.input.View()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Enter: connect • Esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("1-9: move • c: connect • q: quit"))
	}

	return b.String()
}

func turnLine(view session.View) string {
	switch {
	case view.Result.IsTerminal():
		return "Game over"
	case view.MyTurn:
		return "Your move"
	default:
		return "Waiting for the other player"
	}
}

// renderBoard - marks are shown as they are, free cells show the key that plays them.
func renderBoard(board entity.Board) string {
	rows := make([]string, 0, 3)

	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			if board[i] == entity.EmptyCell {
				cells = append(cells, freeCellStyle.Render(fmt.Sprint(i+1)))
			} else {
				cells = append(cells, cellStyle.Render(string(board[i])))
			}
		}

		rows = append(rows, strings.Join(cells, "|"))
	}

	return strings.Join(rows, "\n---+---+---\n")
}

// Run - shows the game screen until the user quits or ctx is done.
func Run(ctx context.Context, ctrl controller, updates <-chan session.View, initial session.View) error {
	program := tea.NewProgram(New(ctrl, updates, initial), tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	return nil
}
