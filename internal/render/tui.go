// Package render draws dashboard frames to the terminal.
package render

import (
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benaskins/ztop/internal/dashboard"
)

// ErrClosed is returned by Render after the TUI has exited.
var ErrClosed = errors.New("renderer closed")

type framesMsg [dashboard.NumPanes]dashboard.Frame

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// model holds the latest frames and the terminal size.
type model struct {
	frames   [dashboard.NumPanes]dashboard.Frame
	width    int
	height   int
	keys     keyMap
	onQuit   func()
	quitting bool
}

func newModel(onQuit func()) model {
	return model{keys: defaultKeyMap(), onQuit: onQuit}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case framesMsg:
		m.frames = msg
	case tea.KeyMsg:
		// The terminal is in raw mode, so ctrl+c arrives here instead of as SIGINT.
		if key.Matches(msg, m.keys.Quit) && !m.quitting {
			m.quitting = true
			if m.onQuit != nil {
				onQuit := m.onQuit
				return m, func() tea.Msg {
					onQuit()
					return nil
				}
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return Grid(m.frames, m.width, m.height)
}

// TUI is a full-screen renderer backed by a bubbletea program.
type TUI struct {
	program *tea.Program
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewTUI creates the renderer. onQuit runs when the user presses q or ctrl+c.
func NewTUI(onQuit func(), opts ...tea.ProgramOption) *TUI {
	// Termination signals belong to the dashboard.
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, opts...)
	return &TUI{
		program: tea.NewProgram(newModel(onQuit), opts...),
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background.
func (t *TUI) Start() {
	go func() {
		defer close(t.done)
		_, err := t.program.Run()
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()
}

// Done is closed once the program has exited.
func (t *TUI) Done() <-chan struct{} {
	return t.done
}

// Render posts the frames to the program.
func (t *TUI) Render(frames [dashboard.NumPanes]dashboard.Frame) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	t.program.Send(framesMsg(frames))
	return nil
}

// Close stops the program, restores the terminal and returns the program's error.
func (t *TUI) Close() error {
	t.program.Quit()
	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()
	if errors.Is(t.err, tea.ErrProgramKilled) {
		return nil
	}
	return t.err
}
