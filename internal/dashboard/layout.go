package dashboard

import "github.com/benaskins/ztop/internal/driver"

// PaneID identifies one of the four fixed grid cells.
type PaneID int

const (
	CPU PaneID = iota
	Memory
	System
	Containers

	// NumPanes is the size of the grid.
	NumPanes = 4
)

func (id PaneID) String() string {
	switch id {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case System:
		return "system"
	case Containers:
		return "containers"
	}
	return "unknown"
}

// Style holds terminal colors for a pane as ANSI color numbers.
type Style struct {
	Text   string
	Border string
}

// PaneDef is the fixed definition of a grid cell.
type PaneDef struct {
	ID      PaneID
	Label   string
	Command driver.Command
	Style   Style
}

var defs = [NumPanes]PaneDef{
	CPU: {
		ID:      CPU,
		Label:   "htop (CPU Order)",
		Command: driver.Cmd("htop", "--sort-key", "PERCENT_CPU"),
		Style:   Style{Text: "2", Border: "12"}, // green on bright blue
	},
	Memory: {
		ID:      Memory,
		Label:   "htop (Memory Order)",
		Command: driver.Cmd("htop", "--sort-key", "PERCENT_MEM"),
		Style:   Style{Text: "3", Border: "11"}, // yellow on bright yellow
	},
	System: {
		ID:      System,
		Label:   "mactop",
		Command: driver.Cmd("mactop"),
		Style:   Style{Text: "6", Border: "14"}, // cyan on bright cyan
	},
	Containers: {
		ID:      Containers,
		Label:   "ctop",
		Command: driver.Cmd("ctop"),
		Style:   Style{Text: "5", Border: "13"}, // magenta on bright magenta
	},
}

// Layout returns the four pane definitions indexed by PaneID.
func Layout() [NumPanes]PaneDef {
	return defs
}
