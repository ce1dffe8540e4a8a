package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/benaskins/ztop/internal/dashboard"
)

// Plain writes frames as titled text blocks. It is used when stdout is not
// a terminal.
type Plain struct {
	w io.Writer
}

// NewPlain creates a plain renderer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) Render(frames [dashboard.NumPanes]dashboard.Frame) error {
	var b strings.Builder
	for _, f := range frames {
		fmt.Fprintf(&b, "== %s ==\n", f.Label)
		if f.Text != "" {
			b.WriteString(f.Text)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')

	_, err := io.WriteString(p.w, b.String())
	return err
}
