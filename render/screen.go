package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/tanks/core"
)

// Screen is the minimal surface cmd/tanks-client draws against,
// decoupled from tcell so the world/rail/ship packages never import a
// rendering library directly.
type Screen interface {
	Clear()
	SetCell(x, y int, ch rune, fg core.RGB)
	Size() (w, h int)
	Show()
	PollEvent() tcell.Event
	Fini()
}

// TCellScreen is the concrete tcell-backed Screen.
type TCellScreen struct {
	screen tcell.Screen
	mode   ColorMode
}

// NewTCellScreen initializes and returns a ready-to-use screen.
func NewTCellScreen() (*TCellScreen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return &TCellScreen{screen: s, mode: DetectColorMode()}, nil
}

func (t *TCellScreen) Clear() { t.screen.Clear() }

func (t *TCellScreen) SetCell(x, y int, ch rune, fg core.RGB) {
	style := tcell.StyleDefault.Foreground(tcellColor(fg, t.mode))
	t.screen.SetContent(x, y, ch, nil, style)
}

func (t *TCellScreen) Size() (int, int)        { return t.screen.Size() }
func (t *TCellScreen) Show()                   { t.screen.Show() }
func (t *TCellScreen) PollEvent() tcell.Event   { return t.screen.PollEvent() }
func (t *TCellScreen) Fini()                    { t.screen.Fini() }
