package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pixil98/simwork/internal/scene"
)

const (
	DefaultWidth  = 41
	DefaultHeight = 21

	// DefaultExtent is the distance from the origin to the floor edge.
	DefaultExtent = 10.0

	glyphFloor   = '.'
	glyphDesk    = '#'
	glyphNear    = '*'
	glyphPlayer  = '@'
	glyphDivider = '+'
)

var ErrNotMounted = errors.New("canvas not mounted")

var defaultZoneColors = map[scene.ZoneType]tcell.Color{
	scene.ZoneDeveloper: tcell.ColorBlue,
	scene.ZoneDesigner:  tcell.ColorPurple,
	scene.ZonePM:        tcell.ColorGreen,
	scene.ZoneData:      tcell.ColorYellow,
	scene.ZoneCommon:    tcell.ColorGray,
}

// Canvas draws a top-down view of the office into a tcell screen: the floor
// as dots, desks colored by zone, and the player. Desks within reach are
// drawn as '*' and the current interaction is drawn reversed.
type Canvas struct {
	screen  tcell.Screen
	extent  float64
	colors  map[scene.ZoneType]tcell.Color
	mounted bool
	closed  bool
}

type CanvasOpt func(*Canvas)

// WithExtent sets the world distance from the origin to each map edge.
func WithExtent(e float64) CanvasOpt {
	return func(c *Canvas) {
		if e > 0 {
			c.extent = e
		}
	}
}

// WithZoneColor overrides the desk color of a zone.
func WithZoneColor(zone scene.ZoneType, color tcell.Color) CanvasOpt {
	return func(c *Canvas) {
		c.colors[zone] = color
	}
}

func NewCanvas(screen tcell.Screen, opts ...CanvasOpt) *Canvas {
	c := &Canvas{
		screen: screen,
		extent: DefaultExtent,
		colors: map[scene.ZoneType]tcell.Color{},
	}
	for z, col := range defaultZoneColors {
		c.colors[z] = col
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewOffscreen returns a canvas backed by an in-memory screen of the given
// size.
func NewOffscreen(width, height int, opts ...CanvasOpt) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	scr := tcell.NewSimulationScreen("")
	return NewCanvas(&sizedScreen{SimulationScreen: scr, width: width, height: height}, opts...)
}

// sizedScreen applies its size once the simulation screen is initialized.
type sizedScreen struct {
	tcell.SimulationScreen
	width, height int
}

func (s *sizedScreen) Init() error {
	if err := s.SimulationScreen.Init(); err != nil {
		return err
	}
	s.SetSize(s.width, s.height)
	return nil
}

func (c *Canvas) Mount(objects []scene.Object, player scene.Vec3) error {
	if c.closed {
		return fmt.Errorf("mounting canvas: screen already released")
	}
	if c.mounted {
		return nil
	}

	if err := c.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	c.mounted = true

	return c.Draw(scene.Frame{Player: player, Objects: objects})
}

func (c *Canvas) Draw(f scene.Frame) error {
	if !c.mounted {
		return ErrNotMounted
	}

	w, h := c.screen.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("screen has no area (%dx%d)", w, h)
	}

	floor := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	midX, midY := w/2, h/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch := glyphFloor
			if x == midX && y == midY {
				ch = glyphDivider
			}
			c.screen.SetContent(x, y, ch, nil, floor)
		}
	}

	near := make(map[string]bool, len(f.Nearby))
	for _, id := range f.Nearby {
		near[id] = true
	}

	for _, o := range f.Objects {
		x, y, ok := c.cell(o.Position, w, h)
		if !ok {
			continue
		}

		style := tcell.StyleDefault.Foreground(c.colors[o.Type])
		ch := glyphDesk
		if near[o.ID] {
			ch = glyphNear
			style = style.Bold(true)
		}
		if o.ID == f.Interaction {
			style = style.Reverse(true)
		}
		c.screen.SetContent(x, y, ch, nil, style)
	}

	if x, y, ok := c.cell(f.Player, w, h); ok {
		c.screen.SetContent(x, y, glyphPlayer, nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	}

	c.screen.Show()
	return nil
}

// cell maps a floor position to a screen cell. X runs left to right and Z
// runs top to bottom.
func (c *Canvas) cell(p scene.Vec3, w, h int) (int, int, bool) {
	x := int(math.Round((p.X + c.extent) / (2 * c.extent) * float64(w-1)))
	y := int(math.Round((p.Z + c.extent) / (2 * c.extent) * float64(h-1)))
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func (c *Canvas) Close() error {
	if c.mounted && !c.closed {
		c.screen.Fini()
	}
	c.mounted = false
	c.closed = true
	return nil
}

func (c *Canvas) Mounted() bool {
	return c.mounted
}

// Snapshot returns the screen contents as text, one line per row. It is
// empty unless the canvas is mounted on a simulation screen.
func (c *Canvas) Snapshot() string {
	if !c.mounted {
		return ""
	}

	sim, ok := c.screen.(tcell.SimulationScreen)
	if !ok {
		return ""
	}

	cells, width, _ := sim.GetContents()
	if width == 0 {
		return ""
	}

	var sb strings.Builder
	var line bytes.Buffer
	for i, cell := range cells {
		if i > 0 && i%width == 0 {
			sb.WriteString(strings.TrimRight(line.String(), " "))
			sb.WriteByte('\n')
			line.Reset()
		}
		if len(cell.Bytes) == 0 {
			line.WriteByte(' ')
			continue
		}
		line.Write(cell.Bytes)
	}
	sb.WriteString(strings.TrimRight(line.String(), " "))
	sb.WriteByte('\n')

	return sb.String()
}
