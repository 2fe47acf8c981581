package command

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/render"
	"github.com/pixil98/simwork/internal/scene"
)

type SceneConfig struct {
	MapWidth     int    `json:"map_width"`
	MapHeight    int    `json:"map_height"`
	MoveDuration string `json:"move_duration"`
}

func (c *SceneConfig) validate() error {
	el := errors.NewErrorList()

	if c.MapWidth < 0 {
		el.Add(fmt.Errorf("scene: map_width must not be negative"))
	}
	if c.MapHeight < 0 {
		el.Add(fmt.Errorf("scene: map_height must not be negative"))
	}
	if c.MoveDuration != "" {
		d, err := time.ParseDuration(c.MoveDuration)
		if err != nil {
			el.Add(fmt.Errorf("scene: parsing move_duration: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("scene: move_duration must be positive"))
		}
	}

	return el.Err()
}

// buildCanvas creates the offscreen map, coloring each zone like the role
// of the same id.
func (c *SceneConfig) buildCanvas(cat *catalog.Catalog) *render.Canvas {
	var opts []render.CanvasOpt
	for _, z := range scene.Zones {
		if r := cat.Role(string(z)); r != nil && r.Color != "" {
			opts = append(opts, render.WithZoneColor(z, tcell.GetColor(r.Color)))
		}
	}
	return render.NewOffscreen(c.MapWidth, c.MapHeight, opts...)
}

func (c *SceneConfig) sceneOpts() ([]scene.SceneOpt, error) {
	var opts []scene.SceneOpt
	if c.MoveDuration != "" {
		d, err := time.ParseDuration(c.MoveDuration)
		if err != nil {
			return nil, fmt.Errorf("parsing move_duration: %w", err)
		}
		opts = append(opts, scene.WithMoveDuration(d))
	}
	return opts, nil
}
