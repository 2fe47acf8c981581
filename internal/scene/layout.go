package scene

import (
	"fmt"
	"math"
)

const DefaultInteractionDistance = 2.0

type desk struct {
	pos Vec3
	rot float64
}

// officeDesks is four desks per quadrant, one quadrant per role zone.
var officeDesks = []desk{
	// developer
	{Vec3{X: -5, Z: -5}, math.Pi / 4},
	{Vec3{X: -8, Z: -5}, math.Pi / 4},
	{Vec3{X: -5, Z: -8}, math.Pi / 4},
	{Vec3{X: -8, Z: -8}, math.Pi / 4},
	// designer
	{Vec3{X: 5, Z: -5}, -math.Pi / 4},
	{Vec3{X: 8, Z: -5}, -math.Pi / 4},
	{Vec3{X: 5, Z: -8}, -math.Pi / 4},
	{Vec3{X: 8, Z: -8}, -math.Pi / 4},
	// pm
	{Vec3{X: -5, Z: 5}, -math.Pi / 4},
	{Vec3{X: -8, Z: 5}, -math.Pi / 4},
	{Vec3{X: -5, Z: 8}, -math.Pi / 4},
	{Vec3{X: -8, Z: 8}, -math.Pi / 4},
	// data
	{Vec3{X: 5, Z: 5}, math.Pi / 4},
	{Vec3{X: 8, Z: 5}, math.Pi / 4},
	{Vec3{X: 5, Z: 8}, math.Pi / 4},
	{Vec3{X: 8, Z: 8}, math.Pi / 4},
}

// OfficeLayout returns the interactable desks of the office floor.
func OfficeLayout() []Object {
	objs := make([]Object, len(officeDesks))
	for i, d := range officeDesks {
		objs[i] = Object{
			ID:                  fmt.Sprintf("desk_%d", i),
			Position:            d.pos,
			Rotation:            d.rot,
			Type:                ZoneFor(d.pos),
			InteractionDistance: DefaultInteractionDistance,
		}
	}
	return objs
}
