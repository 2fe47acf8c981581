package scene

import (
	"math"
	"time"
)

// Vec3 is a world-space position. Y is height and is ignored by every
// proximity and movement calculation.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceXZ is the distance between two points on the floor plane.
func (v Vec3) DistanceXZ(o Vec3) float64 {
	return math.Hypot(o.X-v.X, o.Z-v.Z)
}

type ZoneType string

const (
	ZoneDeveloper ZoneType = "developer"
	ZoneDesigner  ZoneType = "designer"
	ZonePM        ZoneType = "pm"
	ZoneData      ZoneType = "data"
	ZoneCommon    ZoneType = "common"
)

// Zones lists the role zones in layout order.
var Zones = []ZoneType{ZoneDeveloper, ZoneDesigner, ZonePM, ZoneData}

// ZoneFor derives the zone from the floor quadrant of p. Points on an axis
// belong to the common area.
func ZoneFor(p Vec3) ZoneType {
	switch {
	case p.X < 0 && p.Z < 0:
		return ZoneDeveloper
	case p.X > 0 && p.Z < 0:
		return ZoneDesigner
	case p.X < 0 && p.Z > 0:
		return ZonePM
	case p.X > 0 && p.Z > 0:
		return ZoneData
	default:
		return ZoneCommon
	}
}

// Object is an interactable desk.
type Object struct {
	ID                  string   `json:"id"`
	Position            Vec3     `json:"position"`
	Rotation            float64  `json:"rotation"`
	Type                ZoneType `json:"type"`
	InteractionDistance float64  `json:"interaction_distance"`
}

// Frame is what the renderer is asked to draw.
type Frame struct {
	Now         time.Time
	Player      Vec3
	Facing      float64
	Objects     []Object
	Nearby      []string
	Interaction string
}

// Renderer is the drawing collaborator. The scene calls Mount once, Draw
// every frame while mounted, and Close on teardown.
type Renderer interface {
	Mount(objects []Object, player Vec3) error
	Draw(frame Frame) error
	Close() error
}

// RoleSelector receives role requests from zone interactions.
type RoleSelector interface {
	SelectRole(roleID string) bool
}

// Publisher receives scene events. Delivery is best effort.
type Publisher interface {
	Publish(subject string, data []byte) error
}
