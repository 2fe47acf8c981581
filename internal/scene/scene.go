package scene

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/simwork/internal/driver"
)

const (
	DefaultMoveDuration = time.Second

	SubjectInteraction = "simwork.scene.interaction"
)

// FrameScheduler runs per-frame callbacks. driver.Loop implements it.
type FrameScheduler interface {
	RequestFrame(fn driver.FrameFunc) driver.Handle
	Now() time.Time
}

// Scene owns the player, the interactable desks and the render loop. Like
// progress.Store it is confined to the frame scheduler's goroutine.
//
// Failures in the renderer never escape: a failed mount leaves the scene
// uninitialized, and a failed frame degrades it to an inert surface with no
// objects and no movement.
type Scene struct {
	frames       FrameScheduler
	renderer     Renderer
	roles        RoleSelector
	pub          Publisher
	onMove       func(Vec3)
	layout       []Object
	moveDuration time.Duration

	initialized bool
	degraded    bool
	objects     []Object
	player      Vec3
	facing      float64
	current     *Object

	renderHandle driver.Handle
	animations   map[*animation]driver.Handle
}

type SceneOpt func(*Scene)

// WithRenderer sets the mount surface. Without one InitializeScene does
// nothing.
func WithRenderer(r Renderer) SceneOpt {
	return func(s *Scene) {
		s.renderer = r
	}
}

// WithRoleSelector sets where zone interactions send role requests.
func WithRoleSelector(r RoleSelector) SceneOpt {
	return func(s *Scene) {
		s.roles = r
	}
}

// WithPublisher attaches an event publisher for interactions.
func WithPublisher(p Publisher) SceneOpt {
	return func(s *Scene) {
		s.pub = p
	}
}

// WithPositionObserver is called with the player position on every
// movement frame.
func WithPositionObserver(fn func(Vec3)) SceneOpt {
	return func(s *Scene) {
		s.onMove = fn
	}
}

// WithLayout replaces the office layout. Each object's zone is derived
// from its position and any Type already set is overwritten.
func WithLayout(objs []Object) SceneOpt {
	return func(s *Scene) {
		s.layout = slices.Clone(objs)
		for i := range s.layout {
			s.layout[i].Type = ZoneFor(s.layout[i].Position)
		}
	}
}

// WithMoveDuration sets how long MovePlayerTo takes.
func WithMoveDuration(d time.Duration) SceneOpt {
	return func(s *Scene) {
		if d > 0 {
			s.moveDuration = d
		}
	}
}

func NewScene(frames FrameScheduler, opts ...SceneOpt) *Scene {
	s := &Scene{
		frames:       frames,
		layout:       OfficeLayout(),
		moveDuration: DefaultMoveDuration,
		animations:   map[*animation]driver.Handle{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// InitializeScene mounts the renderer, places the desks and the player and
// starts the render loop. It returns a teardown func. If the scene is
// already initialized, has no renderer, or mounting fails, nothing is
// changed and the returned func does nothing.
func (s *Scene) InitializeScene() (teardown func()) {
	noop := func() {}
	if s.initialized || s.renderer == nil {
		return noop
	}

	objects := slices.Clone(s.layout)
	var player Vec3

	if err := s.mount(objects, player); err != nil {
		slog.Error("initializing scene", "error", err)
		if cerr := s.renderer.Close(); cerr != nil {
			slog.Warn("closing renderer after failed mount", "error", cerr)
		}
		return noop
	}

	s.initialized = true
	s.degraded = false
	s.objects = objects
	s.player = player
	s.facing = 0
	s.current = nil
	s.renderHandle = s.frames.RequestFrame(s.renderFrame)

	return s.Teardown
}

func (s *Scene) mount(objects []Object, player Vec3) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	return s.renderer.Mount(objects, player)
}

func (s *Scene) renderFrame(now time.Time) {
	if !s.initialized || s.degraded {
		return
	}

	if err := s.draw(now); err != nil {
		s.degrade(err)
		return
	}

	s.renderHandle = s.frames.RequestFrame(s.renderFrame)
}

func (s *Scene) draw(now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()

	nearby := s.CheckInteractions()
	ids := make([]string, len(nearby))
	for i, o := range nearby {
		ids[i] = o.ID
	}

	frame := Frame{
		Now:     now,
		Player:  s.player,
		Facing:  s.facing,
		Objects: s.objects,
		Nearby:  ids,
	}
	if s.current != nil {
		frame.Interaction = s.current.ID
	}

	return s.renderer.Draw(frame)
}

// degrade turns the scene into an inert surface after a render failure.
func (s *Scene) degrade(err error) {
	slog.Error("rendering scene frame, disabling scene", "error", err)

	s.degraded = true
	s.cancelFrames()
	s.objects = nil
	s.current = nil

	if cerr := s.renderer.Close(); cerr != nil {
		slog.Warn("closing renderer", "error", cerr)
	}
}

func (s *Scene) cancelFrames() {
	s.renderHandle.Cancel()
	for a, h := range s.animations {
		h.Cancel()
		delete(s.animations, a)
	}
}

// Teardown stops the render loop and any movement in flight and releases
// the renderer. It is safe to call repeatedly.
func (s *Scene) Teardown() {
	if !s.initialized {
		return
	}

	s.cancelFrames()
	if !s.degraded {
		if err := s.renderer.Close(); err != nil {
			slog.Warn("closing renderer", "error", err)
		}
	}

	s.initialized = false
	s.degraded = false
	s.objects = nil
	s.current = nil
}

// animation moves the player between two floor points.
type animation struct {
	from, to Vec3
	start    time.Time
	duration time.Duration
}

// MovePlayerTo glides the player to target over the move duration. Only X
// and Z are interpolated. Facing is set once from the movement vector; a
// zero-length move keeps the previous facing.
//
// A call made while another move is in flight starts from the current
// position and does not cancel the earlier move. Both keep writing the
// position each frame until they finish.
func (s *Scene) MovePlayerTo(target Vec3) {
	if !s.initialized || s.degraded {
		return
	}

	a := &animation{
		from:     s.player,
		to:       target,
		start:    s.frames.Now(),
		duration: s.moveDuration,
	}

	dx, dz := a.to.X-a.from.X, a.to.Z-a.from.Z
	if dx != 0 || dz != 0 {
		s.facing = math.Atan2(dx, dz)
	}

	s.step(a, a.start)
}

func (s *Scene) step(a *animation, now time.Time) {
	delete(s.animations, a)
	if !s.initialized || s.degraded {
		return
	}

	progress := math.Min(float64(now.Sub(a.start))/float64(a.duration), 1)
	if progress < 0 {
		progress = 0
	}

	s.player.X = a.from.X + (a.to.X-a.from.X)*progress
	s.player.Z = a.from.Z + (a.to.Z-a.from.Z)*progress

	if s.onMove != nil {
		s.onMove(s.player)
	}

	if progress < 1 {
		s.animations[a] = s.frames.RequestFrame(func(now time.Time) { s.step(a, now) })
	}
}

// Moving reports whether any movement is in flight.
func (s *Scene) Moving() bool {
	return len(s.animations) > 0
}

// CheckInteractions returns the objects whose interaction distance reaches
// the player on the floor plane.
func (s *Scene) CheckInteractions() []Object {
	near := []Object{}
	if !s.initialized || s.degraded {
		return near
	}

	for _, o := range s.objects {
		if s.player.DistanceXZ(o.Position) <= o.InteractionDistance {
			near = append(near, o)
		}
	}
	return near
}

// InteractWith walks the player to the object, records it as the current
// interaction and asks for the object's zone role to be selected.
func (s *Scene) InteractWith(objectID string) (Object, bool) {
	idx := slices.IndexFunc(s.objects, func(o Object) bool { return o.ID == objectID })
	if idx < 0 {
		return Object{}, false
	}
	obj := s.objects[idx]

	s.MovePlayerTo(obj.Position)
	s.current = &obj

	if obj.Type != "" && s.roles != nil {
		s.roles.SelectRole(string(obj.Type))
	}

	s.publishInteraction(obj)
	return obj, true
}

// FindByType returns the first object in the given zone.
func (s *Scene) FindByType(zone ZoneType) (Object, bool) {
	idx := slices.IndexFunc(s.objects, func(o Object) bool { return o.Type == zone })
	if idx < 0 {
		return Object{}, false
	}
	return s.objects[idx], true
}

// SetInteractionDistance changes the reach of one object.
func (s *Scene) SetInteractionDistance(objectID string, d float64) bool {
	idx := slices.IndexFunc(s.objects, func(o Object) bool { return o.ID == objectID })
	if idx < 0 {
		return false
	}
	s.objects[idx].InteractionDistance = d
	return true
}

func (s *Scene) Objects() []Object {
	return slices.Clone(s.objects)
}

func (s *Scene) PlayerPosition() Vec3 {
	return s.player
}

// Facing is the player's heading in radians, as atan2(dx, dz).
func (s *Scene) Facing() float64 {
	return s.facing
}

// CurrentInteraction returns the last object interacted with.
func (s *Scene) CurrentInteraction() (Object, bool) {
	if s.current == nil {
		return Object{}, false
	}
	return *s.current, true
}

func (s *Scene) Initialized() bool {
	return s.initialized
}

func (s *Scene) Degraded() bool {
	return s.degraded
}

type interactionEvent struct {
	Id       string    `json:"id"`
	At       time.Time `json:"at"`
	ObjectId string    `json:"object_id"`
	Zone     ZoneType  `json:"zone"`
	Position Vec3      `json:"position"`
}

func (s *Scene) publishInteraction(obj Object) {
	if s.pub == nil {
		return
	}

	data, err := json.Marshal(interactionEvent{
		Id:       uuid.New().String(),
		At:       s.frames.Now(),
		ObjectId: obj.ID,
		Zone:     obj.Type,
		Position: obj.Position,
	})
	if err != nil {
		slog.Warn("marshalling interaction event", "error", err)
		return
	}

	if err := s.pub.Publish(SubjectInteraction, data); err != nil {
		slog.Warn("publishing interaction event", "error", err)
	}
}
