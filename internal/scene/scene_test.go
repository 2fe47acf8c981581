package scene

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/simwork/internal/driver"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newTestLoop() (*driver.Loop, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return driver.NewLoop(driver.WithClock(clock.Now)), clock
}

type fakeRenderer struct {
	mountErr   error
	mountPanic bool
	drawErr    error
	drawPanic  bool

	mounts int
	draws  []Frame
	closes int
}

func (r *fakeRenderer) Mount(objects []Object, player Vec3) error {
	r.mounts++
	if r.mountPanic {
		panic("no surface")
	}
	return r.mountErr
}

func (r *fakeRenderer) Draw(f Frame) error {
	if r.drawPanic {
		panic("lost surface")
	}
	if r.drawErr != nil {
		return r.drawErr
	}
	r.draws = append(r.draws, f)
	return nil
}

func (r *fakeRenderer) Close() error {
	r.closes++
	return nil
}

type recordingSelector struct {
	roles []string
}

func (r *recordingSelector) SelectRole(id string) bool {
	r.roles = append(r.roles, id)
	return true
}

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

func assertNear(t *testing.T, name string, got, exp float64) {
	t.Helper()
	if math.Abs(got-exp) > 1e-9 {
		t.Errorf("%s: got %v, expected %v", name, got, exp)
	}
}

func TestScene_InitializeScene(t *testing.T) {
	tests := map[string]struct {
		renderer   *fakeRenderer
		noRenderer bool
		expInit    bool
		expObjects int
		expCloses  int
	}{
		"mounts the office": {
			renderer:   &fakeRenderer{},
			expInit:    true,
			expObjects: 16,
		},
		"no renderer": {
			noRenderer: true,
		},
		"mount error": {
			renderer:  &fakeRenderer{mountErr: errors.New("no gpu")},
			expCloses: 1,
		},
		"mount panic": {
			renderer:  &fakeRenderer{mountPanic: true},
			expCloses: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loop, _ := newTestLoop()
			var opts []SceneOpt
			if !tt.noRenderer {
				opts = append(opts, WithRenderer(tt.renderer))
			}
			s := NewScene(loop, opts...)

			teardown := s.InitializeScene()
			if teardown == nil {
				t.Fatal("expected a teardown func")
			}

			testutil.AssertEqual(t, "initialized", s.Initialized(), tt.expInit)
			testutil.AssertEqual(t, "objects", len(s.Objects()), tt.expObjects)
			if tt.renderer != nil {
				testutil.AssertEqual(t, "closes", tt.renderer.closes, tt.expCloses)
			}

			frames, _ := loop.Pending()
			if tt.expInit {
				testutil.AssertEqual(t, "render frame scheduled", frames, 1)
			} else {
				testutil.AssertEqual(t, "render frame scheduled", frames, 0)
			}

			teardown()
		})
	}
}

func TestScene_InitializeTwice(t *testing.T) {
	loop, _ := newTestLoop()
	r := &fakeRenderer{}
	s := NewScene(loop, WithRenderer(r))

	s.InitializeScene()
	second := s.InitializeScene()
	second()

	testutil.AssertEqual(t, "mounts", r.mounts, 1)
	testutil.AssertEqual(t, "still initialized", s.Initialized(), true)
}

func TestScene_Layout(t *testing.T) {
	objs := OfficeLayout()

	counts := map[ZoneType]int{}
	for _, o := range objs {
		counts[o.Type]++
		testutil.AssertEqual(t, o.ID+" distance", o.InteractionDistance, DefaultInteractionDistance)
		testutil.AssertEqual(t, o.ID+" zone", o.Type, ZoneFor(o.Position))
	}

	testutil.AssertEqual(t, "first id", objs[0].ID, "desk_0")
	testutil.AssertEqual(t, "last id", objs[15].ID, "desk_15")
	for _, z := range Zones {
		testutil.AssertEqual(t, string(z)+" desks", counts[z], 4)
	}
}

func TestScene_LayoutZonesFromPosition(t *testing.T) {
	tests := map[string]struct {
		obj     Object
		expZone ZoneType
	}{
		"mislabelled desk": {
			obj:     Object{ID: "desk_a", Position: Vec3{X: -3, Z: -3}, Type: ZoneData},
			expZone: ZoneDeveloper,
		},
		"unlabelled desk": {
			obj:     Object{ID: "desk_b", Position: Vec3{X: 3, Z: -3}},
			expZone: ZoneDesigner,
		},
		"desk on an axis": {
			obj:     Object{ID: "desk_c", Position: Vec3{X: 0, Z: 4}, Type: ZonePM},
			expZone: ZoneCommon,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loop, _ := newTestLoop()
			s := NewScene(loop, WithRenderer(&fakeRenderer{}), WithLayout([]Object{tt.obj}))
			s.InitializeScene()

			objs := s.Objects()
			testutil.AssertEqual(t, "objects", len(objs), 1)
			testutil.AssertEqual(t, "zone", objs[0].Type, tt.expZone)
		})
	}
}

func TestScene_RenderLoop(t *testing.T) {
	loop, clock := newTestLoop()
	r := &fakeRenderer{}
	s := NewScene(loop, WithRenderer(r))
	s.InitializeScene()

	loop.Tick(clock.Advance(16 * time.Millisecond))
	loop.Tick(clock.Advance(16 * time.Millisecond))
	loop.Tick(clock.Advance(16 * time.Millisecond))

	testutil.AssertEqual(t, "draws", len(r.draws), 3)
	testutil.AssertEqual(t, "objects drawn", len(r.draws[2].Objects), 16)

	s.Teardown()
	loop.Tick(clock.Advance(16 * time.Millisecond))
	testutil.AssertEqual(t, "draws after teardown", len(r.draws), 3)
	testutil.AssertEqual(t, "closes", r.closes, 1)

	s.Teardown()
	testutil.AssertEqual(t, "closes after second teardown", r.closes, 1)
}

func TestScene_RenderFailureDegrades(t *testing.T) {
	tests := map[string]struct {
		renderer *fakeRenderer
	}{
		"draw error": {renderer: &fakeRenderer{drawErr: errors.New("context lost")}},
		"draw panic": {renderer: &fakeRenderer{drawPanic: true}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loop, clock := newTestLoop()
			s := NewScene(loop, WithRenderer(tt.renderer))
			s.InitializeScene()

			loop.Tick(clock.Advance(16 * time.Millisecond))

			testutil.AssertEqual(t, "degraded", s.Degraded(), true)
			testutil.AssertEqual(t, "objects", len(s.Objects()), 0)
			testutil.AssertEqual(t, "interactions", len(s.CheckInteractions()), 0)
			testutil.AssertEqual(t, "closes", tt.renderer.closes, 1)

			s.MovePlayerTo(Vec3{X: 3, Z: 3})
			testutil.AssertEqual(t, "player", s.PlayerPosition(), Vec3{})

			frames, _ := loop.Pending()
			testutil.AssertEqual(t, "pending frames", frames, 0)

			s.Teardown()
			testutil.AssertEqual(t, "closes after teardown", tt.renderer.closes, 1)
		})
	}
}

func TestScene_MovePlayerTo(t *testing.T) {
	loop, clock := newTestLoop()
	var observed []Vec3
	s := NewScene(loop,
		WithRenderer(&fakeRenderer{}),
		WithPositionObserver(func(p Vec3) { observed = append(observed, p) }),
	)
	s.InitializeScene()

	s.MovePlayerTo(Vec3{X: 4, Y: 9, Z: 0})
	testutil.AssertEqual(t, "first step is synchronous", len(observed), 1)
	testutil.AssertEqual(t, "start position", s.PlayerPosition(), Vec3{})
	assertNear(t, "facing", s.Facing(), math.Pi/2)
	testutil.AssertEqual(t, "moving", s.Moving(), true)

	loop.Tick(clock.Advance(500 * time.Millisecond))
	assertNear(t, "half way x", s.PlayerPosition().X, 2)
	testutil.AssertEqual(t, "y untouched", s.PlayerPosition().Y, 0.0)

	loop.Tick(clock.Advance(600 * time.Millisecond))
	testutil.AssertEqual(t, "arrived", s.PlayerPosition(), Vec3{X: 4})
	testutil.AssertEqual(t, "moving after arrival", s.Moving(), false)

	loop.Tick(clock.Advance(16 * time.Millisecond))
	testutil.AssertEqual(t, "no steps after arrival", len(observed), 3)
}

func TestScene_MoveToSamePointKeepsFacing(t *testing.T) {
	loop, _ := newTestLoop()
	s := NewScene(loop, WithRenderer(&fakeRenderer{}))
	s.InitializeScene()

	s.MovePlayerTo(Vec3{Z: -1})
	assertNear(t, "facing", s.Facing(), math.Pi)

	s.MovePlayerTo(s.PlayerPosition())
	assertNear(t, "facing after zero move", s.Facing(), math.Pi)
}

func TestScene_OverlappingMoves(t *testing.T) {
	loop, clock := newTestLoop()
	s := NewScene(loop, WithRenderer(&fakeRenderer{}))
	s.InitializeScene()

	s.MovePlayerTo(Vec3{X: 10})
	loop.Tick(clock.Advance(500 * time.Millisecond))
	s.MovePlayerTo(Vec3{Z: 10})

	frames, _ := loop.Pending()
	testutil.AssertEqual(t, "both moves plus render pending", frames, 3)

	loop.Tick(clock.Advance(2 * time.Second))
	testutil.AssertEqual(t, "moving", s.Moving(), false)
}

func TestScene_TeardownCancelsMovement(t *testing.T) {
	loop, clock := newTestLoop()
	var observed int
	s := NewScene(loop,
		WithRenderer(&fakeRenderer{}),
		WithPositionObserver(func(Vec3) { observed++ }),
	)
	s.InitializeScene()

	s.MovePlayerTo(Vec3{X: 4})
	s.Teardown()
	loop.Tick(clock.Advance(100 * time.Millisecond))

	testutil.AssertEqual(t, "observed", observed, 1)
	frames, _ := loop.Pending()
	testutil.AssertEqual(t, "pending frames", frames, 0)
}

func TestScene_CheckInteractions(t *testing.T) {
	tests := map[string]struct {
		distance float64
		expIDs   []string
	}{
		"within reach": {
			distance: 2,
			expIDs:   []string{"desk_a"},
		},
		"out of reach": {
			distance: 1,
			expIDs:   []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			loop, _ := newTestLoop()
			s := NewScene(loop,
				WithRenderer(&fakeRenderer{}),
				WithLayout([]Object{
					{ID: "desk_a", Position: Vec3{X: 1, Z: 1}, Type: ZoneData, InteractionDistance: tt.distance},
					{ID: "desk_b", Position: Vec3{X: 9, Z: 9}, Type: ZoneData, InteractionDistance: 2},
				}),
			)

			testutil.AssertEqual(t, "before init", len(s.CheckInteractions()), 0)

			s.InitializeScene()

			got := []string{}
			for _, o := range s.CheckInteractions() {
				got = append(got, o.ID)
			}
			testutil.AssertEqual(t, "nearby", strings.Join(got, ","), strings.Join(tt.expIDs, ","))
		})
	}
}

func TestScene_SetInteractionDistance(t *testing.T) {
	loop, _ := newTestLoop()
	s := NewScene(loop,
		WithRenderer(&fakeRenderer{}),
		WithLayout([]Object{{ID: "desk_a", Position: Vec3{X: 1, Z: 1}, InteractionDistance: 2}}),
	)
	s.InitializeScene()

	testutil.AssertEqual(t, "near at 2", len(s.CheckInteractions()), 1)
	testutil.AssertEqual(t, "updated", s.SetInteractionDistance("desk_a", 1), true)
	testutil.AssertEqual(t, "near at 1", len(s.CheckInteractions()), 0)
	testutil.AssertEqual(t, "unknown id", s.SetInteractionDistance("desk_z", 1), false)
}

func TestScene_InteractWith(t *testing.T) {
	loop, clock := newTestLoop()
	roles := &recordingSelector{}
	pub := &recordingPublisher{}
	r := &fakeRenderer{}
	s := NewScene(loop, WithRenderer(r), WithRoleSelector(roles), WithPublisher(pub))
	s.InitializeScene()

	obj, ok := s.InteractWith("desk_12")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "zone", obj.Type, ZoneData)
	testutil.AssertEqual(t, "roles", strings.Join(roles.roles, ","), "data")

	cur, ok := s.CurrentInteraction()
	testutil.AssertEqual(t, "current set", ok, true)
	testutil.AssertEqual(t, "current id", cur.ID, "desk_12")

	testutil.AssertEqual(t, "subjects", strings.Join(pub.subjects, ","), SubjectInteraction)
	var ev interactionEvent
	if err := json.Unmarshal(pub.payloads[0], &ev); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	testutil.AssertEqual(t, "event object", ev.ObjectId, "desk_12")
	if ev.Id == "" {
		t.Error("expected event id")
	}

	loop.Tick(clock.Advance(time.Second))
	testutil.AssertEqual(t, "player at desk", s.PlayerPosition(), Vec3{X: 5, Z: 5})

	loop.Tick(clock.Advance(16 * time.Millisecond))
	testutil.AssertEqual(t, "drawn interaction", r.draws[len(r.draws)-1].Interaction, "desk_12")

	nearby := r.draws[len(r.draws)-1].Nearby
	testutil.AssertEqual(t, "nearby after arrival", len(nearby) > 0, true)
}

func TestScene_InteractWithUnknown(t *testing.T) {
	loop, _ := newTestLoop()
	roles := &recordingSelector{}
	s := NewScene(loop, WithRenderer(&fakeRenderer{}), WithRoleSelector(roles))
	s.InitializeScene()

	_, ok := s.InteractWith("desk_99")
	testutil.AssertEqual(t, "found", ok, false)
	testutil.AssertEqual(t, "roles", len(roles.roles), 0)

	_, ok = s.CurrentInteraction()
	testutil.AssertEqual(t, "current", ok, false)
}

func TestScene_FindByType(t *testing.T) {
	loop, _ := newTestLoop()
	s := NewScene(loop, WithRenderer(&fakeRenderer{}))

	_, ok := s.FindByType(ZonePM)
	testutil.AssertEqual(t, "before init", ok, false)

	s.InitializeScene()
	obj, ok := s.FindByType(ZonePM)
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "first pm desk", obj.ID, "desk_8")

	_, ok = s.FindByType(ZoneCommon)
	testutil.AssertEqual(t, "common", ok, false)
}
