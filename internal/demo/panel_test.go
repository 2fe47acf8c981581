package demo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/driver"
	"github.com/pixil98/simwork/internal/progress"
	"github.com/pixil98/simwork/internal/scene"
	"github.com/pixil98/simwork/internal/scoring"
	"github.com/pixil98/simwork/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type nopRenderer struct{}

func (nopRenderer) Mount([]scene.Object, scene.Vec3) error { return nil }
func (nopRenderer) Draw(scene.Frame) error { return nil }
func (nopRenderer) Close() error { return nil }

type fixture struct {
	clock *fakeClock
	loop  *driver.Loop
	store *progress.Store
	scene *scene.Scene
	panel *Panel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	loop := driver.NewLoop(driver.WithClock(clock.Now))
	store := progress.NewStore(catalog.Builtin(), storage.NewMemoryKV(), progress.WithClock(clock.Now))
	sc := scene.NewScene(loop, scene.WithRenderer(nopRenderer{}), scene.WithRoleSelector(store))
	sc.InitializeScene()
	t.Cleanup(sc.Teardown)

	return &fixture{
		clock: clock,
		loop:  loop,
		store: store,
		scene: sc,
		panel: NewPanel(loop, store, sc, WithSeed(7)),
	}
}

func TestPanel_ClickZone(t *testing.T) {
	tests := map[string]struct {
		zone      scene.ZoneType
		expFound  bool
		expObject string
		expRole   string
	}{
		"zone with desks": {
			zone:      scene.ZoneDesigner,
			expFound:  true,
			expObject: "desk_4",
			expRole:   "designer",
		},
		"zone without desks": {
			zone: scene.ZoneCommon,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			obj, found := f.panel.ClickZone(tt.zone)
			testutil.AssertEqual(t, "found", found, tt.expFound)
			testutil.AssertEqual(t, "object", obj.ID, tt.expObject)
			testutil.AssertEqual(t, "visible", f.panel.Visible(), true)
			testutil.AssertEqual(t, "active zone", f.panel.ActiveZone(), tt.zone)

			role := ""
			if r := f.store.SelectedRole(); r != nil {
				role = r.ID
			}
			testutil.AssertEqual(t, "selected role", role, tt.expRole)
		})
	}
}

func TestPanel_CompleteTask(t *testing.T) {
	f := newFixture(t)

	f.panel.ClickZone(scene.ZoneDeveloper)
	if !f.store.StartTask(0) {
		t.Fatal("expected task to start")
	}
	f.clock.Advance(30 * time.Second)

	res, ok := f.panel.CompleteTask()
	testutil.AssertEqual(t, "completed", ok, true)
	testutil.AssertEqual(t, "score", res.Score, min(res.Accuracy+20, 100))
	testutil.AssertEqual(t, "message", res.Message, ResultMessage(res.Accuracy))
	testutil.AssertEqual(t, "store total", f.store.Progress().Score, res.Score)

	shown, ok := f.panel.Result()
	testutil.AssertEqual(t, "result shown", ok, true)
	testutil.AssertEqual(t, "shown result", shown, res)

	f.loop.Tick(f.clock.Advance(2999 * time.Millisecond))
	testutil.AssertEqual(t, "visible before timeout", f.panel.Visible(), true)

	f.loop.Tick(f.clock.Advance(time.Millisecond))
	_, ok = f.panel.Result()
	testutil.AssertEqual(t, "result after timeout", ok, false)
	testutil.AssertEqual(t, "visible after timeout", f.panel.Visible(), false)
}

func TestPanel_CompleteTaskWithoutTask(t *testing.T) {
	f := newFixture(t)
	f.panel.ClickZone(scene.ZonePM)

	_, ok := f.panel.CompleteTask()
	testutil.AssertEqual(t, "completed", ok, false)

	_, timers := f.loop.Pending()
	testutil.AssertEqual(t, "timers", timers, 0)
	testutil.AssertEqual(t, "tasks", len(f.store.Progress().CompletedTasks), 0)
}

func TestPanel_SecondSubmissionRestartsTimer(t *testing.T) {
	f := newFixture(t)
	f.panel.ClickZone(scene.ZoneData)

	f.store.StartTask(0)
	f.panel.CompleteTask()

	f.loop.Tick(f.clock.Advance(2 * time.Second))
	f.store.StartTask(1)
	f.panel.CompleteTask()

	f.loop.Tick(f.clock.Advance(time.Second))
	testutil.AssertEqual(t, "visible after first deadline", f.panel.Visible(), true)

	f.loop.Tick(f.clock.Advance(2 * time.Second))
	testutil.AssertEqual(t, "visible after second deadline", f.panel.Visible(), false)
}

func TestPanel_Close(t *testing.T) {
	f := newFixture(t)
	f.panel.ClickZone(scene.ZoneDeveloper)
	f.store.StartTask(0)
	f.panel.CompleteTask()

	f.panel.Close()
	f.panel.Close()
	f.loop.Tick(f.clock.Advance(5 * time.Second))

	testutil.AssertEqual(t, "still visible", f.panel.Visible(), true)
}

func TestPanel_MockResult(t *testing.T) {
	p := NewPanel(nil, nil, nil, WithSeed(42))

	for i := 0; i < 500; i++ {
		r := p.MockResult()
		acc := int(*r.Accuracy)
		if acc < 70 || acc > 99 {
			t.Fatalf("accuracy %d out of range", acc)
		}

		testutil.AssertEqual(t, "detail count", len(r.Details), 3)
		testutil.AssertEqual(t, "correct answers", detail(t, r, DetailCorrectAnswers), acc/10)
		testutil.AssertEqual(t, "total questions", detail(t, r, DetailTotalQuestions), 10)
		if spent := detail(t, r, DetailTimeSpent); spent < 60 || spent > 359 {
			t.Fatalf("time spent %d out of range", spent)
		}
	}
}

func TestPanel_MockResultDetailsAreFlat(t *testing.T) {
	p := NewPanel(nil, nil, nil, WithSeed(7))

	data, err := json.Marshal(p.MockResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var saved struct {
		Details map[string]json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{DetailCorrectAnswers, DetailTotalQuestions, DetailTimeSpent} {
		raw, ok := saved.Details[key]
		if !ok {
			t.Errorf("expected key %q in result details", key)
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			t.Errorf("%s: expected a number, got %s", key, raw)
		}
	}
	if _, nested := saved.Details["details"]; nested {
		t.Error("expected details to be flat")
	}
}

func detail(t *testing.T, r scoring.Result, key string) int {
	t.Helper()
	var n int
	found, err := r.Details.Get(key, &n)
	if err != nil || !found {
		t.Fatalf("reading %s: found=%v err=%v", key, found, err)
	}
	return n
}

func TestResultMessage(t *testing.T) {
	tests := map[string]struct {
		accuracy int
		exp      string
	}{
		"excellent":   {accuracy: 91, exp: MessageExcellent},
		"boundary 90": {accuracy: 90, exp: MessageGood},
		"good":        {accuracy: 81, exp: MessageGood},
		"boundary 80": {accuracy: 80, exp: MessageDone},
		"low":         {accuracy: 70, exp: MessageDone},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "message", ResultMessage(tt.accuracy), tt.exp)
		})
	}
}
