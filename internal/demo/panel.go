// Package demo drives the task panel of the office demo: zone shortcuts,
// mock task submissions and the transient result display.
package demo

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pixil98/simwork/internal/driver"
	"github.com/pixil98/simwork/internal/progress"
	"github.com/pixil98/simwork/internal/scene"
	"github.com/pixil98/simwork/internal/scoring"
)

const (
	// ResultDisplayTime is how long a result stays up before the panel hides.
	ResultDisplayTime = 3 * time.Second

	MinMockAccuracy  = 70
	MockAccuracySpan = 30

	MinMockTimeSpent  = 60
	MockTimeSpentSpan = 300

	MockTotalQuestions = 10
)

const (
	MessageExcellent = "Excellent work! You completed the task with high accuracy."
	MessageGood      = "Good job! You completed the task successfully."
	MessageDone      = "Task completed. There's room for improvement."
)

// Timers schedules delayed callbacks. driver.Loop implements it.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) driver.Handle
}

// Tasks is the part of the progress store the panel drives.
type Tasks interface {
	CurrentTask() *progress.CurrentTask
	CompleteTask(result scoring.Result) int
}

// Zones is the part of the scene the panel drives.
type Zones interface {
	FindByType(zone scene.ZoneType) (scene.Object, bool)
	InteractWith(objectID string) (scene.Object, bool)
}

// Keys of the diagnostic values attached to a mock result.
const (
	DetailCorrectAnswers = "correctAnswers"
	DetailTotalQuestions = "totalQuestions"
	DetailTimeSpent      = "timeSpent"
)

// TaskResult is what the panel shows after a submission.
type TaskResult struct {
	Score    int
	Accuracy int
	Message  string
}

// Panel is confined to the loop goroutine like the store and scene it
// drives.
type Panel struct {
	timers Timers
	tasks  Tasks
	zones  Zones
	rng    *rand.Rand

	visible    bool
	activeZone scene.ZoneType
	result     *TaskResult
	hide       driver.Handle
}

type PanelOpt func(*Panel)

// WithSeed makes mock results reproducible.
func WithSeed(seed uint64) PanelOpt {
	return func(p *Panel) {
		p.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

func NewPanel(timers Timers, tasks Tasks, zones Zones, opts ...PanelOpt) *Panel {
	p := &Panel{
		timers: timers,
		tasks:  tasks,
		zones:  zones,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ClickZone walks to the first desk of zone, which selects its role, and
// opens the panel. A zone with no desk only opens the panel.
func (p *Panel) ClickZone(zone scene.ZoneType) (scene.Object, bool) {
	var obj scene.Object
	found := false
	if p.zones != nil {
		if o, ok := p.zones.FindByType(zone); ok {
			obj, found = p.zones.InteractWith(o.ID)
		}
	}

	p.activeZone = zone
	p.visible = true
	return obj, found
}

// MockResult generates a plausible result for a submitted task.
func (p *Panel) MockResult() scoring.Result {
	accuracy := MinMockAccuracy + p.rng.IntN(MockAccuracySpan)

	result := scoring.Result{Accuracy: scoring.Accuracy(float64(accuracy))}
	details := []struct {
		key string
		val int
	}{
		{DetailCorrectAnswers, accuracy / 10},
		{DetailTotalQuestions, MockTotalQuestions},
		{DetailTimeSpent, MinMockTimeSpent + p.rng.IntN(MockTimeSpentSpan)},
	}
	for _, d := range details {
		if err := result.Details.Set(d.key, d.val); err != nil {
			slog.Warn("attaching mock result detail", "key", d.key, "error", err)
		}
	}

	return result
}

// CompleteTask submits a mock result for the in-flight task and shows the
// outcome until ResultDisplayTime has passed, after which the result is
// cleared and the panel hidden. A later submission restarts the timer. With
// no task in flight nothing happens and false is returned.
func (p *Panel) CompleteTask() (TaskResult, bool) {
	if p.tasks == nil || p.tasks.CurrentTask() == nil {
		return TaskResult{}, false
	}

	result := p.MockResult()
	score := p.tasks.CompleteTask(result)

	accuracy := int(*result.Accuracy)
	shown := TaskResult{
		Score:    score,
		Accuracy: accuracy,
		Message:  ResultMessage(accuracy),
	}
	p.result = &shown
	p.visible = true

	p.hide.Cancel()
	p.hide = p.timers.AfterFunc(ResultDisplayTime, func() {
		p.result = nil
		p.visible = false
	})

	return shown, true
}

// ResultMessage picks the feedback line for an accuracy.
func ResultMessage(accuracy int) string {
	switch {
	case accuracy > 90:
		return MessageExcellent
	case accuracy > 80:
		return MessageGood
	default:
		return MessageDone
	}
}

// Result returns the result on display, if any.
func (p *Panel) Result() (TaskResult, bool) {
	if p.result == nil {
		return TaskResult{}, false
	}
	return *p.result, true
}

func (p *Panel) Visible() bool {
	return p.visible
}

func (p *Panel) ActiveZone() scene.ZoneType {
	return p.activeZone
}

// Close cancels the pending hide timer.
func (p *Panel) Close() {
	p.hide.Cancel()
}
