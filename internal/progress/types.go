package progress

import (
	"slices"
	"time"

	"github.com/pixil98/simwork/internal/scoring"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"

	// StatusPaused and StatusCompleted are valid values that no store
	// transition currently produces.
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// CurrentTask is the single in-flight task.
type CurrentTask struct {
	ID        string
	Name      string
	RoleID    string
	Index     int
	StartTime time.Time
}

// CompletedTask is an immutable record appended on every completion.
type CompletedTask struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	RoleID    string         `json:"roleId"`
	Index     int            `json:"index"`
	StartTime int64          `json:"startTime"` // unix milliseconds
	EndTime   int64          `json:"endTime"`   // unix milliseconds
	Duration  int64          `json:"duration"`  // milliseconds
	Score     int            `json:"score"`
	Result    scoring.Result `json:"result"`
}

// Elapsed returns Duration as a time.Duration.
func (c CompletedTask) Elapsed() time.Duration {
	return time.Duration(c.Duration) * time.Millisecond
}

// Progress is the cumulative, persisted record of a user's history.
// CurrentLevel is always scoring.Level(Score).
type Progress struct {
	CompletedTasks []CompletedTask `json:"completedTasks"`
	CurrentLevel   int             `json:"currentLevel"`
	Score          int             `json:"score"`
	Badges         []string        `json:"badges"`
}

func defaultProgress() Progress {
	return Progress{
		CompletedTasks: []CompletedTask{},
		CurrentLevel:   1,
		Score:          0,
		Badges:         []string{},
	}
}

// HasBadge reports whether the badge has been granted.
func (p Progress) HasBadge(badge string) bool {
	return slices.Contains(p.Badges, badge)
}

// IsCompleted reports whether any record exists for the role's task index.
func (p Progress) IsCompleted(roleID string, index int) bool {
	return slices.ContainsFunc(p.CompletedTasks, func(c CompletedTask) bool {
		return c.RoleID == roleID && c.Index == index
	})
}

func (p Progress) clone() Progress {
	return Progress{
		CompletedTasks: slices.Clone(p.CompletedTasks),
		CurrentLevel:   p.CurrentLevel,
		Score:          p.Score,
		Badges:         slices.Clone(p.Badges),
	}
}

// TaskView describes one task of the selected role.
type TaskView struct {
	ID          string
	Name        string
	Index       int
	IsCompleted bool
}
