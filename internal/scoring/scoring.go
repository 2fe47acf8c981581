// Package scoring turns a reported task result and its elapsed time into a
// score, and derives levels and badges from the running total.
package scoring

import (
	"math"
	"slices"
	"time"

	"github.com/pixil98/simwork/internal/storage"
)

const (
	// DefaultAccuracy is the base score used when a result reports none.
	DefaultAccuracy = 70.0

	// OptimalDuration is the completion time that earns a 1x time bonus.
	OptimalDuration = 60 * time.Second

	// MaxTimeRatio caps the time bonus multiplier.
	MaxTimeRatio = 2.0

	// TimeBonusWeight scales the time ratio into points.
	TimeBonusWeight = 10.0

	MaxScore = 100

	// PointsPerLevel is the score needed to advance one level.
	PointsPerLevel = 100
)

const (
	BadgeFastLearner   = "fast_learner"
	BadgePerfectionist = "perfectionist"

	// FastLearnerTasks is the completed-task count at which fast_learner is
	// granted. The check is an exact match on the count after an append.
	FastLearnerTasks = 5

	// PerfectionistScore must be exceeded by a single task score.
	PerfectionistScore = 90
)

// Result is what a finished task reports.
type Result struct {
	// Accuracy is the base score. Nil means DefaultAccuracy.
	Accuracy *float64 `json:"accuracy,omitempty"`

	// Details holds diagnostic values such as answer counts.
	Details storage.ExtensionState `json:"details,omitempty"`
}

// Accuracy returns a pointer suitable for Result.Accuracy.
func Accuracy(v float64) *float64 {
	return &v
}

// Score maps a result and elapsed duration to an integer score in
// [0, MaxScore]. A NaN or infinite accuracy counts as absent, and a finite
// one is held to [0, MaxScore] before the time bonus is added.
func Score(result Result, elapsed time.Duration) int {
	base := DefaultAccuracy
	if a := result.Accuracy; a != nil && !math.IsNaN(*a) && !math.IsInf(*a, 0) {
		base = math.Min(math.Max(*a, 0), MaxScore)
	}

	raw := base + TimeRatio(elapsed)*TimeBonusWeight
	if raw >= MaxScore {
		return MaxScore
	}
	return int(math.Round(raw))
}

// TimeRatio is OptimalDuration/elapsed, capped at MaxTimeRatio. A zero or
// negative elapsed time gets the cap.
func TimeRatio(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return MaxTimeRatio
	}
	return min(float64(OptimalDuration)/float64(elapsed), MaxTimeRatio)
}

// Level derives the level for a cumulative score.
func Level(score int) int {
	if score < 0 {
		score = 0
	}
	return score/PointsPerLevel + 1
}

// AwardBadges returns badges with any newly earned badges appended.
// completedCount is the number of completed tasks including the one just
// scored. Existing badges are never removed or duplicated.
func AwardBadges(badges []string, completedCount int, taskScore int) (result []string, granted []string) {
	result = badges
	if completedCount == FastLearnerTasks && !slices.Contains(result, BadgeFastLearner) {
		result = append(result, BadgeFastLearner)
		granted = append(granted, BadgeFastLearner)
	}
	if taskScore > PerfectionistScore && !slices.Contains(result, BadgePerfectionist) {
		result = append(result, BadgePerfectionist)
		granted = append(granted, BadgePerfectionist)
	}
	return result, granted
}
