package progress

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectRoleSelected  = "simwork.role.selected"
	SubjectTaskStarted   = "simwork.task.started"
	SubjectTaskCompleted = "simwork.task.completed"
	SubjectBadgeGranted  = "simwork.badge.granted"
	SubjectProgressReset = "simwork.progress.reset"
)

// Publisher delivers store events. Delivery is best effort.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the payload published for every store transition.
type Event struct {
	Id     string    `json:"id"`
	At     time.Time `json:"at"`
	RoleId string    `json:"role_id,omitempty"`
	TaskId string    `json:"task_id,omitempty"`
	Score  int       `json:"score,omitempty"`
	Total  int       `json:"total,omitempty"`
	Level  int       `json:"level,omitempty"`
	Badge  string    `json:"badge,omitempty"`
}

func (s *Store) publish(subject string, ev Event) {
	if s.pub == nil {
		return
	}

	ev.Id = uuid.New().String()
	ev.At = s.now()

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("marshalling progress event", "subject", subject, "error", err)
		return
	}

	if err := s.pub.Publish(subject, data); err != nil {
		slog.Warn("publishing progress event", "subject", subject, "error", err)
	}
}
