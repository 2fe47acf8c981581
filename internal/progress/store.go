package progress

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/scoring"
	"github.com/pixil98/simwork/internal/storage"
)

// Keys used in the key-value store.
const (
	ProgressKey     = "simwork_progress"
	SelectedRoleKey = "simwork_selected_role"
)

// Store owns the selected role, the in-flight task, cumulative progress and
// the simulation status. It is not safe for concurrent use; callers confine
// it to one goroutine (see driver.Loop).
//
// Invalid references (unknown role, bad task index, completing with no
// task) are silent no-ops. Persistence is best effort: failures are logged
// and never change in-memory state.
type Store struct {
	catalog *catalog.Catalog
	kv      storage.KeyValueStore
	pub     Publisher
	now     func() time.Time

	selectedRole *catalog.Role
	currentTask  *CurrentTask
	progress     Progress
	status       Status
	closed       bool
}

type StoreOpt func(*Store)

// WithPublisher attaches an event publisher.
func WithPublisher(p Publisher) StoreOpt {
	return func(s *Store) {
		s.pub = p
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOpt {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store and rehydrates it from kv. kv may be nil, in
// which case nothing is loaded or persisted.
func NewStore(cat *catalog.Catalog, kv storage.KeyValueStore, opts ...StoreOpt) *Store {
	s := &Store{
		catalog:  cat,
		kv:       kv,
		now:      time.Now,
		progress: defaultProgress(),
		status:   StatusIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

func (s *Store) load() {
	if s.kv == nil {
		return
	}

	if data, err := s.kv.Get(ProgressKey); err == nil {
		var p Progress
		if err := json.Unmarshal(data, &p); err != nil {
			slog.Warn("discarding unreadable saved progress", "key", ProgressKey, "error", err)
		} else {
			s.progress = normalize(p)
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		slog.Warn("reading saved progress", "key", ProgressKey, "error", err)
	}

	if data, err := s.kv.Get(SelectedRoleKey); err == nil {
		s.selectedRole = s.catalog.Role(string(data))
		if s.selectedRole == nil {
			slog.Warn("saved role is not in the catalog", "role", string(data))
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		slog.Warn("reading saved role", "key", SelectedRoleKey, "error", err)
	}
}

// normalize fills empty collections and re-derives the level from the score.
func normalize(p Progress) Progress {
	if p.CompletedTasks == nil {
		p.CompletedTasks = []CompletedTask{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.Score < 0 {
		p.Score = 0
	}
	p.CurrentLevel = scoring.Level(p.Score)
	return p
}

// persist overwrites both saved entries with the current state.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(s.progress)
	if err != nil {
		slog.Warn("marshalling progress", "error", err)
	} else if err := s.kv.Set(ProgressKey, data); err != nil {
		slog.Warn("saving progress", "key", ProgressKey, "error", err)
	}

	if s.selectedRole != nil {
		if err := s.kv.Set(SelectedRoleKey, []byte(s.selectedRole.ID)); err != nil {
			slog.Warn("saving selected role", "key", SelectedRoleKey, "error", err)
		}
	}
}

// SelectRole makes roleID the selected role and abandons any in-flight task
// without recording it. The status is left as it was. Unknown ids are
// ignored and false is returned.
func (s *Store) SelectRole(roleID string) bool {
	if s.closed {
		return false
	}

	role := s.catalog.Role(roleID)
	if role == nil {
		return false
	}

	s.selectedRole = role
	s.currentTask = nil
	s.persist()

	s.publish(SubjectRoleSelected, Event{RoleId: role.ID})
	return true
}

// StartTask starts the selected role's task at index.
func (s *Store) StartTask(index int) bool {
	if s.closed || s.selectedRole == nil {
		return false
	}

	name, ok := s.selectedRole.Task(index)
	if !ok {
		return false
	}

	s.currentTask = &CurrentTask{
		ID:        catalog.TaskID(s.selectedRole.ID, index),
		Name:      name,
		RoleID:    s.selectedRole.ID,
		Index:     index,
		StartTime: s.now(),
	}
	s.status = StatusRunning

	s.publish(SubjectTaskStarted, Event{RoleId: s.selectedRole.ID, TaskId: s.currentTask.ID})
	return true
}

// CompleteTask scores and records the in-flight task and returns its score.
// With no task in flight it returns 0 and changes nothing.
func (s *Store) CompleteTask(result scoring.Result) int {
	if s.closed || s.currentTask == nil {
		return 0
	}

	task := s.currentTask
	end := s.now()
	elapsed := end.Sub(task.StartTime)
	taskScore := scoring.Score(result, elapsed)

	p := s.progress.clone()
	p.CompletedTasks = append(p.CompletedTasks, CompletedTask{
		ID:        task.ID,
		Name:      task.Name,
		RoleID:    task.RoleID,
		Index:     task.Index,
		StartTime: task.StartTime.UnixMilli(),
		EndTime:   end.UnixMilli(),
		Duration:  elapsed.Milliseconds(),
		Score:     taskScore,
		Result:    result,
	})
	p.Score += taskScore
	p.CurrentLevel = scoring.Level(p.Score)

	var granted []string
	p.Badges, granted = scoring.AwardBadges(p.Badges, len(p.CompletedTasks), taskScore)

	s.progress = p
	s.currentTask = nil
	s.status = StatusIdle
	s.persist()

	s.publish(SubjectTaskCompleted, Event{
		RoleId: task.RoleID,
		TaskId: task.ID,
		Score:  taskScore,
		Total:  p.Score,
		Level:  p.CurrentLevel,
	})
	for _, b := range granted {
		s.publish(SubjectBadgeGranted, Event{RoleId: task.RoleID, TaskId: task.ID, Badge: b})
	}

	return taskScore
}

// ResetProgress clears all progress and the in-flight task and removes the
// saved progress entry. The selected role and its saved entry are kept.
func (s *Store) ResetProgress() {
	if s.closed {
		return
	}

	s.progress = defaultProgress()
	s.currentTask = nil
	s.status = StatusIdle

	if s.kv != nil {
		if err := s.kv.Remove(ProgressKey); err != nil {
			slog.Warn("removing saved progress", "key", ProgressKey, "error", err)
		}
	}

	s.publish(SubjectProgressReset, Event{})
}

// AvailableTasks lists the selected role's tasks with completion flags.
func (s *Store) AvailableTasks() []TaskView {
	if s.selectedRole == nil {
		return []TaskView{}
	}

	views := make([]TaskView, len(s.selectedRole.Tasks))
	for i, name := range s.selectedRole.Tasks {
		views[i] = TaskView{
			ID:          catalog.TaskID(s.selectedRole.ID, i),
			Name:        name,
			Index:       i,
			IsCompleted: s.progress.IsCompleted(s.selectedRole.ID, i),
		}
	}
	return views
}

// SelectedRole returns the selected role, or nil.
func (s *Store) SelectedRole() *catalog.Role {
	return s.selectedRole
}

// CurrentTask returns a copy of the in-flight task, or nil.
func (s *Store) CurrentTask() *CurrentTask {
	if s.currentTask == nil {
		return nil
	}
	t := *s.currentTask
	return &t
}

// Progress returns a copy of the cumulative progress.
func (s *Store) Progress() Progress {
	return s.progress.clone()
}

func (s *Store) Status() Status {
	return s.status
}

// Catalog returns the catalog roles are looked up in.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Close detaches the store from its publisher and turns every later
// mutation into a no-op. Every change is already persisted when it happens.
// It is safe to call more than once.
func (s *Store) Close() {
	s.closed = true
	s.pub = nil
}
