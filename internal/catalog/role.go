package catalog

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Role is a job persona with an ordered task list. A task's index in Tasks
// is its identity within the role.
type Role struct {
	ID          string   `json:"-" yaml:"-"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Color       string   `json:"color" yaml:"color"`
	Icon        string   `json:"icon" yaml:"icon"`
	Tasks       []string `json:"tasks" yaml:"tasks"`
}

// TaskID returns the stable identifier of the task at index.
func TaskID(roleID string, index int) string {
	return fmt.Sprintf("%s_task_%d", roleID, index)
}

// Task returns the name of the task at index and whether it exists.
func (r *Role) Task(index int) (string, bool) {
	if r == nil || index < 0 || index >= len(r.Tasks) {
		return "", false
	}
	return r.Tasks[index], true
}

// Selector is the label shown when choosing between roles.
func (r *Role) Selector() string {
	return r.Title
}

func (r *Role) Validate() error {
	el := errors.NewErrorList()

	if r.Title == "" {
		el.Add(fmt.Errorf("title is required"))
	}
	if len(r.Tasks) == 0 {
		el.Add(fmt.Errorf("at least one task is required"))
	}
	for i, t := range r.Tasks {
		if t == "" {
			el.Add(fmt.Errorf("task %d: name is required", i))
		}
	}

	return el.Err()
}
