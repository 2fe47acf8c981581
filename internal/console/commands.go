package console

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/demo"
	"github.com/pixil98/simwork/internal/display"
	"github.com/pixil98/simwork/internal/scene"
	"github.com/pixil98/simwork/internal/scoring"
)

// commandFunc runs on the simulation goroutine and returns text to show.
type commandFunc func(s *Session, args []string) (string, error)

type command struct {
	Usage string
	Help  string
	run   commandFunc
}

func buildCommands() (map[string]*command, []string) {
	list := []struct {
		name string
		cmd  *command
	}{
		{"help", &command{Usage: "help", Help: "list commands", run: cmdHelp}},
		{"roles", &command{Usage: "roles", Help: "list the roles you can work as", run: cmdRoles}},
		{"role", &command{Usage: "role <id>", Help: "work as a role (id or number)", run: cmdRole}},
		{"zones", &command{Usage: "zones", Help: "list the office zones", run: cmdZones}},
		{"zone", &command{Usage: "zone <type>", Help: "walk to a zone and take its role", run: cmdZone}},
		{"goto", &command{Usage: "goto <x> <z>", Help: "walk to a point on the floor", run: cmdGoto}},
		{"near", &command{Usage: "near", Help: "list desks within reach", run: cmdNear}},
		{"where", &command{Usage: "where", Help: "show your position", run: cmdWhere}},
		{"tasks", &command{Usage: "tasks", Help: "list the tasks of your role", run: cmdTasks}},
		{"start", &command{Usage: "start <n>", Help: "start task number n", run: cmdStart}},
		{"complete", &command{Usage: "complete", Help: "submit the task in progress", run: cmdComplete}},
		{"progress", &command{Usage: "progress", Help: "show score, level and badges", run: cmdProgress}},
		{"reset", &command{Usage: "reset", Help: "clear all progress", run: cmdReset}},
		{"map", &command{Usage: "map", Help: "draw the office floor", run: cmdMap}},
		{"quit", &command{Usage: "quit", Help: "leave the office", run: cmdQuit}},
	}

	cmds := make(map[string]*command, len(list))
	order := make([]string, 0, len(list))
	for _, c := range list {
		cmds[c.name] = c.cmd
		order = append(order, c.name)
	}
	return cmds, order
}

var errNoFloor = NewUserError("The office floor is not available.")

func (s *Session) floor() (*scene.Scene, error) {
	if s.scene == nil || !s.scene.Initialized() || s.scene.Degraded() {
		return nil, errNoFloor
	}
	return s.scene, nil
}

func roleMenu(cat *catalog.Catalog) *Menu[*catalog.Role] {
	return NewMenu(cat.IDs(), cat.Roles())
}

func cmdHelp(s *Session, _ []string) (string, error) {
	cmds := make([]*command, 0, len(s.order))
	for _, name := range s.order {
		cmds = append(cmds, s.cmds[name])
	}
	return ExpandTemplate(helpTemplate, cmds)
}

func cmdRoles(s *Session, _ []string) (string, error) {
	out := "Roles:\n" + roleMenu(s.store.Catalog()).String()
	if r := s.store.SelectedRole(); r != nil {
		out += "Working as: " + r.Title
	} else {
		out += "No role selected."
	}
	return out, nil
}

func cmdRole(s *Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", NewUserError("Usage: role <id>")
	}

	menu := roleMenu(s.store.Catalog())
	id, ok := menu.Select(args[0])
	if !ok {
		return "", NewUserError(unknownMessage("role", args[0], menu.IDs()))
	}

	s.store.SelectRole(id)
	return describeRole(s.store.SelectedRole()), nil
}

func describeRole(r *catalog.Role) string {
	if r == nil {
		return "No role selected."
	}
	return fmt.Sprintf("You are now working as %s. %s", r.Title, r.Description)
}

func cmdZones(s *Session, _ []string) (string, error) {
	sc, err := s.floor()
	if err != nil {
		return "", err
	}

	counts := map[scene.ZoneType]int{}
	for _, o := range sc.Objects() {
		counts[o.Type]++
	}

	lines := []string{"Zones:"}
	for _, z := range scene.Zones {
		lines = append(lines, fmt.Sprintf("  %-10s %d desks", z, counts[z]))
	}
	return strings.Join(lines, "\n"), nil
}

func zoneNames() []string {
	names := make([]string, len(scene.Zones))
	for i, z := range scene.Zones {
		names[i] = string(z)
	}
	return names
}

func cmdZone(s *Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", NewUserError("Usage: zone <type>")
	}
	sc, err := s.floor()
	if err != nil {
		return "", err
	}

	zone := scene.ZoneType(strings.ToLower(args[0]))
	if !slices.Contains(scene.Zones, zone) {
		return "", NewUserError(unknownMessage("zone", args[0], zoneNames()))
	}

	var obj scene.Object
	var found bool
	if s.panel != nil {
		obj, found = s.panel.ClickZone(zone)
	} else if o, ok := sc.FindByType(zone); ok {
		obj, found = sc.InteractWith(o.ID)
	}
	if !found {
		return fmt.Sprintf("There are no desks in the %s zone.", zone), nil
	}

	return fmt.Sprintf("You head to %s in the %s zone.\n%s", obj.ID, zone, describeRole(s.store.SelectedRole())), nil
}

func cmdGoto(s *Session, args []string) (string, error) {
	if len(args) != 2 {
		return "", NewUserError("Usage: goto <x> <z>")
	}
	sc, err := s.floor()
	if err != nil {
		return "", err
	}

	x, errX := strconv.ParseFloat(args[0], 64)
	z, errZ := strconv.ParseFloat(args[1], 64)
	if errX != nil || errZ != nil || math.IsNaN(x) || math.IsNaN(z) || math.IsInf(x, 0) || math.IsInf(z, 0) {
		return "", NewUserError("Coordinates must be numbers.")
	}

	sc.MovePlayerTo(scene.Vec3{X: x, Z: z})
	return fmt.Sprintf("Walking to (%.1f, %.1f).", x, z), nil
}

func cmdNear(s *Session, _ []string) (string, error) {
	sc, err := s.floor()
	if err != nil {
		return "", err
	}

	near := sc.CheckInteractions()
	if len(near) == 0 {
		return "Nothing within reach.", nil
	}

	pos := sc.PlayerPosition()
	lines := []string{"Within reach:"}
	for _, o := range near {
		lines = append(lines, fmt.Sprintf("  %s (%s) %.1f away", o.ID, o.Type, pos.DistanceXZ(o.Position)))
	}
	return strings.Join(lines, "\n"), nil
}

type whereView struct {
	X, Z   float64
	Zone   scene.ZoneType
	Facing float64
}

func cmdWhere(s *Session, _ []string) (string, error) {
	sc, err := s.floor()
	if err != nil {
		return "", err
	}

	pos := sc.PlayerPosition()
	return ExpandTemplate(whereTemplate, whereView{
		X:      pos.X,
		Z:      pos.Z,
		Zone:   scene.ZoneFor(pos),
		Facing: sc.Facing() * 180 / math.Pi,
	})
}

type taskLine struct {
	ID          string
	Name        string
	Index       int
	IsCompleted bool
}

type tasksView struct {
	Role    string
	Current string
	Tasks   []taskLine
}

var errNoRole = NewUserError("Select a role first. Type \"roles\" to see them.")

func cmdTasks(s *Session, _ []string) (string, error) {
	role := s.store.SelectedRole()
	if role == nil {
		return "", errNoRole
	}

	view := tasksView{Role: role.Title}
	if cur := s.store.CurrentTask(); cur != nil {
		view.Current = cur.ID
	}
	for _, t := range s.store.AvailableTasks() {
		view.Tasks = append(view.Tasks, taskLine{ID: t.ID, Name: t.Name, Index: t.Index, IsCompleted: t.IsCompleted})
	}

	return ExpandTemplate(tasksTemplate, view)
}

func cmdStart(s *Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", NewUserError("Usage: start <n>")
	}
	if s.store.SelectedRole() == nil {
		return "", errNoRole
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || !s.store.StartTask(n-1) {
		return "", NewUserError(fmt.Sprintf("There is no task %s.", args[0]))
	}

	return "Started: " + s.store.CurrentTask().Name, nil
}

var errNoTask = NewUserError("You are not working on a task.")

func cmdComplete(s *Session, _ []string) (string, error) {
	var res demo.TaskResult
	if s.panel != nil {
		r, ok := s.panel.CompleteTask()
		if !ok {
			return "", errNoTask
		}
		res = r
	} else {
		if s.store.CurrentTask() == nil {
			return "", errNoTask
		}
		res = demo.TaskResult{
			Score:    s.store.CompleteTask(scoring.Result{}),
			Accuracy: int(scoring.DefaultAccuracy),
			Message:  demo.ResultMessage(int(scoring.DefaultAccuracy)),
		}
	}

	return ExpandTemplate(resultTemplate, res)
}

type progressView struct {
	Score     int
	Level     int
	Status    string
	Completed int
	Badges    []string
}

func cmdProgress(s *Session, _ []string) (string, error) {
	p := s.store.Progress()

	view := progressView{
		Score:     p.Score,
		Level:     p.CurrentLevel,
		Status:    string(s.store.Status()),
		Completed: len(p.CompletedTasks),
	}
	for _, b := range p.Badges {
		view.Badges = append(view.Badges, display.Title(b))
	}

	return ExpandTemplate(progressTemplate, view)
}

func cmdReset(s *Session, _ []string) (string, error) {
	s.confirm = func(yes bool) string {
		if !yes {
			return "Reset cancelled."
		}
		s.store.ResetProgress()
		return "Progress reset."
	}
	return "Reset all progress? (yes/no)", nil
}

func cmdMap(s *Session, _ []string) (string, error) {
	if s.mapper == nil {
		return "", NewUserError("No map is available.")
	}
	if _, err := s.floor(); err != nil {
		return "", err
	}

	snap := strings.TrimRight(s.mapper.Snapshot(), "\n")
	if snap == "" {
		return "", errNoFloor
	}
	return snap, nil
}

func cmdQuit(s *Session, _ []string) (string, error) {
	s.quit = true
	return "", nil
}
