// Package console runs a line-oriented session over the office simulation:
// picking roles, walking between desks, working through tasks and reading
// progress.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/simwork/internal"
	"github.com/pixil98/simwork/internal/catalog"
	"github.com/pixil98/simwork/internal/demo"
	"github.com/pixil98/simwork/internal/display"
	"github.com/pixil98/simwork/internal/messaging"
	"github.com/pixil98/simwork/internal/progress"
	"github.com/pixil98/simwork/internal/scene"
)

const (
	defaultPrompt  = "> "
	maxSelectTries = 3
	messageBacklog = 16
	goodbyeMessage = "Goodbye!"
	welcomeMessage = `Welcome to the office. Type "help" for a list of commands.`
)

// Runner runs fn on the goroutine that owns the simulation state.
// driver.Loop implements it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// Snapshotter renders the office map as text.
type Snapshotter interface {
	Snapshot() string
}

// Session is one console user. All simulation calls go through the runner;
// the session goroutine only reads input and writes output.
type Session struct {
	id     string
	in     *bufio.Reader
	out    io.Writer
	runner Runner
	store  *progress.Store
	scene  *scene.Scene
	panel  *demo.Panel
	mapper Snapshotter
	bus    messaging.Subscriber
	width  int

	cmds    map[string]*command
	order   []string
	msgs    chan string
	confirm func(yes bool) string
	quit    bool
}

type SessionOpt func(*Session)

// WithScene enables the movement and zone commands.
func WithScene(sc *scene.Scene) SessionOpt {
	return func(s *Session) {
		s.scene = sc
	}
}

// WithPanel routes zone clicks and submissions through a task panel.
func WithPanel(p *demo.Panel) SessionOpt {
	return func(s *Session) {
		s.panel = p
	}
}

// WithMap enables the map command.
func WithMap(m Snapshotter) SessionOpt {
	return func(s *Session) {
		s.mapper = m
	}
}

// WithBus subscribes the session to badge announcements.
func WithBus(b messaging.Subscriber) SessionOpt {
	return func(s *Session) {
		s.bus = b
	}
}

// WithWidth sets the wrap width of output.
func WithWidth(w int) SessionOpt {
	return func(s *Session) {
		s.width = w
	}
}

func NewSession(rw io.ReadWriter, runner Runner, store *progress.Store, opts ...SessionOpt) *Session {
	s := &Session{
		id:     uuid.New().String(),
		in:     bufio.NewReader(rw),
		out:    rw,
		runner: runner,
		store:  store,
		width:  display.DefaultWidth,
		msgs:   make(chan string, messageBacklog),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cmds, s.order = buildCommands()
	return s
}

func (s *Session) Id() string {
	return s.id
}

// Run plays the session until the user quits, input ends or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "console session started", "session", s.id)
	defer slog.InfoContext(ctx, "console session ended", "session", s.id)

	if s.scene != nil {
		var teardown func()
		if err := s.runner.Do(ctx, func() { teardown = s.scene.InitializeScene() }); err != nil {
			return fmt.Errorf("initializing scene: %w", err)
		}
		defer s.cleanup(ctx, teardown)
	}

	if s.bus != nil {
		unsub, err := messaging.SubscribeJSON(s.bus, progress.SubjectBadgeGranted, s.onBadge)
		if err != nil {
			slog.Warn("subscribing to badge announcements", "session", s.id, "error", err)
		} else {
			defer unsub()
		}
	}

	if err := s.writeLine(welcomeMessage); err != nil {
		return err
	}

	if err := s.chooseRole(ctx); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	// Read input lines into a channel
	done := make(chan struct{})
	defer close(done)
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-done:
				return
			}
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg := <-s.msgs:
			if err := s.writeLine("\n" + msg); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			if err := s.handle(ctx, line); err != nil {
				return err
			}
			if s.quit {
				return s.writeLine(goodbyeMessage)
			}

			s.drainMessages()
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// chooseRole asks for a role when none was restored from storage.
func (s *Session) chooseRole(ctx context.Context) error {
	var menu *Menu[*catalog.Role]
	selected := false
	err := s.runner.Do(ctx, func() {
		selected = s.store.SelectedRole() != nil
		menu = roleMenu(s.store.Catalog())
	})
	if err != nil {
		return err
	}
	if selected {
		return s.exec(ctx, "progress", nil)
	}

	if err := s.writeLine("Choose a role:\n" + menu.String()); err != nil {
		return err
	}

	choice, err := internal.Prompt(s.in, s.out, "Role: ",
		internal.WithMaxTries(maxSelectTries),
		internal.WithValidator(func(str string) (bool, string) {
			if _, ok := menu.Select(str); ok {
				return true, ""
			}
			return false, unknownMessage("role", str, menu.IDs()) + "\n"
		}),
	)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return s.writeLine("No role selected. Use \"role <id>\" when you are ready.")
	}

	id, _ := menu.Select(choice)
	return s.exec(ctx, "role", []string{id})
}

func (s *Session) handle(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)

	if s.confirm != nil {
		confirm := s.confirm
		yes, ok := internal.ParseYN(line)
		if !ok {
			return s.writeLine("enter 'yes' or 'no'")
		}
		s.confirm = nil

		var out string
		if err := s.runner.Do(ctx, func() { out = confirm(yes) }); err != nil {
			return err
		}
		return s.writeLine(out)
	}

	if line == "" {
		return nil
	}

	parts := strings.Fields(line)
	return s.exec(ctx, strings.ToLower(parts[0]), parts[1:])
}

// exec runs one command on the runner and writes its output.
func (s *Session) exec(ctx context.Context, name string, args []string) error {
	cmd, ok := s.cmds[name]
	if !ok {
		return s.writeLine(unknownMessage("command", name, s.order) + " Type \"help\" for a list.")
	}

	var out string
	var cmdErr error
	err := s.runner.Do(ctx, func() {
		out, cmdErr = cmd.run(s, args)
	})
	if err != nil {
		return err
	}

	if cmdErr != nil {
		var userErr *UserError
		if errors.As(cmdErr, &userErr) {
			return s.writeLine(userErr.Message)
		}
		return fmt.Errorf("running %s: %w", name, cmdErr)
	}

	if out == "" {
		return nil
	}
	return s.writeLine(out)
}

func (s *Session) onBadge(ev progress.Event) {
	msg := fmt.Sprintf("*** Badge earned: %s ***", display.Title(ev.Badge))
	select {
	case s.msgs <- msg:
	default:
		slog.Warn("dropping console message, backlog full", "session", s.id)
	}
}

// drainMessages writes queued announcements without blocking.
func (s *Session) drainMessages() {
	for {
		select {
		case msg := <-s.msgs:
			if err := s.writeLine(msg); err != nil {
				slog.Warn("writing console message", "session", s.id, "error", err)
				return
			}
		default:
			return
		}
	}
}

func (s *Session) cleanup(ctx context.Context, teardown func()) {
	err := s.runner.Do(context.WithoutCancel(ctx), func() {
		if s.panel != nil {
			s.panel.Close()
		}
		teardown()
	})
	if err != nil {
		slog.Warn("tearing down scene", "session", s.id, "error", err)
	}
}

func (s *Session) prompt() error {
	_, err := io.WriteString(s.out, defaultPrompt)
	return err
}

func (s *Session) writeLine(msg string) error {
	_, err := io.WriteString(s.out, display.Wrap(msg, s.width)+"\n")
	return err
}
