package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	logx "github.com/MaryEjairu/InstaAutomator/pkg/logx"
)

// Service fires configured schedules and feeds the resulting actions into a
// running automation session. The session's own rate limiting and pacing
// still govern when each enqueued action actually executes.
type Service struct {
	mu sync.Mutex

	log    logx.Logger
	parser cron.Parser
	c      *cron.Cron

	sink      Enqueuer
	schedules []*scheduleState
	started   bool
}

type scheduleState struct {
	def    Schedule
	cursor int // next target index, round-robin
	entry  cron.EntryID
}

func NewService(log logx.Logger, sink Enqueuer) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log:  log,
		sink: sink,
		// SecondOptional allows both 5-field and 6-field (with seconds) cron specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Add validates and registers a schedule. Must be called before Start.
func (s *Service) Add(def Schedule) error {
	if def.Name == "" {
		return fmt.Errorf("planner: schedule needs a name")
	}
	if len(def.Targets) == 0 {
		return fmt.Errorf("planner: schedule %q has no targets", def.Name)
	}
	if _, err := s.parser.Parse(def.Spec); err != nil {
		return fmt.Errorf("planner: schedule %q: bad spec %q: %w", def.Name, def.Spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("planner: cannot add %q after start", def.Name)
	}
	s.schedules = append(s.schedules, &scheduleState{def: def})
	return nil
}

// Start registers all schedules with cron and begins firing them.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.c = cron.New(cron.WithParser(s.parser))
	for _, st := range s.schedules {
		st := st
		id, err := s.c.AddFunc(st.def.Spec, func() { s.fire(st) })
		if err != nil {
			return fmt.Errorf("planner: registering %q: %w", st.def.Name, err)
		}
		st.entry = id
	}
	s.c.Start()
	s.started = true
	s.log.Info("planner.started", logx.Int("schedules", len(s.schedules)))
	return nil
}

// Stop halts cron and waits for in-flight firings.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.started = false
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// fire enqueues one action for the schedule's next target.
func (s *Service) fire(st *scheduleState) {
	s.mu.Lock()
	target := st.def.Targets[st.cursor%len(st.def.Targets)]
	st.cursor++
	sink := s.sink
	s.mu.Unlock()

	a := automation.Action{
		Kind:    st.def.Kind,
		Target:  target,
		Payload: st.def.Payload,
	}
	if err := sink.Enqueue(a); err != nil {
		s.log.Warn("planner.enqueue_failed",
			logx.String("schedule", st.def.Name),
			logx.String("target", target),
			logx.Err(err))
		return
	}
	s.log.Debug("planner.enqueued",
		logx.String("schedule", st.def.Name),
		logx.String("kind", st.def.Kind.String()),
		logx.String("target", target))
}

// NextFirings reports the next fire time per schedule, for status output.
func (s *Service) NextFirings() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]time.Time{}
	if s.c == nil {
		return out
	}
	for _, st := range s.schedules {
		e := s.c.Entry(st.entry)
		if !e.Next.IsZero() {
			out[st.def.Name] = e.Next
		}
	}
	return out
}
