package quiz

import (
	"fmt"

	"github.com/HerbHall/winegallery/pkg/models"
)

// Stage is the machine's position: 1..NumQuestions while awaiting an
// answer, Computed once every question is answered.
type Stage int

// Computed is the terminal stage.
const Computed Stage = 0

// Awaiting reports whether the stage is waiting on a question.
func (s Stage) Awaiting() bool { return s != Computed }

func (s Stage) String() string {
	if s == Computed {
		return "computed"
	}
	return fmt.Sprintf("awaiting(%d)", int(s))
}

// Option configures a Machine.
type Option func(*Machine)

// WithShortlistSize overrides DefaultShortlistSize. Non-positive values are
// ignored.
func WithShortlistSize(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.limit = n
		}
	}
}

// Machine walks the questionnaire forward one answer at a time. The result
// is derived exactly once, on the transition into Computed. A Machine is
// owned by a single caller.
type Machine struct {
	records []models.Wine
	limit   int
	stage   Stage
	answers Answers
	result  *Result
}

// New starts a questionnaire over records at the first question.
func New(records []models.Wine, opts ...Option) *Machine {
	m := &Machine{
		records: records,
		limit:   DefaultShortlistSize,
		stage:   1,
		answers: make(Answers, NumQuestions),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage { return m.stage }

// Current returns the question awaiting an answer. ok is false once the
// machine is Computed.
func (m *Machine) Current() (q Question, ok bool) {
	if m.stage == Computed {
		return Question{}, false
	}
	return QuestionAt(int(m.stage))
}

// Answer records option for the current question and advances. The option
// must belong to the question's closed set.
func (m *Machine) Answer(option string) error {
	q, ok := m.Current()
	if !ok {
		return ErrComplete
	}
	canon, ok := q.canonical(option)
	if !ok {
		return fmt.Errorf("%w: %q for %s", ErrInvalidOption, option, q.Key)
	}
	m.answers[q.Ordinal] = canon

	if q.Ordinal == NumQuestions {
		m.stage = Computed
		m.compute()
		return nil
	}
	m.stage++
	return nil
}

// Answers returns a copy of the answers recorded so far.
func (m *Machine) Answers() Answers {
	out := make(Answers, len(m.answers))
	for k, v := range m.answers {
		out[k] = v
	}
	return out
}

// Result returns the derived filter and shortlist, or ErrNotReady before
// the last question is answered.
func (m *Machine) Result() (Result, error) {
	if m.result == nil {
		return Result{}, ErrNotReady
	}
	return *m.result, nil
}

func (m *Machine) compute() {
	m.result = &Result{
		Filter:    DeriveFilter(m.answers),
		Shortlist: Shortlist(m.records, m.answers, m.limit),
	}
}

// Evaluate replays a full answer set through a new Machine. Incomplete
// answers return ErrNotReady; an answer outside its question's options
// returns ErrInvalidOption.
func Evaluate(records []models.Wine, answers Answers, opts ...Option) (Result, error) {
	if err := answers.Validate(); err != nil {
		return Result{}, err
	}
	if !answers.Complete() {
		return Result{}, ErrNotReady
	}
	m := New(records, opts...)
	for _, q := range questions {
		if err := m.Answer(answers[q.Ordinal]); err != nil {
			return Result{}, err
		}
	}
	return m.Result()
}
