// Package browse implements the interactive terminal gallery: a line-based
// command loop that drives the session reducer and the questionnaire.
package browse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/winegallery/internal/catalog"
	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/internal/quiz"
	pkgcatalog "github.com/HerbHall/winegallery/pkg/catalog"
)

const prompt = "wine> "

const helpText = `Commands:
  search <text>        filter by title, country or variety (blank clears)
  country <name>       toggle a country
  type <name>          toggle a wine type ("All Types" clears)
  year <vintage>       toggle a vintage
  style <name>         toggle a style
  tag <flavor>         toggle a flavor tag
  price <min> <max>    set the price range
  sort [key]           set the order, or list keys
  next | prev | page <n>
  show <id>            show one wine
  facets               list filter values
  filters              show the active filters
  quiz                 answer five questions for a recommendation
  apply                browse the last quiz recommendation's filter
  reset                clear all filters
  help | quit`

// Session is one interactive browsing session. It is not safe for
// concurrent use.
type Session struct {
	engine   *catalog.Engine
	in       *bufio.Scanner
	out      io.Writer
	logger   *zap.Logger
	state    query.State
	lastQuiz *quiz.Result
}

// Option configures a Session.
type Option func(*Session)

// WithState starts the session from s instead of the engine default.
func WithState(s query.State) Option {
	return func(sess *Session) { sess.state = s }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(sess *Session) { sess.logger = l }
}

// New creates a session reading commands from in and writing to out.
func New(engine *catalog.Engine, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: zap.NewNop(),
		state:  engine.NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current browsing state.
func (s *Session) State() query.State { return s.state }

var errQuit = errors.New("quit")

// Run renders the first page and processes commands until quit, end of
// input or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "WineGallery: %d wines. Type 'help' for commands.\n", s.engine.Len())
	s.render()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, prompt)
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		err := s.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// exec runs one command line.
func (s *Session) exec(line string) error {
	if line == "" {
		return nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	s.logger.Debug("browse command", zap.String("cmd", cmd), zap.String("arg", arg))

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "search", "find":
		return s.dispatch(query.SetQuery{Query: arg})
	case "country":
		return s.toggle(arg, func(v string) query.Action { return query.ToggleCountry{Value: v} })
	case "type":
		return s.toggle(arg, func(v string) query.Action { return query.ToggleType{Value: v} })
	case "year":
		return s.toggle(arg, func(v string) query.Action { return query.ToggleYear{Value: v} })
	case "style":
		return s.toggle(arg, func(v string) query.Action { return query.ToggleStyle{Value: v} })
	case "tag":
		return s.toggle(arg, func(v string) query.Action { return query.ToggleFlavorTag{Value: v} })
	case "price":
		r, err := parseRange(arg)
		if err != nil {
			return err
		}
		return s.dispatch(query.SetPriceRange{Range: r})
	case "sort":
		if arg == "" {
			for _, o := range query.SortOptions {
				fmt.Fprintf(s.out, "  %-16s %s\n", displayKey(o.Key), o.Label)
			}
			return nil
		}
		key, ok := query.ParseSortKey(arg)
		if !ok && arg == "default" {
			key, ok = query.SortNone, true
		}
		if !ok {
			return fmt.Errorf("unknown sort %q", arg)
		}
		return s.dispatch(query.SetSort{Key: key})
	case "next", "n":
		return s.dispatch(query.NextPage{TotalPages: s.engine.Query(s.state).Page.TotalPages})
	case "prev", "p":
		return s.dispatch(query.PrevPage{})
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("page must be a positive integer")
		}
		return s.dispatch(query.SetPage{Page: n})
	case "show":
		w, err := s.engine.Lookup(arg)
		if errors.Is(err, pkgcatalog.ErrNotFound) {
			fmt.Fprintln(s.out, "Wine not found")
			return nil
		}
		if err != nil {
			return err
		}
		RenderWine(s.out, w)
		return nil
	case "facets":
		RenderFacets(s.out, s.engine.Facets())
		return nil
	case "filters":
		RenderFilter(s.out, s.state)
		return nil
	case "reset":
		return s.dispatch(query.Reset{Defaults: s.engine.PriceBounds()})
	case "quiz":
		return s.runQuiz()
	case "apply":
		if s.lastQuiz == nil {
			return errors.New("no quiz result yet; run 'quiz' first")
		}
		return s.dispatch(query.ApplyFilter{Filter: s.lastQuiz.Filter})
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (s *Session) toggle(arg string, action func(string) query.Action) error {
	if arg == "" {
		return errors.New("a value is required")
	}
	return s.dispatch(action(arg))
}

// dispatch reduces the state and renders the resulting page.
func (s *Session) dispatch(a query.Action) error {
	s.state = query.Reduce(s.state, a)
	s.render()
	return nil
}

// render clamps the page into the filtered result before printing it.
func (s *Session) render() {
	res := s.engine.Query(s.state)
	if clamped := s.state.Clamp(res.Page.Total); clamped.Page != s.state.Page {
		s.state = clamped
		res = s.engine.Query(s.state)
	}
	RenderPage(s.out, res)
}

// RunQuiz runs the questionnaire on its own, without the gallery loop.
func (s *Session) RunQuiz() (*quiz.Result, error) {
	if err := s.runQuiz(); err != nil {
		return nil, err
	}
	return s.lastQuiz, nil
}

// runQuiz asks each question in turn. Answers may be an option number or
// its text; "cancel" abandons the quiz.
func (s *Session) runQuiz() error {
	m := s.engine.NewQuiz()
	for {
		q, ok := m.Current()
		if !ok {
			break
		}
		RenderQuestion(s.out, q)
		fmt.Fprint(s.out, "answer> ")
		line, ok := s.readLine()
		if !ok {
			return errors.New("quiz abandoned: end of input")
		}
		if strings.EqualFold(line, "cancel") {
			fmt.Fprintln(s.out, "Quiz cancelled.")
			return nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			line = q.Options[n-1]
		}
		if err := m.Answer(line); err != nil {
			fmt.Fprintf(s.out, "Please choose one of: %s\n", strings.Join(q.Options, ", "))
		}
	}

	res, err := m.Result()
	if err != nil {
		return err
	}
	s.lastQuiz = &res
	RenderRecommendation(s.out, res)
	fmt.Fprintln(s.out, "Type 'apply' to browse wines with this filter.")
	return nil
}

func parseRange(arg string) (query.PriceRange, error) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return query.PriceRange{}, errors.New("usage: price <min> <max>")
	}
	lo, err1 := strconv.ParseFloat(fields[0], 64)
	hi, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil || lo < 0 || hi < 0 {
		return query.PriceRange{}, errors.New("prices must be non-negative numbers")
	}
	return query.PriceRange{Min: lo, Max: hi}, nil
}

func displayKey(k query.SortKey) string {
	if k == query.SortNone {
		return "default"
	}
	return string(k)
}
