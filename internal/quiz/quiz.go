// Package quiz implements the guided questionnaire that turns five answers
// into a derived gallery filter and a short list of matching wines.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/HerbHall/winegallery/internal/query"
	"github.com/HerbHall/winegallery/pkg/models"
)

// Sentinel errors.
var (
	ErrNotReady      = errors.New("quiz: not all questions answered")
	ErrInvalidOption = errors.New("quiz: invalid option")
	ErrComplete      = errors.New("quiz: already complete")
)

// DefaultShortlistSize caps the number of recommended wines.
const DefaultShortlistSize = 5

// Question keys.
const (
	KeyWineType  = "wine_type"
	KeyPrice     = "price"
	KeySweetness = "sweetness"
	KeyRegion    = "region"
	KeySparkling = "sparkling"
)

// Options that mean "no restriction" for their question.
const (
	AnyType      = "Both"
	AnySweetness = "Either"
	AnyRegion    = "Other"
	NoSparkling  = "No"
	YesSparkling = "Yes"
)

// Question is one step of the questionnaire.
type Question struct {
	Ordinal int      `json:"ordinal"`
	Key     string   `json:"key"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

var questions = []Question{
	{Ordinal: 1, Key: KeyWineType, Text: "Do you prefer red or white wine?", Options: []string{"Red", "White", AnyType}},
	{Ordinal: 2, Key: KeyPrice, Text: "What is your preferred price range?", Options: []string{"0-50", "50-100", "100-200", "200+"}},
	{Ordinal: 3, Key: KeySweetness, Text: "Do you prefer dry or sweet wines?", Options: []string{"Dry", "Sweet", AnySweetness}},
	{Ordinal: 4, Key: KeyRegion, Text: "What is your favorite wine region?", Options: []string{"France", "Italy", "USA", AnyRegion}},
	{Ordinal: 5, Key: KeySparkling, Text: "Do you have a preference for sparkling wine?", Options: []string{YesSparkling, NoSparkling}},
}

// priceBrackets maps the price answer to its inclusive range.
var priceBrackets = map[string]query.PriceRange{
	"0-50":    {Min: 0, Max: 50},
	"50-100":  {Min: 50, Max: 100},
	"100-200": {Min: 100, Max: 200},
	"200+":    {Min: 200, Max: math.Inf(1)},
}

// NumQuestions is the fixed length of the questionnaire.
var NumQuestions = len(questions)

// Questions returns the questionnaire in order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// QuestionAt returns the question with the given 1-based ordinal.
func QuestionAt(ordinal int) (Question, bool) {
	if ordinal < 1 || ordinal > len(questions) {
		return Question{}, false
	}
	return questions[ordinal-1], true
}

// canonical returns the option of q matching answer case-insensitively.
func (q Question) canonical(answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	for _, o := range q.Options {
		if strings.EqualFold(o, answer) {
			return o, true
		}
	}
	return "", false
}

// Answers maps question ordinal to the chosen option.
type Answers map[int]string

// AnswersByKey converts a map keyed by question key or ordinal string into
// Answers. Unknown keys are ignored.
func AnswersByKey(m map[string]string) Answers {
	out := make(Answers, len(m))
	for k, v := range m {
		for _, q := range questions {
			if k == q.Key || k == strconv.Itoa(q.Ordinal) {
				out[q.Ordinal] = v
			}
		}
	}
	return out
}

// Complete reports whether every question has an answer.
func (a Answers) Complete() bool {
	for _, q := range questions {
		if _, ok := a[q.Ordinal]; !ok {
			return false
		}
	}
	return true
}

// Validate checks every present answer against its question's options.
func (a Answers) Validate() error {
	for ord, ans := range a {
		q, ok := QuestionAt(ord)
		if !ok {
			return fmt.Errorf("%w: no question %d", ErrInvalidOption, ord)
		}
		if _, ok := q.canonical(ans); !ok {
			return fmt.Errorf("%w: %q for %s", ErrInvalidOption, ans, q.Key)
		}
	}
	return nil
}

// Result is the one-time output of a completed questionnaire.
type Result struct {
	Filter    query.Filter  `json:"filter"`
	Shortlist []models.Wine `json:"shortlist"`
}

// DeriveFilter maps complete answers onto a gallery filter. The caller must
// pass canonical answers.
func DeriveFilter(a Answers) query.Filter {
	f := query.DefaultFilter()
	if t := a[1]; t != AnyType {
		f.Types = []string{t}
	}
	if r, ok := priceBrackets[a[2]]; ok {
		f.Price = r
	}
	if c := a[4]; c != AnyRegion {
		f.Countries = []string{c}
	}
	return f
}

// Shortlist returns up to n records matching the answers, in store order.
// Type, country and sweetness compare case-insensitively; a record missing
// a field the quiz reads does not match.
func Shortlist(records []models.Wine, a Answers, n int) []models.Wine {
	if n <= 0 {
		return []models.Wine{}
	}
	f := DeriveFilter(a)
	sweetness := []string{a[3]}
	if a[3] == AnySweetness {
		sweetness = nil
	}
	wantSparkling := a[5] == YesSparkling

	out := make([]models.Wine, 0, n)
	for _, w := range records {
		if len(out) >= n {
			break
		}
		if !query.MatchesAnyOrAllFold(f.Types, w.WineType()) {
			continue
		}
		if p, ok := w.Price(); !ok || !f.Price.Contains(p) {
			continue
		}
		if !query.MatchesAnyOrAllFold(f.Countries, w.Country()) {
			continue
		}
		if !query.MatchesAnyOrAllFold(sweetness, w.Get(models.FieldSweetness)) {
			continue
		}
		if wantSparkling && !strings.EqualFold(strings.TrimSpace(w.Get(models.FieldSparkling)), "true") {
			continue
		}
		out = append(out, w)
	}
	return out
}
