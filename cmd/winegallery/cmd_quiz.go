package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/browse"
	"github.com/HerbHall/winegallery/internal/quiz"
)

var (
	quizAnswers []string
	quizJSON    bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer the five-question quiz for recommendations",
	Long: `Without --answer, asks each question interactively. With --answer, every
question must be answered as key=option.

Example:
  winegallery quiz
  winegallery quiz --answer wine_type=Red --answer price=0-50 \
    --answer sweetness=Dry --answer region=USA --answer sparkling=No`,
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().StringArrayVar(&quizAnswers, "answer", nil, "answer as key=option (wine_type, price, sweetness, region, sparkling)")
	quizCmd.Flags().BoolVar(&quizJSON, "json", false, "print JSON")
}

func runQuiz(cmd *cobra.Command, _ []string) error {
	engine, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(quizAnswers) == 0 {
		session := browse.New(engine, cmd.InOrStdin(), out, browse.WithLogger(logger))
		_, err := session.RunQuiz()
		return err
	}

	byKey := make(map[string]string, len(quizAnswers))
	for _, a := range quizAnswers {
		k, val, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("answer %q: want key=option", a)
		}
		byKey[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	res, err := engine.Recommend(quiz.AnswersByKey(byKey))
	if err != nil {
		return err
	}

	if quizJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	browse.RenderRecommendation(out, res)
	return nil
}
