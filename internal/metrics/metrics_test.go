package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordQuery_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(QueryErrors.WithLabelValues("lookup"))

	RecordQuery("lookup", time.Millisecond, nil)
	RecordQuery("lookup", time.Millisecond, errors.New("wine not found"))

	got := testutil.ToFloat64(QueryErrors.WithLabelValues("lookup")) - before
	if got != 1 {
		t.Errorf("lookup errors delta = %v, want 1", got)
	}
}

func TestRecordQuizCompletion(t *testing.T) {
	emptyBefore := testutil.ToFloat64(QuizCompletions.WithLabelValues("true"))
	fullBefore := testutil.ToFloat64(QuizCompletions.WithLabelValues("false"))

	RecordQuizCompletion(0)
	RecordQuizCompletion(3)
	RecordQuizCompletion(5)

	if d := testutil.ToFloat64(QuizCompletions.WithLabelValues("true")) - emptyBefore; d != 1 {
		t.Errorf("empty completions delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(QuizCompletions.WithLabelValues("false")) - fullBefore; d != 2 {
		t.Errorf("non-empty completions delta = %v, want 2", d)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/gallery/wines", "200"))
	RecordAPIRequest("GET", "/api/v1/gallery/wines", 200, 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/gallery/wines", "200"))
	if after-before != 1 {
		t.Errorf("requests delta = %v, want 1", after-before)
	}
}

func TestRecordMatches(t *testing.T) {
	// Histogram observations must not panic for zero or large results.
	RecordMatches(0)
	RecordMatches(100000)
}
