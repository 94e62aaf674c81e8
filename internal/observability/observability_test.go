package observability

import (
	"strings"
	"testing"
	"time"
)

func TestHistogramExposition(t *testing.T) {
	h := NewHistogramVec("lat", "latency", []string{"route"}, []float64{0.1, 1})
	h.Observe(0.05, "/api/new_quiz")
	h.Observe(0.5, "/api/new_quiz")
	h.Observe(3, "/api/new_quiz")

	var b strings.Builder
	if err := h.WritePrometheus(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		`lat_bucket{route="/api/new_quiz",le="0.1"} 1`,
		`lat_bucket{route="/api/new_quiz",le="1"} 2`,
		`lat_bucket{route="/api/new_quiz",le="+Inf"} 3`,
		`lat_count{route="/api/new_quiz"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestCounterVecSortedAndEscaped(t *testing.T) {
	c := NewCounterVec("offers", "h", []string{"quiz_type"})
	c.Inc("word")
	c.Inc("exercise")
	c.Inc(`we"ird`)

	var b strings.Builder
	if err := c.WritePrometheus(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	ex := strings.Index(out, `quiz_type="exercise"`)
	wo := strings.Index(out, `quiz_type="word"`)
	if ex < 0 || wo < 0 || ex > wo {
		t.Fatalf("series not sorted:\n%s", out)
	}
	if !strings.Contains(out, `quiz_type="we\"ird"`) {
		t.Fatalf("label not escaped:\n%s", out)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncQuizOffered("word")
	m.IncDataIntegrity()
	m.AddSessionsExpired(3)
	if err := m.WritePrometheus(&strings.Builder{}); err != nil {
		t.Fatal(err)
	}
}

func TestInitDisabled(t *testing.T) {
	if Init(false, 0) != nil {
		t.Fatal("disabled metrics should be nil")
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders(" a=1, b = 2 ,bad,c=")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("unexpected headers %v", h)
	}
	if parseHeaders("") != nil {
		t.Fatal("empty headers should be nil")
	}
}
