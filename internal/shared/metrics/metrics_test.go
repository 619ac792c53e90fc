package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesFailureKinds(t *testing.T) {
	IncAnalysisStarted()
	IncAnalysisFailed("empty_document")
	IncAnalysisFailed("empty_document")
	IncAnalysisFailed("")
	ObserveLLMCall("ok", 1200)

	out := Render()
	for _, want := range []string{
		`resume_analysis_failed_total{kind="empty_document"} 2`,
		`resume_analysis_failed_total{kind="unknown"} 1`,
		`llm_calls_total{outcome="ok"}`,
		"# TYPE llm_call_duration_ms histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var sb strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		sb.WriteString(formatFloat(snap.buckets[i]))
		sb.WriteString("=")
		sb.WriteString(formatFloat(float64(cumulative)))
		sb.WriteString(" ")
	}
	if got := sb.String(); got != "10=1 100=2 " {
		t.Fatalf("unexpected cumulative buckets %q", got)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected totals: %+v", snap)
	}
}
