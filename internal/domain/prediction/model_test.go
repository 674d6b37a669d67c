package prediction

import "testing"

func pct(v float64) *float64 { return &v }

func TestPrediction_Evaluate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		p    Probabilities
		min  float64
		want Verdict
	}{
		{name: "above threshold", p: Probabilities{Home: pct(55), Draw: pct(25), Away: pct(20)}, min: 35, want: VerdictShown},
		{name: "exactly at threshold", p: Probabilities{Home: pct(35), Draw: pct(33), Away: pct(32)}, min: 35, want: VerdictShown},
		{name: "below threshold", p: Probabilities{Home: pct(34), Draw: pct(33), Away: pct(33)}, min: 35, want: VerdictBelowThreshold},
		{name: "no probabilities", p: Probabilities{}, min: 35, want: VerdictUnrated},
		{name: "only away reported", p: Probabilities{Away: pct(61)}, min: 35, want: VerdictShown},
		{name: "zero is a confidence", p: Probabilities{Home: pct(0)}, min: 1, want: VerdictBelowThreshold},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Prediction{Probabilities: tc.p}.Evaluate(tc.min)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPrediction_ConfidenceAbsentIsDistinctFromZero(t *testing.T) {
	t.Parallel()

	if _, ok := (Prediction{}).Confidence(); ok {
		t.Fatalf("expected absent confidence")
	}
	v, ok := Prediction{Probabilities: Probabilities{Draw: pct(0)}}.Confidence()
	if !ok || v != 0 {
		t.Fatalf("expected present zero confidence, got=%v ok=%v", v, ok)
	}
}
