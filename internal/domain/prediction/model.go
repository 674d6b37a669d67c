package prediction

// Probabilities are percentages in [0,100]. A nil field was not reported.
type Probabilities struct {
	Home *float64
	Draw *float64
	Away *float64
}

type Source string

const (
	SourceProvider  Source = "provider"
	SourceHeuristic Source = "model"
)

type Prediction struct {
	FixtureID     int64
	Source        Source
	WinnerTeamID  int64
	WinnerLabel   string
	WinnerComment string
	Advice        string
	Probabilities Probabilities
}

// Confidence is the largest reported probability. ok is false when none was
// reported, which is not the same as a confidence of zero.
func (p Prediction) Confidence() (value float64, ok bool) {
	for _, v := range []*float64{p.Probabilities.Home, p.Probabilities.Draw, p.Probabilities.Away} {
		if v == nil {
			continue
		}
		if !ok || *v > value {
			value = *v
			ok = true
		}
	}
	return value, ok
}

type Verdict string

const (
	VerdictShown          Verdict = "shown"
	VerdictBelowThreshold Verdict = "below_threshold"
	VerdictUnrated        Verdict = "unrated"
)

// Evaluate decides how a prediction is presented against a minimum confidence.
// Predictions without any probability are shown without a score.
func (p Prediction) Evaluate(minConfidence float64) Verdict {
	confidence, ok := p.Confidence()
	if !ok {
		return VerdictUnrated
	}
	if confidence < minConfidence {
		return VerdictBelowThreshold
	}
	return VerdictShown
}
