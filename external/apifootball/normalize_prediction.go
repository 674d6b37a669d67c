package apifootball

import "github.com/riskibarqy/matchday/internal/domain/prediction"

// predictionBlock finds the block holding winner/advice/percent. The provider
// sends it under "predictions" as an object, or as a list of predictor
// sources of which the first is used.
func predictionBlock(rec map[string]any) (map[string]any, bool) {
	switch typed := rec["predictions"].(type) {
	case map[string]any:
		return typed, true
	case []any:
		if len(typed) == 0 {
			return nil, false
		}
		block := asMap(typed[0])
		return block, block != nil
	}
	return nil, false
}

func decodePredictionWrapped(fixtureID int64) func(map[string]any) (prediction.Prediction, bool) {
	return func(rec map[string]any) (prediction.Prediction, bool) {
		block, ok := predictionBlock(rec)
		if !ok {
			return prediction.Prediction{}, false
		}
		return predictionFromBlock(fixtureID, block), true
	}
}

// A flat record carries the block members directly.
func decodePredictionFlat(fixtureID int64) func(map[string]any) (prediction.Prediction, bool) {
	return func(rec map[string]any) (prediction.Prediction, bool) {
		_, hasWinner := rec["winner"]
		_, hasAdvice := rec["advice"]
		if !hasWinner && !hasAdvice && probabilityBlock(rec) == nil {
			return prediction.Prediction{}, false
		}
		return predictionFromBlock(fixtureID, rec), true
	}
}

func predictionFromBlock(fixtureID int64, block map[string]any) prediction.Prediction {
	p := prediction.Prediction{
		FixtureID: fixtureID,
		Source:    prediction.SourceProvider,
		Advice:    getString(block, "advice"),
	}

	switch winner := block["winner"].(type) {
	case map[string]any:
		p.WinnerTeamID = getInt64(winner, "id")
		p.WinnerLabel = getString(winner, "name")
		p.WinnerComment = getString(winner, "comment")
	case string:
		p.WinnerLabel = winner
	}

	if probs := probabilityBlock(block); probs != nil {
		p.Probabilities = prediction.Probabilities{
			Home: parsePercent(probs["home"]),
			Draw: parsePercent(probs["draw"]),
			Away: parsePercent(probs["away"]),
		}
	}
	return p
}

func probabilityBlock(block map[string]any) map[string]any {
	if probs := getMap(block, "percent"); probs != nil {
		return probs
	}
	return getMap(block, "probability")
}

// NormalizePredictions decodes a predictions payload for fixtureID. The
// provider does not echo the fixture id, so the caller supplies it.
func NormalizePredictions(payload []byte, fixtureID int64) ([]prediction.Prediction, int) {
	records, _, ok := decodeRecords(payload)
	if !ok {
		return nil, 1
	}
	return decodeEach(records, decodePredictionWrapped(fixtureID), decodePredictionFlat(fixtureID))
}
