package analysisapi

import (
	"fmt"

	"github.com/tidwall/gjson"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
)

func decodeError(what string, cause error) error {
	return errors.ExternalServiceError(serviceName, 0, fmt.Errorf("unexpected %s response: %w", what, cause))
}

func decodeMessage(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", decodeError("message", fmt.Errorf("invalid JSON"))
	}
	msg := gjson.GetBytes(body, "message")
	if !msg.Exists() {
		return "", decodeError("message", fmt.Errorf("missing message field"))
	}
	return msg.String(), nil
}

func decodeAnalysisID(body []byte) (core.AnalysisID, error) {
	if !gjson.ValidBytes(body) {
		return "", decodeError("upload", fmt.Errorf("invalid JSON"))
	}
	raw := gjson.GetBytes(body, "analysisId").String()
	id, err := core.ParseAnalysisID(raw)
	if err != nil {
		return "", decodeError("upload", err)
	}
	return id, nil
}

// decodeSummaries reads {"results": [...]} listings. created_at is epoch
// seconds, sent either as a number or as a string; entries whose time can't
// be parsed are kept with a zero time.
func decodeSummaries(body []byte, kind analysis.Kind) ([]analysis.Summary, error) {
	if !gjson.ValidBytes(body) {
		return nil, decodeError("listing", fmt.Errorf("invalid JSON"))
	}
	results := gjson.GetBytes(body, "results")
	if !results.IsArray() {
		return nil, decodeError("listing", fmt.Errorf("results is not an array"))
	}

	var summaries []analysis.Summary
	var decodeErr error
	results.ForEach(func(_, item gjson.Result) bool {
		id, err := core.ParseAnalysisID(item.Get("analysisId").String())
		if err != nil {
			decodeErr = decodeError("listing", err)
			return false
		}
		s := analysis.Summary{
			ID:        id,
			Kind:      kind,
			Name:      item.Get("name").String(),
			Holder:    item.Get("holder").String(),
			TimeSlots: item.Get("analysis_time_slots").Bool(),
		}
		if ts, err := core.ParseEpoch(item.Get("created_at").String()); err == nil {
			s.CreatedAt = ts
		}
		summaries = append(summaries, s)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return summaries, nil
}

func decodeRatios(body []byte) (analysis.SelfPercentRatios, error) {
	var ratios analysis.SelfPercentRatios
	if !gjson.ValidBytes(body) {
		return ratios, decodeError("ratios", fmt.Errorf("invalid JSON"))
	}
	monthly := gjson.GetBytes(body, "monthly_ratios")
	if !monthly.IsArray() {
		return ratios, decodeError("ratios", fmt.Errorf("monthly_ratios is not an array"))
	}
	for _, v := range monthly.Array() {
		ratios.MonthlyRatios = append(ratios.MonthlyRatios, v.Float())
	}
	ratios.Average = gjson.GetBytes(body, "average").Float()
	return ratios, nil
}
