package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"solarweb/domain/core"
)

// Kind distinguishes the two analysis flows offered by the service
type Kind string

const (
	KindEnergy Kind = "energy"
	KindSolar  Kind = "solar"
)

// ParseKind validates a kind taken from a route or stored record
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindEnergy:
		return KindEnergy, nil
	case KindSolar:
		return KindSolar, nil
	}
	return "", fmt.Errorf("%w %q", core.ErrUnknownKind, s)
}

// Title returns the page heading for the kind
func (k Kind) Title() string {
	switch k {
	case KindEnergy:
		return "Energy"
	case KindSolar:
		return "Solar"
	}
	return string(k)
}

// Summary is one entry of the service's result listings
type Summary struct {
	ID        core.AnalysisID `json:"analysisId"`
	Kind      Kind            `json:"kind"`
	CreatedAt core.Timestamp  `json:"created_at"`
	Name      string          `json:"name,omitempty"`
	Holder    string          `json:"holder,omitempty"`
	TimeSlots bool            `json:"analysis_time_slots"`
}

// CreatedAtDisplay formats the creation time for listing cards
func (s Summary) CreatedAtDisplay(loc *time.Location) string {
	return s.CreatedAt.LocalDisplay(loc)
}

// SortNewestFirst orders summaries by creation time, most recent first.
// Entries with equal times keep their relative order.
func SortNewestFirst(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
}

// SelfPercentRatios is the monthly self-consumption ratio series of a solar
// analysis together with its average.
type SelfPercentRatios struct {
	MonthlyRatios []float64 `json:"monthly_ratios"`
	Average       float64   `json:"average"`
}

// MonthlyRatio is one row of the ratio table
type MonthlyRatio struct {
	Month int
	Ratio float64
}

// Rows returns the ratios indexed by month, starting at 0 as the service does
func (r SelfPercentRatios) Rows() []MonthlyRatio {
	rows := make([]MonthlyRatio, len(r.MonthlyRatios))
	for i, v := range r.MonthlyRatios {
		rows[i] = MonthlyRatio{Month: i, Ratio: v}
	}
	return rows
}

// PlotImage is an image returned by the service, encoded for inline display
type PlotImage struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	DataURI   string `json:"data_uri"`
}

// SolarResult bundles everything shown on a solar result page
type SolarResult struct {
	ID                        core.AnalysisID
	ConsumptionProductionPlot PlotImage
	MonthlyPlots              []PlotImage
	Ratios                    SelfPercentRatios
	MonthlyProduction         string
	MonthlyConsumption        string
}
