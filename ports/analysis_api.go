package ports

import (
	"context"
	"io"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
)

// Upload is a consumption file forwarded to the analysis service
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AnalysisAPI is the external analysis service
type AnalysisAPI interface {
	Hello(ctx context.Context) (string, error)
	HelloSolar(ctx context.Context) (string, error)

	// Energy time-slot analyses
	PostEnergyFile(ctx context.Context, file Upload) (core.AnalysisID, error)
	EnergyByTimeSlot(ctx context.Context, id core.AnalysisID) (string, error)
	ListTimeSlotResults(ctx context.Context) ([]analysis.Summary, error)
	DeleteAnalysis(ctx context.Context, id core.AnalysisID) (string, error)

	// Solar analyses
	PostSolarForm(ctx context.Context, file Upload, params analysis.SolarParameters) (core.AnalysisID, error)
	ListSolarAnalyses(ctx context.Context) ([]analysis.Summary, error)
	SolarConsumptionProductionPlot(ctx context.Context, id core.AnalysisID) (analysis.PlotImage, error)
	SolarMonthlyPlots(ctx context.Context, id core.AnalysisID) ([]analysis.PlotImage, error)
	SolarSelfPercentRatios(ctx context.Context, id core.AnalysisID) (analysis.SelfPercentRatios, error)
	SolarMonthlyProduction(ctx context.Context, id core.AnalysisID) (string, error)
	SolarMonthlyConsumption(ctx context.Context, id core.AnalysisID) (string, error)
}
