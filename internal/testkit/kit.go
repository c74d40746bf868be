// Package testkit provides test doubles and fixtures shared by handler tests
package testkit

import (
	"context"
	"io"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/ports"

	"github.com/stretchr/testify/mock"
)

// EnergyTable is a small time-slot result with five body rows
const EnergyTable = "slot;P1;P2;P3\n" +
	"00-08;1.5;2.25;0\n" +
	"08-10;3.1;0.5;1\n" +
	"10-14;4.75;1;2\n" +
	"14-18;2;3;4.5\n" +
	"18-24;0.25;0.75;1.25\n"

// MonthlyTable is a twelve month production table
const MonthlyTable = "month;kWh\n" +
	"1;110.5\n2;130.25\n3;180\n4;210.75\n5;250\n6;270.5\n" +
	"7;280\n8;260.25\n9;220\n10;170.5\n11;120\n12;100.75\n"

// MockAnalysisAPI is a testify mock of ports.AnalysisAPI
type MockAnalysisAPI struct {
	mock.Mock
}

var _ ports.AnalysisAPI = (*MockAnalysisAPI)(nil)

func (m *MockAnalysisAPI) Hello(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisAPI) HelloSolar(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// PostEnergyFile drains the upload body so callers see the whole file consumed
func (m *MockAnalysisAPI) PostEnergyFile(ctx context.Context, file ports.Upload) (core.AnalysisID, error) {
	body, _ := io.ReadAll(file.Body)
	args := m.Called(ctx, file.Filename, string(body))
	return args.Get(0).(core.AnalysisID), args.Error(1)
}

func (m *MockAnalysisAPI) EnergyByTimeSlot(ctx context.Context, id core.AnalysisID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisAPI) ListTimeSlotResults(ctx context.Context) ([]analysis.Summary, error) {
	args := m.Called(ctx)
	summaries, _ := args.Get(0).([]analysis.Summary)
	return summaries, args.Error(1)
}

func (m *MockAnalysisAPI) DeleteAnalysis(ctx context.Context, id core.AnalysisID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisAPI) PostSolarForm(ctx context.Context, file ports.Upload, params analysis.SolarParameters) (core.AnalysisID, error) {
	body, _ := io.ReadAll(file.Body)
	args := m.Called(ctx, file.Filename, string(body), params)
	return args.Get(0).(core.AnalysisID), args.Error(1)
}

func (m *MockAnalysisAPI) ListSolarAnalyses(ctx context.Context) ([]analysis.Summary, error) {
	args := m.Called(ctx)
	summaries, _ := args.Get(0).([]analysis.Summary)
	return summaries, args.Error(1)
}

func (m *MockAnalysisAPI) SolarConsumptionProductionPlot(ctx context.Context, id core.AnalysisID) (analysis.PlotImage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(analysis.PlotImage), args.Error(1)
}

func (m *MockAnalysisAPI) SolarMonthlyPlots(ctx context.Context, id core.AnalysisID) ([]analysis.PlotImage, error) {
	args := m.Called(ctx, id)
	plots, _ := args.Get(0).([]analysis.PlotImage)
	return plots, args.Error(1)
}

func (m *MockAnalysisAPI) SolarSelfPercentRatios(ctx context.Context, id core.AnalysisID) (analysis.SelfPercentRatios, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(analysis.SelfPercentRatios), args.Error(1)
}

func (m *MockAnalysisAPI) SolarMonthlyProduction(ctx context.Context, id core.AnalysisID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisAPI) SolarMonthlyConsumption(ctx context.Context, id core.AnalysisID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
