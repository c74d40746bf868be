package ui

import (
	"bytes"
	"context"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"solarweb/adapters/memory"
	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal"
	"solarweb/internal/api"
	"solarweb/internal/errors"
	"solarweb/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *App
	api     *testkit.MockAnalysisAPI
	uploads *memory.UploadRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := &testkit.MockAnalysisAPI{}
	uploads := memory.NewUploadRepository()
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		madrid = time.UTC
	}
	app, err := NewApp(api, uploads, Config{Timezone: madrid, MaxUploadBytes: 1 << 20},
		internal.NewLogger(&bytes.Buffer{}, internal.LogLevelError))
	require.NoError(t, err)
	return &fixture{app: app, api: api, uploads: uploads}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.app.Handler().ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, target, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(consumptionFileField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndexShowsGreeting(t *testing.T) {
	f := newFixture(t)
	f.api.On("HelloSolar", mock.Anything).Return("Hello from solar", nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello from solar")
}

func TestIndexDegradesWhenServiceIsDown(t *testing.T) {
	f := newFixture(t)
	f.api.On("HelloSolar", mock.Anything).Return("", errors.ExternalServiceError("analysis API", 0, nil))

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not reachable")
}

func TestEnergyListingNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.api.On("ListTimeSlotResults", mock.Anything).Return([]analysis.Summary{
		{ID: "older", Kind: analysis.KindEnergy, CreatedAt: core.NewTimestamp(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))},
		{ID: "newer", Kind: analysis.KindEnergy, CreatedAt: core.NewTimestamp(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))},
	}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/energy", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Less(t, strings.Index(body, "newer"), strings.Index(body, "older"))
	assert.Contains(t, body, `action="/energy/newer/delete"`)
}

func TestEnergyListingFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	f.api.On("ListTimeSlotResults", mock.Anything).Return(nil, errors.ExternalServiceError("analysis API", 500, nil))

	w := f.do(httptest.NewRequest(http.MethodGet, "/energy", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="consumption_file"`)
	assert.Contains(t, w.Body.String(), "could not be loaded")
}

func TestEnergyUploadRecordsAndRedirects(t *testing.T) {
	f := newFixture(t)
	f.api.On("PostEnergyFile", mock.Anything, "usage.csv", "a;b\n1;2\n").Return(core.AnalysisID("e-42"), nil)

	w := f.do(multipartRequest(t, "/energy", "usage.csv", "a;b\n1;2\n", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/energy?uploaded=e-42", w.Header().Get("Location"))

	rec, err := f.uploads.GetByAnalysisID(context.Background(), "e-42")
	require.NoError(t, err)
	assert.Equal(t, "usage.csv", rec.Filename)
	assert.Equal(t, int64(8), rec.Size)
	assert.Equal(t, analysis.KindEnergy, rec.Kind)
	f.api.AssertExpectations(t)
}

func TestEnergyUploadWithoutFile(t *testing.T) {
	f := newFixture(t)
	f.api.On("ListTimeSlotResults", mock.Anything).Return([]analysis.Summary{}, nil)

	w := f.do(multipartRequest(t, "/energy", "", "", map[string]string{"other": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "a consumption file is required")
	f.api.AssertNotCalled(t, "PostEnergyFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnergyUploadTooLarge(t *testing.T) {
	f := newFixture(t)
	f.api.On("ListTimeSlotResults", mock.Anything).Return([]analysis.Summary{}, nil)

	big := strings.Repeat("x", 2<<20)
	w := f.do(multipartRequest(t, "/energy", "big.csv", big, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.api.AssertNotCalled(t, "PostEnergyFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnergyDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.On("DeleteAnalysis", mock.Anything, core.AnalysisID("e-1")).Return("deleted", nil)
	f.api.On("PostEnergyFile", mock.Anything, "f.csv", "x").Return(core.AnalysisID("e-1"), nil)

	f.do(multipartRequest(t, "/energy", "f.csv", "x", nil))
	_, err := f.uploads.GetByAnalysisID(ctx, "e-1")
	require.NoError(t, err)

	w := f.do(httptest.NewRequest(http.MethodPost, "/energy/e-1/delete", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/energy?deleted=e-1", w.Header().Get("Location"))

	_, err = f.uploads.GetByAnalysisID(ctx, "e-1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestEnergyResultRendersTable(t *testing.T) {
	f := newFixture(t)
	f.api.On("EnergyByTimeSlot", mock.Anything, core.AnalysisID("e1")).Return(testkit.EnergyTable, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/energy/e1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<th class="no-select">P1</th>`)
	assert.Contains(t, body, `<td class="row-label no-select">00-08</td>`)
	assert.Contains(t, body, "Copy first group")
	assert.Contains(t, body, "Copy fourth group")
	assert.Contains(t, body, "Use comma as decimal separator")
	assert.Contains(t, body, `href="/energy/e1?sep=comma"`)
	assert.Contains(t, body, "/api/energy/e1/export.xlsx")
	assert.Contains(t, body, "<td>2.25</td>")
}

func TestEnergyResultCommaSeparator(t *testing.T) {
	f := newFixture(t)
	f.api.On("EnergyByTimeSlot", mock.Anything, core.AnalysisID("e1")).Return(testkit.EnergyTable, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/energy/e1?sep=comma", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<td>2,25</td>")
	assert.Contains(t, body, "Use dot as decimal separator")
	assert.Contains(t, body, `href="/energy/e1"`)
}

func TestEnergyResultErrors(t *testing.T) {
	f := newFixture(t)
	f.api.On("EnergyByTimeSlot", mock.Anything, core.AnalysisID("gone")).Return("", errors.NotFound("analysis gone"))
	f.api.On("EnergyByTimeSlot", mock.Anything, core.AnalysisID("boom")).
		Return("", errors.ExternalServiceError("analysis API", 500, nil))

	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/energy/gone", nil)).Code)
	assert.Equal(t, http.StatusBadGateway, f.do(httptest.NewRequest(http.MethodGet, "/energy/boom", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(httptest.NewRequest(http.MethodGet, "/energy/e1?sep=tab", nil)).Code)
}

func TestSeparatorErrorMatchesTableAPI(t *testing.T) {
	f := newFixture(t)

	_, apiErr := api.ParseSeparator("tab")
	require.Error(t, apiErr)

	for _, target := range []string{"/energy/e1?sep=tab", "/solar/s-1?sep=tab"} {
		w := f.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), template.HTMLEscapeString(apiErr.Error()), target)
	}
	f.api.AssertNotCalled(t, "EnergyByTimeSlot", mock.Anything, mock.Anything)
}

func TestSolarUploadValidatesParameters(t *testing.T) {
	f := newFixture(t)
	f.api.On("ListSolarAnalyses", mock.Anything).Return([]analysis.Summary{}, nil)

	fields := map[string]string{
		"location": "Madrid", "peakpower": "5", "mountingplace": "roof",
		"loss": "7", "angle": "30", "aspect": "0",
	}
	w := f.do(multipartRequest(t, "/solar", "c.csv", "data", fields))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mountingplace")
	assert.Contains(t, w.Body.String(), `value="Madrid"`)
	f.api.AssertNotCalled(t, "PostSolarForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSolarUpload(t *testing.T) {
	f := newFixture(t)
	params := analysis.SolarParameters{
		Location: "Madrid", PeakPower: 5.5, MountingPlace: "building", Loss: 7, Angle: 30, Aspect: -10,
	}
	f.api.On("PostSolarForm", mock.Anything, "c.csv", "data", params).Return(core.AnalysisID("s-1"), nil)

	fields := map[string]string{
		"location": "Madrid", "peakpower": "5,5", "mountingplace": "building",
		"loss": "7", "angle": "30", "aspect": "-10",
	}
	w := f.do(multipartRequest(t, "/solar", "c.csv", "data", fields))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/solar?uploaded=s-1", w.Header().Get("Location"))
	f.api.AssertExpectations(t)
}

func TestSolarResult(t *testing.T) {
	f := newFixture(t)
	id := core.AnalysisID("s-1")
	plot := analysis.PlotImage{Name: "plot.png", MediaType: "image/png", DataURI: "data:image/png;base64,AAAA"}
	f.api.On("SolarConsumptionProductionPlot", mock.Anything, id).Return(plot, nil)
	f.api.On("SolarMonthlyPlots", mock.Anything, id).Return([]analysis.PlotImage{plot, plot}, nil)
	f.api.On("SolarSelfPercentRatios", mock.Anything, id).
		Return(analysis.SelfPercentRatios{MonthlyRatios: []float64{0.5, 0.25}, Average: 0.375}, nil)
	f.api.On("SolarMonthlyProduction", mock.Anything, id).Return(testkit.MonthlyTable, nil)
	f.api.On("SolarMonthlyConsumption", mock.Anything, id).Return(testkit.MonthlyTable, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/solar/s-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, body, "Solar Plot 2")
	assert.Contains(t, body, "<td>Average</td>")
	assert.Contains(t, body, ">0.375<")
	assert.Contains(t, body, ">0.25<")
	assert.Contains(t, body, "Monthly Production")
	// production and consumption tables have no copy buttons
	assert.NotContains(t, body, "data-clipboard")
}

func TestSolarResultFailsOnFirstError(t *testing.T) {
	f := newFixture(t)
	id := core.AnalysisID("s-1")
	f.api.On("SolarConsumptionProductionPlot", mock.Anything, id).Return(analysis.PlotImage{}, errors.NotFound("plot"))
	f.api.On("SolarMonthlyPlots", mock.Anything, id).Return([]analysis.PlotImage{}, nil)
	f.api.On("SolarSelfPercentRatios", mock.Anything, id).Return(analysis.SelfPercentRatios{}, nil)
	f.api.On("SolarMonthlyProduction", mock.Anything, id).Return("", nil)
	f.api.On("SolarMonthlyConsumption", mock.Anything, id).Return("", nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/solar/s-1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAboutPage(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/about", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<h1 id="about-solarweb">About solarweb</h1>`)
	assert.Contains(t, w.Body.String(), "<table>")
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Could not copy to clipboard")
}

func TestUnknownPage(t *testing.T) {
	f := newFixture(t)
	w := f.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleURLKeepsOtherParameters(t *testing.T) {
	u, _ := url.Parse("/solar/s-1?tab=plots")
	assert.Equal(t, "/solar/s-1?sep=comma&tab=plots", toggleURL(u, true))

	u, _ = url.Parse("/solar/s-1?sep=comma&tab=plots")
	assert.Equal(t, "/solar/s-1?tab=plots", toggleURL(u, false))
}

func TestImageSource(t *testing.T) {
	assert.Equal(t, "data:image/gif;base64,R0", string(imageSource("data:image/gif;base64,R0")))
	assert.Empty(t, string(imageSource("javascript:alert(1)")))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "32.0 MB", formatBytes(32<<20))
}
