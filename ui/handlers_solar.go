package ui

import (
	stderrors "errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/domain/table"
	"solarweb/internal/errors"
)

type solarResultPage struct {
	pageData
	ID                        core.AnalysisID
	ConsumptionProductionPlot analysis.PlotImage
	MonthlyPlots              []analysis.PlotImage
	Ratios                    []RatioRow
	Average                   string
	Production                TableView
	Consumption               TableView
}

// handleSolar renders the solar form and the recent solar analyses
func (a *App) handleSolar(w http.ResponseWriter, r *http.Request) {
	page := a.listing(r.Context(), analysis.KindSolar)
	page.Flash = flashMessage(r.URL.Query())
	a.renderTemplate(w, http.StatusOK, "solar.html", page)
}

// handleSolarUpload validates the installation parameters and forwards the
// file together with them
func (a *App) handleSolarUpload(w http.ResponseWriter, r *http.Request) {
	up, err := a.readUpload(w, r)
	if err != nil {
		a.renderListingError(w, r, analysis.KindSolar, "solar.html", err, solarForm(r))
		return
	}
	defer up.Close()

	params, err := analysis.ParseSolarParameters(r.FormValue)
	if err != nil {
		var fieldErr *analysis.FieldError
		if stderrors.As(err, &fieldErr) {
			err = errors.ValidationError(fieldErr.Error())
		}
		a.renderListingError(w, r, analysis.KindSolar, "solar.html", err, solarForm(r))
		return
	}

	id, err := a.analysisAPI.PostSolarForm(r.Context(), up.Upload, params)
	if err != nil {
		a.renderListingError(w, r, analysis.KindSolar, "solar.html", err, solarForm(r))
		return
	}
	a.logger.Info("Solar analysis %s created for %s (%.2f kWp)", id, params.Location, params.PeakPower)
	a.recordUpload(r.Context(), id, analysis.KindSolar, up)

	http.Redirect(w, r, "/solar?uploaded="+url.QueryEscape(id.String()), http.StatusSeeOther)
}

// handleSolarResult renders the plots and tables of one solar analysis. The
// five service calls run concurrently; the first failure fails the page.
func (a *App) handleSolarResult(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseAnalysisID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderError(w, r, errors.InvalidInput(err.Error()))
		return
	}
	comma, err := separatorFromQuery(r)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	var result analysis.SolarResult
	result.ID = id

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		result.ConsumptionProductionPlot, err = a.analysisAPI.SolarConsumptionProductionPlot(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		result.MonthlyPlots, err = a.analysisAPI.SolarMonthlyPlots(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		result.Ratios, err = a.analysisAPI.SolarSelfPercentRatios(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		result.MonthlyProduction, err = a.analysisAPI.SolarMonthlyProduction(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		result.MonthlyConsumption, err = a.analysisAPI.SolarMonthlyConsumption(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		a.renderError(w, r, err)
		return
	}

	page := solarResultPage{
		pageData:                  pageData{Title: "Solar", Active: "solar"},
		ID:                        id,
		ConsumptionProductionPlot: result.ConsumptionProductionPlot,
		MonthlyPlots:              result.MonthlyPlots,
		Average:                   table.FormatDecimal(result.Ratios.Average, comma),
		Production: newTableView("Monthly Production",
			table.New(result.MonthlyProduction, table.WithCommaSeparator(comma), table.WithClipboard(false)), r.URL),
		Consumption: newTableView("Monthly Consumption",
			table.New(result.MonthlyConsumption, table.WithCommaSeparator(comma), table.WithClipboard(false)), r.URL),
	}
	for _, row := range result.Ratios.Rows() {
		page.Ratios = append(page.Ratios, RatioRow{Month: row.Month, Ratio: table.FormatDecimal(row.Ratio, comma)})
	}

	a.renderTemplate(w, http.StatusOK, "solar_result.html", page)
}

func solarForm(r *http.Request) map[string]string {
	form := make(map[string]string)
	for _, name := range []string{"location", "peakpower", "mountingplace", "loss", "angle", "aspect"} {
		form[name] = r.FormValue(name)
	}
	return form
}

func userMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Code == errors.CodeExternalService {
			return "The analysis service rejected the request. Please try again later."
		}
		return appErr.Message
	}
	return "Something went wrong."
}
