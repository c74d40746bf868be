package ui

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/domain/table"
	"solarweb/internal/api"
	"solarweb/internal/errors"
	"solarweb/ports"
)

type listingPage struct {
	pageData
	Kind      analysis.Kind
	Cards     []AnalysisCard
	ListError string
	Form      map[string]string
}

type energyResultPage struct {
	pageData
	ID     core.AnalysisID
	Upload *ports.UploadRecord
	Table  TableView
}

// handleEnergy renders the upload form and the recent time-slot analyses
func (a *App) handleEnergy(w http.ResponseWriter, r *http.Request) {
	page := a.listing(r.Context(), analysis.KindEnergy)
	page.Flash = flashMessage(r.URL.Query())
	a.renderTemplate(w, http.StatusOK, "energy.html", page)
}

// handleEnergyUpload forwards the consumption file and records the upload
func (a *App) handleEnergyUpload(w http.ResponseWriter, r *http.Request) {
	up, err := a.readUpload(w, r)
	if err != nil {
		a.renderListingError(w, r, analysis.KindEnergy, "energy.html", err, nil)
		return
	}
	defer up.Close()

	id, err := a.analysisAPI.PostEnergyFile(r.Context(), up.Upload)
	if err != nil {
		a.renderListingError(w, r, analysis.KindEnergy, "energy.html", err, nil)
		return
	}
	a.logger.Info("Energy analysis %s created from %s (%d bytes)", id, up.Filename, up.Size)
	a.recordUpload(r.Context(), id, analysis.KindEnergy, up)

	http.Redirect(w, r, "/energy?uploaded="+url.QueryEscape(id.String()), http.StatusSeeOther)
}

// handleEnergyDelete removes an analysis from the service and the local history
func (a *App) handleEnergyDelete(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseAnalysisID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderError(w, r, errors.InvalidInput(err.Error()))
		return
	}

	message, err := a.analysisAPI.DeleteAnalysis(r.Context(), id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.logger.Info("Deleted analysis %s: %s", id, message)

	if err := a.uploads.DeleteByAnalysisID(r.Context(), id); err != nil {
		a.logger.Warn("Failed to delete upload history for %s: %v", id, err)
	}

	http.Redirect(w, r, "/energy?deleted="+url.QueryEscape(id.String()), http.StatusSeeOther)
}

// handleEnergyResult renders the time-slot table of one analysis
func (a *App) handleEnergyResult(w http.ResponseWriter, r *http.Request) {
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

	raw, err := a.analysisAPI.EnergyByTimeSlot(r.Context(), id)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	renderer := table.New(raw, table.WithCommaSeparator(comma), table.WithCopyGroups(a.config.CopyGroups))
	view := newTableView("Energy by time slot", renderer, r.URL)
	export := url.Values{}
	if comma {
		export.Set("sep", "comma")
	}
	view.ExportURL = (&url.URL{Path: "/api/energy/" + id.String() + "/export.xlsx", RawQuery: export.Encode()}).String()

	page := energyResultPage{
		pageData: pageData{Title: "Energy", Active: "energy"},
		ID:       id,
		Table:    view,
	}
	if rec, err := a.uploads.GetByAnalysisID(r.Context(), id); err == nil {
		page.Upload = rec
	}

	a.renderTemplate(w, http.StatusOK, "energy_result.html", page)
}

// listing loads the recent analyses of a kind. A failing listing is shown
// on the page rather than failing it, so the upload form stays usable.
func (a *App) listing(ctx context.Context, kind analysis.Kind) listingPage {
	page := listingPage{
		pageData: pageData{Title: kind.Title(), Active: string(kind)},
		Kind:     kind,
	}

	var (
		summaries []analysis.Summary
		err       error
	)
	if kind == analysis.KindSolar {
		summaries, err = a.analysisAPI.ListSolarAnalyses(ctx)
	} else {
		summaries, err = a.analysisAPI.ListTimeSlotResults(ctx)
	}
	if err != nil {
		a.logger.Warn("Failed to list %s analyses: %v", kind, err)
		page.ListError = "Recent analyses could not be loaded."
		return page
	}

	page.Cards = newAnalysisCards(summaries, kind, a.config.Timezone, a.recentUploads(ctx))
	return page
}

func (a *App) recentUploads(ctx context.Context) map[core.AnalysisID]*ports.UploadRecord {
	records, err := a.uploads.ListRecent(ctx, a.config.HistoryLimit*10)
	if err != nil {
		a.logger.Warn("Failed to load upload history: %v", err)
		return nil
	}
	byID := make(map[core.AnalysisID]*ports.UploadRecord, len(records))
	for _, rec := range records {
		if _, seen := byID[rec.AnalysisID]; !seen {
			byID[rec.AnalysisID] = rec
		}
	}
	return byID
}

func (a *App) recordUpload(ctx context.Context, id core.AnalysisID, kind analysis.Kind, up *upload) {
	err := a.uploads.Create(ctx, &ports.UploadRecord{
		AnalysisID: id,
		Kind:       kind,
		Filename:   up.Filename,
		Size:       up.Size,
	})
	if err != nil {
		a.logger.Warn("Failed to record upload of %s: %v", id, err)
	}
}

func (a *App) renderListingError(w http.ResponseWriter, r *http.Request, kind analysis.Kind, templateName string, err error, form map[string]string) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}

	page := a.listing(r.Context(), kind)
	page.Error = userMessage(err)
	page.Form = form
	a.renderTemplate(w, status, templateName, page)
}

func separatorFromQuery(r *http.Request) (bool, error) {
	return api.ParseSeparator(r.URL.Query().Get("sep"))
}

func flashMessage(q url.Values) string {
	if id := q.Get("uploaded"); id != "" {
		return "Analysis " + id + " created."
	}
	if id := q.Get("deleted"); id != "" {
		return "Analysis " + id + " deleted."
	}
	return ""
}
