package ui

import (
	"net/url"
	"time"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/domain/table"
	"solarweb/ports"
)

type pageData struct {
	Title  string
	Active string
	Flash  string
	Error  string
}

// CopyButton is one clipboard action rendered next to a table
type CopyButton struct {
	Label   string
	Payload string
	Empty   bool
}

// TableView is the template model of a rendered table
type TableView struct {
	Title          string
	Header         []string
	Rows           []table.Row
	Clipboard      bool
	CommaSeparator bool
	ToggleURL      string
	ToggleLabel    string
	CopyAll        CopyButton
	Groups         []CopyButton
	Summary        []SummaryView
	ExportURL      string
}

// SummaryView is a column summary with numbers formatted for display
type SummaryView struct {
	Header string
	Count  int
	Min    string
	Max    string
	Mean   string
	Sum    string
	StdDev string
}

// newTableView renders r for a page served at pageURL. The toggle link keeps
// the other query parameters of the page.
func newTableView(title string, r *table.Renderer, pageURL *url.URL) TableView {
	view := TableView{
		Title:          title,
		Header:         r.Header(),
		Rows:           r.Body(),
		Clipboard:      r.ClipboardEnabled(),
		CommaSeparator: r.CommaSeparator(),
		ToggleURL:      toggleURL(pageURL, !r.CommaSeparator()),
	}
	if r.CommaSeparator() {
		view.ToggleLabel = "Use dot as decimal separator"
	} else {
		view.ToggleLabel = "Use comma as decimal separator"
	}

	if view.Clipboard {
		all := r.CopyAll()
		view.CopyAll = CopyButton{Label: "Copy to clipboard", Payload: all, Empty: all == ""}
		for _, g := range r.Groups() {
			payload, _ := r.CopyGroup(g.Name)
			view.Groups = append(view.Groups, CopyButton{Label: g.Label, Payload: payload, Empty: payload == ""})
		}
	}

	for _, s := range table.Summarize(r) {
		view.Summary = append(view.Summary, SummaryView{
			Header: s.Header,
			Count:  s.Count,
			Min:    table.FormatNumber(s.Min, r.CommaSeparator()),
			Max:    table.FormatNumber(s.Max, r.CommaSeparator()),
			Mean:   table.FormatNumber(s.Mean, r.CommaSeparator()),
			Sum:    table.FormatNumber(s.Sum, r.CommaSeparator()),
			StdDev: table.FormatNumber(s.StdDev, r.CommaSeparator()),
		})
	}
	return view
}

func toggleURL(pageURL *url.URL, comma bool) string {
	q := pageURL.Query()
	if comma {
		q.Set("sep", "comma")
	} else {
		q.Del("sep")
	}
	u := url.URL{Path: pageURL.Path, RawQuery: q.Encode()}
	return u.String()
}

// AnalysisCard is one entry of a recent analyses list
type AnalysisCard struct {
	ID        core.AnalysisID
	Name      string
	Holder    string
	CreatedAt string
	Link      string
	DeleteURL string
	Filename  string
}

func newAnalysisCards(summaries []analysis.Summary, kind analysis.Kind, loc *time.Location, uploads map[core.AnalysisID]*ports.UploadRecord) []AnalysisCard {
	analysis.SortNewestFirst(summaries)

	cards := make([]AnalysisCard, 0, len(summaries))
	for _, s := range summaries {
		escaped := url.PathEscape(s.ID.String())
		card := AnalysisCard{
			ID:        s.ID,
			Name:      s.Name,
			Holder:    s.Holder,
			CreatedAt: s.CreatedAtDisplay(loc),
			Link:      "/" + string(kind) + "/" + escaped,
		}
		if kind == analysis.KindEnergy {
			card.DeleteURL = "/energy/" + escaped + "/delete"
		}
		if rec, ok := uploads[s.ID]; ok {
			card.Filename = rec.Filename
		}
		cards = append(cards, card)
	}
	return cards
}

// RatioRow is one month of the self consumption ratio table
type RatioRow struct {
	Month int
	Ratio string
}
