package ui

import (
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type indexPage struct {
	pageData
	Greeting string
}

// handleIndex renders the home page with the analysis service greeting
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{pageData: pageData{Title: "Solar analysis", Active: "home"}}

	greeting, err := a.analysisAPI.HelloSolar(r.Context())
	if err != nil {
		a.logger.Warn("Analysis service greeting failed: %v", err)
		page.Error = "The analysis service is not reachable right now."
	} else {
		page.Greeting = greeting
	}

	a.renderTemplate(w, http.StatusOK, "index.html", page)
}

type aboutPage struct {
	pageData
	Content template.HTML
}

// handleAbout renders the embedded usage notes
func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	content, err := renderMarkdown("content/about.md")
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "about.html", aboutPage{
		pageData: pageData{Title: "About", Active: "about"},
		Content:  content,
	})
}

func renderMarkdown(name string) (template.HTML, error) {
	md, err := embeddedFiles.ReadFile(name)
	if err != nil {
		return "", err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})

	// the markdown is compiled into the binary, not user supplied
	return template.HTML(markdown.ToHTML(md, p, renderer)), nil
}
