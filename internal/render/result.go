package render

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"kairosconsole/internal/models"
	"kairosconsole/internal/sanitizer"

	"github.com/PuerkitoBio/goquery"
)

const downloadSectionClass = "download-section"

// ResultView is what a result area shows after a submission
type ResultView struct {
	Success bool
	Lines   []string
	// Result drives the download links; nil for transport, status and parse errors
	Result *models.Result
}

// NewPanel creates an empty, hidden result area with the given element id
func NewPanel(id string) (*goquery.Document, *goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		fmt.Sprintf(`<div id="%s" class="result" style="display: none"></div>`, html.EscapeString(id))))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create result panel: %w", err)
	}
	return doc, doc.Find("#" + id), nil
}

// RenderResult replaces the content of the result area and shows it
func RenderResult(container *goquery.Selection, view ResultView) {
	class := "error"
	if view.Success {
		class = "success"
	}

	var b strings.Builder
	for _, line := range view.Lines {
		fmt.Fprintf(&b, `<p class="%s">%s</p>`, class, html.EscapeString(line))
	}

	container.SetHtml(b.String())
	container.SetAttr("style", "display: block")

	RenderDownloads(container, view.Result)
}

// RenderDownloads removes any previous download section from the container and
// appends one link per generated artifact. Nothing is appended without artifacts.
func RenderDownloads(container *goquery.Selection, result *models.Result) {
	container.Find("." + downloadSectionClass).Remove()

	var links []string
	for _, artifact := range result.Artifacts() {
		href, ok := sanitizer.ArtifactURL(artifact.FileName)
		if !ok {
			slog.Warn("skipping artifact with unsafe file name", "file", artifact.FileName)
			continue
		}
		links = append(links, fmt.Sprintf(`<a href="%s" target="_blank">📥 %s</a>`,
			html.EscapeString(href), html.EscapeString(artifact.Title())))
	}
	if len(links) == 0 {
		return
	}

	container.AppendHtml(fmt.Sprintf(`<div class="%s"><strong>Arquivos Gerados:</strong>%s</div>`,
		downloadSectionClass, strings.Join(links, "")))
}

// DownloadLinks returns the hrefs currently rendered in the container
func DownloadLinks(container *goquery.Selection) []string {
	var hrefs []string
	container.Find("." + downloadSectionClass + " a").Each(func(i int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// OuterHTML renders the selection itself, not just its children
func OuterHTML(sel *goquery.Selection) (string, error) {
	return goquery.OuterHtml(sel)
}

// WriteText prints a result view for a terminal. Download links are joined to baseURL.
func WriteText(w io.Writer, view ResultView, baseURL string) error {
	for _, line := range view.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	artifacts := view.Result.Artifacts()
	if len(artifacts) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "Arquivos Gerados:"); err != nil {
		return err
	}
	for _, artifact := range artifacts {
		href, ok := sanitizer.ArtifactURL(artifact.FileName)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %s%s\n", artifact.Title(), strings.TrimRight(baseURL, "/"), href); err != nil {
			return err
		}
	}
	return nil
}
