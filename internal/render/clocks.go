package render

import (
	"fmt"
	"html"
	"strings"

	"kairosconsole/internal/selection"

	"github.com/PuerkitoBio/goquery"
)

// RenderClockList fills the clock area: group checkboxes first, then one
// checkbox per listed clock. A failed load shows only the inline error.
func RenderClockList(container *goquery.Selection, snap selection.Snapshot) {
	if snap.LoadError != "" {
		container.SetHtml(fmt.Sprintf(`<div id="relogios"><span class="error">%s</span></div>`,
			html.EscapeString(snap.LoadError)))
		return
	}

	var b strings.Builder

	b.WriteString(`<div class="grupos-relogios">`)
	for _, name := range snap.Groups.Names() {
		escaped := html.EscapeString(name)
		checked := ""
		if snap.CheckedGroups[name] {
			checked = " checked"
			fmt.Fprintf(&b, `<input type="hidden" name="grupos_anteriores" value="%s">`, escaped)
		}
		fmt.Fprintf(&b, `<label style="font-weight: bold"><input type="checkbox" class="grupo-relogio-checkbox" name="grupos" value="%s" data-grupo="%s"%s> Selecionar grupo: %s</label>`,
			escaped, escaped, checked, escaped)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div id="relogios">`)
	for _, clock := range snap.Clocks {
		checked := ""
		if snap.Checked[clock.RelogioNumero] {
			checked = " checked"
		}
		fmt.Fprintf(&b, `<label><input type="checkbox" name="relogios" value="%d"%s> %s</label>`,
			clock.RelogioNumero, checked, html.EscapeString(clock.Label()))
	}
	b.WriteString(`</div>`)

	container.SetHtml(b.String())
}

// CheckedClockValues reads back the checked clock checkbox values
func CheckedClockValues(container *goquery.Selection) []string {
	var values []string
	container.Find(`input[name="relogios"][checked]`).Each(func(i int, sel *goquery.Selection) {
		values = append(values, sel.AttrOr("value", ""))
	})
	return values
}
