package panels

import (
	"net/url"
	"strings"
)

// Panel identifies one section of the console page
type Panel string

const (
	PanelComandos     Panel = "panel-envio-comandos"
	PanelRelogios     Panel = "panel-envio-relogios"
	PanelDesligamento Panel = "panel-desligamento"
)

// DesligamentoTab is the fragment (and aba query value) that opens the dismissal panel
const DesligamentoTab = "desligamento"

// State says which panels are shown
type State struct {
	Comandos     bool
	Relogios     bool
	Desligamento bool
}

// Visibility maps a URL fragment, with or without the leading '#', to the visible panels
func Visibility(fragment string) State {
	dismissal := strings.TrimPrefix(fragment, "#") == DesligamentoTab
	return State{
		Comandos:     !dismissal,
		Relogios:     !dismissal,
		Desligamento: dismissal,
	}
}

// FromURL evaluates a full URL. The fragment decides; since browsers never send
// fragments to the server, the aba query parameter is honoured when there is none.
func FromURL(raw string) State {
	u, err := url.Parse(raw)
	if err != nil {
		return Visibility("")
	}
	if u.Fragment != "" {
		return Visibility(u.Fragment)
	}
	return Visibility(u.Query().Get("aba"))
}

// Visible reports whether p is shown
func (s State) Visible(p Panel) bool {
	switch p {
	case PanelComandos:
		return s.Comandos
	case PanelRelogios:
		return s.Relogios
	case PanelDesligamento:
		return s.Desligamento
	}
	return false
}

// Display is the CSS display value for p
func (s State) Display(p Panel) string {
	if s.Visible(p) {
		return "block"
	}
	return "none"
}
