package submission

import "fmt"

type Form string

const (
	FormComandos Form = "comandos"
	FormAssociar Form = "associar"
	FormDesligar Form = "desligar"
)

const (
	progressYellow = "#ecc94b"
	progressRed    = "#e53e3e"
)

type formInfo struct {
	title           string
	progressLabel   string
	progressColor   string
	completionAlert string
	resultPanel     string
	progressBar     string
}

var formTable = map[Form]formInfo{
	FormComandos: {
		title:           "Envio de comandos",
		progressLabel:   "Processando...",
		progressColor:   progressYellow,
		completionAlert: "O processamento foi concluído! Verifique a seção de resultados.",
		resultPanel:     "result",
		progressBar:     "progressBar",
	},
	FormAssociar: {
		title:           "Associação de relógios",
		progressLabel:   "Associando relógios...",
		progressColor:   progressYellow,
		completionAlert: "A associação foi concluída! Os arquivos estão prontos para download.",
		resultPanel:     "result",
		progressBar:     "progressBar",
	},
	FormDesligar: {
		title:           "Desligamento",
		progressLabel:   "Processando Desligamento...",
		progressColor:   progressRed,
		completionAlert: "O processamento foi concluído! Os arquivos estão prontos para download.",
		resultPanel:     "resultDesligamento",
		progressBar:     "progressBarDesligamento",
	},
}

// Forms lists every console form in page order
func Forms() []Form {
	return []Form{FormComandos, FormAssociar, FormDesligar}
}

func ParseForm(name string) (Form, error) {
	form := Form(name)
	if _, ok := formTable[form]; !ok {
		return "", fmt.Errorf("unknown form: %q", name)
	}
	return form, nil
}

func (f Form) Title() string {
	return formTable[f].title
}

func (f Form) ProgressLabel() string {
	return formTable[f].progressLabel
}

func (f Form) ProgressColor() string {
	return formTable[f].progressColor
}

// ResultPanel is the id of the element holding this form's result. The command
// and association forms share one.
func (f Form) ResultPanel() string {
	return formTable[f].resultPanel
}

// ProgressBar is the id of the progress indicator element
func (f Form) ProgressBar() string {
	return formTable[f].progressBar
}
