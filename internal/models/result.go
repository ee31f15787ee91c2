package models

// Result is the payload returned by every envio_comando endpoint
type Result struct {
	Sucesso         bool      `json:"sucesso"`
	Mensagem        string    `json:"mensagem"`
	SucessoFileName string    `json:"sucessoFileName,omitempty"`
	FalhaFileName   string    `json:"falhaFileName,omitempty"`
	LogFileName     string    `json:"logFileName,omitempty"`
	Detalhes        *Detalhes `json:"detalhes,omitempty"`
	Processados     *int      `json:"processados,omitempty"`
}

// Detalhes carries the association details; other keys the backend sends are ignored
type Detalhes struct {
	CrachasProcessados *int `json:"crachasProcessados,omitempty"`
}

type ArtifactKind string

const (
	ArtifactSuccess ArtifactKind = "sucesso"
	ArtifactFailure ArtifactKind = "falha"
	ArtifactLog     ArtifactKind = "log"
)

// Artifact is a file generated by the backend and served under /static/
type Artifact struct {
	Kind     ArtifactKind
	FileName string
}

// Title is the download link caption
func (a Artifact) Title() string {
	switch a.Kind {
	case ArtifactSuccess:
		return "Baixar Arquivo de Sucesso"
	case ArtifactFailure:
		return "Baixar Arquivo de Falhas"
	default:
		return "Baixar Log de Falhas"
	}
}

// Artifacts lists the generated files in success, failure, log order
func (r *Result) Artifacts() []Artifact {
	if r == nil {
		return nil
	}
	var out []Artifact
	if r.SucessoFileName != "" {
		out = append(out, Artifact{Kind: ArtifactSuccess, FileName: r.SucessoFileName})
	}
	if r.FalhaFileName != "" {
		out = append(out, Artifact{Kind: ArtifactFailure, FileName: r.FalhaFileName})
	}
	if r.LogFileName != "" {
		out = append(out, Artifact{Kind: ArtifactLog, FileName: r.LogFileName})
	}
	return out
}

// HasOutputFiles reports whether a success or failure file was produced
func (r *Result) HasOutputFiles() bool {
	return r != nil && (r.SucessoFileName != "" || r.FalhaFileName != "")
}

// ProcessedBadges returns detalhes.crachasProcessados, 0 when absent
func (r *Result) ProcessedBadges() int {
	if r == nil || r.Detalhes == nil || r.Detalhes.CrachasProcessados == nil {
		return 0
	}
	return *r.Detalhes.CrachasProcessados
}

// ProcessedCount returns processados, 0 when absent
func (r *Result) ProcessedCount() int {
	if r == nil || r.Processados == nil {
		return 0
	}
	return *r.Processados
}
