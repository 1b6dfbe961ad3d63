// src/models/demonstrativo.go
package models

// ConsultaRequest is the inbound body of POST /consulta.
// Dates travel as opaque strings (the UI sends DD.MM.AAAA) and are forwarded as-is.
type ConsultaRequest struct {
	Codigo     int    `json:"codigo"`
	Nome       string `json:"nome"`
	UF         string `json:"uf"`
	DataInicio string `json:"data_inicio"`
	DataFim    string `json:"data_fim"`
}

// Report is the summary returned for a ConsultaRequest. All three amounts are always present.
type Report struct {
	Municipio string  `json:"municipio"`
	Periodo   string  `json:"periodo"`
	FPM       float64 `json:"fpm"`
	Royalties float64 `json:"royalties"`
	Todos     float64 `json:"todos"`
}

// ValidationErrorResponse is returned instead of a Report when the beneficiary code is rejected.
type ValidationErrorResponse struct {
	Erro           string `json:"erro"`
	CodigoRecebido int    `json:"codigo_recebido"`
}

// StatementQuery is the JSON body sent to the upstream statements endpoint.
type StatementQuery struct {
	CodigoBeneficiario int    `json:"codigoBeneficiario"`
	CodigoFundo        int    `json:"codigoFundo"`
	DataInicio         string `json:"dataInicio"`
	DataFim            string `json:"dataFim"`
}

// UpstreamResponse is the decoded upstream body. Its shape is not trusted.
type UpstreamResponse map[string]any

// Keys read from an UpstreamResponse.
const (
	OccurrencesKey  = "quantidadeOcorrencia"
	BenefitLabelKey = "nomeBeneficio"
)
