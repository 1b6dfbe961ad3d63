// src/handlers/consulta_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/models"
	"github.com/username/repasses/src/security/validation"
	"github.com/username/repasses/src/services"
	"github.com/username/repasses/src/utils"
)

const maxConsultaBodyBytes = 1 << 16

type ConsultaHandler struct {
	reportService services.ReportService
}

func NewConsultaHandler(service services.ReportService) *ConsultaHandler {
	return &ConsultaHandler{reportService: service}
}

// HandleConsulta answers POST /consulta with the FPM, royalties and all-funds totals.
func (h *ConsultaHandler) HandleConsulta(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	var req models.ConsultaRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxConsultaBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxLogger.Warn("Invalid consulta body", "error", err)
		utils.SendJSONError(w, "Corpo do pedido inválido", http.StatusBadRequest)
		return
	}

	req.Nome = validation.SanitizeLabel(req.Nome)
	req.UF = validation.SanitizeLabel(req.UF)

	ctxLogger.Info("Handling consulta", "codigo", req.Codigo, "uf", req.UF, "dataInicio", req.DataInicio, "dataFim", req.DataFim)

	report, validationErr := h.reportService.BuildReport(r.Context(), req)
	if validationErr != nil {
		// Same status as a report; the frontend reads the erro field.
		utils.SendJSON(w, validationErr, http.StatusOK)
		return
	}

	utils.SendJSON(w, report, http.StatusOK)
}
