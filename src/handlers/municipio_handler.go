// src/handlers/municipio_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/security/validation"
	"github.com/username/repasses/src/services"
	"github.com/username/repasses/src/utils"
)

type MunicipioHandler struct {
	searcher services.MunicipalitySearcher
}

func NewMunicipioHandler(searcher services.MunicipalitySearcher) *MunicipioHandler {
	return &MunicipioHandler{searcher: searcher}
}

// HandleSearch answers GET /municipios?q= with at most 10 matching municipalities.
func (h *MunicipioHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.searcher.Search(query)
	if err != nil {
		if errors.Is(err, validation.ErrValidationFailed) {
			utils.SendJSONError(w, "O parâmetro q deve ter pelo menos 2 caracteres", http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Municipality search failed", "query", query, "error", err)
		utils.SendJSONError(w, "Lista de municípios indisponível", http.StatusServiceUnavailable)
		return
	}

	utils.SendJSON(w, results, http.StatusOK)
}
