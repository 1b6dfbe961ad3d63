// src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/username/repasses/src/models"
)

// Common service errors
var (
	ErrMunicipalityDataNotLoaded = errors.New("municipality data not loaded")
)

// StatementFetcher issues one statement request to the upstream API.
type StatementFetcher interface {
	FetchStatement(ctx context.Context, beneficiaryCode, fundCode int, start, end string) FetchResult
}

// ReportService builds the per-fund summary for a municipality and period.
type ReportService interface {
	// BuildReport returns either a report or, when the request is rejected, a validation error body.
	BuildReport(ctx context.Context, req models.ConsultaRequest) (*models.Report, *models.ValidationErrorResponse)
}

// MunicipalitySearcher is the autocomplete lookup over the static municipality list.
type MunicipalitySearcher interface {
	Search(query string) ([]models.Municipality, error)
	Count() int
}
