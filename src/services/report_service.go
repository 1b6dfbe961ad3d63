// src/services/report_service.go
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/models"
	"github.com/username/repasses/src/parsers/demonstrativo"
)

// InvalidBeneficiaryCodeMessage is the erro text returned for codigo <= 0.
const InvalidBeneficiaryCodeMessage = "Código do beneficiário inválido"

// FundCategories are the codigoFundo values queried for every report.
type FundCategories struct {
	FPM       int
	Royalties int
	All       int
}

// DefaultFundCategories: FPM transfers, mineral/oil royalties and the all-categories aggregate.
func DefaultFundCategories() FundCategories {
	return FundCategories{FPM: 4, Royalties: 28, All: 0}
}

type reportServiceImpl struct {
	fetcher      StatementFetcher
	funds        FundCategories
	validateCode bool
}

// NewReportService builds the aggregator. With validateCode set, codigo <= 0 is rejected
// before any upstream call is made.
func NewReportService(fetcher StatementFetcher, funds FundCategories, validateCode bool) ReportService {
	return &reportServiceImpl{
		fetcher:      fetcher,
		funds:        funds,
		validateCode: validateCode,
	}
}

func (s *reportServiceImpl) BuildReport(ctx context.Context, req models.ConsultaRequest) (*models.Report, *models.ValidationErrorResponse) {
	ctxLogger := logger.FromContext(ctx)

	if s.validateCode && req.Codigo <= 0 {
		ctxLogger.Warn("Rejecting report request: invalid beneficiary code", "codigo", req.Codigo)
		return nil, &models.ValidationErrorResponse{
			Erro:           InvalidBeneficiaryCodeMessage,
			CodigoRecebido: req.Codigo,
		}
	}

	// Upstream calls run to completion or timeout even if the caller goes away.
	upstreamCtx := context.WithoutCancel(ctx)

	// Sequential on purpose: one upstream call at a time per request.
	fpm := s.fundTotal(upstreamCtx, req, "fpm", s.funds.FPM)
	royalties := s.fundTotal(upstreamCtx, req, "royalties", s.funds.Royalties)
	todos := s.fundTotal(upstreamCtx, req, "todos", s.funds.All)

	report := &models.Report{
		Municipio: fmt.Sprintf("%s - %s", req.Nome, req.UF),
		Periodo:   fmt.Sprintf("%s até %s", req.DataInicio, req.DataFim),
		FPM:       roundCents(fpm),
		Royalties: roundCents(royalties),
		Todos:     roundCents(todos),
	}
	ctxLogger.Info("Report built", "codigo", req.Codigo, "fpm", report.FPM, "royalties", report.Royalties, "todos", report.Todos)
	return report, nil
}

// fundTotal queries one fund category and collapses every failure mode to zero.
func (s *reportServiceImpl) fundTotal(ctx context.Context, req models.ConsultaRequest, category string, fundCode int) decimal.Decimal {
	ctxLogger := logger.FromContext(ctx).With("fund", category, "codigoFundo", fundCode)

	result := s.fetcher.FetchStatement(ctx, req.Codigo, fundCode, req.DataInicio, req.DataFim)
	switch result.Outcome {
	case FetchTransportError:
		ctxLogger.Warn("Upstream statement request failed", "error", result.Err)
		return decimal.Zero
	case FetchEmpty:
		ctxLogger.Debug("Upstream returned no data", "status", result.StatusCode)
		return decimal.Zero
	}

	extraction := demonstrativo.ExtractCreditAmount(result.Data())
	if !extraction.Found {
		ctxLogger.Debug("No credit line in upstream statement")
		return decimal.Zero
	}
	return extraction.Amount
}

// roundCents rounds half away from zero to two decimal places.
func roundCents(amount decimal.Decimal) float64 {
	return amount.Round(2).InexactFloat64()
}
