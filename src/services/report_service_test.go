package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/repasses/src/models"
)

type fetchCall struct {
	BeneficiaryCode int
	FundCode        int
	Start, End      string
}

// fakeFetcher answers by fund code and records every call in order.
type fakeFetcher struct {
	results map[int]FetchResult
	calls   []fetchCall
	ctxErrs []error
}

func (f *fakeFetcher) FetchStatement(ctx context.Context, beneficiaryCode, fundCode int, start, end string) FetchResult {
	f.calls = append(f.calls, fetchCall{beneficiaryCode, fundCode, start, end})
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if result, ok := f.results[fundCode]; ok {
		return result
	}
	return FetchResult{Outcome: FetchEmpty, StatusCode: 404}
}

func okWithCredit(label string) FetchResult {
	return FetchResult{
		Outcome:    FetchOK,
		StatusCode: 200,
		Body: models.UpstreamResponse{
			models.OccurrencesKey: []any{
				map[string]any{models.BenefitLabelKey: "FPM - PARCELA"},
				map[string]any{models.BenefitLabelKey: label},
			},
		},
	}
}

func exampleRequest() models.ConsultaRequest {
	return models.ConsultaRequest{
		Codigo:     123,
		Nome:       "Example City",
		UF:         "SP",
		DataInicio: "2024-01-01",
		DataFim:    "2024-01-31",
	}
}

func TestBuildReport_EndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{results: map[int]FetchResult{
		4:  okWithCredit("CREDITO BENEF. 1.000,00C"),
		28: okWithCredit("CREDITO BENEF. 50,00C"),
		0:  okWithCredit("CREDITO BENEF. 1.050,00C"),
	}}
	service := NewReportService(fetcher, DefaultFundCategories(), true)

	report, validationErr := service.BuildReport(context.Background(), exampleRequest())

	require.Nil(t, validationErr)
	require.NotNil(t, report)
	assert.Equal(t, models.Report{
		Municipio: "Example City - SP",
		Periodo:   "2024-01-01 até 2024-01-31",
		FPM:       1000.0,
		Royalties: 50.0,
		Todos:     1050.0,
	}, *report)

	assert.Equal(t, []fetchCall{
		{123, 4, "2024-01-01", "2024-01-31"},
		{123, 28, "2024-01-01", "2024-01-31"},
		{123, 0, "2024-01-01", "2024-01-31"},
	}, fetcher.calls, "fund categories are queried sequentially in FPM, royalties, all order")
}

func TestBuildReport_PartialUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{results: map[int]FetchResult{
		4:  okWithCredit("CREDITO BENEF. 2.500,75C"),
		28: {Outcome: FetchTransportError, Err: errors.New("connection reset")},
		0:  {Outcome: FetchEmpty, StatusCode: 500},
	}}
	service := NewReportService(fetcher, DefaultFundCategories(), true)

	report, validationErr := service.BuildReport(context.Background(), exampleRequest())

	require.Nil(t, validationErr)
	require.NotNil(t, report)
	assert.Equal(t, 2500.75, report.FPM)
	assert.Equal(t, 0.0, report.Royalties)
	assert.Equal(t, 0.0, report.Todos)
	assert.Len(t, fetcher.calls, 3)
}

func TestBuildReport_NoCreditLine(t *testing.T) {
	fetcher := &fakeFetcher{results: map[int]FetchResult{
		4:  {Outcome: FetchOK, StatusCode: 200, Body: models.UpstreamResponse{}},
		28: {Outcome: FetchOK, StatusCode: 200, Body: models.UpstreamResponse{models.OccurrencesKey: "invalido"}},
		0:  okWithCredit("CREDITO BENEF. SEM VALOR"),
	}}
	service := NewReportService(fetcher, DefaultFundCategories(), true)

	report, validationErr := service.BuildReport(context.Background(), exampleRequest())

	require.Nil(t, validationErr)
	assert.Equal(t, 0.0, report.FPM)
	assert.Equal(t, 0.0, report.Royalties)
	assert.Equal(t, 0.0, report.Todos)
}

func TestBuildReport_InvalidBeneficiaryCode(t *testing.T) {
	for _, codigo := range []int{0, -1, -999} {
		fetcher := &fakeFetcher{}
		service := NewReportService(fetcher, DefaultFundCategories(), true)

		req := exampleRequest()
		req.Codigo = codigo
		report, validationErr := service.BuildReport(context.Background(), req)

		assert.Nil(t, report)
		require.NotNil(t, validationErr)
		assert.Equal(t, models.ValidationErrorResponse{
			Erro:           "Código do beneficiário inválido",
			CodigoRecebido: codigo,
		}, *validationErr)
		assert.Empty(t, fetcher.calls, "no upstream call is issued for codigo %d", codigo)
	}
}

func TestBuildReport_ValidationDisabled(t *testing.T) {
	fetcher := &fakeFetcher{}
	service := NewReportService(fetcher, DefaultFundCategories(), false)

	req := exampleRequest()
	req.Codigo = 0
	report, validationErr := service.BuildReport(context.Background(), req)

	assert.Nil(t, validationErr)
	require.NotNil(t, report)
	assert.Equal(t, 0.0, report.FPM)
	assert.Len(t, fetcher.calls, 3)
}

func TestBuildReport_CustomFundCodes(t *testing.T) {
	fetcher := &fakeFetcher{results: map[int]FetchResult{
		7: okWithCredit("CREDITO BENEF. 10,00C"),
	}}
	service := NewReportService(fetcher, FundCategories{FPM: 7, Royalties: 8, All: 9}, true)

	report, _ := service.BuildReport(context.Background(), exampleRequest())

	assert.Equal(t, 10.0, report.FPM)
	require.Len(t, fetcher.calls, 3)
	assert.Equal(t, []int{7, 8, 9}, []int{fetcher.calls[0].FundCode, fetcher.calls[1].FundCode, fetcher.calls[2].FundCode})
}

func TestBuildReport_CallerCancellationDoesNotAbortUpstream(t *testing.T) {
	fetcher := &fakeFetcher{results: map[int]FetchResult{
		4: okWithCredit("CREDITO BENEF. 1.000,00C"),
	}}
	service := NewReportService(fetcher, DefaultFundCategories(), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, validationErr := service.BuildReport(ctx, exampleRequest())

	require.Nil(t, validationErr)
	require.Len(t, fetcher.calls, 3)
	for _, err := range fetcher.ctxErrs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1000.0, report.FPM)
}

func TestRoundCents(t *testing.T) {
	tests := map[string]float64{
		"1000":     1000.0,
		"12345.67": 12345.67,
		"1.005":    1.01,
		"2.344":    2.34,
		"0.125":    0.13,
	}

	for in, expected := range tests {
		assert.Equal(t, expected, roundCents(decimal.RequireFromString(in)), in)
	}
}
