// src/services/demonstrativo_client.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/pkg/errors"
	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/models"
	"golang.org/x/net/publicsuffix"
)

// FetchOutcome classifies the result of a statement request.
type FetchOutcome int

const (
	// FetchOK means the upstream answered 200 with a JSON object.
	FetchOK FetchOutcome = iota
	// FetchEmpty means the upstream answered with a non-200 status.
	FetchEmpty
	// FetchTransportError means the request could not be completed or the body could not be decoded.
	FetchTransportError
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchOK:
		return "ok"
	case FetchEmpty:
		return "empty"
	case FetchTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("FetchOutcome(%d)", int(o))
	}
}

// FetchResult carries the outcome of a statement request. Only FetchOK results have Body set.
type FetchResult struct {
	Outcome    FetchOutcome
	StatusCode int
	Body       models.UpstreamResponse
	Err        error
}

// Data collapses the result to the public contract: the decoded body, or an empty response on any failure.
func (r FetchResult) Data() models.UpstreamResponse {
	if r.Outcome != FetchOK || r.Body == nil {
		return models.UpstreamResponse{}
	}
	return r.Body
}

// UpstreamConfig holds the fixed call parameters of the statements endpoint.
type UpstreamConfig struct {
	URL                string
	Headers            map[string]string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// DemonstrativoClient queries the Banco do Brasil DAF statements API.
// It never retries and never returns an error to the caller; failures are reported through FetchResult.
type DemonstrativoClient struct {
	httpClient *http.Client
	cfg        UpstreamConfig
}

// NewDemonstrativoClient builds a client for cfg. When cfg.InsecureSkipVerify is set, the
// upstream certificate is not verified; this mirrors the existing integration with the DAF host.
func NewDemonstrativoClient(cfg UpstreamConfig) *DemonstrativoClient {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// #nosec G402 -- the DAF endpoint has historically been called without verification.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return NewDemonstrativoClientWithHTTPClient(cfg, &http.Client{
		Jar:       jar,
		Timeout:   cfg.Timeout,
		Transport: transport,
	})
}

// NewDemonstrativoClientWithHTTPClient uses the given http.Client as-is.
func NewDemonstrativoClientWithHTTPClient(cfg UpstreamConfig, httpClient *http.Client) *DemonstrativoClient {
	return &DemonstrativoClient{httpClient: httpClient, cfg: cfg}
}

// FetchStatement sends one statement request for (beneficiaryCode, fundCode, start, end).
func (c *DemonstrativoClient) FetchStatement(ctx context.Context, beneficiaryCode, fundCode int, start, end string) FetchResult {
	payload, err := json.Marshal(models.StatementQuery{
		CodigoBeneficiario: beneficiaryCode,
		CodigoFundo:        fundCode,
		DataInicio:         start,
		DataFim:            end,
	})
	if err != nil {
		return FetchResult{Outcome: FetchTransportError, Err: errors.Wrap(err, "failed to marshal statement query")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return FetchResult{Outcome: FetchTransportError, Err: errors.Wrap(err, "failed to create statement request")}
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FetchResult{Outcome: FetchTransportError, Err: errors.Wrap(err, "statement request failed")}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return FetchResult{Outcome: FetchEmpty, StatusCode: resp.StatusCode}
	}

	var body models.UpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return FetchResult{
			Outcome:    FetchTransportError,
			StatusCode: resp.StatusCode,
			Err:        errors.Wrap(err, "failed to decode statement response"),
		}
	}

	return FetchResult{Outcome: FetchOK, StatusCode: resp.StatusCode, Body: body}
}
