package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "UPSTREAM_URL", "UPSTREAM_TIMEOUT", "UPSTREAM_INSECURE_SKIP_VERIFY",
		"FUND_CODE_FPM", "FUND_CODE_ROYALTIES", "FUND_CODE_ALL",
		"VALIDATE_BENEFICIARY_CODE", "CORS_ALLOWED_ORIGINS", "TRUSTED_PROXY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	LoadConfig()
	require.NotNil(t, Cfg)

	assert.Equal(t, "8000", Cfg.Port)
	assert.Equal(t, defaultUpstreamURL, Cfg.UpstreamURL)
	assert.Equal(t, 60*time.Second, Cfg.UpstreamTimeout)
	assert.True(t, Cfg.UpstreamInsecureSkipVerify)
	assert.Equal(t, 4, Cfg.FundCodeFPM)
	assert.Equal(t, 28, Cfg.FundCodeRoyalties)
	assert.Equal(t, 0, Cfg.FundCodeAll)
	assert.True(t, Cfg.ValidateBeneficiaryCode)
	assert.Equal(t, []string{"*"}, Cfg.CORSAllowedOrigins)
	assert.False(t, Cfg.TrustedProxy)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_URL", "https://example.test/consulta")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("UPSTREAM_INSECURE_SKIP_VERIFY", "false")
	t.Setenv("FUND_CODE_ROYALTIES", "30")
	t.Setenv("VALIDATE_BENEFICIARY_CODE", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://repasses.example ,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TRUSTED_PROXY", "true")

	LoadConfig()

	assert.Equal(t, "9090", Cfg.Port)
	assert.Equal(t, "https://example.test/consulta", Cfg.UpstreamURL)
	assert.Equal(t, 5*time.Second, Cfg.UpstreamTimeout)
	assert.False(t, Cfg.UpstreamInsecureSkipVerify)
	assert.Equal(t, 30, Cfg.FundCodeRoyalties)
	assert.False(t, Cfg.ValidateBeneficiaryCode)
	assert.Equal(t, []string{"http://localhost:3000", "https://repasses.example"}, Cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, Cfg.RateLimitRPS)
	assert.True(t, Cfg.TrustedProxy)
	assert.Equal(t, 30*time.Second, Cfg.ServerWriteTimeout())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("FUND_CODE_FPM", "four")
	t.Setenv("UPSTREAM_INSECURE_SKIP_VERIFY", "maybe")
	t.Setenv("RATE_LIMIT_BURST", "-")

	LoadConfig()

	assert.Equal(t, 60*time.Second, Cfg.UpstreamTimeout)
	assert.Equal(t, 4, Cfg.FundCodeFPM)
	assert.True(t, Cfg.UpstreamInsecureSkipVerify)
	assert.Equal(t, 10, Cfg.RateLimitBurst)
}

func TestUpstreamHeaders(t *testing.T) {
	cfg := &AppConfig{
		UpstreamUserAgent: "Mozilla/5.0",
		UpstreamOrigin:    "https://demonstrativos.apps.bb.com.br",
		UpstreamReferer:   "https://demonstrativos.apps.bb.com.br/",
	}

	headers := cfg.UpstreamHeaders()

	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   "Mozilla/5.0",
		"Origin":       "https://demonstrativos.apps.bb.com.br",
		"Referer":      "https://demonstrativos.apps.bb.com.br/",
	}, headers)
}
