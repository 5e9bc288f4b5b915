package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{
		DBMaxConns: 25,
		DBMinConns: 5,
	}
	cfg.PipelineCfg.TopK = 15
	cfg.PipelineCfg.RerankTopN = 8
	cfg.PipelineCfg.EmbedWorkers = 8
	cfg.AuthCfg.JWTSecret = "0123456789abcdef"
	return cfg
}

func TestValidateConfigAccepts(t *testing.T) {
	require.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigReportsEveryViolation(t *testing.T) {
	cfg := validTestConfig()
	cfg.DBMaxConns = 0
	cfg.PipelineCfg.TopK = 0
	cfg.AuthCfg.JWTSecret = "short"

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
	assert.Contains(t, err.Error(), "PIPELINE_TOP_K")
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestValidateConfigRerankBoundOnlyWhenEnabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.PipelineCfg.RerankTopN = 0
	require.NoError(t, validateConfig(cfg))

	cfg.PipelineCfg.EnableRerank = true
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PIPELINE_RERANK_TOP_N")
}
