package mxconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/mxconfig"
)

func TestLoadExpandsEnvVarsAndSetsDefaults(t *testing.T) {
	t.Setenv("MXF_ADDR", ":9090")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "server:\n  addr: \"${MXF_ADDR}\"\nkg:\n  enabled: true\n  similarity_threshold: ${KG_THRESHOLD:-0.75}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := mxconfig.Load(path, "")
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.True(t, cfg.KG.Enabled)
	require.Equal(t, 50, cfg.KG.MaxEntities)
	require.Equal(t, 10, cfg.ORPAR.LoopCeiling)
	require.Equal(t, 0.1, cfg.Utility.Alpha)
	require.Equal(t, "echo", cfg.LLM.DefaultProvider)
}

func TestProviderTimeoutFallsBack(t *testing.T) {
	cfg := &mxconfig.Config{}
	cfg.SetDefaults()
	cfg.LLM.TimeoutMs["anthropic"] = 5000

	require.Equal(t, 5*time.Second, cfg.ProviderTimeout("anthropic", 0))
	require.Equal(t, 2*time.Second, cfg.ProviderTimeout("unset", 2*time.Second))
}
