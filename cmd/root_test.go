package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDotEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDotEnvToken(t *testing.T) {
	withToken := writeDotEnv(t, "# hub\nHF_TOKEN=hf_from_file\nOTHER=1\n")
	withoutToken := writeDotEnv(t, "OTHER=1\n")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.Equal(t, "hf_from_file", dotEnvToken(withToken))
	assert.Equal(t, "hf_from_file", dotEnvToken(missing, withoutToken, withToken))
	assert.Empty(t, dotEnvToken(withoutToken))
	assert.Empty(t, dotEnvToken(missing))
	assert.Empty(t, dotEnvToken())
}

func TestBindToken(t *testing.T) {
	path := writeDotEnv(t, "HF_TOKEN=hf_from_file\n")

	t.Run("dotenv fallback", func(t *testing.T) {
		t.Setenv("HUBTREND_TOKEN", "")
		t.Setenv("HF_TOKEN", "")
		require.NoError(t, os.Unsetenv("HUBTREND_TOKEN"))
		require.NoError(t, os.Unsetenv("HF_TOKEN"))

		v := viper.New()
		bindToken(v, path)
		assert.Equal(t, "hf_from_file", v.GetString("token"))
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("HUBTREND_TOKEN", "")
		require.NoError(t, os.Unsetenv("HUBTREND_TOKEN"))
		t.Setenv("HF_TOKEN", "hf_from_env")

		v := viper.New()
		bindToken(v, path)
		assert.Equal(t, "hf_from_env", v.GetString("token"))
	})

	t.Run("prefixed variable wins", func(t *testing.T) {
		t.Setenv("HF_TOKEN", "hf_from_env")
		t.Setenv("HUBTREND_TOKEN", "hf_prefixed")

		v := viper.New()
		bindToken(v, path)
		assert.Equal(t, "hf_prefixed", v.GetString("token"))
	})

	t.Run("no token anywhere", func(t *testing.T) {
		t.Setenv("HUBTREND_TOKEN", "")
		t.Setenv("HF_TOKEN", "")
		require.NoError(t, os.Unsetenv("HUBTREND_TOKEN"))
		require.NoError(t, os.Unsetenv("HF_TOKEN"))

		v := viper.New()
		bindToken(v, filepath.Join(t.TempDir(), "missing.env"))
		assert.Empty(t, v.GetString("token"))
	})
}
