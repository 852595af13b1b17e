package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobalert/internal/config"
	"jobalert/internal/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "jobalert dev\n", out)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "", "--data-dir", dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	_, err = os.Stat(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	out, err = execute(t, "", "--data-dir", dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config already exists")

	out, err = execute(t, "", "--data-dir", dir, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "config OK")
}

func TestConfigValidate_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("notify:\n  max_chars: 50\n"), 0o600))

	_, err := execute(t, "", "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_chars")
}

func TestConfigShow_EnvOverridesAndRedacts(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBALERT_DATA_DIR", dir)
	t.Setenv("JOBALERT_TELEGRAM_CHAT_ID", "-100123")

	cfg := config.Default()
	cfg.Notify.Telegram.Token = "123:secret"
	require.NoError(t, config.SaveAtomic(filepath.Join(dir, config.FileName), cfg))

	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `chat_id: "-100123"`)
	assert.Contains(t, out, "<redacted>")
	assert.NotContains(t, out, "123:secret")
}

func TestRun_RequiresChatID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBALERT_TELEGRAM_CHAT_ID", "")

	_, err := execute(t, "", "--data-dir", dir, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id")
}

func TestLedgerStatsAndPrune_JSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte(`["a","b","c"]`), 0o644))

	out, err := execute(t, "", "--data-dir", dir, "ledger", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: json")
	assert.Contains(t, out, "entries: 3")

	_, err = execute(t, "", "--data-dir", dir, "ledger", "prune", "--older-than", "720h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be pruned")
}

func TestSecretsSetToken_FromStdin(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	out, err := execute(t, "123:abc\n", "--data-dir", dir, "secrets", "set-token", "--chat-id", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "telegram:42")

	tok, err := secrets.GetToken("42")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", tok)

	_, err = execute(t, "", "--data-dir", dir, "secrets", "delete-token", "--chat-id", "42")
	require.NoError(t, err)
	_, err = secrets.GetToken("42")
	assert.Error(t, err)
}
