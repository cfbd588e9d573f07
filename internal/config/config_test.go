package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/legamerdc/gserve"
	"github.com/legamerdc/gserve/poller"
)

func flagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	def := gserve.DefaultConfig()
	fs.Uint16(FlagName(KeyPort), def.Port, "")
	fs.Int(FlagName(KeyBacklog), def.Backlog, "")
	fs.Bool(FlagName(KeyReuseAddress), false, "")
	fs.String(FlagName(KeyStrategy), "select", "")
	fs.Duration(FlagName(KeyTimeout), 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, gserve.DefaultConfig(), s.Server)
	require.Equal(t, gserve.StrategySelect, s.Strategy)
	require.Zero(t, s.Timeout)
	require.Equal(t, poller.BackendSelect, s.Backend)
	require.Equal(t, gserve.FailProcess, s.OnMultiplexFailure)
	require.Len(t, s.LifecycleOptions(), 2, "no timeout option when blocking")
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "gserve.yaml", `
port: 7000
backlog: 32
strategy: serial
reuse_address: true
timeout: 2s
`)
	t.Setenv("GSERVE_BACKLOG", "48")
	t.Setenv("GSERVE_TIMEOUT", "500ms")

	s, err := Load(path, flagSet(t, "--timeout=150ms"))
	require.NoError(t, err)
	require.Equal(t, uint16(7000), s.Server.Port, "file over default")
	require.Equal(t, 48, s.Server.Backlog, "env over file")
	require.True(t, s.Server.ReuseAddress)
	require.Equal(t, gserve.StrategySerial, s.Strategy, "unchanged flag does not shadow file")
	require.Equal(t, 150*time.Millisecond, s.Timeout, "flag over env")
	require.Len(t, s.LifecycleOptions(), 3)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("GSERVE_BACKEND", "epoll")
	t.Setenv("GSERVE_ON_MULTIPLEX_FAILURE", "worker")
	t.Setenv("GSERVE_VERBOSE", "true")

	s, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, poller.BackendEpoll, s.Backend)
	require.Equal(t, gserve.FailWorker, s.OnMultiplexFailure)
	require.True(t, s.Server.Verbose)
}

func TestLoadRejects(t *testing.T) {
	for name, env := range map[string][2]string{
		"port":     {"GSERVE_PORT", "70000"},
		"backlog":  {"GSERVE_BACKLOG", "0"},
		"timeout":  {"GSERVE_TIMEOUT", "-1s"},
		"strategy": {"GSERVE_STRATEGY", "forked"},
		"backend":  {"GSERVE_BACKEND", "iocp"},
		"policy":   {"GSERVE_ON_MULTIPLEX_FAILURE", "panic"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load("", nil)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.Error(t, err)
}

func TestFlagName(t *testing.T) {
	require.Equal(t, "on-multiplex-failure", FlagName(KeyOnMultiplexFailure))
}
