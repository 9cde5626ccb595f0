package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRoot_PipedSession(t *testing.T) {
	stdout, _, err := execute(t, "SET a 10\nBEGIN\nSET a 20\nROLLBACK\nGET a\n",
		"--no-banner", "--config", writeFile(t, t.TempDir(), "c.toml", ""))
	require.NoError(t, err)
	assert.Equal(t, "Transaction rolled back successfully\n10\n", stdout)
}

func TestRoot_BannerFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "c.toml", "banner = false\n")

	stdout, _, err := execute(t, "GET a\n", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Key a not set\n", stdout)
}

func TestRoot_MaxDepthFromConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "c.toml", "banner = false\nmax_depth = 1\n")

	stdout, _, err := execute(t, "BEGIN\nBEGIN\nDEPTH\n", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Transaction depth limit 1 reached\n1\n", stdout)
}

func TestRoot_MissingExplicitConfigFails(t *testing.T) {
	_, stderr, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, stderr, "nope.toml")
}

func TestRoot_BadLogLevelFails(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "c.toml", "")
	_, _, err := execute(t, "", "--config", cfg, "--log-level", "shouty")
	assert.Error(t, err)
}

func TestRun_Scripts(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txkv", "# outer transaction\nBEGIN\nSET b 5\nBEGIN\nSET b 6\nCOMMIT\n")
	second := writeFile(t, dir, "second.txkv", "ROLLBACK\nGET b\nEXIT\nGET never\n")
	cfg := writeFile(t, dir, "c.toml", "")

	stdout, _, err := execute(t, "", "run", "--config", cfg, first, second)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Transaction committed successfully",
		"Transaction rolled back successfully",
		"Key b not set",
	}, "\n")+"\n", stdout)
}

func TestRun_Echo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.txkv", "SET x hello world\nGET x\n")
	cfg := writeFile(t, dir, "c.toml", "")

	stdout, _, err := execute(t, "", "run", "--echo", "--config", cfg, path)
	require.NoError(t, err)
	assert.Equal(t, "> SET x hello world\n> GET x\nhello world\n", stdout)
}

func TestRun_MissingScript(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "c.toml", "")
	_, _, err := execute(t, "", "run", "--config", cfg, filepath.Join(t.TempDir(), "absent.txkv"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "txkv dev (commit none, built unknown)\n", stdout)
}

func TestRoot_PipedLongLine(t *testing.T) {
	value := strings.Repeat("v", 70000)
	cfg := writeFile(t, t.TempDir(), "c.toml", "banner = false\n")

	stdout, _, err := execute(t, "SET k "+value+"\nGET k\n", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, value+"\n", stdout)
}

func TestRoot_LogLevelOverrideIsValidated(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "c.toml", "banner = false\n")

	_, stderr, err := execute(t, "", "--config", cfg, "--log-level", "shouty")
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid log_level")

	_, _, err = execute(t, "", "--config", cfg, "--log-level", "warning")
	assert.NoError(t, err)
}

func TestRun_LongAndOverLimitLines(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "c.toml", "max_line_bytes = 100000\n")
	body := "SET k " + strings.Repeat("x", 70000) + "\n" +
		"SET huge " + strings.Repeat("y", 200000) + "\n" +
		"COUNT " + strings.Repeat("x", 70000) + "\n" +
		"GET huge\n"
	path := writeFile(t, dir, "long.txkv", body)

	stdout, _, err := execute(t, "", "run", "--config", cfg, path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Line 2 skipped: line too long: 200009 bytes exceeds limit of 100000",
		"1",
		"Key huge not set",
	}, "\n")+"\n", stdout)
}
