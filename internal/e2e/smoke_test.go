package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jobgate/internal/adapters/jobservice/jobservicetest"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	srv := jobservicetest.NewServer(t, "smoke-token")
	require.NoError(t, writeConfigFixture(home, srv.URL))

	_, stderr, err := runJG(t, binaryPath, home, "token", "set", "--value", "smoke-token")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runJG(t, binaryPath, home,
		"launch", "--target", "198.51.100.7", "--port", "53", "--duration", "30", "--method", "dns")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "launched job #1")

	_, _, err = runJG(t, binaryPath, home,
		"launch", "--target", "198.51.100.7", "--port", "53", "--duration", "30", "--method", "dns")
	require.Error(t, err, "free plan admits a single running job")

	stdout, stderr, err = runJG(t, binaryPath, home, "stop-all")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "stopped 1 of 1 jobs")

	stdout, stderr, err = runJG(t, binaryPath, home, "status", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "\"ActiveJobs\": []")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "jg-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/jg")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build jg binary: %s", string(output))
	return binaryPath
}

func runJG(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeConfigFixture(home, baseURL string) error {
	configDir := filepath.Join(home, ".config", "jobgate")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	config := fmt.Sprintf(`[account]
id = "acct-smoke"

[service]
base_url = %q
`, baseURL)

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600)
}
