package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/jobgate/internal/adapters/jobservice/jobservicetest"
	"github.com/bnema/jobgate/internal/version"
)

const testAccountID = "acct-1"

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestStatusWithoutConfigReportsMissingKeys(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config: account.id, service.base_url")
}

func TestStatusRendersPlanAndRunningJobs(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "pro", time.Now().Add(72*time.Hour))
	srv.AddRunningJob(testAccountID, "dns", 10*time.Minute, time.Now())
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, stderr, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Job Quota Status")
	assert.Contains(t, stdout, "Plan: PRO")
	assert.Contains(t, stdout, "1/3 running, 2 free")
	assert.Contains(t, stdout, "#1 DNS 192.0.2.10:53")
	assert.Contains(t, stderr, statusFetchLabel)
}

func TestStatusJSONOutput(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "pro", time.Time{})
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"AccountID\": \"acct-1\"")
	assert.Contains(t, stdout, "\"tls\"")
}

func TestStatusFailsWhenNothingLoads(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "wrong-token"))

	_, _, err := executeCLI(t, home, "status", "--json")
	require.Error(t, err)
	assert.Equal(t, "could not reach service, try again", err.Error())
}

func TestLaunchForwardsAdmittedRequest(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home,
		"launch",
		"--target", "198.51.100.7",
		"--port", "443",
		"--duration", "30",
		"--method", "udp",
	)
	require.NoError(t, err)
	assert.Equal(t, "launched job #1 (UDP 198.51.100.7:443 for 30s)\n", stdout)
	assert.Equal(t, 1, srv.Calls(jobservicetest.CallLaunch))
	assert.NotEmpty(t, srv.LastIdempotencyKey())
	assert.Equal(t, 1, srv.RunningJobs(testAccountID))
}

func TestLaunchRejectedByPlanNeverReachesService(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.AddRunningJob(testAccountID, "dns", time.Hour, time.Now())
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	_, _, err := executeCLI(t, home, "launch",
		"--target", "198.51.100.7", "--port", "53", "--duration", "30", "--method", "dns")
	require.Error(t, err)
	assert.Equal(t, "your FREE plan allows only 1 concurrent jobs; stop a running job or upgrade your plan", err.Error())
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallLaunch))
}

func TestLaunchPlanLimits(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "pro", time.Now().Add(time.Hour))
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	tests := []struct {
		name     string
		duration string
		method   string
		want     string
	}{
		{name: "duration", duration: "301", method: "udp", want: "your PRO plan allows max 300s duration; requested 301s"},
		{name: "method", duration: "30", method: "SYN", want: `method "SYN" is not available in your PRO plan; upgrade to access more methods`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCLI(t, home, "launch",
				"--target", "198.51.100.7", "--port", "80", "--duration", tt.duration, "--method", tt.method)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallLaunch))
}

func TestLaunchInvalidRequestMakesNoServiceCalls(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	_, _, err := executeCLI(t, home, "launch", "--target", "198.51.100.7", "--port", "http")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please fill in all fields")
	assert.Contains(t, err.Error(), "port must be between 1 and 65535")
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallList))
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallSettings))
}

func TestLaunchDryRunDoesNotLaunch(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "pro", time.Time{})
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "launch", "--dry-run",
		"--target", "198.51.100.7", "--port", "443", "--duration", "120", "--method", "http")
	require.NoError(t, err)
	assert.Equal(t, "admitted by PRO plan (0/3 running)\n", stdout)
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallLaunch))
}

func TestLaunchUnreachableServiceIsNotTreatedAsZeroJobs(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.FailList(true)
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	_, _, err := executeCLI(t, home, "launch",
		"--target", "198.51.100.7", "--port", "53", "--duration", "30", "--method", "dns")
	require.Error(t, err)
	assert.Equal(t, "could not reach service, try again", err.Error())
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallLaunch))
}

func TestStopAllWithoutRunningJobs(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "stop-all")
	require.NoError(t, err)
	assert.Equal(t, noJobsToStopMessage+"\n", stdout)
	assert.Equal(t, 0, srv.Calls(jobservicetest.CallStop))
}

func TestStopAllReportsPartialFailure(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "pro", time.Time{})
	srv.AddRunningJob(testAccountID, "dns", time.Hour, time.Now())
	failing := srv.AddRunningJob(testAccountID, "udp", time.Hour, time.Now())
	srv.FailStop(failing)
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "stop-all")
	require.Error(t, err)
	assert.Equal(t, "1 job(s) could not be stopped", err.Error())
	assert.Contains(t, stdout, "stopped 1 of 2 jobs")
	assert.Contains(t, stdout, fmt.Sprintf("#%s:", failing))
	assert.Equal(t, 2, srv.Calls(jobservicetest.CallStop))
	assert.Equal(t, 1, srv.RunningJobs(testAccountID))
}

func TestStopSingleJob(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	id := srv.AddRunningJob(testAccountID, "dns", time.Hour, time.Now())
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "stop", string(id))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("stopped job #%s\n", id), stdout)
	assert.Equal(t, 0, srv.RunningJobs(testAccountID))

	_, _, err = executeCLI(t, home, "stop", "99")
	require.Error(t, err)
	assert.Equal(t, "job #99 not found for account acct-1", err.Error())
}

func TestTokenSetIsUsedWhenConfigHasNoToken(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "stored-token")
	require.NoError(t, writeConfigFixture(home, srv.URL, ""))

	_, _, err := executeCLI(t, home, "status", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `jg token set`")

	stdout, _, err := executeCLI(t, home, "token", "set", "--value", "stored-token")
	require.NoError(t, err)
	assert.Equal(t, "stored token for account acct-1\n", stdout)

	_, _, err = executeCLI(t, home, "status", "--json")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "token", "remove")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "status", "--json")
	require.Error(t, err)
}

func TestTokenWithPassBackendFallsBackToFile(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "stored-token")
	require.NoError(t, writeConfigFixture(home, srv.URL, ""))
	t.Setenv("JG_SECRETS_BACKEND", "pass")
	t.Setenv("PATH", t.TempDir())

	_, _, err := executeCLI(t, home, "token", "set", "--value", "stored-token")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".config", "jobgate", "secrets", "jobgate", testAccountID, "token"))

	_, _, err = executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
}

func TestTokenSetRequiresValueFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "token", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"value\" not set")
}

func TestPlansListWithoutServiceConfig(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "plans", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "tiers: 3")
	assert.Contains(t, stdout, "ULTIMATE")
	assert.NotContains(t, stdout, "(current)")
}

func TestPlansListMarksCurrentPlan(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.SetPlan(testAccountID, "ultimate", time.Now().Add(time.Hour))
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "plans")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ULTIMATE (current)")
}

func TestPlansInitWritesFileOnce(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "plans", "init")
	require.NoError(t, err)
	plansPath := filepath.Join(home, ".config", "jobgate", "plans.toml")
	assert.Equal(t, "wrote default plans to "+plansPath+"\n", stdout)
	assert.FileExists(t, plansPath)

	_, _, err = executeCLI(t, home, "plans", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCLI(t, home, "plans", "init", "--force")
	require.NoError(t, err)
}

func TestCustomPlanFileChangesLimits(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	srv.AddRunningJob(testAccountID, "dns", time.Hour, time.Now())
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	plans := `version = 1
grace_period_seconds = 0

[[plans]]
id = "free"
max_concurrent = 2
max_duration_seconds = 60
methods = ["dns"]
`
	require.NoError(t, os.WriteFile(filepath.Join(home, ".config", "jobgate", "plans.toml"), []byte(plans), 0o600))

	stdout, _, err := executeCLI(t, home, "launch", "--dry-run",
		"--target", "198.51.100.7", "--port", "53", "--duration", "60", "--method", "DNS")
	require.NoError(t, err)
	assert.Equal(t, "admitted by FREE plan (1/2 running)\n", stdout)
}

func TestWatchRendersOnceWithCount(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))

	stdout, _, err := executeCLI(t, home, "watch", "--count", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Job Quota Status")
	assert.Contains(t, stdout, "No running jobs.")
}

func TestWatchRendersRepeatedly(t *testing.T) {
	home := t.TempDir()
	srv := jobservicetest.NewServer(t, "tok-1")
	require.NoError(t, writeConfigFixture(home, srv.URL, "tok-1"))
	t.Setenv("JG_POLL_INTERVAL", "20ms")

	stdout, _, err := executeCLI(t, home, "watch", "--count", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count([]byte(stdout), []byte("Job Quota Status")))
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "--log-level", "chatty", "plans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfigFixture(home, baseURL, token string) error {
	configDir := filepath.Join(home, ".config", "jobgate")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	config := fmt.Sprintf(`[account]
id = %q

[service]
base_url = %q
request_timeout = "2s"
`, testAccountID, baseURL)
	if token != "" {
		config = fmt.Sprintf("token = %q\n\n", token) + config
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600)
}
