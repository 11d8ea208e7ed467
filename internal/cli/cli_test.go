package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/svcerr"
)

func resetFlags() {
	configPath, envFile, localeFlag = "", ".env", ""
	verbose, showMetrics = false, false
	failStatus, failCode, failName, failMessage, failData = 0, "", "", "", ""
	jsonOutput = false
	destName, destOnPremise, destNoDiscov, destAuth = "", false, false, svcerr.NoAuthentication
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCommands_Registered(t *testing.T) {
	for _, name := range []string{"classify", "explain", "kinds"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	flags := classifyCmd.Flags()
	require.NotNil(t, flags.Lookup("status"))
	require.NotNil(t, flags.Lookup("json"))
	assert.Equal(t, "false", flags.Lookup("json").DefValue)
	assert.Equal(t, svcerr.NoAuthentication, explainCmd.Flags().Lookup("auth").DefValue)
}

func TestClassify_Value(t *testing.T) {
	out, _, err := run(t, "classify", "DEPTH_ZERO_SELF_SIGNED_CERT")
	require.NoError(t, err)
	assert.Equal(t, "CertSelfSigned\nThe system URL is using a self-signed security certificate.\n", out)
}

func TestClassify_RequestFlags(t *testing.T) {
	out, _, err := run(t, "classify", "--status", "404")
	require.NoError(t, err)
	assert.Equal(t, "NotFound\nURL not found\n", out)
}

func TestClassify_JSON(t *testing.T) {
	out, _, err := run(t, "classify", "--status", "500", "--data", `{"error":{"code":"/IWFND/MED/170"}}`, "--json")
	require.NoError(t, err)

	var resp svcerr.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "CatalogServiceNotActive", resp.Kind)
	assert.Equal(t, "The catalog service is not active on the system.", resp.Message)
	assert.False(t, resp.Certificate)
}

func TestClassify_Locale(t *testing.T) {
	out, _, err := run(t, "classify", "--locale", "de", "404")
	require.NoError(t, err)
	assert.Equal(t, "NotFound\nURL nicht gefunden\n", out)
}

func TestClassify_Errors(t *testing.T) {
	_, _, err := run(t, "classify")
	assert.ErrorContains(t, err, "nothing to classify")

	_, _, err = run(t, "classify", "--status", "404", "401")
	assert.ErrorContains(t, err, "cannot be combined")
}

func TestExplain_Link(t *testing.T) {
	out, _, err := run(t, "explain", "SELF_SIGNED_CERT_IN_CHAIN")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "There is a self-signed certificate in the security certificate chain of the system URL.", lines[0])
	assert.Contains(t, lines[1], "Need help with this error?")
	assert.Contains(t, lines[1], "/actions/63068:63069/")
}

func TestExplain_Destination(t *testing.T) {
	out, _, err := run(t, "explain", "--status", "401", "--destination", "BTP", "--auth", "BasicAuthentication", "--json")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Authentication failed. Check the authentication configuration (BasicAuthentication) of the destination.", resp["message"])
}

func TestExplain_RefinedLink(t *testing.T) {
	out, _, err := run(t, "explain", "--status", "503", "--destination", "ERP", "--on-premise", "--json")
	require.NoError(t, err)

	var link svcerr.HelpLink
	require.NoError(t, json.Unmarshal([]byte(out), &link))
	assert.Contains(t, link.URL, "/actions/48367/")
}

func TestKinds(t *testing.T) {
	out, _, err := run(t, "kinds")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(svcerr.Kinds())+1)
	assert.True(t, strings.HasPrefix(lines[1], "Cert "))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Unknown "))
}

func TestConfigFile_AndMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcerr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: cloud-ide\ntelemetry:\n  enabled: true\n"), 0o600))

	out, stderr, err := run(t, "--config", path, "--metrics", "explain", "504")
	require.NoError(t, err)
	assert.Contains(t, out, "/actions/45995/")
	assert.Contains(t, stderr, `svcerr_telemetry_events_total{event="help_link_created",kind="GatewayTimeout"} 1`)
}

func TestConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcerr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: mainframe\n"), 0o600))

	_, _, err := run(t, "--config", path, "kinds")
	assert.ErrorContains(t, err, "invalid configuration")
}
