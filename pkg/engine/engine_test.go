//go:build !integration

package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.stdout, f.stderr, f.err
}

func TestImportCredentialsArgs(t *testing.T) {
	runner := &fakeRunner{}
	client := &Client{Bin: "n8n", Runner: runner}

	require.NoError(t, client.ImportCredentials("/tmp/creds"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "n8n", runner.calls[0].name)
	assert.Equal(t, []string{"import:credentials", "--separate", "--input", "/tmp/creds"}, runner.calls[0].args)
}

func TestImportWorkflowsArgs(t *testing.T) {
	runner := &fakeRunner{}
	client := &Client{Bin: "n8n", Runner: runner}

	require.NoError(t, client.ImportWorkflows("/tmp/workflows"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"import:workflow", "--separate", "--input", "/tmp/workflows"}, runner.calls[0].args)
}

func TestListWorkflows(t *testing.T) {
	runner := &fakeRunner{stdout: "wf-1|Scrape\nwf-2|Digest\n", stderr: "permissions notice\n"}
	client := &Client{Bin: "n8n", Runner: runner}

	listing, diagnostics, err := client.ListWorkflows()
	require.NoError(t, err)

	assert.Equal(t, "wf-1|Scrape\nwf-2|Digest\n", listing)
	assert.Equal(t, "permissions notice\n", diagnostics)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"list:workflow"}, runner.calls[0].args)
}

func TestSetActiveArgs(t *testing.T) {
	runner := &fakeRunner{}
	client := &Client{Bin: "n8n", Runner: runner}

	require.NoError(t, client.SetActive("wf-1", true))
	require.NoError(t, client.SetActive("wf-2", false))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"update:workflow", "--id", "wf-1", "--active=true"}, runner.calls[0].args)
	assert.Equal(t, []string{"update:workflow", "--id", "wf-2", "--active=false"}, runner.calls[1].args)
}

func TestCommandErrorsIncludeStderr(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "connection refused\n"}
	client := &Client{Bin: "n8n", Runner: runner}

	err := client.ImportCredentials("/tmp/creds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential import failed")
	assert.Contains(t, err.Error(), "connection refused")

	err = client.SetActive("wf-1", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activation of wf-1 failed")
}

func TestCommandErrorWithoutStderr(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 2")}
	client := &Client{Bin: "n8n", Runner: runner}

	err := client.ImportWorkflows("/tmp/workflows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow import failed")
	assert.False(t, strings.HasSuffix(err.Error(), ": "), "no dangling stderr separator")
}

func TestStartReplacesProcess(t *testing.T) {
	var gotPath string
	var gotArgs []string
	original := execve
	execve = func(path string, args []string, env []string) error {
		gotPath = path
		gotArgs = args
		return nil
	}
	t.Cleanup(func() { execve = original })

	// "sh" resolves on any test host; the fake execve never actually runs it.
	client := NewClient("sh")
	require.NoError(t, client.Start())

	assert.NotEmpty(t, gotPath)
	assert.Equal(t, []string{"sh", "start"}, gotArgs)
}

func TestStartFailsWhenBinaryMissing(t *testing.T) {
	client := NewClient("definitely-not-a-real-engine-binary")

	err := client.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExecRunnerCapturesStreams(t *testing.T) {
	runner := execRunner{}

	stdout, stderr, err := runner.Run("sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout)
	assert.Equal(t, "err\n", stderr)
}

func TestExecRunnerReportsFailure(t *testing.T) {
	runner := execRunner{}

	_, stderr, err := runner.Run("sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, "broken\n", stderr)
}
