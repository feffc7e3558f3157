// Package engine drives the workflow engine's command-line interface. Every
// interaction with the engine (credential import, workflow import, listing,
// activation, startup) goes through this boundary.
package engine

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/newsagent/provision/pkg/logger"
)

var engineLog = logger.New("engine:exec")

// Runner executes a command and returns its stdout and stderr separately,
// plus the command error. The production implementation shells out; tests
// substitute a fake.
type Runner interface {
	Run(name string, args ...string) (stdout, stderr string, err error)
}

// execRunner runs commands through os/exec, capturing both streams.
type execRunner struct{}

func (execRunner) Run(name string, args ...string) (string, string, error) {
	engineLog.Printf("running: %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// execve replaces the current process image. Overridable for tests, since a
// real call never returns.
var execve = syscall.Exec

// Client invokes the engine binary.
type Client struct {
	Bin    string
	Runner Runner
}

// NewClient creates a client for the given engine executable using the
// real subprocess runner.
func NewClient(bin string) *Client {
	return &Client{Bin: bin, Runner: execRunner{}}
}

// ImportCredentials submits a directory of individual credential documents
// to the engine's bulk credential import.
func (c *Client) ImportCredentials(dir string) error {
	_, stderr, err := c.Runner.Run(c.Bin, "import:credentials", "--separate", "--input", dir)
	if err != nil {
		return commandError("credential import", err, stderr)
	}
	return nil
}

// ImportWorkflows submits a directory of workflow documents to the engine's
// bulk workflow import. The engine assigns each document a fresh internal
// identity.
func (c *Client) ImportWorkflows(dir string) error {
	_, stderr, err := c.Runner.Run(c.Bin, "import:workflow", "--separate", "--input", dir)
	if err != nil {
		return commandError("workflow import", err, stderr)
	}
	return nil
}

// ListWorkflows returns the engine's workflow listing: pipe-delimited rows,
// one per workflow, first column the identifier. Diagnostic output is
// returned separately.
func (c *Client) ListWorkflows() (listing, diagnostics string, err error) {
	stdout, stderr, err := c.Runner.Run(c.Bin, "list:workflow")
	if err != nil {
		return "", stderr, commandError("workflow listing", err, stderr)
	}
	return stdout, stderr, nil
}

// SetActive flips a workflow's active flag.
func (c *Client) SetActive(id string, active bool) error {
	_, stderr, err := c.Runner.Run(c.Bin, "update:workflow", "--id", id, fmt.Sprintf("--active=%t", active))
	if err != nil {
		return commandError(fmt.Sprintf("activation of %s", id), err, stderr)
	}
	return nil
}

// Start replaces the current process with the engine's long-running start
// procedure. On success it never returns; any returned error is fatal to
// the boot sequence.
func (c *Client) Start() error {
	path, err := exec.LookPath(c.Bin)
	if err != nil {
		return fmt.Errorf("engine executable %q not found: %w", c.Bin, err)
	}
	engineLog.Printf("handing over to: %s start", path)
	if err := execve(path, []string{c.Bin, "start"}, os.Environ()); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	return nil
}

// commandError attaches the engine's own diagnostics to a failed call.
func commandError(operation string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("%s failed: %w", operation, err)
	}
	return fmt.Errorf("%s failed: %w: %s", operation, err, stderr)
}
