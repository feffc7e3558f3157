// Package provision implements the first-boot bootstrap pipeline for the
// News Agent workflow engine: synthesize credentials from configuration,
// import them, rewrite credential references inside the authored workflow
// definitions, import those, best-effort activate everything, then hand the
// process over to the engine's own start procedure.
//
// The pipeline runs exactly once per deployment: a marker file inside the
// engine's durable data directory gates re-entry. Every phase isolates its
// own failures as warnings; only the final handover can fail the boot.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/newsagent/provision/pkg/config"
	"github.com/newsagent/provision/pkg/console"
	"github.com/newsagent/provision/pkg/credentials"
	"github.com/newsagent/provision/pkg/engine"
	"github.com/newsagent/provision/pkg/logger"
	"github.com/newsagent/provision/pkg/workflow"
)

var provisionLog = logger.New("provision:run")

const totalPhases = 7

// Provisioner drives the bootstrap pipeline. The function fields are seams
// for tests; New wires the production implementations.
type Provisioner struct {
	Settings *config.Settings
	Engine   *engine.Client

	// Out receives the streamed progress log (stderr in production).
	Out io.Writer

	// WaitForDatabase blocks until the engine's database answers or the
	// timeout elapses.
	WaitForDatabase func(ctx context.Context, connString string, timeout time.Duration) error

	// StartEngine replaces the process with the engine's start procedure.
	StartEngine func() error
}

// New creates a production provisioner for the given settings.
func New(settings *config.Settings, client *engine.Client) *Provisioner {
	return &Provisioner{
		Settings:        settings,
		Engine:          client,
		Out:             os.Stderr,
		WaitForDatabase: waitForDatabase,
		StartEngine:     client.Start,
	}
}

// Run executes the pipeline. It returns only if the handover fails; that
// error is the single fatal path of the whole boot sequence.
func (p *Provisioner) Run(ctx context.Context) error {
	if p.markerExists() {
		p.println(console.FormatInfoMessage("Provision marker present, engine already bootstrapped"))
		return p.handover()
	}

	p.phase(1, "Waiting for database", func() Result {
		return p.waitDatabase(ctx)
	})

	var specs []credentials.Spec
	p.phase(2, "Synthesizing credentials", func() Result {
		specs = p.synthesizeCredentials()
		return ok(strconv.Itoa(len(specs)) + " credential(s) synthesized")
	})

	p.phase(3, "Importing credentials", func() Result {
		return p.importCredentials(specs)
	})

	var scratch string
	p.phase(4, "Remapping workflow credential references", func() Result {
		result, dir := p.remapWorkflows()
		scratch = dir
		return result
	})

	p.phase(5, "Importing workflows", func() Result {
		return p.importWorkflows(scratch)
	})

	p.phase(6, "Activating workflows", func() Result {
		return p.activateWorkflows()
	})

	fmt.Fprintf(p.Out, "[%d/%d] Handing over to engine\n", totalPhases, totalPhases)
	return p.handover()
}

// phase prints the numbered header, runs the phase, and logs its result.
// No result can abort the sequence.
func (p *Provisioner) phase(n int, title string, fn func() Result) {
	fmt.Fprintf(p.Out, "[%d/%d] %s\n", n, totalPhases, title)
	result := fn()
	provisionLog.Printf("phase %d (%s): status=%d message=%s", n, title, result.Status, result.Message)
	switch result.Status {
	case StatusOK:
		p.println(console.FormatSuccessMessage(result.Message))
	case StatusSkipped:
		p.println(console.FormatInfoMessage(result.Message))
	case StatusWarning:
		p.println(console.FormatWarningMessage(result.Message))
	}
}

func (p *Provisioner) println(line string) {
	fmt.Fprintln(p.Out, line)
}

func (p *Provisioner) markerExists() bool {
	_, err := os.Stat(p.Settings.MarkerPath())
	return err == nil
}

func (p *Provisioner) waitDatabase(ctx context.Context) Result {
	err := p.WaitForDatabase(ctx, p.Settings.DB.ConnString(), p.Settings.Engine.DBWaitTimeout)
	if err != nil {
		return warning(err.Error())
	}
	return ok("database is reachable")
}

func (p *Provisioner) synthesizeCredentials() []credentials.Spec {
	specs, skips := credentials.Synthesize(p.Settings)
	for _, spec := range specs {
		p.println("  + " + spec.Name + " (" + string(spec.Type) + ")")
		if err := credentials.Validate(spec); err != nil {
			p.println(console.FormatWarningMessage(err.Error()))
		}
	}
	for _, notice := range skips {
		p.println("  - " + notice)
	}
	return specs
}

func (p *Provisioner) importCredentials(specs []credentials.Spec) Result {
	dir, err := os.MkdirTemp("", "newsagent-credentials-")
	if err != nil {
		return warning("failed to create credential staging directory: " + err.Error())
	}
	defer func() {
		// Credential material must not outlive this phase.
		_ = os.RemoveAll(dir)
	}()

	if err := credentials.WriteUnits(dir, specs); err != nil {
		return warning(err.Error())
	}
	if err := p.Engine.ImportCredentials(dir); err != nil {
		return warning(err.Error())
	}
	return ok(strconv.Itoa(len(specs)) + " credential(s) imported")
}

// remapWorkflows stages the authored workflow documents into a scratch
// directory and rewrites their credential references. The scratch directory
// is returned for the import phase and removed there.
func (p *Provisioner) remapWorkflows() (Result, string) {
	scratch, err := os.MkdirTemp("", "newsagent-workflows-")
	if err != nil {
		return warning("failed to create workflow staging directory: " + err.Error()), ""
	}

	staged, err := workflow.Stage(p.Settings.Engine.WorkflowsDir, scratch)
	if err != nil {
		p.println(console.FormatWarningMessage(err.Error()))
	}
	if len(staged) == 0 {
		return skipped("no workflow documents found in " + p.Settings.Engine.WorkflowsDir), scratch
	}

	ids := credentials.CanonicalIDs()
	remapped := 0
	for _, path := range staged {
		doc, err := workflow.LoadDocument(path)
		if err != nil {
			// The document is left as copied and still attempted in the
			// import phase; the engine is the final authority.
			p.println(console.FormatWarningMessage(err.Error()))
			continue
		}
		count := workflow.RemapCredentialIDs(doc.Root, ids)
		if count == 0 {
			continue
		}
		if err := doc.Save(); err != nil {
			p.println(console.FormatWarningMessage(err.Error()))
			continue
		}
		remapped += count
	}
	message := fmt.Sprintf("%d credential reference(s) rewritten across %d document(s)", remapped, len(staged))
	return ok(message), scratch
}

func (p *Provisioner) importWorkflows(scratch string) Result {
	if scratch == "" {
		return skipped("nothing staged for import")
	}
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	entries, err := os.ReadDir(scratch)
	if err != nil {
		return warning("failed to read workflow staging directory: " + err.Error())
	}
	if len(entries) == 0 {
		return skipped("no workflow documents to import")
	}

	if err := p.Engine.ImportWorkflows(scratch); err != nil {
		return warning(err.Error())
	}
	return ok(strconv.Itoa(len(entries)) + " workflow document(s) imported")
}

func (p *Provisioner) activateWorkflows() Result {
	listing, diagnostics, err := p.Engine.ListWorkflows()
	if err != nil {
		return warning(err.Error())
	}
	if diagnostics != "" {
		provisionLog.Printf("workflow listing diagnostics: %s", diagnostics)
	}

	ids := ParseWorkflowIDs(listing)
	if len(ids) == 0 {
		return skipped("no workflows found to activate")
	}

	summary := ActivationSummary{Total: len(ids)}
	for _, id := range ids {
		if err := p.Engine.SetActive(id, true); err != nil {
			summary.Failed++
			p.println(console.FormatErrorMessage("activate " + id + ": " + err.Error()))
			continue
		}
		summary.Succeeded++
		p.println("  ✓ activated " + id)
	}

	p.println(console.RenderTable(console.TableConfig{
		Title:   "Activation summary",
		Headers: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"succeeded", strconv.Itoa(summary.Succeeded)},
			{"failed", strconv.Itoa(summary.Failed)},
		},
		ShowTotal: true,
		TotalRow:  []string{"total", strconv.Itoa(summary.Total)},
	}))

	message := fmt.Sprintf("activated %d of %d workflow(s)", summary.Succeeded, summary.Total)
	if summary.Failed > 0 {
		return warning(message)
	}
	return ok(message)
}

// handover persists the marker and replaces the process with the engine's
// start procedure. A marker write failure is a warning (the engine must
// still start); a start failure is fatal and propagates to main.
func (p *Provisioner) handover() error {
	if err := p.writeMarker(); err != nil {
		p.println(console.FormatWarningMessage("failed to write provision marker: " + err.Error()))
	}
	if err := p.StartEngine(); err != nil {
		return fmt.Errorf("handover failed: %w", err)
	}
	return nil
}

func (p *Provisioner) writeMarker() error {
	if err := os.MkdirAll(p.Settings.Engine.DataDir, 0o755); err != nil {
		return err
	}
	// Zero-byte sentinel; overwriting an existing marker is harmless.
	return os.WriteFile(p.Settings.MarkerPath(), nil, 0o644)
}
