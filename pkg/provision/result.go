package provision

// Status classifies a phase outcome. Nothing below fatal exists here:
// phases isolate their own failures and report them as warnings, and only
// the final handover can abort the boot sequence.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusWarning
)

// Result is a phase outcome with a human-readable message. The orchestrator
// logs every result and always continues past it.
type Result struct {
	Status  Status
	Message string
}

func ok(message string) Result {
	return Result{Status: StatusOK, Message: message}
}

func skipped(message string) Result {
	return Result{Status: StatusSkipped, Message: message}
}

func warning(message string) Result {
	return Result{Status: StatusWarning, Message: message}
}
