package job

// RemoteState is the render service's view of a submitted job.
type RemoteState string

const (
	RemoteRunning   RemoteState = "running"
	RemoteSucceeded RemoteState = "succeeded"
	RemoteFailed    RemoteState = "failed"
)

// SubmitResult is the outcome of handing a job to the render service.
type SubmitResult struct {
	Accepted bool
	Handle   string
	Message  string
}

// PollResult is one status sample for an in-flight remote job.
type PollResult struct {
	State      RemoteState
	Progress   int
	Message    string
	ResultPath string
}
