package models

// TaskState is the processing lifecycle of one upload task. Succeeded and
// Failed are terminal; the scheduler never revisits a terminal task.
type TaskState string

const (
	TaskQueued      TaskState = "queued"
	TaskCompressing TaskState = "compressing"
	TaskUploading   TaskState = "uploading"
	TaskSucceeded   TaskState = "succeeded"
	TaskFailed      TaskState = "failed"
)

// SourceFile is one attachment submitted with a registration.
type SourceFile struct {
	Name    string
	Content []byte
}

// TaskOutcome is the terminal result of one upload task. Exactly one of
// URL/Err is set. Index refers back to the position in the submitted batch.
type TaskOutcome struct {
	Index    int
	Filename string
	State    TaskState
	Key      string
	URL      string
	Err      error
}

// Succeeded reports whether the task reached its success terminal state.
func (o TaskOutcome) Succeeded() bool {
	return o.State == TaskSucceeded
}
