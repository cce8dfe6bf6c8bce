package recorder

// NoopRecorder is used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(run *Run) (string, error) { return run.ID, nil }
func (n *NoopRecorder) Close() error                       { return nil }
