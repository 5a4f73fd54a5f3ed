package resumes

// ProgressEvent reports the advancement of one pipeline invocation. Events
// arrive in stage order; the final event carries either StageCompleted or the
// stage that failed. BytesStored is populated once the blob write finishes.
type ProgressEvent struct {
	Stage       Stage
	BytesStored int64
	Failed      bool
}

// ProgressSink receives progress events for one invocation. Sinks are invoked
// synchronously between stages and must not block; they have no influence on
// the pipeline's success or failure.
type ProgressSink func(ProgressEvent)

func notify(sink ProgressSink, ev ProgressEvent) {
	if sink != nil {
		sink(ev)
	}
}
