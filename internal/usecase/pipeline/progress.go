package pipeline

import "time"

// Pipeline stage names, as reported on the progress channel and used as
// metric labels.
const (
	StageClassify = "classify"
	StageExpand   = "expand"
	StageRetrieve = "retrieve"
	StageRank     = "rank"
	StagePackage  = "package"
)

// ProgressEvent reports the completion of one pipeline stage.
type ProgressEvent struct {
	Stage   string
	Detail  string
	Elapsed time.Duration
}

// notify sends a progress event without blocking. A slow or absent observer
// never stalls the request.
func (s *Service) notify(stage, detail string, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	select {
	case s.observer <- ProgressEvent{Stage: stage, Detail: detail, Elapsed: elapsed}:
	default:
	}
}
