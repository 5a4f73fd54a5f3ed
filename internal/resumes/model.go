package resumes

import "time"

// Stage names the steps of one pipeline invocation, in execution order.
type Stage string

const (
	StageReceived  Stage = "received"
	StageStored    Stage = "stored"
	StageExtracted Stage = "extracted"
	StageAnalyzed  Stage = "analyzed"
	StageCompleted Stage = "completed"
)

// Analysis status values recorded on the resume row.
const (
	AnalysisPending          = "pending"
	AnalysisCompleted        = "completed"
	AnalysisFailedExtraction = "failed_extraction"
	AnalysisFailedAnalysis   = "failed_analysis"
)

// UploadRequest carries one uploaded document through a pipeline invocation.
// It is never mutated and is discarded when the invocation ends.
type UploadRequest struct {
	OwnerID  string
	FileName string
	MimeType string
	Content  []byte
}

// Outcome is the assembled result of a fully completed invocation.
type Outcome struct {
	URL      string `json:"url"`
	Analysis string `json:"analysis"`
}

// Resume is the stored record of a durably written resume document.
type Resume struct {
	ID             string
	OwnerID        string
	FileName       string
	MimeType       string
	SizeBytes      int64
	StorageKey     string
	PublicURL      string
	AnalysisStatus string
	AnalyzedAt     *time.Time
	CreatedAt      time.Time
}
