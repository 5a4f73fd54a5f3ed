package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"jobcompass-server/internal/extract"
	"jobcompass-server/internal/llm"
	"jobcompass-server/internal/shared/metrics"
	"jobcompass-server/internal/shared/storage/object"
	"jobcompass-server/internal/shared/telemetry"
	"jobcompass-server/internal/shared/util"
)

// TextExtractor converts document bytes into plain text.
type TextExtractor func(data []byte, mimeType, fileName string) (string, error)

var allowedMimeTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOC:  {},
	extract.MimeDOCX: {},
}

// Service runs the resume ingestion pipeline: validate, store, extract,
// analyze. Each invocation is single-attempt; a failed stage terminates the
// invocation and no stage is retried.
type Service struct {
	Store          object.ObjectStore
	Repo           Repo
	LLM            llm.Client
	MaxUploadBytes int64
	Extract        TextExtractor
}

// Ingest runs one full pipeline invocation.
func (s *Service) Ingest(ctx context.Context, req UploadRequest) (Outcome, error) {
	return s.IngestWithProgress(ctx, req, nil)
}

// IngestWithProgress runs one full pipeline invocation, reporting stage
// transitions to the optional sink.
func (s *Service) IngestWithProgress(ctx context.Context, req UploadRequest, sink ProgressSink) (Outcome, error) {
	metrics.IncPipelineStarted()
	start := time.Now()

	fileName, err := s.validate(req)
	if err != nil {
		metrics.IncPipelineFailed(string(StageReceived))
		notify(sink, ProgressEvent{Stage: StageReceived, Failed: true})
		return Outcome{}, failedAt(StageReceived, err)
	}
	notify(sink, ProgressEvent{Stage: StageReceived})

	storageKey := object.ResumeKey(req.OwnerID, fileName)
	size, err := s.Store.Put(ctx, storageKey, req.MimeType, bytes.NewReader(req.Content))
	if err != nil {
		metrics.IncPipelineFailed(string(StageStored))
		notify(sink, ProgressEvent{Stage: StageStored, Failed: true})
		return Outcome{}, failedAt(StageStored, err)
	}
	publicURL := s.Store.PublicURL(storageKey)
	notify(sink, ProgressEvent{Stage: StageStored, BytesStored: size})

	s.record(ctx, Resume{
		ID:             uuid.NewString(),
		OwnerID:        req.OwnerID,
		FileName:       fileName,
		MimeType:       req.MimeType,
		SizeBytes:      size,
		StorageKey:     storageKey,
		PublicURL:      publicURL,
		AnalysisStatus: AnalysisPending,
		CreatedAt:      time.Now().UTC(),
	})

	// Extraction runs on the original bytes held in memory, not a re-download.
	// The stored blob outlives any later-stage failure.
	text, err := s.extractText(req.Content, req.MimeType, fileName)
	if err != nil {
		metrics.IncPipelineFailed(string(StageExtracted))
		notify(sink, ProgressEvent{Stage: StageExtracted, BytesStored: size, Failed: true})
		s.setStatus(ctx, req.OwnerID, fileName, AnalysisFailedExtraction)
		return Outcome{}, failedAt(StageExtracted, err)
	}
	notify(sink, ProgressEvent{Stage: StageExtracted, BytesStored: size})

	analysis, err := s.LLM.Review(ctx, text)
	if err != nil {
		metrics.IncPipelineFailed(string(StageAnalyzed))
		notify(sink, ProgressEvent{Stage: StageAnalyzed, BytesStored: size, Failed: true})
		s.setStatus(ctx, req.OwnerID, fileName, AnalysisFailedAnalysis)
		return Outcome{}, failedAt(StageAnalyzed, err)
	}
	notify(sink, ProgressEvent{Stage: StageAnalyzed, BytesStored: size})

	s.setStatus(ctx, req.OwnerID, fileName, AnalysisCompleted)

	metrics.IncPipelineCompleted()
	metrics.ObservePipelineDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	notify(sink, ProgressEvent{Stage: StageCompleted, BytesStored: size})

	return Outcome{URL: publicURL, Analysis: analysis}, nil
}

// Reanalyze downloads a previously stored document by its public URL and runs
// extraction and analysis, skipping the store step.
func (s *Service) Reanalyze(ctx context.Context, fileURL string) (string, error) {
	storageKey, ok := s.Store.ResolveKey(fileURL)
	if !ok {
		return "", ErrNotFound
	}

	body, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", failedAt(StageStored, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", failedAt(StageStored, err)
	}

	text, err := s.extractText(data, "", storageKey)
	if err != nil {
		return "", failedAt(StageExtracted, err)
	}

	analysis, err := s.LLM.Review(ctx, text)
	if err != nil {
		return "", failedAt(StageAnalyzed, err)
	}
	return analysis, nil
}

// validate checks the upload request without contacting any collaborator.
func (s *Service) validate(req UploadRequest) (string, error) {
	if req.OwnerID == "" {
		return "", errors.New("owner id is required")
	}
	fileName, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		return "", err
	}
	if _, ok := allowedMimeTypes[req.MimeType]; !ok {
		return "", fmt.Errorf("unsupported file type: %s", req.MimeType)
	}
	if len(req.Content) == 0 {
		return "", errors.New("file is empty")
	}
	if max := s.MaxUploadBytes; max > 0 && int64(len(req.Content)) > max {
		return "", fmt.Errorf("file size exceeds %d byte limit", max)
	}
	return fileName, nil
}

func (s *Service) extractText(data []byte, mimeType, fileName string) (string, error) {
	if s.Extract != nil {
		return s.Extract(data, mimeType, fileName)
	}
	return extract.Text(data, mimeType, fileName)
}

// record persists the resume row. The caller is owed the pipeline result, not
// the bookkeeping write, so repo failures are logged and swallowed.
func (s *Service) record(ctx context.Context, r Resume) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Upsert(ctx, r); err != nil {
		telemetry.Error("resume.record.failed", map[string]any{
			"owner_id":  r.OwnerID,
			"file_name": r.FileName,
			"err":       err.Error(),
		})
	}
}

func (s *Service) setStatus(ctx context.Context, ownerID, fileName, status string) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.SetAnalysisStatus(ctx, ownerID, fileName, status, time.Now().UTC()); err != nil {
		telemetry.Error("resume.status.failed", map[string]any{
			"owner_id":  ownerID,
			"file_name": fileName,
			"status":    status,
			"err":       err.Error(),
		})
	}
}
