package resumes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobcompass-server/internal/shared/server/respond"
)

// multipart framing adds overhead beyond the file itself; the service judges
// the file size, the body cap just bounds hostile requests.
const multipartOverhead = 512 << 10

// Handler wires HTTP handlers to the pipeline service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("/analyze-resume", h.analyzeResume)
}

func (h *Handler) upload(c *gin.Context) {
	if max := h.Svc.MaxUploadBytes; max > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file uploaded")
		return
	}

	uid := strings.TrimSpace(c.PostForm("uid"))
	if uid == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No user id provided")
		return
	}
	c.Set("ownerId", uid)

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}

	outcome, err := h.Svc.Ingest(c.Request.Context(), UploadRequest{
		OwnerID:  uid,
		FileName: fileHeader.Filename,
		MimeType: mimeTypeFromHeader(fileHeader.Header.Get("Content-Type")),
		Content:  content,
	})
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	respond.OK(c, outcome)
}

type analyzeResumeRequest struct {
	FileURL string `json:"fileUrl"`
}

type analyzeResumeResponse struct {
	Analysis string `json:"analysis"`
}

func (h *Handler) analyzeResume(c *gin.Context) {
	var req analyzeResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file URL provided")
		return
	}
	req.FileURL = strings.TrimSpace(req.FileURL)
	if req.FileURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file URL provided")
		return
	}

	analysis, err := h.Svc.Reanalyze(c.Request.Context(), req.FileURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found")
			return
		}
		h.respondPipelineError(c, err)
		return
	}

	respond.OK(c, analyzeResumeResponse{Analysis: analysis})
}

func (h *Handler) respondPipelineError(c *gin.Context, err error) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		c.Set("pipelineStage", string(stageErr.Stage))
		if stageErr.Stage == StageReceived {
			respond.Error(c, http.StatusBadRequest, "validation_error", stageErr.Err.Error())
			return
		}
		respond.Error(c, http.StatusInternalServerError, errorCode(stageErr.Stage), stageErr.Err.Error())
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error())
}

func errorCode(stage Stage) string {
	switch stage {
	case StageStored:
		return "storage_error"
	case StageExtracted:
		return "extraction_error"
	case StageAnalyzed:
		return "analysis_error"
	default:
		return "internal_error"
	}
}

func mimeTypeFromHeader(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}
