package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/delivery/http/middleware"
	"talent-graph/internal/pipeline"
	"talent-graph/internal/pkg/response"
)

const maxResumeBytes = 10 << 20 // 10MB per file

// AnalyzeHandler accepts a job description plus a batch of resumes and
// runs the full analysis.
type AnalyzeHandler struct {
	analyzer *pipeline.Analyzer
}

func NewAnalyzeHandler(analyzer *pipeline.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

func (h *AnalyzeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/analyze", h.Analyze)
}

func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_description is required", nil, nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "multipart form is required", nil, err)
	}
	headers := form.File["resumes"]
	if len(headers) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "at least one resume file is required", nil, nil)
	}
	if limit := h.analyzer.MaxFiles(); len(headers) > limit {
		return middleware.NewAppError(fiber.StatusBadRequest,
			fmt.Sprintf("too many resumes: maximum is %d per request", limit), nil, nil)
	}

	files := make([]pipeline.ResumeFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxResumeBytes {
			return middleware.NewAppError(fiber.StatusBadRequest,
				fmt.Sprintf("file %q exceeds the %dMB limit", fh.Filename, maxResumeBytes>>20), nil, nil)
		}
		content, err := readUpload(fh)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest,
				fmt.Sprintf("unreadable file %q", fh.Filename), nil, err)
		}
		files = append(files, pipeline.ResumeFile{Filename: fh.Filename, Content: content})
	}

	report, err := h.analyzer.Analyze(c.Context(), jobDescription, files)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, "analysis completed", report)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxResumeBytes+1))
}
