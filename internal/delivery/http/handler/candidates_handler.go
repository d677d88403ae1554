package handler

import (
	"github.com/gofiber/fiber/v3"

	"talent-graph/internal/delivery/http/middleware"
	"talent-graph/internal/pkg/response"
	"talent-graph/internal/usecase"
)

// CandidatesHandler exposes rankings and single-candidate scores for a
// job already in the graph.
type CandidatesHandler struct {
	ranker *usecase.Rank
	scorer *usecase.Match
}

func NewCandidatesHandler(ranker *usecase.Rank, scorer *usecase.Match) *CandidatesHandler {
	return &CandidatesHandler{ranker: ranker, scorer: scorer}
}

func (h *CandidatesHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/:job_id/candidates", h.ListRanked)
	grp.Get("/:job_id/candidates/:candidate_id", h.GetMatch)
}

func (h *CandidatesHandler) ListRanked(c fiber.Ctx) error {
	jobID := c.Params("job_id")
	if jobID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_id is required", nil, nil)
	}

	ranked, err := h.ranker.RankCandidates(c.Context(), jobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"job_id":            jobID,
		"total_candidates":  len(ranked),
		"ranked_candidates": ranked,
	})
}

func (h *CandidatesHandler) GetMatch(c fiber.Ctx) error {
	jobID := c.Params("job_id")
	candidateID := c.Params("candidate_id")
	if jobID == "" || candidateID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_id and candidate_id are required", nil, nil)
	}

	res, err := h.scorer.Score(c.Context(), candidateID, jobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
	return response.Success(c, fiber.StatusOK, "", res)
}
