package handlers

import (
	"net/http"
	"strconv"

	partnerRepo "carenow/database/repository/partner"
	"carenow/models"
	"carenow/services/matching"
	"carenow/utils"

	"github.com/gin-gonic/gin"
)

// PartnerHandler exposes partner search and reads.
type PartnerHandler struct {
	Matcher matching.MatchingService
	Repo    partnerRepo.PartnerRepository
}

func NewPartnerHandler(matcher matching.MatchingService, repo partnerRepo.PartnerRepository) *PartnerHandler {
	return &PartnerHandler{Matcher: matcher, Repo: repo}
}

// MatchPartners handles POST /api/partners/match: a manual ranked search.
func (h *PartnerHandler) MatchPartners(c *gin.Context) {
	var req models.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if len(req.ServiceTypes) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "serviceTypes must not be empty")
		return
	}

	ranked, err := h.Matcher.MatchPartners(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": ranked})
}

// GetTopRated handles GET /api/partners/top?limit=N.
func (h *PartnerHandler) GetTopRated(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "limit must be between 1 and 100")
		return
	}

	partners, err := h.Repo.GetTopRated(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

// GetPartnerByID handles GET /api/partners/:id.
func (h *PartnerHandler) GetPartnerByID(c *gin.Context) {
	partner, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}
