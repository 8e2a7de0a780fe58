package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/walidcherhane/star-buster-api/internal/errors"
	"github.com/walidcherhane/star-buster-api/internal/github"
	"github.com/walidcherhane/star-buster-api/internal/models"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error string `json:"error" example:"repository not found"`
}

type Handler struct {
	service  github.AnalysisService
	defaults models.AnalysisOptions
	logger   *logrus.Logger
}

func NewHandler(service github.AnalysisService, defaults models.AnalysisOptions, logger *logrus.Logger) *Handler {
	return &Handler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// AnalyzeRepository runs (or serves a cached) star analysis
// @Summary Analyze a repository's stargazers
// @Description Estimates whether a repository's star count is artificially inflated. Serves a cached result when an unexpired one satisfies the request.
// @Tags analysis
// @Accept json
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param deep query bool false "Enrich stargazer profiles for deep analysis" default(true)
// @Param max_stars query int false "Cap on collected stargazer records" default(5000)
// @Param max_users query int false "Cap on enriched profiles" default(200)
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analyze/{owner}/{repo} [get]
func (h *Handler) AnalyzeRepository(c *gin.Context) {
	owner := c.Param("owner")
	repo := c.Param("repo")

	opts := h.defaults

	if deep := c.Query("deep"); deep != "" {
		parsed, err := strconv.ParseBool(deep)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid deep parameter"})
			return
		}
		opts.Deep = parsed
	}

	maxStars, err := getIntQueryParam(c, "max_stars", opts.MaxStars)
	if err != nil || maxStars <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_stars parameter"})
		return
	}
	opts.MaxStars = maxStars

	maxUsers, err := getIntQueryParam(c, "max_users", opts.MaxUsers)
	if err != nil || maxUsers <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_users parameter"})
		return
	}
	opts.MaxUsers = maxUsers

	result, err := h.service.RunAnalysis(c.Request.Context(), owner+"/"+repo, opts)
	if err != nil {
		h.respondWithError(c, err, "Analysis failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAnalysis returns a stored analysis by id
// @Summary Get a stored analysis
// @Tags analysis
// @Produce json
// @Param id path int true "Analysis ID"
// @Success 200 {object} models.StoredAnalysis
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /analyses/{id} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid analysis id"})
		return
	}

	analysis, err := h.service.GetAnalysisByID(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, err, "Failed to get analysis")
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ListAnalyses returns recently stored analyses
// @Summary List recent analyses
// @Tags analysis
// @Produce json
// @Param limit query int false "Number of analyses to return" default(20)
// @Success 200 {array} models.StoredAnalysis
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analyses [get]
func (h *Handler) ListAnalyses(c *gin.Context) {
	limit, err := getIntQueryParam(c, "limit", 20)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit parameter"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	analyses, err := h.service.ListRecentAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.respondWithError(c, err, "Failed to list analyses")
		return
	}

	c.JSON(http.StatusOK, analyses)
}

// Health reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondWithError(c *gin.Context, err error, logMsg string) {
	h.logger.WithError(err).Error(logMsg)

	switch {
	case apperrors.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsExhaustedRetries(err), apperrors.IsRateLimited(err):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func getIntQueryParam(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
