package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chrisostomemataba/Kemomovies/internal/analytics"
	"github.com/chrisostomemataba/Kemomovies/internal/cache"
	"github.com/chrisostomemataba/Kemomovies/internal/config"
	"github.com/chrisostomemataba/Kemomovies/internal/database"
	"github.com/chrisostomemataba/Kemomovies/internal/logging"
	"github.com/chrisostomemataba/Kemomovies/internal/middleware"
	"github.com/chrisostomemataba/Kemomovies/internal/streaming"
	"github.com/chrisostomemataba/Kemomovies/internal/telemetry"
	"github.com/chrisostomemataba/Kemomovies/internal/tracing"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

type API struct {
	streams   *streaming.Service
	analytics *analytics.Service
	queue     *telemetry.Queue
	db        *database.DB
	cache     *cache.Cache
	cfg       *config.Config
	logger    *logging.Logger
}

func (api *API) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	status := "healthy"
	checks := gin.H{}

	if err := api.db.Health(ctx); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if err := api.cache.Ping(ctx); err != nil {
		status = "degraded"
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "checks": checks})
}

func movieIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return 0, false
	}
	return id, true
}

// getStreamSources returns the playable sources for a movie, presigned and
// ordered as stored.
func (api *API) getStreamSources(c *gin.Context) {
	movieID, ok := movieIDParam(c, "id")
	if !ok {
		return
	}

	span, ctx := tracing.StartSpan(c.Request.Context(), "api.get_stream_sources")
	defer tracing.FinishSpan(span)
	tracing.TagMovie(span, movieID)

	sources, err := api.streams.GetStreamSources(ctx, movieID)
	if err != nil {
		tracing.LogError(span, err)
		api.logger.ErrorWithErr("Failed to resolve stream sources", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve stream sources"})
		return
	}

	if len(sources) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No streams available for this movie"})
		return
	}

	c.JSON(http.StatusOK, sources)
}

func (api *API) getSubtitles(c *gin.Context) {
	movieID, ok := movieIDParam(c, "id")
	if !ok {
		return
	}

	subtitles, err := api.streams.GetSubtitles(c.Request.Context(), movieID)
	if err != nil {
		api.logger.ErrorWithErr("Failed to fetch subtitles", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subtitles"})
		return
	}

	if subtitles == nil {
		subtitles = []models.Subtitle{}
	}
	c.JSON(http.StatusOK, subtitles)
}

// getResumePosition returns the stored playback offset for the authenticated
// user. Unknown pairs return position zero rather than 404 so clients can
// treat the response uniformly.
func (api *API) getResumePosition(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieID")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)
	if userID != c.Param("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot read another user's watch state"})
		return
	}

	position, err := api.streams.GetResumePosition(c.Request.Context(), userID, movieID)
	if err != nil {
		// Degrade to zero: a failed lookup should never block playback.
		api.logger.ErrorWithErr("Resume position lookup failed", err)
		position = 0
	}

	c.JSON(http.StatusOK, gin.H{"position": position})
}

func (api *API) saveProgress(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	if userID != c.Param("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot write another user's watch state"})
		return
	}

	var progress models.WatchProgress
	if err := c.ShouldBindJSON(&progress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid progress payload"})
		return
	}
	if progress.MovieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return
	}
	progress.UserID = userID

	if err := api.streams.SaveProgress(c.Request.Context(), &progress); err != nil {
		api.logger.ErrorWithErr("Failed to save watch progress", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save progress"})
		return
	}

	c.Status(http.StatusNoContent)
}

// submitSessionReport enqueues an end-of-session analytics report. The
// report is persisted asynchronously by the worker, so the handler returns
// as soon as the broker accepts it.
func (api *API) submitSessionReport(c *gin.Context) {
	var report models.PlayerAnalytics
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report payload"})
		return
	}
	if report.SessionID == "" || report.MovieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report requires session_id and movie_id"})
		return
	}

	// An authenticated caller owns the report regardless of the payload.
	if userID, ok := middleware.GetUserID(c); ok {
		report.UserID = userID
	}

	if err := api.queue.PublishReport(c.Request.Context(), &report); err != nil {
		api.logger.ErrorWithErr("Failed to publish session report", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept report"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"session_id": report.SessionID})
}

func (api *API) getSessionReport(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return
	}

	report, err := api.analytics.GetSessionReport(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (api *API) getMovieAnalytics(c *gin.Context) {
	movieID, ok := movieIDParam(c, "id")
	if !ok {
		return
	}

	aggregate, err := api.analytics.GetMovieAnalytics(c.Request.Context(), movieID)
	if err != nil {
		api.logger.ErrorWithErr("Failed to aggregate movie analytics", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate analytics"})
		return
	}

	c.JSON(http.StatusOK, aggregate)
}
