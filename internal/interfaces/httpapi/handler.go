package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/pinball-leaderboard/internal/config"
	"github.com/riskibarqy/pinball-leaderboard/internal/domain/leaderboard"
	"github.com/riskibarqy/pinball-leaderboard/internal/platform/logging"
	"github.com/riskibarqy/pinball-leaderboard/internal/usecase"
)

type Handler struct {
	leaderboardService *usecase.LeaderboardService
	healthService      *usecase.HealthService
	display            config.Display
	logger             *logging.Logger
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	healthService *usecase.HealthService,
	display config.Display,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService: leaderboardService,
		healthService:      healthService,
		display:            display,
		logger:             logger,
	}
}

func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.Config")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, h.display)
}

func (h *Handler) Top10(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.Top10")
	defer span.End()

	result := h.leaderboardService.Top10(ctx)
	h.logDegraded(ctx, r, result.Err)
	writeJSON(ctx, w, http.StatusOK, toTopStandingDTOs(result.OrDefault(nil)))
}

func (h *Handler) FullLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.FullLeaderboard")
	defer span.End()

	result := h.leaderboardService.FullLeaderboard(ctx)
	h.logDegraded(ctx, r, result.Err)
	writeJSON(ctx, w, http.StatusOK, toStandingDTOs(result.OrDefault(nil)))
}

func (h *Handler) GameChampions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.GameChampions")
	defer span.End()

	result := h.leaderboardService.GameChampions(ctx)
	h.logDegraded(ctx, r, result.Err)
	writeJSON(ctx, w, http.StatusOK, toChampionDTOs(result.OrDefault(nil)))
}

func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.RecentActivity")
	defer span.End()

	result := h.leaderboardService.RecentActivity(ctx)
	h.logDegraded(ctx, r, result.Err)
	writeJSON(ctx, w, http.StatusOK, toActivityDTOs(result.OrDefault(nil)))
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.Statistics")
	defer span.End()

	result := h.leaderboardService.Statistics(ctx)
	h.logDegraded(ctx, r, result.Err)
	writeJSON(ctx, w, http.StatusOK, toStatisticsDTO(result.OrDefault(leaderboard.EmptyStatistics())))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.Health")
	defer span.End()

	if err := h.healthService.Check(ctx); err != nil {
		markFailed(span, usecase.KindOf(err).String(), err)
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, healthDTO{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, healthDTO{Status: "healthy", Database: "connected"})
}

func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.Diagnostics")
	defer span.End()

	report, err := h.healthService.Diagnostics(ctx)
	if err != nil {
		markFailed(span, usecase.KindOf(err).String(), err)
		h.logger.ErrorContext(ctx, "diagnostics failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, toDiagnosticsDTO(report))
		return
	}

	writeJSON(ctx, w, http.StatusOK, toDiagnosticsDTO(report))
}

// NotFound answers unknown /api/ paths with the JSON error envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "httpapi.Handler.NotFound")
	defer span.End()

	writeError(ctx, w, errNotFound(r.URL.Path))
}

// logDegraded records a swallowed failure; data routes still answer 200.
func (h *Handler) logDegraded(ctx context.Context, r *http.Request, err error) {
	if err == nil {
		return
	}
	kind := usecase.KindOf(err).String()
	markDegraded(trace.SpanFromContext(ctx), kind, err)
	if isClientGone(err) {
		h.logger.DebugContext(ctx, "request canceled", "route", r.URL.Path, "error", err)
		return
	}
	h.logger.WarnContext(ctx, "serving empty payload",
		"route", r.URL.Path,
		"kind", kind,
		"error", err,
	)
}
