package httpapi

import (
	"net/http"
	"strings"
)

func registerAPIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/config", handler.Config)
	mux.HandleFunc("GET /api/leaderboard/top10", handler.Top10)
	mux.HandleFunc("GET /api/leaderboard/full", handler.FullLeaderboard)
	mux.HandleFunc("GET /api/game-champions", handler.GameChampions)
	mux.HandleFunc("GET /api/recent-activity", handler.RecentActivity)
	mux.HandleFunc("GET /api/statistics", handler.Statistics)
	mux.HandleFunc("GET /api/health", handler.Health)
	mux.HandleFunc("GET /api/diagnostics", handler.Diagnostics)
	mux.HandleFunc("/api/", handler.NotFound)
}

// registerStaticRoutes serves the kiosk front end at / and under /static/.
func registerStaticRoutes(mux *http.ServeMux, staticDir string) {
	if strings.TrimSpace(staticDir) == "" {
		return
	}

	files := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static", files))
	mux.Handle("/", files)
}
