package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"mcadmin/internal/actions"
	"mcadmin/internal/config"
	"mcadmin/internal/jobs"
	"mcadmin/internal/logtail"
	"mcadmin/internal/metrics"
	"mcadmin/internal/middleware"
	"mcadmin/internal/status"
	"mcadmin/internal/whitelist"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Settings   *config.Settings
	Store      *jobs.Store
	Dispatcher *jobs.Dispatcher
	Aggregator *status.Aggregator
	Tailer     logtail.Tailer
	Follower   *logtail.Follower
	Whitelist  *whitelist.Repository
}

// NewRouter wires the full route table. Everything under /api requires the
// session; mutations additionally carry the CSRF header.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.CORS(deps.Settings.CORSAllowedOrigins))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	authHandler := NewAuthHandler(deps.Settings)
	router.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	session := middleware.SessionMiddleware([]byte(deps.Settings.SessionSecret))
	router.Handle("/logout", session(http.HandlerFunc(authHandler.Logout))).Methods("POST", "OPTIONS")

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(session)

	statusHandler := NewStatusHandler(deps.Aggregator)
	apiRouter.HandleFunc("/status", statusHandler.GetStatus).Methods("GET", "OPTIONS")

	logsHandler := NewLogsHandler(deps.Tailer, deps.Follower)
	apiRouter.HandleFunc("/logs", logsHandler.GetLogs).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/logs/follow", logsHandler.FollowLogs).Methods("GET")

	whitelistHandler := NewWhitelistHandler(deps.Whitelist)
	apiRouter.HandleFunc("/whitelist", whitelistHandler.GetWhitelist).Methods("GET", "OPTIONS")

	jobsHandler := NewJobsHandler(deps.Store)
	apiRouter.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET", "OPTIONS")

	actionsHandler := NewActionsHandler(deps.Dispatcher)
	apiRouter.HandleFunc("/actions/start", actionsHandler.ServerAction(actions.ServerStart)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/actions/stop", actionsHandler.ServerAction(actions.ServerStop)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/actions/restart", actionsHandler.ServerAction(actions.ServerRestart)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/actions/backup", actionsHandler.ServerAction(actions.ServerBackup)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/players/add", actionsHandler.PlayerAction(actions.PlayerAdd)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/players/remove", actionsHandler.PlayerAction(actions.PlayerRemove)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/players/op", actionsHandler.PlayerAction(actions.PlayerOp)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/players/deop", actionsHandler.PlayerAction(actions.PlayerDeop)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/onboard", actionsHandler.PlayerAction(actions.PlayerOnboard)).Methods("POST", "OPTIONS")

	return router
}
