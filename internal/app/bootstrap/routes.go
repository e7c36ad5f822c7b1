// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	accountsfeature "github.com/taskhive/taskhive/internal/app/features/accounts"
	commentsfeature "github.com/taskhive/taskhive/internal/app/features/comments"
	filesfeature "github.com/taskhive/taskhive/internal/app/features/files"
	healthfeature "github.com/taskhive/taskhive/internal/app/features/health"
	notificationsfeature "github.com/taskhive/taskhive/internal/app/features/notifications"
	projectsfeature "github.com/taskhive/taskhive/internal/app/features/projects"
	tasksfeature "github.com/taskhive/taskhive/internal/app/features/tasks"
	teamsfeature "github.com/taskhive/taskhive/internal/app/features/teams"
	timeentriesfeature "github.com/taskhive/taskhive/internal/app/features/timeentries"
	usersfeature "github.com/taskhive/taskhive/internal/app/features/users"
	activitystore "github.com/taskhive/taskhive/internal/app/store/activitylogs"
	notificationstore "github.com/taskhive/taskhive/internal/app/store/notifications"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/fanout"
	"github.com/taskhive/taskhive/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TaskHive builds the JWT auth manager, the login rate limiter, and the
// activity/notification fan-out recorder, then mounts the JSON API under
// /api plus the health check and the static upload file server.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	authMgr, err := auth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("auth manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data is fetched on every request, so role changes and
	// deactivations take effect immediately even for live tokens.
	authMgr.SetUserFetcher(userstore.NewFetcher(db))

	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	recorder := fanout.New(
		activitystore.New(db),
		notificationstore.New(db),
		logger,
		fanout.Config{Mode: appCfg.ActivityLog},
	)

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token to a Principal
	// in context. Anonymous requests continue; route groups decide what
	// requires sign-in.
	r.Use(authMgr.LoadUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Stored attachments, served read-only
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadDir))

	// Authentication and profile
	accountsHandler := accountsfeature.NewHandler(db, logger, authMgr, limiter)
	r.Mount("/api/auth", accountsfeature.Routes(accountsHandler))

	// Admin user management
	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler))

	// Teams
	teamsHandler := teamsfeature.NewHandler(db, logger, recorder)
	r.Mount("/api/teams", teamsfeature.Routes(teamsHandler))

	// Projects
	projectsHandler := projectsfeature.NewHandler(db, logger, recorder)
	r.Mount("/api/projects", projectsfeature.Routes(projectsHandler))

	// Tasks
	tasksHandler := tasksfeature.NewHandler(db, logger, recorder)
	r.Mount("/api/tasks", tasksfeature.Routes(tasksHandler))

	// Comments
	commentsHandler := commentsfeature.NewHandler(db, logger, recorder)
	r.Mount("/api/comments", commentsfeature.Routes(commentsHandler))

	// File attachments
	filesHandler := filesfeature.NewHandler(db, logger, recorder, appCfg.UploadDir)
	r.Mount("/api/files", filesfeature.Routes(filesHandler))

	// Notifications
	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(notificationsHandler))

	// Time tracking
	timeentriesHandler := timeentriesfeature.NewHandler(db, logger, recorder)
	r.Mount("/api/timeentries", timeentriesfeature.Routes(timeentriesHandler))

	return r, nil
}
