package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/portfolio/internal/auth"
	"github.com/garnizeh/portfolio/internal/config"
	"github.com/garnizeh/portfolio/internal/db"
	"github.com/garnizeh/portfolio/internal/render"
	"github.com/garnizeh/portfolio/internal/repository/sqlite"
	"github.com/garnizeh/portfolio/internal/section"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Store    repository.DocumentStore
	Auth     auth.Client
	Renderer *render.Renderer
	Logger   *slog.Logger
}

// SetupRoutes builds the router on top of an open database.
func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB) (*mux.Router, error) {
	r, err := render.New()
	if err != nil {
		return nil, err
	}

	repo := sqlite.New(database, logger)
	provider := auth.NewProvider(repo, auth.Options{
		Secret:              cfg.JWTSecret,
		TokenDuration:       cfg.TokenDuration,
		RevealAccountErrors: cfg.Auth.RevealAccountErrors,
		Logger:              logger,
	})

	// the registration call reports the startup state, not an event
	registered := false
	provider.Subscribe(func(u *auth.User) {
		if !registered {
			registered = true
			return
		}
		auditAuth(u)
	})

	return NewRouter(cfg, version, buildTime, Deps{Store: repo, Auth: provider, Renderer: r, Logger: logger}), nil
}

// auditAuth records every sign-in and sign-out of the process.
func auditAuth(u *auth.User) {
	if u == nil {
		logger.Info("auth audit", slog.String("event", "signed_out"))
		return
	}
	logger.Info("auth audit", slog.String("event", "signed_in"), slog.String("email", u.Email), slog.Int64("operator_id", u.ID))
}

func NewRouter(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	public := section.NewSet(deps.Store, deps.Renderer, section.Public, deps.Logger)
	admin := section.NewSet(deps.Store, deps.Renderer, section.Admin, deps.Logger)

	// Create handlers
	systemHandler := NewSystemHandler(deps.Store)
	authHandler := NewAuthHandler(deps.Auth)
	loginHandler := NewLoginHandler(deps.Auth, deps.Renderer, cfg.Site.Title, cfg.Session.CookieName, cfg.Session.Secure)
	siteHandler := NewSiteHandler(public, deps.Renderer, cfg.Site.Title, cfg.Site.Owner)
	dashboardHandler := NewDashboardHandler(admin, deps.Renderer, cfg.Site.Title)
	collectionsHandler := NewCollectionsHandler(deps.Store)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.PathPrefix("/static/").Handler(staticHandler()).Methods("GET")

	r.HandleFunc("/", siteHandler.Home).Methods("GET")
	r.HandleFunc("/sections/{section}", siteHandler.Section).Methods("GET")

	r.HandleFunc("/login", loginHandler.Page).Methods("GET")
	r.HandleFunc("/login", loginHandler.Login).Methods("POST")
	r.HandleFunc("/logout", loginHandler.Logout).Methods("POST")

	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/collections/{collection}", collectionsHandler.List).Methods("GET")
	r.HandleFunc("/v1/collections/{collection}/{id}", collectionsHandler.Get).Methods("GET")

	// Dashboard, behind the session cookie
	gate := SessionGate(deps.Auth, cfg.Session.CookieName)
	r.Handle("/dashboard", gate(http.HandlerFunc(dashboardHandler.Page))).Methods("GET")

	adminR := r.PathPrefix("/admin").Subrouter()
	adminR.Use(gate)
	adminR.HandleFunc("/modal/close", dashboardHandler.CloseModal).Methods("GET")
	adminR.HandleFunc("/about/edit", dashboardHandler.AboutForm).Methods("GET")
	adminR.HandleFunc("/about", dashboardHandler.SaveAbout).Methods("POST")
	adminR.HandleFunc("/{section}", dashboardHandler.Region).Methods("GET")
	adminR.HandleFunc("/{section}", dashboardHandler.Create).Methods("POST")
	adminR.HandleFunc("/{section}/new", dashboardHandler.NewForm).Methods("GET")
	adminR.HandleFunc("/{section}/{id}/edit", dashboardHandler.EditForm).Methods("GET")
	adminR.HandleFunc("/{section}/{id}", dashboardHandler.Update).Methods("POST")
	adminR.HandleFunc("/{section}/{id}/delete", dashboardHandler.DeleteConfirm).Methods("GET")
	adminR.HandleFunc("/{section}/{id}/delete", dashboardHandler.Delete).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(BearerAuthMiddleware(deps.Auth))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Content endpoints
	apiV1.HandleFunc("/about", collectionsHandler.PutAbout).Methods("PUT")
	apiV1.HandleFunc("/collections/{collection}", collectionsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/collections/{collection}/{id}", collectionsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/collections/{collection}/{id}", collectionsHandler.Delete).Methods("DELETE")

	return r
}
