package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/fichasrpg/fichas/internal/config"
	"github.com/fichasrpg/fichas/internal/middleware"
	"github.com/fichasrpg/fichas/internal/repositories"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/pkg/errors"
	"github.com/fichasrpg/fichas/pkg/logger"
	"github.com/fichasrpg/fichas/web"
)

type Server struct {
	cfg           *config.Config
	pages         map[string]*template.Template
	templateRepo  *repositories.TemplateRepository
	characterRepo *repositories.CharacterRepository
	userRepo      *repositories.UserRepository
	sheets        *services.SheetService
	limiter       *middleware.RateLimiter

	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	templateRepo *repositories.TemplateRepository,
	characterRepo *repositories.CharacterRepository,
	userRepo *repositories.UserRepository,
	sheets *services.SheetService,
) *Server {
	return &Server{
		cfg:           cfg,
		pages:         parseTemplates(),
		templateRepo:  templateRepo,
		characterRepo: characterRepo,
		userRepo:      userRepo,
		sheets:        sheets,
		limiter:       middleware.NewRateLimiter(cfg.RateLimitPerIP, time.Minute),
	}
}

// Routes wires every handler into a mux, with the login gate in front of
// the sheet surface and the rate limiter in front of everything.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Static files (the embed FS roots at web/, so /static/x maps directly)
	mux.Handle("GET /static/", http.FileServerFS(web.Assets))

	// Character sheets
	mux.HandleFunc("GET /{$}", s.requireAuth(s.handleHome))
	mux.HandleFunc("GET /novo", s.requireAuth(s.handleNewCharacterForm))
	mux.HandleFunc("POST /novo", s.requireAuth(s.handleNewCharacterSubmit))
	mux.HandleFunc("GET /ficha/{id}", s.requireAuth(s.handleLegacySheet))
	mux.HandleFunc("GET /editar/{id}", s.requireAuth(s.handleEditCharacterForm))
	mux.HandleFunc("POST /editar/{id}", s.requireAuth(s.handleEditCharacterSubmit))
	mux.HandleFunc("GET /deletar/{id}", s.requireAuth(s.handleDeleteCharacter))
	mux.HandleFunc("GET /exportar/{id}", s.requireAuth(s.handleExportCharacter))

	// Template configuration
	mux.HandleFunc("GET /configurar_modelos", s.requireAuth(s.handleConfigureTemplates))
	mux.HandleFunc("POST /criar_modelo", s.requireAuth(s.handleCreateTemplate))
	mux.HandleFunc("POST /deletar_modelo", s.requireAuth(s.handleDeleteTemplate))
	mux.HandleFunc("POST /adicionar_campo", s.requireAuth(s.handleAddField))
	mux.HandleFunc("POST /deletar_campo", s.requireAuth(s.handleDeleteField))

	// Optional login gate
	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLoginSubmit)
	mux.HandleFunc("GET /register", s.handleRegisterForm)
	mux.HandleFunc("POST /register", s.handleRegisterSubmit)
	mux.HandleFunc("GET /logout", s.handleLogout)

	return s.limiter.Handler(mux)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.cfg.AppPort),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("HTTP server listening", "port", s.cfg.AppPort)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// fail maps an application error to the response policy: validation and
// lookup misses bounce back to the originating screen without destroying
// anything, everything else is a generic server-error page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, backTo string) {
	switch errors.Code(err) {
	case errors.ErrCodeValidation, errors.ErrCodeNotFound:
		logger.Warn("Request rejected", "path", r.URL.Path, "error", err)
		http.Redirect(w, r, backTo, http.StatusSeeOther)
	default:
		s.renderServerError(w, err)
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrCodeNotFound, "invalid id")
	}
	return uint(id), nil
}
