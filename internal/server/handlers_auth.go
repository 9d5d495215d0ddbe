package server

import (
	"net/http"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/security"
	"github.com/fichasrpg/fichas/pkg/logger"
)

const sessionCookie = "sessao"

// requireAuth gates a handler behind the optional login surface. With
// AUTH_ENABLED off (the default) it is a straight pass-through and the
// sheet manager behaves as a single-user tool.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.AuthEnabled {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if _, err := security.ValidateSessionToken(cookie.Value, s.cfg.JWTSecret); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.AuthEnabled {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, "login.html", authView{})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.AuthEnabled {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	email := security.SanitizeAccountField(r.FormValue("email"))
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil || !user.CheckPassword(r.FormValue("senha")) {
		s.render(w, "login.html", authView{Error: "E-mail ou senha inválidos."})
		return
	}

	token, err := security.GenerateSessionToken(user.ID, user.Email, s.cfg.JWTSecret)
	if err != nil {
		s.renderServerError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(security.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("User logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.AuthEnabled {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.render(w, "register.html", authView{})
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.AuthEnabled {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	email := security.SanitizeAccountField(r.FormValue("email"))
	name := security.SanitizeAccountField(r.FormValue("nome"))
	password := r.FormValue("senha")

	if name == "" || !security.ValidEmail(email) || len(password) < 6 {
		s.render(w, "register.html", authView{Error: "Preencha nome, e-mail válido e senha com ao menos 6 caracteres."})
		return
	}

	user := &models.User{Email: email, Name: name}
	if err := user.SetPassword(password); err != nil {
		s.renderServerError(w, err)
		return
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		s.render(w, "register.html", authView{Error: "Não foi possível criar a conta. O e-mail já está em uso?"})
		return
	}

	logger.Info("User registered", "user_id", user.ID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
