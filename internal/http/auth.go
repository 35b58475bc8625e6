package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Clark-Hu/game-reviews/internal/repository"
)

const (
	msgInvalidLogin     = "Invalid username or password"
	msgLoginFailed      = "An error occurred while signing in. Please try again."
	msgRequiredFields   = "Username and password are required."
	msgUsernameTaken    = "Username already exists. Please choose a different username."
	msgRegistrationFail = "An error occurred while creating the account. Please try again."
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, viewHome, authPage{})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, viewRegister, authPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.render(w, http.StatusBadRequest, viewHome, authPage{Error: msgInvalidLogin})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	userID, err := s.repo.Users.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			s.render(w, http.StatusOK, viewHome, authPage{Error: msgInvalidLogin})
			return
		}
		s.logger.Error("login failed", "username", username, "error", err)
		s.render(w, http.StatusInternalServerError, viewHome, authPage{Error: msgLoginFailed})
		return
	}

	if err := s.identity.SignIn(w, userID); err != nil {
		s.logger.Error("issue identity", "user_id", userID, "error", err)
		s.render(w, http.StatusInternalServerError, viewHome, authPage{Error: msgLoginFailed})
		return
	}
	http.Redirect(w, r, "/search", http.StatusFound)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.render(w, http.StatusBadRequest, viewRegister, authPage{Error: msgRequiredFields})
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		s.render(w, http.StatusOK, viewRegister, authPage{Error: msgRequiredFields})
		return
	}

	ctx := r.Context()
	exists, err := s.repo.Users.Exists(ctx, username)
	if err != nil {
		s.logger.Error("check username", "username", username, "error", err)
		s.render(w, http.StatusInternalServerError, viewRegister, authPage{Error: msgRegistrationFail})
		return
	}
	if exists {
		s.render(w, http.StatusOK, viewRegister, authPage{Error: msgUsernameTaken})
		return
	}

	// The insert is authoritative; the probe above only spares a bcrypt round.
	userID, err := s.repo.Users.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			s.render(w, http.StatusOK, viewRegister, authPage{Error: msgUsernameTaken})
			return
		}
		s.logger.Error("create user", "username", username, "error", err)
		s.render(w, http.StatusInternalServerError, viewRegister, authPage{Error: msgRegistrationFail})
		return
	}

	if err := s.identity.SignIn(w, userID); err != nil {
		s.logger.Error("issue identity", "user_id", userID, "error", err)
		s.render(w, http.StatusInternalServerError, viewRegister, authPage{Error: msgRegistrationFail})
		return
	}
	s.logger.Info("user registered", "user_id", userID)
	http.Redirect(w, r, "/search", http.StatusFound)
}

func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	s.identity.SignInGuest(w)
	http.Redirect(w, r, "/search", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.identity.SignOut(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
