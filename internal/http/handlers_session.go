package http

import (
	"errors"
	"net/http"

	"dompet/internal/app"
	applog "dompet/internal/log"
	"dompet/internal/session"
)

const methodPassword = "password"

func (s *Server) loginPage(notice string, isError bool) pageData {
	data := newPage(app.ViewLogin)
	data.Notice = notice
	data.NoticeError = isError
	data.Hint = session.NoticeLoginHint
	return data
}

// handleLogin shows the login and signup cards, or logs in with a username
// and password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if s.app.Session().LoggedIn() {
			Redirect("/main").Write(w)
			return
		}
		s.render(w, r, http.StatusOK, "login.html", s.loginPage("", false))
	case http.MethodPost:
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		username := r.PostForm.Get(fieldUsername)
		password := r.PostForm.Get(fieldPassword)
		if err := s.app.Session().Login(username, password); err != nil {
			s.render(w, r, http.StatusUnprocessableEntity, "login.html", s.loginPage(session.Notice(err), true))
			return
		}
		applog.NewStructuredLogger(applog.FromContext(r.Context())).LogSession(r.Context(), applog.OpLogin, methodPassword)
		Redirect("/main").Write(w)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleSignup only acknowledges the name; no account is stored.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	notice, err := s.app.Session().Signup(r.PostForm.Get(fieldUsername))
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", s.loginPage(session.Notice(err), true))
		return
	}
	s.render(w, r, http.StatusOK, "login.html", s.loginPage(notice, false))
}

// handleGoogleLogin accepts the identity token posted by the sign-in button.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)
	err := s.app.Session().LoginWithToken(ctx, r.PostForm.Get(fieldCredential))
	switch {
	case err == nil:
		applog.NewStructuredLogger(logger).LogSession(ctx, applog.OpLogin, session.MethodGoogle)
		Redirect("/main").Write(w)
	case errors.Is(err, session.ErrTokenDecode):
		logger.WarnContext(ctx, "Identity token rejected", applog.FieldError, err)
		s.render(w, r, http.StatusUnprocessableEntity, "login.html", s.loginPage(session.Notice(err), true))
	default:
		logger.ErrorContext(ctx, "Google login failed",
			applog.FieldComponent, applog.ComponentSession,
			applog.FieldError, err)
		s.render(w, r, http.StatusInternalServerError, "login.html", s.loginPage(session.NoticeTokenDecode, true))
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	method := s.app.Session().Method()
	if err := s.app.Session().Logout(ctx); err != nil {
		// the in-process flag is already cleared
		logger.ErrorContext(ctx, "Failed to clear session markers", applog.FieldError, err)
	}
	applog.NewStructuredLogger(logger).LogSession(ctx, applog.OpLogout, method)
	Redirect("/login").Write(w)
}
