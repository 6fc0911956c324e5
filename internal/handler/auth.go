package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"orderdesk/internal/mw"
	"orderdesk/internal/service"
)

func LoginHandler(userSvc *service.UserService, sessions *mw.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid form")
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			renderError(w, r, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := userSvc.Authenticate(r.Context(), email, password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := sessions.SetCookie(w, user.Email); err != nil {
			slog.Error("session issue failed", "error", err)
			renderError(w, r, http.StatusInternalServerError, "internal error")
			return
		}

		redirect(w, r, "/personal_account")
	}
}

func LogoutHandler(sessions *mw.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.ClearCookie(w)
		redirect(w, r, "/")
	}
}
