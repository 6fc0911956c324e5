package handler

import (
	"net/http"
	"strings"

	"orderdesk/internal/service"
)

func RegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, "register.html", page{Title: "Register"})
	}
}

func RegisterHandler(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid form")
			return
		}

		name := strings.TrimSpace(r.PostFormValue("name"))
		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if name == "" || email == "" || password == "" {
			renderError(w, r, http.StatusBadRequest, "name, email and password are required")
			return
		}

		if _, err := userSvc.Register(r.Context(), name, email, password); err != nil {
			writeError(w, r, err)
			return
		}

		redirect(w, r, "/")
	}
}
