package handler

import (
	"net/http"

	"orderdesk/internal/mw"
)

func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, "login.html", page{Title: "Sign in"})
	}
}

func PersonalAccountPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, _ := mw.UserEmail(r.Context())
		render(w, "personal_account.html", page{Title: "Personal account", Email: email})
	}
}

var accountChoices = map[string]string{
	"my_orders":        "/pending_orders",
	"processed_orders": "/processed_orders",
	"create_order":     "/create_order",
}

// PersonalAccountChoiceHandler redirects to the section picked on the
// account page.
func PersonalAccountChoiceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(w, r, http.StatusBadRequest, "invalid form")
			return
		}

		target, ok := accountChoices[r.PostFormValue("choice")]
		if !ok {
			renderError(w, r, http.StatusBadRequest, "unknown choice")
			return
		}
		redirect(w, r, target)
	}
}
