package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "franchiseops/internal/log"
	"franchiseops/internal/views/pages"
)

const (
	loginFailedMessage      = "We were unable to sign you in. Please try again."
	loginInvalidMessage     = "Invalid email or password. Please try again."
	loginMissingMessage     = "Email and password are required."
	loginNoFranchiseMessage = "Your account is not assigned to a franchise yet. Ask head office to add you."
)

var errMissingCredentials = errors.New("email and password are required")

type loginRequest struct {
	Email    string
	Password string
}

func parseLoginRequest(r *http.Request) (loginRequest, error) {
	if err := r.ParseForm(); err != nil {
		return loginRequest{}, err
	}
	req := loginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if req.Email == "" || req.Password == "" {
		return req, errMissingCredentials
	}
	return req, nil
}

// Login shows the sign-in form (GET) and signs store managers in (POST).
// A successful sign-in scopes the session to the user's franchise tenant.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		showLogin(w, r)
	case http.MethodPost:
		submitLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func showLogin(w http.ResponseWriter, r *http.Request) {
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	message := ""
	if sessionManager != nil {
		message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
	}
	renderComponent(w, r, loginView(r, message, ""))
}

func submitLogin(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}

	req, err := parseLoginRequest(r)
	switch {
	case errors.Is(err, errMissingCredentials):
		renderComponent(w, r, loginView(r, loginMissingMessage, req.Email))
		return
	case err != nil:
		applog.Debug(r.Context(), "failed to parse login form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	if !authenticate(w, r, req.Email, req.Password) {
		message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		if message == "" {
			message = loginFailedMessage
		}
		renderComponent(w, r, loginView(r, message, req.Email))
		return
	}

	tenantID, _ := currentTenantID(r)
	applog.Info(applog.WithTenant(r.Context(), tenantID), "manager signed in", "email", strings.ToLower(req.Email))
	redirectToApp(w, r)
}

func loginView(r *http.Request, message, email string) templ.Component {
	if isHTMX(r) {
		return pages.LoginPartial(message, email)
	}
	return pages.Login(message, email)
}
