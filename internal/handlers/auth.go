package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"franchiseops/internal/costing"
	applog "franchiseops/internal/log"
	"franchiseops/internal/matching"
	"franchiseops/internal/metrics"
	"franchiseops/internal/store"
	"franchiseops/internal/variance"
	"franchiseops/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionLoginMessageKey  = "auth:message"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
	sessionTenantIDKey      = "auth:tenant:id"
)

var (
	sessionManager  *scs.SessionManager
	database        *gorm.DB
	repository      *store.Store
	costService     *costing.Service
	varianceService *variance.Service
)

// Configure installs the shared dependencies used by the HTTP handlers. A nil
// database leaves every data endpoint unavailable.
func Configure(sm *scs.SessionManager, db *gorm.DB, matcher *matching.Matcher, recorder *metrics.Recorder) {
	sessionManager = sm
	database = db
	if db == nil {
		repository = nil
		costService = nil
		varianceService = nil
		return
	}
	repository = store.New(db)
	costService = costing.NewService(repository, matcher, recorder)
	varianceService = variance.NewService(repository, recorder)
}

func findUserByEmail(r *http.Request, email string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	user := &models.User{}
	err := database.WithContext(r.Context()).Where("lower(email) = ?", strings.ToLower(email)).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// authenticate verifies the provided credentials and populates the session if successful.
func authenticate(w http.ResponseWriter, r *http.Request, email, password string) bool {
	if sessionManager == nil {
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return false
	}

	user, err := findUserByEmail(r, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sessionManager.Put(r.Context(), sessionLoginMessageKey, loginInvalidMessage)
		} else {
			applog.Error(r.Context(), "failed to load user during login", "error", err)
			sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		}
		return false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginInvalidMessage)
		return false
	}
	if user.TenantID == 0 {
		applog.Warn(r.Context(), "sign-in refused for user without tenant", "user", user.ID)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginNoFranchiseMessage)
		return false
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		return false
	}

	return true
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(user.ID))
	sessionManager.Put(r.Context(), sessionTenantIDKey, int(user.TenantID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, user.Email)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Name)
	return nil
}

// RequireAuthentication ensures the user has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, withRequestContext(r))
	})
}

// RequireAPIAuthentication answers 401 JSON instead of redirecting.
func RequireAPIAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, withRequestContext(r))
	})
}

func withRequestContext(r *http.Request) *http.Request {
	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = applog.WithRequestID(ctx, id)
	}
	if tenantID, ok := currentTenantID(r); ok {
		ctx = applog.WithTenant(ctx, tenantID)
	}
	return r.WithContext(ctx)
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/app")
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentTenantID(r *http.Request) (uint, bool) {
	if !ActiveSession(r) {
		return 0, false
	}
	tenantID := sessionManager.GetInt(r.Context(), sessionTenantIDKey)
	if tenantID <= 0 {
		return 0, false
	}
	return uint(tenantID), true
}
