package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	log "github.com/go-pkgz/lgr"

	"github.com/joestump/joe-tasks/internal/store"
)

const (
	cookieState        = "__auth_state"
	cookieCodeVerifier = "__auth_pkce"
	cookieRedirect     = "__auth_redirect"
)

// Handlers provides HTTP handlers for the OIDC authentication flow.
type Handlers struct {
	provider   *Provider
	sessions   *scs.SessionManager
	users      *store.UserStore
	adminEmail string
	secure     bool
}

// NewHandlers creates a new Handlers with the given dependencies.
// secure marks the short-lived pre-auth cookies as Secure.
func NewHandlers(p *Provider, sm *scs.SessionManager, us *store.UserStore, adminEmail string, secure bool) *Handlers {
	return &Handlers{provider: p, sessions: sm, users: us, adminEmail: adminEmail, secure: secure}
}

// Login initiates the OIDC authorization code flow with PKCE.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Store state and verifier in short-lived cookies
	h.setPreAuthCookie(w, cookieState, state)
	h.setPreAuthCookie(w, cookieCodeVerifier, verifier)

	// Preserve the redirect URL
	h.setPreAuthCookie(w, cookieRedirect, safeRedirect(r.URL.Query().Get("redirect")))

	http.Redirect(w, r, h.provider.AuthCodeURL(state, challenge), http.StatusFound)
}

// Callback handles the OIDC provider redirect after authentication.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	// Validate state
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	// Get PKCE verifier
	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	id, err := h.provider.Identify(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		log.Printf("[WARN] oidc login: %v", err)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Upsert(r.Context(), id.Issuer, id.Subject, id.Email, id.Name, h.adminEmail)
	if err != nil {
		log.Printf("[WARN] upsert user %s: %v", id.Email, err)
		http.Error(w, "user record error", http.StatusInternalServerError)
		return
	}
	// admin_email may be configured after the admin's first login
	if h.adminEmail != "" && user.Email == h.adminEmail && !user.IsAdmin() {
		if user, err = h.users.UpdateRole(r.Context(), user.ID, "admin"); err != nil {
			log.Printf("[WARN] promote %s: %v", id.Email, err)
			http.Error(w, "user record error", http.StatusInternalServerError)
			return
		}
	}

	// Create session
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), SessionUserIDKey, user.ID)
	h.sessions.Put(r.Context(), SessionRoleKey, user.Role)
	log.Printf("[INFO] login %s (%s)", user.Email, user.Role)

	// Clear pre-auth cookies
	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)

	// Redirect
	redirect := "/"
	if redirectCookie, err := r.Cookie(cookieRedirect); err == nil {
		redirect = safeRedirect(redirectCookie.Value)
	}
	clearCookie(w, cookieRedirect)

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout destroys the session and redirects to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

func (h *Handlers) setPreAuthCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300, // 5 minutes
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
