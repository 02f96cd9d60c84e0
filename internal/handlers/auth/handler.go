package auth

import (
	"context"
	"net/http"

	"github.com/capstonehub/backend/internal/models"
)

// AuthService is the part of services.AuthService the handlers use.
type AuthService interface {
	RegisterStudent(ctx context.Context, reg *models.StudentRegistration) (*models.Student, error)
	RegisterClient(ctx context.Context, reg *models.ClientRegistration) (*models.Client, error)
	Login(ctx context.Context, req *models.LoginRequest, ip string) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, actor *models.Actor) (interface{}, error)
	ChangePassword(ctx context.Context, actor *models.Actor, req *models.PasswordChangeRequest) error
	ExpiryMinutes() int
}

// MFAService is the part of services.MFAService the handlers use.
type MFAService interface {
	Setup(ctx context.Context, actor *models.Actor) (*models.MFASetupResponse, error)
	Enable(ctx context.Context, actor *models.Actor, code string) error
	Disable(ctx context.Context, actor *models.Actor, code string) error
}

// Handler handles authentication-related requests
type Handler struct {
	auth          AuthService
	mfa           MFAService
	secureCookies bool
}

// NewHandler creates a new auth handler. secureCookies marks the session
// cookie Secure and should be set whenever the API is served over HTTPS.
func NewHandler(auth AuthService, mfa MFAService, secureCookies bool) *Handler {
	return &Handler{
		auth:          auth,
		mfa:           mfa,
		secureCookies: secureCookies,
	}
}

// messageResponse is the body of endpoints that only confirm an action.
type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

func (h *Handler) clearAuthCookie(w http.ResponseWriter) {
	h.setAuthCookie(w, "", -1)
}
