package auth

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/capstonehub/backend/pkg/jwt"
)

/*
 * RegisterStudentHandler creates a student account.
 *
 * Responses:
 *   - 201: Student created
 *   - 400: Invalid payload or weak password
 *   - 403: Registration closed
 *   - 409: Email or student number already registered
 */
func (h *Handler) RegisterStudentHandler(w http.ResponseWriter, r *http.Request) {
	var reg models.StudentRegistration
	if err := handlers.DecodeJSON(w, r, &reg); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	student, err := h.auth.RegisterStudent(r.Context(), &reg)
	if err != nil {
		debug.Info("Student registration rejected: %v", err)
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusCreated, student)
}

/*
 * RegisterClientHandler creates a client account.
 *
 * Responses:
 *   - 201: Client created
 *   - 400: Invalid payload or weak password
 *   - 403: Registration closed
 *   - 409: Email already registered
 */
func (h *Handler) RegisterClientHandler(w http.ResponseWriter, r *http.Request) {
	var reg models.ClientRegistration
	if err := handlers.DecodeJSON(w, r, &reg); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	client, err := h.auth.RegisterClient(r.Context(), &reg)
	if err != nil {
		debug.Info("Client registration rejected: %v", err)
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusCreated, client)
}

/*
 * LoginHandler processes login requests for every role.
 * It validates credentials, stores a session token and sets the auth cookie.
 *
 * Request body expects JSON:
 * {
 *   "email": "string",
 *   "password": "string",
 *   "role": "admin|client|student",
 *   "totp_code": "string (admins with MFA enabled)"
 * }
 *
 * Responses:
 *   - 200: Logged in, token in body and cookie
 *   - 400: Invalid request format
 *   - 401: Invalid credentials, or MFA_REQUIRED
 *   - 403: Account disabled
 */
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), &req, middleware.ClientIP(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	h.setAuthCookie(w, resp.Token, h.auth.ExpiryMinutes()*60)
	httputil.RespondWithData(w, http.StatusOK, resp)
}

/*
 * LogoutHandler revokes the session token attached by OptionalAuth and clears
 * the auth cookie. Missing or already invalid tokens still succeed so stale
 * cookies can be cleared.
 */
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, _ := jwt.GetToken(r.Context())
	if err := h.auth.Logout(r.Context(), token); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	h.clearAuthCookie(w)
	httputil.RespondWithData(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// MeHandler returns the caller's own profile.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, user)
}

// ChangePasswordHandler replaces the caller's password.
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordChangeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), handlers.Actor(r), &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, messageResponse{Message: "Password updated"})
}
