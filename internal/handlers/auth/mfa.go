package auth

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
)

// MFACodeRequest carries a TOTP code.
type MFACodeRequest struct {
	Code string `json:"code"`
}

// SetupMFAHandler generates a pending TOTP secret and its QR code.
func (h *Handler) SetupMFAHandler(w http.ResponseWriter, r *http.Request) {
	setup, err := h.mfa.Setup(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, setup)
}

// EnableMFAHandler confirms the pending secret with a code from the
// authenticator app and turns MFA on.
func (h *Handler) EnableMFAHandler(w http.ResponseWriter, r *http.Request) {
	var req MFACodeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	actor := handlers.Actor(r)
	if err := h.mfa.Enable(r.Context(), actor, req.Code); err != nil {
		debug.Info("MFA enable failed for %s: %v", actor.ID, err)
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, messageResponse{Message: "MFA enabled"})
}

// DisableMFAHandler turns MFA off after checking a current code.
func (h *Handler) DisableMFAHandler(w http.ResponseWriter, r *http.Request) {
	var req MFACodeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.mfa.Disable(r.Context(), handlers.Actor(r), req.Code); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, messageResponse{Message: "MFA disabled"})
}
