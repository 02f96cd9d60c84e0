package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
)

// ListSettings returns every setting, public or not.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context(), false)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, settings)
}

// UpdateSettings applies a {"key": value} object. Values may be JSON
// strings, numbers or booleans. Either every key is applied or none is.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := handlers.DecodeJSON(w, r, &body); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	values := make(map[string]string, len(body))
	for key, raw := range body {
		value, err := settingString(raw)
		if err != nil {
			httputil.RespondWithAppError(w, fmt.Errorf("setting %s: %w", key, err))
			return
		}
		values[key] = value
	}

	settings, err := h.settings.Update(r.Context(), handlers.Actor(r), values)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, settings)
}

func settingString(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T: %w", raw, models.ErrInvalidInput)
	}
}
