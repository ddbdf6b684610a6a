package api

import (
	"fmt"
	"net/http"

	"github.com/css-signage/css-agent-go/internal/models"
)

func (h *Handlers) setDisplayURL(w http.ResponseWriter, r *http.Request) {
	var req models.DisplayURLRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if req.URL == "" {
		writeError(w, models.ErrValidation("url is required"))
		return
	}

	if appErr := h.ctrl.SetDisplayURL(r.Context(), req.URL); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, fmt.Sprintf("URL changed to %s", req.URL))
}

func (h *Handlers) rotate(w http.ResponseWriter, r *http.Request) {
	var req models.RotateRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if req.Rotation == nil {
		writeError(w, models.ErrValidation("rotation is required"))
		return
	}

	if appErr := h.ctrl.Rotate(r.Context(), *req.Rotation); appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         fmt.Sprintf("Screen rotated to %d degrees", *req.Rotation),
		"reboot_required": false,
	})
}
