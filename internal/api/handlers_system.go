package api

import (
	"net/http"
	"time"

	"github.com/css-signage/css-agent-go/internal/models"
	"github.com/css-signage/css-agent-go/internal/status"
)

func (h *Handlers) rootInfo(w http.ResponseWriter, r *http.Request) {
	cfg := h.ctrl.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "CSS Signage Agent",
		"version": h.version,
		"name":    cfg.Name,
		"status":  "running",
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": models.Timestamp(time.Now()),
	})
}

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status.Collect(r.Context(), h.ctrl.Config()))
}

func (h *Handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Config())
}

func (h *Handlers) setConfig(w http.ResponseWriter, r *http.Request) {
	var upd models.ConfigUpdate
	if appErr := decodeBody(r, &upd); appErr != nil {
		writeError(w, appErr)
		return
	}

	if _, appErr := h.ctrl.UpdateConfig(upd); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Configuration updated")
}

func (h *Handlers) reboot(w http.ResponseWriter, r *http.Request) {
	if appErr := h.ctrl.Reboot(r.Context()); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "System rebooting")
}

func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	output, appErr := h.ctrl.Update(r.Context())
	if appErr != nil {
		writeJSON(w, appErr.Status, map[string]interface{}{
			"success": false,
			"error":   appErr.Code,
			"message": appErr.Message,
			"output":  output,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"output":  output,
		"message": "Update successful",
	})
}

func (h *Handlers) configureNetwork(w http.ResponseWriter, r *http.Request) {
	var req models.NetworkRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	if appErr := h.ctrl.ConfigureNetwork(req); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Network configuration updated. System will reboot to apply changes.",
		"note":    "You will need to reconnect using the new IP address",
	})
}

func (h *Handlers) restartBrowser(w http.ResponseWriter, r *http.Request) {
	if appErr := h.ctrl.RestartBrowser(r.Context()); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Browser restarted")
}

func (h *Handlers) setBrowserFlags(w http.ResponseWriter, r *http.Request) {
	var req models.BrowserFlagsRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}
	if req.Flags == nil {
		writeError(w, models.ErrValidation("flags is required"))
		return
	}

	if appErr := h.ctrl.SetBrowserFlags(r.Context(), req.Flags); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Browser flags updated")
}

func (h *Handlers) getAutoUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.ctrl.Config().AutoUpdate})
}

func (h *Handlers) setAutoUpdate(w http.ResponseWriter, r *http.Request) {
	enabled, appErr := decodeToggle(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	if appErr := h.ctrl.SetAutoUpdate(r.Context(), enabled); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Auto-update setting changed")
}

func (h *Handlers) getNightlyReboot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.ctrl.Config().NightlyReboot})
}

func (h *Handlers) setNightlyReboot(w http.ResponseWriter, r *http.Request) {
	enabled, appErr := decodeToggle(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	if appErr := h.ctrl.SetNightlyReboot(r.Context(), enabled); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Nightly reboot setting changed")
}

func decodeToggle(r *http.Request) (bool, *models.AppError) {
	var req models.ToggleRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		return false, appErr
	}
	if req.Enabled == nil {
		return false, models.ErrValidation("enabled is required")
	}
	return *req.Enabled, nil
}
