// Package api implements the HTTP REST API for the signage agent.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/css-signage/css-agent-go/internal/models"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	ctrl    Controller
	events  EventBus
	version string
}

// Controller is the interface the handlers use to interact with the device.
type Controller interface {
	Config() models.Config
	UpdateConfig(upd models.ConfigUpdate) (models.Config, *models.AppError)

	SetDisplayURL(ctx context.Context, url string) *models.AppError
	Rotate(ctx context.Context, angle int) *models.AppError

	PlaylistConfig() models.Playlist
	UpdatePlaylist(upd models.PlaylistUpdate) (models.Playlist, *models.AppError)
	AddPlaylistImage(ctx context.Context, data []byte, ext string) (int, string, int, *models.AppError)
	RemovePlaylistImage(ctx context.Context, index int) (int, *models.AppError)
	ClearPlaylist(ctx context.Context) *models.AppError
	ActivatePlaylist(ctx context.Context) *models.AppError
	SlideshowHTML() (string, error)

	RestartBrowser(ctx context.Context) *models.AppError
	Reboot(ctx context.Context) *models.AppError
	Update(ctx context.Context) (string, *models.AppError)
	SetAutoUpdate(ctx context.Context, enabled bool) *models.AppError
	SetNightlyReboot(ctx context.Context, enabled bool) *models.AppError
	SetBrowserFlags(ctx context.Context, flags []string) *models.AppError
	ConfigureNetwork(req models.NetworkRequest) *models.AppError
}

// EventBus is the interface for subscribing to document change events.
type EventBus interface {
	Subscribe(id string) <-chan models.Config
	Unsubscribe(id string)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

// writeError writes an AppError as a structured JSON failure response.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*models.AppError)
	if !ok {
		appErr = models.ErrInternal(err.Error())
	}
	writeJSON(w, appErr.Status, errorBody{Success: false, Code: appErr.Code, Message: appErr.Message})
}

// writeSuccess writes a {success:true, message} response.
func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, models.Result{Success: true, Message: message})
}

// intParam reads an integer path parameter by name.
func intParam(r *http.Request, name string) (int, error) {
	s := chi.URLParam(r, name)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.ErrValidation("invalid " + name + " parameter")
	}
	return n, nil
}

// decodeBody decodes a JSON request body, rejecting malformed input.
func decodeBody(r *http.Request, v interface{}) *models.AppError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrValidation("invalid JSON: " + err.Error())
	}
	return nil
}
