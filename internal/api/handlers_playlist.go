package api

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/css-signage/css-agent-go/internal/models"
)

// maxUploadBytes bounds a single image upload.
const maxUploadBytes = 32 << 20

func (h *Handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.PlaylistConfig())
}

func (h *Handlers) setPlaylist(w http.ResponseWriter, r *http.Request) {
	var upd models.PlaylistUpdate
	if appErr := decodeBody(r, &upd); appErr != nil {
		writeError(w, appErr)
		return
	}

	pl, appErr := h.ctrl.UpdatePlaylist(upd)
	if appErr != nil {
		writeError(w, appErr)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (h *Handlers) clearPlaylist(w http.ResponseWriter, r *http.Request) {
	if appErr := h.ctrl.ClearPlaylist(r.Context()); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Playlist cleared")
}

func (h *Handlers) uploadPlaylistImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, models.ErrValidation("invalid multipart form: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, models.ErrValidation("image file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, models.ErrValidation("read upload: "+err.Error()))
		return
	}

	ext := filepath.Ext(header.Filename)
	index, filename, total, appErr := h.ctrl.AddPlaylistImage(r.Context(), data, ext)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"index":    index,
		"filename": filename,
		"total":    total,
	})
}

func (h *Handlers) deletePlaylistImage(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, err)
		return
	}

	total, appErr := h.ctrl.RemovePlaylistImage(r.Context(), index)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"total":   total,
	})
}

func (h *Handlers) activatePlaylist(w http.ResponseWriter, r *http.Request) {
	if appErr := h.ctrl.ActivatePlaylist(r.Context()); appErr != nil {
		writeError(w, appErr)
		return
	}
	writeSuccess(w, "Playlist activated")
}

func (h *Handlers) slideshow(w http.ResponseWriter, r *http.Request) {
	html, err := h.ctrl.SlideshowHTML()
	if err != nil {
		writeError(w, models.ErrInternal("render slideshow: "+err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
