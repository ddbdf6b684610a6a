package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/css-signage/css-agent-go/internal/config"
	"github.com/css-signage/css-agent-go/internal/device"
	"github.com/css-signage/css-agent-go/internal/display"
	"github.com/css-signage/css-agent-go/internal/events"
	"github.com/css-signage/css-agent-go/internal/models"
	"github.com/css-signage/css-agent-go/internal/playlist"
	"github.com/css-signage/css-agent-go/internal/rotation"
	"github.com/css-signage/css-agent-go/internal/sysd"
	"github.com/css-signage/css-agent-go/internal/windowing"
)

type apiRig struct {
	srv     *httptest.Server
	session *windowing.FakeSession
	sys     *sysd.Fake
}

func newAPIRig(t *testing.T) *apiRig {
	t.Helper()

	dir := t.TempDir()
	session := windowing.NewFakeSession()
	sys := sysd.NewFake()

	engine, err := playlist.NewEngine(filepath.Join(dir, "playlist"))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	bus := events.NewBus()
	driver := display.New(dir, display.NewFakeSignal())
	ctrl, err := device.New(dir, config.NewMemStore(), driver, rotation.New(session), engine, sys, bus)
	if err != nil {
		t.Fatalf("device.New: %v", err)
	}

	staticFS := fstest.MapFS{
		"waiting.html": {Data: []byte("<html>waiting</html>")},
		"offline.html": {Data: []byte("<html>offline</html>")},
	}

	srv := httptest.NewServer(NewRouter(ctrl, bus, staticFS, engine.Dir(), "test"))
	t.Cleanup(srv.Close)
	return &apiRig{srv: srv, session: session, sys: sys}
}

func (r *apiRig) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(r.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (r *apiRig) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(r.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (r *apiRig) delete(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, r.srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, body)
	}
}

func wantErrorCode(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	if body.Success {
		t.Error("success = true on a failure response")
	}
	if body.Code != code {
		t.Errorf("error code = %q, want %q", body.Code, code)
	}
}

func uploadImage(t *testing.T, rig *apiRig, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(rig.srv.URL+"/api/display/playlist/images", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGetConfig_FreshDeviceDefaults(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.get(t, "/api/config")
	wantStatus(t, resp, http.StatusOK)

	var cfg models.Config
	decodeJSON(t, resp, &cfg)

	if cfg.DeviceID == "" {
		t.Error("device_id is empty")
	}
	if cfg.APIPort != models.DefaultAPIPort {
		t.Errorf("api_port = %d, want %d", cfg.APIPort, models.DefaultAPIPort)
	}
	if cfg.ScreenRotation != 0 {
		t.Errorf("screen_rotation = %d, want 0", cfg.ScreenRotation)
	}
	if !strings.HasSuffix(cfg.DisplayURL, "/static/waiting.html") {
		t.Errorf("display_url = %q, want the waiting page", cfg.DisplayURL)
	}
	if cfg.Playlist.DisplayTime != 10 || cfg.Playlist.FadeTime != 1 {
		t.Errorf("playlist timing = %d/%d, want 10/1", cfg.Playlist.DisplayTime, cfg.Playlist.FadeTime)
	}
}

func TestSetDisplayURL_RoundTrip(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/display/url", `{"url":"http://example.com/menu"}`)
	wantStatus(t, resp, http.StatusOK)
	var result models.Result
	decodeJSON(t, resp, &result)
	if !result.Success {
		t.Error("success = false")
	}

	resp = rig.get(t, "/api/config")
	var cfg models.Config
	decodeJSON(t, resp, &cfg)
	if cfg.DisplayURL != "http://example.com/menu" {
		t.Errorf("display_url = %q after POST", cfg.DisplayURL)
	}
}

func TestSetDisplayURL_MissingURL(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/display/url", `{}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestSetDisplayURL_MalformedJSON(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/display/url", `{"url": `)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestRotate_Success(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/display/rotate", `{"rotation":90}`)
	wantStatus(t, resp, http.StatusOK)

	var body struct {
		Success        bool `json:"success"`
		RebootRequired bool `json:"reboot_required"`
	}
	decodeJSON(t, resp, &body)
	if !body.Success {
		t.Error("success = false")
	}
	if body.RebootRequired {
		t.Error("reboot_required = true, rotation applies live")
	}
	if got := rig.session.Rotation(); got != windowing.TransformRight {
		t.Errorf("session transform = %q, want %q", got, windowing.TransformRight)
	}
}

func TestRotate_InvalidAngle(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/display/rotate", `{"rotation":45}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestRotate_MissingRotation(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/display/rotate", `{}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestRotate_NoDisplay(t *testing.T) {
	rig := newAPIRig(t)
	rig.session.SetOutput("")

	resp := rig.postJSON(t, "/api/display/rotate", `{"rotation":180}`)
	wantErrorCode(t, resp, http.StatusInternalServerError, "DisplayNotFound")
}

func TestPlaylist_UploadActivateDelete(t *testing.T) {
	rig := newAPIRig(t)

	// Upload one image.
	resp := uploadImage(t, rig, "photo.png", testPNG(t))
	wantStatus(t, resp, http.StatusOK)
	var up struct {
		Success  bool   `json:"success"`
		Index    int    `json:"index"`
		Filename string `json:"filename"`
		Total    int    `json:"total"`
	}
	decodeJSON(t, resp, &up)
	if !up.Success || up.Index != 0 || up.Filename != "0.png" || up.Total != 1 {
		t.Fatalf("upload = %+v", up)
	}

	// Playlist reflects it.
	resp = rig.get(t, "/api/display/playlist")
	var pl models.Playlist
	decodeJSON(t, resp, &pl)
	if len(pl.Images) != 1 || pl.Images[0] != "0.png" {
		t.Fatalf("playlist images = %v", pl.Images)
	}

	// Activate points the display at the slideshow.
	resp = rig.postJSON(t, "/api/display/playlist/activate", ``)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = rig.get(t, "/api/config")
	var cfg models.Config
	decodeJSON(t, resp, &cfg)
	if !strings.HasSuffix(cfg.DisplayURL, "/slideshow") {
		t.Errorf("display_url = %q, want the slideshow view", cfg.DisplayURL)
	}

	// The stored image is served back.
	resp = rig.get(t, "/images/0.png")
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Delete it again.
	resp = rig.delete(t, "/api/display/playlist/images/0")
	wantStatus(t, resp, http.StatusOK)
	var del struct {
		Total int `json:"total"`
	}
	decodeJSON(t, resp, &del)
	if del.Total != 0 {
		t.Errorf("total after delete = %d", del.Total)
	}
}

func TestPlaylist_ActivateEmpty(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/display/playlist/activate", ``)
	wantErrorCode(t, resp, http.StatusBadRequest, "EmptyPlaylist")
}

func TestPlaylist_UploadUnsupportedType(t *testing.T) {
	rig := newAPIRig(t)
	resp := uploadImage(t, rig, "notes.txt", []byte("hello"))
	wantErrorCode(t, resp, http.StatusBadRequest, "UnsupportedType")
}

func TestPlaylist_DeleteOutOfRange(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.delete(t, "/api/display/playlist/images/3")
	wantErrorCode(t, resp, http.StatusBadRequest, "IndexOutOfRange")
}

func TestPlaylist_DeleteBadIndexParam(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.delete(t, "/api/display/playlist/images/abc")
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestPlaylist_SettingsValidation(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/display/playlist", `{"display_time":0}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")

	resp = rig.postJSON(t, "/api/display/playlist", `{"display_time":30,"fade_time":2}`)
	wantStatus(t, resp, http.StatusOK)
	var pl models.Playlist
	decodeJSON(t, resp, &pl)
	if pl.DisplayTime != 30 || pl.FadeTime != 2 {
		t.Errorf("playlist timing = %d/%d, want 30/2", pl.DisplayTime, pl.FadeTime)
	}
}

func TestSlideshow_EmptyPlaceholder(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.get(t, "/slideshow")
	wantStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "No images in playlist") {
		t.Error("empty slideshow missing placeholder")
	}
}

func TestStaticPages_Served(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.get(t, "/static/waiting.html")
	wantStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "waiting") {
		t.Errorf("waiting page body = %q", body)
	}
}

func TestHealth(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.get(t, "/api/health")
	wantStatus(t, resp, http.StatusOK)
	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	decodeJSON(t, resp, &body)
	if body.Status != "healthy" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Timestamp == "" {
		t.Error("timestamp is empty")
	}
}

func TestRootInfo(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.get(t, "/")
	wantStatus(t, resp, http.StatusOK)
	var body struct {
		Service string `json:"service"`
		Version string `json:"version"`
	}
	decodeJSON(t, resp, &body)
	if body.Service != "CSS Signage Agent" {
		t.Errorf("service = %q", body.Service)
	}
	if body.Version != "test" {
		t.Errorf("version = %q", body.Version)
	}
}

func TestSetConfig_PartialUpdate(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/config", `{"name":"Lobby","room":"1F"}`)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = rig.get(t, "/api/config")
	var cfg models.Config
	decodeJSON(t, resp, &cfg)
	if cfg.Name != "Lobby" || cfg.Room != "1F" {
		t.Errorf("name/room = %q/%q", cfg.Name, cfg.Room)
	}
}

func TestAutoUpdateToggle(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/settings/autoupdate", `{"enabled":true}`)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if !rig.sys.Timers[sysd.AutoUpdateTimer] {
		t.Error("auto-update timer not enabled")
	}

	resp = rig.get(t, "/api/settings/autoupdate")
	var body struct {
		Enabled bool `json:"enabled"`
	}
	decodeJSON(t, resp, &body)
	if !body.Enabled {
		t.Error("GET reports enabled = false")
	}
}

func TestAutoUpdateToggle_MissingField(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/settings/autoupdate", `{}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestBrowserRestart(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/browser/restart", ``)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if n := rig.sys.RestartCount(sysd.KioskUnit); n != 1 {
		t.Errorf("kiosk unit restarts = %d, want 1", n)
	}
}

func TestConfigureNetwork_InvalidMode(t *testing.T) {
	rig := newAPIRig(t)
	resp := rig.postJSON(t, "/api/network/ip", `{"mode":"bonding"}`)
	wantErrorCode(t, resp, http.StatusBadRequest, "ValidationError")
}

func TestReboot_Throttled(t *testing.T) {
	rig := newAPIRig(t)

	resp := rig.postJSON(t, "/api/system/reboot", ``)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
	if !rig.sys.Rebooted {
		t.Error("reboot was not requested")
	}

	// The second request inside the throttle window is rejected.
	resp = rig.postJSON(t, "/api/system/reboot", ``)
	wantErrorCode(t, resp, http.StatusTooManyRequests, "RateLimited")
}

func TestCORSPreflight(t *testing.T) {
	rig := newAPIRig(t)

	req, _ := http.NewRequest(http.MethodOptions, rig.srv.URL+"/api/config", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}
