package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/rs/cors"

	"antenna/internal/catalog"
	"antenna/internal/channel"
	"antenna/internal/config"
	"antenna/internal/logging"
	"antenna/internal/playlist"
	"antenna/internal/store"
	"antenna/internal/stremio"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, errors.New("api server requires a bind address")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleHome)
	mux.HandleFunc("GET /manifest.json", srv.handleManifest)
	mux.HandleFunc("GET /mfp/{url}/psw/{psw}/manifest.json", srv.handleManifest)
	mux.HandleFunc("GET /catalog/{type}/{id}", srv.handleCatalog)
	mux.HandleFunc("GET /mfp/{url}/psw/{psw}/catalog/{type}/{id}", srv.handleCatalog)
	mux.HandleFunc("GET /meta/{type}/{id}", srv.handleMeta)
	mux.HandleFunc("GET /mfp/{url}/psw/{psw}/meta/{type}/{id}", srv.handleMeta)
	mux.HandleFunc("GET /stream/{type}/{id}", srv.handleStream)
	mux.HandleFunc("GET /mfp/{url}/psw/{psw}/stream/{type}/{id}", srv.handleStream)
	mux.HandleFunc("GET /playlist.m3u8", srv.handlePlaylist)
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("POST /api/refresh", srv.handleRefresh)

	// Stremio clients fetch addon resources cross-origin from the web app.
	handler := cors.AllowAll().Handler(mux)

	srv.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// credentials resolves MediaFlow credentials for a request: path parameters
// win over configured defaults.
func (s *apiServer) credentials(r *http.Request) stremio.Credentials {
	creds := stremio.Credentials{
		MediaFlowURL:      s.daemon.cfg.MediaFlow.URL,
		MediaFlowPassword: s.daemon.cfg.MediaFlow.Password,
	}
	if url := r.PathValue("url"); url != "" {
		creds.MediaFlowURL = url
	}
	if psw := r.PathValue("psw"); psw != "" {
		creds.MediaFlowPassword = psw
	}
	return creds
}

// resourceID strips the .json suffix Stremio appends to resource paths.
func resourceID(r *http.Request) string {
	return strings.TrimSuffix(r.PathValue("id"), ".json")
}

func (s *apiServer) handleManifest(w http.ResponseWriter, r *http.Request) {
	creds := s.credentials(r)
	s.writeJSON(w, http.StatusOK, stremio.NewManifest(creds.MediaFlowURL))
}

type catalogResponse struct {
	Metas []stremio.Meta `json:"metas"`
}

func (s *apiServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r)
	if r.PathValue("type") != "tv" || !strings.HasPrefix(id, stremio.IDPrefix) {
		s.writeJSON(w, http.StatusOK, catalogResponse{Metas: []stremio.Meta{}})
		return
	}

	creds := s.credentials(r)
	if !creds.Valid() {
		s.writeJSON(w, http.StatusOK, catalogResponse{Metas: []stremio.Meta{}})
		return
	}

	genre := strings.TrimPrefix(id, stremio.IDPrefix)
	opts := store.ListOptions{Genre: genre}
	// Search spans the whole catalog regardless of which genre row the
	// query was typed into.
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		opts = store.ListOptions{Search: search}
	}

	channels, err := s.daemon.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metas := make([]stremio.Meta, 0, len(channels))
	for _, ch := range channels {
		metas = append(metas, stremio.ToMeta(ch, creds))
	}
	s.writeJSON(w, http.StatusOK, catalogResponse{Metas: metas})
}

type metaResponse struct {
	Meta any `json:"meta"`
}

func (s *apiServer) handleMeta(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r)
	if r.PathValue("type") != "tv" || !strings.HasPrefix(id, stremio.IDPrefix) {
		s.writeJSON(w, http.StatusOK, metaResponse{Meta: struct{}{}})
		return
	}

	creds := s.credentials(r)
	ch, err := s.lookupChannel(r.Context(), id, creds)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		s.writeJSON(w, http.StatusOK, metaResponse{Meta: struct{}{}})
		return
	}
	s.writeJSON(w, http.StatusOK, metaResponse{Meta: stremio.ToMeta(*ch, creds)})
}

type streamResponse struct {
	Streams []stremio.StreamInfo `json:"streams"`
}

func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r)
	if r.PathValue("type") != "tv" || !strings.HasPrefix(id, stremio.IDPrefix) {
		s.writeJSON(w, http.StatusOK, streamResponse{Streams: []stremio.StreamInfo{}})
		return
	}

	creds := s.credentials(r)
	ch, err := s.lookupChannel(r.Context(), id, creds)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ch == nil {
		s.log().Debug("no matching stream", slog.String("id", id))
		s.writeJSON(w, http.StatusOK, streamResponse{Streams: []stremio.StreamInfo{}})
		return
	}
	meta := stremio.ToMeta(*ch, creds)
	s.writeJSON(w, http.StatusOK, streamResponse{Streams: []stremio.StreamInfo{meta.StreamInfo}})
}

// lookupChannel fetches the channel behind a prefixed meta id. Requests
// without usable credentials resolve to no channel, matching the empty
// catalogs such requests see.
func (s *apiServer) lookupChannel(ctx context.Context, id string, creds stremio.Credentials) (*channel.Channel, error) {
	if !creds.Valid() {
		return nil, nil
	}
	return s.daemon.store.GetByID(ctx, strings.TrimPrefix(id, stremio.IDPrefix))
}

func (s *apiServer) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	channels, err := s.daemon.store.List(r.Context(), store.ListOptions{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
	if err := playlist.Write(w, channels, s.daemon.cfg.Catalog.EPGURL); err != nil {
		s.log().Error("failed to write playlist", logging.Error(err))
	}
}

type statusResponse struct {
	Running         bool           `json:"running"`
	PID             int            `json:"pid"`
	DatabasePath    string         `json:"database_path"`
	LockFilePath    string         `json:"lock_file_path"`
	Refreshing      bool           `json:"refreshing"`
	RefreshInterval string         `json:"refresh_interval"`
	ChannelCount    int            `json:"channel_count"`
	LastRefresh     *refreshStatus `json:"last_refresh,omitempty"`
}

type refreshStatus struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Kept       int       `json:"kept"`
	Error      string    `json:"error,omitempty"`
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	payload := statusResponse{
		Running:         status.Running,
		PID:             status.PID,
		DatabasePath:    status.DatabasePath,
		LockFilePath:    status.LockFilePath,
		Refreshing:      status.Refreshing,
		RefreshInterval: status.RefreshInterval.String(),
		ChannelCount:    status.ChannelCount,
	}
	if status.LastRefresh != nil {
		payload.LastRefresh = &refreshStatus{
			StartedAt:  status.LastRefresh.StartedAt,
			FinishedAt: status.LastRefresh.FinishedAt,
			Total:      status.LastRefresh.Total,
			Kept:       status.LastRefresh.Kept,
			Error:      status.LastRefresh.Err,
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if token := s.daemon.cfg.Server.APIToken; token != "" {
		if r.Header.Get("Authorization") != "Bearer "+token {
			s.writeError(w, http.StatusUnauthorized, "invalid api token")
			return
		}
	}

	result, err := s.daemon.refresher.RefreshNow(r.Context())
	if errors.Is(err, catalog.ErrRefreshInProgress) {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, refreshStatus{
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Total:      result.Total,
		Kept:       result.Kept,
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.WithComponent(s.logger, "api-server")
}
