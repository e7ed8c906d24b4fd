package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"glasscal/internal/config"
	"glasscal/internal/fixtures"
	"glasscal/internal/layout"
	appLog "glasscal/internal/log"
	"glasscal/internal/model"
)

// cacheTTL bounds how long computed layout responses are reused. The
// layout is pure, so this only matters because "today" highlighting
// moves with wall-clock time.
const cacheTTL = 30 * time.Second

// maxCacheEntries caps the per-anchor response cache.
const maxCacheEntries = 64

// Server exposes the layout engine over HTTP for the demo UI:
// month grids, week columns and day geometry as JSON, plus the
// embedded static page and the last captured preview.
type Server struct {
	cfg   *config.Config
	set   fixtures.Set
	debug bool
	mux   *http.ServeMux

	cacheMu sync.Mutex
	cache   map[string]cachedResponse
}

type cachedResponse struct {
	body      []byte
	updatedAt time.Time
}

// embeddedStatic contains the demo UI page served at /.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a Server over an already-loaded fixture set.
func NewServer(cfg *config.Config, set fixtures.Set, debug bool) *Server {
	s := &Server{
		cfg:   cfg,
		set:   set,
		debug: debug,
		mux:   http.NewServeMux(),
		cache: make(map[string]cachedResponse),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, wrapped with
// basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password is treated as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="glasscal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/sources", s.handleSources)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/api/week", s.handleWeek)
	s.mux.HandleFunc("/api/day", s.handleDay)
	s.mux.HandleFunc("/preview.png", s.handlePreview)

	// Embedded demo page; all non-API paths fall through to it.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last captured PNG preview from disk.
// http.ServeFile maps missing files to 404 on its own.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.PreviewPath)
}

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never serve HTML for unknown API paths.
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// sourcesResponse describes the fixture's calendar sources and their
// default visibility toggles.
type sourcesResponse struct {
	Sources []sourceDTO     `json:"sources"`
	Enabled map[string]bool `json:"enabled"`
}

type sourceDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	resp := sourcesResponse{
		Sources: make([]sourceDTO, 0, len(s.set.Sources)),
		Enabled: s.set.EnabledByDefault(),
	}
	for _, src := range s.set.Sources {
		resp.Sources = append(resp.Sources, sourceDTO{ID: src.ID, Name: src.Name, Color: src.Color})
	}
	writeJSON(w, http.StatusOK, resp)
}

// monthCellDTO is a JSON-friendly view of one month grid cell.
type monthCellDTO struct {
	Date    string `json:"date"`
	InMonth bool   `json:"in_month"`
}

// gridResponse is the JSON response shape for /api/grid.
type gridResponse struct {
	Anchor    string         `json:"anchor"`
	WeekStart string         `json:"week_start"`
	Cells     []monthCellDTO `json:"cells"`
	// EventCounts maps cell dates (YYYY-MM-DD) to the number of
	// events starting that day; days without events are omitted.
	EventCounts map[string]int `json:"event_counts"`
}

// handleGrid returns the 42-cell month grid for the anchor month.
//
// GET /api/grid?anchor=2026-03-01
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	anchor, ok := s.parseDateParam(w, r, "anchor")
	if !ok {
		return
	}

	cacheKey := "grid:" + anchor.Format(time.DateOnly)
	if body, ok := s.cachedBody(cacheKey); ok {
		writeJSONBody(w, http.StatusOK, body)
		return
	}

	cells := layout.MonthGrid(anchor, s.cfg.WeekStartDay())
	counts := layout.CountByDay(s.set.Events, cells[:])

	resp := gridResponse{
		Anchor:      anchor.Format(time.DateOnly),
		WeekStart:   s.cfg.WeekStart,
		Cells:       make([]monthCellDTO, 0, len(cells)),
		EventCounts: counts,
	}
	for _, c := range cells {
		resp.Cells = append(resp.Cells, monthCellDTO{
			Date:    c.Date.Format(time.DateOnly),
			InMonth: c.InMonth,
		})
	}

	s.respondAndCache(w, cacheKey, resp)
}

// placementDTO is an event plus its computed block geometry.
type placementDTO struct {
	ID        string   `json:"id"`
	SourceID  string   `json:"source_id"`
	Title     string   `json:"title"`
	Location  string   `json:"location,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Color     string   `json:"color,omitempty"`
	TopPx     int      `json:"top_px"`
	HeightPx  int      `json:"height_px"`
}

// windowDTO echoes the effective visible-hours window so the UI can
// scale its hour gutter consistently.
type windowDTO struct {
	StartHour    int `json:"start_hour"`
	EndHour      int `json:"end_hour"`
	HourHeightPx int `json:"hour_height_px"`
}

// weekResponse is the JSON response shape for /api/week.
type weekResponse struct {
	Anchor    string         `json:"anchor"`
	WeekStart string         `json:"week_start"`
	Window    windowDTO      `json:"window"`
	Days      []dayColumnDTO `json:"days"`
}

type dayColumnDTO struct {
	Date   string         `json:"date"`
	Events []placementDTO `json:"events"`
}

// handleWeek returns the 7 day columns of the week containing anchor,
// each with projected event geometry.
//
// GET /api/week?anchor=2026-03-02
func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	anchor, ok := s.parseDateParam(w, r, "anchor")
	if !ok {
		return
	}

	cacheKey := "week:" + anchor.Format(time.DateOnly)
	if body, ok := s.cachedBody(cacheKey); ok {
		writeJSONBody(w, http.StatusOK, body)
		return
	}

	win := s.window()
	days := layout.WeekDays(anchor, s.cfg.WeekStartDay())

	resp := weekResponse{
		Anchor:    anchor.Format(time.DateOnly),
		WeekStart: s.cfg.WeekStart,
		Window:    windowDTO{StartHour: win.StartHour, EndHour: win.EndHour, HourHeightPx: win.HourHeightPx},
		Days:      make([]dayColumnDTO, 0, len(days)),
	}
	for _, day := range days {
		placed := layout.DayLayout(s.set.Events, day, win)
		col := dayColumnDTO{
			Date:   day.Format(time.DateOnly),
			Events: make([]placementDTO, 0, len(placed)),
		}
		for _, p := range placed {
			col.Events = append(col.Events, toPlacementDTO(p))
		}
		resp.Days = append(resp.Days, col)
	}

	s.respondAndCache(w, cacheKey, resp)
}

// dayResponse is the JSON response shape for /api/day.
type dayResponse struct {
	Date   string         `json:"date"`
	Window windowDTO      `json:"window"`
	Events []placementDTO `json:"events"`
}

// handleDay returns projected geometry for one day, after applying
// source visibility toggles and the free-text filter.
//
// GET /api/day?date=2026-03-02&sources=work,personal&q=client
//   - sources: comma-separated enabled source IDs; omitted means all
//   - q:       case-insensitive substring filter
//
// Filtered responses depend on the query, so they bypass the cache.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := s.parseDateParam(w, r, "date")
	if !ok {
		return
	}

	q := r.URL.Query()
	enabled := s.set.EnabledByDefault()
	if raw := q.Get("sources"); raw != "" {
		enabled = make(map[string]bool)
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				enabled[id] = true
			}
		}
	}

	win := s.window()
	visible := layout.FilterEvents(s.set.Events, enabled, q.Get("q"))
	placed := layout.DayLayout(visible, day, win)

	resp := dayResponse{
		Date:   day.Format(time.DateOnly),
		Window: windowDTO{StartHour: win.StartHour, EndHour: win.EndHour, HourHeightPx: win.HourHeightPx},
		Events: make([]placementDTO, 0, len(placed)),
	}
	for _, p := range placed {
		resp.Events = append(resp.Events, toPlacementDTO(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toPlacementDTO(p layout.Placement) placementDTO {
	return placementDTO{
		ID:        p.Event.ID,
		SourceID:  p.Event.SourceID,
		Title:     p.Event.Title,
		Location:  p.Event.Location,
		Attendees: p.Event.Attendees,
		Start:     p.Event.Start.Format(time.RFC3339),
		End:       p.Event.End.Format(time.RFC3339),
		Color:     p.Event.Color,
		TopPx:     p.Geometry.TopPx,
		HeightPx:  p.Geometry.HeightPx,
	}
}

// window assembles the effective visible-hours window from config.
func (s *Server) window() model.Window {
	return model.Window{
		StartHour:      s.cfg.WindowStartHour,
		EndHour:        s.cfg.WindowEndHour,
		HourHeightPx:   s.cfg.HourHeightPx,
		MinDurationMin: s.cfg.MinDurationMin,
		MinHeightPx:    s.cfg.MinHeightPx,
	}
}

// parseDateParam reads a YYYY-MM-DD query parameter, defaulting to
// today when absent. On malformed input it writes a 400 and returns
// ok=false.
func (s *Server) parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return layout.Midnight(time.Now()), true
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" date, want YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) cachedBody(key string) ([]byte, bool) {
	// Debug runs recompute every request so fixture edits show up
	// immediately.
	if s.debug {
		return nil, false
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	entry, ok := s.cache[key]
	if !ok || time.Since(entry.updatedAt) >= cacheTTL {
		return nil, false
	}
	return entry.body, true
}

// respondAndCache encodes resp, stores it under key and writes it.
func (s *Server) respondAndCache(w http.ResponseWriter, key string, resp any) {
	body, err := json.Marshal(resp)
	if err != nil {
		appLog.Error("failed to encode response", err, "key", key)
		writeError(w, http.StatusInternalServerError, "encoding failed")
		return
	}

	s.cacheMu.Lock()
	if len(s.cache) >= maxCacheEntries {
		// Cheap reset; the cache is a short-TTL convenience only.
		s.cache = make(map[string]cachedResponse)
	}
	s.cache[key] = cachedResponse{body: body, updatedAt: time.Now()}
	s.cacheMu.Unlock()

	writeJSONBody(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeJSONBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
