package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
	"gokandara/backend/internal/reqid"
	"gokandara/backend/internal/service"
	"gokandara/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *attemptLimiter
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string) *API {
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
	}
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/auth/login", a.handleLogin)

	mux.HandleFunc("/api/dashboard/summary", a.requireAuth(a.handleDashboardSummary))
	mux.HandleFunc("/api/target/leaderboard", a.requireAuth(a.handleLeaderboard))

	mux.HandleFunc("/api/konsumen", a.requireAuth(a.handleKonsumen))
	mux.HandleFunc("/api/konsumen/", a.requireAuth(a.handleKonsumenActions))
	mux.HandleFunc("/api/property", a.requireAuth(a.handleProperty))
	mux.HandleFunc("/api/property/", a.requireAuth(a.handlePropertyActions))
	mux.HandleFunc("/api/penjualan", a.requireAuth(a.handlePenjualan))
	mux.HandleFunc("/api/penjualan/", a.requireAuth(a.handlePenjualanActions))
	mux.HandleFunc("/api/pesan", a.requireAuth(a.handlePesan))
	mux.HandleFunc("/api/pesan/", a.requireAuth(a.handlePesanActions))
	mux.HandleFunc("/api/notifikasi", a.requireAuth(a.handleNotifikasi))
	mux.HandleFunc("/api/notifikasi/", a.requireAuth(a.handleNotifikasiActions))
	mux.HandleFunc("/api/target", a.requireAuth(a.handleTarget))
	mux.HandleFunc("/api/target/", a.requireAuth(a.handleTargetActions))
	mux.HandleFunc("/api/users", a.requireAuth(a.handleUsers))
	mux.HandleFunc("/api/users/", a.requireAuth(a.handleUserActions))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		requestID := reqid.New()
		startedAt := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[%s] PANIC %s %s: %v", requestID, r.Method, r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"message": "Internal server error",
					"error":   fmt.Sprint(rec),
				})
			}
		}()

		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s %s", requestID, r.Method, r.URL.Path, time.Since(startedAt))
	})
}

// idTail splits the path segment after prefix into an id and an optional
// action suffix ("status", "read").
func idTail(path string, prefix string) (id string, action string) {
	tail := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if idx := strings.Index(tail, "/"); idx >= 0 {
		return tail[:idx], strings.Trim(tail[idx+1:], "/")
	}
	return tail, ""
}

func parseID(w http.ResponseWriter, raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid ID format")
		return 0, false
	}
	return id, true
}

func (a *API) listParams(r *http.Request) service.ListParams {
	q := r.URL.Query()
	filters := make(map[string]string, len(q))
	for key, values := range q {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return service.ListParams{
		Page:    pagination.ParsePage(q.Get("page")),
		PerPage: pagination.ParsePerPage(q.Get("per_page"), pagination.DefaultPerPage),
		Search:  strings.TrimSpace(q.Get("search")),
		Filters: filters,
		Path:    r.URL.Path,
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeMessage(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	summary, err := a.service.DashboardSummary(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": summary})
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	entries, err := a.service.Leaderboard(r.Context(), r.URL.Query().Get("periode"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (a *API) handleKonsumen(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListKonsumen(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.KonsumenCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreateKonsumen(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleKonsumenActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/konsumen/")
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		k, err := a.service.GetKonsumen(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": k})
	case http.MethodPut:
		var req domain.KonsumenCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplaceKonsumen(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.KonsumenUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchKonsumen(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeleteKonsumen(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProperty(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListProperty(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.PropertyCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreateProperty(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePropertyActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/property/")
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := a.service.GetProperty(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": p})
	case http.MethodPut:
		var req domain.PropertyCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplaceProperty(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.PropertyUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchProperty(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeleteProperty(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePenjualan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListPenjualan(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.PenjualanCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreatePenjualan(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePenjualanActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/penjualan/")
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	if action == "status" {
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.PenjualanStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.UpdatePenjualanStatus(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
		return
	}
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := a.service.GetPenjualan(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": p})
	case http.MethodPut:
		var req domain.PenjualanCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplacePenjualan(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.PenjualanUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchPenjualan(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeletePenjualan(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePesan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListPesan(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.PesanCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreatePesan(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handlePesanActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/pesan/")
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	if action == "read" {
		if r.Method != http.MethodPatch {
			writeMethodNotAllowed(w)
			return
		}
		updated, err := a.service.MarkPesanRead(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
		return
	}
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := a.service.GetPesan(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": p})
	case http.MethodPut:
		var req domain.PesanCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplacePesan(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.PesanUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchPesan(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeletePesan(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleNotifikasi(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListNotifikasi(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.NotifikasiCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreateNotifikasi(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleNotifikasiActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/notifikasi/")
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	if action == "read" {
		if r.Method != http.MethodPatch {
			writeMethodNotAllowed(w)
			return
		}
		updated, err := a.service.MarkNotifikasiRead(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
		return
	}
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		n, err := a.service.GetNotifikasi(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": n})
	case http.MethodDelete:
		removed, err := a.service.DeleteNotifikasi(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleTarget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListTarget(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.TargetCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreateTarget(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleTargetActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/target/")
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		tg, err := a.service.GetTarget(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": tg})
	case http.MethodPut:
		var req domain.TargetCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplaceTarget(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.TargetUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchTarget(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeleteTarget(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, err := a.service.ListUsers(r.Context(), a.listParams(r))
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	case http.MethodPost:
		var req domain.UserCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		created, err := a.service.CreateUser(r.Context(), req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Data created successfully", created)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleUserActions(w http.ResponseWriter, r *http.Request) {
	rawID, action := idTail(r.URL.Path, "/api/users/")
	if action != "" {
		writeMessage(w, http.StatusNotFound, "Data not found")
		return
	}
	id, ok := parseID(w, rawID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		u, err := a.service.GetUser(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": u})
	case http.MethodPut:
		var req domain.UserCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.ReplaceUser(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodPatch:
		var req domain.UserUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		updated, err := a.service.PatchUser(r.Context(), id, req)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data updated successfully", updated)
	case http.MethodDelete:
		removed, err := a.service.DeleteUser(r.Context(), id)
		if err != nil {
			a.writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Data deleted successfully", removed)
	default:
		writeMethodNotAllowed(w)
	}
}

// writeServiceError maps service and store errors onto the response
// taxonomy: 404 missing, 422 validation or uniqueness, 500 everything else.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  vErr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Data not found")
	case errors.Is(err, store.ErrConflict):
		writeMessage(w, http.StatusUnprocessableEntity, "The given data was invalid.")
	case errors.Is(err, store.ErrInvalidInput):
		writeMessage(w, http.StatusUnprocessableEntity, "The given data was invalid.")
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, map[string]any{"message": message, "data": data})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
