package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gokandara/backend/internal/cache"
	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/service"
	"gokandara/backend/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAPI(t *testing.T) (http.Handler, string) {
	t.Helper()

	repo := memory.New(1)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := repo.CreateUser(context.Background(), domain.User{
		Username: "admin",
		Password: string(hash),
		Nama:     "Administrator",
		RoleID:   domain.RoleAdmin,
		Active:   true,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	svc := service.New(repo, cache.NewNoop())
	auth := NewAuthManager(testSecret, time.Hour, repo)
	handler := New(svc, auth, "http://127.0.0.1:3000").Handler()

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/login", "", domain.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var login domain.LoginResponse
	decodeBody(t, rec, &login)
	if login.AccessToken == "" {
		t.Fatal("empty access token")
	}
	return handler, login.AccessToken
}

func doRequest(t *testing.T, handler http.Handler, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createKonsumen(t *testing.T, handler http.Handler, token string, nama string, email string) int {
	t.Helper()
	rec := doRequest(t, handler, http.MethodPost, "/api/konsumen", token, domain.KonsumenCreateRequest{
		Nama:    nama,
		Telepon: "0812345",
		Email:   email,
		Alamat:  "Malang",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create konsumen: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data domain.Konsumen `json:"data"`
	}
	decodeBody(t, rec, &resp)
	return resp.Data.ID
}

func TestHealthzIsOpen(t *testing.T) {
	handler, _ := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
}

func TestEntityRoutesRequireBearerToken(t *testing.T) {
	handler, _ := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/konsumen", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/konsumen", "not-a-real-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	handler, _ := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/login", "", domain.LoginRequest{
		Username: "admin",
		Password: "salah",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestKonsumenCRUDFlow(t *testing.T) {
	handler, token := newTestAPI(t)

	id := createKonsumen(t, handler, token, "Andi Saputra", "andi@example.com")

	rec := doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/konsumen/%d", id), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPut, fmt.Sprintf("/api/konsumen/%d", id), token, domain.KonsumenCreateRequest{
		Nama:    "Andi Saputra",
		Telepon: "0899",
		Email:   "andi@example.com",
		Alamat:  "Surabaya",
		Status:  domain.KonsumenStatusDeal,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: %d %s", rec.Code, rec.Body.String())
	}

	status := domain.KonsumenStatusBatal
	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/api/konsumen/%d", id), token, domain.KonsumenUpdateRequest{
		Status: &status,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", rec.Code, rec.Body.String())
	}
	var patched struct {
		Data domain.Konsumen `json:"data"`
	}
	decodeBody(t, rec, &patched)
	if patched.Data.Status != domain.KonsumenStatusBatal || patched.Data.Alamat != "Surabaya" {
		t.Fatalf("patch merged wrong: %+v", patched.Data)
	}

	rec = doRequest(t, handler, http.MethodDelete, fmt.Sprintf("/api/konsumen/%d", id), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	var deleted struct {
		Data domain.Konsumen `json:"data"`
	}
	decodeBody(t, rec, &deleted)
	if deleted.Data.ID != id {
		t.Fatalf("delete must echo the removed snapshot: %+v", deleted.Data)
	}

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/api/konsumen/%d", id), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rec.Code)
	}
}

func TestDuplicateEmailReturns422(t *testing.T) {
	handler, token := newTestAPI(t)

	createKonsumen(t, handler, token, "Andi Saputra", "andi@example.com")

	rec := doRequest(t, handler, http.MethodPost, "/api/konsumen", token, domain.KonsumenCreateRequest{
		Nama:    "Andi Kedua",
		Telepon: "0813",
		Email:   "andi@example.com",
		Alamat:  "Batu",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	decodeBody(t, rec, &resp)
	msgs := resp.Errors["email"]
	if len(msgs) != 1 || msgs[0] != "The email has already been taken." {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
}

func TestMissingFieldsListedPerField(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/konsumen", token, map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	decodeBody(t, rec, &resp)
	for _, field := range []string{"nama", "telepon", "email", "alamat"} {
		if len(resp.Errors[field]) == 0 {
			t.Fatalf("missing error entry for %s: %+v", field, resp.Errors)
		}
	}
}

func TestPaginationEnvelope(t *testing.T) {
	handler, token := newTestAPI(t)

	for i := 1; i <= 12; i++ {
		createKonsumen(t, handler, token, fmt.Sprintf("Konsumen %02d", i), fmt.Sprintf("k%02d@example.com", i))
	}

	rec := doRequest(t, handler, http.MethodGet, "/api/konsumen?page=2&per_page=5", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var page struct {
		CurrentPage int               `json:"current_page"`
		Data        []domain.Konsumen `json:"data"`
		From        *int              `json:"from"`
		To          *int              `json:"to"`
		LastPage    int               `json:"last_page"`
		Total       int               `json:"total"`
		PerPage     int               `json:"per_page"`
	}
	decodeBody(t, rec, &page)
	if page.CurrentPage != 2 || page.LastPage != 3 || page.Total != 12 || page.PerPage != 5 {
		t.Fatalf("wrong envelope: %+v", page)
	}
	if len(page.Data) != 5 {
		t.Fatalf("expected 5 records, got %d", len(page.Data))
	}
	if page.From == nil || *page.From != 6 || page.To == nil || *page.To != 10 {
		t.Fatalf("wrong from/to: %v %v", page.From, page.To)
	}

	// Out-of-range page echoes back with empty data and null bounds.
	rec = doRequest(t, handler, http.MethodGet, "/api/konsumen?page=9&per_page=5", token, nil)
	decodeBody(t, rec, &page)
	if page.CurrentPage != 9 || len(page.Data) != 0 || page.From != nil || page.To != nil {
		t.Fatalf("out-of-range page wrong: %+v", page)
	}
	if page.Total != 12 || page.LastPage != 3 {
		t.Fatalf("out-of-range page must keep totals truthful: %+v", page)
	}
}

func TestNonNumericIDReturns400(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/konsumen/abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if resp.Message != "Invalid ID format" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestPenjualanStatusSubresource(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/penjualan", token, domain.PenjualanCreateRequest{
		KonsumenID: 1, PropertyID: 1, SalesID: 1,
		Harga: 850_000_000, Tanggal: "2026-08-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create penjualan: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data domain.PenjualanDetail `json:"data"`
	}
	decodeBody(t, rec, &created)

	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/api/penjualan/%d/status", created.Data.ID), token, domain.PenjualanStatusRequest{
		Status: "Cancelled",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d %s", rec.Code, rec.Body.String())
	}
	var invalid struct {
		Errors map[string][]string `json:"errors"`
	}
	decodeBody(t, rec, &invalid)
	msgs := invalid.Errors["status"]
	if len(msgs) != 1 || msgs[0] != "The status must be one of: Negotiation, Pending, Approved." {
		t.Fatalf("unexpected status errors: %+v", invalid.Errors)
	}

	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/api/penjualan/%d/status", created.Data.ID), token, domain.PenjualanStatusRequest{
		Status: domain.PenjualanStatusApproved,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid status: %d %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Data domain.PenjualanDetail `json:"data"`
	}
	decodeBody(t, rec, &updated)
	if updated.Data.Status != domain.PenjualanStatusApproved {
		t.Fatalf("status not applied: %+v", updated.Data)
	}
}

func TestMarkReadEndpoints(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/pesan", token, domain.PesanCreateRequest{
		SenderID: 1, ReceiverID: 2, Subjek: "Follow up", Isi: "Segera dihubungi",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pesan: %d %s", rec.Code, rec.Body.String())
	}
	var pesan struct {
		Data domain.Pesan `json:"data"`
	}
	decodeBody(t, rec, &pesan)

	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/api/pesan/%d/read", pesan.Data.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark pesan read: %d %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &pesan)
	if !pesan.Data.Dibaca {
		t.Fatalf("pesan not marked read: %+v", pesan.Data)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/notifikasi", token, domain.NotifikasiCreateRequest{
		UserID: 1, Judul: "Penjualan disetujui", Isi: "Unit GK-001",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create notifikasi: %d %s", rec.Code, rec.Body.String())
	}
	var notif struct {
		Data domain.Notifikasi `json:"data"`
	}
	decodeBody(t, rec, &notif)

	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/api/notifikasi/%d/read", notif.Data.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark notifikasi read: %d %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &notif)
	if !notif.Data.Dibaca {
		t.Fatalf("notifikasi not marked read: %+v", notif.Data)
	}
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	handler, token := newTestAPI(t)

	createKonsumen(t, handler, token, "Andi Saputra", "andi@example.com")

	rec := doRequest(t, handler, http.MethodGet, "/api/dashboard/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data domain.DashboardSummary `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data.TotalKonsumen != 1 {
		t.Fatalf("wrong summary: %+v", resp.Data)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/target", token, domain.TargetCreateRequest{
		SalesID: 1, Periode: "2026-08", TargetPenjualan: 2, TargetNominal: 1_000_000_000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create target: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/target/leaderboard?periode=2026-08", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data []domain.LeaderboardEntry `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Data) != 1 || resp.Data[0].SalesID != 1 {
		t.Fatalf("wrong leaderboard: %+v", resp.Data)
	}
}

func TestUsersEndpointHidesPasswords(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: %d %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatalf("password leaked in response: %s", rec.Body.String())
	}
}

func TestMissingResourceReturns404(t *testing.T) {
	handler, token := newTestAPI(t)

	for _, path := range []string{"/api/konsumen/999", "/api/property/999", "/api/penjualan/999", "/api/target/999"} {
		rec := doRequest(t, handler, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestPatchKonsumenExplicitNullClearsCatatanOverHTTP(t *testing.T) {
	handler, token := newTestAPI(t)

	catatan := "prioritas"
	rec := doRequest(t, handler, http.MethodPost, "/api/konsumen", token, domain.KonsumenCreateRequest{
		Nama:    "Rina Wulandari",
		Telepon: "0812",
		Email:   "rina@example.com",
		Alamat:  "Malang",
		Catatan: &catatan,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data domain.Konsumen `json:"data"`
	}
	decodeBody(t, rec, &created)

	path := fmt.Sprintf("/api/konsumen/%d", created.Data.ID)

	rec = doRequest(t, handler, http.MethodPatch, path, token, json.RawMessage(`{"nama":"Rina W"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch without catatan: %d %s", rec.Code, rec.Body.String())
	}
	var patched struct {
		Data domain.Konsumen `json:"data"`
	}
	decodeBody(t, rec, &patched)
	if patched.Data.Catatan == nil || *patched.Data.Catatan != "prioritas" {
		t.Fatalf("absent catatan key must leave the note alone: %+v", patched.Data.Catatan)
	}

	rec = doRequest(t, handler, http.MethodPatch, path, token, json.RawMessage(`{"catatan":null}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch with null catatan: %d %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &patched)
	if patched.Data.Catatan != nil {
		t.Fatalf("explicit null must clear the note, got %q", *patched.Data.Catatan)
	}
	if patched.Data.Nama != "Rina W" {
		t.Fatalf("earlier patch lost: %q", patched.Data.Nama)
	}
}

func TestPesanPutReplacesButKeepsReadFlag(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/pesan", token, domain.PesanCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Subjek:     "Jadwal survei",
		Isi:        "Besok pagi jam 9.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pesan: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data domain.Pesan `json:"data"`
	}
	decodeBody(t, rec, &created)
	path := fmt.Sprintf("/api/pesan/%d", created.Data.ID)

	rec = doRequest(t, handler, http.MethodPatch, path+"/read", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPut, path, token, domain.PesanCreateRequest{
		SenderID:   1,
		ReceiverID: 2,
		Subjek:     "Jadwal survei (revisi)",
		Isi:        "Digeser ke jam 13.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put pesan: %d %s", rec.Code, rec.Body.String())
	}
	var replaced struct {
		Data domain.Pesan `json:"data"`
	}
	decodeBody(t, rec, &replaced)
	if replaced.Data.Subjek != "Jadwal survei (revisi)" {
		t.Fatalf("subjek not replaced: %q", replaced.Data.Subjek)
	}
	if !replaced.Data.Dibaca {
		t.Fatal("read flag must survive a full replace")
	}
}

func TestUserPutWithBlankPasswordKeepsCredentials(t *testing.T) {
	handler, token := newTestAPI(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/users", token, domain.UserCreateRequest{
		Username: "dewi",
		Password: "rahasia-panjang",
		Nama:     "Dewi Lestari",
		RoleID:   domain.RoleSales,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data domain.User `json:"data"`
	}
	decodeBody(t, rec, &created)

	rec = doRequest(t, handler, http.MethodPut, fmt.Sprintf("/api/users/%d", created.Data.ID), token, domain.UserCreateRequest{
		Username: "dewi",
		Nama:     "Dewi L",
		RoleID:   domain.RoleSupervisor,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put user: %d %s", rec.Code, rec.Body.String())
	}
	var replaced struct {
		Data domain.User `json:"data"`
	}
	decodeBody(t, rec, &replaced)
	if replaced.Data.Nama != "Dewi L" || replaced.Data.RoleID != domain.RoleSupervisor {
		t.Fatalf("replace not applied: %+v", replaced.Data)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/auth/login", "", domain.LoginRequest{
		Username: "dewi",
		Password: "rahasia-panjang",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login after replace: %d %s", rec.Code, rec.Body.String())
	}
}
