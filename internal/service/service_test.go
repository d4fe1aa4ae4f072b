package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gokandara/backend/internal/cache"
	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/store"
	"gokandara/backend/internal/store/memory"
)

func newTestService() *Service {
	return New(memory.New(1), cache.NewNoop())
}

func listParams(page, perPage int, search string, filters map[string]string) ListParams {
	if filters == nil {
		filters = map[string]string{}
	}
	return ListParams{
		Page:    page,
		PerPage: perPage,
		Search:  search,
		Filters: filters,
		Path:    "/api/test",
	}
}

func mustCreateKonsumen(t *testing.T, svc *Service, nama string, email string) *domain.Konsumen {
	t.Helper()
	created, err := svc.CreateKonsumen(context.Background(), domain.KonsumenCreateRequest{
		Nama:    nama,
		Telepon: "0812345",
		Email:   email,
		Alamat:  "Malang",
	})
	if err != nil {
		t.Fatalf("create konsumen %s: %v", nama, err)
	}
	return created
}

func TestCreateKonsumenValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateKonsumen(context.Background(), domain.KonsumenCreateRequest{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"nama", "telepon", "email", "alamat"} {
		msgs, ok := vErr.Fields[field]
		if !ok || len(msgs) == 0 {
			t.Fatalf("missing validation message for %s: %v", field, vErr.Fields)
		}
		want := fmt.Sprintf("The %s field is required.", field)
		if msgs[0] != want {
			t.Fatalf("field %s: got %q, want %q", field, msgs[0], want)
		}
	}
}

func TestCreateKonsumenDefaultsStatus(t *testing.T) {
	svc := newTestService()
	created := mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")
	if created.Status != domain.KonsumenStatusProspek {
		t.Fatalf("expected default status Prospek, got %s", created.Status)
	}
}

func TestCreateKonsumenDuplicateEmail(t *testing.T) {
	svc := newTestService()
	mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")

	_, err := svc.CreateKonsumen(context.Background(), domain.KonsumenCreateRequest{
		Nama:    "Andi Kedua",
		Telepon: "0812346",
		Email:   "ANDI@example.com",
		Alamat:  "Batu",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msgs := vErr.Fields["email"]
	if len(msgs) != 1 || msgs[0] != "The email has already been taken." {
		t.Fatalf("unexpected email messages: %v", msgs)
	}
}

func TestReplaceKonsumenAllowsOwnEmail(t *testing.T) {
	svc := newTestService()
	created := mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")

	updated, err := svc.ReplaceKonsumen(context.Background(), created.ID, domain.KonsumenCreateRequest{
		Nama:    "Andi Saputra",
		Telepon: "0899999",
		Email:   "andi@example.com",
		Alamat:  "Surabaya",
		Status:  domain.KonsumenStatusDeal,
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if updated.Telepon != "0899999" || updated.Status != domain.KonsumenStatusDeal {
		t.Fatalf("replace did not apply: %+v", updated)
	}
}

func TestPatchKonsumenTouchesOnlySentFields(t *testing.T) {
	svc := newTestService()
	created := mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")

	status := domain.KonsumenStatusNegosiasi
	patched, err := svc.PatchKonsumen(context.Background(), created.ID, domain.KonsumenUpdateRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Status != domain.KonsumenStatusNegosiasi {
		t.Fatalf("patch did not set status: %+v", patched)
	}
	if patched.Nama != created.Nama || patched.Email != created.Email {
		t.Fatalf("patch touched fields it should not have: %+v", patched)
	}
}

func TestPatchKonsumenExplicitNullClearsCatatan(t *testing.T) {
	svc := newTestService()

	catatan := "prioritas"
	created, err := svc.CreateKonsumen(context.Background(), domain.KonsumenCreateRequest{
		Nama:    "Rina Wulandari",
		Telepon: "0812",
		Email:   "rina@example.com",
		Alamat:  "Malang",
		Catatan: &catatan,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Catatan == nil {
		t.Fatal("catatan not stored")
	}

	// Absent key: catatan untouched.
	nama := "Rina W"
	patched, err := svc.PatchKonsumen(context.Background(), created.ID, domain.KonsumenUpdateRequest{Nama: &nama})
	if err != nil {
		t.Fatalf("patch without catatan: %v", err)
	}
	if patched.Catatan == nil || *patched.Catatan != "prioritas" {
		t.Fatalf("absent catatan key must leave the note alone: %+v", patched.Catatan)
	}

	// Explicit null: cleared.
	var null *string
	patched, err = svc.PatchKonsumen(context.Background(), created.ID, domain.KonsumenUpdateRequest{Catatan: &null})
	if err != nil {
		t.Fatalf("patch with null catatan: %v", err)
	}
	if patched.Catatan != nil {
		t.Fatalf("explicit null must clear the note, got %q", *patched.Catatan)
	}
}

func TestListKonsumenSearchIsCaseInsensitive(t *testing.T) {
	svc := newTestService()
	mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")
	mustCreateKonsumen(t, svc, "Rina Wulandari", "rina@example.com")

	for _, term := range []string{"ANDI", "andi", "aNdI"} {
		page, err := svc.ListKonsumen(context.Background(), listParams(1, 10, term, nil))
		if err != nil {
			t.Fatalf("list %q: %v", term, err)
		}
		if len(page.Data) != 1 || page.Data[0].Nama != "Andi Saputra" {
			t.Fatalf("search %q: got %+v", term, page.Data)
		}
	}
}

func TestListKonsumenFilterIdempotent(t *testing.T) {
	svc := newTestService()
	mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")
	mustCreateKonsumen(t, svc, "Rina Wulandari", "rina@example.com")
	mustCreateKonsumen(t, svc, "Joko Prasetyo", "joko@example.com")

	params := listParams(1, 10, "a", map[string]string{"status": domain.KonsumenStatusProspek})
	first, err := svc.ListKonsumen(context.Background(), params)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.ListKonsumen(context.Background(), params)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if first.Total != second.Total || len(first.Data) != len(second.Data) {
		t.Fatalf("filtering is not stable: %d/%d vs %d/%d", first.Total, len(first.Data), second.Total, len(second.Data))
	}
	for i := range first.Data {
		if first.Data[i].ID != second.Data[i].ID {
			t.Fatalf("filter order changed between runs")
		}
	}
}

func TestListPropertyPriceRange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i, harga := range []int64{300_000_000, 600_000_000, 900_000_000} {
		_, err := svc.CreateProperty(ctx, domain.PropertyCreateRequest{
			Kode:   fmt.Sprintf("GK-%03d", i+1),
			Nama:   fmt.Sprintf("Unit %d", i+1),
			Lokasi: "Malang",
			Tipe:   "Rumah",
			Harga:  harga,
		})
		if err != nil {
			t.Fatalf("create property %d: %v", i, err)
		}
	}

	page, err := svc.ListProperty(ctx, listParams(1, 10, "", map[string]string{
		"min_price": "400000000",
		"max_price": "800000000",
	}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Harga != 600_000_000 {
		t.Fatalf("price range filter wrong: %+v", page.Data)
	}

	// Malformed bound: the filter is dropped, not an error.
	page, err = svc.ListProperty(ctx, listParams(1, 10, "", map[string]string{
		"min_price": "banyak",
	}))
	if err != nil {
		t.Fatalf("list with malformed filter: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("malformed min_price must not filter anything: total %d", page.Total)
	}
}

func TestPenjualanStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePenjualan(ctx, domain.PenjualanCreateRequest{
		KonsumenID: 1, PropertyID: 1, SalesID: 1,
		Harga: 850_000_000, Tanggal: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.PenjualanStatusNegotiation {
		t.Fatalf("expected default status Negotiation, got %s", created.Status)
	}

	_, err = svc.UpdatePenjualanStatus(ctx, created.ID, domain.PenjualanStatusRequest{Status: "Cancelled"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msgs := vErr.Fields["status"]
	if len(msgs) != 1 || msgs[0] != "The status must be one of: Negotiation, Pending, Approved." {
		t.Fatalf("unexpected status messages: %v", msgs)
	}

	updated, err := svc.UpdatePenjualanStatus(ctx, created.ID, domain.PenjualanStatusRequest{Status: domain.PenjualanStatusApproved})
	if err != nil {
		t.Fatalf("valid status update: %v", err)
	}
	if updated.Status != domain.PenjualanStatusApproved {
		t.Fatalf("status not applied: %+v", updated)
	}
}

func TestPenjualanDanglingReferencesResolveNull(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	konsumen := mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")
	created, err := svc.CreatePenjualan(ctx, domain.PenjualanCreateRequest{
		KonsumenID: konsumen.ID, PropertyID: 99, SalesID: 99,
		Harga: 850_000_000, Tanggal: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("create penjualan: %v", err)
	}
	if created.Konsumen == nil || created.Konsumen.Nama != "Andi Saputra" {
		t.Fatalf("live reference not resolved: %+v", created.Konsumen)
	}
	if created.Property != nil || created.Sales != nil {
		t.Fatalf("dangling references must be null: %+v", created)
	}

	// Deleting the konsumen afterwards leaves the penjualan readable.
	if _, err := svc.DeleteKonsumen(ctx, konsumen.ID); err != nil {
		t.Fatalf("delete konsumen: %v", err)
	}
	got, err := svc.GetPenjualan(ctx, created.ID)
	if err != nil {
		t.Fatalf("get penjualan after konsumen delete: %v", err)
	}
	if got.Konsumen != nil {
		t.Fatalf("deleted konsumen must resolve null: %+v", got.Konsumen)
	}
}

func TestMarkPesanReadIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePesan(ctx, domain.PesanCreateRequest{
		SenderID: 1, ReceiverID: 2, Subjek: "Follow up", Isi: "Segera",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Dibaca {
		t.Fatal("new pesan must start unread")
	}

	first, err := svc.MarkPesanRead(ctx, created.ID)
	if err != nil || !first.Dibaca {
		t.Fatalf("mark read: %v %+v", err, first)
	}
	second, err := svc.MarkPesanRead(ctx, created.ID)
	if err != nil || !second.Dibaca {
		t.Fatalf("second mark read: %v %+v", err, second)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("idempotent mark read must not bump UpdatedAt again")
	}
}

func TestLeaderboardRanksByAchievement(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i, nama := range []string{"Budi Hartono", "Sari Rahmawati"} {
		if _, err := svc.CreateUser(ctx, domain.UserCreateRequest{
			Username: fmt.Sprintf("sales%d", i+1),
			Password: "rahasia-123",
			Nama:     nama,
			RoleID:   domain.RoleSales,
		}); err != nil {
			t.Fatalf("create user %s: %v", nama, err)
		}
	}

	for salesID, nominal := range map[int]int64{1: 1_000_000_000, 2: 1_000_000_000} {
		if _, err := svc.CreateTarget(ctx, domain.TargetCreateRequest{
			SalesID: salesID, Periode: "2026-08", TargetPenjualan: 2, TargetNominal: nominal,
		}); err != nil {
			t.Fatalf("create target: %v", err)
		}
	}

	// Sales 2 closes more value than sales 1; a Pending sale must not count.
	sales := []struct {
		salesID int
		harga   int64
		status  string
	}{
		{1, 400_000_000, domain.PenjualanStatusApproved},
		{2, 700_000_000, domain.PenjualanStatusApproved},
		{1, 900_000_000, domain.PenjualanStatusPending},
	}
	for _, sl := range sales {
		created, err := svc.CreatePenjualan(ctx, domain.PenjualanCreateRequest{
			KonsumenID: 1, PropertyID: 1, SalesID: sl.salesID,
			Harga: sl.harga, Tanggal: "2026-08-10",
		})
		if err != nil {
			t.Fatalf("create penjualan: %v", err)
		}
		if sl.status != domain.PenjualanStatusNegotiation {
			if _, err := svc.UpdatePenjualanStatus(ctx, created.ID, domain.PenjualanStatusRequest{Status: sl.status}); err != nil {
				t.Fatalf("set status: %v", err)
			}
		}
	}

	entries, err := svc.Leaderboard(ctx, "2026-08")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SalesID != 2 || entries[0].TotalNominal != 700_000_000 {
		t.Fatalf("wrong leader: %+v", entries[0])
	}
	if entries[1].SalesID != 1 || entries[1].TotalNominal != 400_000_000 || entries[1].TotalPenjualan != 1 {
		t.Fatalf("wrong runner-up: %+v", entries[1])
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, domain.UserCreateRequest{
		Username: "Budi",
		Password: "rahasia-123",
		Nama:     "Budi Hartono",
		RoleID:   domain.RoleSales,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Username != "budi" {
		t.Fatalf("username not normalized: %q", created.Username)
	}
	if created.Password == "rahasia-123" || created.Password == "" {
		t.Fatal("password stored in plaintext")
	}

	_, err = svc.CreateUser(ctx, domain.UserCreateRequest{
		Username: "BUDI", Password: "rahasia-456", Nama: "Duplikat", RoleID: domain.RoleSales,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for duplicate username, got %v", err)
	}
	if msgs := vErr.Fields["username"]; len(msgs) != 1 || msgs[0] != "The username has already been taken." {
		t.Fatalf("unexpected username messages: %v", msgs)
	}
}

func TestDashboardSummaryCounts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	mustCreateKonsumen(t, svc, "Andi Saputra", "andi@example.com")
	if _, err := svc.CreateProperty(ctx, domain.PropertyCreateRequest{
		Kode: "GK-001", Nama: "Unit 1", Lokasi: "Malang", Tipe: "Rumah", Harga: 500_000_000,
	}); err != nil {
		t.Fatalf("create property: %v", err)
	}
	created, err := svc.CreatePenjualan(ctx, domain.PenjualanCreateRequest{
		KonsumenID: 1, PropertyID: 1, SalesID: 1,
		Harga: 500_000_000, DiskonPersen: 10, Tanggal: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("create penjualan: %v", err)
	}
	if _, err := svc.UpdatePenjualanStatus(ctx, created.ID, domain.PenjualanStatusRequest{Status: domain.PenjualanStatusApproved}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	summary, err := svc.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalKonsumen != 1 || summary.TotalProperty != 1 || summary.TotalPenjualan != 1 {
		t.Fatalf("wrong totals: %+v", summary)
	}
	if summary.PenjualanByStatus[domain.PenjualanStatusApproved] != 1 {
		t.Fatalf("approved count wrong: %+v", summary.PenjualanByStatus)
	}
	if summary.NilaiApproved != 450_000_000 {
		t.Fatalf("approved value must net the discount: %d", summary.NilaiApproved)
	}
}

func TestGetMissingRecordsReturnNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.GetKonsumen(ctx, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("konsumen: %v", err)
	}
	if _, err := svc.GetPenjualan(ctx, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("penjualan: %v", err)
	}
	if _, err := svc.DeleteTarget(ctx, 42); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("target: %v", err)
	}
}
