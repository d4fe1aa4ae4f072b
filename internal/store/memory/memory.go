package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/store"
)

// record constrains a table's element to a pointer type exposing the shared
// RecordMeta, which the table uses to assign ids and maintain timestamps.
type record[T any] interface {
	*T
	Meta() *domain.RecordMeta
}

// table is one insertion-ordered entity collection. The id counter only
// moves forward: deleting a record never frees its id for reuse.
type table[T any, PT record[T]] struct {
	nextID int
	rows   []T
}

func newTable[T any, PT record[T]](seed int) *table[T, PT] {
	if seed < 1 {
		seed = 1
	}
	return &table[T, PT]{nextID: seed}
}

func (t *table[T, PT]) all() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *table[T, PT]) byID(id int) (T, bool) {
	for i := range t.rows {
		if PT(&t.rows[i]).Meta().ID == id {
			return t.rows[i], true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T, PT]) insert(rec T, now time.Time) T {
	meta := PT(&rec).Meta()
	meta.ID = t.nextID
	t.nextID++
	meta.CreatedAt = now
	meta.UpdatedAt = now
	t.rows = append(t.rows, rec)
	return rec
}

// replace swaps the stored row with rec (matched by id), preserving
// CreatedAt and bumping UpdatedAt.
func (t *table[T, PT]) replace(rec T, now time.Time) (T, bool) {
	id := PT(&rec).Meta().ID
	for i := range t.rows {
		existing := PT(&t.rows[i]).Meta()
		if existing.ID == id {
			meta := PT(&rec).Meta()
			meta.CreatedAt = existing.CreatedAt
			meta.UpdatedAt = now
			t.rows[i] = rec
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T, PT]) remove(id int) (T, bool) {
	for i := range t.rows {
		if PT(&t.rows[i]).Meta().ID == id {
			removed := t.rows[i]
			t.rows = slices.Delete(t.rows, i, i+1)
			return removed, true
		}
	}
	var zero T
	return zero, false
}

// Store is the in-process repository backing demo deployments and tests.
// One RWMutex guards every table, so individual operations are atomic with
// respect to each other. State does not survive a restart and must not be
// shared across instances.
type Store struct {
	mu         sync.RWMutex
	konsumen   *table[domain.Konsumen, *domain.Konsumen]
	property   *table[domain.Property, *domain.Property]
	penjualan  *table[domain.Penjualan, *domain.Penjualan]
	pesan      *table[domain.Pesan, *domain.Pesan]
	notifikasi *table[domain.Notifikasi, *domain.Notifikasi]
	target     *table[domain.Target, *domain.Target]
	users      *table[domain.User, *domain.User]
}

// New returns an empty store whose id counters all start at idSeed
// (minimum 1). Tests use this to build isolated instances.
func New(idSeed int) *Store {
	return &Store{
		konsumen:   newTable[domain.Konsumen, *domain.Konsumen](idSeed),
		property:   newTable[domain.Property, *domain.Property](idSeed),
		penjualan:  newTable[domain.Penjualan, *domain.Penjualan](idSeed),
		pesan:      newTable[domain.Pesan, *domain.Pesan](idSeed),
		notifikasi: newTable[domain.Notifikasi, *domain.Notifikasi](idSeed),
		target:     newTable[domain.Target, *domain.Target](idSeed),
		users:      newTable[domain.User, *domain.User](idSeed),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewSeeded builds a store pre-populated with demo data for local/dev
// deployments. Staff credentials come from SEED_ADMIN_PASSWORD and
// SEED_SALES_PASSWORD; hardcoded dev defaults are used with a warning when
// unset (production deployments run against postgres instead).
func NewSeeded() *Store {
	s := New(1)
	now := time.Now().UTC()
	ctx := context.Background()

	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	salesPwd := envOr("SEED_SALES_PASSWORD", "sales123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_SALES_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_SALES_PASSWORD to override.")
	}

	for _, u := range []struct {
		username string
		password string
		nama     string
		roleID   int
	}{
		{"admin", adminPwd, "Administrator", domain.RoleAdmin},
		{"dewi", salesPwd, "Dewi Lestari", domain.RoleSupervisor},
		{"budi", salesPwd, "Budi Hartono", domain.RoleSales},
		{"sari", salesPwd, "Sari Rahmawati", domain.RoleSales},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		if _, err := s.CreateUser(ctx, domain.User{
			Username: u.username,
			Password: string(hash),
			Nama:     u.nama,
			RoleID:   u.roleID,
			Active:   true,
		}); err != nil {
			log.Fatalf("[memory-store] seed user %s: %v", u.username, err)
		}
	}

	for _, k := range []domain.Konsumen{
		{Nama: "Andi Saputra", Telepon: "081234567801", Email: "andi.saputra@example.com", Alamat: "Jl. Merdeka No. 12, Malang", Status: domain.KonsumenStatusProspek},
		{Nama: "Rina Wulandari", Telepon: "081234567802", Email: "rina.w@example.com", Alamat: "Jl. Ijen No. 4, Malang", Status: domain.KonsumenStatusNegosiasi},
		{Nama: "Joko Prasetyo", Telepon: "081234567803", Email: "joko.p@example.com", Alamat: "Jl. Soekarno Hatta 88, Malang", Status: domain.KonsumenStatusDeal},
		{Nama: "Maya Anggraini", Telepon: "081234567804", Email: "maya.a@example.com", Alamat: "Jl. Veteran No. 3, Surabaya", Status: domain.KonsumenStatusProspek},
		{Nama: "Hendra Gunawan", Telepon: "081234567805", Email: "hendra.g@example.com", Alamat: "Jl. Diponegoro 21, Batu", Status: domain.KonsumenStatusBatal},
	} {
		if _, err := s.CreateKonsumen(ctx, k); err != nil {
			log.Fatalf("[memory-store] seed konsumen %s: %v", k.Nama, err)
		}
	}

	for _, p := range []domain.Property{
		{Kode: "GK-R-001", Nama: "Graha Kandara Cluster A1", Lokasi: "Malang", Tipe: "Rumah", Harga: 850_000_000, LuasTanah: 120, LuasBangunan: 90, Status: domain.PropertyStatusAvailable},
		{Kode: "GK-R-002", Nama: "Graha Kandara Cluster A2", Lokasi: "Malang", Tipe: "Rumah", Harga: 920_000_000, LuasTanah: 136, LuasBangunan: 100, Status: domain.PropertyStatusReserved},
		{Kode: "GK-K-001", Nama: "Kavling Kandara Hill 1", Lokasi: "Batu", Tipe: "Kavling", Harga: 350_000_000, LuasTanah: 150, Status: domain.PropertyStatusAvailable},
		{Kode: "GK-S-001", Nama: "Ruko Kandara Boulevard 1", Lokasi: "Malang", Tipe: "Ruko", Harga: 1_250_000_000, LuasTanah: 90, LuasBangunan: 180, Status: domain.PropertyStatusAvailable},
		{Kode: "GK-A-001", Nama: "Kandara Apartemen Tower B 12-08", Lokasi: "Surabaya", Tipe: "Apartemen", Harga: 650_000_000, LuasBangunan: 45, Status: domain.PropertyStatusSold},
	} {
		if _, err := s.CreateProperty(ctx, p); err != nil {
			log.Fatalf("[memory-store] seed property %s: %v", p.Kode, err)
		}
	}

	for _, p := range []domain.Penjualan{
		{KonsumenID: 3, PropertyID: 5, SalesID: 3, Harga: 650_000_000, Status: domain.PenjualanStatusApproved, Tanggal: now.AddDate(0, 0, -20)},
		{KonsumenID: 2, PropertyID: 2, SalesID: 3, Harga: 920_000_000, DiskonPersen: 2.5, Status: domain.PenjualanStatusPending, Tanggal: now.AddDate(0, 0, -6)},
		{KonsumenID: 1, PropertyID: 1, SalesID: 4, Harga: 850_000_000, Status: domain.PenjualanStatusNegotiation, Tanggal: now.AddDate(0, 0, -2)},
	} {
		if _, err := s.CreatePenjualan(ctx, p); err != nil {
			log.Fatalf("[memory-store] seed penjualan: %v", err)
		}
	}

	periode := now.Format("2006-01")
	for _, t := range []domain.Target{
		{SalesID: 3, Periode: periode, TargetPenjualan: 3, TargetNominal: 2_500_000_000},
		{SalesID: 4, Periode: periode, TargetPenjualan: 2, TargetNominal: 1_800_000_000},
	} {
		if _, err := s.CreateTarget(ctx, t); err != nil {
			log.Fatalf("[memory-store] seed target: %v", err)
		}
	}

	if _, err := s.CreatePesan(ctx, domain.Pesan{
		SenderID: 2, ReceiverID: 3, Subjek: "Follow up Rina Wulandari",
		Isi: "Tolong follow up negosiasi cluster A2 minggu ini.",
	}); err != nil {
		log.Fatalf("[memory-store] seed pesan: %v", err)
	}
	if _, err := s.CreateNotifikasi(ctx, domain.Notifikasi{
		UserID: 3, Judul: "Penjualan disetujui", Isi: "Penjualan unit GK-A-001 telah disetujui.",
	}); err != nil {
		log.Fatalf("[memory-store] seed notifikasi: %v", err)
	}

	return s
}

func cloneKonsumen(k domain.Konsumen) domain.Konsumen {
	if k.Catatan != nil {
		catatan := *k.Catatan
		k.Catatan = &catatan
	}
	return k
}

func cloneProperty(p domain.Property) domain.Property {
	if p.Deskripsi != nil {
		deskripsi := *p.Deskripsi
		p.Deskripsi = &deskripsi
	}
	return p
}

func (s *Store) ListKonsumen(_ context.Context) ([]domain.Konsumen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.konsumen.all()
	for i := range rows {
		rows[i] = cloneKonsumen(rows[i])
	}
	return rows, nil
}

func (s *Store) GetKonsumenByID(_ context.Context, id int) (*domain.Konsumen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.konsumen.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	copyK := cloneKonsumen(k)
	return &copyK, nil
}

func (s *Store) FindKonsumenByEmail(_ context.Context, email string) (*domain.Konsumen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.konsumen.rows {
		if strings.EqualFold(k.Email, email) {
			copyK := cloneKonsumen(k)
			return &copyK, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateKonsumen(_ context.Context, k domain.Konsumen) (*domain.Konsumen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.konsumen.rows {
		if strings.EqualFold(existing.Email, k.Email) {
			return nil, store.ErrConflict
		}
	}
	created := cloneKonsumen(s.konsumen.insert(cloneKonsumen(k), time.Now().UTC()))
	return &created, nil
}

func (s *Store) UpdateKonsumen(_ context.Context, k domain.Konsumen) (*domain.Konsumen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.konsumen.rows {
		if existing.ID != k.ID && strings.EqualFold(existing.Email, k.Email) {
			return nil, store.ErrConflict
		}
	}
	updated, ok := s.konsumen.replace(cloneKonsumen(k), time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	copyK := cloneKonsumen(updated)
	return &copyK, nil
}

func (s *Store) DeleteKonsumen(_ context.Context, id int) (*domain.Konsumen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.konsumen.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	copyK := cloneKonsumen(removed)
	return &copyK, nil
}

func (s *Store) ListProperty(_ context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.property.all()
	for i := range rows {
		rows[i] = cloneProperty(rows[i])
	}
	return rows, nil
}

func (s *Store) GetPropertyByID(_ context.Context, id int) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.property.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	copyP := cloneProperty(p)
	return &copyP, nil
}

func (s *Store) FindPropertyByKode(_ context.Context, kode string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.property.rows {
		if strings.EqualFold(p.Kode, kode) {
			copyP := cloneProperty(p)
			return &copyP, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProperty(_ context.Context, p domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.property.rows {
		if strings.EqualFold(existing.Kode, p.Kode) {
			return nil, store.ErrConflict
		}
	}
	created := cloneProperty(s.property.insert(cloneProperty(p), time.Now().UTC()))
	return &created, nil
}

func (s *Store) UpdateProperty(_ context.Context, p domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.property.rows {
		if existing.ID != p.ID && strings.EqualFold(existing.Kode, p.Kode) {
			return nil, store.ErrConflict
		}
	}
	updated, ok := s.property.replace(cloneProperty(p), time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	copyP := cloneProperty(updated)
	return &copyP, nil
}

func (s *Store) DeleteProperty(_ context.Context, id int) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.property.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	copyP := cloneProperty(removed)
	return &copyP, nil
}

func (s *Store) ListPenjualan(_ context.Context) ([]domain.Penjualan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.penjualan.all(), nil
}

func (s *Store) GetPenjualanByID(_ context.Context, id int) (*domain.Penjualan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.penjualan.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreatePenjualan(_ context.Context, p domain.Penjualan) (*domain.Penjualan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.penjualan.insert(p, time.Now().UTC())
	return &created, nil
}

func (s *Store) UpdatePenjualan(_ context.Context, p domain.Penjualan) (*domain.Penjualan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.penjualan.replace(p, time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	return &updated, nil
}

func (s *Store) DeletePenjualan(_ context.Context, id int) (*domain.Penjualan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.penjualan.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &removed, nil
}

func (s *Store) ListPesan(_ context.Context) ([]domain.Pesan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pesan.all(), nil
}

func (s *Store) GetPesanByID(_ context.Context, id int) (*domain.Pesan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pesan.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreatePesan(_ context.Context, p domain.Pesan) (*domain.Pesan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.pesan.insert(p, time.Now().UTC())
	return &created, nil
}

func (s *Store) UpdatePesan(_ context.Context, p domain.Pesan) (*domain.Pesan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.pesan.replace(p, time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	return &updated, nil
}

func (s *Store) DeletePesan(_ context.Context, id int) (*domain.Pesan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.pesan.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &removed, nil
}

func (s *Store) ListNotifikasi(_ context.Context) ([]domain.Notifikasi, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifikasi.all(), nil
}

func (s *Store) GetNotifikasiByID(_ context.Context, id int) (*domain.Notifikasi, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifikasi.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (s *Store) CreateNotifikasi(_ context.Context, n domain.Notifikasi) (*domain.Notifikasi, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.notifikasi.insert(n, time.Now().UTC())
	return &created, nil
}

func (s *Store) UpdateNotifikasi(_ context.Context, n domain.Notifikasi) (*domain.Notifikasi, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.notifikasi.replace(n, time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	return &updated, nil
}

func (s *Store) DeleteNotifikasi(_ context.Context, id int) (*domain.Notifikasi, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.notifikasi.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &removed, nil
}

func (s *Store) ListTarget(_ context.Context) ([]domain.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target.all(), nil
}

func (s *Store) GetTargetByID(_ context.Context, id int) (*domain.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.target.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) CreateTarget(_ context.Context, t domain.Target) (*domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.target.insert(t, time.Now().UTC())
	return &created, nil
}

func (s *Store) UpdateTarget(_ context.Context, t domain.Target) (*domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.target.replace(t, time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	return &updated, nil
}

func (s *Store) DeleteTarget(_ context.Context, id int) (*domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.target.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &removed, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.all(), nil
}

func (s *Store) GetUserByID(_ context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users.byID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users.rows {
		if strings.EqualFold(u.Username, username) {
			copyU := u
			return &copyU, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" || strings.TrimSpace(u.Password) == "" {
		return nil, store.ErrInvalidInput
	}
	for _, existing := range s.users.rows {
		if existing.Username == u.Username {
			return nil, store.ErrConflict
		}
	}
	created := s.users.insert(u, time.Now().UTC())
	return &created, nil
}

func (s *Store) UpdateUser(_ context.Context, u domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, ok := s.users.replace(u, time.Now().UTC())
	if !ok {
		return nil, store.ErrNotFound
	}
	return &updated, nil
}

func (s *Store) DeleteUser(_ context.Context, id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.users.remove(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &removed, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	for i := range s.users.rows {
		if s.users.rows[i].Username == username {
			s.users.rows[i].Password = password
			s.users.rows[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return store.ErrNotFound
}
