package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// RecordMeta carries the identity and timestamps shared by every stored
// entity. ID is assigned sequentially by the repository and never reused
// within a process lifetime; CreatedAt is set once, UpdatedAt is bumped on
// every successful mutation.
type RecordMeta struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *RecordMeta) Meta() *RecordMeta { return m }

type Konsumen struct {
	RecordMeta
	Nama    string  `json:"nama"`
	Telepon string  `json:"telepon"`
	Email   string  `json:"email"`
	Alamat  string  `json:"alamat"`
	Status  string  `json:"status"`
	NoKTP   string  `json:"no_ktp,omitempty"`
	Catatan *string `json:"catatan"`
}

type KonsumenCreateRequest struct {
	Nama    string  `json:"nama"`
	Telepon string  `json:"telepon"`
	Email   string  `json:"email"`
	Alamat  string  `json:"alamat"`
	Status  string  `json:"status"`
	NoKTP   string  `json:"no_ktp"`
	Catatan *string `json:"catatan"`
}

// KonsumenUpdateRequest uses pointer fields so a PATCH only touches keys the
// client explicitly sent. An explicit null Catatan clears the note.
type KonsumenUpdateRequest struct {
	Nama    *string  `json:"nama,omitempty"`
	Telepon *string  `json:"telepon,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Alamat  *string  `json:"alamat,omitempty"`
	Status  *string  `json:"status,omitempty"`
	NoKTP   *string  `json:"no_ktp,omitempty"`
	Catatan **string `json:"catatan,omitempty"`
}

// UnmarshalJSON re-reads the catatan key from the raw body. The stock decoder
// collapses an explicit null into the same nil outer pointer as an absent
// key, so presence has to be recovered from the key set.
func (r *KonsumenUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain KonsumenUpdateRequest
	var req plain
	if err := decodeStrict(data, &req); err != nil {
		return err
	}
	*r = KonsumenUpdateRequest(req)
	catatan, err := nullableStringKey(data, "catatan")
	if err != nil {
		return err
	}
	if catatan != nil {
		r.Catatan = catatan
	}
	return nil
}

type Property struct {
	RecordMeta
	Kode         string  `json:"kode"`
	Nama         string  `json:"nama"`
	Lokasi       string  `json:"lokasi"`
	Tipe         string  `json:"tipe"`
	Harga        int64   `json:"harga"`
	LuasTanah    int     `json:"luas_tanah"`
	LuasBangunan int     `json:"luas_bangunan"`
	Status       string  `json:"status"`
	Deskripsi    *string `json:"deskripsi"`
}

type PropertyCreateRequest struct {
	Kode         string  `json:"kode"`
	Nama         string  `json:"nama"`
	Lokasi       string  `json:"lokasi"`
	Tipe         string  `json:"tipe"`
	Harga        int64   `json:"harga"`
	LuasTanah    int     `json:"luas_tanah"`
	LuasBangunan int     `json:"luas_bangunan"`
	Status       string  `json:"status"`
	Deskripsi    *string `json:"deskripsi"`
}

type PropertyUpdateRequest struct {
	Kode         *string  `json:"kode,omitempty"`
	Nama         *string  `json:"nama,omitempty"`
	Lokasi       *string  `json:"lokasi,omitempty"`
	Tipe         *string  `json:"tipe,omitempty"`
	Harga        *int64   `json:"harga,omitempty"`
	LuasTanah    *int     `json:"luas_tanah,omitempty"`
	LuasBangunan *int     `json:"luas_bangunan,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Deskripsi    **string `json:"deskripsi,omitempty"`
}

// UnmarshalJSON recovers deskripsi key presence the same way
// KonsumenUpdateRequest does for catatan.
func (r *PropertyUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain PropertyUpdateRequest
	var req plain
	if err := decodeStrict(data, &req); err != nil {
		return err
	}
	*r = PropertyUpdateRequest(req)
	deskripsi, err := nullableStringKey(data, "deskripsi")
	if err != nil {
		return err
	}
	if deskripsi != nil {
		r.Deskripsi = deskripsi
	}
	return nil
}

func decodeStrict(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// nullableStringKey returns nil when the key is absent, and otherwise a
// non-nil outer pointer whose inner pointer is nil for an explicit null.
func nullableStringKey(data []byte, key string) (**string, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}
	raw, ok := keys[key]
	if !ok {
		return nil, nil
	}
	var val *string
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, err
	}
	return &val, nil
}

type Penjualan struct {
	RecordMeta
	KonsumenID   int       `json:"konsumen_id"`
	PropertyID   int       `json:"property_id"`
	SalesID      int       `json:"sales_id"`
	Harga        int64     `json:"harga"`
	DiskonPersen float64   `json:"diskon_persen"`
	Status       string    `json:"status"`
	Tanggal      time.Time `json:"tanggal"`
}

// PenjualanDetail is the read-time shape: foreign keys resolved against the
// current snapshot of the referenced stores. Dangling references come back
// null; nothing blocks deleting a referenced konsumen or property.
type PenjualanDetail struct {
	Penjualan
	Konsumen *Konsumen `json:"konsumen"`
	Property *Property `json:"property"`
	Sales    *User     `json:"sales"`
}

type PenjualanCreateRequest struct {
	KonsumenID   int     `json:"konsumen_id"`
	PropertyID   int     `json:"property_id"`
	SalesID      int     `json:"sales_id"`
	Harga        int64   `json:"harga"`
	DiskonPersen float64 `json:"diskon_persen"`
	Status       string  `json:"status"`
	Tanggal      string  `json:"tanggal"`
}

type PenjualanUpdateRequest struct {
	KonsumenID   *int     `json:"konsumen_id,omitempty"`
	PropertyID   *int     `json:"property_id,omitempty"`
	SalesID      *int     `json:"sales_id,omitempty"`
	Harga        *int64   `json:"harga,omitempty"`
	DiskonPersen *float64 `json:"diskon_persen,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Tanggal      *string  `json:"tanggal,omitempty"`
}

type PenjualanStatusRequest struct {
	Status string `json:"status"`
}

type Pesan struct {
	RecordMeta
	SenderID   int    `json:"sender_id"`
	ReceiverID int    `json:"receiver_id"`
	Subjek     string `json:"subjek"`
	Isi        string `json:"isi"`
	Dibaca     bool   `json:"dibaca"`
}

type PesanCreateRequest struct {
	SenderID   int    `json:"sender_id"`
	ReceiverID int    `json:"receiver_id"`
	Subjek     string `json:"subjek"`
	Isi        string `json:"isi"`
}

type PesanUpdateRequest struct {
	Subjek *string `json:"subjek,omitempty"`
	Isi    *string `json:"isi,omitempty"`
	Dibaca *bool   `json:"dibaca,omitempty"`
}

type Notifikasi struct {
	RecordMeta
	UserID int    `json:"user_id"`
	Judul  string `json:"judul"`
	Isi    string `json:"isi"`
	Dibaca bool   `json:"dibaca"`
}

type NotifikasiCreateRequest struct {
	UserID int    `json:"user_id"`
	Judul  string `json:"judul"`
	Isi    string `json:"isi"`
}

type Target struct {
	RecordMeta
	SalesID         int    `json:"sales_id"`
	Periode         string `json:"periode"`
	TargetPenjualan int    `json:"target_penjualan"`
	TargetNominal   int64  `json:"target_nominal"`
}

type TargetCreateRequest struct {
	SalesID         int    `json:"sales_id"`
	Periode         string `json:"periode"`
	TargetPenjualan int    `json:"target_penjualan"`
	TargetNominal   int64  `json:"target_nominal"`
}

type TargetUpdateRequest struct {
	SalesID         *int    `json:"sales_id,omitempty"`
	Periode         *string `json:"periode,omitempty"`
	TargetPenjualan *int    `json:"target_penjualan,omitempty"`
	TargetNominal   *int64  `json:"target_nominal,omitempty"`
}

type LeaderboardEntry struct {
	SalesID          int     `json:"sales_id"`
	Nama             string  `json:"nama"`
	Periode          string  `json:"periode"`
	TargetPenjualan  int     `json:"target_penjualan"`
	TargetNominal    int64   `json:"target_nominal"`
	TotalPenjualan   int     `json:"total_penjualan"`
	TotalNominal     int64   `json:"total_nominal"`
	PencapaianPersen float64 `json:"pencapaian_persen"`
}

type User struct {
	RecordMeta
	Username string `json:"username"`
	Password string `json:"-"`
	Nama     string `json:"nama"`
	RoleID   int    `json:"role_id"`
	Active   bool   `json:"active"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nama     string `json:"nama"`
	RoleID   int    `json:"role_id"`
}

type UserUpdateRequest struct {
	Nama   *string `json:"nama,omitempty"`
	RoleID *int    `json:"role_id,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	RoleID      int    `json:"role_id"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	RoleID   int
}

// DashboardSummary is the aggregate block rendered at the top of the
// dashboard. Cheap to recompute but cached anyway because every page load
// requests it.
type DashboardSummary struct {
	TotalKonsumen     int            `json:"total_konsumen"`
	TotalProperty     int            `json:"total_property"`
	PropertyByStatus  map[string]int `json:"property_by_status"`
	TotalPenjualan    int            `json:"total_penjualan"`
	PenjualanByStatus map[string]int `json:"penjualan_by_status"`
	NilaiApproved     int64          `json:"nilai_approved"`
	PesanBelumDibaca  int            `json:"pesan_belum_dibaca"`
	GeneratedAt       string         `json:"generated_at"`
}

const (
	KonsumenStatusProspek   = "Prospek"
	KonsumenStatusNegosiasi = "Negosiasi"
	KonsumenStatusDeal      = "Deal"
	KonsumenStatusBatal     = "Batal"
)

const (
	PropertyStatusAvailable = "Available"
	PropertyStatusReserved  = "Reserved"
	PropertyStatusSold      = "Sold"
)

const (
	PenjualanStatusNegotiation = "Negotiation"
	PenjualanStatusPending     = "Pending"
	PenjualanStatusApproved    = "Approved"
)

// PenjualanStatuses lists the closed enumeration accepted by the status
// sub-resource, in the order they are reported back on a 422.
var PenjualanStatuses = []string{
	PenjualanStatusNegotiation,
	PenjualanStatusPending,
	PenjualanStatusApproved,
}

const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleSales      = 3
)
