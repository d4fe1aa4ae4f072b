package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const konsumenColumns = `id, nama, telepon, email, alamat, status, no_ktp, catatan, created_at, updated_at`

func scanKonsumen(row interface{ Scan(...any) error }) (*domain.Konsumen, error) {
	var k domain.Konsumen
	err := row.Scan(&k.ID, &k.Nama, &k.Telepon, &k.Email, &k.Alamat, &k.Status, &k.NoKTP, &k.Catatan, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (s *Store) ListKonsumen(ctx context.Context) ([]domain.Konsumen, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+konsumenColumns+`
		FROM konsumen
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Konsumen, 0, 64)
	for rows.Next() {
		k, err := scanKonsumen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetKonsumenByID(ctx context.Context, id int) (*domain.Konsumen, error) {
	return scanKonsumen(s.db.QueryRowContext(ctx, `
		SELECT `+konsumenColumns+`
		FROM konsumen
		WHERE id = $1
	`, id))
}

func (s *Store) FindKonsumenByEmail(ctx context.Context, email string) (*domain.Konsumen, error) {
	return scanKonsumen(s.db.QueryRowContext(ctx, `
		SELECT `+konsumenColumns+`
		FROM konsumen
		WHERE lower(email) = lower($1)
	`, email))
}

func (s *Store) CreateKonsumen(ctx context.Context, k domain.Konsumen) (*domain.Konsumen, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO konsumen (nama, telepon, email, alamat, status, no_ktp, catatan, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now(),now())
		RETURNING `+konsumenColumns+`
	`, k.Nama, k.Telepon, k.Email, k.Alamat, k.Status, k.NoKTP, k.Catatan)
	created, err := scanKonsumen(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateKonsumen(ctx context.Context, k domain.Konsumen) (*domain.Konsumen, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE konsumen
		SET nama = $2, telepon = $3, email = $4, alamat = $5, status = $6, no_ktp = $7, catatan = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+konsumenColumns+`
	`, k.ID, k.Nama, k.Telepon, k.Email, k.Alamat, k.Status, k.NoKTP, k.Catatan)
	updated, err := scanKonsumen(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteKonsumen(ctx context.Context, id int) (*domain.Konsumen, error) {
	return scanKonsumen(s.db.QueryRowContext(ctx, `
		DELETE FROM konsumen
		WHERE id = $1
		RETURNING `+konsumenColumns+`
	`, id))
}

const propertyColumns = `id, kode, nama, lokasi, tipe, harga, luas_tanah, luas_bangunan, status, deskripsi, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }) (*domain.Property, error) {
	var p domain.Property
	err := row.Scan(&p.ID, &p.Kode, &p.Nama, &p.Lokasi, &p.Tipe, &p.Harga, &p.LuasTanah, &p.LuasBangunan, &p.Status, &p.Deskripsi, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProperty(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+propertyColumns+`
		FROM property
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Property, 0, 64)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetPropertyByID(ctx context.Context, id int) (*domain.Property, error) {
	return scanProperty(s.db.QueryRowContext(ctx, `
		SELECT `+propertyColumns+`
		FROM property
		WHERE id = $1
	`, id))
}

func (s *Store) FindPropertyByKode(ctx context.Context, kode string) (*domain.Property, error) {
	return scanProperty(s.db.QueryRowContext(ctx, `
		SELECT `+propertyColumns+`
		FROM property
		WHERE lower(kode) = lower($1)
	`, kode))
}

func (s *Store) CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO property (kode, nama, lokasi, tipe, harga, luas_tanah, luas_bangunan, status, deskripsi, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
		RETURNING `+propertyColumns+`
	`, p.Kode, p.Nama, p.Lokasi, p.Tipe, p.Harga, p.LuasTanah, p.LuasBangunan, p.Status, p.Deskripsi)
	created, err := scanProperty(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE property
		SET kode = $2, nama = $3, lokasi = $4, tipe = $5, harga = $6, luas_tanah = $7, luas_bangunan = $8, status = $9, deskripsi = $10, updated_at = now()
		WHERE id = $1
		RETURNING `+propertyColumns+`
	`, p.ID, p.Kode, p.Nama, p.Lokasi, p.Tipe, p.Harga, p.LuasTanah, p.LuasBangunan, p.Status, p.Deskripsi)
	updated, err := scanProperty(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id int) (*domain.Property, error) {
	return scanProperty(s.db.QueryRowContext(ctx, `
		DELETE FROM property
		WHERE id = $1
		RETURNING `+propertyColumns+`
	`, id))
}

const penjualanColumns = `id, konsumen_id, property_id, sales_id, harga, diskon_persen, status, tanggal, created_at, updated_at`

func scanPenjualan(row interface{ Scan(...any) error }) (*domain.Penjualan, error) {
	var p domain.Penjualan
	err := row.Scan(&p.ID, &p.KonsumenID, &p.PropertyID, &p.SalesID, &p.Harga, &p.DiskonPersen, &p.Status, &p.Tanggal, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPenjualan(ctx context.Context) ([]domain.Penjualan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+penjualanColumns+`
		FROM penjualan
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Penjualan, 0, 64)
	for rows.Next() {
		p, err := scanPenjualan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetPenjualanByID(ctx context.Context, id int) (*domain.Penjualan, error) {
	return scanPenjualan(s.db.QueryRowContext(ctx, `
		SELECT `+penjualanColumns+`
		FROM penjualan
		WHERE id = $1
	`, id))
}

func (s *Store) CreatePenjualan(ctx context.Context, p domain.Penjualan) (*domain.Penjualan, error) {
	return scanPenjualan(s.db.QueryRowContext(ctx, `
		INSERT INTO penjualan (konsumen_id, property_id, sales_id, harga, diskon_persen, status, tanggal, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now(),now())
		RETURNING `+penjualanColumns+`
	`, p.KonsumenID, p.PropertyID, p.SalesID, p.Harga, p.DiskonPersen, p.Status, p.Tanggal))
}

func (s *Store) UpdatePenjualan(ctx context.Context, p domain.Penjualan) (*domain.Penjualan, error) {
	return scanPenjualan(s.db.QueryRowContext(ctx, `
		UPDATE penjualan
		SET konsumen_id = $2, property_id = $3, sales_id = $4, harga = $5, diskon_persen = $6, status = $7, tanggal = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+penjualanColumns+`
	`, p.ID, p.KonsumenID, p.PropertyID, p.SalesID, p.Harga, p.DiskonPersen, p.Status, p.Tanggal))
}

func (s *Store) DeletePenjualan(ctx context.Context, id int) (*domain.Penjualan, error) {
	return scanPenjualan(s.db.QueryRowContext(ctx, `
		DELETE FROM penjualan
		WHERE id = $1
		RETURNING `+penjualanColumns+`
	`, id))
}

const pesanColumns = `id, sender_id, receiver_id, subjek, isi, dibaca, created_at, updated_at`

func scanPesan(row interface{ Scan(...any) error }) (*domain.Pesan, error) {
	var p domain.Pesan
	err := row.Scan(&p.ID, &p.SenderID, &p.ReceiverID, &p.Subjek, &p.Isi, &p.Dibaca, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPesan(ctx context.Context) ([]domain.Pesan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pesanColumns+`
		FROM pesan
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Pesan, 0, 64)
	for rows.Next() {
		p, err := scanPesan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetPesanByID(ctx context.Context, id int) (*domain.Pesan, error) {
	return scanPesan(s.db.QueryRowContext(ctx, `
		SELECT `+pesanColumns+`
		FROM pesan
		WHERE id = $1
	`, id))
}

func (s *Store) CreatePesan(ctx context.Context, p domain.Pesan) (*domain.Pesan, error) {
	return scanPesan(s.db.QueryRowContext(ctx, `
		INSERT INTO pesan (sender_id, receiver_id, subjek, isi, dibaca, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now(),now())
		RETURNING `+pesanColumns+`
	`, p.SenderID, p.ReceiverID, p.Subjek, p.Isi, p.Dibaca))
}

func (s *Store) UpdatePesan(ctx context.Context, p domain.Pesan) (*domain.Pesan, error) {
	return scanPesan(s.db.QueryRowContext(ctx, `
		UPDATE pesan
		SET sender_id = $2, receiver_id = $3, subjek = $4, isi = $5, dibaca = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+pesanColumns+`
	`, p.ID, p.SenderID, p.ReceiverID, p.Subjek, p.Isi, p.Dibaca))
}

func (s *Store) DeletePesan(ctx context.Context, id int) (*domain.Pesan, error) {
	return scanPesan(s.db.QueryRowContext(ctx, `
		DELETE FROM pesan
		WHERE id = $1
		RETURNING `+pesanColumns+`
	`, id))
}

const notifikasiColumns = `id, user_id, judul, isi, dibaca, created_at, updated_at`

func scanNotifikasi(row interface{ Scan(...any) error }) (*domain.Notifikasi, error) {
	var n domain.Notifikasi
	err := row.Scan(&n.ID, &n.UserID, &n.Judul, &n.Isi, &n.Dibaca, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListNotifikasi(ctx context.Context) ([]domain.Notifikasi, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notifikasiColumns+`
		FROM notifikasi
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notifikasi, 0, 64)
	for rows.Next() {
		n, err := scanNotifikasi(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetNotifikasiByID(ctx context.Context, id int) (*domain.Notifikasi, error) {
	return scanNotifikasi(s.db.QueryRowContext(ctx, `
		SELECT `+notifikasiColumns+`
		FROM notifikasi
		WHERE id = $1
	`, id))
}

func (s *Store) CreateNotifikasi(ctx context.Context, n domain.Notifikasi) (*domain.Notifikasi, error) {
	return scanNotifikasi(s.db.QueryRowContext(ctx, `
		INSERT INTO notifikasi (user_id, judul, isi, dibaca, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
		RETURNING `+notifikasiColumns+`
	`, n.UserID, n.Judul, n.Isi, n.Dibaca))
}

func (s *Store) UpdateNotifikasi(ctx context.Context, n domain.Notifikasi) (*domain.Notifikasi, error) {
	return scanNotifikasi(s.db.QueryRowContext(ctx, `
		UPDATE notifikasi
		SET user_id = $2, judul = $3, isi = $4, dibaca = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+notifikasiColumns+`
	`, n.ID, n.UserID, n.Judul, n.Isi, n.Dibaca))
}

func (s *Store) DeleteNotifikasi(ctx context.Context, id int) (*domain.Notifikasi, error) {
	return scanNotifikasi(s.db.QueryRowContext(ctx, `
		DELETE FROM notifikasi
		WHERE id = $1
		RETURNING `+notifikasiColumns+`
	`, id))
}

const targetColumns = `id, sales_id, periode, target_penjualan, target_nominal, created_at, updated_at`

func scanTarget(row interface{ Scan(...any) error }) (*domain.Target, error) {
	var t domain.Target
	err := row.Scan(&t.ID, &t.SalesID, &t.Periode, &t.TargetPenjualan, &t.TargetNominal, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTarget(ctx context.Context) ([]domain.Target, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+targetColumns+`
		FROM targets
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Target, 0, 32)
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetTargetByID(ctx context.Context, id int) (*domain.Target, error) {
	return scanTarget(s.db.QueryRowContext(ctx, `
		SELECT `+targetColumns+`
		FROM targets
		WHERE id = $1
	`, id))
}

func (s *Store) CreateTarget(ctx context.Context, t domain.Target) (*domain.Target, error) {
	return scanTarget(s.db.QueryRowContext(ctx, `
		INSERT INTO targets (sales_id, periode, target_penjualan, target_nominal, created_at, updated_at)
		VALUES ($1,$2,$3,$4,now(),now())
		RETURNING `+targetColumns+`
	`, t.SalesID, t.Periode, t.TargetPenjualan, t.TargetNominal))
}

func (s *Store) UpdateTarget(ctx context.Context, t domain.Target) (*domain.Target, error) {
	return scanTarget(s.db.QueryRowContext(ctx, `
		UPDATE targets
		SET sales_id = $2, periode = $3, target_penjualan = $4, target_nominal = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+targetColumns+`
	`, t.ID, t.SalesID, t.Periode, t.TargetPenjualan, t.TargetNominal))
}

func (s *Store) DeleteTarget(ctx context.Context, id int) (*domain.Target, error) {
	return scanTarget(s.db.QueryRowContext(ctx, `
		DELETE FROM targets
		WHERE id = $1
		RETURNING `+targetColumns+`
	`, id))
}

const userColumns = `id, username, password, nama, role_id, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Nama, &u.RoleID, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(username) = lower($1)
	`, username))
}

func (s *Store) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, nama, role_id, active, created_at, updated_at)
		VALUES (lower($1),$2,$3,$4,$5,now(),now())
		RETURNING `+userColumns+`
	`, u.Username, u.Password, u.Nama, u.RoleID, u.Active)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *Store) UpdateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET username = lower($2), password = $3, nama = $4, role_id = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, u.ID, u.Username, u.Password, u.Nama, u.RoleID, u.Active)
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		DELETE FROM users
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id))
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password = $2, updated_at = now()
		WHERE lower(username) = lower($1)
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
