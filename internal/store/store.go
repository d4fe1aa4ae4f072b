package store

import (
	"context"
	"errors"

	"gokandara/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the storage boundary shared by the in-memory and postgres
// implementations. List operations return a snapshot copy in insertion
// order; Get/Update/Delete report a missing id as ErrNotFound, never a
// panic. Delete returns the removed snapshot so the caller can echo it back.
type Repository interface {
	ListKonsumen(ctx context.Context) ([]domain.Konsumen, error)
	GetKonsumenByID(ctx context.Context, id int) (*domain.Konsumen, error)
	FindKonsumenByEmail(ctx context.Context, email string) (*domain.Konsumen, error)
	CreateKonsumen(ctx context.Context, k domain.Konsumen) (*domain.Konsumen, error)
	UpdateKonsumen(ctx context.Context, k domain.Konsumen) (*domain.Konsumen, error)
	DeleteKonsumen(ctx context.Context, id int) (*domain.Konsumen, error)

	ListProperty(ctx context.Context) ([]domain.Property, error)
	GetPropertyByID(ctx context.Context, id int) (*domain.Property, error)
	FindPropertyByKode(ctx context.Context, kode string) (*domain.Property, error)
	CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error)
	UpdateProperty(ctx context.Context, p domain.Property) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id int) (*domain.Property, error)

	ListPenjualan(ctx context.Context) ([]domain.Penjualan, error)
	GetPenjualanByID(ctx context.Context, id int) (*domain.Penjualan, error)
	CreatePenjualan(ctx context.Context, p domain.Penjualan) (*domain.Penjualan, error)
	UpdatePenjualan(ctx context.Context, p domain.Penjualan) (*domain.Penjualan, error)
	DeletePenjualan(ctx context.Context, id int) (*domain.Penjualan, error)

	ListPesan(ctx context.Context) ([]domain.Pesan, error)
	GetPesanByID(ctx context.Context, id int) (*domain.Pesan, error)
	CreatePesan(ctx context.Context, p domain.Pesan) (*domain.Pesan, error)
	UpdatePesan(ctx context.Context, p domain.Pesan) (*domain.Pesan, error)
	DeletePesan(ctx context.Context, id int) (*domain.Pesan, error)

	ListNotifikasi(ctx context.Context) ([]domain.Notifikasi, error)
	GetNotifikasiByID(ctx context.Context, id int) (*domain.Notifikasi, error)
	CreateNotifikasi(ctx context.Context, n domain.Notifikasi) (*domain.Notifikasi, error)
	UpdateNotifikasi(ctx context.Context, n domain.Notifikasi) (*domain.Notifikasi, error)
	DeleteNotifikasi(ctx context.Context, id int) (*domain.Notifikasi, error)

	ListTarget(ctx context.Context) ([]domain.Target, error)
	GetTargetByID(ctx context.Context, id int) (*domain.Target, error)
	CreateTarget(ctx context.Context, t domain.Target) (*domain.Target, error)
	UpdateTarget(ctx context.Context, t domain.Target) (*domain.Target, error)
	DeleteTarget(ctx context.Context, id int) (*domain.Target, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
