package service

import (
	"context"
	"errors"
	"strings"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
	"gokandara/backend/internal/store"
)

var propertyTipes = []string{"Rumah", "Ruko", "Kavling", "Apartemen"}

var propertyStatuses = []string{
	domain.PropertyStatusAvailable,
	domain.PropertyStatusReserved,
	domain.PropertyStatusSold,
}

func inChoices(v string, choices []string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

func (s *Service) ListProperty(ctx context.Context, p ListParams) (pagination.Page[domain.Property], error) {
	rows, err := s.repo.ListProperty(ctx)
	if err != nil {
		return pagination.Page[domain.Property]{}, err
	}

	status, filterStatus := p.filter("status")
	tipe, filterTipe := p.filter("tipe")
	lokasi, filterLokasi := p.filter("lokasi")
	minPrice, filterMin := int64Filter(p, "min_price")
	maxPrice, filterMax := int64Filter(p, "max_price")

	rows = keep(rows, func(pr domain.Property) bool {
		if !matchSearch(p.Search, pr.Kode, pr.Nama, pr.Lokasi) {
			return false
		}
		if filterStatus && pr.Status != status {
			return false
		}
		if filterTipe && pr.Tipe != tipe {
			return false
		}
		if filterLokasi && !strings.EqualFold(pr.Lokasi, lokasi) {
			return false
		}
		if filterMin && pr.Harga < minPrice {
			return false
		}
		if filterMax && pr.Harga > maxPrice {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetProperty(ctx context.Context, id int) (*domain.Property, error) {
	return s.repo.GetPropertyByID(ctx, id)
}

func (s *Service) propertyKodeTaken(ctx context.Context, kode string, excludeID int) (bool, error) {
	existing, err := s.repo.FindPropertyByKode(ctx, kode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (s *Service) validateProperty(ctx context.Context, req domain.PropertyCreateRequest, excludeID int) (*domain.PropertyCreateRequest, error) {
	req.Kode = strings.ToUpper(strings.TrimSpace(req.Kode))
	req.Nama = strings.TrimSpace(req.Nama)
	req.Lokasi = strings.TrimSpace(req.Lokasi)
	req.Tipe = strings.TrimSpace(req.Tipe)
	req.Status = strings.TrimSpace(req.Status)

	vErr := newValidation()
	switch {
	case req.Kode == "":
		vErr.add("kode", requiredMessage("kode"))
	default:
		taken, err := s.propertyKodeTaken(ctx, req.Kode, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			vErr.add("kode", takenMessage("kode"))
		}
	}
	if req.Nama == "" {
		vErr.add("nama", requiredMessage("nama"))
	}
	if req.Lokasi == "" {
		vErr.add("lokasi", requiredMessage("lokasi"))
	}
	if req.Tipe == "" {
		vErr.add("tipe", requiredMessage("tipe"))
	} else if !inChoices(req.Tipe, propertyTipes) {
		vErr.add("tipe", invalidChoiceMessage("tipe", propertyTipes))
	}
	if req.Harga < 1 {
		vErr.add("harga", requiredMessage("harga"))
	}
	if req.LuasTanah < 0 {
		vErr.add("luas_tanah", "The luas_tanah must be at least 0.")
	}
	if req.LuasBangunan < 0 {
		vErr.add("luas_bangunan", "The luas_bangunan must be at least 0.")
	}
	if req.Status == "" {
		req.Status = domain.PropertyStatusAvailable
	} else if !inChoices(req.Status, propertyStatuses) {
		vErr.add("status", invalidChoiceMessage("status", propertyStatuses))
	}

	if vErr.failed() {
		return nil, vErr
	}
	return &req, nil
}

func (s *Service) CreateProperty(ctx context.Context, req domain.PropertyCreateRequest) (*domain.Property, error) {
	clean, err := s.validateProperty(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateProperty(ctx, domain.Property{
		Kode:         clean.Kode,
		Nama:         clean.Nama,
		Lokasi:       clean.Lokasi,
		Tipe:         clean.Tipe,
		Harga:        clean.Harga,
		LuasTanah:    clean.LuasTanah,
		LuasBangunan: clean.LuasBangunan,
		Status:       clean.Status,
		Deskripsi:    clean.Deskripsi,
	})
}

func (s *Service) ReplaceProperty(ctx context.Context, id int, req domain.PropertyCreateRequest) (*domain.Property, error) {
	existing, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clean, err := s.validateProperty(ctx, req, id)
	if err != nil {
		return nil, err
	}

	existing.Kode = clean.Kode
	existing.Nama = clean.Nama
	existing.Lokasi = clean.Lokasi
	existing.Tipe = clean.Tipe
	existing.Harga = clean.Harga
	existing.LuasTanah = clean.LuasTanah
	existing.LuasBangunan = clean.LuasBangunan
	existing.Status = clean.Status
	existing.Deskripsi = clean.Deskripsi
	return s.repo.UpdateProperty(ctx, *existing)
}

func (s *Service) PatchProperty(ctx context.Context, id int, req domain.PropertyUpdateRequest) (*domain.Property, error) {
	existing, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vErr := newValidation()
	if req.Kode != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.Kode))
		switch {
		case v == "":
			vErr.add("kode", requiredMessage("kode"))
		default:
			taken, err := s.propertyKodeTaken(ctx, v, id)
			if err != nil {
				return nil, err
			}
			if taken {
				vErr.add("kode", takenMessage("kode"))
			} else {
				existing.Kode = v
			}
		}
	}
	if req.Nama != nil {
		if v := strings.TrimSpace(*req.Nama); v == "" {
			vErr.add("nama", requiredMessage("nama"))
		} else {
			existing.Nama = v
		}
	}
	if req.Lokasi != nil {
		if v := strings.TrimSpace(*req.Lokasi); v == "" {
			vErr.add("lokasi", requiredMessage("lokasi"))
		} else {
			existing.Lokasi = v
		}
	}
	if req.Tipe != nil {
		v := strings.TrimSpace(*req.Tipe)
		if !inChoices(v, propertyTipes) {
			vErr.add("tipe", invalidChoiceMessage("tipe", propertyTipes))
		} else {
			existing.Tipe = v
		}
	}
	if req.Harga != nil {
		if *req.Harga < 1 {
			vErr.add("harga", "The harga must be at least 1.")
		} else {
			existing.Harga = *req.Harga
		}
	}
	if req.LuasTanah != nil {
		if *req.LuasTanah < 0 {
			vErr.add("luas_tanah", "The luas_tanah must be at least 0.")
		} else {
			existing.LuasTanah = *req.LuasTanah
		}
	}
	if req.LuasBangunan != nil {
		if *req.LuasBangunan < 0 {
			vErr.add("luas_bangunan", "The luas_bangunan must be at least 0.")
		} else {
			existing.LuasBangunan = *req.LuasBangunan
		}
	}
	if req.Status != nil {
		v := strings.TrimSpace(*req.Status)
		if !inChoices(v, propertyStatuses) {
			vErr.add("status", invalidChoiceMessage("status", propertyStatuses))
		} else {
			existing.Status = v
		}
	}
	if req.Deskripsi != nil {
		existing.Deskripsi = *req.Deskripsi
	}

	if vErr.failed() {
		return nil, vErr
	}
	return s.repo.UpdateProperty(ctx, *existing)
}

func (s *Service) DeleteProperty(ctx context.Context, id int) (*domain.Property, error) {
	return s.repo.DeleteProperty(ctx, id)
}
