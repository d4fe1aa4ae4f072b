package service

import (
	"context"
	"errors"
	"strings"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
	"gokandara/backend/internal/store"
)

var konsumenStatuses = []string{
	domain.KonsumenStatusProspek,
	domain.KonsumenStatusNegosiasi,
	domain.KonsumenStatusDeal,
	domain.KonsumenStatusBatal,
}

func validKonsumenStatus(status string) bool {
	for _, s := range konsumenStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *Service) ListKonsumen(ctx context.Context, p ListParams) (pagination.Page[domain.Konsumen], error) {
	rows, err := s.repo.ListKonsumen(ctx)
	if err != nil {
		return pagination.Page[domain.Konsumen]{}, err
	}

	status, filterStatus := p.filter("status")
	rows = keep(rows, func(k domain.Konsumen) bool {
		if !matchSearch(p.Search, k.Nama, k.Email, k.Telepon, k.Alamat) {
			return false
		}
		if filterStatus && k.Status != status {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetKonsumen(ctx context.Context, id int) (*domain.Konsumen, error) {
	return s.repo.GetKonsumenByID(ctx, id)
}

// konsumenEmailTaken reports whether another konsumen record already uses
// the email. excludeID skips the record being updated.
func (s *Service) konsumenEmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	existing, err := s.repo.FindKonsumenByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}

func (s *Service) validateKonsumen(ctx context.Context, req domain.KonsumenCreateRequest, excludeID int) (*domain.KonsumenCreateRequest, error) {
	req.Nama = strings.TrimSpace(req.Nama)
	req.Telepon = strings.TrimSpace(req.Telepon)
	req.Email = strings.TrimSpace(req.Email)
	req.Alamat = strings.TrimSpace(req.Alamat)
	req.Status = strings.TrimSpace(req.Status)

	vErr := newValidation()
	if req.Nama == "" {
		vErr.add("nama", requiredMessage("nama"))
	}
	if req.Telepon == "" {
		vErr.add("telepon", requiredMessage("telepon"))
	}
	if req.Alamat == "" {
		vErr.add("alamat", requiredMessage("alamat"))
	}
	switch {
	case req.Email == "":
		vErr.add("email", requiredMessage("email"))
	case !strings.Contains(req.Email, "@"):
		vErr.add("email", "The email must be a valid email address.")
	default:
		taken, err := s.konsumenEmailTaken(ctx, req.Email, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			vErr.add("email", takenMessage("email"))
		}
	}
	if req.Status == "" {
		req.Status = domain.KonsumenStatusProspek
	} else if !validKonsumenStatus(req.Status) {
		vErr.add("status", invalidChoiceMessage("status", konsumenStatuses))
	}

	if vErr.failed() {
		return nil, vErr
	}
	return &req, nil
}

func (s *Service) CreateKonsumen(ctx context.Context, req domain.KonsumenCreateRequest) (*domain.Konsumen, error) {
	clean, err := s.validateKonsumen(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateKonsumen(ctx, domain.Konsumen{
		Nama:    clean.Nama,
		Telepon: clean.Telepon,
		Email:   clean.Email,
		Alamat:  clean.Alamat,
		Status:  clean.Status,
		NoKTP:   strings.TrimSpace(clean.NoKTP),
		Catatan: clean.Catatan,
	})
}

// ReplaceKonsumen is the PUT semantics: the full required field set is
// revalidated and the stored record is overwritten.
func (s *Service) ReplaceKonsumen(ctx context.Context, id int, req domain.KonsumenCreateRequest) (*domain.Konsumen, error) {
	existing, err := s.repo.GetKonsumenByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clean, err := s.validateKonsumen(ctx, req, id)
	if err != nil {
		return nil, err
	}

	existing.Nama = clean.Nama
	existing.Telepon = clean.Telepon
	existing.Email = clean.Email
	existing.Alamat = clean.Alamat
	existing.Status = clean.Status
	existing.NoKTP = strings.TrimSpace(clean.NoKTP)
	existing.Catatan = clean.Catatan
	return s.repo.UpdateKonsumen(ctx, *existing)
}

// PatchKonsumen merges only the fields the client explicitly sent. A nil
// pointer means "leave alone"; Catatan distinguishes absent (nil) from an
// explicit null (non-nil pointing at nil), which clears the note.
func (s *Service) PatchKonsumen(ctx context.Context, id int, req domain.KonsumenUpdateRequest) (*domain.Konsumen, error) {
	existing, err := s.repo.GetKonsumenByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vErr := newValidation()
	if req.Nama != nil {
		if v := strings.TrimSpace(*req.Nama); v == "" {
			vErr.add("nama", requiredMessage("nama"))
		} else {
			existing.Nama = v
		}
	}
	if req.Telepon != nil {
		if v := strings.TrimSpace(*req.Telepon); v == "" {
			vErr.add("telepon", requiredMessage("telepon"))
		} else {
			existing.Telepon = v
		}
	}
	if req.Alamat != nil {
		if v := strings.TrimSpace(*req.Alamat); v == "" {
			vErr.add("alamat", requiredMessage("alamat"))
		} else {
			existing.Alamat = v
		}
	}
	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		switch {
		case v == "":
			vErr.add("email", requiredMessage("email"))
		case !strings.Contains(v, "@"):
			vErr.add("email", "The email must be a valid email address.")
		default:
			taken, err := s.konsumenEmailTaken(ctx, v, id)
			if err != nil {
				return nil, err
			}
			if taken {
				vErr.add("email", takenMessage("email"))
			} else {
				existing.Email = v
			}
		}
	}
	if req.Status != nil {
		v := strings.TrimSpace(*req.Status)
		if !validKonsumenStatus(v) {
			vErr.add("status", invalidChoiceMessage("status", konsumenStatuses))
		} else {
			existing.Status = v
		}
	}
	if req.NoKTP != nil {
		existing.NoKTP = strings.TrimSpace(*req.NoKTP)
	}
	if req.Catatan != nil {
		existing.Catatan = *req.Catatan
	}

	if vErr.failed() {
		return nil, vErr
	}
	return s.repo.UpdateKonsumen(ctx, *existing)
}

func (s *Service) DeleteKonsumen(ctx context.Context, id int) (*domain.Konsumen, error) {
	return s.repo.DeleteKonsumen(ctx, id)
}
