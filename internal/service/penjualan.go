package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
	"gokandara/backend/internal/store"
)

const tanggalLayout = "2006-01-02"

func validPenjualanStatus(status string) bool {
	for _, s := range domain.PenjualanStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// resolvePenjualan attaches the current konsumen/property/sales snapshots.
// Dangling references stay null rather than failing the read.
func (s *Service) resolvePenjualan(ctx context.Context, p domain.Penjualan) (domain.PenjualanDetail, error) {
	detail := domain.PenjualanDetail{Penjualan: p}

	konsumen, err := s.repo.GetKonsumenByID(ctx, p.KonsumenID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return detail, err
	}
	detail.Konsumen = konsumen

	property, err := s.repo.GetPropertyByID(ctx, p.PropertyID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return detail, err
	}
	detail.Property = property

	sales, err := s.repo.GetUserByID(ctx, p.SalesID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return detail, err
	}
	detail.Sales = sales

	return detail, nil
}

func (s *Service) ListPenjualan(ctx context.Context, p ListParams) (pagination.Page[domain.PenjualanDetail], error) {
	rows, err := s.repo.ListPenjualan(ctx)
	if err != nil {
		return pagination.Page[domain.PenjualanDetail]{}, err
	}

	status, filterStatus := p.filter("status")
	konsumenID, filterKonsumen := intFilter(p, "konsumen_id")
	propertyID, filterProperty := intFilter(p, "property_id")
	salesID, filterSales := intFilter(p, "sales_id")

	rows = keep(rows, func(pj domain.Penjualan) bool {
		if filterStatus && pj.Status != status {
			return false
		}
		if filterKonsumen && pj.KonsumenID != konsumenID {
			return false
		}
		if filterProperty && pj.PropertyID != propertyID {
			return false
		}
		if filterSales && pj.SalesID != salesID {
			return false
		}
		return true
	})

	details := make([]domain.PenjualanDetail, 0, len(rows))
	for _, pj := range rows {
		detail, err := s.resolvePenjualan(ctx, pj)
		if err != nil {
			return pagination.Page[domain.PenjualanDetail]{}, err
		}
		details = append(details, detail)
	}

	return pagination.Paginate(details, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetPenjualan(ctx context.Context, id int) (*domain.PenjualanDetail, error) {
	pj, err := s.repo.GetPenjualanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail, err := s.resolvePenjualan(ctx, *pj)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func validatePenjualan(req domain.PenjualanCreateRequest) (*domain.Penjualan, error) {
	req.Status = strings.TrimSpace(req.Status)
	req.Tanggal = strings.TrimSpace(req.Tanggal)

	vErr := newValidation()
	if req.KonsumenID < 1 {
		vErr.add("konsumen_id", requiredMessage("konsumen_id"))
	}
	if req.PropertyID < 1 {
		vErr.add("property_id", requiredMessage("property_id"))
	}
	if req.SalesID < 1 {
		vErr.add("sales_id", requiredMessage("sales_id"))
	}
	if req.Harga < 1 {
		vErr.add("harga", requiredMessage("harga"))
	}
	if req.DiskonPersen < 0 || req.DiskonPersen > 100 {
		vErr.add("diskon_persen", "The diskon_persen must be between 0 and 100.")
	}
	if req.Status == "" {
		req.Status = domain.PenjualanStatusNegotiation
	} else if !validPenjualanStatus(req.Status) {
		vErr.add("status", invalidChoiceMessage("status", domain.PenjualanStatuses))
	}

	var tanggal time.Time
	if req.Tanggal == "" {
		vErr.add("tanggal", requiredMessage("tanggal"))
	} else {
		parsed, err := time.Parse(tanggalLayout, req.Tanggal)
		if err != nil {
			vErr.add("tanggal", "The tanggal is not a valid date.")
		} else {
			tanggal = parsed
		}
	}

	if vErr.failed() {
		return nil, vErr
	}
	return &domain.Penjualan{
		KonsumenID:   req.KonsumenID,
		PropertyID:   req.PropertyID,
		SalesID:      req.SalesID,
		Harga:        req.Harga,
		DiskonPersen: req.DiskonPersen,
		Status:       req.Status,
		Tanggal:      tanggal,
	}, nil
}

func (s *Service) CreatePenjualan(ctx context.Context, req domain.PenjualanCreateRequest) (*domain.PenjualanDetail, error) {
	pj, err := validatePenjualan(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreatePenjualan(ctx, *pj)
	if err != nil {
		return nil, err
	}
	detail, err := s.resolvePenjualan(ctx, *created)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Service) ReplacePenjualan(ctx context.Context, id int, req domain.PenjualanCreateRequest) (*domain.PenjualanDetail, error) {
	existing, err := s.repo.GetPenjualanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pj, err := validatePenjualan(req)
	if err != nil {
		return nil, err
	}
	pj.RecordMeta = existing.RecordMeta

	updated, err := s.repo.UpdatePenjualan(ctx, *pj)
	if err != nil {
		return nil, err
	}
	detail, err := s.resolvePenjualan(ctx, *updated)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Service) PatchPenjualan(ctx context.Context, id int, req domain.PenjualanUpdateRequest) (*domain.PenjualanDetail, error) {
	existing, err := s.repo.GetPenjualanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vErr := newValidation()
	if req.KonsumenID != nil {
		if *req.KonsumenID < 1 {
			vErr.add("konsumen_id", requiredMessage("konsumen_id"))
		} else {
			existing.KonsumenID = *req.KonsumenID
		}
	}
	if req.PropertyID != nil {
		if *req.PropertyID < 1 {
			vErr.add("property_id", requiredMessage("property_id"))
		} else {
			existing.PropertyID = *req.PropertyID
		}
	}
	if req.SalesID != nil {
		if *req.SalesID < 1 {
			vErr.add("sales_id", requiredMessage("sales_id"))
		} else {
			existing.SalesID = *req.SalesID
		}
	}
	if req.Harga != nil {
		if *req.Harga < 1 {
			vErr.add("harga", "The harga must be at least 1.")
		} else {
			existing.Harga = *req.Harga
		}
	}
	if req.DiskonPersen != nil {
		if *req.DiskonPersen < 0 || *req.DiskonPersen > 100 {
			vErr.add("diskon_persen", "The diskon_persen must be between 0 and 100.")
		} else {
			existing.DiskonPersen = *req.DiskonPersen
		}
	}
	if req.Status != nil {
		v := strings.TrimSpace(*req.Status)
		if !validPenjualanStatus(v) {
			vErr.add("status", invalidChoiceMessage("status", domain.PenjualanStatuses))
		} else {
			existing.Status = v
		}
	}
	if req.Tanggal != nil {
		parsed, err := time.Parse(tanggalLayout, strings.TrimSpace(*req.Tanggal))
		if err != nil {
			vErr.add("tanggal", "The tanggal is not a valid date.")
		} else {
			existing.Tanggal = parsed
		}
	}

	if vErr.failed() {
		return nil, vErr
	}

	updated, err := s.repo.UpdatePenjualan(ctx, *existing)
	if err != nil {
		return nil, err
	}
	detail, err := s.resolvePenjualan(ctx, *updated)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdatePenjualanStatus backs the status sub-resource. Status is a closed
// enumeration: anything outside it is a validation failure naming the
// accepted values.
func (s *Service) UpdatePenjualanStatus(ctx context.Context, id int, req domain.PenjualanStatusRequest) (*domain.PenjualanDetail, error) {
	status := strings.TrimSpace(req.Status)
	if !validPenjualanStatus(status) {
		vErr := newValidation()
		vErr.add("status", invalidChoiceMessage("status", domain.PenjualanStatuses))
		return nil, vErr
	}

	existing, err := s.repo.GetPenjualanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Status = status

	updated, err := s.repo.UpdatePenjualan(ctx, *existing)
	if err != nil {
		return nil, err
	}
	detail, err := s.resolvePenjualan(ctx, *updated)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Service) DeletePenjualan(ctx context.Context, id int) (*domain.Penjualan, error) {
	return s.repo.DeletePenjualan(ctx, id)
}
