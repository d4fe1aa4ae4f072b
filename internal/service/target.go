package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
)

const periodeLayout = "2006-01"

func validPeriode(periode string) bool {
	_, err := time.Parse(periodeLayout, periode)
	return err == nil
}

func (s *Service) ListTarget(ctx context.Context, p ListParams) (pagination.Page[domain.Target], error) {
	rows, err := s.repo.ListTarget(ctx)
	if err != nil {
		return pagination.Page[domain.Target]{}, err
	}

	periode, filterPeriode := p.filter("periode")
	salesID, filterSales := intFilter(p, "sales_id")

	rows = keep(rows, func(t domain.Target) bool {
		if filterPeriode && t.Periode != periode {
			return false
		}
		if filterSales && t.SalesID != salesID {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetTarget(ctx context.Context, id int) (*domain.Target, error) {
	return s.repo.GetTargetByID(ctx, id)
}

func validateTarget(req domain.TargetCreateRequest) (*domain.TargetCreateRequest, error) {
	req.Periode = strings.TrimSpace(req.Periode)

	vErr := newValidation()
	if req.SalesID < 1 {
		vErr.add("sales_id", requiredMessage("sales_id"))
	}
	if req.Periode == "" {
		vErr.add("periode", requiredMessage("periode"))
	} else if !validPeriode(req.Periode) {
		vErr.add("periode", "The periode must match the YYYY-MM format.")
	}
	if req.TargetPenjualan < 1 {
		vErr.add("target_penjualan", requiredMessage("target_penjualan"))
	}
	if req.TargetNominal < 1 {
		vErr.add("target_nominal", requiredMessage("target_nominal"))
	}
	if vErr.failed() {
		return nil, vErr
	}
	return &req, nil
}

func (s *Service) CreateTarget(ctx context.Context, req domain.TargetCreateRequest) (*domain.Target, error) {
	clean, err := validateTarget(req)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateTarget(ctx, domain.Target{
		SalesID:         clean.SalesID,
		Periode:         clean.Periode,
		TargetPenjualan: clean.TargetPenjualan,
		TargetNominal:   clean.TargetNominal,
	})
}

func (s *Service) ReplaceTarget(ctx context.Context, id int, req domain.TargetCreateRequest) (*domain.Target, error) {
	existing, err := s.repo.GetTargetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clean, err := validateTarget(req)
	if err != nil {
		return nil, err
	}

	existing.SalesID = clean.SalesID
	existing.Periode = clean.Periode
	existing.TargetPenjualan = clean.TargetPenjualan
	existing.TargetNominal = clean.TargetNominal
	return s.repo.UpdateTarget(ctx, *existing)
}

func (s *Service) PatchTarget(ctx context.Context, id int, req domain.TargetUpdateRequest) (*domain.Target, error) {
	existing, err := s.repo.GetTargetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vErr := newValidation()
	if req.SalesID != nil {
		if *req.SalesID < 1 {
			vErr.add("sales_id", requiredMessage("sales_id"))
		} else {
			existing.SalesID = *req.SalesID
		}
	}
	if req.Periode != nil {
		v := strings.TrimSpace(*req.Periode)
		if !validPeriode(v) {
			vErr.add("periode", "The periode must match the YYYY-MM format.")
		} else {
			existing.Periode = v
		}
	}
	if req.TargetPenjualan != nil {
		if *req.TargetPenjualan < 1 {
			vErr.add("target_penjualan", "The target_penjualan must be at least 1.")
		} else {
			existing.TargetPenjualan = *req.TargetPenjualan
		}
	}
	if req.TargetNominal != nil {
		if *req.TargetNominal < 1 {
			vErr.add("target_nominal", "The target_nominal must be at least 1.")
		} else {
			existing.TargetNominal = *req.TargetNominal
		}
	}

	if vErr.failed() {
		return nil, vErr
	}
	return s.repo.UpdateTarget(ctx, *existing)
}

func (s *Service) DeleteTarget(ctx context.Context, id int) (*domain.Target, error) {
	return s.repo.DeleteTarget(ctx, id)
}

// netNominal is the sale value after the percentage discount.
func netNominal(p domain.Penjualan) int64 {
	if p.DiskonPersen <= 0 {
		return p.Harga
	}
	discounted := float64(p.Harga) * (1 - p.DiskonPersen/100)
	return int64(discounted)
}

// Leaderboard ranks each sales target for the periode by realized Approved
// penjualan. Empty periode defaults to the current month.
func (s *Service) Leaderboard(ctx context.Context, periode string) ([]domain.LeaderboardEntry, error) {
	periode = strings.TrimSpace(periode)
	if periode == "" {
		periode = time.Now().UTC().Format(periodeLayout)
	}
	if !validPeriode(periode) {
		vErr := newValidation()
		vErr.add("periode", "The periode must match the YYYY-MM format.")
		return nil, vErr
	}

	targets, err := s.repo.ListTarget(ctx)
	if err != nil {
		return nil, err
	}
	penjualan, err := s.repo.ListPenjualan(ctx)
	if err != nil {
		return nil, err
	}

	type achieved struct {
		count   int
		nominal int64
	}
	bySales := map[int]achieved{}
	for _, p := range penjualan {
		if p.Status != domain.PenjualanStatusApproved {
			continue
		}
		if p.Tanggal.Format(periodeLayout) != periode {
			continue
		}
		a := bySales[p.SalesID]
		a.count++
		a.nominal += netNominal(p)
		bySales[p.SalesID] = a
	}

	entries := make([]domain.LeaderboardEntry, 0, len(targets))
	for _, t := range targets {
		if t.Periode != periode {
			continue
		}
		entry := domain.LeaderboardEntry{
			SalesID:         t.SalesID,
			Periode:         t.Periode,
			TargetPenjualan: t.TargetPenjualan,
			TargetNominal:   t.TargetNominal,
		}
		if sales, err := s.repo.GetUserByID(ctx, t.SalesID); err == nil {
			entry.Nama = sales.Nama
		}
		a := bySales[t.SalesID]
		entry.TotalPenjualan = a.count
		entry.TotalNominal = a.nominal
		if t.TargetNominal > 0 {
			entry.PencapaianPersen = float64(a.nominal) / float64(t.TargetNominal) * 100
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PencapaianPersen > entries[j].PencapaianPersen
	})
	return entries, nil
}
