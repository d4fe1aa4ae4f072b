package service

import (
	"context"
	"log"
	"time"

	"gokandara/backend/internal/domain"
)

const summaryTTL = 30 * time.Second

// DashboardSummary aggregates the counters shown at the top of the
// dashboard. The cached copy is served as-is until its TTL expires; cache
// failures degrade to a fresh computation, never an error.
func (s *Service) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached, err := s.summary.Get(ctx); err != nil {
		log.Printf("[service] WARN: summary cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	konsumen, err := s.repo.ListKonsumen(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := s.repo.ListProperty(ctx)
	if err != nil {
		return nil, err
	}
	penjualan, err := s.repo.ListPenjualan(ctx)
	if err != nil {
		return nil, err
	}
	pesan, err := s.repo.ListPesan(ctx)
	if err != nil {
		return nil, err
	}

	summary := domain.DashboardSummary{
		TotalKonsumen:     len(konsumen),
		TotalProperty:     len(properties),
		PropertyByStatus:  map[string]int{},
		TotalPenjualan:    len(penjualan),
		PenjualanByStatus: map[string]int{},
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	for _, p := range properties {
		summary.PropertyByStatus[p.Status]++
	}
	for _, p := range penjualan {
		summary.PenjualanByStatus[p.Status]++
		if p.Status == domain.PenjualanStatusApproved {
			summary.NilaiApproved += netNominal(p)
		}
	}
	for _, m := range pesan {
		if !m.Dibaca {
			summary.PesanBelumDibaca++
		}
	}

	if err := s.summary.Set(ctx, summary, summaryTTL); err != nil {
		log.Printf("[service] WARN: summary cache write failed: %v", err)
	}
	return &summary, nil
}
