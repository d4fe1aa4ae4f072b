package service

import (
	"context"
	"strings"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
)

func (s *Service) ListPesan(ctx context.Context, p ListParams) (pagination.Page[domain.Pesan], error) {
	rows, err := s.repo.ListPesan(ctx)
	if err != nil {
		return pagination.Page[domain.Pesan]{}, err
	}

	senderID, filterSender := intFilter(p, "sender_id")
	receiverID, filterReceiver := intFilter(p, "receiver_id")

	rows = keep(rows, func(m domain.Pesan) bool {
		if !matchSearch(p.Search, m.Subjek, m.Isi) {
			return false
		}
		if filterSender && m.SenderID != senderID {
			return false
		}
		if filterReceiver && m.ReceiverID != receiverID {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetPesan(ctx context.Context, id int) (*domain.Pesan, error) {
	return s.repo.GetPesanByID(ctx, id)
}

func (s *Service) CreatePesan(ctx context.Context, req domain.PesanCreateRequest) (*domain.Pesan, error) {
	req.Subjek = strings.TrimSpace(req.Subjek)
	req.Isi = strings.TrimSpace(req.Isi)

	vErr := newValidation()
	if req.SenderID < 1 {
		vErr.add("sender_id", requiredMessage("sender_id"))
	}
	if req.ReceiverID < 1 {
		vErr.add("receiver_id", requiredMessage("receiver_id"))
	}
	if req.Subjek == "" {
		vErr.add("subjek", requiredMessage("subjek"))
	}
	if req.Isi == "" {
		vErr.add("isi", requiredMessage("isi"))
	}
	if vErr.failed() {
		return nil, vErr
	}

	return s.repo.CreatePesan(ctx, domain.Pesan{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Subjek:     req.Subjek,
		Isi:        req.Isi,
	})
}

// ReplacePesan revalidates the full payload. The read flag is server-managed
// state and survives a replace.
func (s *Service) ReplacePesan(ctx context.Context, id int, req domain.PesanCreateRequest) (*domain.Pesan, error) {
	existing, err := s.repo.GetPesanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Subjek = strings.TrimSpace(req.Subjek)
	req.Isi = strings.TrimSpace(req.Isi)

	vErr := newValidation()
	if req.SenderID < 1 {
		vErr.add("sender_id", requiredMessage("sender_id"))
	}
	if req.ReceiverID < 1 {
		vErr.add("receiver_id", requiredMessage("receiver_id"))
	}
	if req.Subjek == "" {
		vErr.add("subjek", requiredMessage("subjek"))
	}
	if req.Isi == "" {
		vErr.add("isi", requiredMessage("isi"))
	}
	if vErr.failed() {
		return nil, vErr
	}

	existing.SenderID = req.SenderID
	existing.ReceiverID = req.ReceiverID
	existing.Subjek = req.Subjek
	existing.Isi = req.Isi
	return s.repo.UpdatePesan(ctx, *existing)
}

func (s *Service) PatchPesan(ctx context.Context, id int, req domain.PesanUpdateRequest) (*domain.Pesan, error) {
	existing, err := s.repo.GetPesanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vErr := newValidation()
	if req.Subjek != nil {
		if v := strings.TrimSpace(*req.Subjek); v == "" {
			vErr.add("subjek", requiredMessage("subjek"))
		} else {
			existing.Subjek = v
		}
	}
	if req.Isi != nil {
		if v := strings.TrimSpace(*req.Isi); v == "" {
			vErr.add("isi", requiredMessage("isi"))
		} else {
			existing.Isi = v
		}
	}
	if req.Dibaca != nil {
		existing.Dibaca = *req.Dibaca
	}

	if vErr.failed() {
		return nil, vErr
	}
	return s.repo.UpdatePesan(ctx, *existing)
}

// MarkPesanRead is idempotent: re-reading an already-read message is a
// successful no-op.
func (s *Service) MarkPesanRead(ctx context.Context, id int) (*domain.Pesan, error) {
	existing, err := s.repo.GetPesanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Dibaca {
		return existing, nil
	}
	existing.Dibaca = true
	return s.repo.UpdatePesan(ctx, *existing)
}

func (s *Service) DeletePesan(ctx context.Context, id int) (*domain.Pesan, error) {
	return s.repo.DeletePesan(ctx, id)
}

func (s *Service) ListNotifikasi(ctx context.Context, p ListParams) (pagination.Page[domain.Notifikasi], error) {
	rows, err := s.repo.ListNotifikasi(ctx)
	if err != nil {
		return pagination.Page[domain.Notifikasi]{}, err
	}

	userID, filterUser := intFilter(p, "user_id")
	rows = keep(rows, func(n domain.Notifikasi) bool {
		if filterUser && n.UserID != userID {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetNotifikasi(ctx context.Context, id int) (*domain.Notifikasi, error) {
	return s.repo.GetNotifikasiByID(ctx, id)
}

func (s *Service) CreateNotifikasi(ctx context.Context, req domain.NotifikasiCreateRequest) (*domain.Notifikasi, error) {
	req.Judul = strings.TrimSpace(req.Judul)
	req.Isi = strings.TrimSpace(req.Isi)

	vErr := newValidation()
	if req.UserID < 1 {
		vErr.add("user_id", requiredMessage("user_id"))
	}
	if req.Judul == "" {
		vErr.add("judul", requiredMessage("judul"))
	}
	if req.Isi == "" {
		vErr.add("isi", requiredMessage("isi"))
	}
	if vErr.failed() {
		return nil, vErr
	}

	return s.repo.CreateNotifikasi(ctx, domain.Notifikasi{
		UserID: req.UserID,
		Judul:  req.Judul,
		Isi:    req.Isi,
	})
}

func (s *Service) MarkNotifikasiRead(ctx context.Context, id int) (*domain.Notifikasi, error) {
	existing, err := s.repo.GetNotifikasiByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Dibaca {
		return existing, nil
	}
	existing.Dibaca = true
	return s.repo.UpdateNotifikasi(ctx, *existing)
}

func (s *Service) DeleteNotifikasi(ctx context.Context, id int) (*domain.Notifikasi, error) {
	return s.repo.DeleteNotifikasi(ctx, id)
}
