package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/pagination"
	"gokandara/backend/internal/store"
)

func validRoleID(roleID int) bool {
	switch roleID {
	case domain.RoleAdmin, domain.RoleSupervisor, domain.RoleSales:
		return true
	}
	return false
}

func (s *Service) ListUsers(ctx context.Context, p ListParams) (pagination.Page[domain.User], error) {
	rows, err := s.repo.ListUsers(ctx)
	if err != nil {
		return pagination.Page[domain.User]{}, err
	}

	roleID, filterRole := intFilter(p, "role_id")
	rows = keep(rows, func(u domain.User) bool {
		if !matchSearch(p.Search, u.Username, u.Nama) {
			return false
		}
		if filterRole && u.RoleID != roleID {
			return false
		}
		return true
	})

	return pagination.Paginate(rows, p.Page, p.PerPage, p.Path), nil
}

func (s *Service) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest) (*domain.User, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Nama = strings.TrimSpace(req.Nama)

	vErr := newValidation()
	if req.Username == "" {
		vErr.add("username", requiredMessage("username"))
	} else if _, err := s.repo.FindUserByUsername(ctx, req.Username); err == nil {
		vErr.add("username", takenMessage("username"))
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if strings.TrimSpace(req.Password) == "" {
		vErr.add("password", requiredMessage("password"))
	} else if len(req.Password) < 8 {
		vErr.add("password", "The password must be at least 8 characters.")
	}
	if req.Nama == "" {
		vErr.add("nama", requiredMessage("nama"))
	}
	if !validRoleID(req.RoleID) {
		vErr.add("role_id", "The selected role_id is invalid.")
	}
	if vErr.failed() {
		return nil, vErr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, domain.User{
		Username: req.Username,
		Password: string(hash),
		Nama:     req.Nama,
		RoleID:   req.RoleID,
		Active:   true,
	})
}

// ReplaceUser revalidates username, nama and role_id against the create
// rules, excluding the record's own username from the uniqueness check. The
// password is optional here: blank keeps the stored hash, anything else is
// re-hashed. Active is server-managed and survives a replace.
func (s *Service) ReplaceUser(ctx context.Context, id int, req domain.UserCreateRequest) (*domain.User, error) {
	existing, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Nama = strings.TrimSpace(req.Nama)

	vErr := newValidation()
	if req.Username == "" {
		vErr.add("username", requiredMessage("username"))
	} else if other, err := s.repo.FindUserByUsername(ctx, req.Username); err == nil {
		if other.ID != id {
			vErr.add("username", takenMessage("username"))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if req.Nama == "" {
		vErr.add("nama", requiredMessage("nama"))
	}
	if !validRoleID(req.RoleID) {
		vErr.add("role_id", "The selected role_id is invalid.")
	}
	password := strings.TrimSpace(req.Password)
	if password != "" && len(req.Password) < 8 {
		vErr.add("password", "The password must be at least 8 characters.")
	}
	if vErr.failed() {
		return nil, vErr
	}

	existing.Username = req.Username
	existing.Nama = req.Nama
	existing.RoleID = req.RoleID
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		existing.Password = string(hash)
	}
	return s.repo.UpdateUser(ctx, *existing)
}

func (s *Service) PatchUser(ctx context.Context, id int, req domain.UserUpdateRequest) (*domain.User, error) {
	existing, err := s.repo.GetUserByID(ctx, id)
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
	if req.RoleID != nil {
		if !validRoleID(*req.RoleID) {
			vErr.add("role_id", "The selected role_id is invalid.")
		} else {
			existing.RoleID = *req.RoleID
		}
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if vErr.failed() {
		return nil, vErr
	}
	return s.repo.UpdateUser(ctx, *existing)
}

func (s *Service) DeleteUser(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.DeleteUser(ctx, id)
}
