package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	sess *session
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := r.sess.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = cloneUser(u)

		return nil
	})

	return found, err
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var found *entity.User
	err := r.sess.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found = cloneUser(u)

				return nil
			}
		}

		return repository.ErrUserNotFound
	})

	return found, err
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	return r.sess.write("users.create", func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
			}
		}

		now := r.sess.store.timestamp()
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if user.Role == "" {
			user.Role = entity.RoleUser
		}
		user.CreatedAt = now
		user.UpdatedAt = now
		st.users[user.ID] = cloneUser(user)

		return nil
	})
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	return r.sess.write("users.update", func(st *state) error {
		existing, ok := st.users[user.ID]
		if !ok {
			return repository.ErrUserNotFound
		}
		for id, u := range st.users {
			if id != user.ID && strings.EqualFold(u.Email, user.Email) {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
			}
		}

		updated := cloneUser(user)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.sess.store.timestamp()
		st.users[user.ID] = updated
		user.UpdatedAt = updated.UpdatedAt

		return nil
	})
}

func (r *userRepository) List(_ context.Context, filter entity.UserFilter) ([]*entity.User, int64, error) {
	var (
		page  []*entity.User
		total int64
	)
	err := r.sess.read(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		matched := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			if search != "" && !strings.Contains(strings.ToLower(u.Name), search) &&
				!strings.Contains(strings.ToLower(u.Email), search) {
				continue
			}
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			matched = append(matched, cloneUser(u))
		}
		slices.SortFunc(matched, func(a, b *entity.User) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})

		total = int64(len(matched))
		page = paginate(matched, filter.Page)

		return nil
	})

	return page, total, err
}

func (r *userRepository) Stats(_ context.Context, since time.Time) (*entity.UserStats, error) {
	stats := &entity.UserStats{}
	err := r.sess.read(func(st *state) error {
		for _, u := range st.users {
			stats.TotalUsers++
			if u.IsActive {
				stats.ActiveUsers++
			} else {
				stats.InactiveUsers++
			}
			switch u.Role {
			case entity.RoleAdmin:
				stats.AdminUsers++
			case entity.RoleUser:
				stats.RegularUsers++
			}
			if !u.CreatedAt.Before(since) {
				stats.RecentRegistrations++
			}
		}

		return nil
	})

	return stats, err
}
