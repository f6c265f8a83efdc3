package memory

import (
	"context"
	"slices"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
)

type refreshTokenRepository struct {
	sess *session
}

func (r *refreshTokenRepository) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	return r.sess.write("refresh_tokens.create", func(st *state) error {
		if token.ID == uuid.Nil {
			token.ID = uuid.New()
		}
		token.CreatedAt = r.sess.store.timestamp()
		st.refreshTokens[token.ID] = cloneRefreshToken(token)

		return nil
	})
}

func (r *refreshTokenRepository) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var found *entity.RefreshToken
	err := r.sess.read(func(st *state) error {
		for _, t := range st.refreshTokens {
			if t.TokenHash == tokenHash {
				found = cloneRefreshToken(t)

				return nil
			}
		}

		return repository.ErrRefreshTokenNotFound
	})

	return found, err
}

func (r *refreshTokenRepository) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	return r.sess.write("refresh_tokens.delete", func(st *state) error {
		for id, t := range st.refreshTokens {
			if t.TokenHash == tokenHash {
				delete(st.refreshTokens, id)

				return nil
			}
		}

		return repository.ErrRefreshTokenNotFound
	})
}

func (r *refreshTokenRepository) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	return r.sess.write("refresh_tokens.delete_by_user", func(st *state) error {
		for id, t := range st.refreshTokens {
			if t.UserID == userID {
				delete(st.refreshTokens, id)
			}
		}

		return nil
	})
}

func (r *refreshTokenRepository) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	err := r.sess.write("refresh_tokens.delete_expired", func(st *state) error {
		for id, t := range st.refreshTokens {
			if t.IsExpired(now) {
				delete(st.refreshTokens, id)
				removed++
			}
		}

		return nil
	})

	return removed, err
}

func (r *refreshTokenRepository) CountActiveSessionsByUserID(_ context.Context, userID uuid.UUID, now time.Time) (int, error) {
	count := 0
	err := r.sess.read(func(st *state) error {
		for _, t := range st.refreshTokens {
			if t.UserID == userID && !t.IsExpired(now) {
				count++
			}
		}

		return nil
	})

	return count, err
}

type deviceRepository struct {
	sess *session
}

func (r *deviceRepository) CreateDevice(_ context.Context, device *entity.UserDevice) error {
	return r.sess.write("devices.create", func(st *state) error {
		for _, d := range st.devices {
			if d.UserID == device.UserID && d.DeviceID == device.DeviceID {
				return repository.ErrDuplicateDevice
			}
		}

		now := r.sess.store.timestamp()
		if device.ID == uuid.Nil {
			device.ID = uuid.New()
		}
		device.CreatedAt = now
		device.UpdatedAt = now
		st.devices[device.ID] = cloneDevice(device)

		return nil
	})
}

func (r *deviceRepository) FindDeviceByID(_ context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	var found *entity.UserDevice
	err := r.sess.read(func(st *state) error {
		d, ok := st.devices[id]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		found = cloneDevice(d)

		return nil
	})

	return found, err
}

func (r *deviceRepository) FindDeviceByUserAndDeviceID(_ context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error) {
	var found *entity.UserDevice
	err := r.sess.read(func(st *state) error {
		for _, d := range st.devices {
			if d.UserID == userID && d.DeviceID == deviceID {
				found = cloneDevice(d)

				return nil
			}
		}

		return repository.ErrDeviceNotFound
	})

	return found, err
}

func (r *deviceRepository) FindActiveDevicesByUser(_ context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	return r.devicesWhere(func(d *entity.UserDevice) bool { return d.UserID == userID && d.IsActive })
}

func (r *deviceRepository) devicesWhere(match func(*entity.UserDevice) bool) ([]*entity.UserDevice, error) {
	var devices []*entity.UserDevice
	err := r.sess.read(func(st *state) error {
		devices = make([]*entity.UserDevice, 0)
		for _, d := range st.devices {
			if match(d) {
				devices = append(devices, cloneDevice(d))
			}
		}
		slices.SortFunc(devices, func(a, b *entity.UserDevice) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})

		return nil
	})

	return devices, err
}

func (r *deviceRepository) UpdateDevice(_ context.Context, device *entity.UserDevice) error {
	return r.sess.write("devices.update", func(st *state) error {
		existing, ok := st.devices[device.ID]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		existing.FCMToken = device.FCMToken
		existing.Platform = device.Platform
		existing.IsActive = device.IsActive
		existing.UpdatedAt = r.sess.store.timestamp()
		device.UpdatedAt = existing.UpdatedAt

		return nil
	})
}

func (r *deviceRepository) DeactivateDevice(_ context.Context, id uuid.UUID) error {
	return r.sess.write("devices.deactivate", func(st *state) error {
		existing, ok := st.devices[id]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		existing.IsActive = false
		existing.UpdatedAt = r.sess.store.timestamp()

		return nil
	})
}

func (r *deviceRepository) DeactivateByFCMTokens(_ context.Context, tokens []string) (int64, error) {
	var changed int64
	err := r.sess.write("devices.deactivate_tokens", func(st *state) error {
		for _, d := range st.devices {
			if d.IsActive && slices.Contains(tokens, d.FCMToken) {
				d.IsActive = false
				d.UpdatedAt = r.sess.store.timestamp()
				changed++
			}
		}

		return nil
	})

	return changed, err
}
