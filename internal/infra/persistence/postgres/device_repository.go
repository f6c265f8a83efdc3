package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

func (repo *deviceRepository) devices(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Model(&model.DeviceModel{})
}

func (repo *deviceRepository) CreateDevice(ctx context.Context, device *entity.UserDevice) error {
	row := deviceRow(device)

	err := repo.db.WithContext(ctx).Create(row).Error
	switch {
	case err == nil:
	case isUniqueConstraintViolation(err):
		return repository.ErrDuplicateDevice
	case isForeignKeyConstraintViolation(err):
		return domainerrors.ErrUserNotFound.WrapMessage("device owner does not exist")
	default:
		return domainerrors.NewDatabaseExecuteError(err, "failed to register device")
	}

	device.ID, device.CreatedAt, device.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt

	return nil
}

func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *deviceRepository) FindDeviceByUserAndDeviceID(ctx context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error) {
	return repo.findOne(ctx, "user_id = ? AND device_id = ?", userID, deviceID)
}

func (repo *deviceRepository) findOne(ctx context.Context, query string, args ...any) (*entity.UserDevice, error) {
	var row model.DeviceModel
	if err := repo.db.WithContext(ctx).Where(query, args...).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to load device")
	}

	return deviceEntity(&row), nil
}

// FindActiveDevicesByUser lists the newest registrations first.
func (repo *deviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var rows []model.DeviceModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active devices")
	}

	devices := make([]*entity.UserDevice, len(rows))
	for i := range rows {
		devices[i] = deviceEntity(&rows[i])
	}

	return devices, nil
}

func (repo *deviceRepository) UpdateDevice(ctx context.Context, device *entity.UserDevice) error {
	result := repo.devices(ctx).
		Where("id = ?", device.ID).
		Updates(map[string]any{
			"fcm_token": device.FCMToken,
			"platform":  device.Platform,
			"is_active": device.IsActive,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update device")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

func (repo *deviceRepository) DeactivateDevice(ctx context.Context, id uuid.UUID) error {
	result := repo.devices(ctx).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to deactivate device")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

func (repo *deviceRepository) DeactivateByFCMTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result := repo.devices(ctx).
		Where("fcm_token IN ? AND is_active", tokens).
		Update("is_active", false)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to deactivate devices by token")
	}

	return result.RowsAffected, nil
}

func deviceRow(d *entity.UserDevice) *model.DeviceModel {
	return &model.DeviceModel{
		ID:        d.ID,
		UserID:    d.UserID,
		DeviceID:  d.DeviceID,
		FCMToken:  d.FCMToken,
		Platform:  d.Platform,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func deviceEntity(row *model.DeviceModel) *entity.UserDevice {
	return &entity.UserDevice{
		ID:        row.ID,
		UserID:    row.UserID,
		DeviceID:  row.DeviceID,
		FCMToken:  row.FCMToken,
		Platform:  row.Platform,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
