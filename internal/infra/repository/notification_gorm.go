package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/domain/notification"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) CreateNotification(
	ctx context.Context,
	n *models.Notification,
) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) ListUnread(
	ctx context.Context,
	dentistID uint,
) ([]models.Notification, error) {

	var out []models.Notification
	if err := r.db.WithContext(ctx).
		Where("dentist_id = ? AND read = ?", dentistID, false).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead only ever moves rows from unread to read.
func (r *NotificationGormRepository) MarkRead(
	ctx context.Context,
	dentistID uint,
	ids []uuid.UUID,
) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}

	res := markReadQuery(r.db.WithContext(ctx), dentistID, ids, time.Now())
	return res.RowsAffected, res.Error
}

// markReadQuery filters on read = false so read rows, and rows of other
// dentists, are never touched.
func markReadQuery(db *gorm.DB, dentistID uint, ids []uuid.UUID, now time.Time) *gorm.DB {
	return db.
		Model(&models.Notification{}).
		Where("dentist_id = ? AND read = ? AND id IN ?", dentistID, false, ids).
		Updates(map[string]any{
			"read":    true,
			"read_at": now,
		})
}

var _ notification.Repository = (*NotificationGormRepository)(nil)
