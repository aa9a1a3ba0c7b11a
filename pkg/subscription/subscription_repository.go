package subscription

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/dberr"
)

type (
	SubscriptionRepository interface {
		Subscribe(ctx context.Context, userID, authorID uuid.UUID) error
		Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
		SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		GetSubscribedAuthors(ctx context.Context, userID uuid.UUID, p domain.PaginationRequest) ([]*entities.User, int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&entities.Subscribe{
		UserID:   userID,
		AuthorID: authorID,
	}).Error
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		return domain.ErrAlreadySubscribed
	case dberr.IsCheckViolation(err):
		return domain.ErrSubscribeToYourself
	case dberr.IsForeignKeyViolation(err):
		return domain.ErrUserNotFound
	default:
		return err
	}
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Subscribe{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	subscribed := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscribe{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

// GetSubscribedAuthors lists the authors userID follows, most recent
// subscription first.
func (r *subscriptionRepository) GetSubscribedAuthors(ctx context.Context, userID uuid.UUID, p domain.PaginationRequest) ([]*entities.User, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscribe{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC").
		Order("users.id").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, count, nil
}
