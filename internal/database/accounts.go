package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"videotube-api/internal/errno"
	"videotube-api/internal/models"
)

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "count accounts with email %s", email)
	}
	return count > 0, nil
}

// CreateAccount inserts acc unless the email is already taken, in which case it
// returns errno.ErrEmailTaken and leaves the store unchanged.
func (s *Store) CreateAccount(ctx context.Context, acc *models.Account) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(acc)
	if res.Error != nil {
		return errors.Wrap(res.Error, "insert account")
	}
	if res.RowsAffected == 0 {
		return errno.ErrEmailTaken
	}
	return nil
}

func (s *Store) FindAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.findAccount(s.db.WithContext(ctx), "id = ?", id)
}

func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	acc, err := s.findAccount(s.db.WithContext(ctx), "email = ?", email)
	if errors.Is(err, errno.ErrAccountNotFound) {
		return nil, errno.ErrEmailNotRegistered
	}
	return acc, err
}

func (s *Store) findAccount(tx *gorm.DB, query string, arg any) (*models.Account, error) {
	var acc models.Account
	if err := tx.Where(query, arg).Take(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "find account")
	}
	return &acc, nil
}

// LoadRelations fills both sides of acc's subscription graph.
func (s *Store) LoadRelations(ctx context.Context, acc *models.Account) error {
	subscribedBy := make([]string, 0)
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", acc.ID).Order("created_at").Pluck("subscriber_id", &subscribedBy).Error; err != nil {
		return errors.Wrap(err, "load subscribers")
	}
	channels := make([]string, 0)
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", acc.ID).Order("created_at").Pluck("channel_id", &channels).Error; err != nil {
		return errors.Wrap(err, "load subscribed channels")
	}
	acc.SubscribedBy = subscribedBy
	acc.SubscribedChannels = channels
	return nil
}

// TokenVersion returns the version an account's tokens must carry to be accepted.
func (s *Store) TokenVersion(ctx context.Context, id string) (int64, error) {
	var acc models.Account
	err := s.db.WithContext(ctx).Select("token_version").Where("id = ?", id).Take(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errno.ErrAccountNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "read token version")
	}
	return acc.TokenVersion, nil
}

// BumpTokenVersion invalidates every token issued to the account so far.
func (s *Store) BumpTokenVersion(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + ?", 1))
	if res.Error != nil {
		return errors.Wrap(res.Error, "bump token version")
	}
	if res.RowsAffected == 0 {
		return errno.ErrAccountNotFound
	}
	return nil
}

// Subscribe records that subscriberID follows channelID and bumps the channel's
// subscriber count in the same transaction.
func (s *Store) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findAccount(tx, "id = ?", channelID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Subscription{SubscriberID: subscriberID, ChannelID: channelID})
		if res.Error != nil {
			return errors.Wrap(res.Error, "insert subscription")
		}
		if res.RowsAffected == 0 {
			return errno.ErrAlreadySubscribed
		}
		return s.addSubscribers(tx, channelID, 1)
	})
}

func (s *Store) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findAccount(tx, "id = ?", channelID); err != nil {
			return err
		}
		res := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&models.Subscription{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete subscription")
		}
		if res.RowsAffected == 0 {
			return errno.ErrNotSubscribed
		}
		return s.addSubscribers(tx, channelID, -1)
	})
}

func (s *Store) addSubscribers(tx *gorm.DB, channelID string, delta int) error {
	err := tx.Model(&models.Account{}).Where("id = ?", channelID).
		Update("subscribers", gorm.Expr("subscribers + ?", delta)).Error
	return errors.Wrap(err, "update subscriber count")
}
