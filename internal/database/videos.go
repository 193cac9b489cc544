package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"videotube-api/internal/errno"
	"videotube-api/internal/models"
)

func (s *Store) CreateVideo(ctx context.Context, v *models.Video) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(v).Error, "insert video")
}

func (s *Store) FindVideo(ctx context.Context, id string) (*models.Video, error) {
	return findVideo(s.db.WithContext(ctx), id)
}

func findVideo(tx *gorm.DB, id string) (*models.Video, error) {
	var v models.Video
	if err := tx.Where("id = ?", id).Take(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrVideoNotFound
		}
		return nil, errors.Wrap(err, "find video")
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return &v, nil
}

// ListVideos returns every video, newest first.
func (s *Store) ListVideos(ctx context.Context) ([]models.Video, error) {
	videos := make([]models.Video, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&videos).Error; err != nil {
		return nil, errors.Wrap(err, "list videos")
	}
	for i := range videos {
		if videos[i].Tags == nil {
			videos[i].Tags = []string{}
		}
	}
	return videos, nil
}

// LoadReactions fills LikedBy and DislikedBy of every given video with one query.
func (s *Store) LoadReactions(ctx context.Context, videos ...*models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	byID := make(map[string]*models.Video, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		v.LikedBy, v.DislikedBy = []string{}, []string{}
		byID[v.ID] = v
		ids = append(ids, v.ID)
	}

	var reactions []models.Reaction
	if err := s.db.WithContext(ctx).Where("video_id IN ?", ids).Order("created_at").Find(&reactions).Error; err != nil {
		return errors.Wrap(err, "load reactions")
	}
	for _, r := range reactions {
		v := byID[r.VideoID]
		if r.Kind == models.ReactionLike {
			v.LikedBy = append(v.LikedBy, r.AccountID)
		} else {
			v.DislikedBy = append(v.DislikedBy, r.AccountID)
		}
	}
	return nil
}

// UpdateVideo applies patch plus any replaced thumbnail and returns the stored row.
func (s *Store) UpdateVideo(ctx context.Context, id string, patch models.VideoPatch, thumbnailURL, thumbnailID string) (*models.Video, error) {
	var updated *models.Video
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := findVideo(tx, id)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			v.Title = *patch.Title
		}
		if patch.Description != nil {
			v.Description = *patch.Description
		}
		if patch.Category != nil {
			v.Category = *patch.Category
		}
		if patch.Tags != nil {
			v.Tags = *patch.Tags
		}
		if thumbnailID != "" {
			v.ThumbnailURL, v.ThumbnailID = thumbnailURL, thumbnailID
		}
		err = tx.Model(v).
			Select("title", "description", "category", "tags", "thumbnail_url", "thumbnail_id", "updated_at").
			Updates(v).Error
		if err != nil {
			return errors.Wrap(err, "update video")
		}
		updated = v
		return nil
	})
	return updated, err
}

// DeleteVideo removes the video and its reactions. Comments are left in place.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return errors.Wrap(err, "delete reactions")
		}
		res := tx.Where("id = ?", id).Delete(&models.Video{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete video")
		}
		if res.RowsAffected == 0 {
			return errno.ErrVideoNotFound
		}
		return nil
	})
}

// React puts accountID in the kind set of the video, moving it out of the opposite
// set if needed. The reaction row and both counters change in one transaction; the
// "already reacted" outcome comes from the primary key, not from a prior read.
func (s *Store) React(ctx context.Context, videoID, accountID string, kind models.ReactionKind) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Video{}).Where("id = ?", videoID).Count(&exists).Error; err != nil {
			return errors.Wrap(err, "check video")
		}
		if exists == 0 {
			return errno.ErrVideoNotFound
		}

		opposite := kind.Opposite()
		flipped := tx.Model(&models.Reaction{}).
			Where("video_id = ? AND account_id = ? AND kind = ?", videoID, accountID, opposite).
			Update("kind", kind)
		if flipped.Error != nil {
			return errors.Wrap(flipped.Error, "flip reaction")
		}

		counters := map[string]any{kind.CounterColumn(): gorm.Expr(kind.CounterColumn() + " + 1")}
		if flipped.RowsAffected > 0 {
			counters[opposite.CounterColumn()] = gorm.Expr(opposite.CounterColumn() + " - 1")
		} else {
			inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Reaction{VideoID: videoID, AccountID: accountID, Kind: kind})
			if inserted.Error != nil {
				return errors.Wrap(inserted.Error, "insert reaction")
			}
			if inserted.RowsAffected == 0 {
				if kind == models.ReactionLike {
					return errno.ErrAlreadyLiked
				}
				return errno.ErrAlreadyDisliked
			}
		}

		err := tx.Model(&models.Video{}).Where("id = ?", videoID).Updates(counters).Error
		return errors.Wrap(err, "update reaction counters")
	})
}

// IncrementViews adds one view and returns the new total.
func (s *Store) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Video{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return errors.Wrap(res.Error, "increment views")
		}
		if res.RowsAffected == 0 {
			return errno.ErrVideoNotFound
		}
		var v models.Video
		if err := tx.Select("views").Where("id = ?", id).Take(&v).Error; err != nil {
			return errors.Wrap(err, "read views")
		}
		views = v.Views
		return nil
	})
	return views, err
}
