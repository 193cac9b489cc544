package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"videotube-api/internal/errno"
	"videotube-api/internal/models"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(c).Error, "insert comment")
}

func (s *Store) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrCommentNotFound
		}
		return nil, errors.Wrap(err, "find comment")
	}
	return &c, nil
}

type commentRow struct {
	models.Comment    `gorm:"embedded"`
	AuthorID          *string
	AuthorChannelName *string
	AuthorLogoURL     *string
}

// ListComments returns the comments of a video in posting order with each author's
// public profile joined in.
func (s *Store) ListComments(ctx context.Context, videoID string) ([]models.CommentView, error) {
	var rows []commentRow
	err := s.db.WithContext(ctx).Table("comments").
		Select("comments.*, accounts.id AS author_id, accounts.channel_name AS author_channel_name, accounts.logo_url AS author_logo_url").
		Joins("LEFT JOIN accounts ON accounts.id = comments.user_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of video %s", videoID)
	}

	views := make([]models.CommentView, 0, len(rows))
	for _, r := range rows {
		view := models.CommentView{Comment: r.Comment}
		if r.AuthorID != nil {
			view.Author = &models.AuthorSummary{ID: *r.AuthorID}
			if r.AuthorChannelName != nil {
				view.Author.ChannelName = *r.AuthorChannelName
			}
			if r.AuthorLogoURL != nil {
				view.Author.LogoURL = *r.AuthorLogoURL
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Store) UpdateCommentText(ctx context.Context, c *models.Comment, text string) error {
	c.CommentText = text
	err := s.db.WithContext(ctx).Model(c).Select("comment_text", "updated_at").Updates(c).Error
	return errors.Wrap(err, "update comment")
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete comment")
	}
	if res.RowsAffected == 0 {
		return errno.ErrCommentNotFound
	}
	return nil
}
