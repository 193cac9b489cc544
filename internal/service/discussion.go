package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"videotube-api/internal/database"
	"videotube-api/internal/errno"
	"videotube-api/internal/models"
)

type DiscussionService struct {
	store *database.Store
	log   *logrus.Logger
}

func NewDiscussionService(store *database.Store, log *logrus.Logger) *DiscussionService {
	return &DiscussionService{store: store, log: log}
}

// Post adds a comment to videoID. The video itself is not looked up.
func (s *DiscussionService) Post(ctx context.Context, callerID, videoID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errno.ErrEmptyComment
	}
	c := &models.Comment{VideoID: videoID, UserID: callerID, CommentText: text}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"comment_id": c.ID, "video_id": videoID}).Info("comment posted")
	return c, nil
}

func (s *DiscussionService) List(ctx context.Context, videoID string) ([]models.CommentView, error) {
	return s.store.ListComments(ctx, videoID)
}

func (s *DiscussionService) Update(ctx context.Context, callerID, commentID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errno.ErrEmptyComment
	}
	c, err := s.authored(ctx, callerID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateCommentText(ctx, c, text); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DiscussionService) Delete(ctx context.Context, callerID, commentID string) error {
	if _, err := s.authored(ctx, callerID, commentID); err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.log.WithField("comment_id", commentID).Info("comment deleted")
	return nil
}

func (s *DiscussionService) authored(ctx context.Context, callerID, commentID string) (*models.Comment, error) {
	c, err := s.store.FindComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != callerID {
		return nil, errno.ErrCommentForbidden
	}
	return c, nil
}
