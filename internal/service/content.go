package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"videotube-api/internal/database"
	"videotube-api/internal/errno"
	"videotube-api/internal/media"
	"videotube-api/internal/models"
)

type ContentService struct {
	store *database.Store
	media media.Provider
	log   *logrus.Logger
}

func NewContentService(store *database.Store, provider media.Provider, log *logrus.Logger) *ContentService {
	return &ContentService{store: store, media: provider, log: log}
}

// UploadInput describes a new video. Tags is the raw comma separated list.
type UploadInput struct {
	Title         string
	Description   string
	Category      string
	Tags          string
	VideoPath     string
	ThumbnailPath string
}

// UpdateInput holds the fields an owner wants to change; nil fields are left alone.
// ThumbnailPath is empty when the thumbnail stays.
type UpdateInput struct {
	Title         *string
	Description   *string
	Category      *string
	Tags          *string
	ThumbnailPath string
}

func (s *ContentService) Upload(ctx context.Context, callerID string, in UploadInput) (*models.Video, error) {
	if in.VideoPath == "" || in.ThumbnailPath == "" {
		return nil, errno.ErrMissingMedia
	}

	clip, err := s.media.Upload(ctx, in.VideoPath, media.KindVideo)
	if err != nil {
		return nil, errors.Wrap(err, "upload video")
	}
	thumb, err := s.media.Upload(ctx, in.ThumbnailPath, media.KindImage)
	if err != nil {
		discardAsset(ctx, s.media, s.log, clip.ID)
		return nil, errors.Wrap(err, "upload thumbnail")
	}

	v := &models.Video{
		Title:        in.Title,
		Description:  in.Description,
		UserID:       callerID,
		VideoURL:     clip.URL,
		VideoID:      clip.ID,
		ThumbnailURL: thumb.URL,
		ThumbnailID:  thumb.ID,
		Category:     in.Category,
		Tags:         SplitTags(in.Tags),
	}
	if err := s.store.CreateVideo(ctx, v); err != nil {
		discardAsset(ctx, s.media, s.log, clip.ID)
		discardAsset(ctx, s.media, s.log, thumb.ID)
		return nil, err
	}

	v.LikedBy, v.DislikedBy = []string{}, []string{}
	s.log.WithFields(logrus.Fields{"video_id": v.ID, "owner_id": callerID}).Info("video uploaded")
	return v, nil
}

func (s *ContentService) Get(ctx context.Context, videoID string) (*models.Video, error) {
	v, err := s.store.FindVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.store.LoadReactions(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns every video, newest first.
func (s *ContentService) List(ctx context.Context) ([]models.Video, error) {
	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*models.Video, len(videos))
	for i := range videos {
		ptrs[i] = &videos[i]
	}
	if err := s.store.LoadReactions(ctx, ptrs...); err != nil {
		return nil, err
	}
	return videos, nil
}

// Update changes the metadata of a video owned by callerID. A new thumbnail is stored
// before the record points at it; the replaced one is deleted afterwards, and a failure
// there does not fail the update.
func (s *ContentService) Update(ctx context.Context, callerID, videoID string, in UpdateInput) (*models.Video, error) {
	current, err := s.owned(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	patch := models.VideoPatch{Title: in.Title, Description: in.Description, Category: in.Category}
	if in.Tags != nil {
		tags := SplitTags(*in.Tags)
		patch.Tags = &tags
	}

	var thumb media.Asset
	if in.ThumbnailPath != "" {
		thumb, err = s.media.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return nil, errors.Wrap(err, "upload thumbnail")
		}
	}

	updated, err := s.store.UpdateVideo(ctx, videoID, patch, thumb.URL, thumb.ID)
	if err != nil {
		discardAsset(ctx, s.media, s.log, thumb.ID)
		return nil, err
	}
	if thumb.ID != "" && current.ThumbnailID != thumb.ID {
		discardAsset(ctx, s.media, s.log, current.ThumbnailID)
	}

	if err := s.store.LoadReactions(ctx, updated); err != nil {
		return nil, err
	}
	s.log.WithField("video_id", videoID).Info("video updated")
	return updated, nil
}

// Delete removes the media of a video owned by callerID and then its record. If the
// media host refuses, the record is kept.
func (s *ContentService) Delete(ctx context.Context, callerID, videoID string) (*models.Video, error) {
	v, err := s.owned(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.media.Delete(ctx, v.VideoID); err != nil {
		return nil, errors.Wrap(err, "delete video asset")
	}
	if err := s.media.Delete(ctx, v.ThumbnailID); err != nil {
		return nil, errors.Wrap(err, "delete thumbnail asset")
	}
	if err := s.store.DeleteVideo(ctx, videoID); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"video_id": videoID, "owner_id": callerID}).Info("video deleted")
	return v, nil
}

func (s *ContentService) Like(ctx context.Context, callerID, videoID string) error {
	return s.react(ctx, callerID, videoID, models.ReactionLike)
}

func (s *ContentService) Dislike(ctx context.Context, callerID, videoID string) error {
	return s.react(ctx, callerID, videoID, models.ReactionDislike)
}

func (s *ContentService) react(ctx context.Context, callerID, videoID string, kind models.ReactionKind) error {
	if err := s.store.React(ctx, videoID, callerID, kind); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"video_id": videoID, "account_id": callerID, "kind": kind}).Info("reaction recorded")
	return nil
}

// RecordView counts one view and returns the new total.
func (s *ContentService) RecordView(ctx context.Context, videoID string) (int64, error) {
	return s.store.IncrementViews(ctx, videoID)
}

func (s *ContentService) owned(ctx context.Context, callerID, videoID string) (*models.Video, error) {
	v, err := s.store.FindVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.UserID != callerID {
		return nil, errno.ErrVideoForbidden
	}
	return v, nil
}

// SplitTags turns "a, b,,a" into [a b]: entries are trimmed, and empty or repeated
// ones are dropped.
func SplitTags(raw string) []string {
	tags := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
