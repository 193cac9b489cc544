package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videotube-api/internal/auth"
	"videotube-api/internal/database"
	"videotube-api/internal/errno"
	"videotube-api/internal/models"
	"videotube-api/internal/testsupport"
)

type fixture struct {
	store      *database.Store
	media      *testsupport.FakeProvider
	tokens     *auth.Manager
	accounts   *AccountService
	content    *ContentService
	discussion *DiscussionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testsupport.QuietLogger()
	store := testsupport.NewStore(t)
	provider := testsupport.NewFakeProvider()
	tokens, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	return &fixture{
		store:      store,
		media:      provider,
		tokens:     tokens,
		accounts:   NewAccountService(store, provider, tokens, log),
		content:    NewContentService(store, provider, log),
		discussion: NewDiscussionService(store, log),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.Account {
	t.Helper()
	acc, err := f.accounts.Register(context.Background(), SignupInput{
		ChannelName: "chan " + email,
		Email:       email,
		Phone:       "555",
		Password:    "hunter22",
		LogoPath:    "/tmp/logo.png",
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) upload(t *testing.T, ownerID string) *models.Video {
	t.Helper()
	v, err := f.content.Upload(context.Background(), ownerID, UploadInput{
		Title:         "clip",
		Tags:          "go, api",
		VideoPath:     "/tmp/clip.mp4",
		ThumbnailPath: "/tmp/thumb.png",
	})
	require.NoError(t, err)
	return v
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.register(t, "a@x.com")
	assert.NotEqual(t, "hunter22", acc.Password)
	assert.Equal(t, "https://media.test/"+acc.LogoID, acc.LogoURL)

	res, err := f.accounts.Login(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, res.ID)
	assert.Equal(t, []string{}, res.SubscribedChannels)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.AccountID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "chan a@x.com", claims.ChannelName)
	assert.Equal(t, acc.LogoID, claims.LogoID)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, SignupInput{Email: "a@x.com", Password: "p", LogoPath: "/tmp/l.png"})
	assert.ErrorIs(t, err, errno.ErrMissingSignupFields)

	_, err = f.accounts.Register(ctx, SignupInput{ChannelName: "c", Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, errno.ErrMissingLogo)
	assert.Empty(t, f.media.Stored())
}

func TestRegisterTwiceKeepsOneAccount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	_, err := f.accounts.Register(context.Background(), SignupInput{
		ChannelName: "other", Email: "a@x.com", Password: "pw", LogoPath: "/tmp/l.png",
	})
	assert.ErrorIs(t, err, errno.ErrEmailTaken)
	assert.Len(t, f.media.Stored(), 1)
}

func TestConcurrentRegisterSameEmail(t *testing.T) {
	f := newFixture(t)
	const callers = 8

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.accounts.Register(context.Background(), SignupInput{
				ChannelName: "c", Email: "race@x.com", Password: "pw", LogoPath: "/tmp/l.png",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errno.ErrEmailTaken)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.media.Stored(), 1)
}

func TestRegisterAcceptsLongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	password := strings.Repeat("p", 80)

	acc, err := f.accounts.Register(ctx, SignupInput{
		ChannelName: "long", Email: "long@x.com", Password: password, LogoPath: "/tmp/l.png",
	})
	require.NoError(t, err)

	res, err := f.accounts.Login(ctx, "long@x.com", password)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, res.ID)

	// Bytes past the 72nd still count.
	_, err = f.accounts.Login(ctx, "long@x.com", strings.Repeat("p", 79)+"q")
	assert.ErrorIs(t, err, errno.ErrInvalidPassword)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com")

	_, err := f.accounts.Login(context.Background(), "nobody@x.com", "pw")
	assert.ErrorIs(t, err, errno.ErrEmailNotRegistered)

	_, err = f.accounts.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, errno.ErrInvalidPassword)
}

func TestSubscribeRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	assert.ErrorIs(t, f.accounts.Subscribe(ctx, a.ID, a.ID), errno.ErrSubscribeSelf)
	assert.ErrorIs(t, f.accounts.Subscribe(ctx, a.ID, "missing"), errno.ErrAccountNotFound)
	assert.ErrorIs(t, f.accounts.Unsubscribe(ctx, a.ID, b.ID), errno.ErrNotSubscribed)

	require.NoError(t, f.accounts.Subscribe(ctx, a.ID, b.ID))
	assert.ErrorIs(t, f.accounts.Subscribe(ctx, a.ID, b.ID), errno.ErrAlreadySubscribed)

	profile, err := f.accounts.Profile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Subscribers)
	assert.Equal(t, []string{a.ID}, profile.SubscribedBy)

	require.NoError(t, f.accounts.Unsubscribe(ctx, a.ID, b.ID))
	profile, err = f.accounts.Profile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.Subscribers)
	assert.Empty(t, profile.SubscribedBy)
}

func TestLogoutBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	require.NoError(t, f.accounts.Logout(ctx, a.ID))
	ver, err := f.store.TokenVersion(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestUploadRequiresBothFiles(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@x.com")

	_, err := f.content.Upload(context.Background(), a.ID, UploadInput{Title: "t", VideoPath: "/tmp/v.mp4"})
	assert.ErrorIs(t, err, errno.ErrMissingMedia)
}

func TestUploadThumbnailFailureDiscardsVideo(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@x.com")
	f.media.FailUploadAfter = 2

	_, err := f.content.Upload(context.Background(), a.ID, UploadInput{
		Title: "t", VideoPath: "/tmp/v.mp4", ThumbnailPath: "/tmp/t.png",
	})
	require.Error(t, err)
	assert.Equal(t, errno.Internal, errno.KindOf(err))
	assert.Len(t, f.media.Stored(), 1)
	assert.Len(t, f.media.Deleted(), 1)
}

func TestUploadSplitsTags(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@x.com")
	v := f.upload(t, a.ID)

	assert.Equal(t, []string{"go", "api"}, v.Tags)
	assert.Equal(t, a.ID, v.UserID)
	assert.NotEmpty(t, v.VideoID)
	assert.NotEmpty(t, v.ThumbnailID)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitTags(" a, b,,a , "))
	assert.Equal(t, []string{}, SplitTags(""))
}

func TestLikeThenDislike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	fan := f.register(t, "b@x.com")
	v := f.upload(t, owner.ID)

	require.NoError(t, f.content.Like(ctx, fan.ID, v.ID))
	assert.ErrorIs(t, f.content.Like(ctx, fan.ID, v.ID), errno.ErrAlreadyLiked)
	require.NoError(t, f.content.Dislike(ctx, fan.ID, v.ID))
	assert.ErrorIs(t, f.content.Dislike(ctx, fan.ID, v.ID), errno.ErrAlreadyDisliked)

	got, err := f.content.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Likes)
	assert.Equal(t, int64(1), got.Dislike)
	assert.Empty(t, got.LikedBy)
	assert.Equal(t, []string{fan.ID}, got.DislikedBy)

	assert.ErrorIs(t, f.content.Like(ctx, fan.ID, "missing"), errno.ErrVideoNotFound)
}

func TestRecordViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	v := f.upload(t, owner.ID)

	const n = 5
	for i := 0; i < n; i++ {
		_, err := f.content.RecordView(ctx, v.ID)
		require.NoError(t, err)
	}
	got, err := f.content.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Views)

	_, err = f.content.RecordView(ctx, "missing")
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}

func TestUpdateReplacesThumbnail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	v := f.upload(t, owner.ID)

	title, tags := "new title", "x,y"
	updated, err := f.content.Update(ctx, owner.ID, v.ID, UpdateInput{
		Title: &title, Tags: &tags, ThumbnailPath: "/tmp/new.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, []string{"x", "y"}, updated.Tags)
	assert.NotEqual(t, v.ThumbnailID, updated.ThumbnailID)
	assert.Contains(t, f.media.Deleted(), v.ThumbnailID)
}

func TestUpdateSurvivesFailedThumbnailCleanup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	v := f.upload(t, owner.ID)
	f.media.DeleteErr = errors.New("media host down")

	updated, err := f.content.Update(ctx, owner.ID, v.ID, UpdateInput{ThumbnailPath: "/tmp/new.png"})
	require.NoError(t, err)
	assert.NotEqual(t, v.ThumbnailID, updated.ThumbnailID)
}

func TestUpdateAndDeleteRequireOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	other := f.register(t, "b@x.com")
	v := f.upload(t, owner.ID)

	title := "hijacked"
	_, err := f.content.Update(ctx, other.ID, v.ID, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, errno.ErrVideoForbidden)
	_, err = f.content.Delete(ctx, other.ID, v.ID)
	assert.ErrorIs(t, err, errno.ErrVideoForbidden)
}

func TestDeletedVideoIsGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	v := f.upload(t, owner.ID)

	deleted, err := f.content.Delete(ctx, owner.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, deleted.ID)
	assert.Contains(t, f.media.Deleted(), v.VideoID)
	assert.Contains(t, f.media.Deleted(), v.ThumbnailID)

	_, err = f.content.Get(ctx, v.ID)
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
	title := "t"
	_, err = f.content.Update(ctx, owner.ID, v.ID, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
	_, err = f.content.Delete(ctx, owner.ID, v.ID)
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}

func TestDeleteKeepsRecordWhenMediaHostFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	v := f.upload(t, owner.ID)
	f.media.DeleteErr = errors.New("media host down")

	_, err := f.content.Delete(ctx, owner.ID, v.ID)
	require.Error(t, err)
	assert.Equal(t, errno.Internal, errno.KindOf(err))

	_, err = f.content.Get(ctx, v.ID)
	assert.NoError(t, err)
}

func TestListReturnsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")
	first := f.upload(t, owner.ID)
	time.Sleep(5 * time.Millisecond)
	second := f.upload(t, owner.ID)

	videos, err := f.content.List(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, second.ID, videos[0].ID)
	assert.Equal(t, first.ID, videos[1].ID)
	assert.Equal(t, []string{}, videos[0].LikedBy)
}

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "a@x.com")
	other := f.register(t, "b@x.com")

	_, err := f.discussion.Post(ctx, author.ID, "video-1", "   ")
	assert.ErrorIs(t, err, errno.ErrEmptyComment)

	c, err := f.discussion.Post(ctx, author.ID, "video-1", "first!")
	require.NoError(t, err)

	comments, err := f.discussion.List(ctx, "video-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, author.ChannelName, comments[0].Author.ChannelName)

	_, err = f.discussion.Update(ctx, other.ID, c.ID, "mine now")
	assert.ErrorIs(t, err, errno.ErrCommentForbidden)
	assert.ErrorIs(t, f.discussion.Delete(ctx, other.ID, c.ID), errno.ErrCommentForbidden)

	updated, err := f.discussion.Update(ctx, author.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.CommentText)

	require.NoError(t, f.discussion.Delete(ctx, author.ID, c.ID))
	assert.ErrorIs(t, f.discussion.Delete(ctx, author.ID, c.ID), errno.ErrCommentNotFound)
}
