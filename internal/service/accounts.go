// Package service implements the account, content and discussion operations behind
// the HTTP handlers.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"videotube-api/internal/database"
	"videotube-api/internal/errno"
	"videotube-api/internal/media"
	"videotube-api/internal/models"
)

// TokenIssuer signs session tokens for an account.
type TokenIssuer interface {
	Issue(acc *models.Account) (string, error)
}

type AccountService struct {
	store  *database.Store
	media  media.Provider
	tokens TokenIssuer
	log    *logrus.Logger
}

func NewAccountService(store *database.Store, provider media.Provider, tokens TokenIssuer, log *logrus.Logger) *AccountService {
	return &AccountService{store: store, media: provider, tokens: tokens, log: log}
}

// SignupInput is a registration request. LogoPath points at the staged avatar file.
type SignupInput struct {
	ChannelName string
	Email       string
	Phone       string
	Password    string
	LogoPath    string
}

// LoginResult is the profile and token returned by a successful login.
type LoginResult struct {
	ID                 string   `json:"_id"`
	Email              string   `json:"email"`
	ChannelName        string   `json:"channelName"`
	Phone              string   `json:"phone"`
	LogoID             string   `json:"logoId"`
	LogoURL            string   `json:"logoUrl"`
	Token              string   `json:"token"`
	Subscribers        int64    `json:"subscribers"`
	SubscribedChannels []string `json:"subscribedChannels"`
}

// Register creates an account with a hashed password and an uploaded avatar. A taken
// email yields errno.ErrEmailTaken whether it is caught up front or by the unique index.
func (s *AccountService) Register(ctx context.Context, in SignupInput) (*models.Account, error) {
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.ChannelName) == "" || in.Email == "" || in.Password == "" {
		return nil, errno.ErrMissingSignupFields
	}
	if in.LogoPath == "" {
		return nil, errno.ErrMissingLogo
	}

	taken, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errno.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	logo, err := s.media.Upload(ctx, in.LogoPath, media.KindImage)
	if err != nil {
		return nil, errors.Wrap(err, "upload logo")
	}

	acc := &models.Account{
		ChannelName: strings.TrimSpace(in.ChannelName),
		Email:       in.Email,
		Phone:       in.Phone,
		Password:    string(hash),
		LogoURL:     logo.URL,
		LogoID:      logo.ID,
	}
	if err := s.store.CreateAccount(ctx, acc); err != nil {
		discardAsset(ctx, s.media, s.log, logo.ID)
		return nil, err
	}

	acc.SubscribedBy, acc.SubscribedChannels = []string{}, []string{}
	s.log.WithFields(logrus.Fields{"account_id": acc.ID, "email": acc.Email}).Info("account registered")
	return acc, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	acc, err := s.store.FindAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), passwordDigest(password)); err != nil {
		return nil, errno.ErrInvalidPassword
	}
	if err := s.store.LoadRelations(ctx, acc); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(acc)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &LoginResult{
		ID:                 acc.ID,
		Email:              acc.Email,
		ChannelName:        acc.ChannelName,
		Phone:              acc.Phone,
		LogoID:             acc.LogoID,
		LogoURL:            acc.LogoURL,
		Token:              token,
		Subscribers:        acc.Subscribers,
		SubscribedChannels: acc.SubscribedChannels,
	}, nil
}

func (s *AccountService) Subscribe(ctx context.Context, callerID, channelID string) error {
	if callerID == channelID {
		return errno.ErrSubscribeSelf
	}
	if err := s.store.Subscribe(ctx, callerID, channelID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"subscriber_id": callerID, "channel_id": channelID}).Info("subscribed")
	return nil
}

func (s *AccountService) Unsubscribe(ctx context.Context, callerID, channelID string) error {
	if err := s.store.Unsubscribe(ctx, callerID, channelID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"subscriber_id": callerID, "channel_id": channelID}).Info("unsubscribed")
	return nil
}

// Profile returns a channel's public profile with both subscription sets.
func (s *AccountService) Profile(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.store.FindAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.LoadRelations(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// Logout revokes every token issued to the account so far.
func (s *AccountService) Logout(ctx context.Context, callerID string) error {
	if err := s.store.BumpTokenVersion(ctx, callerID); err != nil {
		return err
	}
	s.log.WithField("account_id", callerID).Info("tokens revoked")
	return nil
}

// passwordDigest is what bcrypt sees in place of the raw password. bcrypt refuses
// inputs over 72 bytes; the base64 SHA-256 digest is always 44.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// discardAsset deletes an asset nothing refers to any more. Failures are only logged.
func discardAsset(ctx context.Context, provider media.Provider, log *logrus.Logger, id string) {
	if id == "" {
		return
	}
	if err := provider.Delete(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).WithField("asset_id", id).Warn("failed to delete orphaned asset")
	}
}
