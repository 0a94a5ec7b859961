package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/crypto"
	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/token"
	"backend/internal/tokenstore"

	"go.uber.org/zap"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not be able to distinguish them.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken covers never-issued, already-redeemed and
	// expired refresh tokens uniformly.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthService interface {
	Register(ctx context.Context, req RegisterInput) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type authService struct {
	accounts repository.AccountRepository
	signer   *token.Signer
	refresh  *tokenstore.RefreshStore
	logger   *zap.Logger
}

func NewAuthService(accounts repository.AccountRepository, signer *token.Signer, refresh *tokenstore.RefreshStore, logger *zap.Logger) AuthService {
	return &authService{
		accounts: accounts,
		signer:   signer,
		refresh:  refresh,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterInput) (*models.Account, error) {
	salt, err := crypto.NewSalt()
	if err != nil {
		s.logger.Error("Failed to generate salt", zap.Error(err))
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	account, err := s.accounts.CreateAccount(ctx, models.NewAccount{
		Username:  req.Username,
		Password:  crypto.HashPassword(req.Password, salt),
		Salt:      salt,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("Account registered", zap.Int64("account_id", account.ID))
	return account, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	cred, err := s.accounts.GetCredentialByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error as a wrong password so responses never reveal
			// whether the username exists.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to load credential", zap.Error(err))
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if !crypto.VerifyPassword(cred.PasswordDigest, password, cred.Salt) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, cred.AccountID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.Int64("account_id", cred.AccountID))
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	// Consuming the old token is one-way: if anything after this point
	// fails the session is lost and the user must log in again.
	accountID, err := s.refresh.GetThenDelete(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("Failed to redeem refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to redeem refresh token: %w", err)
	}

	pair, err := s.issueSession(ctx, accountID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session refreshed", zap.Int64("account_id", accountID))
	return pair, nil
}

// issueSession mints an access token for the account and persists a fresh
// single-use refresh token alongside it.
func (s *authService) issueSession(ctx context.Context, accountID int64) (*models.TokenPair, error) {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		// A verified identity whose account row is gone is a consistency
		// violation, not a client mistake.
		s.logger.Error("Failed to load account", zap.Int64("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("failed to load account %d: %w", accountID, err)
	}

	accessToken, expiredAt, err := s.signer.Issue(account.ID, account.DisplayName(), time.Now())
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := crypto.NewRefreshToken(account.ID)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.refresh.Save(ctx, refreshToken, account.ID); err != nil {
		s.logger.Error("Failed to save refresh token", zap.Error(err))
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiredAt:    expiredAt,
	}, nil
}
