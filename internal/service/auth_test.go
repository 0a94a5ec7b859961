package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/crypto"
	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/token"
	"backend/internal/tokenstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAccountRepo keeps accounts and credentials in maps, mirroring the
// relational store the service sees in production.
type fakeAccountRepo struct {
	accounts    map[int64]models.Account
	credentials map[string]models.Credential
	nextID      int64
	created     []models.NewAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:    map[int64]models.Account{},
		credentials: map[string]models.Credential{},
		nextID:      1,
	}
}

func (f *fakeAccountRepo) CreateAccount(_ context.Context, acc models.NewAccount) (*models.Account, error) {
	if _, ok := f.credentials[acc.Username]; ok {
		return nil, repository.ErrDuplicateUsername
	}
	account := models.Account{
		ID:        f.nextID,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
	}
	f.nextID++
	f.accounts[account.ID] = account
	f.credentials[acc.Username] = models.Credential{
		Username:       acc.Username,
		PasswordDigest: acc.Password,
		Salt:           acc.Salt,
		AccountID:      account.ID,
	}
	f.created = append(f.created, acc)
	return &account, nil
}

func (f *fakeAccountRepo) GetAccountByID(_ context.Context, id int64) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (f *fakeAccountRepo) GetCredentialByUsername(_ context.Context, username string) (*models.Credential, error) {
	cred, ok := f.credentials[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cred, nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeAccountRepo) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	signer, err := token.NewSigner([]byte("test-secret"), 7*24*time.Hour, 0)
	require.NoError(t, err)

	repo := newFakeAccountRepo()
	svc := NewAuthService(repo, signer, tokenstore.NewRefreshStore(rdb, 14*24*time.Hour), zap.NewNop())
	return svc, repo
}

func registerAlice(t *testing.T, svc AuthService) *models.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), RegisterInput{
		Username:  "alice",
		Password:  "secret",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)
	return account
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestAuthService(t)
	account := registerAlice(t, svc)

	assert.Equal(t, "alice@example.com", account.Email)
	require.Len(t, repo.created, 1)

	stored := repo.created[0]
	assert.Len(t, stored.Salt, crypto.SaltLength)
	assert.NotEqual(t, "secret", stored.Password)
	assert.Equal(t, crypto.HashPassword("secret", stored.Salt), stored.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:  "alice",
		Password:  "another",
		Email:     "alice2@example.com",
		FirstName: "Alice",
		LastName:  "Jones",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _ := newTestAuthService(t)
	account := registerAlice(t, svc)

	before := time.Now()
	pair, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.InDelta(t, before.Add(7*24*time.Hour).Unix(), pair.ExpiredAt, 5)

	signer, err := token.NewSigner([]byte("test-secret"), 7*24*time.Hour, 0)
	require.NoError(t, err)
	accountID, claims, err := signer.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, accountID)
	assert.Equal(t, "Alice Smith", claims.Name)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerAlice(t, svc)

	// Wrong password and unknown username must be the exact same error.
	_, wrongPassword := svc.Login(context.Background(), "alice", "nope")
	_, unknownUser := svc.Login(context.Background(), "mallory", "secret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerAlice(t, svc)

	pair, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old token died on first redemption.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The new one is live.
	_, err = svc.Refresh(context.Background(), next.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshVanishedAccountIsInternal(t *testing.T) {
	svc, repo := newTestAuthService(t)
	account := registerAlice(t, svc)

	pair, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	// Account row deleted between token issuance and redemption: a
	// consistency violation, not a client error.
	delete(repo.accounts, account.ID)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRefreshToken)
}
