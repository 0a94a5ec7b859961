package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh_token:"

// ErrTokenNotFound covers never-issued, already-redeemed and expired
// tokens uniformly; callers must not be able to tell which.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshStore persists refresh tokens in Redis with a TTL. The token
// string itself is the key (namespaced), the value is the owning account
// id. Redemption is single-use: GETDEL removes the key in the same
// command, so concurrent redemptions of one token race to exactly one
// winner no matter how many server instances share the store.
type RefreshStore struct {
	client   redis.UniversalClient
	validity time.Duration
}

func NewRefreshStore(client redis.UniversalClient, validity time.Duration) *RefreshStore {
	return &RefreshStore{client: client, validity: validity}
}

// Save stores the token with the configured TTL. An existing key is
// overwritten; last write wins.
func (s *RefreshStore) Save(ctx context.Context, token string, accountID int64) error {
	err := s.client.Set(ctx, keyPrefix+token, accountID, s.validity).Err()
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// GetThenDelete atomically reads and removes the token, returning the
// owning account id. A missing key yields ErrTokenNotFound.
func (s *RefreshStore) GetThenDelete(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to redeem refresh token: %w", err)
	}

	accountID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token value %q: %w", val, err)
	}
	return accountID, nil
}
