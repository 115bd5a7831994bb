package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

const keyPrefix = "gophtasks:"

func tokenKey(id string) string {
	return keyPrefix + "token:" + id
}

const userTokensPrefix = keyPrefix + "user_tokens:"

func userTokensKey(userID int64) string {
	return userTokensPrefix + strconv.FormatInt(userID, 10)
}

// RedisRepository keeps each token as a JSON record plus a per-user set of
// token ids. Records expire after ttl when it is positive; the set may keep
// ids of expired records, which are harmless on delete.
type RedisRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

func NewRedisRepository(rdb redis.Cmdable, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl, now: time.Now}
}

func (r *RedisRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	token.CreatedAt = r.now().UTC()

	data, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(token.ID), data, r.ttl)
		p.SAdd(ctx, userTokensKey(token.UserID), token.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return token, nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Token, error) {
	data, err := r.rdb.Get(ctx, tokenKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	t := &models.Token{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return t, nil
}

// deleteScript drops a token record and its id from the owner's set in one
// step. The owner is read from the stored JSON, which Create writes without
// spaces. KEYS[1] is the record, ARGV[1] the set key prefix, ARGV[2] the id.
var deleteScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
	return 0
end
redis.call("DEL", KEYS[1])
local owner = string.match(data, '"user_id":(%-?%d+)')
if owner then
	redis.call("SREM", ARGV[1] .. owner, ARGV[2])
end
return 1
`)

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	err := deleteScript.Run(ctx, r.rdb, []string{tokenKey(id)}, userTokensPrefix, id).Err()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	return r.deleteForUser(ctx, userID, "")
}

func (r *RedisRepository) DeleteAllForUserExcept(ctx context.Context, userID int64, keepID string) error {
	return r.deleteForUser(ctx, userID, keepID)
}

func (r *RedisRepository) deleteForUser(ctx context.Context, userID int64, keepID string) error {
	setKey := userTokensKey(userID)

	ids, err := r.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	var drop []string
	for _, id := range ids {
		if id != keepID {
			drop = append(drop, id)
		}
	}
	if len(drop) == 0 {
		return nil
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range drop {
			p.Del(ctx, tokenKey(id))
			p.SRem(ctx, setKey, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
