package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RevocationList answers whether a verified token was revoked before it expired.
// The identity service writes revocations; this service only reads them.
type RevocationList interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

const revocationKeyPrefix = "token:revoked:"

// RedisRevocationList reads revocations from the shared Redis instance.
// Two key shapes are honored:
//
//	token:revoked:jti:<jti>       single token
//	token:revoked:user:<user_id>  unix time; tokens issued at or before it are revoked
type RedisRevocationList struct {
	client redis.UniversalClient
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client redis.UniversalClient) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// IsRevoked implements RevocationList
func (r *RedisRevocationList) IsRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if claims.ID != "" {
		n, err := r.client.Exists(ctx, revocationKeyPrefix+"jti:"+claims.ID).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}

	raw, err := r.client.Get(ctx, revocationKeyPrefix+"user:"+claims.UserID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return claims.GetIssuedAtTime().Unix() <= revokedAt, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)
