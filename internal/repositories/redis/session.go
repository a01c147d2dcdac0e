// Package redisrepo holds the redis-backed repositories, today only the
// session role store.
package redisrepo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

const sessionKeyPrefix = "session:"
const sessionField = "userType"

// SessionRedis stores the active role per subject under a single userType
// key. The store is the only state that survives a client restart; every
// route evaluation reads it.
type SessionRedis struct {
	client *redis.Client
}

func NewSessionRedis(client *redis.Client) *SessionRedis {
	return &SessionRedis{client: client}
}

func sessionKey(subject string) string {
	return fmt.Sprintf("%s%s:%s", sessionKeyPrefix, subject, sessionField)
}

// GetRole returns the stored role for subject. A missing key, an
// unreachable store or a corrupt value all read as RoleNone: the caller is
// treated as logged out, never handed an error it cannot act on.
func (r *SessionRedis) GetRole(ctx context.Context, subject string) (models.UserRole, error) {
	if r.client == nil {
		return models.RoleNone, nil
	}

	value, err := r.client.Get(ctx, sessionKey(subject)).Result()
	if err != nil {
		return models.RoleNone, nil
	}

	role := models.UserRole(value)
	if !role.Valid() {
		return models.RoleNone, nil
	}
	return role, nil
}

// SetRole persists the role for subject. RoleNone deletes the key entirely
// (logout); there is no other validation beyond enum membership.
func (r *SessionRedis) SetRole(ctx context.Context, subject string, role models.UserRole) error {
	if r.client == nil {
		return fmt.Errorf("session store not available")
	}

	key := sessionKey(subject)
	if role == models.RoleNone {
		return r.client.Del(ctx, key).Err()
	}
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	return r.client.Set(ctx, key, string(role), 0).Err()
}
