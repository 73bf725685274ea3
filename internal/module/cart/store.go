package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// schemaVersion is the current cart document version. Stored carts carry it
// so the shape can change without stranding carts written by older builds.
const schemaVersion = 1

// Store persists carts between sessions.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, userID uuid.UUID, c *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// cartDocument is the stored envelope.
type cartDocument struct {
	Version int        `json:"v"`
	Items   []LineItem `json:"items"`
}

// RedisStore stores carts as versioned JSON documents in Redis.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a cart store. A zero ttl disables expiry.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &Cart{}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return decodeDocument(data)
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, c *Cart) error {
	doc := cartDocument{
		Version: schemaVersion,
		Items:   c.Items,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// decodeDocument decodes a stored cart. Documents written before the
// versioned envelope were a bare item array; those are migrated on read and
// rewritten in the current shape on the next save.
func decodeDocument(data []byte) (*Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []LineItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
		}
		return &Cart{Items: items}, nil
	}

	var doc cartDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.Version > schemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadDocument, doc.Version)
	}
	return &Cart{Items: doc.Items}, nil
}
