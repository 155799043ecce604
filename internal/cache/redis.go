package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCache keeps session identity and the per-session itinerary list in
// redis. Each search replaces the session's itinerary list wholesale; an
// index is only ever valid against the most recent search.
type SessionCache struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewSessionCache(cfg config.RedisConfig, sessionTTL time.Duration) *SessionCache {
	return &SessionCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		sessionTTL: sessionTTL,
	}
}

func (c *SessionCache) CreateSession(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := c.client.Set(ctx, sessionKey(token), username, c.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// GetSession resolves a token to the logged-in username. An unknown or
// expired token returns ErrNotAuthenticated.
func (c *SessionCache) GetSession(ctx context.Context, token string) (string, error) {
	username, err := c.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotAuthenticated
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return username, nil
}

func (c *SessionCache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKey(token), itinerariesKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PutItineraries replaces the session's itinerary list. Indices are the
// positions in the stored slice.
func (c *SessionCache) PutItineraries(ctx context.Context, token string, itineraries []domain.Itinerary) error {
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return fmt.Errorf("encode itineraries: %w", err)
	}
	if err := c.client.Set(ctx, itinerariesKey(token), payload, c.sessionTTL).Err(); err != nil {
		return fmt.Errorf("store itineraries: %w", err)
	}
	return nil
}

// GetItinerary returns the itinerary at the given index of the session's
// most recent search, or ErrUnknownItinerary.
func (c *SessionCache) GetItinerary(ctx context.Context, token string, index int) (*domain.Itinerary, error) {
	data, err := c.client.Get(ctx, itinerariesKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnknownItinerary
		}
		return nil, fmt.Errorf("load itineraries: %w", err)
	}

	var itineraries []domain.Itinerary
	if err := json.Unmarshal(data, &itineraries); err != nil {
		return nil, fmt.Errorf("decode itineraries: %w", err)
	}
	if index < 0 || index >= len(itineraries) {
		return nil, domain.ErrUnknownItinerary
	}
	it := itineraries[index]
	return &it, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func itinerariesKey(token string) string {
	return fmt.Sprintf("itineraries:%s", token)
}
