package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"social-client/internal/models"
	"social-client/internal/storage"
)

const (
	ProfileKey     = "profile.v1"
	WhoToFollowKey = "whoToFollow.v1"
	userKeyPrefix  = "user_"
)

// UserKey is the storage key of the profile bound to a session token.
func UserKey(token string) string {
	return userKeyPrefix + token
}

// Store reads and writes JSON documents in local storage. Reads never fail:
// missing or corrupt entries are reported as absent.
type Store struct {
	kv storage.KeyValue
}

func New(kv storage.KeyValue) *Store {
	return &Store{kv: kv}
}

func (s *Store) LoadProfile(ctx context.Context) (models.ProfileData, bool) {
	var p models.ProfileData
	return p, s.load(ctx, ProfileKey, &p)
}

func (s *Store) SaveProfile(ctx context.Context, p models.ProfileData) error {
	return s.save(ctx, ProfileKey, p)
}

func (s *Store) LoadWhoToFollow(ctx context.Context) []models.WhoToFollow {
	var list []models.WhoToFollow
	if !s.load(ctx, WhoToFollowKey, &list) || list == nil {
		return []models.WhoToFollow{}
	}
	return list
}

func (s *Store) SaveWhoToFollow(ctx context.Context, list []models.WhoToFollow) error {
	if list == nil {
		list = []models.WhoToFollow{}
	}
	return s.save(ctx, WhoToFollowKey, list)
}

func (s *Store) LoadUserProfile(ctx context.Context, token string) (models.AuthUser, bool) {
	var u models.AuthUser
	if token == "" {
		return u, false
	}
	return u, s.load(ctx, UserKey(token), &u)
}

func (s *Store) SaveUserProfile(ctx context.Context, token string, u models.AuthUser) error {
	if token == "" {
		return errors.New("empty session token")
	}
	return s.save(ctx, UserKey(token), u)
}

func (s *Store) DeleteUserProfile(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Delete(ctx, UserKey(token))
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("persist load failed: key=%s err=%v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("persist decode failed: key=%s err=%v", key, err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
