//go:build integration

package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"signup/pkg/platform/sentinel"
	"signup/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	s.redis.Close(s.ctx)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestSaveAndLookup() {
	id := uuid.New()
	s.Require().NoError(s.store.Save(s.ctx, "tok", id, time.Minute))

	got, err := s.store.Lookup(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(id, got)

	ttl, err := s.redis.Client.TTL(s.ctx, activationKeyPrefix+"tok").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestExpiry() {
	s.Require().NoError(s.store.Save(s.ctx, "short", uuid.New(), time.Second))
	s.Eventually(func() bool {
		_, err := s.store.Lookup(s.ctx, "short")
		return err != nil && err == sentinel.ErrNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisStoreSuite) TestUnknownToken() {
	_, err := s.store.Lookup(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
