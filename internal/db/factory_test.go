package db

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/models"
)

type FactorySuite struct {
	suite.Suite
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) TestInMemory() {
	conn, err := NewConnectionFactory(s.T().Context(), FactoryConfig{StorageType: StorageTypeInMemory}, zap.NewNop())
	s.Require().NoError(err)
	s.NotNil(conn.Memory)
	s.Nil(conn.Gorm)
	s.Require().NoError(conn.Ping(s.T().Context()))
	s.Require().NoError(conn.Close())
}

func (s *FactorySuite) TestSQLite() {
	path := ":memory:"
	conn, err := NewConnectionFactory(s.T().Context(), FactoryConfig{
		StorageType:  StorageTypeSQLite,
		SqliteDBPath: &path,
	}, zap.NewNop())
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.Ping(s.T().Context()))
	s.True(conn.Gorm.Migrator().HasTable(&models.Bookmark{}))
}

func (s *FactorySuite) TestErrors() {
	ctx := s.T().Context()
	_, err := NewConnectionFactory(ctx, FactoryConfig{StorageType: "oracle"}, zap.NewNop())
	s.Require().Error(err)

	_, err = NewConnectionFactory(ctx, FactoryConfig{StorageType: StorageTypePostgres}, zap.NewNop())
	s.Require().Error(err)

	_, err = NewConnectionFactory(ctx, FactoryConfig{StorageType: StorageTypeSQLite}, zap.NewNop())
	s.Require().Error(err)

	s.Require().Error(RedisOptions{}.validate())
	s.Require().NoError(DefaultRedisOptions("localhost:6379").validate())
}

func (s *FactorySuite) TestMemorySequence() {
	m := NewMemStorage()
	s.Equal(uint(1), m.NextID())

	m.ObserveID(10)
	s.Equal(uint(11), m.NextID())

	m.ObserveID(3)
	s.Equal(uint(12), m.NextID())
}
