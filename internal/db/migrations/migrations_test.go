package migrations

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fsdevblog/barky/internal/models"
)

type MigrationsSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestMigrationsSuite(t *testing.T) {
	suite.Run(t, new(MigrationsSuite))
}

func (s *MigrationsSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.db = db
}

func (s *MigrationsSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *MigrationsSuite) TestApply() {
	applied, err := Apply(s.T().Context(), s.db, All(), nil)
	s.Require().NoError(err)
	s.Equal([]uint{1, 2}, applied)

	s.True(s.db.Migrator().HasTable(&models.Bookmark{}))
	s.True(s.db.Migrator().HasIndex(&models.Bookmark{}, "idx_bookmarks_date_added"))

	var count int64
	s.Require().NoError(s.db.Model(&SchemaMigration{}).Count(&count).Error)
	s.Equal(int64(2), count)
}

func (s *MigrationsSuite) TestApply_Idempotent() {
	_, err := Apply(s.T().Context(), s.db, All(), nil)
	s.Require().NoError(err)

	applied, err := Apply(s.T().Context(), s.db, All(), nil)
	s.Require().NoError(err)
	s.Empty(applied)
}

func (s *MigrationsSuite) TestApply_ModelMatchesSchema() {
	_, err := Apply(s.T().Context(), s.db, All(), nil)
	s.Require().NoError(err)

	b := models.Bookmark{ID: 7, Title: "Github", URL: "https://github.com/"}
	s.Require().NoError(s.db.Create(&b).Error)

	var got models.Bookmark
	s.Require().NoError(s.db.First(&got, 7).Error)
	s.Equal("Github", got.Title)
	s.Equal("", got.Notes)
}

func (s *MigrationsSuite) TestApply_FailedStepRollsBack() {
	list := append(All(), Migration{
		Version: 3,
		Name:    "broken",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE broken (").Error
		},
	})
	applied, err := Apply(s.T().Context(), s.db, list, nil)
	s.Require().Error(err)
	s.Equal([]uint{1, 2}, applied)

	var count int64
	s.Require().NoError(s.db.Model(&SchemaMigration{}).Where("version = ?", 3).Count(&count).Error)
	s.Zero(count)
}

func (s *MigrationsSuite) TestValidate() {
	noop := func(*gorm.DB) error { return nil }
	s.Require().Error(validate([]Migration{{Version: 2, Up: noop}, {Version: 1, Up: noop}}))
	s.Require().Error(validate([]Migration{{Version: 1, Up: noop}, {Version: 1, Up: noop}}))
	s.Require().Error(validate([]Migration{{Version: 1}}))
	s.Require().NoError(validate(All()))
}
