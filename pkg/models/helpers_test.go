package models

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault-io/docvault/pkg/ownerid"
	"github.com/docvault-io/docvault/pkg/storage"
)

// testCompany is an owner-capable fixture entity.
type testCompany struct {
	gorm.Model
	DocOwnerID ownerid.ID `gorm:"type:uuid;uniqueIndex"`
	Name       string
}

func (testCompany) TableName() string { return "test_companies" }

func (c *testCompany) DocumentOwnerID() ownerid.ID      { return c.DocOwnerID }
func (c *testCompany) SetDocumentOwnerID(id ownerid.ID) { c.DocOwnerID = id }
func (c *testCompany) DisplayName() string              { return c.Name }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Each pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(ModelsToAutoMigrate()...))
	for _, stmt := range MigrationStatements() {
		require.NoError(t, db.Exec(stmt).Error)
	}
	require.NoError(t, db.AutoMigrate(&testCompany{}))
	return db
}

func newTestStore() storage.Store {
	return storage.NewFileStore(afero.NewMemMapFs())
}

func newTestRegistry(t *testing.T) *ownerid.Registry {
	t.Helper()

	registry := ownerid.NewRegistry()
	registry.MustRegister("test_company", func(db *gorm.DB, id ownerid.ID) (ownerid.Owner, error) {
		var c testCompany
		if err := db.Where("doc_owner_id = ?", id).First(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	})
	return registry
}

func createTestCompany(t *testing.T, db *gorm.DB, name string) *testCompany {
	t.Helper()

	company := &testCompany{Name: name}
	provider := ownerid.NewProvider()
	_, err := provider.Assign(company, nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(company).Error)
	return company
}

func createTestType(t *testing.T, db *gorm.DB, code string, mutate func(*DocumentType)) *DocumentType {
	t.Helper()

	dt := &DocumentType{
		Code:          code,
		Name:          code + " documents",
		MaxFileSizeMB: 10,
	}
	if mutate != nil {
		mutate(dt)
	}
	require.NoError(t, dt.Create(db))
	return dt
}

// fileOfSize returns deterministic content of the given byte length.
func fileOfSize(n int, fill byte) *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{fill}, n))
}
