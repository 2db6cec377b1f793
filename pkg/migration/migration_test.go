package migration

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func withRegistry(t *testing.T, regs ...registeredMigration) {
	t.Helper()
	saved := registry
	registry = regs
	t.Cleanup(func() { registry = saved })
}

func TestRunRollbackStatus(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	withRegistry(t, registeredMigration{"20260101000000_create_widgets", createWidgets{}})

	var out bytes.Buffer
	r := New(db, &out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.Contains(t, out.String(), "Migrated:  20260101000000_create_widgets")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []StatusRow{{Name: "20260101000000_create_widgets", Ran: true, Batch: 1}}, rows)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	rows, err = r.Status()
	require.NoError(t, err)
	assert.False(t, rows[0].Ran)
}

func TestRollbackNothing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	withRegistry(t)

	n, err := New(db, nil).Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}
