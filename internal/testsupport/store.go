package testsupport

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"videotube-api/internal/database"
)

// QuietLogger discards everything written to it.
func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewStore opens a migrated private in-memory SQLite store closed at test end.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", QuietLogger())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := database.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
