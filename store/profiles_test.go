package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidUsername(t *testing.T) {
	for _, ok := range []string{"abc", "maker_01", "we-make", "a23456789012345678_0"} {
		assert.True(t, ValidUsername(ok), ok)
	}
	for _, bad := range []string{"ab", "Upper", "has space", "a234567890123456789012", "dots.here", ""} {
		assert.False(t, ValidUsername(bad), bad)
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := map[string]string{
		"John.Doe":    "john_doe",
		"  __abc__ ":  "abc",
		"한글name":      "name",
		"we-make dev": "we-make_dev",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeUsername(in), in)
	}
}

func TestFindOrCreateProfileMatchesProvider(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `profiles` WHERE provider = \\? AND provider_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "name", "username", "provider", "provider_id"}).
			AddRow(4, "Alice", "alice", "github", "99"))

	p, err := s.FindOrCreateProfile(context.Background(), Identity{Provider: "github", ProviderID: "99", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(4), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateProfileCreatesWithFreeUsername(t *testing.T) {
	s, mock := newMockStore(t)
	profileCols := []string{"profile_id", "name", "username"}

	mock.ExpectQuery("FROM `profiles` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows(profileCols))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `profiles` WHERE username = \\?").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `profiles` WHERE username = \\?").
		WithArgs("bob_1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `profiles`").
		WillReturnResult(sqlmock.NewResult(12, 1))

	p, err := s.FindOrCreateProfile(context.Background(), Identity{Provider: "email", Email: "Bob@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(12), p.ID)
	assert.Equal(t, "bob_1", p.Username)
	assert.Equal(t, "bob@example.com", p.EmailValue())
	require.NoError(t, mock.ExpectationsWereMet())
}
