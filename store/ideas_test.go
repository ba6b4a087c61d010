package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claimIdeaSQL = "UPDATE `gpt_ideas` SET `claimed_at`=\\?,`claimed_by`=\\? WHERE gpt_idea_id = \\? AND claimed_at IS NULL"

func TestClaimIdea(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(claimIdeaSQL).
		WithArgs(sqlmock.AnyArg(), 3, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.ClaimIdea(context.Background(), 11, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimIdeaAlreadyClaimed(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(claimIdeaSQL).
		WithArgs(sqlmock.AnyArg(), 4, 11).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `gpt_ideas` WHERE gpt_idea_id = \\?").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := s.ClaimIdea(context.Background(), 11, 4)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimIdeaMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(claimIdeaSQL).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `gpt_ideas` WHERE gpt_idea_id = \\?").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := s.ClaimIdea(context.Background(), 99, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
