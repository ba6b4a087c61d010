package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/models"
)

var replyColumns = []string{"post_reply_id", "post_id", "parent_id", "profile_id", "reply", "created_at", "updated_at"}

func TestListRepliesRejectsMalformedID(t *testing.T) {
	s, mock := newMockStore(t)

	for _, raw := range []string{"abc", "", "0", "-4"} {
		replies, err := s.ListReplies(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidID)
		assert.Nil(t, replies)
	}
	// no query may have run
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepliesBuildsTwoLevelThread(t *testing.T) {
	s, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)
	t0 := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT \\* FROM `post_replies` WHERE post_id = \\? AND parent_id IS NULL ORDER BY created_at DESC, post_reply_id DESC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(replyColumns).
			AddRow(11, 7, nil, 1, "second", t0.Add(time.Hour), t0.Add(time.Hour)).
			AddRow(10, 7, nil, 1, "first", t0, t0))
	mock.ExpectQuery("SELECT \\* FROM `post_replies` WHERE `post_replies`.`parent_id` IN \\(\\?,\\?\\) ORDER BY created_at ASC, post_reply_id ASC").
		WillReturnRows(sqlmock.NewRows(replyColumns).
			AddRow(20, nil, 10, 2, "answer one", t0.Add(time.Minute), t0.Add(time.Minute)).
			AddRow(21, nil, 10, 2, "answer two", t0.Add(2*time.Minute), t0.Add(2*time.Minute)))
	mock.ExpectQuery("SELECT \\* FROM `profiles`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "name", "username", "avatar"}).
			AddRow(1, "Alice", "alice", "a.png"))
	mock.ExpectQuery("SELECT \\* FROM `profiles`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"profile_id", "name", "username", "avatar"}).
			AddRow(2, "Bob", "bob", "b.png"))

	thread, err := s.ListReplies(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, uint(11), thread[0].ID)
	assert.Empty(t, thread[0].Replies)
	assert.Equal(t, "alice", thread[0].Author.Username)

	assert.Equal(t, uint(10), thread[1].ID)
	require.Len(t, thread[1].Replies, 2)
	assert.Equal(t, uint(20), thread[1].Replies[0].ID)
	assert.Equal(t, "answer two", thread[1].Replies[1].Text)
	assert.Equal(t, Author{Name: "Bob", Username: "bob", Avatar: "b.png"}, thread[1].Replies[0].Author)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTopLevelReplySetsOnlyPostID(t *testing.T) {
	s, mock := newMockStore(t)

	expectPostAuthor(mock, 7, 9)
	mock.ExpectExec("INSERT INTO `post_replies`").
		WithArgs(7, nullArg{}, 3, "hello", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectQuery("SELECT `name`,`username`,`avatar` FROM `profiles`").
		WillReturnRows(sqlmock.NewRows([]string{"name", "username", "avatar"}).AddRow("Carol", "carol", ""))

	reply, postAuthorID, err := s.CreateReply(context.Background(), NewReply{PostID: 7, ProfileID: 3, Text: "  hello "})
	require.NoError(t, err)
	assert.Equal(t, uint(9), postAuthorID)
	assert.Equal(t, uint(30), reply.ID)
	assert.Equal(t, "hello", reply.Text)
	assert.Equal(t, "carol", reply.Author.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNestedReplySetsOnlyParentID(t *testing.T) {
	s, mock := newMockStore(t)
	parentID := uint(11)

	expectPostAuthor(mock, 7, 9)
	mock.ExpectQuery("SELECT `post_reply_id`,`post_id`,`parent_id` FROM `post_replies` WHERE post_reply_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"post_reply_id", "post_id", "parent_id"}).AddRow(11, 7, nil))
	mock.ExpectExec("INSERT INTO `post_replies`").
		WithArgs(nullArg{}, 11, 3, "me too", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery("SELECT `name`,`username`,`avatar` FROM `profiles`").
		WillReturnRows(sqlmock.NewRows([]string{"name", "username", "avatar"}).AddRow("Carol", "carol", ""))

	reply, _, err := s.CreateReply(context.Background(), NewReply{PostID: 7, ProfileID: 3, Text: "me too", TopLevelID: &parentID})
	require.NoError(t, err)
	assert.Equal(t, uint(31), reply.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReplyRejectsBadParent(t *testing.T) {
	parentID := uint(11)
	tests := []struct {
		name string
		rows *sqlmock.Rows
	}{
		{"parent is itself nested", sqlmock.NewRows([]string{"post_reply_id", "post_id", "parent_id"}).AddRow(11, nil, 4)},
		{"parent on another post", sqlmock.NewRows([]string{"post_reply_id", "post_id", "parent_id"}).AddRow(11, 8, nil)},
		{"parent missing", sqlmock.NewRows([]string{"post_reply_id", "post_id", "parent_id"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			expectPostAuthor(mock, 7, 9)
			mock.ExpectQuery("FROM `post_replies` WHERE post_reply_id = \\?").WillReturnRows(tt.rows)

			_, _, err := s.CreateReply(context.Background(), NewReply{PostID: 7, ProfileID: 3, Text: "x", TopLevelID: &parentID})
			assert.ErrorIs(t, err, ErrInvalidParent)
			// nothing inserted
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateReplyRejectsEmptyText(t *testing.T) {
	s, mock := newMockStore(t)
	_, _, err := s.CreateReply(context.Background(), NewReply{PostID: 7, ProfileID: 3, Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyReply)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReplyRequiresOwner(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `post_replies` WHERE post_reply_id = \\?").
		WillReturnRows(sqlmock.NewRows(replyColumns).AddRow(10, 7, nil, 1, "x", time.Now(), time.Now()))

	_, err := s.DeleteReply(context.Background(), 10, Actor{ProfileID: 2})
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTopLevelReplyRemovesChildren(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `post_replies` WHERE post_reply_id = \\?").
		WillReturnRows(sqlmock.NewRows(replyColumns).AddRow(10, 7, nil, 1, "x", time.Now(), time.Now()))
	expectPostAuthor(mock, 7, 9)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `post_replies` WHERE parent_id = \\?").WithArgs(10).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `post_replies` WHERE post_reply_id = \\?").WithArgs(10).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	postAuthorID, err := s.DeleteReply(context.Background(), 10, Actor{ProfileID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint(9), postAuthorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNestedReplyResolvesPostThroughParent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `post_replies` WHERE post_reply_id = \\?").
		WillReturnRows(sqlmock.NewRows(replyColumns).AddRow(20, nil, 10, 2, "child", time.Now(), time.Now()))
	mock.ExpectQuery("SELECT `post_reply_id`,`post_id` FROM `post_replies` WHERE post_reply_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"post_reply_id", "post_id"}).AddRow(10, 7))
	expectPostAuthor(mock, 7, 9)
	mock.ExpectBegin()
	// nested replies have no children to remove
	mock.ExpectExec("DELETE FROM `post_replies` WHERE post_reply_id = \\?").WithArgs(20).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	postAuthorID, err := s.DeleteReply(context.Background(), 20, Actor{ProfileID: 2})
	require.NoError(t, err)
	assert.Equal(t, uint(9), postAuthorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReplyOnMissingPost(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT `post_id`,`profile_id` FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "profile_id"}))

	_, _, err := s.CreateReply(context.Background(), NewReply{PostID: 7, ProfileID: 3, Text: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRepliesIncludesDirectChildren(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `post_replies` WHERE post_id = \\? OR parent_id IN \\(SELECT .*post_reply_id.* FROM `post_replies` WHERE post_id = \\?\\)").
		WithArgs(7, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := s.CountReplies(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

// expectPostAuthor expects the author lookup of postID and answers with authorID.
func expectPostAuthor(mock sqlmock.Sqlmock, postID, authorID uint) {
	mock.ExpectQuery("SELECT `post_id`,`profile_id` FROM `posts` WHERE post_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "profile_id"}).AddRow(int64(postID), int64(authorID)))
}

func TestBuildThreadKeepsOneLevel(t *testing.T) {
	post := uint(7)
	parent := uint(1)
	rows := []models.PostReply{{
		ID:      1,
		PostID:  &post,
		Reply:   "top",
		Profile: models.Profile{Username: "alice"},
		Children: []models.PostReply{{
			ID:       2,
			ParentID: &parent,
			Reply:    "child",
			Children: []models.PostReply{{ID: 3, Reply: "grandchild"}},
		}},
	}}

	thread := buildThread(rows)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "child", thread[0].Replies[0].Text)
	assert.Equal(t, "alice", thread[0].Author.Username)
}
