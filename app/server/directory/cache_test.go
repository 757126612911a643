package directory

import (
	"context"
	"doc-editor/app/server/constants"
	"doc-editor/app/server/models"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCachedTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	s, mock := newTestStore(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(s.db, rdb, zap.NewNop()), mock, mr
}

func infoKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.CacheKeyUserInfo, id.String())
}

func versionKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.CacheKeyUserVersion, id.String())
}

func cachedUser(t *testing.T, mr *miniredis.Miniredis, id uuid.UUID) models.User {
	t.Helper()

	raw, err := mr.Get(infoKey(id))
	require.NoError(t, err)

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	return user
}

func TestStore_FindProfile_CachesOnMiss(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))

	user, err := s.FindProfile(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	assert.Equal(t, id, cachedUser(t, mr, id).ID)
	assert.Equal(t, constants.CacheExpireUserInfo, mr.TTL(infoKey(id)))

	// second read is served from redis, no further query is expected
	user, err = s.FindProfile(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindProfile_CorruptEntry(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)

	id := uuid.New()
	require.NoError(t, mr.Set(infoKey(id), "{not json"))
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))

	user, err := s.FindProfile(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	// the broken entry is replaced by the database row
	assert.Equal(t, id, cachedUser(t, mr, id).ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindProfile_NotFoundIsNotCached(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := s.FindProfile(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, mr.Exists(infoKey(id)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByID_IgnoresCache(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)

	id := uuid.New()
	stale, err := json.Marshal(models.User{ID: id, Name: "Ada", Email: "ada@example.com", IsAdmin: true})
	require.NoError(t, err)
	require.NoError(t, mr.Set(infoKey(id), string(stale)))

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))

	user, err := s.FindByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Update_InvalidatesCache(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, true))
	_, err := s.FindProfile(context.Background(), id.String())
	require.NoError(t, err)
	require.True(t, mr.Exists(infoKey(id)))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))

	_, err = s.Update(context.Background(), id.String(), map[string]any{"is_admin": false})
	require.NoError(t, err)

	assert.False(t, mr.Exists(infoKey(id)))
	version, err := mr.Get(versionKey(id))
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))
	user, err := s.FindProfile(context.Background(), id.String())
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A read that loaded the row before a revoke committed must not write the old
// role back after the revoke has cleared the cache.
func TestStore_FindProfile_StaleReadAfterUpdate(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)
	ctx := context.Background()

	id := uuid.New()
	version, ok := s.cacheVersion(ctx, id)
	require.True(t, ok)
	staleUser := &models.User{ID: id, Name: "Ada", Email: "ada@example.com", IsAdmin: true, CreatedAt: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))
	_, err := s.Update(ctx, id.String(), map[string]any{"is_admin": false})
	require.NoError(t, err)

	s.cacheUser(ctx, id, version, staleUser)
	assert.False(t, mr.Exists(infoKey(id)))

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))
	user, err := s.FindProfile(ctx, id.String())
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.False(t, cachedUser(t, mr, id).IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Same interleaving driven through FindProfile: its query is held until the
// revoke has committed.
func TestStore_FindProfile_ConcurrentRevoke(t *testing.T) {
	s, mock, mr := newCachedTestStore(t)
	ctx := context.Background()
	mock.MatchExpectationsInOrder(false)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillDelayFor(300 * time.Millisecond).
		WillReturnRows(userRow(id, true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRow(id, false))

	require.NoError(t, s.rdb.Ping(ctx).Err())
	base := mr.CommandCount()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.FindProfile(ctx, id.String())
	}()

	// cache lookup and version read are done once two commands have arrived
	require.Eventually(t, func() bool { return mr.CommandCount() >= base+2 }, time.Second, 5*time.Millisecond)

	_, err := s.Update(ctx, id.String(), map[string]any{"is_admin": false})
	require.NoError(t, err)

	<-done
	if mr.Exists(infoKey(id)) {
		assert.False(t, cachedUser(t, mr, id).IsAdmin)
	}
}
