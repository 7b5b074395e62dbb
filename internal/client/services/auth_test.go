package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/useradmin/internal/client/client"
	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore lets Set/Delete fail on demand.
type failingStore struct {
	metadata.Repository
	SetErr    error
	DeleteErr error
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	return s.Repository.Set(ctx, key, value)
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.Repository.Delete(ctx, key)
}

func TestAuth_Restore_NoToken_StaysLoggedOut(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(db), nil, nil)

	require.NoError(t, svc.Restore(context.Background()))

	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, fc.Token)
}

func TestAuth_Restore_StoredToken_AuthenticatedWithoutNetwork(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, common.TokenStorageKey, "QpwL5tke4Pnpja7X4")
	require.NoError(t, err)

	fc := &fakeClient{LoginErr: errors.New("must not be called")}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(db), nil, nil)

	require.NoError(t, svc.Restore(context.Background()))

	assert.Equal(t, models.Session{Token: "QpwL5tke4Pnpja7X4", Authenticated: true}, svc.Session())
	assert.Equal(t, "QpwL5tke4Pnpja7X4", fc.Token)
	assert.Empty(t, fc.LastCreds.Email, "restore must not log in")
}

func TestAuth_Login_Success_PersistsTokenAndNotifies(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginToken: "QpwL5tke4Pnpja7X4"}
	rec := &recNotifier{}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(db), rec, nil)

	creds := models.Credentials{Email: "eve.holt@reqres.in", Password: "cityslicka"}
	require.NoError(t, svc.Login(context.Background(), creds))

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, creds, fc.LastCreds)
	assert.Equal(t, "QpwL5tke4Pnpja7X4", fc.Token)

	v, ok := getMeta(t, db, common.TokenStorageKey)
	require.True(t, ok)
	assert.Equal(t, "QpwL5tke4Pnpja7X4", v)

	assert.Equal(t, []note{{Kind: "success", Msg: MsgLoginSucceeded}}, rec.all())
}

func TestAuth_Login_Rejected_NothingPersisted(t *testing.T) {
	db := setupDB(t)
	loginErr := &client.AuthError{Err: &client.RequestError{
		Op: "login", StatusCode: 400, Message: "user not found", Err: client.ErrUnavailable,
	}}
	fc := &fakeClient{LoginErr: loginErr}
	rec := &recNotifier{}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(db), rec, nil)

	err := svc.Login(context.Background(), models.Credentials{Email: "nobody@reqres.in", Password: "x"})
	require.Error(t, err)

	var ae *client.AuthError
	require.True(t, errors.As(err, &ae))
	assert.False(t, svc.IsAuthenticated())

	_, ok := getMeta(t, db, common.TokenStorageKey)
	assert.False(t, ok, "token must not be stored on failure")

	assert.Equal(t, []note{{Kind: "error", Msg: "user not found"}}, rec.all())
}

func TestAuth_Login_StoreFailure_StaysLoggedOut(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginToken: "tok"}
	store := &failingStore{Repository: metadata.NewSQLiteRepository(db), SetErr: errors.New("disk full")}
	rec := &recNotifier{}
	svc := NewAuthService(fc, store, rec, nil)

	err := svc.Login(context.Background(), models.Credentials{Email: "eve.holt@reqres.in", Password: "cityslicka"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, fc.Token)
	assert.Equal(t, []note{{Kind: "error", Msg: client.MsgLoginFailed}}, rec.all())
}

func TestAuth_Logout_ClearsTokenAndState(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginToken: "tok"}
	rec := &recNotifier{}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(db), rec, nil)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, models.Credentials{Email: "eve.holt@reqres.in", Password: "cityslicka"}))
	require.NoError(t, svc.Logout(ctx))

	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, svc.Session().Token)
	assert.Empty(t, fc.Token)

	_, ok := getMeta(t, db, common.TokenStorageKey)
	assert.False(t, ok)

	notes := rec.all()
	require.Len(t, notes, 2)
	assert.Equal(t, note{Kind: "info", Msg: MsgLoggedOut}, notes[1])

	// a fresh start after logout does not restore anything
	again := NewAuthService(&fakeClient{}, metadata.NewSQLiteRepository(db), nil, nil)
	require.NoError(t, again.Restore(ctx))
	assert.False(t, again.IsAuthenticated())
}

func TestAuth_Logout_StoreFailure_StillClearsState(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginToken: "tok"}
	store := &failingStore{Repository: metadata.NewSQLiteRepository(db)}
	svc := NewAuthService(fc, store, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, models.Credentials{Email: "a@b.c", Password: "p"}))
	store.DeleteErr = errors.New("locked")

	err := svc.Logout(ctx)
	require.Error(t, err)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuth_Close_PropagatesClientError(t *testing.T) {
	fc := &fakeClient{CloseErr: errors.New("boom")}
	svc := NewAuthService(fc, metadata.NewSQLiteRepository(setupDB(t)), nil, nil)
	require.EqualError(t, svc.Close(context.Background()), "boom")
}
