package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/api/apitest"
	"github.com/vovakirdan/arcaderank/internal/storage"
)

const strongPassword = "correct horse battery staple"

func setup(t *testing.T) (*apitest.Server, *storage.Store, *api.Client) {
	t.Helper()
	srv := apitest.New(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "arcade.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return srv, store, api.New(srv.URL)
}

func TestDecode(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddUser("neo", "neo@matrix.io", strongPassword)

	s, err := Decode(srv.Token(id, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, id, s.UserID)
	assert.Equal(t, "neo", s.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(s.ExpiresAt))
}

func TestDecodeMalformed(t *testing.T) {
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", "a.b.c", noSub} {
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}

func TestDecodeWithoutExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte("k"))
	require.NoError(t, err)

	s, err := Decode(token)
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.False(t, s.Expired(time.Now().Add(100*365*24*time.Hour)))
}

func TestLoginPersistsAndRestores(t *testing.T) {
	srv, store, client := setup(t)
	srv.AddUser("neo", "neo@matrix.io", strongPassword)

	m := NewManager(store, client, nil)
	s, err := m.Login(context.Background(), "neo@matrix.io", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "neo", s.Username)
	assert.Equal(t, s.Token, client.Token())

	// A fresh process restores the same session from disk.
	client2 := api.New(srv.URL)
	m2 := NewManager(store, client2, nil)
	restored, ok, err := m2.Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s.UserID, restored.UserID)
	assert.Equal(t, s.Token, client2.Token())

	cur, ok := m2.Current()
	assert.True(t, ok)
	assert.Equal(t, "neo", cur.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	srv, store, client := setup(t)
	srv.AddUser("neo", "neo@matrix.io", strongPassword)

	m := NewManager(store, client, nil)
	_, err := m.Login(context.Background(), "neo@matrix.io", "nope")

	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
	_, ok := m.Current()
	assert.False(t, ok)
	_, err = store.LoadToken()
	assert.ErrorIs(t, err, storage.ErrNoToken)
}

func TestRestoreExpiredDeletesToken(t *testing.T) {
	srv, store, client := setup(t)
	id := srv.AddUser("neo", "neo@matrix.io", strongPassword)
	require.NoError(t, store.SaveToken(srv.Token(id, -time.Minute)))

	m := NewManager(store, client, nil)
	_, ok, err := m.Restore()

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.Token())
	_, err = store.LoadToken()
	assert.ErrorIs(t, err, storage.ErrNoToken)
}

func TestRestoreGarbageDeletesToken(t *testing.T) {
	_, store, client := setup(t)
	require.NoError(t, store.SaveToken("garbage"))

	m := NewManager(store, client, nil)
	_, ok, err := m.Restore()

	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.LoadToken()
	assert.ErrorIs(t, err, storage.ErrNoToken)
}

func TestRestoreUsesClock(t *testing.T) {
	srv, store, client := setup(t)
	id := srv.AddUser("neo", "neo@matrix.io", strongPassword)
	require.NoError(t, store.SaveToken(srv.Token(id, time.Hour)))

	m := NewManager(store, client, nil)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok, err := m.Restore()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	srv, store, client := setup(t)
	srv.AddUser("neo", "neo@matrix.io", strongPassword)
	m := NewManager(store, client, nil)
	_, err := m.Login(context.Background(), "neo@matrix.io", strongPassword)
	require.NoError(t, err)

	require.NoError(t, m.Logout())

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Empty(t, client.Token())
	_, err = store.LoadToken()
	assert.ErrorIs(t, err, storage.ErrNoToken)
}

func TestRegisterValidatesFirst(t *testing.T) {
	_, store, client := setup(t)
	m := NewManager(store, client, nil)

	err := m.Register(context.Background(), "neo", "neo@matrix.io", "123456")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	_, loginErr := client.Login(context.Background(), "neo@matrix.io", "123456")
	assert.ErrorIs(t, loginErr, api.ErrInvalidCredentials, "weak password must not reach the backend")
}

func TestRegisterThenProfile(t *testing.T) {
	_, store, client := setup(t)
	m := NewManager(store, client, nil)
	ctx := context.Background()

	require.NoError(t, m.Register(ctx, "neo_1", "neo@matrix.io", strongPassword))
	_, ok := m.Current()
	assert.False(t, ok, "register does not log in")

	_, err := m.Profile(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = m.Login(ctx, "neo@matrix.io", strongPassword)
	require.NoError(t, err)
	p, err := m.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "neo_1", p.Username)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.XP)
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"valid", "neo_1", "neo@matrix.io", strongPassword, ""},
		{"short username", "ne", "neo@matrix.io", strongPassword, "username"},
		{"long username", "abcdefghijklmnopqrstu", "neo@matrix.io", strongPassword, "username"},
		{"bad characters", "neo-1", "neo@matrix.io", strongPassword, "username"},
		{"bad email", "neo", "neo.matrix.io", strongPassword, "email"},
		{"empty password", "neo", "neo@matrix.io", "", "password"},
		{"weak password", "neo", "neo@matrix.io", "password", "password"},
		{"password is username", "trinity", "t@matrix.io", "trinity", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.email, tt.password)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestPasswordScore(t *testing.T) {
	assert.Less(t, PasswordScore("123456"), MinPasswordScore)
	assert.GreaterOrEqual(t, PasswordScore(strongPassword), MinPasswordScore)
}
