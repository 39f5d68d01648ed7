package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arcaderank/internal/api"
	"github.com/vovakirdan/arcaderank/internal/api/apitest"
)

func TestLogin(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("neo", "neo@matrix.io", "red pill blue pill")
	client := api.New(srv.URL)

	token, err := client.Login(context.Background(), "neo@matrix.io", "red pill blue pill")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, client.Token(), "login does not keep the token")

	_, err = client.Login(context.Background(), "neo@matrix.io", "wrong")
	assert.ErrorIs(t, err, api.ErrInvalidCredentials)

	_, err = client.Login(context.Background(), "nobody@matrix.io", "x")
	assert.ErrorIs(t, err, api.ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	srv := apitest.New(t)
	client := api.New(srv.URL + "/")

	ctx := context.Background()
	require.NoError(t, client.Register(ctx, "trinity", "trinity@matrix.io", "follow the white rabbit"))

	err := client.Register(ctx, "trinity", "other@matrix.io", "follow the white rabbit")
	assert.ErrorIs(t, err, api.ErrAlreadyRegistered)

	_, err = client.Login(ctx, "trinity@matrix.io", "follow the white rabbit")
	assert.NoError(t, err)
}

func TestRegisterValidationMessage(t *testing.T) {
	srv := apitest.New(t)
	client := api.New(srv.URL)

	err := client.Register(context.Background(), "morpheus", "morpheus@matrix.io", "123")

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Message, "password must be longer")
}

func TestSubmitScore(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddUser("neo", "neo@matrix.io", "red pill blue pill")
	client := api.New(srv.URL, api.WithToken(srv.Token(id, time.Hour)))

	res, err := client.SubmitScore(context.Background(), "snake", 120)
	require.NoError(t, err)
	assert.Equal(t, 120, res.XP)
	assert.Equal(t, 2, res.Level)

	subs := srv.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, apitest.Submission{UserID: id, GameID: "snake", Score: 120}, subs[0])
}

func TestSubmitScoreNeedsToken(t *testing.T) {
	srv := apitest.New(t)
	client := api.New(srv.URL)

	_, err := client.SubmitScore(context.Background(), "snake", 10)
	assert.ErrorIs(t, err, api.ErrNotLoggedIn)
	assert.Empty(t, srv.Submissions())
}

func TestSubmitScoreExpiredToken(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddUser("neo", "neo@matrix.io", "red pill blue pill")
	client := api.New(srv.URL)
	client.SetToken(srv.Token(id, -time.Minute))

	_, err := client.SubmitScore(context.Background(), "clicker", 10)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestSubmitScoreServerError(t *testing.T) {
	srv := apitest.New(t)
	id := srv.AddUser("neo", "neo@matrix.io", "red pill blue pill")
	srv.FailScores(http.StatusInternalServerError)
	client := api.New(srv.URL, api.WithToken(srv.Token(id, time.Hour)))

	_, err := client.SubmitScore(context.Background(), "snake", 10)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.False(t, errors.Is(err, api.ErrUnauthorized))
}

func TestLeaderboardAndProfile(t *testing.T) {
	srv := apitest.New(t)
	a := srv.AddUser("neo", "neo@matrix.io", "pw")
	b := srv.AddUser("trinity", "trinity@matrix.io", "pw")
	srv.SetXP(a, 50)
	srv.SetXP(b, 250)
	client := api.New(srv.URL)

	board, err := client.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, api.RankEntry{ID: b, Username: "trinity", Level: 3, XP: 250}, board[0])
	assert.Equal(t, "neo", board[1].Username)

	p, err := client.User(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 50, p.XP)

	_, err = client.User(context.Background(), "missing")
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestRequestTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	client := api.New(slow.URL, api.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.Leaderboard(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStatusErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string message", `{"message":"boom"}`, "boom"},
		{"list message", `{"message":["first","second"]}`, "first"},
		{"error field", `{"error":"bad"}`, "bad"},
		{"plain text", `oops`, "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := api.New(srv.URL).Leaderboard(context.Background())

			var se *api.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, se.Message)
		})
	}
}
