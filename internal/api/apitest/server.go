// Package apitest runs an in-process ArcadeRank backend for tests. It
// speaks the same routes and payloads as the real service: accounts with
// bcrypt passwords, HS256 access tokens, score submission with XP and level
// progression, and the global leaderboard.
package apitest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// XPPerLevel is how much XP one level takes.
const XPPerLevel = 100

const contextUserID = "userID"

// Submission is a score the server accepted.
type Submission struct {
	UserID string
	GameID string
	Score  int
}

type user struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	XP           int
}

func (u *user) level() int {
	return 1 + u.XP/XPPerLevel
}

// Server is a fake backend bound to a local httptest listener.
type Server struct {
	*httptest.Server

	secret   []byte
	tokenTTL time.Duration

	mu          sync.Mutex
	users       map[string]*user // by ID
	emails      map[string]string
	submissions []Submission
	scoreStatus int // Forced status for /users/score, 0 = normal
}

// New starts a fake backend and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:   []byte("apitest-secret"),
		tokenTTL: time.Hour,
		users:    make(map[string]*user),
		emails:   make(map[string]string),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.login)
	r.POST("/users", s.register)
	r.GET("/users/leaderboard", s.leaderboard)
	r.GET("/users/:id", s.profile)
	r.POST("/users/score", s.authorize, s.submitScore)
	return r
}

// AddUser creates an account directly and returns its ID.
func (s *Server) AddUser(username, email, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
	s.emails[u.Email] = u.ID
	return u.ID
}

// SetXP overwrites a user's XP.
func (s *Server) SetXP(id string, xp int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.XP = xp
	}
}

// FailScores makes every score submission answer with status.
// Zero restores normal handling.
func (s *Server) FailScores(status int) {
	s.mu.Lock()
	s.scoreStatus = status
	s.mu.Unlock()
}

// Submissions returns every accepted score in arrival order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// Token mints an access token for the given user that expires after ttl.
// A negative ttl yields an already expired token.
func (s *Server) Token(id string, ttl time.Duration) string {
	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()

	username := ""
	if ok {
		username = u.Username
	}

	claims := jwt.MapClaims{
		"sub":      id,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	u := s.users[s.emails[strings.ToLower(req.Email)]]
	s.mu.Unlock()

	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access_token": s.Token(u.ID, s.tokenTTL)})
}

func (s *Server) register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var problems []string
	if req.Username == "" {
		problems = append(problems, "username should not be empty")
	}
	if !strings.Contains(req.Email, "@") {
		problems = append(problems, "email must be an email")
	}
	if len(req.Password) < 6 {
		problems = append(problems, "password must be longer than or equal to 6 characters")
	}
	if len(problems) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": problems})
		return
	}

	s.mu.Lock()
	_, taken := s.emails[strings.ToLower(req.Email)]
	for _, u := range s.users {
		taken = taken || strings.EqualFold(u.Username, req.Username)
	}
	s.mu.Unlock()
	if taken {
		ctx.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		return
	}

	id := s.AddUser(req.Username, req.Email, req.Password)
	ctx.JSON(http.StatusCreated, gin.H{"id": id, "username": req.Username, "email": req.Email})
}

// authorize validates the bearer token and stores the user ID.
func (s *Server) authorize(ctx *gin.Context) {
	parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	token, err := jwt.Parse(parts[1], func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	claims, _ := token.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	ctx.Set(contextUserID, sub)
	ctx.Next()
}

func (s *Server) submitScore(ctx *gin.Context) {
	s.mu.Lock()
	forced := s.scoreStatus
	s.mu.Unlock()
	if forced != 0 {
		ctx.JSON(forced, gin.H{"message": http.StatusText(forced)})
		return
	}

	var req struct {
		GameID string `json:"gameId"`
		Score  *int   `json:"score"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.GameID == "" || req.Score == nil || *req.Score < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": []string{"gameId and a non-negative score are required"}})
		return
	}

	id := ctx.GetString(contextUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	u.XP += *req.Score
	s.submissions = append(s.submissions, Submission{UserID: id, GameID: req.GameID, Score: *req.Score})

	ctx.JSON(http.StatusCreated, gin.H{"level": u.level(), "xp": u.XP})
}

func (s *Server) leaderboard(ctx *gin.Context) {
	s.mu.Lock()
	rows := make([]gin.H, 0, len(s.users))
	list := make([]*user, 0, len(s.users))
	for _, u := range s.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].XP != list[j].XP {
			return list[i].XP > list[j].XP
		}
		return list[i].Username < list[j].Username
	})
	for _, u := range list {
		rows = append(rows, gin.H{"id": u.ID, "username": u.Username, "level": u.level(), "xp": u.XP})
	}
	s.mu.Unlock()

	ctx.JSON(http.StatusOK, rows)
}

func (s *Server) profile(ctx *gin.Context) {
	s.mu.Lock()
	u, ok := s.users[ctx.Param("id")]
	var body gin.H
	if ok {
		body = gin.H{"id": u.ID, "username": u.Username, "email": u.Email, "level": u.level(), "xp": u.XP}
	}
	s.mu.Unlock()

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	ctx.JSON(http.StatusOK, body)
}
