package api

// RankEntry is one row of the global leaderboard.
type RankEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
}

// Profile is the public state of one user.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
}

// ScoreResult is the backend's answer to a score submission: the user's
// updated progression.
type ScoreResult struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ScoreRequest is the body of POST /users/score.
type ScoreRequest struct {
	GameID string `json:"gameId"`
	Score  int    `json:"score"`
}
