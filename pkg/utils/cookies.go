package utils

import (
	"net/http"
	"strings"
	"time"
)

const (
	AccessTokenCookie    = "access_token"
	UserInfoCookie       = "user_info"
	ChallengeTokenCookie = "challenge_token"
	ChallengeTokenHeader = "X-Challenge-Token"
)

func SetCookie(w http.ResponseWriter, name, value string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ChallengeToken resolves the challenge token from, in order, the given body
// value, the X-Challenge-Token header and the challenge_token cookie.
func ChallengeToken(r *http.Request, fromBody string) string {
	if t := strings.TrimSpace(fromBody); t != "" {
		return t
	}
	if t := strings.TrimSpace(r.Header.Get(ChallengeTokenHeader)); t != "" {
		return t
	}
	if c, err := r.Cookie(ChallengeTokenCookie); err == nil {
		return c.Value
	}
	return ""
}
