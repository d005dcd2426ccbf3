package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Frida7771/GomokuAI/internal/config"
)

const GameCookieName = "game_token"

var ErrNoGameToken = errors.New("no game token in header or cookie")

// SetGameCookie stores the game token so browser clients can resume the game
// without keeping it themselves.
func SetGameCookie(w http.ResponseWriter, token string) {
	cfg := config.Get()

	cookie := &http.Cookie{
		Name:     GameCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.GameTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// SameSite=None is only accepted together with Secure
	if cfg.Environment == "production" {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}

	http.SetCookie(w, cookie)
}

func ClearGameCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     GameCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromRequest prefers a bearer Authorization header and falls back
// to the game cookie.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found && token != "" {
		return token, nil
	}

	cookie, err := r.Cookie(GameCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoGameToken
	}
	return cookie.Value, nil
}
