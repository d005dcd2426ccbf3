package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestGetTokenFromRequest(t *testing.T) {
	is := is.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetTokenFromRequest(req)
	is.Equal(err, ErrNoGameToken)

	req.AddCookie(&http.Cookie{Name: GameCookieName, Value: "from-cookie"})
	token, err := GetTokenFromRequest(req)
	is.NoErr(err)
	is.Equal(token, "from-cookie")

	req.Header.Set("Authorization", "Bearer from-header")
	token, err = GetTokenFromRequest(req)
	is.NoErr(err)
	is.Equal(token, "from-header")
}

func TestSetGameCookie(t *testing.T) {
	is := is.New(t)

	rec := httptest.NewRecorder()
	SetGameCookie(rec, "abc")

	cookies := rec.Result().Cookies()
	is.Equal(len(cookies), 1)
	is.Equal(cookies[0].Name, GameCookieName)
	is.Equal(cookies[0].Value, "abc")
	is.True(cookies[0].HttpOnly)
	is.True(cookies[0].MaxAge > 0)

	rec = httptest.NewRecorder()
	ClearGameCookie(rec)
	is.Equal(rec.Result().Cookies()[0].MaxAge, -1)
}
