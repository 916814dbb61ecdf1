package session

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const CookieName = "sakti_session"

// CookieCodec signs (and optionally encrypts) the session cookie.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
	maxAge time.Duration
}

// NewCookieCodec builds a codec. An empty blockKey leaves the cookie signed
// but unencrypted.
func NewCookieCodec(hashKey, blockKey []byte, secure bool, maxAge time.Duration) *CookieCodec {
	if len(blockKey) == 0 {
		blockKey = nil
	}
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(maxAge.Seconds()))
	return &CookieCodec{sc: sc, secure: secure, maxAge: maxAge}
}

// Storage binds the codec to one request/response pair.
func (c *CookieCodec) Storage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	s := &CookieStorage{codec: c, w: w, values: map[string]string{}}
	if cookie, err := r.Cookie(CookieName); err == nil {
		// tampered or expired cookies decode to nothing, i.e. no session
		if err := c.sc.Decode(CookieName, cookie.Value, &s.values); err != nil {
			s.values = map[string]string{}
		}
	}
	return s
}

// CookieStorage is a request scoped Storage. Every write re-issues the cookie
// on the response.
type CookieStorage struct {
	codec  *CookieCodec
	w      http.ResponseWriter
	values map[string]string
}

func (s *CookieStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *CookieStorage) Set(key, value string) error {
	s.values[key] = value
	return s.write()
}

func (s *CookieStorage) Remove(key string) error {
	delete(s.values, key)
	return s.write()
}

func (s *CookieStorage) Clear() error {
	s.values = map[string]string{}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.codec.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *CookieStorage) write() error {
	if len(s.values) == 0 {
		return s.Clear()
	}
	encoded, err := s.codec.sc.Encode(CookieName, s.values)
	if err != nil {
		return err
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.codec.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.codec.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
