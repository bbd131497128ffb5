package utils

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CookieOptions names and scopes the cookies the token store reads and writes.
type CookieOptions struct {
	SessionName string
	TokenName   string
	Domain      string
	Secure      bool
	TTL         time.Duration
}

// TokenStore resolves the session token for one browser request. The
// persistent location is a TokenStorage entry keyed by the browser's session
// cookie; the fallback location is the token cookie itself.
type TokenStore struct {
	storage TokenStorage
	opts    CookieOptions
	w       http.ResponseWriter
	r       *http.Request

	sid     string
	current string
	cleared bool
}

func NewTokenStore(storage TokenStorage, opts CookieOptions, w http.ResponseWriter, r *http.Request) *TokenStore {
	s := &TokenStore{storage: storage, opts: opts, w: w, r: r}
	if c, err := r.Cookie(opts.SessionName); err == nil && c.Value != "" {
		s.sid = c.Value
	}
	return s
}

// Get returns the token from storage, then from the token cookie.
// After Clear it reports absent for the rest of the request.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	if s.cleared {
		return "", false
	}
	if s.current != "" {
		return s.current, true
	}
	if s.sid != "" {
		token, ok, err := s.storage.Load(ctx, s.sid)
		if err != nil {
			Logger.Warn("token storage load failed", zap.Error(err))
		} else if ok && token != "" {
			s.current = token
			return token, true
		}
	}
	if c, err := s.r.Cookie(s.opts.TokenName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// Set writes token to persistent storage, issuing a session id first if the
// browser has none.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if s.sid == "" {
		s.sid = uuid.NewString()
		http.SetCookie(s.w, s.cookie(s.opts.SessionName, s.sid, s.opts.TTL))
	}
	if err := s.storage.Save(ctx, s.sid, token, s.opts.TTL); err != nil {
		return err
	}
	s.current = token
	s.cleared = false
	return nil
}

// Clear removes the token from storage and expires the token cookie.
func (s *TokenStore) Clear(ctx context.Context) error {
	s.current = ""
	s.cleared = true
	http.SetCookie(s.w, s.cookie(s.opts.TokenName, "", -1))
	if s.sid == "" {
		return nil
	}
	return s.storage.Delete(ctx, s.sid)
}

// MirrorCookie copies a token cookie issued by the forum API onto this
// origin so browsers that refuse third-party cookies still carry it.
func (s *TokenStore) MirrorCookie(c *http.Cookie) {
	if c == nil || c.Value == "" || c.MaxAge < 0 {
		return
	}
	ttl := s.opts.TTL
	if !c.Expires.IsZero() {
		ttl = time.Until(c.Expires)
	}
	if c.MaxAge > 0 {
		ttl = time.Duration(c.MaxAge) * time.Second
	}
	if ttl <= 0 {
		return
	}
	http.SetCookie(s.w, s.cookie(s.opts.TokenName, c.Value, ttl))
}

// BearerToken lets the store act as request credentials.
func (s *TokenStore) BearerToken(ctx context.Context) (string, bool) {
	return s.Get(ctx)
}

// Cookies returns the token cookie to forward upstream.
func (s *TokenStore) Cookies() []*http.Cookie {
	if s.cleared {
		return nil
	}
	c, err := s.r.Cookie(s.opts.TokenName)
	if err != nil || c.Value == "" {
		return nil
	}
	return []*http.Cookie{{Name: c.Name, Value: c.Value}}
}

func (s *TokenStore) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.opts.Domain,
		Secure:   s.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	c.MaxAge = int(ttl.Seconds())
	return c
}
