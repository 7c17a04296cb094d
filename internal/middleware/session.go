package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vervelak/lastwar-alliance-manager/internal/logger"
	"github.com/vervelak/lastwar-alliance-manager/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "awards_console"
	// PageField carries the tab's page id in every form post and export link.
	PageField = "page"
	pageKey   = "page"
)

var ErrNoSession = errors.New("no console session")

// SessionClaims identify the operator's browser. ID is the session id that
// owns the browser's pages.
type SessionClaims struct {
	jwt.RegisteredClaims
	Rank string `json:"rank,omitempty"`
}

type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

func (s *Sessions) sign(sid, username, rank string) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Rank: rank,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Issue sets the session cookie for sid on the response.
func (s *Sessions) Issue(c *gin.Context, sid, username, rank string) error {
	token, err := s.sign(sid, username, rank)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

func (s *Sessions) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
}

func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrNoSession
	}
	return claims, nil
}

// Claims returns the parsed session cookie of the request.
func (s *Sessions) Claims(c *gin.Context) (*SessionClaims, error) {
	raw, err := c.Cookie(SessionCookie)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}
	return s.Parse(raw)
}

// Require resolves the page named by the posted or queried page id. The page
// must belong to the cookie's session; otherwise the browser is sent back to
// a fresh page load. The cookie is renewed once less than a quarter of its
// ttl remains.
func (s *Sessions) Require(store *state.Store, reload string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.Claims(c)
		if err != nil {
			logger.Debug("session.missing", "err", err)
			c.Redirect(http.StatusSeeOther, reload)
			c.Abort()
			return
		}
		id := c.PostForm(PageField)
		if id == "" {
			id = c.Query(PageField)
		}
		page, ok := store.Get(id)
		if !ok || page.Session != claims.ID {
			logger.Info("page.unknown", "user", claims.Subject, "found", ok)
			c.Redirect(http.StatusSeeOther, reload)
			c.Abort()
			return
		}

		if exp := claims.ExpiresAt; exp != nil && exp.Sub(s.now()) < s.ttl/4 {
			if err := s.Issue(c, claims.ID, claims.Subject, claims.Rank); err != nil {
				logger.Warn("session.renew.failed", "err", err)
			}
		}

		c.Set(pageKey, page)
		c.Next()
	}
}

// PageFrom returns the page Require attached to the request.
func PageFrom(c *gin.Context) *state.Page {
	v, ok := c.Get(pageKey)
	if !ok {
		return nil
	}
	return v.(*state.Page)
}
