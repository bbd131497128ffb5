package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/gossip/api"
	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/utils"
)

// TokenStore is where the controller keeps the session token.
type TokenStore interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	MirrorCookie(c *http.Cookie)
}

// Authenticator performs the remote login and registration calls.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.LoginResult, error)
	Register(ctx context.Context, username, password string) error
}

// Controller owns the session state of one browser request. Errors from
// Login and Register are returned to the caller, never panicked.
type Controller struct {
	mu          sync.Mutex
	store       TokenStore
	auth        Authenticator
	now         func() time.Time
	state       State
	identity    models.Identity
	subscribers map[int]func(State)
	nextSubID   int
}

type Option func(*Controller)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(store TokenStore, auth Authenticator, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		auth:        auth,
		now:         time.Now,
		state:       Loading,
		subscribers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resolves the initial state from the stored token. Expired or
// undecodable tokens are cleared.
func (c *Controller) Start(ctx context.Context) State {
	token, ok := c.store.Get(ctx)
	if !ok {
		c.transition(Anonymous, models.Identity{})
		return Anonymous
	}

	identity, err := utils.DecodeToken(token)
	if err != nil {
		utils.Logger.Debug("discarding undecodable token", zap.Error(err))
		c.discard(ctx)
		return Anonymous
	}
	if identity.Expired(c.now()) {
		utils.Logger.Debug("discarding expired token", zap.Time("exp", identity.ExpiresAt))
		c.discard(ctx)
		return Anonymous
	}

	c.transition(Authenticated, identity)
	return Authenticated
}

// Login returns nil on success. On failure err.Error() is the text to show.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	res, err := c.auth.Login(ctx, username, password)
	if err != nil {
		c.transition(Anonymous, models.Identity{})
		return err
	}
	if err := c.store.Set(ctx, res.Token); err != nil {
		utils.Logger.Error("store session token", zap.Error(err))
		c.transition(Anonymous, models.Identity{})
		return errors.New("could not save session")
	}
	c.store.MirrorCookie(res.Cookie)

	// The API is the authority on the token; one we cannot read still
	// authenticates, it just owns nothing.
	identity, err := utils.DecodeToken(res.Token)
	if err != nil {
		identity = models.Identity{}
	}
	c.transition(Authenticated, identity)
	return nil
}

// Register creates an account and leaves the session state untouched.
func (c *Controller) Register(ctx context.Context, username, password string) error {
	return c.auth.Register(ctx, username, password)
}

func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.transition(Anonymous, models.Identity{})
	return err
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity is the decoded token owner; zero unless authenticated.
func (c *Controller) Identity() models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Subscribe registers fn for state changes and returns its cancel func.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) discard(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		utils.Logger.Warn("clear session token", zap.Error(err))
	}
	c.transition(Anonymous, models.Identity{})
}

func (c *Controller) transition(to State, identity models.Identity) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.identity = identity
	var notify []func(State)
	if from != to {
		for _, fn := range c.subscribers {
			notify = append(notify, fn)
		}
	}
	c.mu.Unlock()

	if from != to {
		utils.Logger.Debug("session transition", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	for _, fn := range notify {
		fn(to)
	}
}
