package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/gossip/session"
	"github.com/cppla/gossip/utils"
)

const (
	// ContextSessionKey stores the request's *session.Controller inside Gin context.
	ContextSessionKey = "session"
	// ContextTokenStoreKey stores the request's *utils.TokenStore.
	ContextTokenStoreKey = "token_store"
)

// SessionLoader resolves the browser's session before any handler runs.
func SessionLoader(storage utils.TokenStorage, cookies utils.CookieOptions, auth session.Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		store := utils.NewTokenStore(storage, cookies, ctx.Writer, ctx.Request)
		sess := session.NewController(store, auth)
		sess.Start(ctx.Request.Context())

		ctx.Set(ContextTokenStoreKey, store)
		ctx.Set(ContextSessionKey, sess)
		ctx.Next()
	}
}

// CurrentSession returns the controller SessionLoader attached, or nil.
func CurrentSession(ctx *gin.Context) *session.Controller {
	v, ok := ctx.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Controller)
	return sess
}

func CurrentTokenStore(ctx *gin.Context) *utils.TokenStore {
	v, ok := ctx.Get(ContextTokenStoreKey)
	if !ok {
		return nil
	}
	store, _ := v.(*utils.TokenStore)
	return store
}

// PublicOnly only lets anonymous visitors through.
func PublicOnly() gin.HandlerFunc {
	return gate(session.PublicOnly)
}

// ProtectedOnly only lets authenticated visitors through.
func ProtectedOnly() gin.HandlerFunc {
	return gate(session.ProtectedOnly)
}

func gate(decide func(session.State) session.Decision) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		state := session.Loading
		if sess := CurrentSession(ctx); sess != nil {
			state = sess.State()
		}

		d := decide(state)
		switch d.Outcome {
		case session.Render:
			ctx.Next()
		case session.Redirect:
			ctx.Redirect(http.StatusSeeOther, d.Location)
			ctx.Abort()
		default:
			ctx.Header("Retry-After", "1")
			ctx.String(http.StatusServiceUnavailable, "Loading...")
			ctx.Abort()
		}
	}
}
