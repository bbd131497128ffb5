package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/gossip/api"
	"github.com/cppla/gossip/middleware"
	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/session"
	"github.com/cppla/gossip/utils"
)

const unexpectedError = "An Unexpected Error Occurred"

// ForumAPI is the subset of the remote forum API the screens use.
type ForumAPI interface {
	FetchTopics(ctx context.Context, creds api.Credentials) ([]models.Topic, error)
	AddTopic(ctx context.Context, creds api.Credentials, name, description string) error
	UpdateTopic(ctx context.Context, creds api.Credentials, id int64, name, description string) error
	DeleteTopic(ctx context.Context, creds api.Credentials, id int64) error

	FetchPosts(ctx context.Context, creds api.Credentials, topicID int64) ([]models.Post, error)
	AddPost(ctx context.Context, creds api.Credentials, topicID int64, title, content string) error
	UpdatePost(ctx context.Context, creds api.Credentials, id int64, title, content string) error
	DeletePost(ctx context.Context, creds api.Credentials, id int64) error

	FetchComments(ctx context.Context, creds api.Credentials, postID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, creds api.Credentials, postID int64, content string) error
	UpdateComment(ctx context.Context, creds api.Credentials, id int64, content string) error
	DeleteComment(ctx context.Context, creds api.Credentials, id int64) error
}

// ValidationError is a local field check that failed before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Page carries what the shared layout renders on every screen.
type Page struct {
	Title    string
	SignedIn bool
	AppUser  string
	Notice   *utils.Notice
}

type searchBox struct {
	Action string
	Query  string
}

// newPage pops any pending flash notice.
func newPage(ctx *gin.Context, title string) Page {
	p := Page{Title: title, Notice: utils.PopFlash(ctx.Writer, ctx.Request)}
	if sess := middleware.CurrentSession(ctx); sess != nil && sess.State() == session.Authenticated {
		p.SignedIn = true
		p.AppUser = sess.Identity().Username
		if p.AppUser == "" {
			p.AppUser = "User"
		}
	}
	return p
}

func identityOf(ctx *gin.Context) models.Identity {
	if sess := middleware.CurrentSession(ctx); sess != nil {
		return sess.Identity()
	}
	return models.Identity{}
}

func credsOf(ctx *gin.Context) api.Credentials {
	if store := middleware.CurrentTokenStore(ctx); store != nil {
		return store
	}
	return nil
}

func paramID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(ctx.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// deleteQuestion asks to confirm deleting name, or fallback when name is unknown.
func deleteQuestion(name, fallback string) string {
	if name == "" {
		return fmt.Sprintf("Are you sure you want to delete %s? This cannot be undone.", fallback)
	}
	return fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", name)
}

// failureText is the capitalised notice text for err.
func failureText(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	msg := ""
	if err != nil {
		msg = strings.TrimSpace(err.Error())
	}
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = unexpectedError
	}
	return utils.CapitaliseWords(msg)
}

func redirectWithNotice(ctx *gin.Context, location string, n *utils.Notice) {
	utils.SetFlash(ctx.Writer, n)
	ctx.Redirect(http.StatusSeeOther, location)
}

func notFound(ctx *gin.Context, location, what string) {
	redirectWithNotice(ctx, location, utils.ErrorNotice(what+" Not Found"))
}
