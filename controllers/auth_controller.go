package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/gossip/middleware"
	"github.com/cppla/gossip/session"
	"github.com/cppla/gossip/utils"
)

// AuthController serves the login screen and the session endpoints.
type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

type credentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (f credentialsForm) validate() error {
	if strings.TrimSpace(f.Username) == "" {
		return &ValidationError{Field: "username", Message: "Please Enter A Username"}
	}
	if f.Password == "" {
		return &ValidationError{Field: "password", Message: "Please Enter A Password"}
	}
	return nil
}

type loginPage struct {
	Page
	Username string
}

// LoginPage renders the sign in and registration forms.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", loginPage{Page: newPage(ctx, "Login")})
}

// Login signs the browser in and sends it to the topics screen.
func (a *AuthController) Login(ctx *gin.Context) {
	var form credentialsForm
	_ = ctx.ShouldBind(&form)
	form.Username = strings.TrimSpace(form.Username)

	if err := form.validate(); err != nil {
		a.renderLogin(ctx, http.StatusUnprocessableEntity, form.Username, err.Error())
		return
	}

	sess := middleware.CurrentSession(ctx)
	if err := sess.Login(ctx.Request.Context(), form.Username, form.Password); err != nil {
		utils.Logger.Info("login failed", zap.String("username", form.Username), zap.Error(err))
		a.renderLogin(ctx, http.StatusUnauthorized, form.Username, failureText(err, "Failed To Login"))
		return
	}
	ctx.Redirect(http.StatusSeeOther, session.TopicsPath)
}

// Register creates an account; the visitor still has to sign in afterwards.
func (a *AuthController) Register(ctx *gin.Context) {
	var form credentialsForm
	_ = ctx.ShouldBind(&form)
	form.Username = strings.TrimSpace(form.Username)

	if err := form.validate(); err != nil {
		a.renderLogin(ctx, http.StatusUnprocessableEntity, "", err.Error())
		return
	}

	sess := middleware.CurrentSession(ctx)
	if err := sess.Register(ctx.Request.Context(), form.Username, form.Password); err != nil {
		a.renderLogin(ctx, http.StatusBadRequest, "", failureText(err, "Failed To Register"))
		return
	}
	redirectWithNotice(ctx, session.LoginPath, utils.SuccessNotice("Registration Successful, Please Log In"))
}

// Logout clears the session token wherever it is kept.
func (a *AuthController) Logout(ctx *gin.Context) {
	if sess := middleware.CurrentSession(ctx); sess != nil {
		if err := sess.Logout(ctx.Request.Context()); err != nil {
			utils.Logger.Warn("logout: clear token", zap.Error(err))
		}
	}
	ctx.Redirect(http.StatusSeeOther, session.LoginPath)
}

// Session reports the resolved session state as JSON.
func (a *AuthController) Session(ctx *gin.Context) {
	state := session.Loading
	var userID int64
	var username string
	if sess := middleware.CurrentSession(ctx); sess != nil {
		state = sess.State()
		id := sess.Identity()
		userID, username = id.UserID, id.Username
	}
	utils.Success(ctx, gin.H{
		"state":    state.String(),
		"user_id":  userID,
		"username": username,
	})
}

func (a *AuthController) renderLogin(ctx *gin.Context, status int, username, message string) {
	page := loginPage{Page: newPage(ctx, "Login"), Username: username}
	page.Notice = utils.ErrorNotice(message)
	ctx.HTML(status, "login.html", page)
}
