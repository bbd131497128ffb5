package api

import (
	"context"
	"errors"
	"net/http"
)

// loginRequest is the body of /login and /register.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued token and, when the API set one, its token cookie.
type LoginResult struct {
	Token  string
	Cookie *http.Cookie
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var body struct {
		Token string `json:"token"`
	}
	resp, err := c.call(ctx, nil, http.MethodPost, "/login",
		loginRequest{Username: username, Password: password}, &body, "Failed To Login")
	if err != nil {
		return LoginResult{}, err
	}
	if body.Token == "" {
		return LoginResult{}, errors.New("login response carried no token")
	}
	res := LoginResult{Token: body.Token}
	for _, ck := range resp.Cookies() {
		if ck.Name == c.tokenCookie {
			res.Cookie = ck
			break
		}
	}
	return res, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.call(ctx, nil, http.MethodPost, "/register",
		loginRequest{Username: username, Password: password}, nil, "Failed To Register")
	return err
}
