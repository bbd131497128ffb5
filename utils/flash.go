package utils

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "gossip_flash"

// Notification severities.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Notice is a transient message shown once at the top of a screen.
type Notice struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func SuccessNotice(msg string) *Notice { return &Notice{Severity: SeveritySuccess, Message: msg} }

// ErrorNotice capitalises msg the way every failure is shown to the user.
func ErrorNotice(msg string) *Notice {
	return &Notice{Severity: SeverityError, Message: CapitaliseWords(msg)}
}

// SetFlash stores n for the next request that renders a screen.
func SetFlash(w http.ResponseWriter, n *Notice) {
	if n == nil {
		return
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and expires its cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil || n.Message == "" {
		return nil
	}
	return &n
}
