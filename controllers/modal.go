package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/gossip/utils"
)

// Field is one input of a modal form.
type Field struct {
	Name      string
	Label     string
	Multiline bool
	// Required is the notice shown when the field is blank; empty means optional.
	Required string
}

// ModalConfig describes one create, update or delete dialog.
type ModalConfig struct {
	// Heading, Action and ReturnTo are required. ReturnTo is the owning
	// screen: cancel goes there and a successful submit redirects there.
	Heading  string
	Action   string
	ReturnTo string

	// Fields may be empty for a confirmation dialog.
	Fields []Field
	// Confirm is an optional question shown above the fields. It is called
	// at render time, after Submit when the dialog is re-rendered.
	Confirm func() string
	// SubmitLabel defaults to "Submit".
	SubmitLabel string

	// Success is the notice after Submit returns nil. Required.
	Success string
	// Fallback is shown when a failure carries no text. Defaults to
	// "An Unexpected Error Occurred".
	Fallback string

	// Submit issues the single request for this dialog. Required.
	Submit func(ctx context.Context, values map[string]string) error
}

// Modal renders and processes a ModalConfig.
type Modal struct {
	cfg ModalConfig
}

type fieldView struct {
	Field
	Value string
}

type modalPage struct {
	Page
	Heading     string
	Action      string
	CancelURL   string
	Confirm     string
	SubmitLabel string
	Fields      []fieldView
}

func NewModal(cfg ModalConfig) *Modal {
	if cfg.SubmitLabel == "" {
		cfg.SubmitLabel = "Submit"
	}
	if cfg.Fallback == "" {
		cfg.Fallback = unexpectedError
	}
	return &Modal{cfg: cfg}
}

// Show renders the dialog with values prefilled.
func (m *Modal) Show(ctx *gin.Context, values map[string]string) {
	m.render(ctx, http.StatusOK, values, nil)
}

// Handle validates the posted form, submits it and redirects to the owning
// screen, or re-renders the dialog with an error notice.
func (m *Modal) Handle(ctx *gin.Context) {
	values := make(map[string]string, len(m.cfg.Fields))
	for _, f := range m.cfg.Fields {
		values[f.Name] = strings.TrimSpace(ctx.PostForm(f.Name))
	}

	if err := m.Validate(values); err != nil {
		m.render(ctx, http.StatusUnprocessableEntity, values, utils.ErrorNotice(err.Error()))
		return
	}

	if err := m.cfg.Submit(ctx.Request.Context(), values); err != nil {
		m.render(ctx, http.StatusBadGateway, values, utils.ErrorNotice(failureText(err, m.cfg.Fallback)))
		return
	}

	redirectWithNotice(ctx, m.cfg.ReturnTo, utils.SuccessNotice(m.cfg.Success))
}

// Validate returns the first blank required field as a *ValidationError.
func (m *Modal) Validate(values map[string]string) error {
	for _, f := range m.cfg.Fields {
		if f.Required != "" && strings.TrimSpace(values[f.Name]) == "" {
			return &ValidationError{Field: f.Name, Message: f.Required}
		}
	}
	return nil
}

func (m *Modal) render(ctx *gin.Context, status int, values map[string]string, notice *utils.Notice) {
	page := modalPage{
		Page:        newPage(ctx, m.cfg.Heading),
		Heading:     m.cfg.Heading,
		Action:      m.cfg.Action,
		CancelURL:   m.cfg.ReturnTo,
		SubmitLabel: m.cfg.SubmitLabel,
	}
	if m.cfg.Confirm != nil {
		page.Confirm = m.cfg.Confirm()
	}
	if notice != nil {
		page.Notice = notice
	}
	for _, f := range m.cfg.Fields {
		page.Fields = append(page.Fields, fieldView{Field: f, Value: values[f.Name]})
	}
	ctx.HTML(status, "modal.html", page)
}
