// Package web serves the brainstorm form, its JSON API and the demo backend.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/telemetry"
)

// attachmentField is the multipart field carrying uploaded files.
const attachmentField = "attachments"

// Handler serves the HTML form surface.
type Handler struct {
	Sessions *brainstorm.Sessions
	Intake   *attachments.Intake
	Mode     brainstorm.Mode
	Limits   brainstorm.Limits
}

// NewHandler constructs a Handler.
func NewHandler(sessions *brainstorm.Sessions, intake *attachments.Intake, mode brainstorm.Mode, limits brainstorm.Limits) *Handler {
	return &Handler{Sessions: sessions, Intake: intake, Mode: mode, Limits: limits}
}

// RegisterRoutes attaches the form routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.index)
	r.POST("/brainstorm", h.submit)
	r.POST("/reset", h.reset)
}

func (h *Handler) index(c *gin.Context) {
	state := brainstorm.WorkflowState{Phase: brainstorm.PhaseIdle}
	if coord, ok := h.Sessions.Peek(middleware.SessionIDFromContext(c)); ok {
		state = coord.State()
	}
	h.render(c, pageFromState(h.Mode, h.Limits, state))
}

func (h *Handler) submit(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	ctx := requestContext(c)

	req := brainstorm.SubmissionRequest{
		Idea:    c.PostForm("idea"),
		Context: c.PostForm("context"),
		Focus:   brainstorm.Focus(c.PostForm("focus")),
	}.Normalize()

	form := newFormPage(h.Mode, h.Limits)
	form.Idea = req.Idea
	form.Context = req.Context
	form.Focus = req.Focus

	if req.Idea == "" {
		form.Error = "Please enter an idea"
		h.render(c, page{Name: "form", Status: http.StatusBadRequest, Data: form})
		return
	}

	coord := h.Sessions.Get(sessionID)
	if err := coord.Precheck(req); err != nil {
		h.renderSubmitError(c, form, err)
		return
	}
	if uploads := uploadsFromForm(c); len(uploads) > 0 && h.Intake != nil {
		summaries, err := h.Intake.Summarize(ctx, sessionID, uploads)
		if err != nil {
			h.renderSubmitError(c, form, err)
			return
		}
		req.AttachmentSummaries = summaries
	}

	cmd, err := coord.Submit(ctx, req)
	if err != nil {
		h.renderSubmitError(c, form, err)
		return
	}
	c.Set(middleware.SubmissionIDKey, cmd.SubmissionID)
	c.Set(middleware.StatusTransitionKey, transitionFor(cmd))
	h.render(c, pageFromCommand(h.Mode, cmd))
}

func (h *Handler) reset(c *gin.Context) {
	if coord, ok := h.Sessions.Peek(middleware.SessionIDFromContext(c)); ok {
		if err := coord.Reset(); err != nil {
			h.render(c, page{Name: "busy", Status: http.StatusConflict, Data: pageBase{Mode: h.Mode}})
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) renderSubmitError(c *gin.Context, form formPage, err error) {
	var vErr *brainstorm.ValidationError
	switch {
	case errors.As(err, &vErr):
		form.Error = vErr.Message
		h.render(c, page{Name: "form", Status: http.StatusBadRequest, Data: form})
	case errors.Is(err, brainstorm.ErrSubmissionInFlight):
		h.render(c, page{Name: "busy", Status: http.StatusConflict, Data: pageBase{Mode: h.Mode}})
	default:
		telemetry.Error("web.submit_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"session_id": middleware.SessionIDFromContext(c),
			"error":      err.Error(),
		})
		info := brainstorm.NewErrorInfo(err, h.Mode.BackendBaseURL)
		h.render(c, page{Name: "error", Status: http.StatusInternalServerError, Data: errorPage{pageBase: pageBase{Mode: h.Mode}, Error: &info}})
	}
}

func (h *Handler) render(c *gin.Context, p page) {
	c.HTML(p.Status, p.Name, p.Data)
}

func uploadsFromForm(c *gin.Context) []attachments.Upload {
	mf, err := c.MultipartForm()
	if err != nil || mf == nil {
		return nil
	}
	var uploads []attachments.Upload
	for _, fh := range mf.File[attachmentField] {
		if fh.Filename == "" {
			continue
		}
		uploads = append(uploads, attachments.Upload{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return uploads
}

func requestContext(c *gin.Context) context.Context {
	return brainstorm.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func transitionFor(cmd brainstorm.PresentationCommand) string {
	switch cmd.Kind {
	case brainstorm.CommandShowResult:
		return "pending->displayed"
	case brainstorm.CommandShowError:
		return "pending->failed"
	}
	return ""
}
