package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/server/respond"
	"brainplan/internal/submissions"
)

// APIHandler serves the JSON surface of the brainstorm workflow.
type APIHandler struct {
	Sessions *brainstorm.Sessions
	Intake   *attachments.Intake
	History  *submissions.Service
	Mode     brainstorm.Mode
}

// NewAPIHandler constructs an APIHandler.
func NewAPIHandler(sessions *brainstorm.Sessions, intake *attachments.Intake, history *submissions.Service, mode brainstorm.Mode) *APIHandler {
	return &APIHandler{Sessions: sessions, Intake: intake, History: history, Mode: mode}
}

// RegisterRoutes attaches the API routes to the router group.
func (h *APIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.GET("/session", h.session)
	rg.POST("/session/reset", h.reset)
	rg.POST("/submissions", h.submit)
	rg.GET("/submissions", h.list)
	rg.GET("/submissions/:id", h.get)
	rg.GET("/submissions/:id/export", h.export)
}

func (h *APIHandler) health(c *gin.Context) {
	respond.OK(c, gin.H{
		"ok":         true,
		"mode":       h.Mode.Label(),
		"backendUrl": h.Mode.BackendBaseURL,
	})
}

func (h *APIHandler) session(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	state := brainstorm.WorkflowState{Phase: brainstorm.PhaseIdle}
	if coord, ok := h.Sessions.Peek(sessionID); ok {
		state = coord.State()
	}
	resp := gin.H{
		"sessionId": sessionID,
		"mode":      h.Mode.Label(),
		"state":     state,
	}
	if state.Phase == brainstorm.PhaseDisplayed && state.Document != nil {
		rendered := brainstorm.Render(state.Idea, *state.Document)
		resp["rendered"] = renderedJSON(rendered)
	}
	respond.OK(c, resp)
}

func (h *APIHandler) reset(c *gin.Context) {
	if coord, ok := h.Sessions.Peek(middleware.SessionIDFromContext(c)); ok {
		if err := coord.Reset(); err != nil {
			respond.Error(c, http.StatusConflict, "submission_in_flight", "a submission is still pending", nil)
			return
		}
	}
	respond.NoContent(c)
}

func (h *APIHandler) submit(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	ctx := requestContext(c)

	coord := h.Sessions.Get(sessionID)
	var req brainstorm.SubmissionRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req = brainstorm.SubmissionRequest{
			Idea:    c.PostForm("idea"),
			Context: c.PostForm("context"),
			Focus:   brainstorm.Focus(c.PostForm("focus")),
		}.Normalize()
		// Uploads are archived, so reject the request before touching them.
		if err := coord.Precheck(req); err != nil {
			h.submitError(c, err)
			return
		}
		if uploads := uploadsFromForm(c); len(uploads) > 0 && h.Intake != nil {
			summaries, err := h.Intake.Summarize(ctx, sessionID, uploads)
			if err != nil {
				h.submitError(c, err)
				return
			}
			req.AttachmentSummaries = summaries
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "body", "invalid JSON body")
		return
	}

	cmd, err := coord.Submit(ctx, req)
	if err != nil {
		h.submitError(c, err)
		return
	}
	c.Set(middleware.SubmissionIDKey, cmd.SubmissionID)
	c.Set(middleware.StatusTransitionKey, transitionFor(cmd))

	if cmd.Kind == brainstorm.CommandShowError {
		respond.Error(c, http.StatusBadGateway, "backend_error", cmd.Error.Message, gin.H{
			"submissionId": cmd.SubmissionID,
			"error":        cmd.Error,
		})
		return
	}
	resp := gin.H{
		"id":       cmd.SubmissionID,
		"state":    brainstorm.PhaseDisplayed,
		"idea":     cmd.Idea,
		"rendered": renderedJSON(*cmd.Result),
	}
	if state := coord.State(); state.SubmissionID == cmd.SubmissionID {
		resp["document"] = state.Document
	}
	respond.OK(c, resp)
}

func (h *APIHandler) submitError(c *gin.Context, err error) {
	var vErr *brainstorm.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.Validation(c, vErr.Field, vErr.Message)
	case errors.Is(err, brainstorm.ErrSubmissionInFlight):
		respond.Error(c, http.StatusConflict, "submission_in_flight", "a submission is still pending", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit", nil)
	}
}

func (h *APIHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	records, err := h.History.List(c.Request.Context(), middleware.SessionIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, rec := range records {
		items = append(items, gin.H{
			"id":          rec.ID,
			"idea":        rec.Idea,
			"mode":        rec.Mode,
			"status":      rec.Status,
			"createdAt":   rec.CreatedAt,
			"completedAt": rec.CompletedAt,
		})
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *APIHandler) get(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	resp := gin.H{"submission": rec}
	if rec.Status == submissions.StatusDisplayed && rec.Result != nil {
		resp["rendered"] = renderedJSON(brainstorm.Render(rec.Idea, *rec.Result))
	}
	respond.OK(c, resp)
}

func (h *APIHandler) export(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.Markdown(c, "brainstorm-"+rec.ID+".md", submissions.Export(rec))
}

func (h *APIHandler) lookup(c *gin.Context) (submissions.Record, bool) {
	id := c.Param("id")
	if id == "" {
		respond.Validation(c, "id", "submission id is required")
		return submissions.Record{}, false
	}
	rec, err := h.History.Get(c.Request.Context(), middleware.SessionIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch submission", nil)
		}
		return submissions.Record{}, false
	}
	return rec, true
}

type sectionJSON struct {
	Key         brainstorm.FieldKey `json:"key"`
	Title       string              `json:"title"`
	Text        string              `json:"text"`
	HTML        string              `json:"html"`
	Placeholder bool                `json:"placeholder"`
}

type promptJSON struct {
	Key         brainstorm.PromptKey `json:"key"`
	Title       string               `json:"title"`
	Text        string               `json:"text"`
	Placeholder bool                 `json:"placeholder"`
}

func renderedJSON(doc brainstorm.RenderedDocument) gin.H {
	sections := make([]sectionJSON, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sections = append(sections, sectionJSON{
			Key:         s.Key,
			Title:       s.Title,
			Text:        s.Text(),
			HTML:        string(s.HTML()),
			Placeholder: s.Placeholder,
		})
	}
	prompts := make([]promptJSON, 0, len(doc.Prompts))
	for _, p := range doc.Prompts {
		prompts = append(prompts, promptJSON{Key: p.Key, Title: p.Title, Text: p.Text, Placeholder: p.Placeholder})
	}
	return gin.H{"idea": doc.Idea, "sections": sections, "prompts": prompts}
}
