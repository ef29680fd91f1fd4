package web

import (
	"net/http"
	"strings"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
)

type pageBase struct {
	Mode brainstorm.Mode
}

type formPage struct {
	pageBase
	Idea    string
	Context string
	Focus   brainstorm.Focus
	Foci    []brainstorm.Focus
	Error   string
	Limits  brainstorm.Limits
	Accept  string
}

type resultPage struct {
	pageBase
	SubmissionID string
	Result       *brainstorm.RenderedDocument
}

type errorPage struct {
	pageBase
	Error *brainstorm.ErrorInfo
}

// page is a template name, status and data ready to be rendered.
type page struct {
	Name   string
	Status int
	Data   any
}

// pageFromCommand maps a terminal presentation command to a page.
func pageFromCommand(mode brainstorm.Mode, cmd brainstorm.PresentationCommand) page {
	base := pageBase{Mode: mode}
	switch cmd.Kind {
	case brainstorm.CommandShowResult:
		return page{Name: "result", Status: http.StatusOK, Data: resultPage{pageBase: base, SubmissionID: cmd.SubmissionID, Result: cmd.Result}}
	case brainstorm.CommandShowError:
		return page{Name: "error", Status: http.StatusBadGateway, Data: errorPage{pageBase: base, Error: cmd.Error}}
	default:
		return page{Name: "busy", Status: http.StatusAccepted, Data: base}
	}
}

// pageFromState renders the page a returning visitor should see.
func pageFromState(mode brainstorm.Mode, limits brainstorm.Limits, state brainstorm.WorkflowState) page {
	base := pageBase{Mode: mode}
	switch state.Phase {
	case brainstorm.PhaseDisplayed:
		var doc brainstorm.ResultDocument
		if state.Document != nil {
			doc = *state.Document
		}
		rendered := brainstorm.Render(state.Idea, doc)
		return page{Name: "result", Status: http.StatusOK, Data: resultPage{pageBase: base, SubmissionID: state.SubmissionID, Result: &rendered}}
	case brainstorm.PhaseFailed:
		return page{Name: "error", Status: http.StatusOK, Data: errorPage{pageBase: base, Error: state.Error}}
	case brainstorm.PhasePending:
		return page{Name: "busy", Status: http.StatusOK, Data: base}
	default:
		return page{Name: "form", Status: http.StatusOK, Data: newFormPage(mode, limits)}
	}
}

func newFormPage(mode brainstorm.Mode, limits brainstorm.Limits) formPage {
	return formPage{
		pageBase: pageBase{Mode: mode},
		Focus:    brainstorm.FocusGeneral,
		Foci:     brainstorm.Foci,
		Limits:   limits,
		Accept:   strings.Join(attachments.AllowedExtensions, ","),
	}
}
