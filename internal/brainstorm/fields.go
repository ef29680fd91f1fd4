package brainstorm

import (
	"html/template"
	"strings"

	"brainplan/internal/render"
)

// FieldKey names a text field of a ResultDocument by its wire key.
type FieldKey string

const (
	FieldProblemStatement          FieldKey = "problem_statement"
	FieldGoalsKPIs                 FieldKey = "goals_kpis"
	FieldFunctionalRequirements    FieldKey = "functional_requirements"
	FieldNonfunctionalRequirements FieldKey = "nonfunctional_requirements"
	FieldRisksAssumptions          FieldKey = "risks_assumptions"
	FieldImplementationPotential   FieldKey = "implementation_potential"
	FieldTaskList                  FieldKey = "task_list"
	FieldTestIdeas                 FieldKey = "test_ideas"
)

// PromptKey names a follow-up prompt by its wire key.
type PromptKey string

const (
	PromptPlanner   PromptKey = "prompt_planner"
	PromptArchitect PromptKey = "prompt_architect"
	PromptDev       PromptKey = "prompt_dev"
)

// PendingPlaceholder is shown for fields the renderer produced nothing for.
const PendingPlaceholder = "Pending generation"

// FieldSpec ties a text field to its grammar, title and fallback text.
type FieldSpec struct {
	Key      FieldKey
	Title    string
	Grammar  render.Grammar
	Fallback string
}

// PromptSpec describes a follow-up prompt region.
type PromptSpec struct {
	Key      PromptKey
	Title    string
	Fallback string
}

// Fields lists the text fields in display order.
var Fields = []FieldSpec{
	{Key: FieldProblemStatement, Title: "Problem Statement", Grammar: render.GrammarParagraphs, Fallback: PendingPlaceholder},
	{Key: FieldGoalsKPIs, Title: "Goals & KPIs", Grammar: render.GrammarParagraphs, Fallback: PendingPlaceholder},
	{Key: FieldFunctionalRequirements, Title: "Functional Requirements", Grammar: render.GrammarRequirements, Fallback: PendingPlaceholder},
	{Key: FieldNonfunctionalRequirements, Title: "Non-functional Requirements", Grammar: render.GrammarRequirements, Fallback: PendingPlaceholder},
	{Key: FieldRisksAssumptions, Title: "Risks & Assumptions", Grammar: render.GrammarParagraphs, Fallback: PendingPlaceholder},
	{Key: FieldImplementationPotential, Title: "Implementation Potential", Grammar: render.GrammarParagraphs, Fallback: PendingPlaceholder},
	{Key: FieldTaskList, Title: "Task List", Grammar: render.GrammarList, Fallback: PendingPlaceholder},
	{Key: FieldTestIdeas, Title: "Test Ideas", Grammar: render.GrammarList, Fallback: PendingPlaceholder},
}

// Prompts lists the follow-up prompts in display order.
var Prompts = []PromptSpec{
	{Key: PromptPlanner, Title: "Planner Prompt", Fallback: PendingPlaceholder},
	{Key: PromptArchitect, Title: "Architect Prompt", Fallback: PendingPlaceholder},
	{Key: PromptDev, Title: "Dev Prompt", Fallback: PendingPlaceholder},
}

// Section is one rendered text field.
type Section struct {
	Key         FieldKey       `json:"key"`
	Title       string         `json:"title"`
	Grammar     render.Grammar `json:"grammar"`
	Blocks      []render.Block `json:"blocks"`
	Placeholder bool           `json:"placeholder"`
}

// HTML emits the section's blocks as a sanitized fragment.
func (s Section) HTML() template.HTML {
	return render.HTML(s.Grammar, s.Blocks)
}

// Text emits the section's blocks as plain text.
func (s Section) Text() string {
	return render.Text(s.Blocks)
}

// PromptView is a follow-up prompt passed through verbatim.
type PromptView struct {
	Key         PromptKey `json:"key"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Placeholder bool      `json:"placeholder"`
}

// ResolveField renders one field, substituting the fallback block when the
// renderer yields nothing. List and requirement grammars carry their own
// placeholders, so only paragraph fields reach the fallback.
func ResolveField(doc ResultDocument, spec FieldSpec) Section {
	blocks := render.For(spec.Grammar, doc.Field(spec.Key))
	if len(blocks) == 0 {
		blocks = []render.Block{render.Placeholder(spec.Fallback)}
	}
	return Section{
		Key:         spec.Key,
		Title:       spec.Title,
		Grammar:     spec.Grammar,
		Blocks:      blocks,
		Placeholder: render.IsPlaceholder(blocks),
	}
}

// ResolvePrompt returns the prompt text or its fallback.
func ResolvePrompt(doc ResultDocument, spec PromptSpec) PromptView {
	view := PromptView{Key: spec.Key, Title: spec.Title}
	raw := doc.Prompt(spec.Key)
	if raw == nil || strings.TrimSpace(*raw) == "" {
		view.Text = spec.Fallback
		view.Placeholder = true
		return view
	}
	view.Text = *raw
	return view
}

// RenderedDocument is a ResultDocument resolved for presentation.
type RenderedDocument struct {
	Idea     string       `json:"idea"`
	Sections []Section    `json:"sections"`
	Prompts  []PromptView `json:"prompts"`
}

// Render resolves every field of doc. It has no side effects, so rendering the
// same document twice yields identical output.
func Render(idea string, doc ResultDocument) RenderedDocument {
	out := RenderedDocument{
		Idea:     idea,
		Sections: make([]Section, 0, len(Fields)),
		Prompts:  make([]PromptView, 0, len(Prompts)),
	}
	for _, spec := range Fields {
		out.Sections = append(out.Sections, ResolveField(doc, spec))
	}
	for _, spec := range Prompts {
		out.Prompts = append(out.Prompts, ResolvePrompt(doc, spec))
	}
	return out
}

// Section returns the rendered section for key.
func (r RenderedDocument) Section(key FieldKey) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}
