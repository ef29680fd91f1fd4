package brainstorm

// ResultDocument is the structured analysis output returned by the backend or
// synthesized in mock mode. Every field is optional; a nil pointer means the
// field was absent, which is distinct from an empty string.
type ResultDocument struct {
	ProblemStatement          *string          `json:"problem_statement,omitempty"`
	GoalsKPIs                 *string          `json:"goals_kpis,omitempty"`
	FunctionalRequirements    *string          `json:"functional_requirements,omitempty"`
	NonfunctionalRequirements *string          `json:"nonfunctional_requirements,omitempty"`
	RisksAssumptions          *string          `json:"risks_assumptions,omitempty"`
	ImplementationPotential   *string          `json:"implementation_potential,omitempty"`
	TaskList                  *string          `json:"task_list,omitempty"`
	TestIdeas                 *string          `json:"test_ideas,omitempty"`
	FollowupPrompts           *FollowupPrompts `json:"followup_prompts,omitempty"`
}

// FollowupPrompts holds prompts for downstream planning skills.
type FollowupPrompts struct {
	Planner   *string `json:"prompt_planner,omitempty"`
	Architect *string `json:"prompt_architect,omitempty"`
	Dev       *string `json:"prompt_dev,omitempty"`
}

// Text returns a pointer to s, for building documents in code.
func Text(s string) *string {
	return &s
}

// Field returns the raw value of a text field by key.
func (d ResultDocument) Field(key FieldKey) *string {
	switch key {
	case FieldProblemStatement:
		return d.ProblemStatement
	case FieldGoalsKPIs:
		return d.GoalsKPIs
	case FieldFunctionalRequirements:
		return d.FunctionalRequirements
	case FieldNonfunctionalRequirements:
		return d.NonfunctionalRequirements
	case FieldRisksAssumptions:
		return d.RisksAssumptions
	case FieldImplementationPotential:
		return d.ImplementationPotential
	case FieldTaskList:
		return d.TaskList
	case FieldTestIdeas:
		return d.TestIdeas
	}
	return nil
}

// Prompt returns the raw value of a follow-up prompt by key.
func (d ResultDocument) Prompt(key PromptKey) *string {
	if d.FollowupPrompts == nil {
		return nil
	}
	switch key {
	case PromptPlanner:
		return d.FollowupPrompts.Planner
	case PromptArchitect:
		return d.FollowupPrompts.Architect
	case PromptDev:
		return d.FollowupPrompts.Dev
	}
	return nil
}
