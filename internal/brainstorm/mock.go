package brainstorm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultMockDelay simulates backend latency in mock mode.
const DefaultMockDelay = 1500 * time.Millisecond

// MockGenerator synthesizes a fully populated ResultDocument locally.
type MockGenerator struct {
	Delay time.Duration
}

// NewMockGenerator returns a generator that waits delay before answering.
// A negative delay is treated as zero.
func NewMockGenerator(delay time.Duration) *MockGenerator {
	if delay < 0 {
		delay = 0
	}
	return &MockGenerator{Delay: delay}
}

// Resolve waits for the configured delay, then synthesizes a document.
func (g *MockGenerator) Resolve(ctx context.Context, req SubmissionRequest) (ResultDocument, error) {
	if g != nil && g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ResultDocument{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Synthesize(req), nil
}

// Synthesize builds a document whose every field follows its grammar. The
// wording only depends on the request, so equal requests yield equal documents.
func Synthesize(req SubmissionRequest) ResultDocument {
	req = req.Normalize()
	idea := req.Idea
	focus := req.Focus
	contextLine := "No additional context was provided."
	if full := req.FullContext(); full != "" {
		contextLine = "Context considered: " + firstLine(full)
	}

	problem := fmt.Sprintf(
		"The idea \"%s\" addresses a recurring need that is currently handled manually.\n%s\n\n"+
			"Affected groups:\n- end users who want a faster workflow\n- operators who maintain the current process",
		idea, contextLine,
	)

	goals := fmt.Sprintf(
		"Deliver a first usable version of \"%s\" with a %s focus.\n\n"+
			"- Time to first result below 5 minutes\n- 80%% of pilot users complete the core flow\n- Fewer than 2 support requests per week",
		idea, focus,
	)

	functional := strings.Join([]string{
		fmt.Sprintf("FR-1 (High): Users can capture a new entry for %s", idea),
		"FR-2 (High): Users can review and edit existing entries",
		"FR-3 (Medium): The system exports results as a report",
		"FR-4 (Low): Administrators can configure defaults",
	}, "\n")

	nonfunctional := strings.Join([]string{
		"NFR-1 (Performance): Pages respond within 2 seconds",
		"NFR-2 (Security): All data is transmitted over TLS",
		"NFR-3 (Usability): The core flow works on mobile screens",
	}, "\n")

	risks := strings.Join([]string{
		"RISIKO-1: Adoption stays low if onboarding takes too long",
		"RISIKO-2: Integration with existing tools may be harder than expected",
		"",
		"ANNAHME-1: Pilot users are available for feedback every week",
		"ANNAHME-2: The required data can be accessed without legal review",
	}, "\n")

	potential := fmt.Sprintf(
		"The idea can be implemented incrementally, starting with a small pilot.\n"+
			"Estimated effort for the first release is four to six weeks with a %s emphasis.\n\n"+
			"- Reuse existing authentication\n- Start with a single data source",
		focus,
	)

	tasks := strings.Join([]string{
		"T1: Clarify scope and success criteria with stakeholders",
		"T2: Design the data model and core screens",
		"T3: Implement the capture and review flow",
		"T4: Add report export",
		"T5: Run the pilot and collect feedback",
	}, "\n")

	tests := strings.Join([]string{
		"TS-1: Capturing an entry with valid input stores it",
		"TS-2: Capturing an entry with empty input shows a validation message",
		"TS-3: Exported reports contain every stored entry",
		"TS-4: Pages respond within 2 seconds under pilot load",
	}, "\n")

	return ResultDocument{
		ProblemStatement:          Text(problem),
		GoalsKPIs:                 Text(goals),
		FunctionalRequirements:    Text(functional),
		NonfunctionalRequirements: Text(nonfunctional),
		RisksAssumptions:          Text(risks),
		ImplementationPotential:   Text(potential),
		TaskList:                  Text(tasks),
		TestIdeas:                 Text(tests),
		FollowupPrompts: &FollowupPrompts{
			Planner:   Text(fmt.Sprintf("Create a release plan for \"%s\" covering tasks T1 to T5 with milestones.", idea)),
			Architect: Text(fmt.Sprintf("Propose an architecture for \"%s\" that satisfies FR-1 to FR-4 and NFR-1 to NFR-3.", idea)),
			Dev:       Text(fmt.Sprintf("Implement FR-1 for \"%s\" and cover it with the tests TS-1 and TS-2.", idea)),
		},
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > 120 {
		return string(runes[:120]) + "..."
	}
	return string(runes)
}
