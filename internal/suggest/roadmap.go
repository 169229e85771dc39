package suggest

import "github.com/zombar/reviewinsights/internal/models"

// phaseTemplate describes the roadmap phase for one priority
type phaseTemplate struct {
	Priority        models.Priority
	Title           string
	Duration        string
	ExpectedOutcome string
}

var phaseTemplates = []phaseTemplate{
	{
		Priority:        models.PriorityHigh,
		Title:           "Critical Issues Resolution",
		Duration:        "Weeks 1-8",
		ExpectedOutcome: "Address most impactful customer pain points",
	},
	{
		Priority:        models.PriorityMedium,
		Title:           "Process Optimization",
		Duration:        "Weeks 6-16",
		ExpectedOutcome: "Improve operational efficiency and customer experience",
	},
	{
		Priority:        models.PriorityLow,
		Title:           "Enhancement & Innovation",
		Duration:        "Weeks 12-24",
		ExpectedOutcome: "Fine-tune experience and add value-added features",
	},
}

// BuildRoadmap partitions suggestions by priority into sequential phases.
// Empty partitions produce no phase.
func BuildRoadmap(suggestions []models.Suggestion) models.Roadmap {
	roadmap := models.Roadmap{Phases: []models.RoadmapPhase{}}

	for _, tmpl := range phaseTemplates {
		var members []models.Suggestion
		for _, s := range suggestions {
			if s.Priority == tmpl.Priority {
				members = append(members, s)
			}
		}
		if len(members) == 0 {
			continue
		}

		roadmap.Phases = append(roadmap.Phases, models.RoadmapPhase{
			Phase:           len(roadmap.Phases) + 1,
			Title:           tmpl.Title,
			Duration:        tmpl.Duration,
			Suggestions:     members,
			ExpectedOutcome: tmpl.ExpectedOutcome,
		})
	}

	return roadmap
}
