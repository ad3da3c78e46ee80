package roadmap

import "strings"

// RoadmapTypes is the closed taxonomy a narrative's overall journey is
// classified against.
var RoadmapTypes = []string{
	"Career Entry",
	"Career Transition",
	"Career Growth",
	"Career Growth Leadership",
	"Specialized Technical Tracks",
	"Research",
	"Academic Excellence",
	"Entrepreneurship",
	"Freelancing",
	"Certification",
	"Public Impact & Thought Leadership",
	"Personal Development",
}

// MilestoneTypes is the closed taxonomy individual milestones are classified
// against.
var MilestoneTypes = []string{
	"Technical skills",
	"Soft Skills",
	"Hands-on project",
	"Internship",
	"Job experience",
	"Degree",
	"Diploma",
	"Certificate",
	"Workshop",
	"Networking",
	"Mentorship",
	"Personal development (well-being)",
	"Award",
	"Paper",
	"Patent",
	"Leadership",
}

// Defaults applied when a classification reply is missing or does not match
// the taxonomy.
const (
	DefaultRoadmapType   = "Personal Development"
	DefaultMilestoneType = "Personal development (well-being)"
)

// taxonomyList renders a taxonomy as the bullet list the prompts embed.
func taxonomyList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}

// inTaxonomy reports whether name matches a taxonomy entry exactly.
func inTaxonomy(items []string, name string) bool {
	for _, item := range items {
		if item == name {
			return true
		}
	}
	return false
}
