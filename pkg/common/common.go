package common

import "time"

// Milestone represents a single achievement or step in a career roadmap.
// Milestones are extracted from narrative text, anonymized into actionable
// form, classified against the milestone taxonomy, and finally ordered and
// scored. The ID is assigned once at extraction time and is immutable for
// the duration of an analysis run; every relation references milestones by
// this id.
type Milestone struct {
	ID                  string  `json:"id" jsonschema_description:"Short unique identifier, e.g. m1"`
	Description         string  `json:"description" jsonschema_description:"Clear description of the milestone or step"`
	OriginalDescription string  `json:"original_description,omitempty"`
	GoalRelevance       string  `json:"goal_relevance,omitempty" jsonschema_description:"How this milestone relates to achieving the goal"`
	TemporalContext     string  `json:"temporal_context,omitempty" jsonschema_description:"When this happened, if mentioned"`
	Importance          string  `json:"importance,omitempty" jsonschema_description:"One of high, medium, low"`
	Type                string  `json:"milestone_type,omitempty"`
	ClassificationConf  float64 `json:"classification_confidence,omitempty"`
	ImportanceScore     float64 `json:"importance_score,omitempty"`
	OrderPosition       int     `json:"order_position,omitempty"`
}

// RelationKind is the closed set of causal relationship types a relation
// between two milestones can carry.
type RelationKind string

const (
	RelationDirectCause         RelationKind = "direct_cause"
	RelationIndirectCause       RelationKind = "indirect_cause"
	RelationPrerequisite        RelationKind = "prerequisite"
	RelationEnables             RelationKind = "enables"
	RelationSupports            RelationKind = "supports"
	RelationMutualReinforcement RelationKind = "mutual_reinforcement"
	RelationInhibitory          RelationKind = "inhibitory"
	RelationConditional         RelationKind = "conditional"
	RelationTemporal            RelationKind = "temporal"
)

// RelationKinds lists every valid relation kind.
var RelationKinds = []RelationKind{
	RelationDirectCause,
	RelationIndirectCause,
	RelationPrerequisite,
	RelationEnables,
	RelationSupports,
	RelationMutualReinforcement,
	RelationInhibitory,
	RelationConditional,
	RelationTemporal,
}

// IsValid reports whether k is one of the known relation kinds.
func (k RelationKind) IsValid() bool {
	for _, known := range RelationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HardKinds are the kinds treated as strict ordering edges when deriving
// network properties; SoftKinds influence a milestone without ordering it.
var (
	HardKinds = map[RelationKind]bool{
		RelationPrerequisite: true,
		RelationDirectCause:  true,
		RelationTemporal:     true,
	}
	SoftKinds = map[RelationKind]bool{
		RelationSupports:      true,
		RelationEnables:       true,
		RelationIndirectCause: true,
	}
)

// Relation is a directed, typed, weighted causal link between two milestones.
// The prerequisite milestone influences the dependent one. Strength and
// Confidence are both in [0,1]. A relation is replaced as a whole when a
// higher-confidence judgment for the same (prerequisite, dependent) pair
// arrives; it is never partially updated.
type Relation struct {
	PrerequisiteID string       `json:"prerequisite_id" jsonschema_description:"Id of the milestone that comes first or causes the effect"`
	DependentID    string       `json:"dependent_id" jsonschema_description:"Id of the milestone that is influenced or enabled"`
	Type           RelationKind `json:"relationship_type" jsonschema_description:"One of direct_cause, indirect_cause, prerequisite, enables, supports, mutual_reinforcement, inhibitory, conditional, temporal"`
	Strength       float64      `json:"strength" jsonschema_description:"Strength of the relationship between 0 and 1"`
	Confidence     float64      `json:"confidence" jsonschema_description:"Confidence in this judgment between 0 and 1"`
	Bidirectional  bool         `json:"bidirectional,omitempty" jsonschema_description:"True when the effect runs both ways"`
	Conditions     string       `json:"conditions,omitempty" jsonschema_description:"Conditions required for this relationship to hold"`
	Mechanism      string       `json:"mechanism,omitempty" jsonschema_description:"How the causal relationship works"`
	Reasoning      string       `json:"reasoning,omitempty" jsonschema_description:"Explanation of the causal relationship"`
}

// NetworkProperties are derived from a relation list and never persisted on
// their own; they are recomputed from scratch whenever the relation set
// changes.
type NetworkProperties struct {
	TotalRelationships    int                  `json:"total_relationships"`
	TotalMilestones       int                  `json:"total_milestones"`
	TypeDistribution      map[RelationKind]int `json:"relationship_type_distribution,omitempty"`
	AverageConfidence     float64              `json:"average_confidence"`
	FoundationalIDs       []string             `json:"foundational_milestones,omitempty"`
	TerminalIDs           []string             `json:"terminal_milestones,omitempty"`
	BottleneckIDs         []string             `json:"bottleneck_milestones,omitempty"`
	CriticalPath          []string             `json:"critical_path_milestones,omitempty"`
	FeedbackLoops         [][]string           `json:"feedback_loops,omitempty"`
	Density               float64              `json:"dependency_density"`
	InfluenceRanking      []InfluenceScore     `json:"influence_ranking,omitempty"`
	StrongestDependencies []string             `json:"strongest_dependencies,omitempty"`
}

// InfluenceScore ranks a milestone by how strongly it affects the rest of
// the network.
type InfluenceScore struct {
	MilestoneID string `json:"milestone_id"`
	Score       int    `json:"score"`
}

// AnalysisMetadata reports how much of the pairwise space the iterative
// analysis actually observed.
type AnalysisMetadata struct {
	TotalIterations    int     `json:"total_iterations"`
	PairsAnalyzed      int     `json:"pairs_analyzed"`
	TotalPossiblePairs int     `json:"total_possible_pairs"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	DependenciesFound  int     `json:"dependencies_found"`
	GroupsPerIteration int     `json:"num_groups_per_iteration"`
}

// DependencyAnalysis is the complete result of a dependency analysis run.
type DependencyAnalysis struct {
	Dependencies      []Relation        `json:"dependencies"`
	NetworkProperties NetworkProperties `json:"dependency_network_properties"`
	Metadata          *AnalysisMetadata `json:"analysis_metadata,omitempty"`
}

// RoadmapMetadata describes the run that produced a roadmap document.
type RoadmapMetadata struct {
	ExtractionTimestamp time.Time      `json:"extraction_timestamp"`
	GoalTitle           string         `json:"goal_title"`
	TotalMilestones     int            `json:"total_milestones"`
	TotalDependencies   int            `json:"total_dependencies"`
	PrimaryRoadmapType  string         `json:"primary_roadmap_type"`
	TypeConfidence      float64        `json:"roadmap_classification_confidence"`
	SecondaryTypes      []string       `json:"secondary_roadmap_types,omitempty"`
	MilestoneTypes      map[string]int `json:"milestone_distribution,omitempty"`
}

// RoadmapAnalysis summarizes the finished roadmap for quick inspection.
type RoadmapAnalysis struct {
	GoalTitle           string   `json:"goal_title"`
	CriticalMilestones  []string `json:"critical_milestones,omitempty"`
	RoadmapComplexity   float64  `json:"roadmap_complexity"`
	TotalSteps          int      `json:"total_steps"`
	HighImportanceSteps int      `json:"high_importance_steps"`
}

// Roadmap is the final document assembled at the end of the pipeline and
// persisted as a single JSON record.
type Roadmap struct {
	Metadata     RoadmapMetadata   `json:"roadmap_metadata"`
	Milestones   []Milestone       `json:"milestones"`
	Dependencies []Relation        `json:"dependencies"`
	Network      NetworkProperties `json:"dependency_network_properties"`
	AnalysisMeta *AnalysisMetadata `json:"analysis_metadata,omitempty"`
	Analysis     RoadmapAnalysis   `json:"analysis"`
}
