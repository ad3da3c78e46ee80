package ai

// CausalityPrompt asks the model for every causal relationship between a
// small group of milestones. Placeholders: goal title, milestone list (JSON),
// goal title.
const CausalityPrompt = `
# Task Context
You are an expert at identifying causal relationships and dependencies in milestone networks. The milestones below are steps on the way to a goal.

# Background Data
GOAL: %s

MILESTONES:
%s

# Detailed Task Description & Rules
Analyze ALL possible causal relationships and dependencies between these milestones in the context of achieving the goal. Consider both directions of every pair.

Use the MOST APPROPRIATE relationship type for each pair. Do NOT limit yourself to prerequisite and supports:
- direct_cause: A directly causes or enables B (strong direct causation)
- indirect_cause: A influences B through intermediate effects
- prerequisite: A must be completed before B can start (strict dependency)
- enables: A makes B possible but not required (opportunity creation)
- supports: A helps with B but B can happen without A
- mutual_reinforcement: A and B strengthen each other (bidirectional)
- inhibitory: A prevents or reduces the likelihood of B
- conditional: A causes B only under certain conditions
- temporal: A must precede B in time for the causal effect

Rules:
1. Only reference milestone ids from the list above.
2. Strength and confidence are numbers between 0 and 1.
3. Include mediating conditions and the causal mechanism when relevant.
4. Include weak relationships if they contribute to achieving "%s".
5. Look for feedback loops and bidirectional relationships where appropriate.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "dependencies": [
    {
      "prerequisite_id": "m1",
      "dependent_id": "m2",
      "relationship_type": "prerequisite",
      "strength": 0.85,
      "confidence": 0.9,
      "bidirectional": false,
      "conditions": "",
      "mechanism": "",
      "reasoning": ""
    }
  ]
}
`

// RoadmapTypePrompt classifies the overall narrative against the roadmap
// taxonomy. Placeholders: goal title, taxonomy list, narrative text, goal
// title.
const RoadmapTypePrompt = `
# Task Context
You are an expert classifier of career narratives.

# Background Data
GOAL: %s

ROADMAP TYPES:
%s

TEXT TO ANALYZE:
%s

# Detailed Task Description & Rules
Identify the primary roadmap type that best describes the journey toward achieving "%s". Pick the primary type from the taxonomy exactly as written; list other relevant types as secondary.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "primary_roadmap_type": "exact match from taxonomy",
  "confidence_score": 0.95,
  "secondary_types": ["other relevant types"],
  "reasoning": "why this classification was chosen"
}
`

// ExtractMilestonesPrompt pulls every goal-relevant milestone out of a
// narrative chunk. Placeholders: goal title, narrative text, goal title.
const ExtractMilestonesPrompt = `
# Task Context
You are an expert at extracting milestones from personal narratives.

# Background Data
GOAL: %s

TEXT TO ANALYZE:
%s

# Detailed Task Description & Rules
Identify ALL significant steps, actions, achievements, or milestones in the text that contributed to achieving the goal. Focus on actions that:
- directly contributed to reaching the goal
- built necessary skills or knowledge for it
- created opportunities leading to it
- overcame obstacles preventing it

For every milestone explain how it connects to achieving "%s". Mark importance as high, medium, or low.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "milestones": [
    {
      "id": "m1",
      "description": "clear description of the milestone or step",
      "goal_relevance": "how this milestone relates to the goal",
      "temporal_context": "when this happened, if mentioned",
      "importance": "high"
    }
  ]
}
`

// AnonymizePrompt rewrites one personal milestone into a general actionable
// step. Placeholders: goal title, goal title, original description.
const AnonymizePrompt = `
# Task Context
You transform personal milestones into general, actionable steps while preserving important specificity.

# Background Data
GOAL CONTEXT: this step should help someone achieve "%s"

# Detailed Task Description & Rules
1. Remove personal identifiers (names, personal pronouns like "I" or "my").
2. Convert narrative form to imperative form.
3. Preserve specific platforms, technologies, certifications, and measurable achievements.
4. Keep domain terminology that adds value.
5. Frame the action in the context of achieving "%s".

ORIGINAL DESCRIPTION: %s

# Output Formatting
Provide ONLY the transformed description, nothing else.
`

// ClassifyMilestonesPrompt assigns each milestone a type from the milestone
// taxonomy. Placeholders: goal title, taxonomy list, milestone list (JSON).
const ClassifyMilestonesPrompt = `
# Task Context
You are an expert milestone classifier.

# Background Data
GOAL CONTEXT: these milestones should lead to achieving "%s"

MILESTONE TAXONOMY:
%s

MILESTONES TO CLASSIFY:
%s

# Detailed Task Description & Rules
For each milestone, pick the single taxonomy entry that best describes what the milestone represents on the way to the goal. Use the taxonomy names exactly as written.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "classified_milestones": [
    {
      "id": "m1",
      "milestone_type": "exact match from taxonomy",
      "confidence": 0.9,
      "reasoning": "brief explanation"
    }
  ]
}
`
