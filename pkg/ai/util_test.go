package ai

import (
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fence",
			input: `{"dependencies": []}`,
			want:  `{"dependencies": []}`,
		},
		{
			name:  "plain fence",
			input: "```\n{\"dependencies\": []}\n```",
			want:  `{"dependencies": []}`,
		},
		{
			name:  "json language tag",
			input: "```json\n{\"dependencies\": []}\n```",
			want:  `{"dependencies": []}`,
		},
		{
			name:  "fence with surrounding whitespace",
			input: "  ```json\n{\"a\": 1}\n```  ",
			want:  `{"a": 1}`,
		},
		{
			name:  "content on fence line",
			input: "```{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.input); got != tc.want {
				t.Errorf("StripCodeFences() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_RelationVariants(t *testing.T) {
	type relation struct {
		PrerequisiteID string  `json:"prerequisite_id"`
		DependentID    string  `json:"dependent_id"`
		Confidence     float64 `json:"confidence"`
	}
	type reply struct {
		Dependencies []relation `json:"dependencies"`
	}

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "valid json",
			input: `{"dependencies":[{"prerequisite_id":"m1","dependent_id":"m2","confidence":0.9}]}`,
		},
		{
			name:  "fenced json",
			input: "```json\n{\"dependencies\":[{\"prerequisite_id\":\"m1\",\"dependent_id\":\"m2\",\"confidence\":0.9}]}\n```",
		},
		{
			name:  "unquoted keys",
			input: `{dependencies:[{prerequisite_id:'m1',dependent_id:'m2',confidence:0.9}]}`,
		},
		{
			name:  "trailing comma and missing bracket",
			input: `{"dependencies":[{"prerequisite_id":"m1","dependent_id":"m2","confidence":0.9,}]`,
		},
		{
			name:  "stringified",
			input: `"{\"dependencies\":[{\"prerequisite_id\":\"m1\",\"dependent_id\":\"m2\",\"confidence\":0.9}]}"`,
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\"dependencies\":[{\"prerequisite_id\":\"m1\",\"dependent_id\":\"m2\",\"confidence\":0.9}]}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got reply
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if len(got.Dependencies) != 1 {
				t.Fatalf("UnmarshalFlexible() parsed %d dependencies, want 1", len(got.Dependencies))
			}
			dep := got.Dependencies[0]
			if dep.PrerequisiteID != "m1" || dep.DependentID != "m2" || dep.Confidence != 0.9 {
				t.Errorf("UnmarshalFlexible() got = %+v", dep)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got map[string]any
	if err := UnmarshalFlexible("I could not find any relationships.", &got); err == nil {
		t.Fatal("UnmarshalFlexible() expected error for prose input")
	}
}
