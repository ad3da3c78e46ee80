package roadmap

import "testing"

func TestCleanGoalTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "empty input",
			title: "",
			want:  "Unknown Goal",
		},
		{
			name:  "whitespace only",
			title: "   ",
			want:  "Unknown Goal",
		},
		{
			name:  "plain goal unchanged",
			title: "Become a machine learning engineer",
			want:  "Become a machine learning engineer",
		},
		{
			name:  "strips how to prefix",
			title: "How to become a data scientist",
			want:  "Become a data scientist",
		},
		{
			name:  "how to prefix is case insensitive",
			title: "how to Start a company",
			want:  "Start a company",
		},
		{
			name:  "drops clause after dash",
			title: "Become a surgeon - a complete guide",
			want:  "Become a surgeon",
		},
		{
			name:  "drops clause after colon",
			title: "Become a pilot: everything you need to know",
			want:  "Become a pilot",
		},
		{
			name:  "removes question marks",
			title: "How to get into research?",
			want:  "Get into research",
		},
		{
			name:  "strips question word prefix",
			title: "What is the path to becoming a professor",
			want:  "The path to becoming a professor",
		},
		{
			name:  "capitalizes first letter",
			title: "become an architect",
			want:  "Become an architect",
		},
		{
			name:  "single character",
			title: "x",
			want:  "X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanGoalTitle(tt.title); got != tt.want {
				t.Errorf("CleanGoalTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
