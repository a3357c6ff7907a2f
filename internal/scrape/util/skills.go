package util

import "strings"

// techSkills is the fixed vocabulary matched against title+description.
// Informational only; the classification engine does not consume it.
var techSkills = []string{
	"python", "javascript", "typescript", "react", "node.js", "java",
	"sql", "aws", "docker", "git", "html", "css", "vue", "angular",
	"go", "rust", "swift", "kotlin", "flutter", "django", "fastapi",
	"mongodb", "postgresql", "redis", "kubernetes", "terraform",
}

// ExtractSkills returns the distinct vocabulary entries found in text.
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range techSkills {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}
