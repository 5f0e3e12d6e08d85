package draft

import (
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// Step is one simplified cooking step.
type Step struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
	TimeMinutes int    `json:"timeMinutes"`
	Tip         string `json:"tip,omitempty"`
}

// Simplified is a beginner-friendly rewrite of a recipe's instructions.
type Simplified struct {
	SimplifiedInstructions string `json:"simplifiedInstructions"`
	Steps                  []Step `json:"steps"`
	TotalSimplifiedTime    int    `json:"totalSimplifiedTime"`
	ComplexityLevel        string `json:"complexityLevel"`
	Fallback               bool   `json:"isFallback,omitempty"`
}

// SimplifiedFallback mirrors the original recipe when the model's answer
// cannot be read.
func SimplifiedFallback(instructions string, prepTimeMinutes int, complexity string) Simplified {
	return Simplified{
		SimplifiedInstructions: instructions,
		Steps:                  []Step{},
		TotalSimplifiedTime:    prepTimeMinutes,
		ComplexityLevel:        complexity,
		Fallback:               true,
	}
}

// ReconcileSimplified reads a simplification answer. Missing parts are
// derived from the steps, then from the original recipe.
func ReconcileSimplified(p Parsed, instructions string, prepTimeMinutes int, complexity string) Simplified {
	obj, ok := p.Object()
	if !ok {
		return SimplifiedFallback(instructions, prepTimeMinutes, complexity)
	}

	s := Simplified{
		SimplifiedInstructions: stringField(obj, "simplifiedInstructions", "instructions"),
		Steps:                  []Step{},
		ComplexityLevel:        stringField(obj, "complexityLevel", "complexity"),
	}

	total := 0
	if raw, ok := obj["steps"].([]any); ok {
		for _, item := range raw {
			step := Step{StepNumber: len(s.Steps) + 1}
			switch v := item.(type) {
			case map[string]any:
				step.Description = stringField(v, "description", "instruction", "step", "text")
				step.TimeMinutes, _ = intField(v, "timeMinutes", "time", "minutes")
				step.Tip = stringField(v, "tip", "tips")
			case string:
				step.Description = strings.TrimSpace(stepPrefix.ReplaceAllString(v, ""))
			}
			if step.Description == "" {
				continue
			}
			if step.TimeMinutes < 0 {
				step.TimeMinutes = 0
			}
			total += step.TimeMinutes
			s.Steps = append(s.Steps, step)
		}
	}

	if s.SimplifiedInstructions == "" {
		descriptions := make([]any, len(s.Steps))
		for i, step := range s.Steps {
			descriptions[i] = step.Description
		}
		s.SimplifiedInstructions = JoinInstructions(descriptions)
	}
	if s.SimplifiedInstructions == "" {
		return SimplifiedFallback(instructions, prepTimeMinutes, complexity)
	}

	if n, ok := intField(obj, "totalSimplifiedTime", "totalTime"); ok && n > 0 {
		s.TotalSimplifiedTime = n
	} else if total > 0 {
		s.TotalSimplifiedTime = total
	} else {
		s.TotalSimplifiedTime = prepTimeMinutes
	}
	if s.ComplexityLevel == "" {
		s.ComplexityLevel = complexity
	}
	return s
}

// NutritionUnavailableMessage marks an analysis that could not be read.
const NutritionUnavailableMessage = "Nutrition analysis unavailable"

// Nutrition is an estimated nutritional breakdown of one recipe.
type Nutrition struct {
	EstimatedCalories         int      `json:"estimatedCalories"`
	Protein                   float64  `json:"protein"`
	Carbs                     float64  `json:"carbs"`
	Fat                       float64  `json:"fat"`
	Fiber                     float64  `json:"fiber"`
	KeyNutrients              []string `json:"keyNutrients"`
	HealthBenefits            []string `json:"healthBenefits"`
	DietaryTags               []string `json:"dietaryTags"`
	SuggestionsForImprovement []string `json:"suggestionsForImprovement"`
	Message                   string   `json:"message,omitempty"`
}

// NutritionUnavailable is the sentinel returned for unreadable answers.
func NutritionUnavailable() Nutrition {
	return Nutrition{
		KeyNutrients:              []string{},
		HealthBenefits:            []string{},
		DietaryTags:               []string{},
		SuggestionsForImprovement: []string{},
		Message:                   NutritionUnavailableMessage,
	}
}

// Available reports whether n carries an actual analysis.
func (n Nutrition) Available() bool {
	return n.Message != NutritionUnavailableMessage
}

// ReconcileNutrition reads a nutrition answer, or returns the sentinel.
func ReconcileNutrition(p Parsed) Nutrition {
	obj, ok := p.Object()
	if !ok {
		return NutritionUnavailable()
	}

	n := Nutrition{
		Protein:                   floatField(obj, "protein"),
		Carbs:                     floatField(obj, "carbs", "carbohydrates"),
		Fat:                       floatField(obj, "fat"),
		Fiber:                     floatField(obj, "fiber"),
		KeyNutrients:              listField(obj, "keyNutrients"),
		HealthBenefits:            listField(obj, "healthBenefits"),
		DietaryTags:               model.NormalizeTags(listField(obj, "dietaryTags")),
		SuggestionsForImprovement: listField(obj, "suggestionsForImprovement", "suggestions"),
	}
	cal, hasCalories := intField(obj, "estimatedCalories", "calories")
	if hasCalories && cal >= 0 {
		n.EstimatedCalories = cal
	}
	if !hasCalories && n.Protein == 0 && n.Carbs == 0 && n.Fat == 0 && len(n.KeyNutrients) == 0 {
		return NutritionUnavailable()
	}
	return n
}
