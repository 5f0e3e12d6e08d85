package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultCreatedBy is recorded when a recipe has no author.
const DefaultCreatedBy = "System"

var imageURLPattern = regexp.MustCompile(`(?i)^https?://.*\.(png|jpg|jpeg|gif|webp)$`)

// ValidImageURL reports whether s is an http(s) URL ending in an image extension.
func ValidImageURL(s string) bool {
	return imageURLPattern.MatchString(s)
}

// Candidate is an unvalidated recipe payload. Pointer fields distinguish
// "absent" (default applies) from an explicit zero.
type Candidate struct {
	Name            *string  `json:"name"`
	Cuisine         *string  `json:"cuisine"`
	IsVegetarian    *bool    `json:"isVegetarian"`
	PrepTimeMinutes *int     `json:"prepTimeMinutes"`
	CookTimeMinutes *int     `json:"cookTimeMinutes"`
	Servings        *int     `json:"servings"`
	Ingredients     []string `json:"ingredients"`
	Instructions    *string  `json:"instructions"`
	Difficulty      *string  `json:"difficulty"`
	Tags            []string `json:"tags"`
	ImageURL        *string  `json:"imageUrl"`
	Calories        *int     `json:"calories"`
	CreatedBy       *string  `json:"createdBy"`
	IsFavorite      *bool    `json:"isFavorite"`
	Rating          *float64 `json:"rating"`
}

// ValidationErrors is the full list of human-readable violations found in
// a candidate.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e, "; ")
}

// AsValidationErrors extracts the violation list from err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// recipeRules carries a candidate after defaults and normalization, tagged
// with the constraints each field must satisfy.
type recipeRules struct {
	Name            string   `validate:"required,max=100"`
	Cuisine         string   `validate:"required,cuisine"`
	PrepTimeMinutes *int     `validate:"required,min=1,max=1440"`
	CookTimeMinutes int      `validate:"min=0"`
	Servings        int      `validate:"min=1"`
	Ingredients     []string `validate:"min=1"`
	Instructions    string   `validate:"required,min=10"`
	Difficulty      string   `validate:"oneof=easy medium hard"`
	ImageURL        string   `validate:"omitempty,imageurl"`
	Calories        *int     `validate:"omitempty,min=0"`
	Rating          float64  `validate:"min=0,max=5"`
}

var messages = map[string]string{
	"Name.required":            "Recipe name is required",
	"Name.max":                 "Recipe name cannot exceed 100 characters",
	"Cuisine.required":         "Cuisine is required",
	"PrepTimeMinutes.required": "Preparation time is required",
	"PrepTimeMinutes.min":      "Preparation time must be at least 1 minute",
	"PrepTimeMinutes.max":      "Preparation time cannot exceed 1440 minutes (24 hours)",
	"CookTimeMinutes.min":      "Cooking time cannot be negative",
	"Servings.min":             "Servings must be at least 1",
	"Ingredients.min":          "At least one ingredient is required",
	"Instructions.required":    "Instructions are required",
	"Instructions.min":         "Instructions must be at least 10 characters long",
	"Difficulty.oneof":         "Difficulty must be easy, medium or hard",
	"ImageURL.imageurl":        "Please provide a valid image URL",
	"Calories.min":             "Calories cannot be negative",
	"Rating.min":               "Rating must be between 0 and 5",
	"Rating.max":               "Rating must be between 0 and 5",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cuisine", func(fl validator.FieldLevel) bool {
		return Cuisine(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return ValidImageURL(fl.Field().String())
	})
	return v
}

// Validate applies defaults, normalizes name, instructions, ingredients and
// tags, and checks every field. It returns either a Recipe or
// ValidationErrors listing all violations.
func Validate(c Candidate) (*Recipe, error) {
	rules := recipeRules{
		Name:            strings.TrimSpace(deref(c.Name, "")),
		Cuisine:         strings.TrimSpace(deref(c.Cuisine, "")),
		PrepTimeMinutes: c.PrepTimeMinutes,
		CookTimeMinutes: deref(c.CookTimeMinutes, 0),
		Servings:        deref(c.Servings, 2),
		Ingredients:     cleanList(c.Ingredients),
		Instructions:    strings.TrimSpace(deref(c.Instructions, "")),
		Difficulty:      strings.ToLower(strings.TrimSpace(deref(c.Difficulty, string(DifficultyMedium)))),
		ImageURL:        strings.TrimSpace(deref(c.ImageURL, "")),
		Calories:        c.Calories,
		Rating:          deref(c.Rating, 0),
	}

	if err := validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validating recipe: %w", err)
		}
		verrs := make(ValidationErrors, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			verrs = append(verrs, messageFor(fe))
		}
		return nil, verrs
	}

	createdBy := strings.TrimSpace(deref(c.CreatedBy, ""))
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}

	recipe := &Recipe{
		Name:            rules.Name,
		Cuisine:         Cuisine(rules.Cuisine),
		IsVegetarian:    deref(c.IsVegetarian, true),
		PrepTimeMinutes: *rules.PrepTimeMinutes,
		CookTimeMinutes: rules.CookTimeMinutes,
		Servings:        rules.Servings,
		Ingredients:     StringList(rules.Ingredients),
		Instructions:    rules.Instructions,
		Difficulty:      Difficulty(rules.Difficulty),
		Tags:            StringList(NormalizeTags(c.Tags)),
		ImageURL:        rules.ImageURL,
		Calories:        copyPtr(rules.Calories),
		CreatedBy:       createdBy,
		IsFavorite:      deref(c.IsFavorite, false),
		Rating:          rules.Rating,
	}
	return recipe, nil
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Field() == "Cuisine" {
		return fmt.Sprintf("%v is not a supported cuisine", fe.Value())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// NormalizeTags lowercases and trims each tag, dropping empties and
// duplicates while keeping first-seen order. Applying it twice is a no-op.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
