package draft

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// Fallback values for fields the model left out or mangled.
const (
	DefaultSuggestedName   = "AI Suggested Recipe"
	DefaultGeneratedName   = "AI Generated Recipe"
	DefaultPrepTimeMinutes = 30
	DefaultCookTimeMinutes = 30
	DefaultServings        = 2
	DefaultCalories        = 0
	AICreatedBy            = "AI Assistant"

	GenerateFailureInstructions = "Failed to parse AI response. Please try again."
)

// Hints are caller-side preferences used when the model omits a field.
type Hints struct {
	Cuisine      string
	IsVegetarian *bool

	// Name replaces DefaultSuggestedName for unnamed drafts.
	Name string
}

// Draft is a reconciled, fully populated recipe proposal that has not yet
// been through entity validation.
type Draft struct {
	Name            string           `json:"name"`
	Cuisine         model.Cuisine    `json:"cuisine"`
	IsVegetarian    bool             `json:"isVegetarian"`
	PrepTimeMinutes int              `json:"prepTimeMinutes"`
	CookTimeMinutes int              `json:"cookTimeMinutes"`
	Servings        int              `json:"servings"`
	Ingredients     []string         `json:"ingredients"`
	Instructions    string           `json:"instructions"`
	Difficulty      model.Difficulty `json:"difficulty"`
	Tags            []string         `json:"tags"`
	ImageURL        string           `json:"imageUrl"`
	Calories        int              `json:"calories"`
	CreatedBy       string           `json:"createdBy"`
	Fallback        bool             `json:"isFallback,omitempty"`
}

// CoerceCuisine resolves a model-supplied cuisine to the fixed set: an exact
// or case-insensitive match wins, then the caller's hint, then Other. No
// value outside the set is ever returned.
func CoerceCuisine(value, hint string) model.Cuisine {
	if c, ok := model.ParseCuisine(value); ok {
		return c
	}
	if c, ok := model.ParseCuisine(hint); ok {
		return c
	}
	return model.CuisineOther
}

// Reconcile builds a Draft from one parsed object, filling every missing or
// malformed field from hints and the documented defaults.
func Reconcile(obj map[string]any, hints Hints) Draft {
	d := Draft{
		Name:        stringField(obj, "name", "title", "recipeName"),
		Cuisine:     CoerceCuisine(stringField(obj, "cuisine"), hints.Cuisine),
		Ingredients: listField(obj, "ingredients"),
		Tags:        model.NormalizeTags(listField(obj, "tags")),
		CreatedBy:   AICreatedBy,
	}
	if d.Name == "" {
		d.Name = hints.Name
	}
	if d.Name == "" {
		d.Name = DefaultSuggestedName
	}

	if v, ok := boolField(obj, "isVegetarian", "vegetarian"); ok {
		d.IsVegetarian = v
	} else if hints.IsVegetarian != nil {
		d.IsVegetarian = *hints.IsVegetarian
	} else {
		d.IsVegetarian = true
	}

	d.PrepTimeMinutes = DefaultPrepTimeMinutes
	if n, ok := intField(obj, "prepTimeMinutes", "prepTime"); ok && n >= 1 {
		d.PrepTimeMinutes = n
	}
	d.CookTimeMinutes = DefaultCookTimeMinutes
	if n, ok := intField(obj, "cookTimeMinutes", "cookTime"); ok && n >= 0 {
		d.CookTimeMinutes = n
	}
	d.Servings = DefaultServings
	if n, ok := intField(obj, "servings"); ok && n >= 1 {
		d.Servings = n
	}
	d.Calories = DefaultCalories
	if n, ok := intField(obj, "calories", "estimatedCalories"); ok && n >= 0 {
		d.Calories = n
	}

	if v, ok := field(obj, "instructions", "steps", "simplifiedInstructions"); ok {
		d.Instructions = JoinInstructions(v)
	}

	d.Difficulty = model.Difficulty(strings.ToLower(stringField(obj, "difficulty")))
	if !d.Difficulty.Valid() {
		d.Difficulty = model.DifficultyMedium
	}

	if url := stringField(obj, "imageUrl", "image", "imageURL"); model.ValidImageURL(url) {
		d.ImageURL = url
	}
	return d
}

// ReconcileAll reconciles every object carried by p. An unparseable p
// yields nil.
func ReconcileAll(p Parsed, hints Hints) []Draft {
	objs := p.Objects()
	if len(objs) == 0 {
		return nil
	}
	out := make([]Draft, 0, len(objs))
	for _, obj := range objs {
		out = append(out, Reconcile(obj, hints))
	}
	return out
}

// Placeholder is a fallback draft with default metadata around the given
// name and instructions.
func Placeholder(name, instructions string, hints Hints) Draft {
	vegetarian := true
	if hints.IsVegetarian != nil {
		vegetarian = *hints.IsVegetarian
	}
	return Draft{
		Name:            name,
		Cuisine:         CoerceCuisine("", hints.Cuisine),
		IsVegetarian:    vegetarian,
		PrepTimeMinutes: DefaultPrepTimeMinutes,
		CookTimeMinutes: DefaultCookTimeMinutes,
		Servings:        DefaultServings,
		Ingredients:     []string{},
		Instructions:    strings.TrimSpace(instructions),
		Difficulty:      model.DifficultyMedium,
		Tags:            []string{},
		Calories:        DefaultCalories,
		CreatedBy:       AICreatedBy,
		Fallback:        true,
	}
}

// FromText is the fallback for unparseable output: the raw answer becomes
// the instructions of a placeholder recipe.
func FromText(raw Raw, hints Hints) Draft {
	return Placeholder(DefaultSuggestedName, string(raw), hints)
}

// Candidate exposes the draft as an entity-validation input.
func (d Draft) Candidate() model.Candidate {
	name, cuisine, difficulty := d.Name, string(d.Cuisine), string(d.Difficulty)
	instructions, imageURL, createdBy := d.Instructions, d.ImageURL, d.CreatedBy
	vegetarian := d.IsVegetarian
	prep, cook, servings, calories := d.PrepTimeMinutes, d.CookTimeMinutes, d.Servings, d.Calories
	return model.Candidate{
		Name:            &name,
		Cuisine:         &cuisine,
		IsVegetarian:    &vegetarian,
		PrepTimeMinutes: &prep,
		CookTimeMinutes: &cook,
		Servings:        &servings,
		Ingredients:     d.Ingredients,
		Instructions:    &instructions,
		Difficulty:      &difficulty,
		Tags:            d.Tags,
		ImageURL:        &imageURL,
		Calories:        &calories,
		CreatedBy:       &createdBy,
	}
}

// Promote validates the draft into a recipe ready to persist.
func (d Draft) Promote() (*model.Recipe, error) {
	return model.Validate(d.Candidate())
}

// stepPrefix matches "1.", "2)", "Step 3:" and "Step 4" only when followed
// by whitespace, so leading quantities like "1.5 cups" survive.
var stepPrefix = regexp.MustCompile(`(?i)^\s*(?:step\s*\d+\s*[.):\-]?|\d+\s*[.)])(?:\s+|$)`)

// JoinInstructions renders instructions as a single string. A string is
// returned unchanged. A list becomes "1. step" lines; any numbering the
// model already put on a step is replaced rather than doubled.
func JoinInstructions(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []string:
		items := make([]any, len(s))
		for i := range s {
			items[i] = s[i]
		}
		return JoinInstructions(items)
	case []any:
		lines := make([]string, 0, len(s))
		for _, item := range s {
			step := strings.TrimSpace(stepPrefix.ReplaceAllString(itemText(item), ""))
			if step == "" {
				continue
			}
			lines = append(lines, strconv.Itoa(len(lines)+1)+". "+step)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
