package service

import (
	"fmt"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/imagesearch"
	"github.com/pageza/recipe-catalog/backend/internal/model"
)

const (
	suggestSystemPrompt   = "You are a professional chef and recipe expert. Always respond with valid JSON."
	simplifySystemPrompt  = "You are a cooking instructor that simplifies complex recipes for home cooks."
	generateSystemPrompt  = "You are a creative chef that generates original recipes based on descriptions."
	nutritionSystemPrompt = "You are a nutritionist who analyzes recipes for their nutritional content."
)

const recipeFormat = `{
  "name": "Recipe name",
  "cuisine": "Cuisine type",
  "prepTimeMinutes": number,
  "cookTimeMinutes": number,
  "difficulty": "easy/medium/hard",
  "ingredients": ["ingredient1", "ingredient2"],
  "instructions": ["Step-by-step instructions"],
  "tags": ["tag1", "tag2"],
  "isVegetarian": true/false,
  "calories": number,
  "servings": number,
  "imageUrl": "URL of a suitable image"
}

example:
{
  "name": "Vegetable Stir Fry",
  "cuisine": "Chinese",
  "prepTimeMinutes": 15,
  "cookTimeMinutes": 10,
  "difficulty": "easy",
  "ingredients": ["Broccoli", "Carrot", "Bell Pepper", "Soy Sauce", "Garlic"],
  "instructions": ["1. Chop veggies.", "2. Stir fry in wok with garlic and soy sauce."],
  "tags": ["vegetarian", "quick", "healthy"],
  "isVegetarian": true,
  "calories": 250,
  "servings": 2,
  "imageUrl": "https://example.com/veg-stir-fry.jpg"
}`

func cuisineRule() string {
	names := make([]string, len(model.Cuisines))
	for i, c := range model.Cuisines {
		names[i] = string(c)
	}
	return "Cuisine MUST be exactly one of the following values:\n" +
		strings.Join(names, ", ") +
		"\n\nDo NOT invent new cuisines.\nIf unsure, use \"Other\".\n"
}

func imageRule(toolsEnabled bool) string {
	if toolsEnabled {
		return fmt.Sprintf("Call the %s tool with the dish name to find imageUrl. Leave imageUrl empty if it finds nothing.\n", imagesearch.ToolName)
	}
	return "Leave imageUrl empty unless you know a real photo URL ending in .jpg, .jpeg, .png, .gif or .webp.\n"
}

func vegetarianWord(v *bool) string {
	if v == nil || *v {
		return "vegetarian"
	}
	return "non-vegetarian"
}

func suggestPrompt(req SuggestRequest, toolsEnabled bool) string {
	var b strings.Builder

	if len(req.Ingredients) == 0 {
		b.WriteString("Suggest 3 popular recipes")
		if req.Cuisine != "" {
			fmt.Fprintf(&b, " from %s cuisine", req.Cuisine)
		}
		fmt.Fprintf(&b, ". The cuisine should be %s.\n", vegetarianWord(req.IsVegetarian))
		b.WriteString(cuisineRule())
		b.WriteString(imageRule(toolsEnabled))
		b.WriteString("Return a **JSON array** only, following this structure:\n")
		b.WriteString(recipeFormat)
		b.WriteString("\n\nRequirements:\n")
		b.WriteString("1. Include temperatures in both Fahrenheit (°F) and Celsius (°C) when applicable.\n")
		b.WriteString("2. Use realistic values for calories and servings.\n")
		b.WriteString("3. Return only JSON, no extra text.\n")
		b.WriteString("4. Strictly follow the specified format.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Given these ingredients: %s, suggest 2 creative recipes", strings.Join(req.Ingredients, ", "))
	if req.Cuisine != "" {
		fmt.Fprintf(&b, " from %s cuisine", req.Cuisine)
	}
	if req.MealType != "" {
		fmt.Fprintf(&b, " for %s", req.MealType)
	}
	b.WriteString(".\n")
	if req.IsVegetarian != nil {
		fmt.Fprintf(&b, "The recipes should be %s.\n", vegetarianWord(req.IsVegetarian))
	}
	b.WriteString(cuisineRule())
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	prepTime := req.PrepTime
	if prepTime == "" {
		prepTime = "Under 60"
	}
	fmt.Fprintf(&b, "Include all provided ingredients. Difficulty: %s, Preparation time: %s minutes.\n", difficulty, prepTime)
	b.WriteString(imageRule(toolsEnabled))
	b.WriteString("Return a **JSON array** only, following this structure:\n")
	b.WriteString(recipeFormat)
	b.WriteString("\n1. Provide temperatures in both Fahrenheit (°F) and Celsius (°C).\n")
	b.WriteString("2. Use realistic values for calories and servings.\n")
	b.WriteString("3. Return only JSON, no extra text.")
	return b.String()
}

func simplifyPrompt(recipe *model.Recipe, complexity, language string) string {
	instructions := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(recipe.Instructions)

	return fmt.Sprintf(`Simplify the following recipe instructions for a %[1]s level cook:

Original instructions: "%[2]s"

Requirements:
1. Break down into clear, numbered steps
2. Use simple language
3. Add helpful tips for %[1]s cooks
4. Include estimated time for each step
5. Highlight safety tips
6. Format in %[3]s

IMPORTANT: Return ONLY valid JSON in this exact format:
{
  "simplifiedInstructions": "<full instructions in simple language>",
  "steps": [
    {
      "stepNumber": <number>,
      "description": "<step instructions>",
      "timeMinutes": <number>,
      "tip": "<helpful tip>"
    }
  ],
  "totalSimplifiedTime": <number>,
  "complexityLevel": "<complexity>"
}
Do not include any extra text or commentary.`, complexity, instructions, language)
}

func generatePrompt(req GenerateRequest, toolsEnabled bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed recipe based on this description: %q.\n", req.Description)
	if req.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine: %s\n", req.Cuisine)
	}
	fmt.Fprintf(&b, "The recipe should be %s\n", vegetarianWord(req.IsVegetarian))
	b.WriteString(cuisineRule())
	if req.MealType != "" {
		fmt.Fprintf(&b, "Meal type: %s\n", req.MealType)
	}
	if req.DietaryRestrictions != "" {
		fmt.Fprintf(&b, "Dietary restrictions: %s\n", req.DietaryRestrictions)
	}
	b.WriteString(imageRule(toolsEnabled))
	b.WriteString("\nReturn a **single JSON object** with this exact format:\n")
	b.WriteString(recipeFormat)
	b.WriteString("\n\nUse realistic values for calories and servings. Return only valid JSON, no extra text.")
	return b.String()
}

func nutritionPrompt(recipe *model.Recipe) string {
	return fmt.Sprintf(`Analyze the nutritional content of this recipe:

Recipe: %s
Ingredients: %s
Instructions: %s

Return a **JSON object** with:
{
  "estimatedCalories": number,
  "protein": number,
  "carbs": number,
  "fat": number,
  "fiber": number,
  "keyNutrients": ["nutrient1", "nutrient2"],
  "healthBenefits": ["benefit1", "benefit2"],
  "dietaryTags": ["high-protein", "low-carb", etc.],
  "suggestionsForImprovement": ["tip1", "tip2"]
}

Return only valid JSON.`, recipe.Name, strings.Join(recipe.Ingredients, ", "), recipe.Instructions)
}
