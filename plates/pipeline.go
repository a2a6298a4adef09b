package plates

import (
	"context"
	"fmt"

	"tixplate/llm"
)

// GenerateInput is the structured request the pipeline turns into a
// recipe draft.
type GenerateInput struct {
	SpiceLevel         string
	Occasion           string
	CuisineType        string
	Ingredients        string
	DietaryPreferences string
	Servings           int
}

// Draft is a generated recipe before the caller decides to save it.
// Nothing here touches the database.
type Draft struct {
	Title           string `json:"title"`
	RecipeList      string `json:"recipeList"`
	CookingTime     string `json:"cookingTime"`
	IngredientsList string `json:"ingredientsList"`
}

// Generate issues four sequential completions: title, instructions, then
// cooking time and ingredient list derived from the instructions text.
// Any failed call aborts the whole draft.
func Generate(ctx context.Context, c llm.Completer, in GenerateInput) (Draft, error) {
	var draft Draft
	var err error

	titlePrompt := fmt.Sprintf(
		"Generate a catchy recipe title for a %s with %s cuisine. Ingredients: %s, Dietary preference: %s, Spice level: %s (1-3). Limit to 10 words. No quotation marks in the response.",
		in.Occasion, in.CuisineType, in.Ingredients, in.DietaryPreferences, in.SpiceLevel,
	)
	draft.Title, err = c.Complete(ctx,
		"You are a helpful assistant. Do not add quotation marks to the response; the title should be innovative.",
		titlePrompt,
	)
	if err != nil {
		return Draft{}, err
	}

	recipePrompt := fmt.Sprintf(
		"Provide numbered recipe instructions for a %s with %s cuisine. Ingredients: %q. No title. Numbered list instructions. Dietary preference: %s, Spice level: %s (1-3), Servings: %d. Limit to 200 words.",
		in.Occasion, in.CuisineType, in.Ingredients, in.DietaryPreferences, in.SpiceLevel, in.Servings,
	)
	draft.RecipeList, err = c.Complete(ctx,
		"You are a helpful assistant. Give only the instructions for the dish as a list; do not add ingredients.",
		recipePrompt,
	)
	if err != nil {
		return Draft{}, err
	}

	timePrompt := fmt.Sprintf(
		"Provide the final cooking time in minutes for a single dish comprising of %q.",
		draft.RecipeList,
	)
	draft.CookingTime, err = c.Complete(ctx,
		"You are a helpful assistant. Respond with the time only, in minutes (e.g. 30 Minutes), for the final dish.",
		timePrompt,
	)
	if err != nil {
		return Draft{}, err
	}

	ingredientsPrompt := fmt.Sprintf(
		"List the ingredients for %q in a bullet-point format. Ingredients only, please.",
		draft.RecipeList,
	)
	draft.IngredientsList, err = c.Complete(ctx, "You are a helpful assistant", ingredientsPrompt)
	if err != nil {
		return Draft{}, err
	}

	return draft, nil
}
