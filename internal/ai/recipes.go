package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// ErrUnparsableResponse reports that the model output could not be turned
// into a recipe draft. The request is not retried; callers surface the
// failure to the user.
var ErrUnparsableResponse = errors.New("ai response is not a valid recipe document")

var validate = validator.New()

// GenerateRecipeParams are the user's constraints for one generation.
type GenerateRecipeParams struct {
	DishType     domain.DishType
	Tags         []domain.Tag
	Ingredients  []string
	Intolerances []domain.Intolerance
	Servings     int
}

// RecipeService turns generation constraints into a structured recipe
// draft: it builds the prompt, runs the completion, strips the narration
// models wrap around JSON, and parses the result.
type RecipeService struct {
	provider Provider
}

// NewRecipeService builds the service on top of any completion provider.
func NewRecipeService(provider Provider) *RecipeService {
	return &RecipeService{provider: provider}
}

// GenerateRecipe runs one generation. A response that cannot be cleaned
// and parsed into a valid draft is a hard failure wrapped around
// ErrUnparsableResponse; the raw output is logged for diagnosis.
func (s *RecipeService) GenerateRecipe(ctx context.Context, params GenerateRecipeParams) (*domain.RecipeDraft, error) {
	raw, err := s.provider.Completion(ctx, buildPrompt(params))
	if err != nil {
		return nil, err
	}

	var draft domain.RecipeDraft
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &draft); err != nil {
		log.Error().Err(err).Str("response", raw).Msg("recipe draft did not parse")
		return nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	if err := validateDraft(&draft); err != nil {
		log.Error().Err(err).Str("response", raw).Msg("recipe draft failed validation")
		return nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	return &draft, nil
}

// validateDraft checks structural completeness and membership in the
// closed enumerations, which the struct tags alone cannot express.
func validateDraft(d *domain.RecipeDraft) error {
	if err := validate.Struct(d); err != nil {
		return err
	}
	if !d.DishType.Valid() {
		return fmt.Errorf("unknown dish type %q", d.DishType)
	}
	if !d.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", d.Difficulty)
	}
	for _, tag := range d.Tags {
		if !tag.Valid() {
			return fmt.Errorf("unknown tag %q", tag)
		}
	}
	for _, ing := range d.Ingredients {
		if !ing.Unit.Valid() {
			return fmt.Errorf("ingredient %q: unknown unit %q", ing.Slug, ing.Unit)
		}
		if !ing.Category.Valid() {
			return fmt.Errorf("ingredient %q: unknown category %q", ing.Slug, ing.Category)
		}
		for _, into := range ing.Intolerances {
			if !into.Valid() {
				return fmt.Errorf("ingredient %q: unknown intolerance %q", ing.Slug, into)
			}
		}
	}
	return nil
}

// cleanJSONResponse strips markdown fences and any narration around the
// JSON document: everything before the first opening brace and after the
// last closing brace is dropped. Anything beyond that is the parser's
// problem.
func cleanJSONResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	if i := strings.Index(cleaned, "{"); i != -1 {
		cleaned = cleaned[i:]
	}
	if i := strings.LastIndex(cleaned, "}"); i != -1 {
		cleaned = cleaned[:i+1]
	}
	return strings.TrimSpace(cleaned)
}

// buildPrompt renders the generation instructions. The three worked
// examples pin the nutritional basis per unit, which models otherwise get
// wrong for spoon-measured ingredients.
func buildPrompt(p GenerateRecipeParams) string {
	intolerances := "none"
	if len(p.Intolerances) > 0 {
		intolerances = joinIntolerances(p.Intolerances)
	}
	tags := []byte("[]")
	if len(p.Tags) > 0 {
		tags, _ = json.Marshal(p.Tags)
	}
	ingredients := strings.Join(p.Ingredients, ", ")

	return fmt.Sprintf(`You are a professional chef assistant. Generate a recipe in JSON format with these requirements:

Requirements:
- Dish type: %[1]s
- Style/Tags: %[2]s
- Must include these ingredients: %[3]s
- Avoid these intolerances: %[4]s
- Number of servings: %[5]d

Return ONLY a valid JSON object in this exact format with multiple ingredient examples:
{
  "Name": "Recipe name",
  "Slug": "recipe-name",
  "Instructions": ["Step 1 description", "Step 2 description"],
  "Servings": %[5]d,
  "DishType": "%[1]s",
  "PrepTime": 15,
  "Difficulty": "Easy",
  "Tags": %[6]s,
  "Image": [],
  "ingredients": [
    {
      "Name": "Tomato",
      "Slug": "tomato",
      "Category": "Vegetables",
      "NutritionalValues": {
        "calories": 18,
        "protein": 0.9,
        "carbohydrates": 3.9,
        "fat": 0.2,
        "vitamins": {"Vitamin C": 12.5},
        "minerals": {"Potassium": 215.7}
      },
      "Intolerances": [],
      "Image": [],
      "quantity": 200,
      "unit": "g"
    },
    {
      "Name": "Paprika",
      "Slug": "paprika",
      "Category": "Herbs & Spices",
      "NutritionalValues": {
        "calories": 6,
        "protein": 0.3,
        "carbohydrates": 1.2,
        "fat": 0.3,
        "vitamins": {"Vitamin A": 21.8, "Vitamin C": 0.1},
        "minerals": {"Potassium": 50.4}
      },
      "Intolerances": [],
      "Image": [],
      "quantity": 2,
      "unit": "teaspoon"
    },
    {
      "Name": "Olive Oil",
      "Slug": "olive-oil",
      "Category": "Fats & Oils",
      "NutritionalValues": {
        "calories": 119,
        "protein": 0,
        "carbohydrates": 0,
        "fat": 13.5,
        "vitamins": {"Vitamin E": 1.9},
        "minerals": {}
      },
      "Intolerances": [],
      "Image": [],
      "quantity": 3,
      "unit": "tablespoon"
    }
  ]
}

CRITICAL NUTRITIONAL VALUES RULES - READ CAREFULLY:

The NutritionalValues field MUST be calculated differently based on the unit:

1. For unit "g" or "ml":
   - Provide values per 100g or 100ml (standard reference)
   - Example above: 200g tomato → values per 100g tomato

2. For unit "teaspoon":
   - Provide values per 1 teaspoon (approximately 2-5g depending on ingredient)
   - Example above: 2 teaspoons paprika → values per 1 teaspoon paprika (~6 calories)
   - DO NOT use 100g values for spices in teaspoons!

3. For unit "tablespoon":
   - Provide values per 1 tablespoon (approximately 15ml)
   - Example above: 3 tablespoons olive oil → values per 1 tablespoon (~119 calories)
   - DO NOT use 100ml values for ingredients in tablespoons!

4. For unit "item":
   - Provide values per 1 item (1 egg, 1 apple, etc.)

5. For unit "cup":
   - Provide values per 1 cup

NOTICE THE DIFFERENT CALORIE VALUES:
- Tomato (100g): 18 calories
- Paprika (1 teaspoon): 6 calories
- Olive oil (1 tablespoon): 119 calories

These are VERY different because they represent different base units!

Other Rules:
- Name: Capitalize first letter, simple ingredient names, singular form (e.g., "Tomato", not "Tomatoes")
- Slug: lowercase, no spaces, use hyphens
- Category: Must be one of: Fruits, Vegetables, Grains & Cereals, Legumes & Pulses, Dairy & Alternatives, Meat & Poultry, Fish & Seafood, Eggs, Nuts & Seeds, Fats & Oils, Herbs & Spices
- Difficulty: Must be one of: Easy, Medium, Hard
- unit: Must be one of: g, ml, item (for single items like egg, apple, etc.), cup, tablespoon, teaspoon
- Intolerances: Empty array [] or relevant intolerances, e.g. ["Gluten", "Lactose"]. If given, must be in : Gluten, Lactose, Nuts, Soy, Eggs, Seafood, Sesame, Sulfites, Dairy, Nightshades
- Image: Always empty array []
- Include ALL required ingredients: %[3]s
- unit must always be set (if not applicable, if using a single item like egg, use "item")

DO NOT CONFUSE THE UNITS!
- 1 teaspoon paprika ≠ 100g paprika
- 1 tablespoon oil ≠ 100ml oil
- Use realistic small values for teaspoons/tablespoons!

- Respond with ONLY the JSON, no extra text`,
		p.DishType, joinTags(p.Tags), ingredients, intolerances, p.Servings, tags)
}

func joinTags(tags []domain.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinIntolerances(in []domain.Intolerance) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
