package domain

// Category classifies an ingredient. The set is closed; the AI prompt
// enumerates it and record validation rejects anything else.
type Category string

const (
	CategoryFruits            Category = "Fruits"
	CategoryVegetables        Category = "Vegetables"
	CategoryGrainsCereals     Category = "Grains & Cereals"
	CategoryLegumesPulses     Category = "Legumes & Pulses"
	CategoryDairyAlternatives Category = "Dairy & Alternatives"
	CategoryMeatPoultry       Category = "Meat & Poultry"
	CategoryFishSeafood       Category = "Fish & Seafood"
	CategoryEggs              Category = "Eggs"
	CategoryNutsSeeds         Category = "Nuts & Seeds"
	CategoryFatsOils          Category = "Fats & Oils"
	CategoryHerbsSpices       Category = "Herbs & Spices"
)

// Categories lists every valid ingredient category.
var Categories = []Category{
	CategoryFruits, CategoryVegetables, CategoryGrainsCereals,
	CategoryLegumesPulses, CategoryDairyAlternatives, CategoryMeatPoultry,
	CategoryFishSeafood, CategoryEggs, CategoryNutsSeeds,
	CategoryFatsOils, CategoryHerbsSpices,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool { return contains(Categories, c) }

// Intolerance is a dietary intolerance an ingredient may trigger.
type Intolerance string

const (
	IntoleranceGluten      Intolerance = "Gluten"
	IntoleranceLactose     Intolerance = "Lactose"
	IntoleranceNuts        Intolerance = "Nuts"
	IntoleranceSoy         Intolerance = "Soy"
	IntoleranceEggs        Intolerance = "Eggs"
	IntoleranceSeafood     Intolerance = "Seafood"
	IntoleranceSesame      Intolerance = "Sesame"
	IntoleranceSulfites    Intolerance = "Sulfites"
	IntoleranceDairy       Intolerance = "Dairy"
	IntoleranceNightshades Intolerance = "Nightshades"
)

// Intolerances lists every valid intolerance.
var Intolerances = []Intolerance{
	IntoleranceGluten, IntoleranceLactose, IntoleranceNuts, IntoleranceSoy,
	IntoleranceEggs, IntoleranceSeafood, IntoleranceSesame,
	IntoleranceSulfites, IntoleranceDairy, IntoleranceNightshades,
}

// Valid reports whether i is a member of the closed intolerance set.
func (i Intolerance) Valid() bool { return contains(Intolerances, i) }

// DishType positions a recipe within a meal.
type DishType string

const (
	DishTypeAppetizer  DishType = "Appetizer"
	DishTypeMainCourse DishType = "Main Course"
	DishTypeDessert    DishType = "Dessert"
	DishTypeSnack      DishType = "Snack"
)

// DishTypes lists every valid dish type.
var DishTypes = []DishType{DishTypeAppetizer, DishTypeMainCourse, DishTypeDessert, DishTypeSnack}

// Valid reports whether d is a member of the closed dish type set.
func (d DishType) Valid() bool { return contains(DishTypes, d) }

// Difficulty grades how hard a recipe is to prepare.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every valid difficulty.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is a member of the closed difficulty set.
func (d Difficulty) Valid() bool { return contains(Difficulties, d) }

// Tag is a style or dietary label attached to a recipe.
type Tag string

const (
	TagVegan       Tag = "Vegan"
	TagGlutenFree  Tag = "Gluten Free"
	TagDairyFree   Tag = "Dairy Free"
	TagNutFree     Tag = "Nut Free"
	TagLowCarb     Tag = "Low Carb"
	TagHighProtein Tag = "High Protein"
	TagQuick       Tag = "Quick"
	TagHealthy     Tag = "Healthy"
	TagSeasonal    Tag = "Seasonal"
	TagNoOven      Tag = "No Oven"
)

// Tags lists every valid recipe tag.
var Tags = []Tag{
	TagVegan, TagGlutenFree, TagDairyFree, TagNutFree, TagLowCarb,
	TagHighProtein, TagQuick, TagHealthy, TagSeasonal, TagNoOven,
}

// Valid reports whether t is a member of the closed tag set.
func (t Tag) Valid() bool { return contains(Tags, t) }

// Unit is the measurement unit of a composition quantity. The unit also
// fixes the basis of the ingredient's nutritional values: g and ml are
// reported per 100, every other unit per single unit.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitItem       Unit = "item"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tablespoon"
	UnitTeaspoon   Unit = "teaspoon"
)

// Units lists every valid composition unit.
var Units = []Unit{UnitGram, UnitMilliliter, UnitItem, UnitCup, UnitTablespoon, UnitTeaspoon}

// Valid reports whether u is a member of the closed unit set.
func (u Unit) Valid() bool { return contains(Units, u) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
