package app

import "nutricheck/internal/domain"

/********** alias registries (single source of truth) **********/

// Alias registry keys.
const (
	KeyMealPeriods   = "meal_periods"
	KeyStations      = "stations"
	KeySubCategories = "subcategories"
	KeyItems         = "items"
	KeyContainers    = "containers"
	KeyLabel         = "label"

	KeyName         = "name"
	KeyID           = "id"
	KeyCategory     = "category"
	KeyCalories     = "calories"
	KeyProtein      = "protein"
	KeyFat          = "fat"
	KeyCarbs        = "carbs"
	KeySugars       = "sugars"
	KeyServingSize  = "serving_size"
	KeyIngredients  = "ingredients"
	KeyAllergens    = "allergens"
	KeyAllergenName = "allergen_name"
)

// Aliases maps a registry key to the upstream field names tried, in order.
// Entries may be dot paths into nested objects.
type Aliases map[string][]string

// DefaultAliases returns a fresh copy of the built-in registry.
func DefaultAliases() Aliases {
	return Aliases{
		// known four-level hierarchy
		KeyMealPeriods:   {"MealPeriods", "mealPeriods", "Menu", "menu", "MenuData", "menuData"},
		KeyStations:      {"Stations", "stations", "Station", "station"},
		KeySubCategories: {"SubCategories", "subCategories", "SubCategory", "subCategory", "Categories", "categories"},
		KeyItems:         {"Items", "items", "Item", "item", "MenuItems", "menuItems"},

		// flat containers searched when the hierarchy is absent
		KeyContainers: {
			"Items", "items", "MenuItems", "menuItems", "Menu", "menu",
			"Sections", "sections", "Products", "products", "Recipes", "recipes",
			"Data", "data", "Results", "results", "Foods", "foods",
		},
		// names of meal periods, stations, sections
		KeyLabel: {"Name", "name", "DisplayName", "displayName", "Title", "title"},

		KeyName: {
			"Name", "name", "ItemName", "itemName", "MenuItemName", "menuItemName",
			"DisplayName", "displayName", "Title", "title", "RecipeName", "recipeName",
			"ProductName", "productName", "FoodName", "foodName",
		},
		KeyID:       {"MenuItemId", "menuItemId", "ItemId", "itemId", "Id", "id", "ID", "RecipeId", "recipeId", "ProductId", "productId"},
		KeyCategory: {"Category", "category", "CategoryName", "categoryName", "SubCategory", "subCategory", "Station", "station", "StationName", "Section", "section"},

		KeyCalories: {"Calories", "calories", "CaloriesPerServing", "Energy", "Kcal", "kcal", "Nutrition.Calories", "nutrition.calories", "NutritionInfo.Calories"},
		KeyProtein:  {"Protein", "protein", "ProteinG", "ProteinGrams", "Nutrition.Protein", "nutrition.protein", "NutritionInfo.Protein"},
		KeyFat:      {"Fat", "fat", "TotalFat", "totalFat", "FatG", "FatGrams", "Nutrition.Fat", "nutrition.fat", "NutritionInfo.TotalFat"},
		KeyCarbs: {
			"Carbohydrates", "carbohydrates", "Carbs", "carbs", "TotalCarbohydrates", "totalCarbohydrates", "CarbsG",
			"Nutrition.Carbohydrates", "nutrition.carbs", "NutritionInfo.TotalCarbohydrates",
		},
		KeySugars:      {"Sugars", "sugars", "TotalSugars", "totalSugars", "Sugar", "sugar", "Nutrition.Sugars", "nutrition.sugars"},
		KeyServingSize: {"ServingSize", "servingSize", "PortionSize", "portionSize", "Serving", "serving"},
		KeyIngredients: {"Ingredients", "ingredients", "IngredientList", "ingredientList", "Description", "description"},

		KeyAllergens:    {"Allergens", "allergens", "AllergenInfo", "allergenInfo", "Allergen", "allergen", "AllergenStatement", "allergenStatement"},
		KeyAllergenName: {"Name", "name", "AllergenName", "allergenName", "DisplayName", "displayName", "Title", "title"},
	}
}

// DietaryRule sets Label when any of Keys holds a truthy value.
type DietaryRule struct {
	Label string
	Keys  []string
}

func DefaultDietaryRules() []DietaryRule {
	return []DietaryRule{
		{Label: domain.DietVegan, Keys: []string{"IsVegan", "isVegan", "Vegan", "vegan"}},
		{Label: domain.DietVegetarian, Keys: []string{"IsVegetarian", "isVegetarian", "Vegetarian", "vegetarian"}},
		{Label: domain.DietGlutenFree, Keys: []string{"IsGlutenFree", "isGlutenFree", "GlutenFree", "glutenFree", "GF"}},
		{Label: domain.DietHalal, Keys: []string{"IsHalal", "isHalal", "Halal", "halal"}},
		{Label: domain.DietLocallyGrown, Keys: []string{"IsLocal", "isLocal", "Local", "local", "LocallyGrown", "locallyGrown"}},
		{Label: domain.DietSustainable, Keys: []string{"IsSustainable", "isSustainable", "Sustainable", "sustainable"}},
	}
}
