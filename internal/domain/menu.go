package domain

// Dietary labels, in the order they are reported.
const (
	DietVegan        = "vegan"
	DietVegetarian   = "vegetarian"
	DietGlutenFree   = "gluten-free"
	DietHalal        = "halal"
	DietLocallyGrown = "locally-grown"
	DietSustainable  = "sustainable"
)

// AllergenNotAvailable replaces allergen text that says the statement is missing.
const AllergenNotAvailable = "Allergen Statement Not Available"

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Fat         float64  `json:"fat"`
	Carbs       float64  `json:"carbs"`
	Sugars      float64  `json:"sugars"`
	Allergens   []string `json:"allergens"`
	Ingredients string   `json:"ingredients"`
	Dietary     []string `json:"dietary"`

	ServingSize string `json:"servingSize,omitempty"`
	MealPeriod  string `json:"mealPeriod,omitempty"`
	Station     string `json:"station,omitempty"`
}

// MenuRequest is the inbound body of the menu endpoint.
type MenuRequest struct {
	LocationID string `json:"locationId"`
	Date       string `json:"date"`
}
