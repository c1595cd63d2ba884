package app

import (
	"strings"

	"github.com/rs/zerolog/log"

	"nutricheck/internal/domain"
)

/********** item mapper **********/

// mapItem maps one candidate record. A record without a usable name, or one
// whose mapping panics, yields ok=false and is dropped.
func (n *Normalizer) mapItem(raw map[string]any, ctx itemContext) (item domain.MenuItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Str("context", "mapItem").Msg("candidate dropped")
			item, ok = domain.MenuItem{}, false
		}
	}()

	name := firstNonEmptyStr(raw, n.aliases[KeyName])
	if name == "" {
		return domain.MenuItem{}, false
	}

	return domain.MenuItem{
		ID:          n.itemID(raw),
		Name:        name,
		Category:    n.category(raw, ctx),
		Calories:    firstFloat(raw, n.aliases[KeyCalories]),
		Protein:     firstFloat(raw, n.aliases[KeyProtein]),
		Fat:         firstFloat(raw, n.aliases[KeyFat]),
		Carbs:       firstFloat(raw, n.aliases[KeyCarbs]),
		Sugars:      firstFloat(raw, n.aliases[KeySugars]),
		Allergens:   n.allergens(raw),
		Ingredients: n.ingredients(raw),
		Dietary:     n.dietaryLabels(raw),
		ServingSize: firstScalarString(raw, n.aliases[KeyServingSize]),
		MealPeriod:  ctx.mealPeriod,
		Station:     ctx.station,
	}, true
}

// itemID prefixes the upstream id, or a random slug, with the source tag.
func (n *Normalizer) itemID(raw map[string]any) string {
	if id := firstScalarString(raw, n.aliases[KeyID]); id != "" {
		return n.tag + "-" + id
	}
	return n.tag + "-" + n.newID()
}

// category: traversal context, then the record's own field, then a generic label.
func (n *Normalizer) category(raw map[string]any, ctx itemContext) string {
	if ctx.category != "" {
		return ctx.category
	}
	if s := firstNonEmptyStr(raw, n.aliases[KeyCategory]); s != "" {
		return s
	}
	return fallbackCategory
}

func (n *Normalizer) ingredients(raw map[string]any) string {
	switch v := firstValue(raw, n.aliases[KeyIngredients]).(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		return strings.Join(sliceStrings(v, n.aliases[KeyAllergenName]), ", ")
	}
	return ""
}

// allergens is empty when no allergen field exists and the fixed
// not-available statement when the upstream says so.
func (n *Normalizer) allergens(raw map[string]any) []string {
	for _, k := range n.aliases[KeyAllergens] {
		switch v := lookupAny(raw, k).(type) {
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if notAvailable(s) {
				return []string{domain.AllergenNotAvailable}
			}
			return uniq(splitTrim(s, ","))
		case []any:
			names := sliceStrings(v, n.aliases[KeyAllergenName])
			if len(names) == 1 && notAvailable(names[0]) {
				return []string{domain.AllergenNotAvailable}
			}
			return uniq(names)
		}
	}
	return []string{}
}

func notAvailable(s string) bool {
	return strings.Contains(strings.ToLower(s), "not available")
}

// dietaryLabels reports the labels in rule order; the first truthy key wins per label.
func (n *Normalizer) dietaryLabels(raw map[string]any) []string {
	out := []string{}
	for _, rule := range n.dietary {
		for _, k := range rule.Keys {
			if truthy(lookupAny(raw, k)) {
				out = append(out, rule.Label)
				break
			}
		}
	}
	return out
}

// firstValue returns the first string or array among paths.
func firstValue(m map[string]any, paths []string) any {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case []any:
			return v
		}
	}
	return nil
}
