package app

import (
	"fmt"
	"strings"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"

	"nutricheck/internal/adapters/observability"
	"nutricheck/internal/domain"
)

const (
	DefaultSourceTag = "alberta"
	DefaultMaxDepth  = 10

	fallbackCategory = "General"
	noItemsCategory  = "Information"
	noItemsHint      = "Please try a different date or check back later when the menu has been published."
)

// Reasons reported as the name of the placeholder item.
const (
	ReasonNoData     = "No data received from the dining service"
	ReasonUnreadable = "Menu items were found but could not be read"
	ReasonEmpty      = "No menu items are available for this date"
)

type NormalizerOptions struct {
	SourceTag string
	MaxDepth  int
	Aliases   Aliases
	Dietary   []DietaryRule
	NewID     func() string // random id when the upstream has none
}

// Normalizer turns an upstream document of unknown shape into menu items.
// It holds no per-call state and is safe for concurrent use.
type Normalizer struct {
	tag      string
	maxDepth int
	aliases  Aliases
	dietary  []DietaryRule
	newID    func() string

	hierarchy  map[string]struct{}
	itemFields []string // keys that only items carry
	tiers      []tier
}

type tier struct {
	name string
	run  func(doc any, c *collector)
}

// itemContext is what a traversal knows about an item's position.
type itemContext struct {
	category   string
	mealPeriod string
	station    string
}

type collector struct {
	n     *Normalizer
	items []domain.MenuItem
	seen  int // candidates handed to field mapping
}

func (c *collector) add(raw map[string]any, ctx itemContext) {
	c.seen++
	if item, ok := c.n.mapItem(raw, ctx); ok {
		c.items = append(c.items, item)
	}
}

func NewNormalizer(o NormalizerOptions) *Normalizer {
	if o.SourceTag == "" {
		o.SourceTag = DefaultSourceTag
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Aliases == nil {
		o.Aliases = DefaultAliases()
	}
	if o.Dietary == nil {
		o.Dietary = DefaultDietaryRules()
	}
	if o.NewID == nil {
		o.NewID = cuid.Slug
	}
	n := &Normalizer{
		tag:       o.SourceTag,
		maxDepth:  o.MaxDepth,
		aliases:   o.Aliases,
		dietary:   o.Dietary,
		newID:     o.NewID,
		hierarchy: map[string]struct{}{},
	}
	for _, k := range []string{KeyMealPeriods, KeyStations, KeySubCategories, KeyItems, KeyContainers} {
		for _, name := range n.aliases[k] {
			n.hierarchy[name] = struct{}{}
		}
	}
	for _, k := range []string{KeyCalories, KeyProtein, KeyFat, KeyCarbs, KeySugars, KeyServingSize, KeyAllergens, KeyIngredients} {
		for _, name := range n.aliases[k] {
			// sections often carry a description too
			if !strings.EqualFold(name, "description") {
				n.itemFields = append(n.itemFields, name)
			}
		}
	}
	for _, rule := range n.dietary {
		n.itemFields = append(n.itemFields, rule.Keys...)
	}
	n.tiers = []tier{
		{name: "known_shape", run: n.knownShape},
		{name: "known_keys", run: n.knownKeys},
		{name: "heuristic", run: n.heuristic},
	}
	return n
}

// Normalize never fails: the first tier that yields items wins, the result is
// deduplicated by name, and an empty result becomes one placeholder item.
func (n *Normalizer) Normalize(doc any) []domain.MenuItem {
	seen := 0
	for _, t := range n.tiers {
		c := n.runTier(t, doc)
		seen += c.seen
		if len(c.items) == 0 {
			continue
		}
		items := dedupeByName(c.items)
		observability.ObserveNormalize(t.name, len(items))
		log.Debug().Str("tier", t.name).Int("candidates", c.seen).Int("items", len(items)).Msg("menu normalized")
		return items
	}

	reason := ReasonEmpty
	switch {
	case doc == nil:
		reason = ReasonNoData
	case seen > 0:
		reason = ReasonUnreadable
	}
	observability.ObserveNormalize("none", 0)
	log.Debug().Int("candidates", seen).Str("reason", reason).Msg("no menu items found")
	return []domain.MenuItem{n.NoItems(reason)}
}

// KnownShape walks meal periods, stations, subcategories and items.
func (n *Normalizer) KnownShape(doc any) []domain.MenuItem { return n.runTier(n.tiers[0], doc).items }

// KnownKeys extracts items from well-known container arrays near the root.
func (n *Normalizer) KnownKeys(doc any) []domain.MenuItem { return n.runTier(n.tiers[1], doc).items }

// Heuristic searches the whole document for item-like objects.
func (n *Normalizer) Heuristic(doc any) []domain.MenuItem { return n.runTier(n.tiers[2], doc).items }

// NoItems builds the placeholder returned when nothing could be extracted.
func (n *Normalizer) NoItems(reason string) domain.MenuItem {
	return domain.MenuItem{
		ID:          n.noItemsID(),
		Name:        reason,
		Category:    noItemsCategory,
		Allergens:   []string{},
		Ingredients: noItemsHint,
		Dietary:     []string{},
	}
}

// IsNoItems reports whether item is the placeholder.
func (n *Normalizer) IsNoItems(item domain.MenuItem) bool { return item.ID == n.noItemsID() }

func (n *Normalizer) noItemsID() string { return n.tag + "-no-items" }

func (n *Normalizer) runTier(t tier, doc any) (c *collector) {
	c = &collector{n: n}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("tier", t.name).Interface("panic", r).Msg("normalize tier aborted")
			c = &collector{n: n, seen: c.seen}
		}
	}()
	t.run(doc, c)
	return c
}

/********** tier 1: known four-level shape **********/

func (n *Normalizer) knownShape(doc any, c *collector) {
	root, ok := doc.(map[string]any)
	if !ok {
		return
	}
	periods, ok := firstArray(root, n.aliases[KeyMealPeriods])
	if !ok {
		return
	}
	for mi, mpv := range periods {
		mp, ok := mpv.(map[string]any)
		if !ok {
			continue
		}
		mpName := n.label(mp, fmt.Sprintf("Meal Period %d", mi+1))
		stations, ok := firstArray(mp, n.aliases[KeyStations])
		if !ok {
			log.Debug().Str("meal_period", mpName).Msg("no stations")
			continue
		}
		for si, stv := range stations {
			st, ok := stv.(map[string]any)
			if !ok {
				continue
			}
			stName := n.label(st, fmt.Sprintf("Station %d", si+1))
			subs, ok := firstArray(st, n.aliases[KeySubCategories])
			if !ok {
				continue
			}
			for ci, scv := range subs {
				sc, ok := scv.(map[string]any)
				if !ok {
					continue
				}
				scName := n.label(sc, fmt.Sprintf("SubCategory %d", ci+1))
				items, ok := firstArray(sc, n.aliases[KeyItems])
				if !ok {
					continue
				}
				ctx := itemContext{category: scName, mealPeriod: mpName, station: stName}
				for _, iv := range items {
					if item, ok := iv.(map[string]any); ok {
						c.add(item, ctx)
					}
				}
			}
		}
	}
}

/********** tier 2: known container keys **********/

func (n *Normalizer) knownKeys(doc any, c *collector) {
	switch v := doc.(type) {
	case []any:
		// flat array of items
		n.extractArray(v, "", 1, c)
	case map[string]any:
		for _, k := range n.aliases[KeyContainers] {
			if arr, ok := v[k].([]any); ok {
				n.extractArray(arr, "", 1, c)
			}
		}
		// one level of nesting
		for _, k := range sortedKeys(v) {
			child, ok := v[k].(map[string]any)
			if !ok {
				continue
			}
			for _, ck := range n.aliases[KeyContainers] {
				if arr, ok := child[ck].([]any); ok {
					n.extractArray(arr, "", 2, c)
				}
			}
		}
	}
}

// extractArray maps item elements directly and opens section-like elements,
// whose name becomes the category of what they hold.
func (n *Normalizer) extractArray(arr []any, category string, depth int, c *collector) {
	if depth > n.maxDepth {
		return
	}
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if !n.isSection(m) {
			c.add(m, itemContext{category: category})
			continue
		}
		cat := category
		if l := firstNonEmptyStr(m, n.aliases[KeyLabel]); l != "" {
			cat = l
		}
		for _, k := range sortedKeys(m) {
			if _, ok := n.hierarchy[k]; !ok {
				continue
			}
			if sub, ok := m[k].([]any); ok {
				n.extractArray(sub, cat, depth+1, c)
			}
		}
	}
}

/********** tier 3: depth-bounded search **********/

func (n *Normalizer) heuristic(doc any, c *collector) {
	n.walk(doc, 0, c)
}

func (n *Normalizer) walk(v any, depth int, c *collector) {
	if depth > n.maxDepth {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		if n.itemLike(t) {
			// an item's nested objects are its attributes, not more items
			c.add(t, itemContext{})
			return
		}
		for _, k := range sortedKeys(t) {
			n.walk(t[k], depth+1, c)
		}
	case []any:
		for _, el := range t {
			n.walk(el, depth+1, c)
		}
	}
}

func (n *Normalizer) itemLike(m map[string]any) bool {
	return firstNonEmptyStr(m, n.aliases[KeyName]) != "" && !n.isSection(m)
}

// isSection: the object carries no item fields of its own and some hierarchy
// key holds a non-empty array of objects, at least one of them named or
// itself a section.
func (n *Normalizer) isSection(m map[string]any) bool {
	if n.hasItemFields(m) {
		return false
	}
	for k := range n.hierarchy {
		arr, ok := m[k].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		objects, named := true, false
		for _, el := range arr {
			child, ok := el.(map[string]any)
			if !ok {
				objects = false
				break
			}
			if !named && (firstNonEmptyStr(child, n.aliases[KeyName]) != "" || n.isSection(child)) {
				named = true
			}
		}
		if objects && named {
			return true
		}
	}
	return false
}

// hasItemFields reports whether m holds nutrition, allergen, ingredient,
// serving or dietary fields.
func (n *Normalizer) hasItemFields(m map[string]any) bool {
	for _, k := range n.itemFields {
		if lookupAny(m, k) != nil {
			return true
		}
	}
	return false
}

func (n *Normalizer) label(m map[string]any, fallback string) string {
	if s := firstNonEmptyStr(m, n.aliases[KeyLabel]); s != "" {
		return s
	}
	return fallback
}

// dedupeByName keeps the first item seen for each name.
func dedupeByName(in []domain.MenuItem) []domain.MenuItem {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.MenuItem, 0, len(in))
	for _, it := range in {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
	}
	return out
}
