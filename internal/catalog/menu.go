package catalog

// Category names a group of dishes on the add-on menu.
type Category string

const (
	CategoryVegetarianSnacks  Category = "vegetarian_snacks"
	CategoryVegetarianChoices Category = "vegetarian_choices"
	CategoryChineseSnacks     Category = "chinese_snacks"
	CategoryPaneerChoices     Category = "paneer_choices"
	CategoryDessertChoices    Category = "dessert_choices"
)

// BreadOptions is the fixed two-option set offered by bread steps.
var BreadOptions = []string{"Roti", "Tandoori Naan"}

// Menu maps categories to their dishes.
type Menu map[Category][]string

// Options returns the dishes offered for a category. Main-course steps draw
// from the vegetarian list followed by the paneer list.
func (m Menu) Options(category Category) ([]string, bool) {
	items, ok := m[category]
	if !ok {
		return nil, false
	}
	out := append([]string(nil), items...)
	if category == CategoryVegetarianChoices {
		out = append(out, m[CategoryPaneerChoices]...)
	}
	return out, true
}
