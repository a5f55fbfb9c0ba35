package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/pkg/enums"
)

// DefaultMenu is the add-on menu served by the site.
func DefaultMenu() Menu {
	return Menu{
		CategoryVegetarianSnacks: {
			"Aloo Tikki",
			"Samosa",
			"Palak Pakora",
			"Veg Pakora",
			"Paneer Pakora",
			"Chat Papri",
			"Spring Roll",
			"Dahi Bhalla",
			"Bhel Puri",
			"Pani Puri",
			"Chilli Paneer",
			"Veg Manchurian",
			"Tandoori Soya Chaap",
		},
		CategoryChineseSnacks: {
			"Manchurian",
			"Veg Chilli",
			"Chilli Paneer",
			"Chilli Potato",
			"Fried Rice (Veg)",
			"Noodles (Veg)",
		},
		CategoryPaneerChoices: {
			"Shahi Paneer",
			"Palak Saag Paneer",
			"Mutter Paneer",
			"Malai Kofta",
		},
		CategoryVegetarianChoices: {
			"Mix Veg",
			"Kebab Curry",
			"Kadhi Pakoda",
			"Aloo Gobhi",
			"Palak Saag",
			"Karahi Soya Chaap",
			"Veg Manchurian",
			"Soya Chaap Tikka Masala",
			"Channa Masala",
		},
		CategoryDessertChoices: {
			"Gajjar Halwa",
			"Gulab Jamun",
			"Suji Halwa",
		},
	}
}

// DefaultPackages lists the packages shown on the menu section.
func DefaultPackages() []Package {
	return []Package{
		{
			Name:          "Vegetarian",
			Description:   "Pick 3 Main Dishes & 1 Dessert",
			Image:         "/images/res/1.jpg",
			PricingModel:  enums.PricingModelPerPerson,
			UnitPrice:     decimal.RequireFromString("16.99"),
			IncludedItems: []string{"Boondi Raita", "Jeera Rice", "Salad", "Roti or Naan"},
			Steps: []StepDefinition{
				{Title: "Select 3 Main Dishes (Paneer or Veg)", Kind: enums.StepKindChoice, Category: CategoryVegetarianChoices, MaxSelections: 3},
				{Title: "Select 1 Dessert", Kind: enums.StepKindChoice, Category: CategoryDessertChoices, MaxSelections: 1},
			},
		},
		{
			Name:          "Snacks & Main Course",
			Description:   "Pick 2 Veg Snacks, 1 Main Dish (Paneer or Veg), 2 Sweets & Bread",
			Image:         "/images/res/2.jpg",
			PricingModel:  enums.PricingModelPerPerson,
			UnitPrice:     decimal.RequireFromString("25.00"),
			IncludedItems: []string{"Boondi Raita", "Jeera Rice", "Salad"},
			Steps: []StepDefinition{
				{Title: "Pick 2 Veg Snacks", Kind: enums.StepKindChoice, Category: CategoryVegetarianSnacks, MaxSelections: 2},
				{Title: "Pick 1 Main Dish (Paneer or Veg)", Kind: enums.StepKindChoice, Category: CategoryVegetarianChoices, MaxSelections: 1},
				{Title: "Pick 2 Sweets", Kind: enums.StepKindChoice, Category: CategoryDessertChoices, MaxSelections: 2},
				{Title: "Choose Bread Option", Kind: enums.StepKindBreadChoice},
			},
		},
		{
			Name:          "Premium Vegetarian",
			Description:   "Pick 4 Veg Snacks, 4 Main Course (Paneer or Veg) & 1 Dessert",
			Image:         "/images/res/3.jpg",
			PricingModel:  enums.PricingModelPerPerson,
			UnitPrice:     decimal.RequireFromString("30.00"),
			IncludedItems: []string{"Rice", "Raita", "Salad", "Plain Naan or Tandoori Naan"},
			Steps: []StepDefinition{
				{Title: "Pick 4 Veg Snacks", Kind: enums.StepKindChoice, Category: CategoryVegetarianSnacks, MaxSelections: 4},
				{Title: "Pick 4 Main Dishes (Paneer or Veg)", Kind: enums.StepKindChoice, Category: CategoryVegetarianChoices, MaxSelections: 4},
				{Title: "Pick 1 Dessert", Kind: enums.StepKindChoice, Category: CategoryDessertChoices, MaxSelections: 1},
			},
		},
		{
			Name:          "Party Trays by Weight",
			Description:   "Mixed vegetarian curry trays priced by the kilogram",
			Image:         "/images/res/4.jpg",
			PricingModel:  enums.PricingModelPerWeight,
			UnitPrice:     decimal.RequireFromString("25.00"),
			IncludedItems: []string{"Serving Spoons", "Foil Lids"},
			Steps: []StepDefinition{
				{Title: "Enter Weight (kg)", Kind: enums.StepKindWeightInput},
			},
		},
	}
}

// Default builds the catalog served by the site.
func Default() *Catalog {
	return MustNew(DefaultPackages(), DefaultMenu())
}
