//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package retail

// Household demographic categories, sampled uniformly except income.
var ageGroups = []string{"19-24", "25-34", "35-44", "45-54", "55-64", "65+"}

// maritalStatuses are the MARITAL_STATUS_CODE values.
var maritalStatuses = []string{"A", "B", "U"}

var homeownerStatuses = []string{"Homeowner", "Renter", "Unknown"}

// householdCompositions are the HH_COMP_DESC values.
var householdCompositions = []string{
	"1 Adult Kids",
	"2 Adults Kids",
	"2 Adults No Kids",
	"Single Female",
	"Single Male",
}
// householdSizes are the HOUSEHOLD_SIZE_DESC values.
var householdSizes = []string{"1", "2", "3", "4", "5+"}

// KidsNoneUnknown is the kid category of households without known children.
const KidsNoneUnknown = "None/Unknown"

// kidCategories are the KID_CATEGORY_DESC values. Any value other than
// KidsNoneUnknown means the household has kids.
var kidCategories = []string{KidsNoneUnknown, "1", "2", "3+"}

// Income brackets and their sampling weights in percent.
var incomeGroups = []string{
	"Under 15K",
	"15-24K",
	"25-34K",
	"35-49K",
	"50-74K",
	"75-99K",
	"100-124K",
	"150-174K",
	"250K+",
}
var incomeWeights = []int{10, 10, 10, 20, 20, 10, 10, 5, 5}

// Income bracket substrings that mark a high income household.
var highIncomeMarkers = []string{"100", "250"}

// departments are the product DEPARTMENT values.
var departments = []string{"GROCERY", "DRUG GM", "PRODUCE", "MEAT-PCKGD", "PASTRY", "SEAFOOD-PCKGD"}

// commodities lists the commodities valid for each department.
var commodities = map[string][]string{
	"GROCERY":       {"SOFT DRINKS", "CHEESE", "COOKIES/CONES", "BAKED BREAD/BUNS/ROLLS"},
	"DRUG GM":       {"VITAMINS", "CIGARETTES", "DIAPERS & DISPOSABLES"},
	"PRODUCE":       {"POTATOES", "SALAD MIX", "FRUIT - SHELF STABLE"},
	"MEAT-PCKGD":    {"DINNER SAUSAGE", "LUNCHMEAT"},
	"PASTRY":        {"BREAD", "CAKES"},
	"SEAFOOD-PCKGD": {"SEAFOOD - FROZEN"},
}

var brands = []string{"National", "Private"}

// storeIDs are the stores a transaction can occur in.
var storeIDs = []int{300, 400, 500}

// Id bases, basket grouping and derived text formats.
const (
	productIDBase  = 1000
	basketIDBase   = int64(30000000000)
	basketSize     = 3
	packageUnit    = " OZ"
	subCommodityPf = "SUB_"
)

// SubCommodity derives a product's sub-commodity from its commodity.
func SubCommodity(commodity string) string {
	return subCommodityPf + commodity
}

// Commodities returns the commodities valid for a department.
func Commodities(department string) []string {
	return commodities[department]
}

// Departments returns the product departments.
func Departments() []string {
	return departments
}
