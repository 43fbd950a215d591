//-------------------------------------------------------------------------
//
// pgEdge Retail Demo Data
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package retail

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-retailgen/internal/datagen"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// Options controls table sizes and the sampling heuristics.
type Options struct {
	Households   int
	Products     int
	Transactions int

	// StartDate and Days bound the transaction dates to
	// [StartDate, StartDate+Days).
	StartDate time.Time
	Days      int

	// WeekendBoostProbability is the chance a weekend item gets one more unit.
	WeekendBoostProbability float64

	// DiscountProbability gates the retail discount; DiscountRate is the
	// discount as a fraction of the sales value.
	DiscountProbability float64
	DiscountRate        float64

	// HighIncomeMultiplier scales the unit price of high income households.
	HighIncomeMultiplier float64

	// ProgressInterval controls transaction progress logging (in rows).
	ProgressInterval int64
}

// DefaultOptions returns the standard demo dataset shape.
func DefaultOptions() Options {
	return Options{
		Households:              100,
		Products:                50,
		Transactions:            2000,
		StartDate:               time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:                    365,
		WeekendBoostProbability: 0.2,
		DiscountProbability:     0.2,
		DiscountRate:            0.1,
		HighIncomeMultiplier:    1.5,
		ProgressInterval:        datagen.DefaultProgressInterval,
	}
}

// Price and time-of-day bounds.
const (
	minUnitPrice = 1.0
	maxUnitPrice = 10.0
	minTransTime = 800
	maxTransTime = 2200
)

// Generator produces the retail dataset from a single seeded random stream.
// Tables must be generated in a fixed order for a seed to reproduce output.
type Generator struct {
	faker *datagen.Faker
	opts  Options
}

// NewGenerator creates a generator seeded for reproducible output.
func NewGenerator(seed uint64, opts Options) *Generator {
	return &Generator{
		faker: datagen.NewFakerWithSeed(seed),
		opts:  opts,
	}
}

// Generate produces households, then products, then transactions.
func (g *Generator) Generate() Dataset {
	households := g.Households()
	products := g.Products()
	transactions := g.Transactions(households, products)

	return Dataset{
		Households:   households,
		Products:     products,
		Transactions: transactions,
	}
}

// Households generates the household demographics table ordered by key.
func (g *Generator) Households() []Household {
	logging.Info().Int("count", g.opts.Households).Msg("Generating households")

	households := make([]Household, 0, g.opts.Households)
	for key := 1; key <= g.opts.Households; key++ {
		households = append(households, Household{
			Key:           key,
			Age:           datagen.Choose(g.faker, ageGroups),
			MaritalStatus: datagen.Choose(g.faker, maritalStatuses),
			Income:        datagen.ChooseWeighted(g.faker, incomeGroups, incomeWeights),
			Homeowner:     datagen.Choose(g.faker, homeownerStatuses),
			Composition:   datagen.Choose(g.faker, householdCompositions),
			Size:          datagen.Choose(g.faker, householdSizes),
			KidCategory:   datagen.Choose(g.faker, kidCategories),
		})
	}
	return households
}

// Products generates the product table. Commodities are always drawn from
// the product's department.
func (g *Generator) Products() []Product {
	logging.Info().Int("count", g.opts.Products).Msg("Generating products")

	products := make([]Product, 0, g.opts.Products)
	for i := 1; i <= g.opts.Products; i++ {
		dept := datagen.Choose(g.faker, departments)
		comm := datagen.Choose(g.faker, commodities[dept])
		products = append(products, Product{
			ID:           productIDBase + i,
			Manufacturer: g.faker.IntN(1, 100),
			Department:   dept,
			Brand:        datagen.Choose(g.faker, brands),
			Commodity:    comm,
			SubCommodity: SubCommodity(comm),
			PackageSize:  strconv.Itoa(g.faker.IntN(5, 50)) + packageUnit,
		})
	}
	return products
}

// Transactions generates line items referencing the given households and
// products. Every basketSize consecutive items share a basket id.
func (g *Generator) Transactions(households []Household, products []Product) []Transaction {
	logging.Info().Int("count", g.opts.Transactions).Msg("Generating transactions")

	if len(households) == 0 || len(products) == 0 {
		return nil
	}

	progress := datagen.NewProgressReporter("transactions",
		int64(g.opts.Transactions), g.opts.ProgressInterval)
	transactions := make([]Transaction, 0, g.opts.Transactions)

	for i := 0; i < g.opts.Transactions; i++ {
		transactions = append(transactions, g.transaction(i, households, products))
		progress.Update(1)
	}

	progress.Done()
	return transactions
}

func (g *Generator) transaction(i int, households []Household, products []Product) Transaction {
	hh := datagen.Choose(g.faker, households)
	prod := datagen.Choose(g.faker, products)

	offset := g.faker.IntN(0, g.opts.Days)
	day := g.opts.StartDate.AddDate(0, 0, offset)

	// High income households buy pricier items
	price := g.faker.Float64(minUnitPrice, maxUnitPrice)
	if isHighIncome(hh.Income) {
		price *= g.opts.HighIncomeMultiplier
	}

	// Households with kids buy more units
	qty := g.faker.IntN(1, 3)
	if hh.HasKids() {
		qty += g.faker.IntN(1, 3)
	}

	if isWeekend(day) && g.faker.Chance(g.opts.WeekendBoostProbability) {
		qty++
	}

	sales := decimal.NewFromFloat(price * float64(qty)).Round(2)

	storeID := datagen.Choose(g.faker, storeIDs)

	discount := decimal.Zero
	if g.faker.Chance(g.opts.DiscountProbability) {
		discount = sales.Mul(decimal.NewFromFloat(g.opts.DiscountRate)).Round(2)
	}

	return Transaction{
		HouseholdKey:   hh.Key,
		BasketID:       BasketID(i),
		Day:            day,
		ProductID:      prod.ID,
		Quantity:       qty,
		SalesValue:     sales,
		StoreID:        storeID,
		RetailDiscount: discount,
		TransTime:      g.faker.IntN(minTransTime, maxTransTime),
		WeekNo:         offset/7 + 1,
	}
}

// BasketID returns the basket id for the item at the given generation index.
func BasketID(index int) int64 {
	return basketIDBase + int64(index/basketSize)
}

func isHighIncome(income string) bool {
	for _, marker := range highIncomeMarkers {
		if strings.Contains(income, marker) {
			return true
		}
	}
	return false
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
