package seeder

import (
	"fmt"
	"math/rand"
	"strings"
)

// DataGenerator produces every synthetic field value from one seeded
// pseudo-random stream. The same seed yields the same dataset on every
// fresh run, so generated databases can be compared byte for byte.
type DataGenerator struct {
	rand *rand.Rand
}

func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
	}
}

var firstNames = []string{
	"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank",
	"Grace", "Henry", "Ingrid", "Jacob", "Karin", "Lars", "Maria", "Nils",
	"Olivia", "Peter", "Quinn", "Rosa", "Sven", "Tova", "Ulf", "Vera",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Andersson", "Karlsson", "Nilsson",
	"Eriksson", "Larsson", "Olsson", "Persson", "Svensson", "Gustafsson",
	"Pettersson", "Jonsson", "Jansson", "Hansson", "Bengtsson",
}

var streetNames = []string{
	"Main Street", "Oak Avenue", "Maple Road", "Cedar Lane", "Elm Street",
	"Park Avenue", "Lake Road", "Hill Street", "River Road", "Church Street",
	"Mill Lane", "Station Road", "High Street", "Garden Way", "Forest Drive",
	"Harbor Street", "Bridge Road", "Meadow Lane", "Spring Street", "Valley Road",
}

var cityNames = []string{
	"Springfield", "Riverton", "Lakewood", "Fairview", "Georgetown",
	"Ashland", "Burlington", "Clinton", "Dayton", "Easton", "Franklin",
	"Greenville", "Hudson", "Kingston", "Madison", "Newport", "Oxford",
	"Salem", "Troy", "Winchester",
}

var productAdjectives = []string{
	"Sleek", "Rustic", "Ergonomic", "Durable", "Compact", "Lightweight",
	"Heavy-Duty", "Modern", "Classic", "Premium", "Practical", "Refined",
}

var productMaterials = []string{
	"Steel", "Wooden", "Cotton", "Leather", "Aluminum", "Granite",
	"Plastic", "Copper", "Bamboo", "Ceramic", "Linen", "Marble",
}

var productNouns = []string{
	"Chair", "Table", "Lamp", "Keyboard", "Backpack", "Bottle", "Clock",
	"Shelf", "Knife", "Wallet", "Helmet", "Bench", "Kettle", "Cabinet",
}

func (g *DataGenerator) FullName() string {
	return firstNames[g.rand.Intn(len(firstNames))] + " " + lastNames[g.rand.Intn(len(lastNames))]
}

// StreetAddress is a street name followed by a house number shaped like
// the pattern [1-9]?[1-9][A-D]?.
func (g *DataGenerator) StreetAddress() string {
	return streetNames[g.rand.Intn(len(streetNames))] + " " + g.houseNumber()
}

func (g *DataGenerator) houseNumber() string {
	var sb strings.Builder
	if g.rand.Intn(2) == 1 {
		sb.WriteByte(byte('1' + g.rand.Intn(9)))
	}
	sb.WriteByte(byte('1' + g.rand.Intn(9)))
	if g.rand.Intn(2) == 1 {
		sb.WriteByte(byte('A' + g.rand.Intn(4)))
	}
	return sb.String()
}

func (g *DataGenerator) ZipCode() string {
	return fmt.Sprintf("%05d", g.rand.Intn(100000))
}

func (g *DataGenerator) City() string {
	return cityNames[g.rand.Intn(len(cityNames))]
}

func (g *DataGenerator) ProductName() string {
	return productAdjectives[g.rand.Intn(len(productAdjectives))] + " " +
		productMaterials[g.rand.Intn(len(productMaterials))] + " " +
		productNouns[g.rand.Intn(len(productNouns))]
}

// Discount is 0.05 with 30% probability, otherwise 0.
func (g *DataGenerator) Discount() float64 {
	if g.rand.Float64() < 0.3 {
		return 0.05
	}
	return 0.0
}

// Stock is uniform in [10, 109].
func (g *DataGenerator) Stock() int {
	return g.rand.Intn(100) + 10
}

// ReorderPoint is uniform in [0, 4*(stock/5)-1], always below stock.
func (g *DataGenerator) ReorderPoint(stock int) int {
	return g.rand.Intn(4 * (stock / 5))
}

// Price is uniform in [10, 1000).
func (g *DataGenerator) Price() float64 {
	return 10 + g.rand.Float64()*990
}

// DayOffset is uniform in [1, 179].
func (g *DataGenerator) DayOffset() int {
	return g.rand.Intn(179) + 1
}

// ItemCount is uniform in [1, 5].
func (g *DataGenerator) ItemCount() int {
	return g.rand.Intn(5) + 1
}

// Quantity is uniform in [1, 3].
func (g *DataGenerator) Quantity() int {
	return g.rand.Intn(3) + 1
}
