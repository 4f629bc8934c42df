package ai

import "strings"

// Shopping list categories, in store-walk order.
const (
	CategoryProduce   = "Frukt & Grönt"
	CategoryDairy     = "Mejeri"
	CategoryMeatFish  = "Kött & Fisk"
	CategoryBread     = "Bröd"
	CategoryPantry    = "Skafferi"
	CategoryFrozen    = "Fryst"
	CategoryBeverages = "Dryck"
	CategoryHousehold = "Hushåll"
	CategoryOther     = "Övrigt"
)

// CategorizeLocal classifies a grocery item by keyword lookup. It is the
// fallback when the gateway is unavailable or its answer cannot be parsed:
// exact match first, then substring match.
func CategorizeLocal(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return CategoryOther
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return CategoryOther
}

var exactMatch = map[string]string{
	// Frukt & grönt
	"äpple":    CategoryProduce,
	"äpplen":   CategoryProduce,
	"banan":    CategoryProduce,
	"bananer":  CategoryProduce,
	"apelsin":  CategoryProduce,
	"citron":   CategoryProduce,
	"tomat":    CategoryProduce,
	"tomater":  CategoryProduce,
	"potatis":  CategoryProduce,
	"lök":      CategoryProduce,
	"gul lök":  CategoryProduce,
	"vitlök":   CategoryProduce,
	"gurka":    CategoryProduce,
	"sallad":   CategoryProduce,
	"morötter": CategoryProduce,
	"paprika":  CategoryProduce,
	"broccoli": CategoryProduce,
	"dill":     CategoryProduce,
	"persilja": CategoryProduce,

	// Mejeri
	"mjölk":      CategoryDairy,
	"filmjölk":   CategoryDairy,
	"yoghurt":    CategoryDairy,
	"smör":       CategoryDairy,
	"ost":        CategoryDairy,
	"grädde":     CategoryDairy,
	"vispgrädde": CategoryDairy,
	"crème fraiche": CategoryDairy,
	"ägg":        CategoryDairy,

	// Kött & fisk
	"köttfärs":    CategoryMeatFish,
	"kyckling":    CategoryMeatFish,
	"falukorv":    CategoryMeatFish,
	"korv":        CategoryMeatFish,
	"prinskorv":   CategoryMeatFish,
	"lax":         CategoryMeatFish,
	"sill":        CategoryMeatFish,
	"räkor":       CategoryMeatFish,
	"julskinka":   CategoryMeatFish,
	"köttbullar":  CategoryMeatFish,
	"fläskfilé":   CategoryMeatFish,

	// Bröd
	"bröd":       CategoryBread,
	"knäckebröd": CategoryBread,
	"tunnbröd":   CategoryBread,
	"bullar":     CategoryBread,

	// Skafferi
	"mjöl":       CategoryPantry,
	"vetemjöl":   CategoryPantry,
	"socker":     CategoryPantry,
	"salt":       CategoryPantry,
	"peppar":     CategoryPantry,
	"ris":        CategoryPantry,
	"pasta":      CategoryPantry,
	"makaroner":  CategoryPantry,
	"havregryn":  CategoryPantry,
	"jäst":       CategoryPantry,
	"kanel":      CategoryPantry,
	"kardemumma": CategoryPantry,
	"saffran":    CategoryPantry,
	"sirap":      CategoryPantry,
	"ketchup":    CategoryPantry,
	"senap":      CategoryPantry,

	// Dryck
	"kaffe":     CategoryBeverages,
	"te":        CategoryBeverages,
	"juice":     CategoryBeverages,
	"läsk":      CategoryBeverages,
	"julmust":   CategoryBeverages,
	"glögg":     CategoryBeverages,
	"saft":      CategoryBeverages,

	// Hushåll
	"diskmedel":       CategoryHousehold,
	"tvättmedel":      CategoryHousehold,
	"hushållspapper":  CategoryHousehold,
	"toalettpapper":   CategoryHousehold,
	"ljus":            CategoryHousehold,
	"servetter":       CategoryHousehold,
}

var substringMatches = []struct {
	keyword  string
	category string
}{
	{"fryst", CategoryFrozen},
	{"glass", CategoryFrozen},
	{"mjölk", CategoryDairy},
	{"yoghurt", CategoryDairy},
	{"ost", CategoryDairy},
	{"grädde", CategoryDairy},
	{"kött", CategoryMeatFish},
	{"kyckling", CategoryMeatFish},
	{"fisk", CategoryMeatFish},
	{"korv", CategoryMeatFish},
	{"skinka", CategoryMeatFish},
	{"bröd", CategoryBread},
	{"bulle", CategoryBread},
	{"kaka", CategoryBread},
	{"mjöl", CategoryPantry},
	{"gryn", CategoryPantry},
	{"krydd", CategoryPantry},
	{"sås", CategoryPantry},
	{"konserv", CategoryPantry},
	{"dryck", CategoryBeverages},
	{"öl", CategoryBeverages},
	{"vin", CategoryBeverages},
	{"vatten", CategoryBeverages},
	{"papper", CategoryHousehold},
	{"medel", CategoryHousehold},
	{"påse", CategoryHousehold},
	{"folie", CategoryHousehold},
	{"frukt", CategoryProduce},
	{"grönsak", CategoryProduce},
	{"bär", CategoryProduce},
}
