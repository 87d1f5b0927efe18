package grocery

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Categories offered by the grocery and fridge forms, in display order.
const (
	CategoryProduce   = "Rau củ"
	CategoryMeatFish  = "Thịt cá"
	CategoryDryGoods  = "Đồ khô"
	CategoryDairyEggs = "Sữa & trứng"
	CategorySpices    = "Gia vị"
	CategoryDrinks    = "Đồ uống"
	CategoryFrozen    = "Đồ đông lạnh"
	CategoryOther     = "Khác"
)

var Categories = []string{
	CategoryProduce, CategoryMeatFish, CategoryDryGoods, CategoryDairyEggs,
	CategorySpices, CategoryDrinks, CategoryFrozen, CategoryOther,
}

// Categorize returns the grocery category for the given item name.
// It performs case-insensitive matching: exact match first, then substring match.
// Falls back to CategoryOther if no match is found.
func Categorize(itemName string) string {
	name := strings.ToLower(norm.NFC.String(strings.TrimSpace(itemName)))
	if name == "" {
		return CategoryOther
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// Ordered longer/more-specific first.
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return CategoryOther
}

var exactMatch = map[string]string{
	// Rau củ
	"cà chua":   CategoryProduce,
	"cà rốt":    CategoryProduce,
	"khoai tây": CategoryProduce,
	"hành":      CategoryProduce,
	"tỏi":       CategoryProduce,
	"gừng":      CategoryProduce,
	"ớt":        CategoryProduce,
	"dứa":       CategoryProduce,
	"chanh":     CategoryProduce,
	"me":        CategoryProduce,
	"giá đỗ":    CategoryProduce,
	"đậu bắp":   CategoryProduce,
	"bắp cải":   CategoryProduce,
	"dưa chuột": CategoryProduce,
	"chuối":     CategoryProduce,
	"xoài":      CategoryProduce,

	// Thịt cá
	"cá":      CategoryMeatFish,
	"tôm":     CategoryMeatFish,
	"cua":     CategoryMeatFish,
	"mực":     CategoryMeatFish,
	"thịt":    CategoryMeatFish,
	"giò":     CategoryMeatFish,
	"chả":     CategoryMeatFish,
	"sườn":    CategoryMeatFish,
	"đậu phụ": CategoryMeatFish,

	// Đồ khô
	"gạo":      CategoryDryGoods,
	"mì":       CategoryDryGoods,
	"miến":     CategoryDryGoods,
	"bún khô":  CategoryDryGoods,
	"bánh phở": CategoryDryGoods,
	"đậu xanh": CategoryDryGoods,
	"lạc":      CategoryDryGoods,
	"bột mì":   CategoryDryGoods,

	// Sữa & trứng
	"sữa":      CategoryDairyEggs,
	"trứng":    CategoryDairyEggs,
	"bơ":       CategoryDairyEggs,
	"phô mai":  CategoryDairyEggs,
	"sữa chua": CategoryDairyEggs,

	// Gia vị
	"muối":     CategorySpices,
	"đường":    CategorySpices,
	"tiêu":     CategorySpices,
	"nước mắm": CategorySpices,
	"xì dầu":   CategorySpices,
	"dầu ăn":   CategorySpices,
	"hạt nêm":  CategorySpices,
	"bột ngọt": CategorySpices,
	"giấm":     CategorySpices,

	// Đồ uống
	"nước":      CategoryDrinks,
	"bia":       CategoryDrinks,
	"trà":       CategoryDrinks,
	"cà phê":    CategoryDrinks,
	"nước ngọt": CategoryDrinks,
}

type substringEntry struct {
	keyword  string
	category string
}

var substringMatches = []substringEntry{
	// Most specific first so "sữa chua" beats "sữa" and "đông lạnh" beats "cá".
	{"đông lạnh", CategoryFrozen},
	{"kem", CategoryFrozen},
	{"mì tôm", CategoryDryGoods},
	{"sữa chua", CategoryDairyEggs},
	{"nước mắm", CategorySpices},
	{"nước tương", CategorySpices},
	{"nước ngọt", CategoryDrinks},
	{"nước cam", CategoryDrinks},
	{"cà phê", CategoryDrinks},
	{"cà chua", CategoryProduce},
	{"cà rốt", CategoryProduce},
	{"cà tím", CategoryProduce},
	{"thịt", CategoryMeatFish},
	{"tôm", CategoryMeatFish},
	{"gà", CategoryMeatFish},
	{"bò", CategoryMeatFish},
	{"heo", CategoryMeatFish},
	{"lợn", CategoryMeatFish},
	{"sữa", CategoryDairyEggs},
	{"trứng", CategoryDairyEggs},
	{"gạo", CategoryDryGoods},
	{"mì", CategoryDryGoods},
	{"bún", CategoryDryGoods},
	{"rau", CategoryProduce},
	{"nấm", CategoryProduce},
	{"khoai", CategoryProduce},
	{"bia", CategoryDrinks},
	{"trà", CategoryDrinks},
	{"cá", CategoryMeatFish},
}
