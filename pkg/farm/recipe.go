package farm

// Recipe describes what a machine kind produces from an input.
type Recipe struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Minutes int    `yaml:"minutes"`
}

// DefaultRecipes are used for machine kinds the world file doesn't describe.
var DefaultRecipes = map[string][]Recipe{
	"keg": {
		{Input: "hops", Output: "pale ale", Minutes: 2250},
		{Input: "wheat", Output: "beer", Minutes: 1750},
	},
	"preserves_jar": {
		{Input: "blueberry", Output: "blueberry jelly", Minutes: 4000},
		{Input: "tomato", Output: "pickled tomato", Minutes: 4000},
	},
	"furnace": {
		{Input: "copper ore", Output: "copper bar", Minutes: 30},
		{Input: "iron ore", Output: "iron bar", Minutes: 120},
	},
}
