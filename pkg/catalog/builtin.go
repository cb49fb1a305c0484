package catalog

// builtinDefs is the catalog shipped with the binary.
var builtinDefs = []Definition{
	{
		ID:          "milk",
		DisplayName: "Milk",
		Terms:       []string{"milk", "whey", "casein", "caseinate", "lactose", "butter", "cream", "ghee"},
	},
	{
		ID:          "egg",
		DisplayName: "Egg",
		Terms:       []string{"egg", "albumin", "ovalbumin", "ovomucoid"},
	},
	{
		ID:          "peanut",
		DisplayName: "Peanut",
		Terms:       []string{"peanut", "groundnut", "arachis"},
	},
	{
		ID:          "tree_nut",
		DisplayName: "Tree Nuts",
		Terms:       []string{"almond", "walnut", "cashew", "pecan", "pistachio", "hazelnut", "macadamia", "brazil nut", "pine nut"},
	},
	{
		ID:          "soy",
		DisplayName: "Soy",
		Terms:       []string{"soy", "soya", "soybean", "edamame", "miso", "tempeh", "tofu", "lecithin"},
	},
	{
		ID:          "wheat",
		DisplayName: "Wheat / Gluten (basic)",
		Terms:       []string{"wheat", "gluten", "barley", "rye", "malt"},
	},
	{
		ID:          "sesame",
		DisplayName: "Sesame",
		Terms:       []string{"sesame", "tahini", "benne", "gingelly"},
	},
	{
		ID:          "coconut",
		DisplayName: "Coconut",
		Terms:       []string{"coconut", "cocos nucifera", "sodium cocoate", "coco betaine", "cocamide mipa", "coco glucoside"},
	},
	{
		ID:          "annatto",
		DisplayName: "Annatto",
		Terms:       []string{"annatto", "achiote", "bixin", "norbixin"},
	},
}

// Default returns the built-in allergen catalog.
func Default() *Catalog {
	c, err := New("builtin", "1", builtinDefs)
	if err != nil {
		panic("catalog: invalid builtin data: " + err.Error())
	}
	return c
}
