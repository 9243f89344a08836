package core

// defaultCategoryRules is the built-in keyword table for NZ bank
// statements. It is scanned top to bottom and the first substring match
// wins; entries are not ordered by specificity, so the ordering itself
// is meaningful and must not be re-sorted.
var defaultCategoryRules = []CategoryRule{
	// Food & groceries
	{Keyword: "pak n save", Category: Food},
	{Keyword: "paknsave", Category: Food},
	{Keyword: "countdown", Category: Food},
	{Keyword: "woolworths", Category: Food},
	{Keyword: "new world", Category: Food},
	{Keyword: "four square", Category: Food},
	{Keyword: "freshchoice", Category: Food},
	{Keyword: "supervalue", Category: Food},
	{Keyword: "lynmore super", Category: Food},
	{Keyword: "dairy", Category: Food},
	{Keyword: "bakery", Category: Food},
	{Keyword: "butcher", Category: Food},
	{Keyword: "dominos", Category: Food},
	{Keyword: "mcdonalds", Category: Food},
	{Keyword: "burger king", Category: Food},
	{Keyword: "burgerfuel", Category: Food},
	{Keyword: "kfc", Category: Food},
	{Keyword: "subway", Category: Food},
	{Keyword: "don kebab", Category: Food},
	{Keyword: "st pierre", Category: Food},
	{Keyword: "sequoia eater", Category: Food},
	{Keyword: "uber eats", Category: Food},
	{Keyword: "menulog", Category: Food},
	{Keyword: "hello fresh", Category: Food},
	{Keyword: "my food bag", Category: Food},

	// Utilities
	{Keyword: "mercury", Category: Utilities},
	{Keyword: "genesis energy", Category: Utilities},
	{Keyword: "contact energy", Category: Utilities},
	{Keyword: "meridian", Category: Utilities},
	{Keyword: "electric kiwi", Category: Utilities},
	{Keyword: "powershop", Category: Utilities},
	{Keyword: "flick", Category: Utilities},
	{Keyword: "watercare", Category: Utilities},
	{Keyword: "spark", Category: Utilities},
	{Keyword: "vodafone", Category: Utilities},
	{Keyword: "one nz", Category: Utilities},
	{Keyword: "2degrees", Category: Utilities},
	{Keyword: "skinny", Category: Utilities},
	{Keyword: "orcon", Category: Utilities},
	{Keyword: "slingshot", Category: Utilities},
	{Keyword: "trustpower", Category: Utilities},
	{Keyword: "nova energy", Category: Utilities},

	// Housing
	{Keyword: "rent", Category: Housing},
	{Keyword: "mortgage", Category: Housing},
	{Keyword: "loan repay", Category: Housing},
	{Keyword: "loan interest", Category: Housing},
	{Keyword: "body corp", Category: Housing},
	{Keyword: "rates", Category: Housing},
	{Keyword: "bunnings", Category: Housing},
	{Keyword: "mitre 10", Category: Housing},
	{Keyword: "placemakers", Category: Housing},
	{Keyword: "insurance", Category: Housing},
	{Keyword: "tower insurance", Category: Housing},
	{Keyword: "ami insurance", Category: Housing},
	{Keyword: "ami insur", Category: Housing},
	{Keyword: "state insurance", Category: Housing},
	{Keyword: "aa insurance", Category: Housing},
	{Keyword: "real estate", Category: Housing},

	// Transport
	{Keyword: "bp connect", Category: Transport},
	{Keyword: "bp 2go", Category: Transport},
	{Keyword: "z energy", Category: Transport},
	{Keyword: "gull", Category: Transport},
	{Keyword: "mobil", Category: Transport},
	{Keyword: "nzta", Category: Transport},
	{Keyword: "at hop", Category: Transport},
	{Keyword: "snapper", Category: Transport},
	{Keyword: "uber", Category: Transport},
	{Keyword: "parking", Category: Transport},
	{Keyword: "autoplus", Category: Transport},
	{Keyword: "wof", Category: Transport},
	{Keyword: "rego", Category: Transport},
	{Keyword: "vtnz", Category: Transport},

	// Healthcare
	{Keyword: "pharmacy", Category: Healthcare},
	{Keyword: "chemist wareh", Category: Healthcare},
	{Keyword: "chemist", Category: Healthcare},
	{Keyword: "doctor", Category: Healthcare},
	{Keyword: "medical", Category: Healthcare},
	{Keyword: "dental", Category: Healthcare},
	{Keyword: "dentist", Category: Healthcare},
	{Keyword: "hospital", Category: Healthcare},
	{Keyword: "osteo", Category: Healthcare},
	{Keyword: "physio", Category: Healthcare},
	{Keyword: "lambert osteo", Category: Healthcare},
	{Keyword: "aia", Category: Healthcare},
	{Keyword: "southern cross", Category: Healthcare},
	{Keyword: "nib", Category: Healthcare},
	{Keyword: "unichem", Category: Healthcare},
	{Keyword: "life pharmacy", Category: Healthcare},

	// Education
	{Keyword: "university", Category: Education},
	{Keyword: "studylink", Category: Education},
	{Keyword: "toi ohomai", Category: Education},
	{Keyword: "orange swim", Category: Education},
	{Keyword: "swim school", Category: Education},
	{Keyword: "school", Category: Education},
	{Keyword: "polytech", Category: Education},
	{Keyword: "whitireia", Category: Education},
	{Keyword: "weltec", Category: Education},

	// Lifestyle
	{Keyword: "netflix", Category: Lifestyle},
	{Keyword: "spotify", Category: Lifestyle},
	{Keyword: "disney", Category: Lifestyle},
	{Keyword: "neon", Category: Lifestyle},
	{Keyword: "sky tv", Category: Lifestyle},
	{Keyword: "apple", Category: Lifestyle},
	{Keyword: "google", Category: Lifestyle},
	{Keyword: "amazon", Category: Lifestyle},
	{Keyword: "warehouse", Category: Lifestyle},
	{Keyword: "kmart", Category: Lifestyle},
	{Keyword: "farmers", Category: Lifestyle},
	{Keyword: "briscoes", Category: Lifestyle},
	{Keyword: "rebel", Category: Lifestyle},
	{Keyword: "cotton on", Category: Lifestyle},
	{Keyword: "noel leeming", Category: Lifestyle},
	{Keyword: "gym", Category: Lifestyle},
	{Keyword: "les mills", Category: Lifestyle},
	{Keyword: "cinema", Category: Lifestyle},
	{Keyword: "event cinemas", Category: Lifestyle},
	{Keyword: "hoyts", Category: Lifestyle},
	{Keyword: "playstation", Category: Lifestyle},
	{Keyword: "steam", Category: Lifestyle},
	{Keyword: "mighty ape", Category: Lifestyle},
}
