package preprocess

type correction struct {
	from string
	to   string
}

// phraseCorrections is applied in order, before word corrections.
var phraseCorrections = []correction{
	{"tell me abot", "tell me about"},
	{"wat can you", "what can you"},
	{"wat do you", "what do you"},
	{"wat are you", "what are you"},
	{"can u", "can you"},
	{"cna you", "can you"},
	{"wats your", "what's your"},
	{"whats ur", "what's your"},
	{"tel me", "tell me"},
	{"discribe urself", "describe yourself"},
	{"descibe yourself", "describe yourself"},
	{"ur skills", "your skills"},
	{"ur experience", "your experience"},
	{"ur background", "your background"},
	{"do u have", "do you have"},
	{"have u", "have you"},
	{"are u", "are you"},
	{"were u", "were you"},
	{"did u", "did you"},
	{"wut is", "what is"},
	{"wut are", "what are"},
	{"hw many", "how many"},
	{"hw much", "how much"},
}

// shorthandCorrections only match lowercase tokens, so "R" the language survives.
var shorthandCorrections = map[string]string{
	"u":  "you",
	"r":  "are",
	"ur": "your",
}

var wordCorrections = map[string]string{
	"wat":             "what",
	"wut":             "what",
	"wht":             "what",
	"waht":            "what",
	"cna":             "can",
	"cann":            "can",
	"offre":           "offer",
	"skilss":          "skills",
	"skils":           "skills",
	"experiance":      "experience",
	"experince":       "experience",
	"expereince":      "experience",
	"projets":         "projects",
	"projetcs":        "projects",
	"porjects":        "projects",
	"educaton":        "education",
	"educaiton":       "education",
	"tecnical":        "technical",
	"techincal":       "technical",
	"technincal":      "technical",
	"programing":      "programming",
	"programmin":      "programming",
	"progamming":      "programming",
	"developement":    "development",
	"devlopment":      "development",
	"compnay":         "company",
	"comapny":         "company",
	"companey":        "company",
	"achivements":     "achievements",
	"achievments":     "achievements",
	"achivment":       "achievement",
	"bacground":       "background",
	"backgorund":      "background",
	"interivew":       "interview",
	"interveiw":       "interview",
	"descripe":        "describe",
	"discribe":        "describe",
	"desribe":         "describe",
	"explane":         "explain",
	"explian":         "explain",
	"expain":          "explain",
	"tel":             "tell",
	"tlel":            "tell",
	"abotu":           "about",
	"abot":            "about",
	"abuot":           "about",
	"youself":         "yourself",
	"urself":          "yourself",
	"yur":             "your",
	"yor":             "your",
	"yuor":            "your",
	"thier":           "their",
	"teh":             "the",
	"hte":             "the",
	"taht":            "that",
	"wich":            "which",
	"whcih":           "which",
	"langauges":       "languages",
	"languges":        "languages",
	"framworks":       "frameworks",
	"framewroks":      "frameworks",
	"databse":         "database",
	"databses":        "databases",
	"certifcate":      "certificate",
	"certficate":      "certificate",
	"unversity":       "university",
	"universtiy":      "university",
	"gradute":         "graduate",
	"graduete":        "graduate",
	"strenth":         "strength",
	"stregth":         "strength",
	"weekness":        "weakness",
	"weaknes":         "weakness",
	"challange":       "challenge",
	"chalenge":        "challenge",
	"responsibilty":   "responsibility",
	"responsibilites": "responsibilities",
}
