package validator

const (
	CategoryTechnicalSkills = "technical_skills"
	CategoryProjects        = "projects"
	CategoryEducation       = "education"
	CategoryExperience      = "experience"
	CategoryAchievements    = "achievements"
	CategoryGeneral         = "general"
	CategoryGreeting        = "greeting"
	CategoryFollowUp        = "follow_up"
)

var professionalKeywords = []string{
	// technical
	"programming", "code", "coding", "development", "software", "web", "app", "application",
	"frontend", "backend", "fullstack", "full-stack", "database", "api", "framework",
	"javascript", "typescript", "python", "react", "next.js", "nextjs", "node",
	"git", "github", "vercel", "deployment", "testing", "debugging", "rag", "ai",

	// projects and experience
	"project", "portfolio", "built", "created", "developed", "deployed", "work",
	"experience", "internship", "ojt", "job", "role", "position",

	// skills
	"skill", "knowledge", "proficiency", "expertise", "ability", "capability",
	"familiar", "experienced", "proficient", "advanced", "beginner", "stack", "tech",

	// education and achievements
	"education", "university", "degree", "graduate", "study", "student",
	"achievement", "award", "competition", "contest", "certificate",

	// interview and career
	"interview", "hire", "salary", "compensation", "remote", "location",
	"career", "goal", "ambition", "future", "plan", "aspiration",
	"strength", "weakness", "challenge", "learn", "improve",

	// personal but professional
	"about", "yourself", "who", "background", "introduction", "tell me",
	"describe", "explain", "what", "why", "how", "when", "where",
}

// blockedKeywords are checked before any whitelist scoring.
var blockedKeywords = []string{
	// privacy
	"girlfriend", "boyfriend", "dating", "relationship", "family", "parents",
	"home address", "phone number", "bank", "credit card", "password", "social security",

	// illegal
	"hack", "illegal", "cheat", "steal", "pirate", "crack",

	// off-topic
	"weather", "sports", "politics", "religion", "celebrity", "gossip",
	"game", "recipe", "health", "medical", "legal advice",
	"financial advice", "investment",

	// manipulation
	"ignore previous", "system prompt", "instructions", "forget everything",
	"act as", "pretend to be", "jailbreak",
}

var questionPatterns = []string{
	"what", "why", "how", "when", "where", "who", "which",
	"tell me", "describe", "explain", "can you", "do you",
	"have you", "are you", "did you", "will you",
}

var greetings = []string{
	"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening",
}

type categoryGroup struct {
	category string
	prefixes []string
}

// categoryGroups are matched in order; the first group with a hit wins.
var categoryGroups = []categoryGroup{
	{CategoryTechnicalSkills, []string{"skill", "programming", "language", "tech", "stack", "framework"}},
	{CategoryProjects, []string{"project", "built", "portfolio", "app"}},
	{CategoryEducation, []string{"education", "university", "degree", "school", "college", "course", "stud"}},
	{CategoryExperience, []string{"experience", "work", "job", "intern", "ojt", "role"}},
	{CategoryAchievements, []string{"achievement", "award", "competition", "contest", "certificat"}},
}

var metaPatterns = []string{
	"what can you",
	"what do you do",
	"how do you work",
	"what are you",
	"who made you",
	"who built you",
	"how were you built",
	"what's your purpose",
	"are you an ai",
	"are you a bot",
}
