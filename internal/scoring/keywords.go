package scoring

// Fixed lookup tables used by the sub-scorers. All entries are lower case.

var eliteInstitutions = []string{
	"stanford", "mit", "massachusetts institute of technology", "harvard", "berkeley",
	"carnegie mellon", "cmu", "caltech", "princeton", "yale", "oxford", "cambridge",
	"eth zurich", "epfl", "iit", "indian institute of technology", "tsinghua",
	"peking university", "university of toronto", "imperial college", "georgia tech",
	"cornell", "columbia university", "university of washington",
}

var institutionPatterns = []string{
	"university", "college", "institute", "school of", "polytechnic", "academy",
}

var technicalDegrees = []string{
	"computer science", "computer engineering", "software engineering", "engineering",
	"artificial intelligence", "machine learning", "data science", "mathematics",
	"statistics", "physics", "electrical", "cs", "ai", "ml",
}

// seniorityTiers are ordered from the lowest to the highest tier.
var seniorityTiers = []struct {
	keywords []string
	score    float64
}{
	{keywords: []string{"senior", "sr", "staff", "manager"}, score: 6.5},
	{keywords: []string{"lead", "principal", "architect"}, score: 7.5},
	{keywords: []string{"director", "head", "vp", "vice president", "chief", "cto", "cpo", "ceo"}, score: 9.0},
}

var topTechCompanies = []string{
	"google", "alphabet", "deepmind", "meta", "facebook", "apple", "amazon", "aws",
	"microsoft", "netflix", "openai", "anthropic", "nvidia", "uber", "airbnb", "stripe",
	"linkedin", "salesforce", "tesla", "spacex", "databricks", "snowflake", "palantir",
}

var aiCompanyKeywords = []string{
	"ai", "ml", "machine learning", "data", "analytics", "intelligence", "robotics",
	"vision", "neural", "cognitive", "insights",
}

var corporateSuffixes = []string{
	"inc", "corp", "corporation", "ltd", "llc", "gmbh", "plc", "co",
	"technologies", "technology", "software", "solutions", "systems", "labs", "group",
}

var techSkills = []string{
	"python", "java", "javascript", "typescript", "golang", "rust", "c++", "scala",
	"kotlin", "swift", "ruby", "php", "sql", "nosql", "postgresql", "mysql", "mongodb",
	"redis", "kafka", "spark", "hadoop", "airflow", "react", "angular", "vue", "node.js",
	"django", "flask", "fastapi", "spring", "graphql", "rest", "grpc", "microservices",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "linux", "git",
	"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn",
	"pandas", "numpy", "nlp", "computer vision", "llm", "mlops", "data engineering",
}

var remoteKeywords = []string{"remote", "anywhere", "work from home", "distributed team"}

// metros maps a metropolitan area to the city names that belong to it.
var metros = map[string][]string{
	"san francisco bay area": {
		"san francisco", "sf", "bay area", "silicon valley", "mountain view", "palo alto",
		"menlo park", "sunnyvale", "san jose", "santa clara", "cupertino", "redwood city",
		"oakland", "berkeley", "san mateo",
	},
	"new york": {"new york", "nyc", "manhattan", "brooklyn", "jersey city", "hoboken"},
	"seattle":  {"seattle", "bellevue", "redmond", "kirkland"},
	"boston":   {"boston", "cambridge, ma", "somerville", "waltham"},
	"los angeles": {
		"los angeles", "santa monica", "pasadena", "culver city", "irvine",
	},
	"austin":     {"austin", "round rock"},
	"chicago":    {"chicago", "evanston"},
	"london":     {"london"},
	"bangalore":  {"bangalore", "bengaluru"},
	"delhi ncr":  {"delhi", "new delhi", "gurgaon", "gurugram", "noida"},
	"toronto":    {"toronto", "waterloo"},
	"berlin":     {"berlin"},
	"tel aviv":   {"tel aviv", "herzliya"},
	"singapore":  {"singapore"},
	"washington": {"washington dc", "arlington", "reston"},
}
