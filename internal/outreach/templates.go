package outreach

// Tone buckets selected by total fit score.
const (
	ToneHigh   = "high"
	ToneMedium = "medium"
	ToneLow    = "low"

	highToneThreshold   = 8.0
	mediumToneThreshold = 6.0
)

var toneGuidance = map[string]string{
	ToneHigh:   "Enthusiastic and specific: lead with the candidate's strongest achievements",
	ToneMedium: "Friendly and concrete: connect their experience to the role",
	ToneLow:    "Light and low-pressure: introduce the role briefly",
}

var openings = map[string][]string{
	ToneHigh: {
		"Hi {first_name}, your work as {role} at {company} really stands out, and your depth in {skills} is exactly what our {job_title} team is looking for.",
		"Hi {first_name}, your track record with {skills} and your time at {company} caught my attention immediately.",
		"Hi {first_name}, it is rare to see a profile that combines {skills} with experience like yours at {company}.",
	},
	ToneMedium: {
		"Hi {first_name}, I came across your profile and your experience with {skills} looks like a strong match for a {job_title} role I am hiring for.",
		"Hi {first_name}, your background at {company} and your work with {skills} caught my eye.",
		"Hi {first_name}, I am reaching out because your experience with {skills} in {location} fits a {job_title} opening we have.",
	},
	ToneLow: {
		"Hi {first_name}, I am hiring for a {job_title} role and wanted to see whether you would be open to hearing about it.",
		"Hi {first_name}, your profile came up while I was looking for {job_title} candidates, and I would love to share a bit about the role.",
		"Hi {first_name}, I am reaching out about a {job_title} opportunity that could be an interesting next step from {role}.",
	},
}

var callsToAction = []string{
	"Would you be open to a 15-minute call this week to hear more?",
	"Are you free for a quick chat in the next few days?",
	"Would you be interested in learning more about the role?",
	"Could we set up a short call to explore whether this is a fit?",
	"If this sounds interesting, could you share a couple of times that work for a call?",
}

const fallbackTemplate = `Hi {first_name},

I came across your profile and was impressed by {background}. I'm reaching out because I think you'd be a great fit for a {job_title} role we're hiring for.

Your experience with {skills} aligns well with what we're looking for.

Would you be interested in a quick call to learn more about the opportunity?

Best regards`

// ToneFor buckets a total fit score.
func ToneFor(total float64) string {
	switch {
	case total >= highToneThreshold:
		return ToneHigh
	case total >= mediumToneThreshold:
		return ToneMedium
	default:
		return ToneLow
	}
}
