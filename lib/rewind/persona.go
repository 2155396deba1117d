package rewind

// Persona classification is a priority-ordered rule list: the first rule
// whose predicate matches wins, so the order below is load-bearing. Every
// predicate reads only finalized Overall fields, which means feeding a
// report's own Overall back in reproduces its persona.

type personaRule struct {
	persona Persona
	matches func(o *Overall) bool
}

// Score thresholds are on the 100-point scale the engine uses everywhere.
const (
	connoisseurMinAvg = 85.0
	criticMaxAvg      = 60.0
)

func topGenreNames(o *Overall, n int) []string {
	names := make([]string, 0, n)
	for i, g := range o.TopGenres {
		if i == n {
			break
		}
		names = append(names, g.Name)
	}
	return names
}

func hasAnyGenre(o *Overall, wanted ...string) bool {
	for _, g := range topGenreNames(o, 3) {
		for _, w := range wanted {
			if g == w {
				return true
			}
		}
	}
	return false
}

func formatCount(o *Overall, name string) int {
	for _, f := range o.Formats {
		if f.Name == name {
			return f.Count
		}
	}
	return 0
}

var personaRules = []personaRule{
	{
		persona: Persona{"The Titan", "You consume anime at a rate that defies logic."},
		matches: func(o *Overall) bool { return o.EpisodesWatched > 1000 },
	},
	{
		persona: Persona{"The Cinephile", "You prefer the silver screen over the weekly grind."},
		matches: func(o *Overall) bool {
			return o.AnimeCompleted > 10 &&
				float64(formatCount(o, "MOVIE"))/float64(o.AnimeCompleted) > 0.3
		},
	},
	{
		persona: Persona{"The Connoisseur", "You only accept the absolute peak of fiction."},
		matches: func(o *Overall) bool {
			return o.AverageScore >= connoisseurMinAvg && o.AnimeCompleted > 5
		},
	},
	{
		persona: Persona{"The Critic", "You watch everything, just to say you hated it."},
		matches: func(o *Overall) bool {
			return o.AverageScore < criticMaxAvg && o.AnimeCompleted > 20
		},
	},
	{
		persona: Persona{"The Hopeless Romantic", "You live for the feels and the heartbreak."},
		matches: func(o *Overall) bool { return hasAnyGenre(o, "Romance", "Drama") },
	},
	{
		persona: Persona{"The Futurist", "You dream of electric sheep and giant robots."},
		matches: func(o *Overall) bool { return hasAnyGenre(o, "Sci-Fi", "Mecha") },
	},
	{
		persona: Persona{"The Athlete", "Training arcs are your daily motivation."},
		matches: func(o *Overall) bool { return hasAnyGenre(o, "Sports") },
	},
	{
		persona: Persona{"The Edge Walker", "You stare into the abyss, and it blinks first."},
		matches: func(o *Overall) bool { return hasAnyGenre(o, "Horror", "Psychological") },
	},
	{
		persona: Persona{"The Shonen Protagonist", "You're just one training arc away from greatness."},
		matches: func(o *Overall) bool { return hasAnyGenre(o, "Action", "Adventure") },
	},
}

var defaultPersona = Persona{"The Casual Observer", "You enjoy anime at a healthy, human pace."}

// ClassifyPersona maps finalized overall stats to a persona, first match
// wins.
func ClassifyPersona(o *Overall) Persona {
	for _, rule := range personaRules {
		if rule.matches(o) {
			return rule.persona
		}
	}
	return defaultPersona
}
