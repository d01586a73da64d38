package screening

import (
	"regexp"

	"brand-suitability/backend/internal/analysis"
)

// Category binds a GARM risk category to its literal keyword patterns and
// the definition handed to the deep analyzer.
type Category struct {
	Key        analysis.CategoryKey
	Name       string
	Definition string
	Patterns   []string
}

// Taxonomy is the fixed, ordered 12-category GARM table. Loaded once at
// process start and immutable thereafter; the screener, the toxicity
// mapping and the deep-analyzer prompt all read from it.
var Taxonomy = []Category{
	{
		Key:        analysis.CategoryAdultContent,
		Name:       "Adult & Explicit Sexual Content",
		Definition: "Sexually explicit material, nudity, pornography",
		Patterns: []string{
			"porn", "xxx", "explicit", "nude", "naked", "sex", "sexual", "erotic",
			"nsfw", "adult content", "pornography", "obscene", "lewd",
		},
	},
	{
		Key:        analysis.CategoryArmsAmmunition,
		Name:       "Arms & Ammunition",
		Definition: "Weapons, firearms, ammunition sales or promotion",
		Patterns: []string{
			"gun", "guns", "weapon", "firearms", "ammunition", "rifle", "pistol",
			"handgun", "shotgun", "assault rifle", "bullets", "armory", "arsenal",
		},
	},
	{
		Key:        analysis.CategoryCrimeHarmfulActs,
		Name:       "Crime & Harmful Acts",
		Definition: "Criminal activity, violence, harmful behaviors",
		Patterns: []string{
			"murder", "kill", "assault", "robbery", "theft", "crime", "criminal",
			"illegal", "fraud", "scam", "vandalism", "arson", "kidnapping", "rape",
		},
	},
	{
		Key:        analysis.CategoryDeathInjuryConflict,
		Name:       "Death, Injury, or Military Conflict",
		Definition: "Graphic injuries, death, war coverage",
		Patterns: []string{
			"death", "died", "dead", "killed", "fatality", "casualty", "war",
			"battle", "combat", "military", "bombing", "explosion", "wounded", "injured",
		},
	},
	{
		Key:        analysis.CategoryOnlinePiracy,
		Name:       "Online Piracy",
		Definition: "Copyright infringement, illegal downloads, counterfeits",
		Patterns: []string{
			"pirated", "torrent", "crack", "warez", "keygen", "illegal download",
			"copyright infringement", "bootleg", "counterfeit",
		},
	},
	{
		Key:        analysis.CategoryHateSpeech,
		Name:       "Hate Speech & Acts of Aggression",
		Definition: "Discrimination, bigotry, hate groups",
		Patterns: []string{
			"hate", "racist", "racism", "nazi", "supremacist", "bigot", "discrimination",
			"slur", "xenophobia", "islamophobia", "antisemitic", "homophobic",
		},
	},
	{
		Key:        analysis.CategoryObscenityProfanity,
		Name:       "Obscenity & Profanity",
		Definition: "Excessive profanity, vulgar language",
		Patterns: []string{
			"fuck", "shit", "damn", "ass", "bitch", "bastard", "crap", "piss",
			"hell", "bloody", "curse", "profanity", "swear",
		},
	},
	{
		Key:        analysis.CategoryDrugsAlcoholTobacco,
		Name:       "Illegal Drugs/Tobacco/e-Cigarettes/Vaping/Alcohol",
		Definition: "Drug use, smoking, alcohol promotion",
		Patterns: []string{
			"drug", "cocaine", "heroin", "marijuana", "cannabis", "meth", "lsd",
			"cigarette", "tobacco", "vape", "vaping", "smoking", "alcohol", "drunk",
			"weed", "stoned",
		},
	},
	{
		Key:        analysis.CategorySpamHarmful,
		Name:       "Spam or Harmful Content",
		Definition: "Malware, phishing, misleading content",
		Patterns: []string{
			"spam", "click here", "buy now", "limited offer", "act now", "free money",
			"virus", "malware", "phishing", "scam", "fake", "clickbait",
		},
	},
	{
		Key:        analysis.CategoryTerrorism,
		Name:       "Terrorism",
		Definition: "Terrorist organizations, extremism, radicalization",
		Patterns: []string{
			"terrorist", "terrorism", "isis", "al qaeda", "extremist", "radicalization",
			"jihad", "bombing", "suicide bomber", "attack",
		},
	},
	{
		Key:        analysis.CategoryDebatedSocialIssues,
		Name:       "Debated Sensitive Social Issues",
		Definition: "Abortion, immigration, controversial politics",
		Patterns: []string{
			"abortion", "euthanasia", "immigration", "lgbtq", "transgender", "gay marriage",
			"climate change denial", "vaccine", "anti-vax", "political", "election fraud",
		},
	},
	{
		Key:        analysis.CategoryMilitaryConflict,
		Name:       "Military Conflict",
		Definition: "War zones, military operations, armed conflict",
		Patterns: []string{
			"war", "warfare", "military conflict", "invasion", "occupation", "airstrike",
			"drone strike", "soldiers", "troops", "battlefield", "siege",
		},
	},
}

// toxicityMembership maps each of the five toxicity flags to the category
// whose detection raises it.
var toxicityMembership = map[string]analysis.CategoryKey{
	"hateSpeech":    analysis.CategoryHateSpeech,
	"violence":      analysis.CategoryCrimeHarmfulActs,
	"adultContent":  analysis.CategoryAdultContent,
	"profanity":     analysis.CategoryObscenityProfanity,
	"controversial": analysis.CategoryDebatedSocialIssues,
}

type matcher struct {
	pattern string
	re      *regexp.Regexp
}

var matchers = buildMatchers()

// buildMatchers compiles one whole-word matcher per pattern. Word
// boundaries keep "ass" from matching inside "assassin" and multi-word
// phrases match across the intervening whitespace as written.
func buildMatchers() map[analysis.CategoryKey][]matcher {
	out := make(map[analysis.CategoryKey][]matcher, len(Taxonomy))
	for _, cat := range Taxonomy {
		list := make([]matcher, 0, len(cat.Patterns))
		for _, p := range cat.Patterns {
			list = append(list, matcher{
				pattern: p,
				re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`),
			})
		}
		out[cat.Key] = list
	}
	return out
}

// CategoryName returns the display name for a taxonomy key, or "" when the
// key is not part of the taxonomy.
func CategoryName(key analysis.CategoryKey) string {
	for _, cat := range Taxonomy {
		if cat.Key == key {
			return cat.Name
		}
	}
	return ""
}

// ToxicityFor derives the five fixed toxicity booleans from category
// detections via the membership table.
func ToxicityFor(result analysis.ScreeningResult) analysis.ToxicityFlags {
	detected := func(flag string) bool {
		key, ok := toxicityMembership[flag]
		if !ok {
			return false
		}
		return result.Categories[key].Detected
	}
	return analysis.ToxicityFlags{
		HateSpeech:    detected("hateSpeech"),
		Violence:      detected("violence"),
		AdultContent:  detected("adultContent"),
		Profanity:     detected("profanity"),
		Controversial: detected("controversial"),
	}
}
