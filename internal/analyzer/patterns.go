package analyzer

import "regexp"

// namePattern is a named username predicate. Keeping the pattern list
// as data keeps each predicate unit-testable and lets the list grow
// without touching the scoring engine.
type namePattern struct {
	name string
	re   *regexp.Regexp
}

func mustPattern(name, expr string) namePattern {
	return namePattern{
		name: name,
		re:   regexp.MustCompile(`(?i)^(?:` + expr + `)$`),
	}
}

// genericPatterns flag obviously auto-generated usernames.
var genericPatterns = []namePattern{
	mustPattern("user_number", `user\d+`),
	mustPattern("dev_number", `dev\w*\d+`),
	mustPattern("bot_suffix", `\w*bot\d*`),
	mustPattern("trailing_digits", `\w+\d{4,}`),
	mustPattern("alpha_long_digits", `[a-z]+\d{6,}`),
	mustPattern("test_prefix", `(test|demo|sample)\w*\d*`),
}

// botLikePatterns is a superset of genericPatterns with looser naming
// heuristics. Any generic username is also bot-like.
var botLikePatterns = append([]namePattern{
	mustPattern("throwaway_prefix", `(test|demo|sample|fake|temp)\w*\d*`),
	mustPattern("short_alpha_digits", `[a-z]{1,3}\d{4,}`),
	mustPattern("github_in_name", `\w*github\w*\d*`),
	mustPattern("star_in_name", `\w*star\w*\d*`),
}, genericPatterns...)

func matchesAny(patterns []namePattern, username string) bool {
	for _, p := range patterns {
		if p.re.MatchString(username) {
			return true
		}
	}
	return false
}

// IsGenericUsername reports whether a username matches one of the
// auto-generated naming patterns.
func IsGenericUsername(username string) bool {
	return matchesAny(genericPatterns, username)
}

// IsBotLikeName reports whether a username matches one of the bot-like
// naming patterns.
func IsBotLikeName(username string) bool {
	return matchesAny(botLikePatterns, username)
}
