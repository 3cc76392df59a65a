package markets

import "strings"

// marketAliases maps raw upstream market identifiers to one canonical display
// label. The upstream feed is inconsistent about spelling, casing and
// underscores, so the same market shows up under several keys. Lookups are
// case-insensitive; keys here are stored lowercase.
var marketAliases = map[string]string{
	// Football passing
	"passing_yards":          "Passing Yards",
	"passingyards":           "Passing Yards",
	"pass_yards":             "Passing Yards",
	"passing yards":          "Passing Yards",
	"passing_attempts":       "Passing Attempts",
	"passingattempts":        "Passing Attempts",
	"pass_attempts":          "Passing Attempts",
	"passing_completions":    "Passing Completions",
	"passingcompletions":     "Passing Completions",
	"pass_completions":       "Passing Completions",
	"passing_touchdowns":     "Passing Touchdowns",
	"passingtouchdowns":      "Passing Touchdowns",
	"passing_tds":            "Passing Touchdowns",
	"pass_tds":               "Passing Touchdowns",
	"passing_interceptions":  "Passing Interceptions",
	"interceptions":          "Passing Interceptions",
	"passing_longestcompletion": "Longest Completion",

	// Football rushing/receiving
	"rushing_yards":            "Rushing Yards",
	"rushingyards":             "Rushing Yards",
	"rush_yards":               "Rushing Yards",
	"rushing_attempts":         "Rushing Attempts",
	"rushingattempts":          "Rushing Attempts",
	"carries":                  "Rushing Attempts",
	"rushing_touchdowns":       "Rushing Touchdowns",
	"rushing_tds":              "Rushing Touchdowns",
	"receiving_yards":          "Receiving Yards",
	"receivingyards":           "Receiving Yards",
	"rec_yards":                "Receiving Yards",
	"receptions":               "Receptions",
	"receiving_receptions":     "Receptions",
	"receiving_touchdowns":     "Receiving Touchdowns",
	"receiving_tds":            "Receiving Touchdowns",
	"rushing+receiving_yards":  "Rushing + Receiving Yards",
	"rushing_receiving_yards":  "Rushing + Receiving Yards",
	"rush_rec_yards":           "Rushing + Receiving Yards",
	"passing+rushing_yards":    "Passing + Rushing Yards",

	// Football kicking/defense
	"fieldgoals_made":      "Field Goals Made",
	"field_goals_made":     "Field Goals Made",
	"fg_made":              "Field Goals Made",
	"kicking_totalpoints":  "Kicking Points",
	"kicking_points":       "Kicking Points",
	"extrapoints_kicksmade": "Extra Points Made",
	"defense_sacks":        "Sacks",
	"sacks":                "Sacks",
	"defense_interceptions": "Defensive Interceptions",
	"tackles+assists":      "Tackles + Assists",
	"defense_combinedtackles": "Tackles + Assists",
	"touchdowns":           "Touchdowns",
	"anytime_touchdown":    "Anytime Touchdown",
	"firsttouchdown":       "First Touchdown",
	"first_touchdown":      "First Touchdown",

	// Basketball
	"points":                    "Points",
	"player_points":             "Points",
	"rebounds":                  "Rebounds",
	"player_rebounds":           "Rebounds",
	"assists":                   "Assists",
	"player_assists":            "Assists",
	"points+rebounds+assists":   "Points + Rebounds + Assists",
	"points_rebounds_assists":   "Points + Rebounds + Assists",
	"pra":                       "Points + Rebounds + Assists",
	"points+rebounds":           "Points + Rebounds",
	"points_rebounds":           "Points + Rebounds",
	"points+assists":            "Points + Assists",
	"points_assists":            "Points + Assists",
	"rebounds+assists":          "Rebounds + Assists",
	"rebounds_assists":          "Rebounds + Assists",
	"threepointers_made":        "Three Pointers Made",
	"three_pointers_made":       "Three Pointers Made",
	"threes":                    "Three Pointers Made",
	"player_threes":             "Three Pointers Made",
	"steals":                    "Steals",
	"player_steals":             "Steals",
	"blocks":                    "Blocks",
	"player_blocks":             "Blocks",
	"turnovers":                 "Turnovers",
	"player_turnovers":          "Turnovers",

	// Hockey / baseball spillover seen in the feed
	"shots_ongoal":    "Shots On Goal",
	"shots_on_goal":   "Shots On Goal",
	"goals":           "Goals",
	"saves":           "Saves",
	"hits":            "Hits",
	"strikeouts":      "Strikeouts",
	"pitching_strikeouts": "Strikeouts",
	"total_bases":     "Total Bases",
	"home_runs":       "Home Runs",
	"batting_homeruns": "Home Runs",
	"runs_batted_in":  "Runs Batted In",
	"batting_rbi":     "Runs Batted In",

	// Team-scoped markets
	"team_total":        "Team Total Points",
	"team_total_points": "Team Total Points",
	"total_points":      "Total Points",
	"points_total":      "Total Points",
	"first_half_total":  "First Half Total",
	"team_touchdowns":   "Team Touchdowns",
	"team_fieldgoals":   "Team Field Goals",
}

// CanonicalLabel returns the alias-table entry for a raw identifier, if any
func CanonicalLabel(raw string) (string, bool) {
	label, ok := marketAliases[strings.ToLower(strings.TrimSpace(raw))]
	return label, ok
}
