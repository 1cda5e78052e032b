package s3_report

import (
	"regexp"
	"strconv"
)

var gameIDPattern = regexp.MustCompile(`^(\d{4})_(\d{1,2})_([A-Z]{2,3})_([A-Z]{2,3})$`)

// GameID is a parsed SEASON_WEEK_AWAY_HOME identifier
type GameID struct {
	Raw    string
	Season int
	Week   int
	Away   string
	Home   string
}

// ParseGameID parses an nflverse game identifier such as 2023_01_DET_KC
func ParseGameID(s string) (GameID, error) {
	m := gameIDPattern.FindStringSubmatch(s)
	if m == nil {
		return GameID{}, invalidID(s)
	}

	season, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])

	return GameID{
		Raw:    s,
		Season: season,
		Week:   week,
		Away:   m[3],
		Home:   m[4],
	}, nil
}
