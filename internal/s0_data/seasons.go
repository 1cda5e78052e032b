package s0_data

import (
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// seasonAssetPattern matches play_by_play_<season>.<ext> asset names
var seasonAssetPattern = regexp.MustCompile(`^play_by_play_(\d{4})\.(csv\.gz|csv|parquet|rds|qs)$`)

// ParseSeasonAssets extracts seasons from a release asset listing page
func ParseSeasonAssets(r io.Reader) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[int]bool)
	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		candidates := []string{strings.TrimSpace(a.Text())}
		if href, ok := a.Attr("href"); ok {
			candidates = append(candidates, path.Base(href))
		}

		for _, name := range candidates {
			m := seasonAssetPattern.FindStringSubmatch(name)
			if m == nil {
				continue
			}
			season, err := strconv.Atoi(m[1])
			if err == nil {
				seen[season] = true
			}
		}
	})

	seasons := make([]int, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)

	return seasons, nil
}
