// Package e2e provides end-to-end tests driving the full ingest and search pipeline.
package e2e

import (
	"encoding/json"
	"fmt"
)

// E2EMedia is a media attachment on a corpus tweet, shaped like an export entry.
type E2EMedia struct {
	Type     string
	URL      string
	Original string
}

// E2ETweet is a tweet entry in the E2E corpus.
type E2ETweet struct {
	ID            string
	ScreenName    string
	Name          string
	FullText      string
	CreatedAt     string
	BookmarkCount int64
	FavoriteCount int64
	Media         []E2EMedia
}

// QueryTestCase defines a query and the tweet ID(s) that must appear in search
// results. Queries are literal substrings of their target tweets' text so the
// cases pass under both ranked and substring search.
type QueryTestCase struct {
	Query            string
	ExpectedTweetIDs []string
	Description      string
}

// Corpus holds tweets and query test cases for E2E tests.
type Corpus struct {
	Tweets       []E2ETweet
	TestCases    []QueryTestCase
	TotalTweets  int
	TotalQueries int
}

// BuildCorpus returns a corpus of tweets with varied content and multiple query
// test cases. Each topic tweet carries a unique signature phrase so queries can
// assert the correct tweet is returned.
func BuildCorpus() *Corpus {
	tweets := buildTweets()
	cases := buildQueryTestCases(tweets)
	return &Corpus{
		Tweets:       tweets,
		TestCases:    cases,
		TotalTweets:  len(tweets),
		TotalQueries: len(cases),
	}
}

var corpusTopics = []struct {
	phrase string
	text   string
}{
	{"goroutine scheduler internals", "Great thread on goroutine scheduler internals. The run queue stealing part finally clicked for me."},
	{"sqlite journal modes", "Notes on sqlite journal modes and why readers never block writers under WAL."},
	{"kubernetes pod eviction", "Everything I know about kubernetes pod eviction in one diagram. Save this one."},
	{"rust borrow checker", "The rust borrow checker explained with restaurant table analogies. Surprisingly good."},
	{"postgres query planner", "Deep dive into the postgres query planner and why your index is being ignored."},
	{"terminal escape sequences", "A field guide to terminal escape sequences. Bookmarking before I lose it again."},
	{"homemade ramen broth", "Finally nailed homemade ramen broth after six attempts. Recipe in the replies."},
	{"film photography scanning", "My film photography scanning setup, start to finish. Negatives to prints."},
	{"mechanical keyboard lube", "Before and after mechanical keyboard lube comparison. The sound difference is real."},
	{"urban sketching perspective", "Quick urban sketching perspective tricks that make buildings stop leaning."},
	{"sourdough starter schedule", "My sourdough starter schedule for people with actual jobs. Feed it twice, walk away."},
	{"cat pictures thread", "Obligatory cat pictures thread. Day 47 of posting the void until she learns to fetch."},
	{"bouldering heel hooks", "Why your bouldering heel hooks keep slipping, and the hip position that fixes it."},
	{"jazz chord voicings", "Ten jazz chord voicings that instantly sound expensive. Tabs attached."},
	{"night sky timelapse", "Shot a night sky timelapse from the fire lookout. Four hours compressed into twenty seconds."},
	{"zine printing layout", "Zine printing layout cheat sheet: imposition, bleed, and why page counts are multiples of four."},
	{"bicycle chain waxing", "Switched to bicycle chain waxing a year ago. Drivetrain still looks new. Never going back."},
	{"fermented hot sauce", "Fermented hot sauce batch three. Pineapple habanero. The garage smells incredible and dangerous."},
	{"handwriting practice drills", "Handwriting practice drills that actually transfer to everyday notes, not just copybook pages."},
	{"birdwatching migration map", "Interactive birdwatching migration map for the flyway. Warblers due in two weeks."},
}

func buildTweets() []E2ETweet {
	var tweets []E2ETweet
	for i, topic := range corpusTopics {
		id := fmt.Sprintf("%d", 1700000000000000000+int64(i))
		tw := E2ETweet{
			ID:            id,
			ScreenName:    fmt.Sprintf("user%02d", i),
			Name:          fmt.Sprintf("User %02d", i),
			FullText:      topic.text,
			CreatedAt:     fmt.Sprintf("2024-05-%02dT10:%02d:00.000Z", (i%28)+1, i%60),
			BookmarkCount: int64(10 * (i + 1)),
			FavoriteCount: int64(100 * (i + 1)),
		}
		// Every third tweet carries media so filter cases have matches.
		if i%3 == 0 {
			tw.Media = []E2EMedia{{
				Type: "photo",
				URL:  fmt.Sprintf("https://pbs.example.com/media/shot_%02d.jpg", i),
			}}
		}
		tweets = append(tweets, tw)
	}
	// Filler tweets that share no signature phrases, to keep queries selective.
	for i := 0; i < 30; i++ {
		tweets = append(tweets, E2ETweet{
			ID:            fmt.Sprintf("%d", 1710000000000000000+int64(i)),
			ScreenName:    fmt.Sprintf("noise%02d", i),
			Name:          fmt.Sprintf("Noise %02d", i),
			FullText:      fmt.Sprintf("Unrelated filler update number %d with nothing in common.", i),
			CreatedAt:     fmt.Sprintf("2024-06-%02dT08:00:00.000Z", (i%28)+1),
			BookmarkCount: 1,
			FavoriteCount: 2,
		})
	}
	return tweets
}

func buildQueryTestCases(tweets []E2ETweet) []QueryTestCase {
	var cases []QueryTestCase
	for i, topic := range corpusTopics {
		cases = append(cases, QueryTestCase{
			Query:            topic.phrase,
			ExpectedTweetIDs: []string{tweets[i].ID},
			Description:      fmt.Sprintf("signature phrase %q finds its tweet", topic.phrase),
		})
	}
	return cases
}

// ToRecords converts the corpus tweets into export-shaped records, the same
// shape a bookmark JSON export file contains.
func (c *Corpus) ToRecords() []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(c.Tweets))
	for _, tw := range c.Tweets {
		rec := map[string]interface{}{
			"id":             tw.ID,
			"screen_name":    tw.ScreenName,
			"name":           tw.Name,
			"full_text":      tw.FullText,
			"created_at":     tw.CreatedAt,
			"bookmark_count": tw.BookmarkCount,
			"favorite_count": tw.FavoriteCount,
			"url":            fmt.Sprintf("https://x.example.com/%s/status/%s", tw.ScreenName, tw.ID),
		}
		if len(tw.Media) > 0 {
			var media []map[string]interface{}
			for _, m := range tw.Media {
				entry := map[string]interface{}{"type": m.Type, "url": m.URL}
				if m.Original != "" {
					entry["original"] = m.Original
				}
				media = append(media, entry)
			}
			rec["media"] = media
		}
		records = append(records, rec)
	}
	return records
}

// ExportJSON marshals records as a bookmark export file body.
func ExportJSON(records []map[string]interface{}) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}
