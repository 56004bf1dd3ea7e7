package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/courtside/go-padel-stats/internal/model"
	"github.com/courtside/go-padel-stats/internal/padelapi"
	"github.com/courtside/go-padel-stats/internal/storage"
)

// ingest command flags.
var (
	// ingestCount is the maximum number of matches to ingest in one run.
	ingestCount int
	// ingestIncremental restricts the run to matches played yesterday.
	ingestIncremental bool
	// ingestAfter and ingestBefore bound the match date range (YYYY-MM-DD).
	ingestAfter  string
	ingestBefore string
)

// ingestCmd downloads matches and their point logs from the padel API.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download matches and point logs from the padel API",
	Long: `Fetches matches from padelapi.org, downloads the point-by-point score log
for each one, flattens the nested payload, and stores everything in the
local database. Already-stored matches are skipped.

Requires an API token in the PADEL_API_TOKEN environment variable, a .env
file, or ~/.padelstats/api_token.

Examples:
  # Latest 50 matches
  padelstats ingest --count 50

  # Daily run: only matches played yesterday
  padelstats ingest --incremental

  # A specific tournament window
  padelstats ingest --after 2026-03-01 --before 2026-03-08 --count 200`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestCount, "count", 50, "maximum number of matches to ingest")
	ingestCmd.Flags().BoolVar(&ingestIncremental, "incremental", false, "only ingest matches played yesterday")
	ingestCmd.Flags().StringVar(&ingestAfter, "after", "", "only matches played after this date (YYYY-MM-DD)")
	ingestCmd.Flags().StringVar(&ingestBefore, "before", "", "only matches played before this date (YYYY-MM-DD)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	token, err := loadAPIToken()
	if err != nil {
		return err
	}

	after, before := ingestAfter, ingestBefore
	if ingestIncremental {
		yesterday := time.Now().AddDate(0, 0, -1).UTC().Format("2006-01-02")
		today := time.Now().UTC().Format("2006-01-02")
		after, before = yesterday, today
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client := padelapi.NewClient(token)
	return doIngest(db, client, ingestCount, after, before)
}

// doIngest is the shared implementation for the ingest command. It pages
// through the match list until count matches have been handled or the API
// runs out.
func doIngest(db *storage.DB, client *padelapi.Client, count int, after, before string) error {
	const pageSize = 50

	ingested, skipped := 0, 0
	offset := 0
	for ingested+skipped < count {
		limit := pageSize
		if remaining := count - ingested - skipped; remaining < limit {
			limit = remaining
		}

		page, err := client.ListMatches(padelapi.ListParams{
			Limit:      limit,
			Offset:     offset,
			AfterDate:  after,
			BeforeDate: before,
		})
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		if len(page) == 0 {
			break
		}
		offset += len(page)

		for _, apiMatch := range page {
			if ingested+skipped >= count {
				break
			}

			exists, err := db.MatchExists(apiMatch.ID)
			if err != nil {
				return err
			}
			if exists {
				skipped++
				continue
			}

			fmt.Printf("[%d/%d] match %d  %s  %s\n",
				ingested+skipped+1, count, apiMatch.ID, apiMatch.PlayedAt, apiMatch.RoundName)

			score, err := client.GetMatchScore(apiMatch.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  [skip] score for %d: %v\n", apiMatch.ID, err)
				skipped++
				continue
			}

			match := padelapi.FlattenMatch(apiMatch)
			points := padelapi.FlattenScore(apiMatch.ID, score)

			if err := db.InsertMatches([]model.Match{match}); err != nil {
				return fmt.Errorf("insert match %d: %w", apiMatch.ID, err)
			}
			if err := db.InsertPoints(points); err != nil {
				return fmt.Errorf("insert points for %d: %w", apiMatch.ID, err)
			}

			fmt.Printf("  stored: %d points\n", len(points))
			ingested++
		}
	}

	fmt.Printf("\nDone: %d matches ingested, %d already stored or skipped\n", ingested, skipped)
	return nil
}

// loadAPIToken returns the padel API token from the PADEL_API_TOKEN
// environment variable, a .env file in the working directory, or
// ~/.padelstats/api_token.
func loadAPIToken() (string, error) {
	_ = godotenv.Load()
	if token := os.Getenv("PADEL_API_TOKEN"); token != "" {
		return token, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(home, ".padelstats", "api_token"))
	if err != nil {
		return "", fmt.Errorf("padel API token not found: set PADEL_API_TOKEN or create ~/.padelstats/api_token")
	}
	return strings.TrimSpace(string(data)), nil
}
