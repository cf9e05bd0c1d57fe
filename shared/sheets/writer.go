// Package sheets persists ranked results to a Google spreadsheet. The
// sheet holds the latest run only; every write replaces the previous
// contents.
package sheets

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"trendclipper/internal/models"
	"trendclipper/shared/config"

	sheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

var headerRow = []interface{}{
	"Channel Name",
	"Video Title",
	"Link",
	"Trend Score",
	"Reason for Selection",
	"View Count",
	"Like Count",
	"Views/Hour",
	"Like Ratio %",
	"Published Date",
	"Status",
}

type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewWriter builds a Writer on an OAuth-authenticated HTTP client; the
// spreadsheets scope is part of the shared token.
func NewWriter(ctx context.Context, httpClient *http.Client, cfg *config.SheetsConfig) (*Writer, error) {
	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// SaveRanked replaces the sheet contents with the header and one row per
// ranked video. Callers treat failure as non-fatal; the run's results
// remain available through the run registry either way.
func (w *Writer) SaveRanked(ctx context.Context, ranked []models.RankedCandidate) error {
	if w.spreadsheetID == "" {
		log.Println("Spreadsheet ID not configured, skipping sheet persistence")
		return nil
	}

	clearRange := fmt.Sprintf("%s!A1:K1000", w.sheetName)
	if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	headerRange := fmt.Sprintf("%s!A1:K1", w.sheetName)
	headerValues := &sheets.ValueRange{Values: [][]interface{}{headerRow}}
	if _, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, headerRange, headerValues).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}

	rows := rankedRows(ranked)
	if len(rows) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("%s!A2:K", w.sheetName)
	rowValues := &sheets.ValueRange{Values: rows}
	if _, err := w.service.Spreadsheets.Values.Append(w.spreadsheetID, appendRange, rowValues).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to append sheet rows: %w", err)
	}

	log.Printf("Saved %d videos to Google Sheets", len(rows))
	return nil
}

func rankedRows(ranked []models.RankedCandidate) [][]interface{} {
	rows := make([][]interface{}, 0, len(ranked))
	for _, video := range ranked {
		published := ""
		if !video.PublishedAt.IsZero() {
			published = video.PublishedAt.Format("2006-01-02 15:04")
		}

		rows = append(rows, []interface{}{
			video.ChannelTitle,
			video.Title,
			video.URL,
			video.Trend.Score,
			video.Trend.Reason,
			video.ViewCount,
			video.LikeCount,
			fmt.Sprintf("%.1f", video.Trend.Metrics.ViewsPerHour),
			fmt.Sprintf("%.2f", video.Trend.Metrics.LikeRatio*100),
			published,
			"Selected",
		})
	}
	return rows
}
