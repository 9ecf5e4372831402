package sheets

import (
	"context"
	"fmt"
	"log"
	"os"

	"prodtrack/internal/reports"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// ExportService appends production report rows to a configured Google
// Sheet so the shop office can keep working from spreadsheets.
type ExportService struct {
	sheetsService *sheets.Service
	spreadsheetID string
}

func NewExportService() (*ExportService, error) {
	ctx := context.Background()

	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SHEETS_SPREADSHEET_ID is not set")
	}

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		// Local file fallback for development environments.
		credentialsFile := "configs/google-credentials.json"
		b, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("cannot read credentials file: %v", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}

	if err != nil {
		return nil, fmt.Errorf("cannot load Google credentials: %v", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("cannot create Google Sheets client: %v", err)
	}

	return &ExportService{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// ExportProductionSummary appends one row per (line item, stage) total to
// the "Production" sheet.
func (s *ExportService) ExportProductionSummary(rows []reports.ProductionSummaryRow) error {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, []interface{}{
			row.OrderNumber,
			row.LineItemID,
			row.ProductName,
			row.Ordered,
			row.Stage,
			row.TotalQuantity,
		})
	}

	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.sheetsService.Spreadsheets.Values.
		Append(s.spreadsheetID, "Production!A1", valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("cannot append to spreadsheet: %v", err)
	}

	log.Printf("Exported %d production summary rows to spreadsheet", len(values))
	return nil
}
