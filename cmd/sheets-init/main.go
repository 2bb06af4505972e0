package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	gsheet "github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets/google"
)

// sheets-init creates the transactions and monthly_balances worksheets with
// their header rows in the configured spreadsheet. Run it once against a
// fresh spreadsheet before starting the server.
func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		log.Fatalf("initialize Google Sheets client: %v", err)
	}

	if err := cli.EnsureWorksheets(ctx); err != nil {
		log.Fatalf("ensure worksheets: %v", err)
	}

	fmt.Println("Spreadsheet is ready: transactions and monthly_balances worksheets exist.")
}
