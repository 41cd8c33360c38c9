// cmd/seed/backfill.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/samhanlabs/gmvboard/internal/cache"
	"github.com/samhanlabs/gmvboard/internal/domain"
	"github.com/samhanlabs/gmvboard/internal/ingest"
	"github.com/samhanlabs/gmvboard/internal/repository/postgres"
	"github.com/samhanlabs/gmvboard/internal/service"
)

// Report files are expected to carry their report date in the name,
// e.g. live_2025-08-14.xlsx.
var fileDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func runBackfill(c *cli.Context) error {
	var campaignType domain.CampaignType
	switch strings.ToLower(c.String("type")) {
	case "live":
		campaignType = domain.CampaignTypeLive
	case "product":
		campaignType = domain.CampaignTypeProduct
	default:
		return fmt.Errorf("unknown campaign type %q, expected live or product", c.String("type"))
	}

	db, err := openDB(c)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	wrapped := postgres.Wrap(db)
	ingestService := service.NewIngestService(
		ingest.DefaultVocabulary(),
		postgres.NewCampaignRepository(wrapped),
		postgres.NewOperationLogRepository(wrapped),
		cache.NewNoopDashboardCache(),
		nil,
	)

	dir := c.String("dir")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	ctx := context.Background()
	var imported, skipped int

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".xlsx") {
			continue
		}

		reportDate := fileDateRe.FindString(entry.Name())
		if reportDate == "" {
			log.Printf("skipping %s: no report date in filename", entry.Name())
			skipped++
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		result, err := ingestService.IngestWorkbook(ctx, campaignType, reportDate, data, entry.Name(), "backfill")
		if err != nil {
			var rej *service.RejectionError
			if errors.As(err, &rej) {
				log.Printf("skipping %s: %s", entry.Name(), rej.Reason)
				for _, detail := range rej.Errors {
					log.Printf("  %s", detail)
				}
				for _, conflict := range rej.Conflicts {
					log.Printf("  %s", conflict)
				}
				skipped++
				continue
			}
			return fmt.Errorf("failed to import %s: %w", entry.Name(), err)
		}

		log.Printf("imported %s: %d processed, %d inserted, %d updated",
			entry.Name(), result.Processed, result.Inserted, result.Updated)
		imported++
	}

	log.Printf("Backfill complete: %d files imported, %d skipped", imported, skipped)
	return nil
}
