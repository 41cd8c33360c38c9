// cmd/seed/main.go
package main

import (
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with demo data and backfill historical reports",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Seed demo contacts and support tickets",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: runDemoSeeder,
			},
			{
				Name:  "backfill",
				Usage: "Import historical campaign workbooks from a directory",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory containing .xlsx report files",
						Value:   "./data/reports",
						EnvVars: []string{"BACKFILL_DIR"},
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Campaign type of the reports (live or product)",
						Value: "live",
					},
				},
				Action: runBackfill,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
