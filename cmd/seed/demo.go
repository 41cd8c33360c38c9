// cmd/seed/demo.go
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

type demoContact struct {
	name    string
	email   string
	phone   string
	company string
	status  string
}

var demoContacts = []demoContact{
	{"Aisyah Rahman", "aisyah@kledo.my", "+60-12-345-6701", "Kledo Trading", "active"},
	{"Ben Ong", "ben.ong@orbitmedia.sg", "+65-8123-4567", "Orbit Media", "active"},
	{"Chen Wei", "chen.wei@luxebeauty.com", "+60-16-222-8034", "Luxe Beauty", "lead"},
	{"Dewi Kartika", "dewi@tokosehat.id", "+62-812-9000-1123", "Toko Sehat", "active"},
	{"Farid Zulkifli", "farid@zmgadget.my", "+60-13-770-9912", "ZM Gadget", "inactive"},
	{"Grace Lim", "grace@homehaven.sg", "+65-9456-7812", "Home Haven", "lead"},
}

type demoTicket struct {
	subject     string
	description string
	status      string
	priority    string
	requester   string
}

var demoTickets = []demoTicket{
	{
		subject:     "Live GMV upload shows zero revenue",
		description: "Uploaded yesterday's live report but the dashboard shows RM0 gross revenue for every campaign.",
		status:      "open",
		priority:    "high",
		requester:   "aisyah@kledo.my",
	},
	{
		subject:     "Request access for new analyst",
		description: "Please add our new analyst to the dashboard workspace.",
		status:      "in_progress",
		priority:    "medium",
		requester:   "ben.ong@orbitmedia.sg",
	},
	{
		subject:     "Export campaign data to CSV",
		description: "Is there a way to export the daily campaign table?",
		status:      "resolved",
		priority:    "low",
		requester:   "grace@homehaven.sg",
	},
}

func runDemoSeeder(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Seeding demo contacts...")
	for _, contact := range demoContacts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (name, email, phone, company, status, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (email) DO NOTHING`,
			contact.name, contact.email, contact.phone, contact.company, contact.status,
		); err != nil {
			return fmt.Errorf("failed to seed contact %s: %w", contact.email, err)
		}
	}

	log.Println("Seeding demo tickets...")
	for _, ticket := range demoTickets {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tickets (subject, description, status, priority, requester_email, assignee_email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, '', NOW(), NOW())
			RETURNING id`,
			ticket.subject, ticket.description, ticket.status, ticket.priority, ticket.requester,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed ticket %q: %w", ticket.subject, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ticket_messages (ticket_id, sender_email, body, created_at)
			VALUES ($1, $2, $3, NOW())`,
			id, ticket.requester, ticket.description,
		); err != nil {
			return fmt.Errorf("failed to seed first message for ticket %q: %w", ticket.subject, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded %d contacts and %d tickets", len(demoContacts), len(demoTickets))
	return nil
}
