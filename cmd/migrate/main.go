package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// CLI flags
var (
	dryRun     = flag.Bool("dry-run", false, "Run without committing to database")
	importFile = flag.String("import", "", "Optional JSON export of catch attempts to backfill")
	dbHost     = flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort     = flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser     = flag.String("db-user", "pokedex", "PostgreSQL user")
	dbPass     = flag.String("db-pass", "", "PostgreSQL password")
	dbName     = flag.String("db-name", "pokedex", "PostgreSQL database")
	verbose    = flag.Bool("verbose", false, "Verbose output")
)

// schemaStatements set up the catches table the bot writes on every throw.
// Statements are idempotent so the tool can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS catches (
		id BIGSERIAL PRIMARY KEY,
		room TEXT NOT NULL,
		sender TEXT NOT NULL,
		creature_id INTEGER NOT NULL,
		creature_name TEXT NOT NULL,
		power_score INTEGER NOT NULL,
		catch_chance DOUBLE PRECISION NOT NULL,
		success BOOLEAN NOT NULL,
		caught_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catches_room ON catches (room)`,
	`CREATE INDEX IF NOT EXISTS idx_catches_room_sender ON catches (room, sender)`,
}

// ExportedAttempt matches the JSON export format of the old file-based bot.
type ExportedAttempt struct {
	Room         string  `json:"room"`
	Sender       string  `json:"sender"`
	CreatureID   int     `json:"creatureId"`
	CreatureName string  `json:"creatureName"`
	PowerScore   int     `json:"powerScore"`
	CatchChance  float64 `json:"catchChance"`
	Success      bool    `json:"success"`
	CaughtAt     string  `json:"caughtAt"`
}

func main() {
	flag.Parse()

	log.Println("===========================")
	log.Println("Catches Schema Migration")
	log.Println("===========================")

	if *dryRun {
		log.Println("[DRY RUN MODE] No database changes will be made")
	}

	var attempts []ExportedAttempt
	if *importFile != "" {
		loaded, err := loadExport(*importFile)
		if err != nil {
			log.Fatalf("Failed to load export %s: %v", *importFile, err)
		}
		attempts = loaded
		log.Printf("✓ Loaded %d catch attempts from %s", len(attempts), *importFile)

		if err := validateExport(attempts); err != nil {
			log.Fatalf("Export validation failed: %v", err)
		}
		log.Println("✓ Export validation passed")
	}

	if *dryRun {
		printPlan(attempts)
		log.Println("✓ Dry-run completed successfully")
		return
	}

	db, err := connectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := applySchema(db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("✓ Schema applied")

	if len(attempts) > 0 {
		if err := insertAttempts(db, attempts); err != nil {
			log.Fatalf("Failed to backfill attempts: %v", err)
		}
	}

	log.Println("✓ Migration completed successfully")
}

func loadExport(path string) ([]ExportedAttempt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Attempts []ExportedAttempt `json:"attempts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc.Attempts, nil
}

func validateExport(attempts []ExportedAttempt) error {
	for i, a := range attempts {
		if a.Room == "" {
			return fmt.Errorf("attempt %d: missing room", i)
		}
		if a.Sender == "" {
			return fmt.Errorf("attempt %d: missing sender", i)
		}
		if a.CreatureID < 1 {
			return fmt.Errorf("attempt %d (%s): invalid creature id %d", i, a.CreatureName, a.CreatureID)
		}
		if _, err := time.Parse(time.RFC3339, a.CaughtAt); err != nil {
			return fmt.Errorf("attempt %d (%s): bad caughtAt %q: %v", i, a.CreatureName, a.CaughtAt, err)
		}
	}

	return nil
}

func connectDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		*dbHost, *dbPort, *dbUser, *dbPass, *dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(db *sql.DB) error {
	ctx := context.Background()

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement failed: %w\n%s", err, stmt)
		}
		if *verbose {
			log.Printf("  → Applied: %.60s...", stmt)
		}
	}

	return nil
}

func insertAttempts(db *sql.DB, attempts []ExportedAttempt) error {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, a := range attempts {
		caughtAt, _ := time.Parse(time.RFC3339, a.CaughtAt)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO catches (room, sender, creature_id, creature_name, power_score, catch_chance, success, caught_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.Room, a.Sender, a.CreatureID, a.CreatureName, a.PowerScore, a.CatchChance, a.Success, caughtAt)
		if err != nil {
			return fmt.Errorf("failed to insert attempt %d (%s): %w", i, a.CreatureName, err)
		}

		if *verbose {
			log.Printf("  → Inserted: %s by %s in %s", a.CreatureName, a.Sender, a.Room)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("✓ Backfilled %d catch attempts", len(attempts))
	return nil
}

func printPlan(attempts []ExportedAttempt) {
	log.Println("\n===== Migration Plan =====")
	log.Printf("Schema statements: %d", len(schemaStatements))

	if len(attempts) > 0 {
		rooms := make(map[string]int)
		successes := 0
		for _, a := range attempts {
			rooms[a.Room]++
			if a.Success {
				successes++
			}
		}
		log.Printf("Backfill: %d attempts (%d successful) across %d rooms", len(attempts), successes, len(rooms))
	} else {
		log.Println("Backfill: none (no -import file)")
	}
	log.Println("==========================")
}
