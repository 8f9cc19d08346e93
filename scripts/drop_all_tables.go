// Dev utility: drops every application table (and the goose version table)
// so migrations can be re-applied from scratch. Refuses to run against prod.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "prod" {
		log.Fatal("refusing to drop tables in prod")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" && env == "test" {
		prefix = "test_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	tables := []string{
		"user_documents",
		"invites",
		"document_ownership",
		"documents",
		"folders",
		"goose_db_version",
	}

	for _, table := range tables {
		name := prefix + table
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			log.Fatalf("drop %s: %v", name, err)
		}
		fmt.Printf("dropped %s\n", name)
	}
}
