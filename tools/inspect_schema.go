package main

import (
	"fmt"
	"log"
	"os"

	"github.com/localnerve/dossierdb/internal/config"
	"github.com/localnerve/dossierdb/internal/database"
	"go.uber.org/zap"
)

// Migrates the dossier schema into the configured database (an in-memory
// SQLite when DB_TYPE is unset) and prints the resulting tables and columns.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if os.Getenv("DB_TYPE") == "" {
		cfg.DBType, cfg.DBDatabase = "sqlite", ":memory:"
	}

	db, err := database.Connect(cfg, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		log.Fatal(err)
	}

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		columns, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			log.Fatal(err)
		}
		for _, col := range columns {
			nullable, _ := col.Nullable()
			pk, _ := col.PrimaryKey()
			fmt.Printf("  %-20s %-16s null=%-5t pk=%t\n", col.Name(), col.DatabaseTypeName(), nullable, pk)
		}
	}
}
