// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the lead capture schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS leads (id TEXT PRIMARY KEY, session_id TEXT NOT NULL, email TEXT NOT NULL UNIQUE, encrypted_email TEXT, first_name TEXT, role TEXT NOT NULL, experience_band TEXT NOT NULL, skills TEXT, tier TEXT, discount_pct INTEGER NOT NULL DEFAULT 0, source TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS reengagement_queue (id TEXT PRIMARY KEY, lead_id TEXT NOT NULL REFERENCES leads(id), variant TEXT NOT NULL, due_at TIMESTAMP NOT NULL, sent_at TIMESTAMP, UNIQUE(lead_id, variant))`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_session_id ON leads(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_reengagement_queue_due_at ON reengagement_queue(due_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reengagement_queue_lead_id ON reengagement_queue(lead_id)`,
}
