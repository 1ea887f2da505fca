package database

import (
	"context"
	"log"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	log.Println("Creating database tables...")

	// Ideas table: one row per idea, structured sub-documents as JSONB so the
	// enrichment transitions can set, unset and append fields independently.
	ideasTable := `
	CREATE TABLE IF NOT EXISTS ideas (
		id UUID PRIMARY KEY,
		creator_id VARCHAR(100) NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		forge_spec JSONB,
		market_research JSONB,
		score DOUBLE PRECISION,
		viability_breakdown JSONB,
		pillar_reasons JSONB,
		risks JSONB,
		kill_switch TEXT,
		reality_check TEXT,
		roadmap JSONB,
		deep_dive JSONB,
		smaller_sparks JSONB NOT NULL DEFAULT '[]',
		evolution_history JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ideas_creator ON ideas(creator_id, created_at DESC);
	`

	if _, err := db.Pool.Exec(ctx, ideasTable); err != nil {
		return err
	}

	log.Println("✅ All tables created successfully")
	return nil
}
