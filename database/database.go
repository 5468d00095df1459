package database

import (
	"database/sql"
	"fmt"

	"metagallery/logging"
	"metagallery/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a catalog database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := OpenDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	// Create table if it doesn't exist
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		prompt TEXT,
		format TEXT,
		width INTEGER,
		height INTEGER,
		inferred INTEGER,
		steps TEXT,
		scale TEXT,
		upscaled TEXT,
		upscale_amount TEXT,
		face_enhance INTEGER,
		init_image TEXT,
		init_strength TEXT,
		scanned_at TEXT,
		UNIQUE(path)
	);
	CREATE INDEX IF NOT EXISTS idx_path ON records(path);
	CREATE INDEX IF NOT EXISTS idx_prompt ON records(prompt);`

	_, err = db.Exec(createTableSQL)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Check if prompt_file column exists, add it if it doesn't
	var hasPromptFileColumn bool
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('records') WHERE name='prompt_file'").Scan(&hasPromptFileColumn)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error checking for prompt_file column: %v", err)
	}

	if !hasPromptFileColumn {
		_, err = db.Exec("ALTER TABLE records ADD COLUMN prompt_file TEXT;")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("error adding prompt_file column: %v", err)
		}
		logging.DebugLog("Added 'prompt_file' column to catalog schema")
	}

	return db, nil
}

// OpenDatabase opens an existing catalog connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// CheckRecordExists checks if an image is already in the catalog and returns
// the prompt file it was last exported to
func CheckRecordExists(db *sql.DB, path string) (bool, string, error) {
	var promptFile sql.NullString
	err := db.QueryRow("SELECT prompt_file FROM records WHERE path = ?", path).Scan(&promptFile)
	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("database error for %s: %v", path, err)
	}
	return true, promptFile.String, nil
}

// StoreRecord stores a decoded image in the catalog, replacing any earlier entry for the same path
func StoreRecord(db *sql.DB, entry types.CatalogEntry) error {
	// Prepare statement to avoid SQL injection
	stmt, err := db.Prepare(`
		INSERT OR REPLACE INTO records (
			path, prompt, format, width, height, inferred, steps, scale, upscaled,
			upscale_amount, face_enhance, init_image, init_strength, prompt_file, scanned_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %v", entry.Path, err)
	}
	defer stmt.Close()

	rec := entry.Record
	_, err = stmt.Exec(
		entry.Path,
		rec.Prompt,
		rec.Format.String(),
		rec.Width,
		rec.Height,
		rec.Inferred,
		rec.Steps,
		rec.Scale,
		rec.UpscaleFactor,
		rec.UpscaleAmount,
		rec.UpscaleFaceEnhance,
		rec.InitImagePath,
		rec.InitStrength,
		entry.PromptFile,
		entry.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("cannot insert data for %s: %v", entry.Path, err)
	}

	return nil
}

// CatalogStats contains statistics about the catalog
type CatalogStats struct {
	TotalRecords    int
	DistinctPrompts int
	UpscaledRecords int
}

// GetCatalogStats retrieves statistics about the cataloged images
func GetCatalogStats(db *sql.DB) (*CatalogStats, error) {
	var stats CatalogStats

	err := db.QueryRow("SELECT COUNT(*) FROM records").Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to get total records: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT prompt) FROM records").Scan(&stats.DistinctPrompts)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct prompts: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM records WHERE upscaled != 'no'").Scan(&stats.UpscaledRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to get upscaled records: %v", err)
	}

	return &stats, nil
}
