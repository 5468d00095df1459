package scanner

import (
	"database/sql"
	"time"

	"metagallery/database"
	"metagallery/logging"
	"metagallery/types"
)

// CatalogSink records every decoded image in the catalog database. The
// catalog is optional, so a failed write is logged and counted but never
// stops the scan.
type CatalogSink struct {
	db         *sql.DB
	promptFile string
	now        func() time.Time

	Added   int
	Updated int
	Failed  int
}

// NewCatalogSink creates a sink that tags entries with the prompt file they were exported to
func NewCatalogSink(db *sql.DB, promptFile string) *CatalogSink {
	return &CatalogSink{db: db, promptFile: promptFile, now: time.Now}
}

// AddRecord implements RecordSink
func (c *CatalogSink) AddRecord(img ImageRef, rec types.DecodedRecord) error {
	exists, previous, err := database.CheckRecordExists(c.db, img.Path)
	if err != nil {
		c.fail(img.Path, err)
		return nil
	}

	err = database.StoreRecord(c.db, types.CatalogEntry{
		Path:       img.Path,
		PromptFile: c.promptFile,
		ScannedAt:  c.now().Format(time.RFC3339),
		Record:     rec,
	})
	if err != nil {
		c.fail(img.Path, err)
		return nil
	}

	if exists {
		c.Updated++
		logging.DebugLog("Updated catalog entry for %s (last exported to %s)", img.Path, previous)
	} else {
		c.Added++
	}
	return nil
}

func (c *CatalogSink) fail(path string, err error) {
	c.Failed++
	logging.LogWarning("Catalog write skipped for %s: %v", path, err)
}
