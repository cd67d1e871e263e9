// Package store implements the persistent research record: GORM models
// for research history, logs, resources, strategy choice, and settings,
// backed by glebarez/sqlite, per spec.md §4.9's persistence requirements
// and SPEC_FULL.md §3's gorm/sqlite entry.
package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// ResearchHistory is the durable record of one research run.
type ResearchHistory struct {
	ID              string `gorm:"primaryKey"`
	Query           string
	Mode            string
	Status          string
	CreatedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *float64
	Progress        int
	ReportPath      string
	ResearchMeta    string `gorm:"type:text"`
	ProgressLog     string `gorm:"type:text"`
}

// ResearchLog is one first-class log row, for efficient filtering by
// level and research ID independent of the legacy progress_log column.
type ResearchLog struct {
	ID         uint `gorm:"primaryKey;autoIncrement"`
	ResearchID string `gorm:"index"`
	Time       time.Time
	Level      string
	Message    string
	Metadata   string `gorm:"type:text"`
}

// ResearchResource is one source/resource attached to a research,
// identified by a Snowflake ID so resources remain orderable and
// globally unique across concurrent researches without a DB round trip.
type ResearchResource struct {
	ID         string `gorm:"primaryKey"`
	ResearchID string `gorm:"index"`
	Title      string
	Link       string
	SourceType string
	Index      int
}

// ResearchStrategy records the strategy selected for a research, one-to-
// one with ResearchHistory.
type ResearchStrategy struct {
	ResearchID   string `gorm:"primaryKey"`
	StrategyName string
}

// Settings is the single-row, read-mostly configuration snapshot that
// new researches start from; a running research reads only the snapshot
// captured at its own start, never live Settings (spec.md §5's "settings
// snapshot" guidance).
type Settings struct {
	ID                    uint `gorm:"primaryKey;autoIncrement"`
	Provider              string
	Model                 string
	SearchEngine          string
	Iterations            int
	QuestionsPerIteration int
	MaxResults            int
	TimePeriod            string
}

// Open opens (creating if absent) a sqlite-backed GORM DB at path and
// migrates every model.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&ResearchHistory{},
		&ResearchLog{},
		&ResearchResource{},
		&ResearchStrategy{},
		&Settings{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return db, nil
}
