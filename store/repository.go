package store

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository wraps a *gorm.DB with the research-domain queries the
// service layer needs, keeping raw GORM calls out of research/.
type Repository struct {
	db        *gorm.DB
	resources *snowflake.Node
}

// NewRepository builds a Repository. nodeID distinguishes resource-ID
// generation across multiple process instances sharing one database;
// a single-process deployment can pass 0.
func NewRepository(db *gorm.DB, nodeID int64) (*Repository, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("store: create snowflake node: %w", err)
	}
	return &Repository{db: db, resources: node}, nil
}

// CreateResearch inserts a new in-progress record.
func (r *Repository) CreateResearch(h *ResearchHistory) error {
	if err := r.db.Create(h).Error; err != nil {
		return fmt.Errorf("store: create research: %w", err)
	}
	return nil
}

// GetResearch loads one research by ID.
func (r *Repository) GetResearch(id string) (*ResearchHistory, error) {
	var h ResearchHistory
	if err := r.db.First(&h, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("store: get research %s: %w", id, err)
	}
	return &h, nil
}

// UpdateResearch persists changes to an existing record.
func (r *Repository) UpdateResearch(h *ResearchHistory) error {
	if err := r.db.Save(h).Error; err != nil {
		return fmt.Errorf("store: update research %s: %w", h.ID, err)
	}
	return nil
}

// InProgressResearches returns every record currently marked in_progress,
// the set research.Service checks against ActiveResearchManager's worker
// liveness to reap stale rows before enforcing the single-active-research
// invariant.
func (r *Repository) InProgressResearches() ([]ResearchHistory, error) {
	var hs []ResearchHistory
	if err := r.db.Where("status = ?", "in_progress").Find(&hs).Error; err != nil {
		return nil, fmt.Errorf("store: list in-progress researches: %w", err)
	}
	return hs, nil
}

// AppendLog inserts one first-class log row and, at milestones, the
// caller is expected to have already decided to call this (the milestone
// gating itself lives in research.Service, not here).
func (r *Repository) AppendLog(entry *ResearchLog) error {
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("store: append log: %w", err)
	}
	return nil
}

// Logs returns every log row for researchID, oldest first.
func (r *Repository) Logs(researchID string) ([]ResearchLog, error) {
	var logs []ResearchLog
	if err := r.db.Where("research_id = ?", researchID).Order("time asc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("store: list logs for %s: %w", researchID, err)
	}
	return logs, nil
}

// AddResource persists one resource with a fresh Snowflake ID and
// returns it.
func (r *Repository) AddResource(researchID, title, link, sourceType string, index int) (*ResearchResource, error) {
	res := &ResearchResource{
		ID:         r.resources.Generate().String(),
		ResearchID: researchID,
		Title:      title,
		Link:       link,
		SourceType: sourceType,
		Index:      index,
	}
	if err := r.db.Create(res).Error; err != nil {
		return nil, fmt.Errorf("store: add resource: %w", err)
	}
	return res, nil
}

// Resources returns every resource attached to researchID, in index order.
func (r *Repository) Resources(researchID string) ([]ResearchResource, error) {
	var resources []ResearchResource
	if err := r.db.Where("research_id = ?", researchID).Order("\"index\" asc").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("store: list resources for %s: %w", researchID, err)
	}
	return resources, nil
}

// SetStrategy records which strategy a research used.
func (r *Repository) SetStrategy(researchID, strategyName string) error {
	s := ResearchStrategy{ResearchID: researchID, StrategyName: strategyName}
	if err := r.db.Save(&s).Error; err != nil {
		return fmt.Errorf("store: set strategy for %s: %w", researchID, err)
	}
	return nil
}

// CurrentSettings returns the single settings row, creating a zero-value
// default row if none exists yet.
func (r *Repository) CurrentSettings() (*Settings, error) {
	var s Settings
	err := r.db.First(&s).Error
	if err == gorm.ErrRecordNotFound {
		s = Settings{Provider: "fallback", Iterations: 2, QuestionsPerIteration: 3, MaxResults: 10}
		if err := r.db.Create(&s).Error; err != nil {
			return nil, fmt.Errorf("store: create default settings: %w", err)
		}
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get settings: %w", err)
	}
	return &s, nil
}

// DeleteResearch removes a research's history row, log rows, and
// resources. Forbidden on in_progress records; the caller must check
// status first (spec.md §4.9's delete-endpoint semantics).
func (r *Repository) DeleteResearch(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("research_id = ?", id).Delete(&ResearchLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("research_id = ?", id).Delete(&ResearchResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("research_id = ?", id).Delete(&ResearchStrategy{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ResearchHistory{}, "id = ?", id).Error
	})
}
