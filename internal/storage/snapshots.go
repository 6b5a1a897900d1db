package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"daybreak/backend/internal/game"
	"daybreak/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotStore persists game snapshots as JSON rows.
type SnapshotStore struct {
	db *gorm.DB
}

var _ game.Persistence = (*SnapshotStore)(nil)

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func recordOf(g *game.Game) (*models.GameRecord, error) {
	state, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	return &models.GameRecord{
		ID:     g.ID,
		Name:   g.Name,
		Phase:  g.Phase.String(),
		Active: g.Active,
		State:  datatypes.JSON(state),
	}, nil
}

// Save upserts the live snapshot of g.
func (s *SnapshotStore) Save(ctx context.Context, g *game.Game) error {
	rec, err := recordOf(g)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phase", "active", "state", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	return nil
}

// Load returns the live snapshot for id. Archived games are not returned.
func (s *SnapshotStore) Load(ctx context.Context, id string) (*game.Game, error) {
	var rec models.GameRecord
	err := s.db.WithContext(ctx).Where("id = ? AND archived = ?", id, false).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.NotFound("game")
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}

	var g game.Game
	if err := json.Unmarshal(rec.State, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}

// Delete removes the snapshot for id.
func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.GameRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

// Archive stores the final snapshot of a finished game.
func (s *SnapshotStore) Archive(ctx context.Context, g *game.Game) error {
	rec, err := recordOf(g)
	if err != nil {
		return err
	}
	rec.Active = false
	rec.Archived = true
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phase", "active", "archived", "state", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("archive game %s: %w", g.ID, err)
	}
	return nil
}

// Archived returns the final snapshot of a finished game.
func (s *SnapshotStore) Archived(ctx context.Context, id string) (*game.Game, error) {
	var rec models.GameRecord
	err := s.db.WithContext(ctx).Where("id = ? AND archived = ?", id, true).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.NotFound("game")
	}
	if err != nil {
		return nil, fmt.Errorf("load archived game %s: %w", id, err)
	}
	var g game.Game
	if err := json.Unmarshal(rec.State, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}
