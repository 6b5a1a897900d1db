package storage

import (
	"context"
	"errors"
	"fmt"

	"daybreak/backend/internal/game"
	"daybreak/backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentStore reads sages and decklists from the database.
type ContentStore struct {
	db *gorm.DB
}

var _ game.ContentStore = (*ContentStore)(nil)

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

func sageOf(m models.Sage) game.Sage {
	return game.Sage{ID: m.ID, Name: m.Name, Description: m.Description, DefaultDecklist: m.DefaultDecklistID}
}

func (s *ContentStore) GetSage(ctx context.Context, id string) (game.Sage, error) {
	var m models.Sage
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.Sage{}, game.NotFound("sage")
	}
	if err != nil {
		return game.Sage{}, fmt.Errorf("get sage %s: %w", id, err)
	}
	return sageOf(m), nil
}

func (s *ContentStore) GetDecklist(ctx context.Context, id string) (game.Decklist, error) {
	var m models.Decklist
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.Decklist{}, game.NotFound("decklist")
	}
	if err != nil {
		return game.Decklist{}, fmt.Errorf("get decklist %s: %w", id, err)
	}

	d := game.Decklist{ID: m.ID, Name: m.Name, SageID: m.SageID, Cards: make([]game.CardID, 0, len(m.Cards))}
	for _, c := range m.Cards {
		d.Cards = append(d.Cards, game.CardID(c))
	}
	return d, nil
}

func (s *ContentStore) ListSages(ctx context.Context) ([]game.Sage, error) {
	var rows []models.Sage
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sages: %w", err)
	}
	out := make([]game.Sage, 0, len(rows))
	for _, m := range rows {
		out = append(out, sageOf(m))
	}
	return out, nil
}

// Seed writes the catalog's content, replacing rows with the same ids.
func (s *ContentStore) Seed(ctx context.Context, c *Catalog) error {
	sages, err := c.ListSages(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		for _, sg := range sages {
			row := models.Sage{ID: sg.ID, Name: sg.Name, Description: sg.Description, DefaultDecklistID: sg.DefaultDecklist}
			if err := tx.Clauses(upsert).Create(&row).Error; err != nil {
				return fmt.Errorf("seed sage %s: %w", sg.ID, err)
			}
		}
		for _, d := range c.Decklists() {
			cards := make([]string, 0, len(d.Cards))
			for _, card := range d.Cards {
				cards = append(cards, string(card))
			}
			row := models.Decklist{ID: d.ID, Name: d.Name, SageID: d.SageID, Cards: datatypes.NewJSONSlice(cards)}
			if err := tx.Clauses(upsert).Create(&row).Error; err != nil {
				return fmt.Errorf("seed decklist %s: %w", d.ID, err)
			}
		}
		return nil
	})
}
