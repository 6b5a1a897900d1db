package storage

import (
	"context"
	"sort"

	"daybreak/backend/internal/game"
)

// Catalog is an in-memory content store.
type Catalog struct {
	sages     map[string]game.Sage
	decklists map[string]game.Decklist
}

var _ game.ContentStore = (*Catalog)(nil)

func NewCatalog(sages []game.Sage, decklists []game.Decklist) *Catalog {
	c := &Catalog{
		sages:     make(map[string]game.Sage, len(sages)),
		decklists: make(map[string]game.Decklist, len(decklists)),
	}
	for _, s := range sages {
		c.sages[s.ID] = s
	}
	for _, d := range decklists {
		c.decklists[d.ID] = d
	}
	return c
}

func (c *Catalog) GetSage(_ context.Context, id string) (game.Sage, error) {
	s, ok := c.sages[id]
	if !ok {
		return game.Sage{}, game.NotFound("sage")
	}
	return s, nil
}

func (c *Catalog) GetDecklist(_ context.Context, id string) (game.Decklist, error) {
	d, ok := c.decklists[id]
	if !ok {
		return game.Decklist{}, game.NotFound("decklist")
	}
	d.Cards = append([]game.CardID{}, d.Cards...)
	return d, nil
}

// ListSages returns every sage ordered by name.
func (c *Catalog) ListSages(_ context.Context) ([]game.Sage, error) {
	out := make([]game.Sage, 0, len(c.sages))
	for _, s := range c.sages {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Decklists returns every decklist ordered by id.
func (c *Catalog) Decklists() []game.Decklist {
	out := make([]game.Decklist, 0, len(c.decklists))
	for _, d := range c.decklists {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// starter builds a decklist holding two copies of each card.
func starter(sage string, cards ...string) game.Decklist {
	d := game.Decklist{ID: sage + "-starter", Name: sage + " Starter", SageID: sage}
	for _, c := range cards {
		d.Cards = append(d.Cards, game.CardID(c), game.CardID(c))
	}
	return d
}

// DefaultCatalog returns the built-in sages and their starter decks.
func DefaultCatalog() *Catalog {
	sages := []game.Sage{
		{ID: "Ember", Name: "Ember", Description: "Burns bright at daybreak, trading gold for tempo.", DefaultDecklist: "Ember-starter"},
		{ID: "Tide", Name: "Tide", Description: "Draws deep and recycles what the others discard.", DefaultDecklist: "Tide-starter"},
		{ID: "Gale", Name: "Gale", Description: "Moves warriors across the battlefield at will.", DefaultDecklist: "Gale-starter"},
		{ID: "Bramble", Name: "Bramble", Description: "Holds the line and grows stronger every round.", DefaultDecklist: "Bramble-starter"},
	}
	decklists := []game.Decklist{
		starter("Ember", "spark", "cinder-guard", "ash-scout", "flare", "kindle", "blaze-rite", "smoke-veil", "forge-tithe"),
		starter("Tide", "ripple", "undertow", "reef-warden", "mist-step", "deep-current", "salt-oath", "brine-sage", "ebb"),
		starter("Gale", "gust", "sky-lancer", "updraft", "whirl", "feather-ward", "squall", "tailwind", "zephyr-call"),
		starter("Bramble", "thorn", "root-wall", "moss-keeper", "overgrowth", "bark-skin", "seedling", "briar-trap", "old-oak"),
	}
	return NewCatalog(sages, decklists)
}
