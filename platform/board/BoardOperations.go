package board

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/DedS3t/cashflow-backend/app/models"
)

//go:embed data/*.json
var defaults embed.FS

// Config is the static game data a room is started from.
type Config struct {
	Board       []models.Cell
	Cards       map[models.DeckType][]models.Card
	Professions []models.Profession
}

// Load reads board.json, cards.json and professions.json from dir, or the
// bundled defaults when dir is empty.
func Load(dir string) (*Config, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(defaults, "data")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	cfg := &Config{}
	if err := readJSON(fsys, "board.json", &cfg.Board); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, "cards.json", &cfg.Cards); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, "professions.json", &cfg.Professions); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readJSON(fsys fs.FS, name string, v interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Board) == 0 {
		return errors.New("board has no cells")
	}
	for i, cell := range c.Board {
		if cell.Position != i {
			return fmt.Errorf("cell %d has position %d", i, cell.Position)
		}
	}
	for t, cards := range c.Cards {
		if !t.Valid() {
			return fmt.Errorf("unknown deck %q", t)
		}
		seen := make(map[string]bool, len(cards))
		for i := range cards {
			if seen[cards[i].ID] {
				return fmt.Errorf("duplicate card id %s in %s", cards[i].ID, t)
			}
			seen[cards[i].ID] = true
			cards[i].Type = t
		}
	}
	if len(c.Professions) == 0 {
		return errors.New("no professions configured")
	}
	return nil
}

func GetByPos(pos int, cells []models.Cell) (models.Cell, error) {
	if pos < 0 || pos >= len(cells) {
		return models.Cell{}, errors.New("not found")
	}
	return cells[pos], nil
}

// Profession finds a profession by name; an empty name picks the first one.
func (c *Config) Profession(name string) (models.Profession, error) {
	if name == "" {
		return c.Professions[0], nil
	}
	for _, p := range c.Professions {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Profession{}, models.NotFound("profession %q not found", name)
}
