package memhost

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const snapshotFormat = "deckhand-memhost/1"

// snapshot is the on-disk form written by Save, SaveAs and SaveCopyAs.
type snapshot struct {
	Format string          `json:"format"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Slides []slideSnapshot `json:"slides"`
}

type slideSnapshot struct {
	Layout  int      `json:"layout"`
	Section string   `json:"section,omitempty"`
	Shapes  []*Shape `json:"shapes"`
}

func store(p *Presentation, path string) error {
	snap := snapshot{Format: snapshotFormat, Width: p.Width, Height: p.Height}
	for _, s := range p.slides {
		snap.Slides = append(snap.Slides, slideSnapshot{Layout: s.Layout, Section: s.Section, Shapes: s.shapes})
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func load(path string) (*Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Format != snapshotFormat {
		return nil, fmt.Errorf("%s: not a %s snapshot", path, snapshotFormat)
	}
	p := &Presentation{Name: path, Width: snap.Width, Height: snap.Height}
	for _, ss := range snap.Slides {
		s := &Slide{pres: p, Layout: ss.Layout, Section: ss.Section}
		for _, sh := range ss.Shapes {
			relink(sh)
			s.attach(sh)
		}
		p.slides = append(p.slides, s)
	}
	return p, nil
}

func relink(sh *Shape) {
	for _, c := range sh.Children {
		c.parent = sh
		relink(c)
	}
}
