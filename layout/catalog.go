/*
DESCRIPTION
  catalog.go provides Catalog, the read only set of layout definitions loaded
  from a JSON document at startup.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package layout provides print layout definitions and composition of
// captured photos into a single layout image.
package layout

import (
	"encoding/json"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Used to indicate package in logging.
const pkg = "layout: "

// Slot is a rectangle of a layout canvas that one photo is cropped into.
type Slot struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Text is an optional caption drawn beneath the slot.
	Text string `json:"text,omitempty"`

	// Overlay is an optional path of an image, typically a PNG with
	// transparency, drawn over the slot at the slot's size.
	Overlay string `json:"overlay,omitempty"`
}

// Definition describes a print layout. Definitions are values and are never
// modified once loaded.
type Definition struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	PhotoCount   int    `json:"photo_count"`
	Slots        []Slot `json:"slots"`
}

// Default is the single photo layout used when no catalog is available.
var Default = Definition{
	ID:           "single",
	Name:         "Single",
	CanvasWidth:  1800,
	CanvasHeight: 1200,
	PhotoCount:   1,
	Slots:        []Slot{{X: 50, Y: 50, Width: 1700, Height: 1100}},
}

// Catalog is an immutable, ordered set of layout definitions.
type Catalog struct {
	layouts []Definition
	byID    map[string]int
}

// document is the on disk form of a catalog.
type document struct {
	Layouts []Definition `json:"layouts"`
}

// NewCatalog returns a Catalog of the valid definitions in defs. Invalid or
// duplicate definitions are logged and dropped. A definition whose photo
// count disagrees with its slots has its count corrected.
func NewCatalog(l logging.Logger, defs ...Definition) *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, d := range defs {
		err := validate(d)
		if err != nil {
			l.Warning(pkg+"dropping invalid layout", "id", d.ID, "error", err)
			continue
		}
		if _, ok := c.byID[d.ID]; ok {
			l.Warning(pkg+"dropping duplicate layout", "id", d.ID)
			continue
		}
		if d.PhotoCount != len(d.Slots) {
			l.Warning(pkg+"photo count does not match slots, using slot count", "id", d.ID, "photo_count", d.PhotoCount, "slots", len(d.Slots))
			d.PhotoCount = len(d.Slots)
		}
		d = d.clone()
		c.byID[d.ID] = len(c.layouts)
		c.layouts = append(c.layouts, d)
	}
	return c
}

// Load reads a catalog from the JSON document at path.
func Load(path string, l logging.Logger) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read layout catalog")
	}
	var doc document
	err = json.Unmarshal(b, &doc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse layout catalog %s", path)
	}
	c := NewCatalog(l, doc.Layouts...)
	if len(c.layouts) == 0 {
		return nil, errors.Errorf("no valid layouts in %s", path)
	}
	l.Info(pkg+"loaded layouts", "path", path, "count", len(c.layouts))
	return c, nil
}

// LoadOrDefault reads the catalog at path, falling back to a catalog holding
// only Default if it cannot be read.
func LoadOrDefault(path string, l logging.Logger) *Catalog {
	c, err := Load(path, l)
	if err != nil {
		l.Error(pkg+"using default layout", "error", err)
		return NewCatalog(l, Default)
	}
	return c
}

// Layouts returns copies of the definitions in catalog order.
func (c *Catalog) Layouts() []Definition {
	ds := make([]Definition, len(c.layouts))
	for i, d := range c.layouts {
		ds[i] = d.clone()
	}
	return ds
}

// Layout returns a copy of the definition with the given id.
func (c *Catalog) Layout(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.layouts[i].clone(), true
}

// clone returns d with its own copy of the slots.
func (d Definition) clone() Definition {
	d.Slots = append([]Slot(nil), d.Slots...)
	return d
}

func validate(d Definition) error {
	if d.ID == "" {
		return errors.New("empty id")
	}
	if d.CanvasWidth <= 0 || d.CanvasHeight <= 0 {
		return errors.Errorf("bad canvas %dx%d", d.CanvasWidth, d.CanvasHeight)
	}
	if len(d.Slots) == 0 {
		return errors.New("no slots")
	}
	for i, s := range d.Slots {
		if s.Width <= 0 || s.Height <= 0 {
			return errors.Errorf("slot %d has bad size %dx%d", i, s.Width, s.Height)
		}
		if s.X < 0 || s.Y < 0 || s.X+s.Width > d.CanvasWidth || s.Y+s.Height > d.CanvasHeight {
			return errors.Errorf("slot %d outside canvas", i)
		}
	}
	return nil
}
