/*
DESCRIPTION
  compose.go provides Composer, which crops captured photos into the slots of
  a layout and writes the result as a single JPEG.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package layout

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ausocean/booth/photo"
)

// Composition errors.
var (
	ErrUnknownLayout    = errors.New("unknown layout")
	ErrSourceUnreadable = errors.New("source image unreadable")
	ErrNoImages         = errors.New("no images to compose")
)

// DefaultQuality is the JPEG quality of composed images.
const DefaultQuality = 95

// Caption text height as a fraction of slot height.
const captionScale = 0.08

var captionColor = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}

// Composer composes photos into layouts from a Catalog.
type Composer struct {
	catalog *Catalog
	dir     string
	quality int
	log     logging.Logger
	now     func() time.Time

	fontOnce sync.Once
	font     *opentype.Font
	fontErr  error
}

// NewComposer returns a Composer writing into dir at the given JPEG quality.
// A quality outside 1 to 100 uses DefaultQuality.
func NewComposer(c *Catalog, dir string, quality int, l logging.Logger) *Composer {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Composer{catalog: c, dir: dir, quality: quality, log: l, now: time.Now}
}

// Compose fills each slot of the layout id, in order, from paths. Slot i uses
// paths[i], or the last path if there are fewer paths than slots. Slots whose
// source cannot be read are logged and left as background. The path of the
// written composition is returned.
func (c *Composer) Compose(id string, paths []string) (string, error) {
	def, ok := c.catalog.Layout(id)
	if !ok {
		return "", errors.Wrapf(ErrUnknownLayout, "layout %q", id)
	}
	if len(paths) == 0 {
		return "", ErrNoImages
	}

	canvas := imaging.New(def.CanvasWidth, def.CanvasHeight, color.White)
	cache := make(map[string]image.Image)
	for i, s := range def.Slots {
		p := paths[min(i, len(paths)-1)]
		src, err := c.open(cache, p)
		if err != nil {
			c.log.Error(pkg+"skipping slot", "layout", id, "slot", i, "error", err)
			continue
		}
		at := image.Pt(s.X, s.Y)
		draw.Draw(canvas, image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height),
			imaging.Fill(src, s.Width, s.Height, imaging.Center, imaging.Lanczos), image.Point{}, draw.Src)

		if s.Overlay != "" {
			ov, err := c.open(cache, s.Overlay)
			if err != nil {
				c.log.Warning(pkg+"skipping overlay", "layout", id, "slot", i, "error", err)
			} else {
				canvas = imaging.Overlay(canvas, imaging.Resize(ov, s.Width, s.Height, imaging.Linear), at, 1.0)
			}
		}

		if s.Text != "" {
			err = c.caption(canvas, s)
			if err != nil {
				c.log.Warning(pkg+"skipping caption", "layout", id, "slot", i, "error", err)
			}
		}
	}

	out, err := photo.Save(c.dir, "composed_"+id, canvas, c.quality, c.now())
	if err != nil {
		return "", errors.Wrap(err, "could not save composition")
	}
	c.log.Info(pkg+"composed layout", "layout", id, "photos", len(paths), "path", out)
	return out, nil
}

func (c *Composer) open(cache map[string]image.Image, path string) (image.Image, error) {
	if img, ok := cache[path]; ok {
		return img, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnreadable, "%s: %v", path, err)
	}
	cache[path] = img
	return img, nil
}

// caption draws the slot's text centred beneath the slot, or inside its
// bottom edge when there is no room below it on the canvas.
func (c *Composer) caption(dst *image.NRGBA, s Slot) error {
	c.fontOnce.Do(func() { c.font, c.fontErr = opentype.Parse(goregular.TTF) })
	if c.fontErr != nil {
		return c.fontErr
	}
	size := float64(s.Height) * captionScale
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(captionColor), Face: face}
	m := face.Metrics()
	w := d.MeasureString(s.Text).Ceil()
	x := s.X + (s.Width-w)/2
	y := s.Y + s.Height + m.Ascent.Ceil() + m.Descent.Ceil()
	if y+m.Descent.Ceil() > dst.Bounds().Dy() {
		y = s.Y + s.Height - m.Descent.Ceil()
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s.Text)
	return nil
}
