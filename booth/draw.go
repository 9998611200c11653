/*
DESCRIPTION
  draw.go provides painter, which draws previews, text, rectangles and
  polaroids with ebiten, holding the GPU images it needs between frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package booth

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/ausocean/utils/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ausocean/booth/device"
)

var (
	white   = color.White
	black   = color.Black
	shade   = color.NRGBA{A: 0xff}
	accent  = color.NRGBA{R: 0xf2, G: 0x6b, B: 0x3a, A: 0xff}
	card    = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	caption = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	green   = color.NRGBA{R: 0x32, G: 0x96, B: 0x32, A: 0xff}
	red     = color.NRGBA{R: 0x96, G: 0x32, B: 0x32, A: 0xff}
)

// painter draws for the screens. GPU images are created on first use, so
// screens may be built and updated without a graphics context.
type painter struct {
	log logging.Logger

	pixel   *ebiten.Image // 1x1 white, scaled for rectangles.
	preview *ebiten.Image
	frame   *device.Frame // Frame last written to preview.
	images  map[image.Image]*ebiten.Image
	source  *text.GoTextFaceSource
}

func newPainter(l logging.Logger) *painter {
	return &painter{log: l, images: make(map[image.Image]*ebiten.Image)}
}

// release frees the GPU copies of images drawn with image.
func (p *painter) release() {
	for k, img := range p.images {
		img.Deallocate()
		delete(p.images, k)
	}
}

// livePreview draws f to cover dst, cropping the overflowing dimension.
func (p *painter) livePreview(dst *ebiten.Image, f *device.Frame) {
	if f == nil {
		dst.Fill(shade)
		return
	}
	w, h := f.Width(), f.Height()
	if p.preview == nil || p.preview.Bounds().Dx() != w || p.preview.Bounds().Dy() != h {
		if p.preview != nil {
			p.preview.Deallocate()
		}
		p.preview = ebiten.NewImage(w, h)
		p.frame = nil
	}
	if f != p.frame {
		p.preview.WritePixels(f.Image.Pix)
		p.frame = f
	}

	dw, dh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	s := math.Max(dw/float64(w), dh/float64(h))
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((dw-float64(w)*s)/2, (dh-float64(h)*s)/2)
	dst.DrawImage(p.preview, op)
}

// rect fills a rectangle of dst with c at the given alpha.
func (p *painter) rect(dst *ebiten.Image, x, y, w, h float64, c color.Color, alpha float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	p.fill(dst, op, c, alpha)
}

func (p *painter) fill(dst *ebiten.Image, op *ebiten.DrawImageOptions, c color.Color, alpha float64) {
	if p.pixel == nil {
		p.pixel = ebiten.NewImage(1, 1)
		p.pixel.Fill(white)
	}
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(p.pixel, op)
}

// text draws s centred on x, y with the given pixel size, scale and alpha.
func (p *painter) text(dst *ebiten.Image, s string, size, x, y, scale, alpha float64, c color.Color) {
	if s == "" || alpha <= 0 {
		return
	}
	if p.source == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			p.log.Error(pkg+"could not load font", "error", err)
			return
		}
		p.source = src
	}
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, s, &text.GoTextFace{Source: p.source, Size: size}, op)
}

// image draws img fitted inside the w by h box centred on x, y.
func (p *painter) image(dst *ebiten.Image, img image.Image, x, y, w, h float64) {
	if img == nil {
		return
	}
	e := p.gpu(img)
	iw, ih := float64(e.Bounds().Dx()), float64(e.Bounds().Dy())
	s := math.Min(w/iw, h/ih)
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x-iw*s/2, y-ih*s/2)
	dst.DrawImage(e, op)
}

// polaroid draws a photo in a white frame of unscaled size w by h, placed
// by ps about its centre.
func (p *painter) polaroid(dst *ebiten.Image, thumb image.Image, ps pose, w, h, border float64) {
	place := func(op *ebiten.DrawImageOptions) {
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(ps.scale, ps.scale)
		op.GeoM.Rotate(ps.angle * math.Pi / 180)
		op.GeoM.Translate(ps.x, ps.y)
	}

	// Shadow, then frame.
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(border/4, border/4)
	place(op)
	p.fill(dst, op, shade, 0.3)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	place(op)
	p.fill(dst, op, white, 1)

	if thumb == nil {
		return
	}
	e := p.gpu(thumb)
	iw, ih := float64(e.Bounds().Dx()), float64(e.Bounds().Dy())
	op = &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale((w-2*border)/iw, (h-5*border)/ih)
	op.GeoM.Translate(border, border)
	place(op)
	dst.DrawImage(e, op)
}

func (p *painter) gpu(img image.Image) *ebiten.Image {
	e, ok := p.images[img]
	if !ok {
		e = ebiten.NewImageFromImage(img)
		p.images[img] = e
	}
	return e
}
