//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wc

import (
	"bytes"
	"context"
	"math"
	"sync"

	"github.com/e-gun/PaperScopeServer/internal/str"
	"github.com/e-gun/PaperScopeServer/internal/vv"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

//
// WORD CLOUDS
//

type Options struct {
	Width    int
	Height   int
	MaxWords int
	MinFont  float64
	MaxFont  float64
}

func DefaultOptions() Options {
	return Options{
		Width:    vv.CLOUDWIDTH,
		Height:   vv.CLOUDHEIGHT,
		MaxWords: vv.CLOUDMAXWORDS,
		MinFont:  vv.CLOUDMINFONT,
		MaxFont:  vv.CLOUDMAXFONT,
	}
}

// viridis, dark to light; the lightest stops are skipped because the background is white
var viridis = []string{"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58"}

var regular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

func (r rect) inside(w, h float64) bool {
	return r.x0 >= 0 && r.y0 >= 0 && r.x1 <= w && r.y1 <= h
}

// Placement - where a word ended up
type Placement struct {
	Word string
	Size float64
	X, Y float64
}

// Render - a PNG with font size proportional to weight; the heaviest words are placed first along a spiral
// from the centre; ctx is checked before every word and a cancelled render returns nothing
func Render(ctx context.Context, words []str.Keyword, o Options) ([]byte, error) {
	dc, _, err := draw(ctx, words, o)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Layout - the placements alone
func Layout(ctx context.Context, words []str.Keyword, o Options) ([]Placement, error) {
	_, pl, err := draw(ctx, words, o)
	return pl, err
}

func draw(ctx context.Context, words []str.Keyword, o Options) (*gg.Context, []Placement, error) {
	const (
		SHRINK  = 0.8
		PAD     = 2.0
		STEP    = 0.15
		SPIRALA = 1.5
	)

	if o.Width < 1 || o.Height < 1 {
		o = DefaultOptions()
	}
	if o.MaxWords > 0 && len(words) > o.MaxWords {
		words = words[:o.MaxWords]
	}

	ttf, err := regular()
	if err != nil {
		return nil, nil, err
	}

	w, h := float64(o.Width), float64(o.Height)
	dc := gg.NewContext(o.Width, o.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	faces := make(map[int]font.Face)
	face := func(sz float64) font.Face {
		k := int(math.Round(sz))
		if f, ok := faces[k]; ok {
			return f
		}
		f := truetype.NewFace(ttf, &truetype.Options{Size: float64(k), DPI: 72})
		faces[k] = f
		return f
	}
	defer func() {
		for _, f := range faces {
			_ = f.Close()
		}
	}()

	var wmin, wmax float64
	for i, kw := range words {
		if i == 0 || kw.Weight > wmax {
			wmax = kw.Weight
		}
		if i == 0 || kw.Weight < wmin {
			wmin = kw.Weight
		}
	}

	var placed []rect
	var pl []Placement
	aspect := w / h
	// the spiral is stretched horizontally, so its radius only has to reach the corners of an h x h square
	maxsteps := int(math.Hypot(h, h)/2/(SPIRALA*STEP)) + 1

	for i, kw := range words {
		if err = ctx.Err(); err != nil {
			return nil, nil, err
		}

		sz := o.MaxFont
		if wmax > wmin {
			sz = o.MinFont + (o.MaxFont-o.MinFont)*math.Sqrt((kw.Weight-wmin)/(wmax-wmin))
		}

		for sz >= o.MinFont {
			dc.SetFontFace(face(sz))
			tw, th := dc.MeasureString(kw.Word)

			var spot *rect
			var cx, cy float64
			for s := 0; s < maxsteps; s++ {
				theta := float64(s) * STEP
				r := SPIRALA * theta
				cx = w/2 + aspect*r*math.Cos(theta)
				cy = h/2 + r*math.Sin(theta)
				cand := rect{cx - tw/2 - PAD, cy - th/2 - PAD, cx + tw/2 + PAD, cy + th/2 + PAD}
				if !cand.inside(w, h) {
					continue
				}
				free := true
				for _, p := range placed {
					if cand.overlaps(p) {
						free = false
						break
					}
				}
				if free {
					spot = &cand
					break
				}
			}

			if spot != nil {
				placed = append(placed, *spot)
				dc.SetHexColor(viridis[i%len(viridis)])
				dc.DrawStringAnchored(kw.Word, cx, cy, 0.5, 0.5)
				pl = append(pl, Placement{Word: kw.Word, Size: sz, X: cx, Y: cy})
				break
			}
			sz *= SHRINK
		}
	}
	return dc, pl, nil
}
