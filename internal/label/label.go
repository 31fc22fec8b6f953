package label

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/erazemk/zbirka/internal/model"
)

// Options controls label geometry. Sizes are in pixels before scaling.
type Options struct {
	// ModuleWidth is the width of a single bar module.
	ModuleWidth int
	// BarHeight is the height of regular bars; guard bars are taller.
	BarHeight int
	// Scale enlarges the finished label for printing.
	Scale int
}

// DefaultOptions renders a label roughly 2 inches wide at 300 dpi.
var DefaultOptions = Options{ModuleWidth: 2, BarHeight: 60, Scale: 3}

const (
	quietZone  = 9 // modules on each side of the symbol
	guardExtra = 5 // pixels guard bars extend below regular bars
	margin     = 4
	lineHeight = 15
)

// Render draws the scannable symbol of item with its identifier digits and a
// caption of its name and condition underneath.
func Render(item model.Item, opts Options) (image.Image, error) {
	if opts.ModuleWidth <= 0 || opts.BarHeight <= 0 || opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid label options %+v", opts)
	}

	symbol, err := Symbol(item.Identifier)
	if err != nil {
		return nil, err
	}
	bars, err := barcode.Scale(symbol, Modules*opts.ModuleWidth, opts.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("scaling symbol: %w", err)
	}

	caption := item.Name + " - " + item.Condition
	face := basicfont.Face7x13

	width := (Modules + 2*quietZone) * opts.ModuleWidth
	if w := font.MeasureString(face, caption).Ceil() + 2*margin; w > width {
		width = w
	}
	height := margin + opts.BarHeight + guardExtra + 2*lineHeight + margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	left := (width - Modules*opts.ModuleWidth) / 2
	draw.Draw(img, bars.Bounds().Add(image.Pt(left, margin)), bars, bars.Bounds().Min, draw.Src)

	// Guard bars extend below the digit bars.
	for m, dark := range modules(symbol) {
		if !dark || !isGuard(m) {
			continue
		}
		x := left + m*opts.ModuleWidth
		ext := image.Rect(x, margin+opts.BarHeight, x+opts.ModuleWidth, margin+opts.BarHeight+guardExtra)
		draw.Draw(img, ext, image.Black, image.Point{}, draw.Src)
	}

	textTop := margin + opts.BarHeight + guardExtra
	drawCentered(img, face, item.Identifier, textTop+lineHeight-2)
	drawCentered(img, face, caption, textTop+2*lineHeight-2)

	return scale(img, opts.Scale), nil
}

func drawCentered(img *image.RGBA, face font.Face, text string, baseline int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((img.Bounds().Dx()-w)/2, baseline)
	d.DrawString(text)
}

// scale enlarges img by an integer factor. Nearest-neighbour keeps bar edges
// sharp for scanners.
func scale(img image.Image, factor int) image.Image {
	if factor == 1 {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// WritePNG renders the label of item and encodes it as PNG to w.
func WritePNG(w io.Writer, item model.Item, opts Options) error {
	img, err := Render(item, opts)
	if err != nil {
		return fmt.Errorf("rendering label: %w", err)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// Save writes the label of item to dir/<identifier>.png, creating dir if
// needed, and returns the file path.
func Save(dir string, item model.Item, opts Options) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating label directory: %w", err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, item, opts); err != nil {
		return "", err
	}

	path := filepath.Join(dir, item.Identifier+".png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing label: %w", err)
	}
	return path, nil
}
