package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cardPadding    = 12
	cardLineHeight = 16
	cardCellSize   = 4
)

// Card is the content of a rendered pass.
type Card struct {
	// Title is drawn on the first line.
	Title string

	// Lines are drawn below the title, one per row.
	Lines []string

	// Matrix, if set, is drawn as a square grid of cells to the right of the
	// text. Bit i of the matrix (MSB first) fills cell i, row-major.
	Matrix []byte

	// MatrixSize is the number of cells per side.
	MatrixSize int
}

// ImageService renders and converts pass images.
//
// Example usage:
//
//	svc := NewImageService()
//	card := Card{Title: "Summer Fest", Lines: []string{"Ticket #12", "Gate A"}}
//	data, _ := svc.RenderCard(ctx, card, 2)
//	os.WriteFile("pass.png", data, 0644)
type ImageService struct {
	face font.Face
	ink  color.Color
}

// NewImageService creates a new ImageService using the built-in 7x13 bitmap font.
func NewImageService() *ImageService {
	return &ImageService{
		face: basicfont.Face7x13,
		ink:  color.Black,
	}
}

// RenderCard draws card onto a white canvas and returns it PNG-encoded.
//
// The canvas is sized to fit the longest line and the matrix. When scale is
// greater than one, the canvas is enlarged with nearest-neighbour sampling so
// text and matrix cells stay sharp.
func (s *ImageService) RenderCard(ctx context.Context, card Card, scale int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := append([]string{card.Title}, card.Lines...)

	textWidth := 0
	for _, line := range lines {
		textWidth = max(textWidth, font.MeasureString(s.face, line).Ceil())
	}
	textHeight := len(lines) * cardLineHeight

	matrixSide := 0
	if card.MatrixSize > 0 && len(card.Matrix) > 0 {
		matrixSide = card.MatrixSize * cardCellSize
	}

	width := cardPadding*2 + textWidth
	if matrixSide > 0 {
		width += cardPadding + matrixSide
	}
	height := cardPadding*2 + max(textHeight, matrixSide)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	s.drawBorder(canvas)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(s.ink),
		Face: s.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(cardPadding, cardPadding+(i+1)*cardLineHeight-3)
		d.DrawString(line)
	}

	if matrixSide > 0 {
		s.drawMatrix(canvas, card, image.Pt(width-cardPadding-matrixSide, cardPadding))
	}

	var out image.Image = canvas
	if scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format.
//
// Returns the image as JPEG-encoded bytes with 90% quality.
//
// Example:
//
//	pngData, _ := svc.RenderCard(ctx, card, 2)
//	jpegData, err := svc.ConvertToJPEG(ctx, pngData)
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *ImageService) drawBorder(img *image.RGBA) {
	b := img.Bounds()
	ink := image.NewUniform(s.ink)
	draw.Draw(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+2), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(b.Min.X, b.Max.Y-2, b.Max.X, b.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+2, b.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(b.Max.X-2, b.Min.Y, b.Max.X, b.Max.Y), ink, image.Point{}, draw.Src)
}

func (s *ImageService) drawMatrix(img *image.RGBA, card Card, origin image.Point) {
	ink := image.NewUniform(s.ink)
	n := card.MatrixSize
	for i := 0; i < n*n; i++ {
		byteIdx := i / 8
		if byteIdx >= len(card.Matrix) {
			return
		}
		if card.Matrix[byteIdx]&(0x80>>(i%8)) == 0 {
			continue
		}
		x := origin.X + (i%n)*cardCellSize
		y := origin.Y + (i/n)*cardCellSize
		draw.Draw(img, image.Rect(x, y, x+cardCellSize, y+cardCellSize), ink, image.Point{}, draw.Src)
	}
}
