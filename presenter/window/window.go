// Package window presents comparison pairs side by side in an OpenCV
// window and reads judgments from the keyboard.
package window

import (
	"context"
	"fmt"
	"image"
	"io"

	"imagerank/imageprocessor"
	"imagerank/logging"
	"imagerank/session"
	"imagerank/types"

	"gocv.io/x/gocv"
)

// DefaultHeight is the height both images are scaled to
const DefaultHeight = 800

// keys
const (
	keyEscape = 27
	pollDelay = 100 // milliseconds between context checks
)

// Presenter opens one window per pair
type Presenter struct {
	Height int
	Title  string
}

// New creates a window presenter scaling images to height
func New(height int) *Presenter {
	if height <= 0 {
		height = DefaultHeight
	}
	return &Presenter{Height: height, Title: "imagerank: l(eft) r(ight) d(raw) q(uit)"}
}

// Present loads both images and shows them left and right
func (p *Presenter) Present(_ context.Context, pair types.Pair) (session.View, error) {
	left, err := LoadImage(pair.Left)
	if err != nil {
		return nil, err
	}
	defer left.Close()

	right, err := LoadImage(pair.Right)
	if err != nil {
		return nil, err
	}
	defer right.Close()

	canvas, err := SideBySide(left, right, p.Height)
	if err != nil {
		return nil, err
	}

	win := gocv.NewWindow(p.Title)
	win.IMShow(canvas)
	return &view{win: win, canvas: canvas}, nil
}

type view struct {
	win    *gocv.Window
	canvas gocv.Mat
}

// ReadToken waits for a key press. Escape means quit; closing the window
// counts as end of input.
func (v *view) ReadToken(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key := v.win.WaitKey(pollDelay)
		if key >= 0 {
			key &= 0xFF
			if key == keyEscape {
				return "q", nil
			}
			return string(rune(key)), nil
		}
		if !v.win.IsOpen() {
			return "", io.EOF
		}
	}
}

func (v *view) Close() error {
	v.canvas.Close()
	if err := v.win.Close(); err != nil {
		return fmt.Errorf("failed to close window: %w", err)
	}
	return nil
}

// LoadImage reads path as a 3 channel BGR image. Formats OpenCV does not
// read are decoded in Go and converted.
func LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if !img.Empty() {
		return img, nil
	}
	img.Close()

	logging.DebugLog("OpenCV could not read %s, decoding in Go", path)
	goImg, err := imageprocessor.Decode(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	mat, err := gocv.ImageToMatRGB(goImg)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return mat, nil
}

// SideBySide scales both images to height, keeping their aspect ratios,
// and concatenates them horizontally. The caller owns the result.
func SideBySide(left, right gocv.Mat, height int) (gocv.Mat, error) {
	if left.Empty() || right.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot compose an empty image")
	}

	l := gocv.NewMat()
	defer l.Close()
	r := gocv.NewMat()
	defer r.Close()

	gocv.Resize(left, &l, scaledSize(left, height), 0, 0, gocv.InterpolationArea)
	gocv.Resize(right, &r, scaledSize(right, height), 0, 0, gocv.InterpolationArea)

	out := gocv.NewMat()
	gocv.Hconcat(l, r, &out)
	if out.Empty() {
		out.Close()
		return gocv.NewMat(), fmt.Errorf("failed to concatenate images")
	}
	return out, nil
}

func scaledSize(m gocv.Mat, height int) image.Point {
	w := m.Cols() * height / m.Rows()
	if w < 1 {
		w = 1
	}
	return image.Point{X: w, Y: height}
}
