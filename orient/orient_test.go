package orient

import (
	"errors"
	"image"
	"testing"

	"spoolabel/canvas"
)

func TestRotate90CounterClockwise(t *testing.T) {
	// 3x2:
	//   a b c
	//   d e f
	src := canvas.NewLA(image.Rect(0, 0, 3, 2))
	for i, v := range []uint8{'a', 'b', 'c', 'd', 'e', 'f'} {
		src.SetLA(i%3, i/3, canvas.LAColor{Y: v, A: 255})
	}

	dst := Rotate90(src)
	if got, want := dst.Bounds(), image.Rect(0, 0, 2, 3); got != want {
		t.Fatalf("bounds: got %v want %v", got, want)
	}

	// rotated:
	//   c f
	//   b e
	//   a d
	want := [][]uint8{{'c', 'f'}, {'b', 'e'}, {'a', 'd'}}
	for y, row := range want {
		for x, v := range row {
			if got := dst.LAAt(x, y).Y; got != v {
				t.Errorf("(%d,%d): got %c want %c", x, y, got, v)
			}
		}
	}
}

func TestTrimClampsToCanvas(t *testing.T) {
	img := canvas.NewLA(image.Rect(0, 0, 300, 100))

	got := Trim(img, image.Rect(0, 0, 250, 100), 12)
	if want := image.Rect(0, 0, 262, 100); got.Rect != want {
		t.Fatalf("got %v want %v", got.Rect, want)
	}

	got = Trim(img, image.Rect(0, 0, 295, 90), 12)
	if want := image.Rect(0, 0, 300, 90); got.Rect != want {
		t.Fatalf("got %v want %v", got.Rect, want)
	}
}

func TestTrimAndRotate(t *testing.T) {
	img := canvas.NewLA(image.Rect(0, 0, 300, 100))
	regions := []image.Rectangle{image.Rect(0, 0, 100, 100), image.Rect(103, 14, 171, 38)}

	out, err := TrimAndRotate(img, regions, 12.12)
	if err != nil {
		t.Fatalf("trim and rotate: %v", err)
	}
	if got, want := out.Bounds(), image.Rect(0, 0, 100, 183); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTrimAndRotateNoContent(t *testing.T) {
	img := canvas.NewLA(image.Rect(0, 0, 30, 10))
	if _, err := TrimAndRotate(img, nil, 4); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestRotate90GrayMatchesLA(t *testing.T) {
	la := canvas.NewLA(image.Rect(0, 0, 5, 3))
	for i := range la.Pix {
		la.Pix[i] = uint8(i * 7)
	}
	for i := 1; i < len(la.Pix); i += 2 {
		la.Pix[i] = 0xff
	}

	got := Rotate90Gray(canvas.Flatten(la))
	want := canvas.Flatten(Rotate90(la))
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds: got %v want %v", got.Bounds(), want.Bounds())
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel %d: got %d want %d", i, got.Pix[i], want.Pix[i])
		}
	}
}
