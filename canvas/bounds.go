package canvas

import "image"

// Union returns the smallest rectangle enclosing every non-empty region.
// The second result is false when no region has any area.
func Union(regions []image.Rectangle) (image.Rectangle, bool) {
	var box image.Rectangle
	found := false
	for _, r := range regions {
		if r.Empty() {
			continue
		}
		if !found {
			box, found = r, true
			continue
		}
		box = box.Union(r)
	}
	return box, found
}

// AlphaBounds scans img for pixels with non-zero alpha and returns their
// bounding rectangle, or the empty rectangle if there are none.
func AlphaBounds(img *LA) image.Rectangle {
	var box image.Rectangle
	found := false
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y) + 1
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x, i = x+1, i+2 {
			if img.Pix[i] == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box
}
