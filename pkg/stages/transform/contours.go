package transform

import (
	"image"
	"math"

	"github.com/user/videolab/pkg/pipeline"
)

// Contour is the outer boundary of a connected set of edge pixels, as
// pixel-center points in tracing order.
type Contour []image.Point

// Area returns the polygon area enclosed by the contour (shoelace formula).
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	s := 0
	for i, p := range c {
		q := c[(i+1)%len(c)]
		s += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(s)) / 2
}

// Bounds returns the axis-aligned bounding rectangle, inclusive of the
// boundary pixels.
func (c Contour) Bounds() pipeline.Rectangle {
	if len(c) == 0 {
		return pipeline.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return pipeline.Rectangle{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// Clockwise neighbour offsets in image coordinates (y grows downward).
var moore = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func mooreIndex(d image.Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return -1
}

// ExternalContours returns the outer boundary of every 8-connected edge
// component of mask (non-zero pixels) that is not enclosed by another
// component. Contours are ordered by the raster position of their first
// pixel.
func ExternalContours(mask pipeline.Frame) []Contour {
	if mask.Channels != pipeline.ChannelsGray {
		mask = Grayscale(mask)
	}
	w, h := mask.Width, mask.Height
	if w == 0 || h == 0 {
		return nil
	}

	labels, starts := labelComponents(mask)
	outside := outsideBackground(mask)

	external := make([]bool, len(starts)+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels[y*w+x]
			if l == 0 || external[l] {
				continue
			}
			if x == 0 || y == 0 || x == w-1 || y == h-1 ||
				outside[y*w+x-1] || outside[y*w+x+1] ||
				outside[(y-1)*w+x] || outside[(y+1)*w+x] {
				external[l] = true
			}
		}
	}

	var contours []Contour
	for i, s := range starts {
		l := int32(i + 1)
		if !external[l] {
			continue
		}
		contours = append(contours, traceBoundary(labels, w, h, s, l))
	}
	return contours
}

// labelComponents labels 8-connected foreground components 1..n in raster
// order of their first pixel and returns that first pixel for each.
func labelComponents(mask pipeline.Frame) ([]int32, []image.Point) {
	w, h := mask.Width, mask.Height
	labels := make([]int32, w*h)
	var starts []image.Point
	var stack []int

	for i, v := range mask.Pix {
		if v == 0 || labels[i] != 0 {
			continue
		}
		l := int32(len(starts) + 1)
		starts = append(starts, image.Pt(i%w, i/w))
		labels[i] = l
		stack = append(stack[:0], i)

		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := j%w, j/w
			for _, d := range moore {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				k := ny*w + nx
				if mask.Pix[k] != 0 && labels[k] == 0 {
					labels[k] = l
					stack = append(stack, k)
				}
			}
		}
	}
	return labels, starts
}

// outsideBackground marks background pixels 4-connected to the image
// border. Background not reached is enclosed by some edge component.
func outsideBackground(mask pipeline.Frame) []bool {
	w, h := mask.Width, mask.Height
	outside := make([]bool, w*h)
	var stack []int

	push := func(x, y int) {
		i := y*w + x
		if mask.Pix[i] == 0 && !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return outside
}

// traceBoundary follows the outer boundary of component l clockwise from
// start, its first pixel in raster order, using Moore-neighbour tracing
// with Jacob's stopping criterion.
func traceBoundary(labels []int32, w, h int, start image.Point, l int32) Contour {
	in := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == l
	}

	contour := Contour{start}
	cur := start
	back := 4 // entered from the west; nothing precedes start in raster order
	firstDir := -1
	limit := 4*w*h + 8

	for iter := 0; iter < limit; iter++ {
		found := -1
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			if in(cur.Add(moore[d])) {
				found = d
				break
			}
		}
		if found < 0 {
			// Isolated pixel.
			return contour
		}
		if cur == start {
			if firstDir == found {
				break
			}
			if firstDir < 0 {
				firstDir = found
			}
		}

		prev := cur.Add(moore[(found+7)%8])
		next := cur.Add(moore[found])
		back = mooreIndex(prev.Sub(next))
		cur = next
		if cur == start {
			continue
		}
		contour = append(contour, cur)
	}
	return contour
}
