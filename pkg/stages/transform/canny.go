package transform

import (
	"math"

	"github.com/user/videolab/pkg/pipeline"
)

// gaussian5 is the normalized 5-tap kernel for sigma 1.1, the sigma a
// 5x5 window implies when none is given.
var gaussian5 = func() [5]float64 {
	const sigma = 1.1
	var k [5]float64
	sum := 0.0
	for i := range k {
		x := float64(i - 2)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}()

// reflect101 maps i into [0, n) mirroring around the edge pixels
// (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// GaussianBlur5 smooths a gray frame with a separable 5x5 Gaussian.
func GaussianBlur5(g pipeline.Frame) pipeline.Frame {
	w, h := g.Width, g.Height
	out := pipeline.NewFrame(w, h, pipeline.ChannelsGray)
	if g.Empty() {
		return out
	}

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			s := 0.0
			for k := -2; k <= 2; k++ {
				s += gaussian5[k+2] * float64(row[reflect101(x+k, w)])
			}
			tmp[y*w+x] = s
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := 0.0
			for k := -2; k <= 2; k++ {
				s += gaussian5[k+2] * tmp[reflect101(y+k, h)*w+x]
			}
			out.Pix[y*w+x] = uint8(math.Min(math.Round(s), 255))
		}
	}
	return out
}

// Canny returns a gray mask with 255 on edge pixels and 0 elsewhere.
// Gradients are 3x3 Sobel with L1 magnitude; thresholds apply to that
// magnitude. Inputs with more than one channel are converted first.
func Canny(g pipeline.Frame, low, high float64) pipeline.Frame {
	if g.Channels != pipeline.ChannelsGray {
		g = Grayscale(g)
	}
	if low > high {
		low, high = high, low
	}

	w, h := g.Width, g.Height
	out := pipeline.NewFrame(w, h, pipeline.ChannelsGray)
	if g.Empty() {
		return out
	}

	px := func(x, y int) int {
		return int(g.Pix[reflect101(y, h)*w+reflect101(x, w)])
	}

	gx := make([]int, w*h)
	gy := make([]int, w*h)
	mag := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x-1, y) + px(x-1, y+1))
			dy := (px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)) -
				(px(x-1, y-1) + 2*px(x, y-1) + px(x+1, y-1))
			i := y*w + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	at := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	const (
		tan22 = 0.4142135623730951 // tan(22.5°)
		tan67 = 2.414213562373095  // tan(67.5°)
	)

	// Non-maximum suppression. Ties are broken toward the earlier
	// neighbour so plateaus keep exactly one pixel.
	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	var stack []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if float64(m) <= low {
				continue
			}
			ax, ay := float64(abs(gx[i])), float64(abs(gy[i]))

			var prev, next int
			switch {
			case ay <= tan22*ax:
				prev, next = at(x-1, y), at(x+1, y)
			case ay > tan67*ax:
				prev, next = at(x, y-1), at(x, y+1)
			case (gx[i] < 0) != (gy[i] < 0):
				prev, next = at(x+1, y-1), at(x-1, y+1)
			default:
				prev, next = at(x-1, y-1), at(x+1, y+1)
			}
			if !(m > prev && m >= next) {
				continue
			}

			if float64(m) > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	// Hysteresis: grow strong edges through 8-connected weak pixels.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out.Pix[i] = 255

		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak {
					state[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
