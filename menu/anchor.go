package menu

import (
	"image"
)

// anchor places a menu of the given size at pt inside the work area. It
// flips up (reverse) or left (rtl) when the menu would overflow.
func anchor(pt, size image.Point, work image.Rectangle) (r image.Rectangle, rtl, reverse bool) {
	x, y := pt.X, pt.Y
	if y < work.Min.Y {
		y = work.Min.Y
	}
	if x < work.Min.X {
		x = work.Min.X
	}
	if y+size.Y > work.Max.Y {
		y -= size.Y
		reverse = true
	}
	if x+size.X > work.Max.X {
		x -= size.X
		rtl = true
	}
	return clamp(image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}, work), rtl, reverse
}

// anchorSubmenu places a submenu beside row, the screen rectangle of the
// parent item spanning the parent menu's width.
func anchorSubmenu(row image.Rectangle, size image.Point, work image.Rectangle, rtl bool, offset int) (r image.Rectangle, _, reverse bool) {
	right := row.Max.X + offset
	left := row.Min.X - offset - size.X
	x := right
	if rtl || right+size.X > work.Max.X {
		x, rtl = left, true
		if left < work.Min.X && right+size.X <= work.Max.X {
			x, rtl = right, false
		}
	}
	y := row.Min.Y
	if y+size.Y > work.Max.Y {
		y = row.Max.Y - size.Y
		reverse = true
	}
	return clamp(image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}, work), rtl, reverse
}

// clamp shifts r so it lies inside work where it fits.
func clamp(r, work image.Rectangle) image.Rectangle {
	var d image.Point
	if r.Max.X > work.Max.X {
		d.X = work.Max.X - r.Max.X
	}
	if r.Min.X+d.X < work.Min.X {
		d.X = work.Min.X - r.Min.X
	}
	if r.Max.Y > work.Max.Y {
		d.Y = work.Max.Y - r.Max.Y
	}
	if r.Min.Y+d.Y < work.Min.Y {
		d.Y = work.Min.Y - r.Min.Y
	}
	return r.Add(d)
}

// workArea returns the work area of the monitor containing pt, or of the
// monitor nearest to the owner window.
func (t *tree) workArea(pt image.Point) (image.Rectangle, error) {
	monitors := t.drv.Monitors()
	if len(monitors) == 0 {
		return image.Rectangle{}, ErrNoMonitor
	}
	for _, m := range monitors {
		if pt.In(m.Bounds) {
			return m.WorkArea, nil
		}
	}
	ref := pt
	if wb, ok := t.drv.WindowBounds(t.drv.TopLevel(t.owner)); ok {
		ref = wb.Min.Add(wb.Size().Div(2))
	}
	best, dist := monitors[0], -1
	for _, m := range monitors {
		if d := distance(ref, m.Bounds); dist < 0 || d < dist {
			best, dist = m, d
		}
	}
	return best.WorkArea, nil
}

func distance(p image.Point, r image.Rectangle) int {
	dx := max(r.Min.X-p.X, 0, p.X-(r.Max.X-1))
	dy := max(r.Min.Y-p.Y, 0, p.Y-(r.Max.Y-1))
	return dx*dx + dy*dy
}
