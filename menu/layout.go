package menu

import (
	"fmt"
	"image"

	"github.com/getseabird/ctxmenu/api"
)

// reservations are the widths of the check, icon and arrow columns shared by
// every row of one menu.
type reservations struct {
	check int
	icon  int
	arrow int
}

func (md *menuData) reserve(font api.Font) (reservations, error) {
	cfg := md.tree.config.Icon
	var res reservations
	var hasCheck, hasIcon, hasArrow bool
	for _, it := range md.items {
		switch it.kind {
		case api.KindCheckbox, api.KindRadio:
			hasCheck = true
		case api.KindSubmenu:
			hasArrow = true
		}
		if it.icon != "" {
			hasIcon = true
		}
	}
	if hasCheck {
		g, err := md.tree.drv.MeasureText(cfg.CheckGlyph, font)
		if err != nil {
			return res, fmt.Errorf("measure check glyph: %w", err)
		}
		res.check = g.X + 2*cfg.HorizontalMargin
	}
	if hasIcon || cfg.ReserveSpace {
		res.icon = cfg.Size + 2*cfg.HorizontalMargin
	}
	if hasArrow {
		g, err := md.tree.drv.MeasureText(cfg.ArrowGlyph, font)
		if err != nil {
			return res, fmt.Errorf("measure arrow glyph: %w", err)
		}
		res.arrow = g.X + 2*cfg.HorizontalMargin
	}
	return res, nil
}

// measure returns the size of one row.
func (md *menuData) measure(it *item, res reservations, font api.Font, line, iconHeight int) (image.Point, error) {
	t := md.tree
	size := t.config.Size
	if it.kind == api.KindSeparator {
		return image.Pt(0, t.drv.Metrics().MenuBarItemHeight/2), nil
	}
	label, err := t.drv.MeasureText(it.label, font)
	if err != nil {
		return image.Point{}, fmt.Errorf("measure %q: %w", it.label, err)
	}
	w := label.X
	if it.accelerator != "" {
		accel, err := t.drv.MeasureText(it.accelerator, font)
		if err != nil {
			return image.Point{}, fmt.Errorf("measure %q: %w", it.accelerator, err)
		}
		w += size.AcceleratorGap + accel.X
	}
	w += 2*size.ItemHorizontalPadding + res.check + res.icon + res.arrow
	h := max(line, label.Y, iconHeight) + 2*size.ItemVerticalPadding
	return image.Pt(w, h), nil
}

// layout computes item bounds and the menu size for the current theme.
func (md *menuData) layout() error {
	t := md.tree
	size := t.config.Size
	font := t.config.Font.For(md.theme)

	res, err := md.reserve(font)
	if err != nil {
		return err
	}
	line, err := t.drv.MeasureText("Ag", font)
	if err != nil {
		return fmt.Errorf("measure line height: %w", err)
	}
	var iconHeight int
	if res.icon > 0 {
		iconHeight = t.config.Icon.Size
	}

	rows := make([]image.Point, len(md.items))
	var inner int
	for i, it := range md.items {
		if it.hidden {
			continue
		}
		rows[i], err = md.measure(it, res, font, line.Y, iconHeight)
		if err != nil {
			return err
		}
		inner = max(inner, rows[i].X)
	}

	x := size.BorderWidth + size.HorizontalPadding
	y := size.BorderWidth + size.VerticalPadding
	for i, it := range md.items {
		if it.hidden {
			it.bounds = image.Rectangle{}
			continue
		}
		it.bounds = image.Rect(x, y, x+inner, y+rows[i].Y)
		y += rows[i].Y
	}

	md.size = image.Pt(inner+2*(size.HorizontalPadding+size.BorderWidth), y+size.VerticalPadding+size.BorderWidth)
	md.res = res
	md.font = font
	return nil
}

// relayout recomputes the layout and resizes the surface if it is showing.
func (md *menuData) relayout() error {
	if err := md.layout(); err != nil {
		return err
	}
	if md.state == stateClosed {
		return nil
	}
	md.tree.closeSubmenu(md)
	r := image.Rectangle{Min: md.bounds.Min, Max: md.bounds.Min.Add(md.size)}
	if err := md.surface.SetBounds(r); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	md.bounds = r
	md.surface.Invalidate(image.Rectangle{Max: md.size})
	return nil
}
