package menu

import (
	"image"

	"github.com/getseabird/ctxmenu/api"
	"github.com/getseabird/ctxmenu/driver"
)

func (md *menuData) Paint(c driver.Canvas, dirty image.Rectangle) {
	t := md.tree
	cfg := t.config
	pal := t.palettes[md.theme]

	frame := image.Rectangle{Max: md.size}
	full := frame.In(dirty)
	if full {
		c.FillRect(frame, pal.Border)
		inner := frame.Inset(cfg.Size.BorderWidth)
		if cfg.Corner == api.CornerRound && t.drv.Metrics().RoundedCorners {
			c.FillRoundedRect(inner, cfg.Size.CornerRadius, pal.Background)
		} else {
			c.FillRect(inner, pal.Background)
		}
	}

	for i, it := range md.items {
		if it.hidden || !it.bounds.Overlaps(dirty) {
			continue
		}
		if !full {
			c.FillRect(it.bounds, pal.Background)
		}
		if err := md.paintItem(c, i, pal); err != nil {
			t.log.Error(err, "paint failed", "menu", md.handle, "item", it.id)
			return
		}
	}
}

func (md *menuData) paintItem(c driver.Canvas, idx int, pal api.Palette) error {
	cfg := md.tree.config
	it := md.items[idx]
	b := it.bounds

	if it.kind == api.KindSeparator {
		y := b.Min.Y + b.Dy()/2
		from := image.Pt(b.Min.X+cfg.Size.ItemHorizontalPadding, y)
		to := image.Pt(b.Max.X-cfg.Size.ItemHorizontalPadding, y)
		c.Line(from, to, cfg.Size.SeparatorThickness, pal.Separator)
		return nil
	}

	fg, accel := pal.Text, pal.Accelerator
	if it.inert() {
		fg, accel = pal.Disabled, pal.Disabled
	} else if idx == md.selected {
		c.FillRect(b, pal.HoverBackground)
	}

	slot := func(x, w int) image.Rectangle {
		return image.Rect(x, b.Min.Y, x+w, b.Max.Y)
	}
	left := b.Min.X + cfg.Size.ItemHorizontalPadding
	right := b.Max.X - cfg.Size.ItemHorizontalPadding

	if md.res.check > 0 {
		if it.checked {
			if err := c.Text(slot(left, md.res.check), cfg.Icon.CheckGlyph, md.font, driver.AlignCenter, fg); err != nil {
				return err
			}
		}
		left += md.res.check
	}
	if md.res.icon > 0 {
		if it.icon != "" {
			md.paintIcon(c, it, slot(left, md.res.icon))
		}
		left += md.res.icon
	}
	if md.res.arrow > 0 {
		right -= md.res.arrow
		if it.kind == api.KindSubmenu {
			if err := c.Text(slot(right, md.res.arrow), cfg.Icon.ArrowGlyph, md.font, driver.AlignCenter, fg); err != nil {
				return err
			}
		}
	}

	text := image.Rect(left, b.Min.Y, right, b.Max.Y)
	if err := c.Text(text, it.label, md.font, driver.AlignStart, fg); err != nil {
		return err
	}
	if it.accelerator != "" {
		return c.Text(text, it.accelerator, md.font, driver.AlignEnd, accel)
	}
	return nil
}

// paintIcon draws the icon centered in r. Load failures are logged and the
// row is painted without it.
func (md *menuData) paintIcon(c driver.Canvas, it *item, r image.Rectangle) {
	log := md.tree.log
	img, ok := md.icons[it.handle]
	if !ok {
		var err error
		img, err = md.tree.drv.LoadImage(it.icon, md.tree.config.Icon.Size)
		if err != nil {
			log.Error(err, "failed to load icon", "item", it.id, "icon", it.icon)
			return
		}
		md.icons[it.handle] = img
	}
	size := img.Size()
	at := r.Min.Add(r.Size().Sub(size).Div(2))
	if err := c.DrawImage(image.Rectangle{Min: at, Max: at.Add(size)}, img); err != nil {
		log.Error(err, "failed to draw icon", "item", it.id)
	}
}

func (md *menuData) invalidateItem(idx int) {
	if md.state == stateClosed || idx < 0 || idx >= len(md.items) {
		return
	}
	md.surface.Invalidate(md.items[idx].bounds)
}

func (md *menuData) setSelected(idx int) {
	if idx == md.selected {
		return
	}
	old := md.selected
	md.selected = idx
	md.invalidateItem(old)
	md.invalidateItem(idx)
}
