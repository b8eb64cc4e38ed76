package offscreen

import (
	"image"
	"time"

	"github.com/getseabird/ctxmenu/driver"
)

// Then queues fn as a script step.
func (d *Driver) Then(fn func()) *Driver {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.script = append(d.script, fn)
	return d
}

func (d *Driver) event(ev driver.Event) *Driver {
	return d.Then(func() { d.Send(ev) })
}

// Pending reports the number of queued script steps.
func (d *Driver) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.script)
}

func (d *Driver) Move(pt image.Point) *Driver {
	return d.event(driver.Event{Type: driver.PointerMove, Pos: pt})
}

// MoveTo resolves the position when the step runs.
func (d *Driver) MoveTo(pt func() image.Point) *Driver {
	return d.Then(func() { d.Send(driver.Event{Type: driver.PointerMove, Pos: pt()}) })
}

func (d *Driver) Down(pt image.Point, button int) *Driver {
	return d.event(driver.Event{Type: driver.PointerDown, Pos: pt, Button: button})
}

func (d *Driver) Up(pt image.Point, button int) *Driver {
	return d.event(driver.Event{Type: driver.PointerUp, Pos: pt, Button: button})
}

// Click moves to pt and presses and releases the primary button.
func (d *Driver) Click(pt image.Point) *Driver {
	return d.Move(pt).Down(pt, driver.ButtonPrimary).Up(pt, driver.ButtonPrimary)
}

// ClickAt resolves the position when the step runs.
func (d *Driver) ClickAt(pt func() image.Point) *Driver {
	return d.Then(func() {
		p := pt()
		d.Send(driver.Event{Type: driver.PointerMove, Pos: p})
		d.Send(driver.Event{Type: driver.PointerDown, Pos: p, Button: driver.ButtonPrimary})
		d.Send(driver.Event{Type: driver.PointerUp, Pos: p, Button: driver.ButtonPrimary})
	})
}

func (d *Driver) Key(k driver.Key) *Driver {
	return d.event(driver.Event{Type: driver.KeyDown, Key: k})
}

func (d *Driver) Scroll(pt image.Point, delta image.Point) *Driver {
	return d.event(driver.Event{Type: driver.Scroll, Pos: pt, Delta: delta})
}

func (d *Driver) Deactivate() *Driver {
	return d.event(driver.Event{Type: driver.Deactivate})
}

// Tick advances the virtual clock.
func (d *Driver) Tick(delta time.Duration) *Driver {
	return d.Then(func() { d.advance(delta) })
}

// SetDark changes the system preference and notifies watchers.
func (d *Driver) SetDark(dark bool) {
	d.mutex.Lock()
	changed := d.dark != dark
	d.dark = dark
	var fns []func()
	if changed {
		for _, fn := range d.watchers {
			fns = append(fns, fn)
		}
	}
	d.mutex.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Advance moves the virtual clock outside of a script.
func (d *Driver) Advance(delta time.Duration) {
	d.advance(delta)
	d.paint()
}
