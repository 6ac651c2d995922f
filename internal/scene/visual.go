package scene

import (
	"errors"
	"io"
	"sync"

	"routeviz/internal/feed"
	"routeviz/internal/log"
	"routeviz/internal/projection"
	"routeviz/internal/settings"
)

// ErrClosed is returned by Update once the visual has been closed.
var ErrClosed = errors.New("scene: visual closed")

// Surface consumes the commands of one pass. Begin discards whatever the
// previous pass drew.
type Surface interface {
	Begin(vp projection.Viewport)
	Draw(c Command)
	End() error
}

// Visual owns a surface for its lifetime and redraws it from scratch on
// every Update. If the surface implements io.Closer it is closed with the
// visual.
type Visual struct {
	mu      sync.Mutex
	surface Surface
	lg      *log.Logger
	closed  bool
}

func NewVisual(s Surface, lg *log.Logger) *Visual {
	return &Visual{surface: s, lg: lg}
}

// Update renders one pass onto the surface. Passes never overlap.
func (v *Visual) Update(t feed.Table, cfg settings.StyleConfig, vp projection.Viewport) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	cmds := Render(t, cfg, vp, v.lg)
	v.surface.Begin(vp)
	for _, c := range cmds {
		v.surface.Draw(c)
	}
	return v.surface.End()
}

func (v *Visual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	if c, ok := v.surface.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
