package tileset

import (
	"context"
	"image"

	"github.com/milk9111/tilemap/tilemap"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one asynchronous Load.
type Result struct {
	ID      tilemap.TileSetID
	Content string
	Image   image.Image
	Err     error
}

type entry struct {
	content string
	img     image.Image
}

// Provider decodes tile-set content off the main goroutine and keeps the
// decoded images by id. Only Load's worker runs concurrently; every other
// method must be called from the goroutine that owns the editor.
type Provider struct {
	log      logrus.FieldLogger
	images   map[tilemap.TileSetID]entry
	wanted   map[tilemap.TileSetID]string
	inflight []<-chan Result
}

func NewProvider(log logrus.FieldLogger) *Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provider{
		log:    log,
		images: make(map[tilemap.TileSetID]entry),
		wanted: make(map[tilemap.TileSetID]string),
	}
}

// TileSetImage returns the decoded image of id or nil while it is unresolved.
func (p *Provider) TileSetImage(id tilemap.TileSetID) image.Image {
	return p.images[id].img
}

// Load decodes content in the background. The returned channel yields exactly
// one Result; pass it to Resolve to make the image visible.
func (p *Provider) Load(ctx context.Context, id tilemap.TileSetID, content string) <-chan Result {
	p.wanted[id] = content
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		res := Result{ID: id, Content: content}
		if err := ctx.Err(); err != nil {
			res.Err = err
		} else {
			res.Image, res.Err = Decode(content)
		}
		out <- res
	}()
	return out
}

// Resolve applies a finished Load. Results for content that has since been
// replaced are dropped. Reports whether the visible image of res.ID changed.
func (p *Provider) Resolve(res Result) bool {
	if want, ok := p.wanted[res.ID]; !ok || want != res.Content {
		return false
	}
	if res.Err != nil {
		p.log.WithFields(logrus.Fields{"tileSet": res.ID, "error": res.Err}).Warn("tileset: could not decode image")
		_, had := p.images[res.ID]
		delete(p.images, res.ID)
		return had
	}
	p.images[res.ID] = entry{content: res.Content, img: res.Image}
	p.log.WithField("tileSet", res.ID).Debug("tileset: image resolved")
	return true
}

// Set installs an already decoded image.
func (p *Provider) Set(id tilemap.TileSetID, content string, img image.Image) {
	p.wanted[id] = content
	p.images[id] = entry{content: content, img: img}
}

// Forget drops id.
func (p *Provider) Forget(id tilemap.TileSetID) {
	delete(p.wanted, id)
	delete(p.images, id)
}

// Sync starts loads for every tile set of m whose content is not already
// wanted and forgets ids m no longer registers. Completed loads are applied
// by Poll or Wait.
func (p *Provider) Sync(ctx context.Context, m *tilemap.TileMap) {
	for id := range p.wanted {
		if _, ok := m.TileSets[id]; !ok {
			p.Forget(id)
		}
	}
	for _, id := range m.TileSetIDs() {
		ts := m.TileSets[id]
		if want, ok := p.wanted[id]; ok && want == ts.Content {
			continue
		}
		p.inflight = append(p.inflight, p.Load(ctx, id, ts.Content))
	}
}

// Poll applies every finished load without blocking and returns the ids whose
// image changed.
func (p *Provider) Poll() []tilemap.TileSetID {
	var changed []tilemap.TileSetID
	pending := p.inflight[:0]
	for _, ch := range p.inflight {
		select {
		case res := <-ch:
			if p.Resolve(res) {
				changed = append(changed, res.ID)
			}
		default:
			pending = append(pending, ch)
		}
	}
	clear(p.inflight[len(pending):])
	p.inflight = pending
	return changed
}

// Wait blocks until every pending load finished or ctx is done.
func (p *Provider) Wait(ctx context.Context) []tilemap.TileSetID {
	var changed []tilemap.TileSetID
	for len(p.inflight) > 0 {
		select {
		case res := <-p.inflight[0]:
			if p.Resolve(res) {
				changed = append(changed, res.ID)
			}
			p.inflight = p.inflight[1:]
		case <-ctx.Done():
			return changed
		}
	}
	return changed
}

// Pending is the number of loads not yet applied.
func (p *Provider) Pending() int {
	return len(p.inflight)
}
