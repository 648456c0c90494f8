// Package gallery resolves which images a product shows and tracks the
// navigation state of the detail-view image gallery.
package gallery

import (
	"math"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
)

// SwipeThreshold is the horizontal displacement a drag must exceed before it
// counts as a swipe gesture.
const SwipeThreshold = 50

// Resolve returns the ordered image list for a product. The backend schema
// migrated twice, so three fields may carry images; precedence runs newest
// to oldest and must not be reordered, or products with mixed fields would
// show stale images:
//
//	imageUrls (current) > images (legacy list) > imageUrl (legacy single)
func Resolve(p catalog.Product) []string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs
	}
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return nil
}

// Gallery tracks the currently shown image of a resolved image list.
// The zero value is an empty gallery.
type Gallery struct {
	images []string
	index  int

	swipeActive bool
	swipeStartX float64
}

// New creates a gallery positioned at the first image.
func New(images []string) *Gallery {
	return &Gallery{images: images}
}

// ForProduct creates a gallery over the product's resolved image list.
func ForProduct(p catalog.Product) *Gallery {
	return New(Resolve(p))
}

// Len returns the number of images.
func (g *Gallery) Len() int { return len(g.images) }

// Index returns the 0-based index of the current image.
func (g *Gallery) Index() int { return g.index }

// Images returns the resolved image list.
func (g *Gallery) Images() []string { return g.images }

// Current returns the URL of the current image. ok is false for an empty
// gallery, in which case the caller renders a placeholder.
func (g *Gallery) Current() (url string, ok bool) {
	if len(g.images) == 0 {
		return "", false
	}
	return g.images[g.index], true
}

// ShowControls reports whether navigation affordances (arrows, dots,
// thumbnails) should be rendered at all. They are hidden, not disabled, for
// galleries with fewer than two images.
func (g *Gallery) ShowControls() bool { return len(g.images) > 1 }

// Next advances to the following image, wrapping to the first. No-op for
// galleries with fewer than two images.
func (g *Gallery) Next() {
	if len(g.images) < 2 {
		return
	}
	g.index = (g.index + 1) % len(g.images)
}

// Prev steps back to the previous image, wrapping to the last. No-op for
// galleries with fewer than two images.
func (g *Gallery) Prev() {
	if len(g.images) < 2 {
		return
	}
	g.index = (g.index - 1 + len(g.images)) % len(g.images)
}

// JumpTo selects the image at i. Out-of-range indices are ignored.
func (g *Gallery) JumpTo(i int) {
	if i < 0 || i >= len(g.images) {
		return
	}
	g.index = i
}

// SwipeStart begins a horizontal drag gesture at the given x coordinate.
func (g *Gallery) SwipeStart(x float64) {
	g.swipeActive = true
	g.swipeStartX = x
}

// SwipeMove processes a drag update. Once the net displacement from the
// start exceeds SwipeThreshold the gallery moves exactly one image (leftward
// drag advances, rightward goes back) and the gesture is consumed, so a
// continued drag cannot fire again until SwipeStart is called.
func (g *Gallery) SwipeMove(x float64) {
	if !g.swipeActive {
		return
	}
	diff := x - g.swipeStartX
	if math.Abs(diff) <= SwipeThreshold {
		return
	}
	if diff < 0 {
		g.Next()
	} else {
		g.Prev()
	}
	g.swipeActive = false
}

// SwipeEnd ends the gesture without firing.
func (g *Gallery) SwipeEnd() {
	g.swipeActive = false
}
