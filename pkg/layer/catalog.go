package layer

import (
	"github.com/matzehuels/beatcut/pkg/errors"
)

// Catalog is an immutable list of sample layer lists drawn by random-layer.
// Entries go in and come out as deep copies.
type Catalog struct {
	entries [][]Layer
}

// NewCatalog validates entries and returns a catalog holding a copy of them.
//
// Every entry must be non-empty and every layer must have a type. Entries
// may use any template type except random-layer, which would make the
// expansion recurse into the catalog again.
func NewCatalog(entries [][]Layer) (*Catalog, error) {
	c := &Catalog{entries: make([][]Layer, len(entries))}
	for i, entry := range entries {
		if len(entry) == 0 {
			return nil, errors.New(errors.ErrCodeConfiguration, "sample layer %d is empty", i)
		}
		for j, l := range entry {
			switch l.Type() {
			case "":
				return nil, errors.New(errors.ErrCodeConfiguration, "sample layer %d.%d has no type", i, j)
			case TypeRandomLayer:
				return nil, errors.New(errors.ErrCodeConfiguration, "sample layer %d.%d cannot be %s", i, j, TypeRandomLayer)
			}
		}
		c.entries[i] = CloneAll(entry)
	}
	return c, nil
}

// DefaultCatalog returns the built-in sample layers.
func DefaultCatalog() *Catalog {
	return &Catalog{entries: [][]Layer{
		{
			{"type": TypeImage, "path": RandomSentinel},
		},
		{
			{"type": TypeGradient},
			{"type": TypeOverlayLeft, "path": RandomSentinel},
		},
		{
			{"type": TypeGradient},
			{"type": TypeOverlayRight, "path": RandomSentinel},
		},
		{
			{"type": TypeRandomPhoto},
			{"type": TypeOverlayRight, "path": RandomSentinel},
		},
	}}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entry returns a deep copy of entry i.
func (c *Catalog) Entry(i int) []Layer {
	return CloneAll(c.entries[i])
}

// Entries returns a deep copy of all entries.
func (c *Catalog) Entries() [][]Layer {
	out := make([][]Layer, len(c.entries))
	for i := range c.entries {
		out[i] = c.Entry(i)
	}
	return out
}
