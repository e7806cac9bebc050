package core

// Carousel is the gallery cursor over a collection of Len records.
// Index is always in [0, Len) unless Len is zero.
type Carousel struct {
	Index int
	Len   int
}

// NewCarousel clamps index into range by wrapping.
func NewCarousel(index, length int) Carousel {
	return Carousel{Len: length}.GoTo(index)
}

func (c Carousel) Empty() bool {
	return c.Len <= 0
}

func (c Carousel) Next() Carousel {
	return c.GoTo(c.Index + 1)
}

func (c Carousel) Prev() Carousel {
	return c.GoTo(c.Index - 1)
}

// GoTo moves to index, wrapping at both ends.
func (c Carousel) GoTo(index int) Carousel {
	if c.Empty() {
		return Carousel{}
	}
	index %= c.Len
	if index < 0 {
		index += c.Len
	}
	return Carousel{Index: index, Len: c.Len}
}
