package window

// Scroller holds one view's scroll offset.
type Scroller struct {
	offset int
}

// Offset is the current scroll offset.
func (s *Scroller) Offset() int {
	return s.offset
}

// Set moves to offset, treating negative values as zero.
func (s *Scroller) Set(offset int) {
	s.offset = max(0, offset)
}

// By moves the offset by delta, stopping at zero.
func (s *Scroller) By(delta int) {
	s.Set(s.offset + delta)
}

// Clamp keeps the offset within [0, maxScroll] and reports whether it
// moved.
func (s *Scroller) Clamp(maxScroll int) bool {
	maxScroll = max(0, maxScroll)
	if s.offset > maxScroll {
		s.offset = maxScroll
		return true
	}
	return false
}

// MaxScroll is the largest useful offset for content of contentHeight shown
// in a viewport of containerHeight.
func MaxScroll(contentHeight, containerHeight int) int {
	return max(0, contentHeight-containerHeight)
}
