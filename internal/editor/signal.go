package editor

// signal is a minimal synchronous observer list. All emission happens on
// the UI goroutine, so it carries no locking.
type signal[T any] struct {
	next     int
	handlers map[int]func(T)
	order    []int
}

// connect registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (s *signal[T]) connect(fn func(T)) (disconnect func()) {
	if s.handlers == nil {
		s.handlers = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.handlers[id] = fn
	s.order = append(s.order, id)
	return func() {
		if _, ok := s.handlers[id]; !ok {
			return
		}
		delete(s.handlers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *signal[T]) emit(v T) {
	for _, id := range append([]int(nil), s.order...) {
		if fn, ok := s.handlers[id]; ok {
			fn(v)
		}
	}
}

func (s *signal[T]) len() int {
	return len(s.handlers)
}

// UpdateRequest describes a repaint of screen rows [Top, Bottom) of the text
// area. Dy is non-zero when the viewport scrolled by that many rows.
type UpdateRequest struct {
	Top    int
	Bottom int
	Dy     int
}
