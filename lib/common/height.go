package common

import "strconv"

// Height is a tick of the external block-height clock.
type Height uint64

func (h Height) Add(period Height) Height {
	if n := h + period; n >= h {
		return n
	}

	return Height(^uint64(0))
}

// Since returns how many ticks passed from `past` to `h`, zero if `past` is
// in the future.
func (h Height) Since(past Height) Height {
	if h < past {
		return 0
	}

	return h - past
}

func (h Height) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
