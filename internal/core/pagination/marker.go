package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GapToken is the textual form of an elision marker.
const GapToken = "gap"

// Marker is one entry of a page navigation sequence:
// either a concrete page number or a gap standing for an omitted range.
type Marker struct {
	page int // 0 means gap
}

// Page returns a marker for page n (1-based).
func Page(n int) Marker {
	return Marker{page: n}
}

// Gap returns an elision marker.
func Gap() Marker {
	return Marker{}
}

// IsGap reports whether m is an elision marker.
func (m Marker) IsGap() bool {
	return m.page == 0
}

// Number returns the page number, or 0 for a gap.
func (m Marker) Number() int {
	return m.page
}

func (m Marker) String() string {
	if m.IsGap() {
		return GapToken
	}
	return strconv.Itoa(m.page)
}

// MarshalJSON encodes a page as a number and a gap as "gap".
func (m Marker) MarshalJSON() ([]byte, error) {
	if m.IsGap() {
		return json.Marshal(GapToken)
	}
	return json.Marshal(m.page)
}

// UnmarshalJSON accepts a positive page number or "gap".
func (m *Marker) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != GapToken {
			return fmt.Errorf("invalid page marker %q", s)
		}
		*m = Gap()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid page marker: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("invalid page number %d", n)
	}
	*m = Page(n)
	return nil
}
