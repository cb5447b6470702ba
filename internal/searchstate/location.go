package searchstate

import (
	"fmt"
	"net/url"
	"sync"
)

// Location is the address bar a Controller reads from and writes to.
type Location interface {
	Query() url.Values
	Replace(query url.Values)
}

// URLLocation is a Location backed by a parsed URL.
type URLLocation struct {
	mu sync.Mutex
	u  url.URL
}

// ParseLocation creates a URLLocation from raw.
func ParseLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("searchstate: parsing location %q: %w", raw, err)
	}
	return &URLLocation{u: *u}, nil
}

// Query returns a copy of the current query parameters.
func (l *URLLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.Query()
}

// Replace swaps the query string for query.
func (l *URLLocation) Replace(query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.u.RawQuery = query.Encode()
}

// String returns the full URL.
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.u.String()
}
