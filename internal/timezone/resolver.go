package timezone

import (
	"fmt"
	"strings"

	"github.com/ringsaturn/tzf"
)

// Auto is the sentinel zone value that triggers coordinate lookup.
const Auto = "auto"

// Resolver maps coordinates to IANA timezone names using tzf's embedded
// polygon data. Construct it once at startup; the finder holds the full
// timezone geometry in memory.
type Resolver struct {
	finder tzf.F
}

func NewResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("initialize timezone finder: %w", err)
	}
	return &Resolver{finder: finder}, nil
}

// Resolve returns the IANA zone for the coordinate. An explicitly
// requested zone passes through unchanged; empty or "auto" performs the
// lookup. Coordinates with no matching zone (open ocean) return an
// error, which callers are expected to recover from by using UTC.
func (r *Resolver) Resolve(lat, lon float64, requested string) (string, error) {
	if requested != "" && !strings.EqualFold(requested, Auto) {
		return requested, nil
	}

	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no timezone found for lat=%f, lon=%f", lat, lon)
	}
	return name, nil
}
