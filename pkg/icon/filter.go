package icon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Filter names a resampling filter used by Resize
type Filter string

const (
	Lanczos    Filter = "lanczos"
	CatmullRom Filter = "catmullrom"
	Mitchell   Filter = "mitchell"
	Linear     Filter = "linear"
	Box        Filter = "box"
	Nearest    Filter = "nearest"
)

var filters = map[Filter]imaging.ResampleFilter{
	Lanczos:    imaging.Lanczos,
	CatmullRom: imaging.CatmullRom,
	Mitchell:   imaging.MitchellNetravali,
	Linear:     imaging.Linear,
	Box:        imaging.Box,
	Nearest:    imaging.NearestNeighbor,
}

// ParseFilter resolves a filter name, case-insensitively. An empty name is Lanczos.
func ParseFilter(name string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return Lanczos, nil
	}
	if _, ok := filters[f]; !ok {
		return "", fmt.Errorf("unknown filter %q (want one of %s)", name, strings.Join(FilterNames(), ", "))
	}
	return f, nil
}

// FilterNames lists the supported filter names in sorted order
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for f := range filters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

func (f Filter) resample() imaging.ResampleFilter {
	if rf, ok := filters[f]; ok {
		return rf
	}
	return imaging.Lanczos
}
