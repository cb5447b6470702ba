package models

import (
	"fmt"
	"time"
)

// Level identifies one tier of the address hierarchy.
type Level string

// Address hierarchy levels.
const (
	LevelCountry  Level = "country"
	LevelRegion   Level = "region"
	LevelCity     Level = "city"
	LevelStreet   Level = "street"
	LevelDistrict Level = "district"
	LevelBuilding Level = "building"
)

// levelInfo describes how a level is addressed over HTTP and where it sits
// in the hierarchy.
type levelInfo struct {
	entity      string
	parent      Level
	parentField string
	rank        int
}

var levels = map[Level]levelInfo{
	LevelCountry:  {entity: "countries", rank: 0},
	LevelRegion:   {entity: "regions", parent: LevelCountry, parentField: "countryId", rank: 1},
	LevelCity:     {entity: "cities", parent: LevelRegion, parentField: "regionId", rank: 2},
	LevelStreet:   {entity: "streets", parent: LevelCity, parentField: "cityId", rank: 3},
	LevelDistrict: {entity: "districts", parent: LevelCity, parentField: "cityId", rank: 3},
	LevelBuilding: {entity: "buildings", parent: LevelStreet, parentField: "streetId", rank: 4},
}

// Levels lists every level in rank order, siblings in declaration order.
func Levels() []Level {
	return []Level{LevelCountry, LevelRegion, LevelCity, LevelStreet, LevelDistrict, LevelBuilding}
}

// ParseLevel resolves a level from its name ("city") or entity path ("cities").
func ParseLevel(s string) (Level, error) {
	for l, info := range levels {
		if s == string(l) || s == info.entity {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	_, ok := levels[l]
	return ok
}

// Entity returns the plural path segment used by the API, e.g. "regions".
func (l Level) Entity() string { return levels[l].entity }

// Parent returns the immediate ancestor level and false for the root.
func (l Level) Parent() (Level, bool) {
	p := levels[l].parent
	return p, p != ""
}

// ParentField returns the query parameter naming the parent id, e.g. "countryId".
func (l Level) ParentField() string { return levels[l].parentField }

// Rank orders levels; Street and District share a rank.
func (l Level) Rank() int { return levels[l].rank }

// Children returns the levels whose immediate parent is l.
func (l Level) Children() []Level {
	var out []Level
	for _, c := range Levels() {
		if p, ok := c.Parent(); ok && p == l {
			out = append(out, c)
		}
	}
	return out
}

// Ref is a denormalized {id, name} reference embedded in request bodies.
type Ref struct {
	ID   int64  `json:"id" binding:"required,gt=0"`
	Name string `json:"name"`
}

// GeoNode is a single entry of the address hierarchy.
// ParentID is nil only for countries. DistrictID is set only for buildings.
type GeoNode struct {
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	ParentID   *int64    `json:"parentId,omitempty"`
	DistrictID *int64    `json:"districtId,omitempty"`
	Level      Level     `json:"level"`
	Name       string    `json:"name"`
	ID         int64     `json:"id"`
}

// GeoInput is the body of the add and update endpoints.
// Exactly one parent reference matching the level is expected.
type GeoInput struct {
	Country  *Ref   `json:"country,omitempty"`
	Region   *Ref   `json:"region,omitempty"`
	City     *Ref   `json:"city,omitempty"`
	Street   *Ref   `json:"street,omitempty"`
	District *Ref   `json:"district,omitempty"`
	Name     string `json:"name" binding:"required,max=255"`
}

// NewGeoInput builds the request body for level with the parent reference
// stored under the parent's key.
func NewGeoInput(level Level, name string, parent, district *Ref) GeoInput {
	in := GeoInput{Name: name}
	if p, ok := level.Parent(); ok {
		in.setRef(p, parent)
	}
	if level == LevelBuilding {
		in.District = district
	}
	return in
}

// ParentRef returns the reference stored under level's parent key.
func (in GeoInput) ParentRef(level Level) *Ref {
	p, ok := level.Parent()
	if !ok {
		return nil
	}
	switch p {
	case LevelCountry:
		return in.Country
	case LevelRegion:
		return in.Region
	case LevelCity:
		return in.City
	case LevelStreet:
		return in.Street
	}
	return nil
}

func (in *GeoInput) setRef(level Level, ref *Ref) {
	switch level {
	case LevelCountry:
		in.Country = ref
	case LevelRegion:
		in.Region = ref
	case LevelCity:
		in.City = ref
	case LevelStreet:
		in.Street = ref
	case LevelDistrict:
		in.District = ref
	}
}
