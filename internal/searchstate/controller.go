package searchstate

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
)

// pageKey is the form name of the pagination field reset by Write.
const pageKey = "page"

// Controller synchronizes a filter of type F with a Location.
type Controller[F any] struct {
	loc Location
}

// New binds a controller to loc. F must be a struct with form tags.
func New[F any](loc Location) *Controller[F] {
	return &Controller[F]{loc: loc}
}

// Read parses the current query into F.
func (c *Controller[F]) Read() (F, error) {
	return Decode[F](c.loc.Query())
}

// Write applies mutate to the current filter and stores the result. The page
// is reset to 0 unless page is the only key that changed.
func (c *Controller[F]) Write(mutate func(*F)) (F, error) {
	f, err := c.Read()
	if err != nil {
		return f, err
	}
	before, err := Encode(&f)
	if err != nil {
		return f, err
	}

	mutate(&f)

	after, err := Encode(&f)
	if err != nil {
		return f, err
	}
	if !equalExcept(before, after, pageKey) {
		if err := setPage(&f, 0); err != nil {
			return f, err
		}
		if after, err = Encode(&f); err != nil {
			return f, err
		}
	}

	c.loc.Replace(after)
	return f, nil
}

// Reset drops every filter, leaving the default page and size.
func (c *Controller[F]) Reset() (F, error) {
	f, err := Decode[F](nil)
	if err != nil {
		return f, err
	}
	q, err := Encode(&f)
	if err != nil {
		return f, err
	}
	c.loc.Replace(q)
	return f, nil
}

func equalExcept(a, b url.Values, skip string) bool {
	a, b = maps.Clone(a), maps.Clone(b)
	delete(a, skip)
	delete(b, skip)
	return maps.EqualFunc(a, b, slices.Equal[[]string])
}

// setPage assigns n to the integer field whose form key is page.
func setPage(ptr any, n int64) error {
	v := reflect.ValueOf(ptr).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if fieldKey(t.Field(i)) != pageKey {
			continue
		}
		fv := v.Field(i)
		if !fv.CanInt() {
			return fmt.Errorf("searchstate: %s field must be an integer", pageKey)
		}
		fv.SetInt(n)
		return nil
	}
	return nil
}
