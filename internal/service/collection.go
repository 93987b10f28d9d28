package service

import "github.com/jask/surveyboard/internal/survey"

// Collection is the canonical in-memory list of surveys. Every mutation is
// keyed by ID and safe to repeat.
type Collection struct {
	items []survey.Record
}

// Items returns a copy of the records in display order.
func (c *Collection) Items() []survey.Record {
	out := make([]survey.Record, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int { return len(c.items) }

// Replace swaps the whole collection.
func (c *Collection) Replace(recs []survey.Record) {
	c.items = make([]survey.Record, len(recs))
	copy(c.items, recs)
}

// Get looks a record up by ID.
func (c *Collection) Get(id int64) (survey.Record, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	return survey.Record{}, false
}

// Upsert replaces the record with the same ID in place, or prepends it.
func (c *Collection) Upsert(r survey.Record) {
	if i := c.index(r.ID); i >= 0 {
		c.items[i] = r
		return
	}
	c.items = append([]survey.Record{r}, c.items...)
}

// Remove deletes the record with id and reports whether one was present.
func (c *Collection) Remove(id int64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Collection) index(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
