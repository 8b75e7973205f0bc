// Package catalog holds the pre-built lookup of items, household types and
// areas for one household survey table. A Catalog is read-only once loaded
// and may be shared between goroutines.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"kakeistat/internal/stats"
)

// ErrItemNotFound is returned when an item code is not in the catalog.
var ErrItemNotFound = errors.New("item not found")

const (
	defaultHouseholdName  = "二人以上の世帯"
	excludedHouseholdName = "勤労者"
	defaultAreaName       = "全国"
)

// Dimension columns of the household survey table and the label columns
// added next to them.
const (
	ItemColumn           = "cat01"
	HouseholdColumn      = "cat02"
	ItemLabelColumn      = "item_name"
	HouseholdLabelColumn = "household_name"
	AreaLabelColumn      = "area_name"
)

// Entry is a code/name pair for a household type or an area.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Item is an expenditure category. DisplayName is what users see and what
// output files are named after.
type Item struct {
	Code        string `json:"code"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name"`
}

// Label returns DisplayName, or Name for snapshots that lack it.
func (i Item) Label() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Name
}

type Catalog struct {
	StatsDataID string  `json:"stats_data_id"`
	Items       []Item  `json:"items"`
	Households  []Entry `json:"households"`
	Areas       []Entry `json:"areas"`

	itemIndex map[string]int
}

// Load reads a catalog snapshot from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a snapshot and checks that codes are unique per collection.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if c.StatsDataID == "" {
		return nil, errors.New("catalog: stats_data_id is empty")
	}

	c.itemIndex = make(map[string]int, len(c.Items))
	for i, item := range c.Items {
		if _, dup := c.itemIndex[item.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate item code %q", item.Code)
		}
		c.itemIndex[item.Code] = i
	}
	if err := uniqueCodes("household", c.Households); err != nil {
		return nil, err
	}
	if err := uniqueCodes("area", c.Areas); err != nil {
		return nil, err
	}
	return &c, nil
}

func uniqueCodes(kind string, entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Code] {
			return fmt.Errorf("catalog: duplicate %s code %q", kind, e.Code)
		}
		seen[e.Code] = true
	}
	return nil
}

// Item looks up an item by code.
func (c *Catalog) Item(code string) (Item, error) {
	i, ok := c.itemIndex[code]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, code)
	}
	return c.Items[i], nil
}

// Search returns items whose display name contains keyword, in catalog order.
func (c *Catalog) Search(keyword string) []Item {
	keyword = strings.TrimSpace(keyword)
	var matched []Item
	for _, item := range c.Items {
		if strings.Contains(item.Label(), keyword) {
			matched = append(matched, item)
		}
	}
	return matched
}

// DefaultHousehold picks the "two or more persons" breakdown, skipping the
// worker-household subset whose name contains the same phrase. Falls back
// to the first household.
func (c *Catalog) DefaultHousehold() (Entry, bool) {
	for _, h := range c.Households {
		if strings.Contains(h.Name, defaultHouseholdName) && !strings.Contains(h.Name, excludedHouseholdName) {
			return h, true
		}
	}
	if len(c.Households) > 0 {
		return c.Households[0], true
	}
	return Entry{}, false
}

// DefaultArea picks the nationwide area, falling back to the first area.
func (c *Catalog) DefaultArea() (Entry, bool) {
	for _, a := range c.Areas {
		if a.Name == defaultAreaName {
			return a, true
		}
	}
	if len(c.Areas) > 0 {
		return c.Areas[0], true
	}
	return Entry{}, false
}

// ItemLabels maps item code to display name.
func (c *Catalog) ItemLabels() map[string]string {
	labels := make(map[string]string, len(c.Items))
	for _, item := range c.Items {
		labels[item.Code] = item.Label()
	}
	return labels
}

func (c *Catalog) HouseholdLabels() map[string]string { return entryLabels(c.Households) }

func (c *Catalog) AreaLabels() map[string]string { return entryLabels(c.Areas) }

func entryLabels(entries []Entry) map[string]string {
	labels := make(map[string]string, len(entries))
	for _, e := range entries {
		labels[e.Code] = e.Name
	}
	return labels
}

// LabelSpecs returns the label columns for a table fetched for item. The
// item's own display name is the fallback for unknown item codes.
func (c *Catalog) LabelSpecs(item Item) []stats.LabelSpec {
	return []stats.LabelSpec{
		{Column: ItemColumn, LabelColumn: ItemLabelColumn, Labels: c.ItemLabels(), Default: item.Label()},
		{Column: HouseholdColumn, LabelColumn: HouseholdLabelColumn, Labels: c.HouseholdLabels()},
		{Column: stats.ColumnArea, LabelColumn: AreaLabelColumn, Labels: c.AreaLabels()},
	}
}
