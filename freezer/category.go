package freezer

import (
	"fmt"
	"strings"
)

// Category selects one of the record tables stored in the freezer.
type Category uint8

const (
	Bodies Category = iota
	Headers
	Hashes
	Difficulty
	Receipts
)

type categoryInfo struct {
	name       string
	compressed bool
	// raw tables hold bare fixed-size values instead of RLP items.
	raw bool
}

var categoryTable = [...]categoryInfo{
	Bodies:     {name: "bodies", compressed: true},
	Headers:    {name: "headers", compressed: true},
	Hashes:     {name: "hashes", raw: true},
	Difficulty: {name: "diffs"},
	Receipts:   {name: "receipts", compressed: true},
}

var categoryAliases = map[string]Category{
	"b": Bodies, "body": Bodies, "bodies": Bodies,
	"h": Headers, "header": Headers, "headers": Headers,
	"hash": Hashes, "hashes": Hashes,
	"d": Difficulty, "diff": Difficulty, "diffs": Difficulty, "difficulty": Difficulty,
	"r": Receipts, "receipt": Receipts, "receipts": Receipts,
}

// Categories returns every category in table order.
func Categories() []Category {
	return []Category{Bodies, Headers, Hashes, Difficulty, Receipts}
}

// ParseCategory accepts a table name or one of its short aliases.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown record category %q", s)
	}
	return c, nil
}

func (c Category) info() categoryInfo {
	if int(c) >= len(categoryTable) {
		return categoryInfo{name: fmt.Sprintf("category(%d)", uint8(c))}
	}
	return categoryTable[c]
}

// String returns the table name used in file names.
func (c Category) String() string { return c.info().name }

// Compressed reports whether records are stored compressed.
func (c Category) Compressed() bool { return c.info().compressed }

// Raw reports whether records are bare values rather than RLP items.
func (c Category) Raw() bool { return c.info().raw }

func (c Category) ext() string {
	if c.Compressed() {
		return "c"
	}
	return "r"
}

// IndexFile returns the file name of the category's index.
func (c Category) IndexFile() string {
	return c.String() + "." + c.ext() + "idx"
}

// DataFile returns the file name of a numbered data file.
func (c Category) DataFile(fileNumber uint16) string {
	return fmt.Sprintf("%s.%04d.%sdat", c.String(), fileNumber, c.ext())
}
