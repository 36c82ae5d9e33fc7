package blob

import (
	"fmt"
	"strings"
)

// DataFlags describe who owns and who may write the memory backing a view.
// They are runtime state only and are never stored in the chunk format.
type DataFlags uint8

const (
	// DataOwned means the memory belongs to the holder and is released
	// with it. Unset for views into memory-mapped files or constant data.
	DataOwned DataFlags = 1 << iota
	// DataMutable means the memory may be written through the view.
	// Unset for read-only mappings.
	DataMutable
)

// Has reports whether every flag in mask is set.
func (f DataFlags) Has(mask DataFlags) bool { return f&mask == mask }

func (f DataFlags) String() string {
	if f == 0 {
		return "DataFlags(0)"
	}
	var parts []string
	if f&DataOwned != 0 {
		parts = append(parts, "Owned")
	}
	if f&DataMutable != 0 {
		parts = append(parts, "Mutable")
	}
	if rest := f &^ (DataOwned | DataMutable); rest != 0 {
		parts = append(parts, fmt.Sprintf("DataFlags(%#x)", uint8(rest)))
	}
	return strings.Join(parts, "|")
}
