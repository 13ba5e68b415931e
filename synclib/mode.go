package synclib

import (
	"fmt"
	"strings"
)

// SubObjectMode describes the shape of the next nested value.
//
// Normal, Tuple and List are mutually exclusive. Deduplicate, NotNull and
// DynamicType combine with any of them.
type SubObjectMode uint8

const (
	// Normal is an object whose fields have names.
	Normal SubObjectMode = 0
	// Tuple is a fixed number of unnamed, positional fields.
	Tuple SubObjectMode = 1
	// List is a variable number of unnamed, positional fields.
	// Its bit pattern contains Tuple's, so both count as positional.
	List SubObjectMode = 3
	// Deduplicate enables identity tracking for the value.
	Deduplicate SubObjectMode = 4
	// NotNull says the value is statically known to be non-null.
	NotNull SubObjectMode = 8
	// DynamicType says the runtime type may differ from the static type,
	// so a type discriminator must be persisted.
	DynamicType SubObjectMode = 16

	baseMask = List
)

// Base returns the Normal/Tuple/List part of m.
func (m SubObjectMode) Base() SubObjectMode {
	return m & baseMask
}

// IsPositional reports whether values inside m are unnamed and ordered.
func (m SubObjectMode) IsPositional() bool {
	return m&Tuple != 0
}

// IsList reports whether m is a variable-length List.
func (m SubObjectMode) IsList() bool {
	return m&List == List
}

// Has reports whether every bit of flag is set in m.
func (m SubObjectMode) Has(flag SubObjectMode) bool {
	return m&flag == flag
}

// MayBeNull reports whether a value synced with m may be null. A
// deduplicated value may always be null, NotNull notwithstanding.
func (m SubObjectMode) MayBeNull() bool {
	return m&(NotNull|Deduplicate) != NotNull
}

func (m SubObjectMode) String() string {
	var parts []string
	switch m.Base() {
	case Normal:
		parts = append(parts, "normal")
	case Tuple:
		parts = append(parts, "tuple")
	case List:
		parts = append(parts, "list")
	default:
		// 2 is not a valid base
		parts = append(parts, fmt.Sprintf("base(%d)", m.Base()))
	}
	if m.Has(Deduplicate) {
		parts = append(parts, "deduplicate")
	}
	if m.Has(NotNull) {
		parts = append(parts, "notnull")
	}
	if m.Has(DynamicType) {
		parts = append(parts, "dynamictype")
	}
	return strings.Join(parts, "|")
}

// ParseSubObjectMode parses the form produced by String, e.g.
// "list|deduplicate". Names are case-insensitive; an empty string is Normal.
func ParseSubObjectMode(s string) (SubObjectMode, error) {
	var (
		res     SubObjectMode
		baseSet bool
	)
	if strings.TrimSpace(s) == "" {
		return Normal, nil
	}
	for _, part := range strings.Split(s, "|") {
		var (
			flag   SubObjectMode
			isBase bool
		)
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "normal":
			flag, isBase = Normal, true
		case "tuple":
			flag, isBase = Tuple, true
		case "list":
			flag, isBase = List, true
		case "deduplicate", "dedup":
			flag = Deduplicate
		case "notnull":
			flag = NotNull
		case "dynamictype":
			flag = DynamicType
		default:
			return Normal, fmt.Errorf("unknown sub-object mode %q", part)
		}
		if isBase {
			if baseSet {
				return Normal, fmt.Errorf("sub-object mode %q names more than one of normal, tuple, list", s)
			}
			baseSet = true
		}
		res |= flag
	}
	return res, nil
}
