package layout

import "fmt"

// Kind identifies a node variant.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindEmpty
	KindListOffset
	KindList
	KindRegular
	KindRecord
	KindTuple
	KindIndexed
	KindIndexedOption
	KindByteMasked
	KindBitMasked
	KindUnmasked
	KindUnion
)

var kindNames = [...]string{
	KindPrimitive:     "primitive",
	KindEmpty:         "empty",
	KindListOffset:    "listoffset",
	KindList:          "list",
	KindRegular:       "regular",
	KindRecord:        "record",
	KindTuple:         "tuple",
	KindIndexed:       "indexed",
	KindIndexedOption: "indexedoption",
	KindByteMasked:    "bytemasked",
	KindBitMasked:     "bitmasked",
	KindUnmasked:      "unmasked",
	KindUnion:         "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsOption reports whether nodes of this kind can hold missing elements.
func (k Kind) IsOption() bool {
	switch k {
	case KindIndexedOption, KindByteMasked, KindBitMasked, KindUnmasked:
		return true
	}
	return false
}

// IsList reports whether nodes of this kind hold lists.
func (k Kind) IsList() bool {
	return k == KindListOffset || k == KindList || k == KindRegular
}
