package layout

import (
	"fmt"
	"strings"
)

// TypeString describes the logical type of n's elements, independent of its
// physical variant: ListOffset and List over float64 are both
// "var * float64", and every option variant is "?T".
func TypeString(n Node) string {
	switch x := n.(type) {
	case PrimitiveNode:
		return x.DType().String()
	case *Empty:
		return "unknown"
	case *ListOffset:
		return listType("var", x.meta, x.content)
	case *List:
		return listType("var", x.meta, x.content)
	case *Regular:
		return listType(fmt.Sprint(max(x.size, 0)), x.meta, x.content)
	case *Record:
		parts := make([]string, len(x.contents))
		for i, c := range x.contents {
			parts[i] = fieldLabel(x.fields, i) + ": " + TypeString(c)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Tuple:
		parts := make([]string, len(x.contents))
		for i, c := range x.contents {
			parts[i] = TypeString(c)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *Indexed:
		return TypeString(x.content)
	case optionNode:
		return optionType(TypeString(x.Content()))
	case *Union:
		parts := make([]string, len(x.contents))
		for i, c := range x.contents {
			parts[i] = TypeString(c)
		}
		return "union[" + strings.Join(parts, ", ") + "]"
	}
	return "unknown"
}

func listType(size string, m meta, content Node) string {
	switch m.Behavior() {
	case BehaviorString:
		if size == "var" {
			return "string"
		}
		return "string[" + size + "]"
	case BehaviorBytestring:
		if size == "var" {
			return "bytes"
		}
		return "bytes[" + size + "]"
	}
	return size + " * " + TypeString(content)
}

func optionType(s string) string {
	if strings.HasPrefix(s, "?") {
		return s
	}
	return "?" + s
}
