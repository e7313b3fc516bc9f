package hid

import (
	"fmt"
	"strings"
)

// Dump renders a report descriptor one short item per line, hex bytes on the
// left and the decoded item on the right, indented by collection depth. It is
// a diagnostic aid; malformed input yields the same errors as Parse.
func Dump(descriptor Data) (string, error) {
	var b strings.Builder
	depth := 0

	for i := 0; i < len(descriptor); {
		header := descriptor[i]
		if header == 0xFE {
			return "", fmt.Errorf("hid: long item at offset %d", i)
		}
		tag := header >> 4
		typ := ItemType((header >> 2) & 0x3)
		n := int(header & 0x3)
		if n == 3 {
			n = 4
		}
		if i+1+n > len(descriptor) {
			return "", fmt.Errorf("hid: truncated item at offset %d", i)
		}
		raw := descriptor[i : i+1+n]
		value := itemValue(raw[1:])
		i += 1 + n

		if typ == ItemTypeMain && tag == 0xC {
			depth--
			if depth < 0 {
				return "", fmt.Errorf("hid: unbalanced end collection at offset %d", i-1)
			}
		}

		hexed := make([]string, len(raw))
		for j, v := range raw {
			hexed[j] = fmt.Sprintf("%02X", v)
		}
		fmt.Fprintf(&b, "%-15s %s%s\n",
			strings.Join(hexed, " "),
			strings.Repeat("  ", depth),
			itemName(typ, tag, value))

		if typ == ItemTypeMain && tag == 0xA {
			depth++
		}
	}

	if depth != 0 {
		return "", fmt.Errorf("hid: %d unterminated collection(s)", depth)
	}
	return b.String(), nil
}

func itemName(typ ItemType, tag uint8, value uint32) string {
	switch typ {
	case ItemTypeMain:
		switch tag {
		case 0x8:
			return fmt.Sprintf("Input (%s)", mainFlagsString(value))
		case 0x9:
			return fmt.Sprintf("Output (%s)", mainFlagsString(value))
		case 0xA:
			return fmt.Sprintf("Collection (%s)", collectionName(value))
		case 0xB:
			return fmt.Sprintf("Feature (%s)", mainFlagsString(value))
		case 0xC:
			return "End Collection"
		}
	case ItemTypeGlobal:
		switch tag {
		case 0x0:
			return fmt.Sprintf("Usage Page (0x%02X)", value)
		case 0x1:
			return fmt.Sprintf("Logical Minimum (%d)", value)
		case 0x2:
			return fmt.Sprintf("Logical Maximum (%d)", value)
		case 0x7:
			return fmt.Sprintf("Report Size (%d)", value)
		case 0x8:
			return fmt.Sprintf("Report ID (%d)", value)
		case 0x9:
			return fmt.Sprintf("Report Count (%d)", value)
		}
	case ItemTypeLocal:
		switch tag {
		case 0x0:
			return fmt.Sprintf("Usage (0x%02X)", value)
		case 0x1:
			return fmt.Sprintf("Usage Minimum (%d)", value)
		case 0x2:
			return fmt.Sprintf("Usage Maximum (%d)", value)
		}
	}
	return fmt.Sprintf("tag 0x%X type %d (0x%X)", tag, typ, value)
}

func mainFlagsString(value uint32) string {
	f := MainFlags(value)
	parts := []string{"Data"}
	if f&MainConst != 0 {
		parts[0] = "Const"
	}
	if f&MainVar != 0 {
		parts = append(parts, "Var")
	} else {
		parts = append(parts, "Array")
	}
	if f&MainRel != 0 {
		parts = append(parts, "Rel")
	} else {
		parts = append(parts, "Abs")
	}
	return strings.Join(parts, ",")
}

func collectionName(value uint32) string {
	switch CollectionKind(value) {
	case CollectionPhysical:
		return "Physical"
	case CollectionApplication:
		return "Application"
	case CollectionLogical:
		return "Logical"
	}
	return fmt.Sprintf("0x%02X", value)
}
