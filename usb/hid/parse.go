package hid

import (
	"fmt"
)

// Layout is the field structure recovered from an encoded report descriptor.
//
// Bit totals are accumulated per report ID across all main items of the same
// kind; a descriptor without ReportID items accounts everything under ID 0.
type Layout struct {
	// UsagePage and Usage are the top-level (outside any collection) usage
	// pair, i.e. what kind of device the descriptor announces.
	UsagePage uint16
	Usage     uint16

	// WithIDs reports whether any ReportID item was seen.
	WithIDs bool

	InputBits   map[uint8]uint32
	OutputBits  map[uint8]uint32
	FeatureBits map[uint8]uint32
}

// InputBytes returns the byte length of the input report with the given ID,
// excluding the report ID prefix byte.
func (l *Layout) InputBytes(id uint8) uint32 {
	return (l.InputBits[id] + 7) / 8
}

// Parse decodes the short items of a report descriptor and accumulates the
// declared field widths. Long items are rejected; this project never emits
// them.
func Parse(descriptor Data) (*Layout, error) {
	layout := &Layout{
		InputBits:   map[uint8]uint32{},
		OutputBits:  map[uint8]uint32{},
		FeatureBits: map[uint8]uint32{},
	}

	var (
		depth int
		count uint32
		size  uint32
		id    uint8
	)

	for i := 0; i < len(descriptor); {
		header := descriptor[i]
		if header == 0xFE {
			return nil, fmt.Errorf("hid: long item at offset %d", i)
		}
		tag := header >> 4
		typ := ItemType((header >> 2) & 0x3)
		n := int(header & 0x3)
		if n == 3 {
			n = 4
		}
		i++
		if i+n > len(descriptor) {
			return nil, fmt.Errorf("hid: truncated item at offset %d", i-1)
		}
		data := itemValue(descriptor[i : i+n])
		i += n

		switch typ {
		case ItemTypeMain:
			switch tag {
			case 0x8: // Input
				layout.InputBits[id] += count * size
			case 0x9: // Output
				layout.OutputBits[id] += count * size
			case 0xA: // Collection
				depth++
			case 0xB: // Feature
				layout.FeatureBits[id] += count * size
			case 0xC: // End Collection
				depth--
				if depth < 0 {
					return nil, fmt.Errorf("hid: unbalanced end collection at offset %d", i-1)
				}
			}
		case ItemTypeGlobal:
			switch tag {
			case 0x0: // Usage Page
				if depth == 0 {
					layout.UsagePage = uint16(data)
				}
			case 0x7: // Report Size
				size = data
			case 0x8: // Report ID
				id = uint8(data)
				layout.WithIDs = true
			case 0x9: // Report Count
				count = data
			}
		case ItemTypeLocal:
			if tag == 0x0 && depth == 0 { // Usage
				layout.Usage = uint16(data)
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("hid: %d unterminated collection(s)", depth)
	}
	return layout, nil
}

func itemValue(buf []byte) uint32 {
	var v uint32
	for i := len(buf) - 1; i >= 0; i-- {
		v = v<<8 | uint32(buf[i])
	}
	return v
}
