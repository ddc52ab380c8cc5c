// SPDX-License-Identifier: BSD-3-Clause

package hiddescriptor

// item type values, packed into bits 3-2 of a short-item prefix byte.
const (
	itemTypeMain   = 0
	itemTypeGlobal = 1
	itemTypeLocal  = 2
)

// tags we care about; every other tag is walked over but otherwise ignored.
const (
	tagUsagePage     = 0x0 // Global
	tagUsage         = 0x0 // Local
	tagReportID      = 0x8 // Global
	tagInput         = 0x8 // Main
	tagCollection    = 0xA // Main
	tagEndCollection = 0xC // Main
)

const (
	usagePageGenericDesktop = 0x01
	usagePageConsumer       = 0x0C

	usageKeyboard = 0x06
	usageMouse    = 0x02

	collectionApplication = 0x01
)

const longItemPrefix = 0xFE

// HidDescriptor summarizes which canonical report kinds a parsed Report
// Descriptor declares, and which report ID (if any) each is tagged with.
type HidDescriptor struct {
	HasKeyboard bool
	HasMouse    bool
	HasConsumer bool

	// KeyboardReportID, MouseReportID, and ConsumerReportID are nil when
	// the descriptor never assigned a Report ID to that collection (single
	// unnumbered-report devices are common for boot-protocol keyboards).
	KeyboardReportID *byte
	MouseReportID    *byte
	ConsumerReportID *byte
}

// collectionKind tracks which canonical report the Application collection
// currently being walked belongs to, so that a later Input item inside it
// can be attributed to the right report without re-inspecting Usage Page.
type collectionKind int

const (
	collectionNone collectionKind = iota
	collectionKeyboard
	collectionMouse
	collectionConsumer
)

// Parse walks a HID Report Descriptor's short-item stream and returns a
// summary of the report kinds it declares. Malformed trailing items are
// ignored rather than rejected outright: a best-effort summary is more
// useful to the classifier than an all-or-nothing failure.
func Parse(data []byte) HidDescriptor {
	var (
		desc HidDescriptor

		currentUsagePage uint32
		currentReportID  *byte
		pendingUsage     uint32
		haveUsage        bool

		depth      int
		active     collectionKind
		activeFrom int // depth at which the active top-level collection was opened
	)

	i := 0
	for i < len(data) {
		prefix := data[i]

		if prefix == longItemPrefix {
			if i+1 >= len(data) {
				break
			}
			size := int(data[i+1])
			i += 2 + size
			continue
		}

		tag := (prefix >> 4) & 0x0F
		itemType := (prefix >> 2) & 0x03
		sizeSelector := prefix & 0x03
		size := [4]int{0, 1, 2, 4}[sizeSelector]

		i++
		if i+size > len(data) {
			break
		}
		value := littleEndian(data[i : i+size])
		i += size

		switch itemType {
		case itemTypeGlobal:
			switch tag {
			case tagUsagePage:
				currentUsagePage = value
			case tagReportID:
				b := byte(value)
				currentReportID = &b
			}
		case itemTypeLocal:
			if tag == tagUsage {
				pendingUsage = value
				haveUsage = true
			}
		case itemTypeMain:
			switch tag {
			case tagCollection:
				if depth == 0 && haveUsage && value == collectionApplication {
					switch {
					case currentUsagePage == usagePageGenericDesktop && pendingUsage == usageKeyboard:
						desc.HasKeyboard = true
						active, activeFrom = collectionKeyboard, depth+1
					case currentUsagePage == usagePageGenericDesktop && pendingUsage == usageMouse:
						desc.HasMouse = true
						active, activeFrom = collectionMouse, depth+1
					case currentUsagePage == usagePageConsumer:
						desc.HasConsumer = true
						active, activeFrom = collectionConsumer, depth+1
					}
				}
				depth++
			case tagEndCollection:
				if depth > 0 {
					depth--
				}
				if depth < activeFrom {
					active = collectionNone
				}
			case tagInput:
				// Classify by the usage page active at this specific Input
				// item, not solely by the enclosing top-level collection: a
				// consumer-control usage page can appear nested inside a
				// keyboard's top-level Application collection, and that
				// Input still belongs to the consumer report.
				switch {
				case currentUsagePage == usagePageConsumer:
					desc.HasConsumer = true
					if desc.ConsumerReportID == nil {
						desc.ConsumerReportID = copyReportID(currentReportID)
					}
				case active == collectionKeyboard:
					if desc.KeyboardReportID == nil {
						desc.KeyboardReportID = copyReportID(currentReportID)
					}
				case active == collectionMouse:
					if desc.MouseReportID == nil {
						desc.MouseReportID = copyReportID(currentReportID)
					}
				}
			}
			// Local items' lifetime ends at the next Main item.
			haveUsage = false
			pendingUsage = 0
		}
	}

	return desc
}

func littleEndian(b []byte) uint32 {
	var v uint32
	for i, x := range b {
		v |= uint32(x) << (8 * i)
	}
	return v
}

func copyReportID(id *byte) *byte {
	if id == nil {
		return nil
	}
	b := *id
	return &b
}
