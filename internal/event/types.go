package event

// Type identifies the kind of an event.
type Type uint8

const (
	TypeNone Type = iota
	TypeKey
	TypeButtonPress
	TypeButtonRelease
	TypeBarcode
	TypeExpose
	TypeConfigure
	TypeMap
	TypeUnmap
	TypeFocusIn
	TypeFocusOut
	TypeDestroy

	typeCount
)

// String returns the binding name of the event type.
func (t Type) String() string {
	switch t {
	case TypeKey:
		return "Key"
	case TypeButtonPress:
		return "ButtonPress"
	case TypeButtonRelease:
		return "ButtonRelease"
	case TypeBarcode:
		return "Barcode"
	case TypeExpose:
		return "Expose"
	case TypeConfigure:
		return "Configure"
	case TypeMap:
		return "Map"
	case TypeUnmap:
		return "Unmap"
	case TypeFocusIn:
		return "FocusIn"
	case TypeFocusOut:
		return "FocusOut"
	case TypeDestroy:
		return "Destroy"
	default:
		return "None"
	}
}

// Mask returns the single-bit mask selecting this event type.
func (t Type) Mask() Mask {
	if t == TypeNone || t >= typeCount {
		return 0
	}
	return 1 << t
}

// HasDetail reports whether patterns of this type may carry a detail
// (a keysym for key events, a button number for button events).
func (t Type) HasDetail() bool {
	return t == TypeKey || t == TypeButtonPress || t == TypeButtonRelease
}

// Mask is a set of event types.
type Mask uint32

// Common masks.
const (
	MaskKey       = Mask(1 << TypeKey)
	MaskButton    = Mask(1<<TypeButtonPress | 1<<TypeButtonRelease)
	MaskBarcode   = Mask(1 << TypeBarcode)
	MaskExpose    = Mask(1 << TypeExpose)
	MaskFocus     = Mask(1<<TypeFocusIn | 1<<TypeFocusOut)
	MaskStructure = Mask(1<<TypeConfigure | 1<<TypeMap | 1<<TypeUnmap | 1<<TypeDestroy)
	MaskInput     = MaskKey | MaskButton | MaskBarcode
	MaskAll       = Mask(1<<typeCount - 2)
)

// Has reports whether m selects event type t.
func (m Mask) Has(t Type) bool {
	return m&t.Mask() != 0
}

// typeNames maps binding event names to types. "Control" is not here: it is
// a key pattern with a folded detail and is handled by the binding parser.
var typeNames = map[string]Type{
	"Key":           TypeKey,
	"KeyPress":      TypeKey,
	"Button":        TypeButtonPress,
	"ButtonPress":   TypeButtonPress,
	"ButtonRelease": TypeButtonRelease,
	"Barcode":       TypeBarcode,
	"Expose":        TypeExpose,
	"Configure":     TypeConfigure,
	"Map":           TypeMap,
	"Unmap":         TypeUnmap,
	"FocusIn":       TypeFocusIn,
	"FocusOut":      TypeFocusOut,
	"Destroy":       TypeDestroy,
}

// TypeFromName returns the event type for a binding event name.
func TypeFromName(name string) (Type, bool) {
	t, ok := typeNames[name]
	return t, ok
}
