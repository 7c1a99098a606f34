package ajimu

// Kind tags the variant a Value's underlying arena cell holds.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindEmptyList
	KindFixnum
	KindReal
	KindCharacter
	KindSymbol
	KindString
	KindPair
	KindClosure
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindEmptyList:
		return "empty-list"
	case KindFixnum:
		return "fixnum"
	case KindReal:
		return "real"
	case KindCharacter:
		return "character"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindPair:
		return "pair"
	case KindClosure:
		return "closure"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Ref is a handle into the value Arena. The zero Value, RefNil, is the
// reserved singleton for the empty list, allocated once at startup.
type Ref int

// RefNone marks "no value" — the Ref the evaluator and the primitives return
// alongside a non-nil error.
const RefNone Ref = -1

// RefNil is the pre-allocated empty-list singleton, always at arena slot 0.
const RefNil Ref = 0

// PrimID selects a built-in procedure implementation.
type PrimID int

// color values used by the garbage collector; stored per-cell, not on Ref.
type gcColor = uint8

const (
	colorWhite0 gcColor = iota
	colorWhite1
	colorBlack
)
