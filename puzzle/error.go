package puzzle

import (
	"encoding/json"
	"fmt"
)

/*

Errors

*/

// Error is the error type for all errors returned by this
// package.  Errors are structured values: the Scope says which
// part of the system noticed the problem, the Structure says the
// shape of the complaint, and the Condition and Attribute pin
// down the specifics.  The Values carry whatever data the
// condition needs to report.  The Message, if non-empty, is an
// English rendering of the rest; Error() fills it in on demand
// so errors can be built without worrying about wording.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Structure ErrorStructure `json:"structure"`
	Attribute ErrorAttribute `json:"attribute,omitempty"`
	Condition ErrorCondition `json:"condition"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message"`
}

// ErrorData is a sequence of values associated with an error,
// one per verb slot in the condition's message.
type ErrorData []interface{}

// ErrorScope tells which part of the system found the error.
type ErrorScope int32

// The error scopes.  MaxScope is a sentinel; keep it last.
const (
	UnknownScope ErrorScope = iota
	RequestScope
	ArgumentScope
	GridScope
	PathScope
	InternalScope
	MaxScope
)

// ErrorStructure tells the shape of the complaint: about the
// scope as a whole, about one attribute, or about the value
// given for one attribute.
type ErrorStructure int32

// The error structures.  MaxStructure is a sentinel; keep it
// last.
const (
	UnknownStructure ErrorStructure = iota
	ScopeStructure
	AttributeStructure
	AttributeValueStructure
	MaxStructure
)

// ErrorAttribute tells which attribute an attribute-structured
// error is about.
type ErrorAttribute int32

// The error attributes.  MaxAttribute is a sentinel; keep it
// last.
const (
	UnknownAttribute ErrorAttribute = iota
	DecodeAttribute
	EncodeAttribute
	URLAttribute
	LocationAttribute
	SideLengthAttribute
	GridSizeAttribute
	ValueAttribute
	LabelAttribute
	MaxAttribute
)

// ErrorCondition tells what went wrong.
type ErrorCondition int32

// The error conditions.  MaxCondition is a sentinel; keep it
// last.
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	EmptyArgumentCondition
	OutOfRangeCondition
	WrongGridSizeCondition
	DuplicateLabelCondition
	NoWaypointsCondition
	OutOfBoundsCondition
	FrozenCondition
	InvalidMoveCondition
	MaxCondition
)

// rangeError is a helper for the common out-of-range complaint.
func rangeError(attr ErrorAttribute, got, min, max interface{}) Error {
	return Error{
		Scope:     ArgumentScope,
		Structure: AttributeValueStructure,
		Attribute: attr,
		Condition: OutOfRangeCondition,
		Values:    ErrorData{got, min, max},
	}
}

var scopeNames = map[ErrorScope]string{
	RequestScope:  "Request",
	ArgumentScope: "Argument",
	GridScope:     "Grid",
	PathScope:     "Path",
	InternalScope: "Internal",
}

var attributeNames = map[ErrorAttribute]string{
	DecodeAttribute:     "body",
	EncodeAttribute:     "response",
	URLAttribute:        "URL",
	LocationAttribute:   "location",
	SideLengthAttribute: "side length",
	GridSizeAttribute:   "cell count",
	ValueAttribute:      "cell value",
	LabelAttribute:      "label",
}

// Errors implement error.  The message is composed from the
// structured fields, except when an explicit Message was
// supplied, which always wins.
func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	scope := scopeNames[e.Scope]
	if scope == "" {
		scope = "Unknown"
	}
	attr := attributeNames[e.Attribute]
	val := func(i int) interface{} {
		if i < len(e.Values) {
			return e.Values[i]
		}
		return "?"
	}
	switch e.Condition {
	case EmptyArgumentCondition:
		return fmt.Sprintf("%s error: no input given", scope)
	case OutOfRangeCondition:
		return fmt.Sprintf("%s error: %s %v is not in the range %v to %v",
			scope, attr, val(0), val(1), val(2))
	case WrongGridSizeCondition:
		return fmt.Sprintf("%s error: %v values cannot fill a square of side %v",
			scope, val(0), val(1))
	case DuplicateLabelCondition:
		return fmt.Sprintf("%s error: label %v appears at both %v and %v",
			scope, val(0), val(1), val(2))
	case NoWaypointsCondition:
		return fmt.Sprintf("%s error: grid has no labeled cells", scope)
	case OutOfBoundsCondition:
		return fmt.Sprintf("%s error: %s %v is outside the grid", scope, attr, val(0))
	case FrozenCondition:
		return fmt.Sprintf("%s error: puzzle is already solved", scope)
	case InvalidMoveCondition:
		return fmt.Sprintf("%s error: move to %v was rejected (%v)", scope, val(0), val(1))
	case GeneralCondition:
		if len(e.Values) > 0 {
			return fmt.Sprintf("%s error: %v", scope, val(0))
		}
		return fmt.Sprintf("%s error", scope)
	}
	return fmt.Sprintf("%s error: unknown condition %d", scope, e.Condition)
}

// Errors implement json.Marshaler, filling in the Message so
// clients never have to verbalize conditions themselves.
func (e Error) MarshalJSON() ([]byte, error) {
	type wire Error // avoid recursion
	w := wire(e)
	w.Message = e.Error()
	return json.Marshal(w)
}
