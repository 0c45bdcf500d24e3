package cart

// Action names a cart mutation.
type Action string

const (
	ActionAdd         Action = "ADD_ITEM"
	ActionRemove      Action = "REMOVE_ITEM"
	ActionSetQuantity Action = "SET_QUANTITY"
	ActionClear       Action = "CLEAR"
)

// Change describes one applied (or skipped) cart transition.
type Change struct {
	Action    Action
	ProductID string

	// For ActionClear these hold the total item count before and after.
	QuantityBefore int
	QuantityAfter  int

	// PointsDelta is the signed change in total karma points.
	PointsDelta int

	// Applied is false when the operation was a no-op (absent product ID).
	Applied bool
}
