package types

import "fmt"

// CornerType marks a vertex of a grid boundary polygon for the elliptic
// grid generator: the boundary turns left, turns right, or goes straight.
// The markers of a valid boundary sum to exactly four.
type CornerType int8

const (
	CornerRight    CornerType = -1
	CornerStraight CornerType = 0
	CornerLeft     CornerType = 1
)

var CornerNameMap = map[string]CornerType{
	"left":     CornerLeft,
	"positive": CornerLeft,
	"p":        CornerLeft,
	"right":    CornerRight,
	"negative": CornerRight,
	"m":        CornerRight,
	"straight": CornerStraight,
	"none":     CornerStraight,
	"z":        CornerStraight,
}

func NewCornerType(beta float64) (ct CornerType, err error) {
	switch beta {
	case -1:
		ct = CornerRight
	case 0:
		ct = CornerStraight
	case 1:
		ct = CornerLeft
	default:
		err = fmt.Errorf("%w: corner marker must be -1, 0 or 1, have %v", ErrValidation, beta)
	}
	return
}

// CornerSum adds the turning markers of a boundary.
func CornerSum(beta []CornerType) (sum int) {
	for _, b := range beta {
		sum += int(b)
	}
	return
}
