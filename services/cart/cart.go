// Package cart holds the per-checkout cart: lines of courses that all belong
// to one university, plus the totals shown before submission.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dosya-jo/dosya-api/model"
)

var (
	ErrUniversityMismatch = errors.New("course belongs to a different university than the cart")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge   = fmt.Errorf("quantity must not exceed %d", MaxQuantity)
	ErrLineNotFound       = errors.New("course is not in the cart")
	ErrCorruptCart        = errors.New("cart snapshot violates the university lock")
)

// MaxQuantity caps the copies of one course in a cart line
const MaxQuantity = 99

// State is the lock state of a cart
type State int

const (
	StateEmpty State = iota
	StateLocked
)

func (s State) String() string {
	if s == StateLocked {
		return "locked"
	}
	return "empty"
}

// Line is one course in the cart. UnitPrice is the price seen when the line was added.
type Line struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// Totals is the price breakdown of a cart
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	Quantity    int     `json:"quantity"`
}

// Cart is not safe for concurrent use; each checkout session owns one.
type Cart struct {
	ID           string
	state        State
	universityID uint
	lines        []Line
}

// New returns an empty, unlocked cart
func New(id string) *Cart {
	return &Cart{ID: id, state: StateEmpty}
}

func (c *Cart) State() State { return c.state }

// UniversityID returns the locked university, ok is false while the cart is empty
func (c *Cart) UniversityID() (uint, bool) {
	return c.universityID, c.state == StateLocked
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// CourseIDs returns the course ids in insertion order
func (c *Cart) CourseIDs() []uint {
	ids := make([]uint, len(c.lines))
	for i, line := range c.lines {
		ids[i] = line.CourseID
	}
	return ids
}

// AddLine adds quantity of course, merging with an existing line for the same course.
// Quantities below 1 are clamped to 1. The first line locks the cart to its university.
// A line may not grow past MaxQuantity.
func (c *Cart) AddLine(course model.Course, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if c.state == StateLocked && c.universityID != course.UniversityID {
		return ErrUniversityMismatch
	}

	if i := c.indexOf(course.ID); i >= 0 {
		if c.lines[i].Quantity > MaxQuantity-quantity {
			return ErrQuantityTooLarge
		}
		c.lines[i].Quantity += quantity
		return nil
	}

	c.lines = append(c.lines, Line{
		CourseID:   course.ID,
		CourseName: course.Name,
		UnitPrice:  course.Price,
		Quantity:   quantity,
	})
	c.state = StateLocked
	c.universityID = course.UniversityID
	return nil
}

// UpdateQuantity replaces the quantity of a line. The cart is unchanged on error.
func (c *Cart) UpdateQuantity(courseID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	i := c.indexOf(courseID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity = quantity
	return nil
}

// RemoveLine drops a line; removing the last line releases the university lock
func (c *Cart) RemoveLine(courseID uint) error {
	i := c.indexOf(courseID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	if len(c.lines) == 0 {
		c.state = StateEmpty
		c.universityID = 0
	}
	return nil
}

// TotalQuantity sums the quantity of every line
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Totals prices the cart with current course prices. A course missing from
// prices keeps the price captured when its line was added. configuredFee is
// the locked university's delivery fee.
func (c *Cart) Totals(prices map[uint]float64, configuredFee float64) Totals {
	var t Totals
	for _, line := range c.lines {
		price, ok := prices[line.CourseID]
		if !ok {
			price = line.UnitPrice
		}
		t.Subtotal += price * float64(line.Quantity)
		t.Quantity += line.Quantity
	}
	if c.state == StateLocked {
		t.DeliveryFee = DeliveryFee(c.universityID, configuredFee)
	}
	t.Total = t.Subtotal + t.DeliveryFee
	return t
}

func (c *Cart) indexOf(courseID uint) int {
	for i, line := range c.lines {
		if line.CourseID == courseID {
			return i
		}
	}
	return -1
}

type snapshot struct {
	ID           string `json:"id"`
	UniversityID uint   `json:"university_id,omitempty"`
	Lines        []Line `json:"lines"`
}

// MarshalJSON encodes the cart for session storage
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(snapshot{ID: c.ID, UniversityID: c.universityID, Lines: lines})
}

// UnmarshalJSON restores a cart and rejects snapshots that break the lock rule
func (c *Cart) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	restored := Cart{ID: s.ID}
	if len(s.Lines) > 0 {
		if s.UniversityID == 0 {
			return fmt.Errorf("%w: lines without a university", ErrCorruptCart)
		}
		seen := make(map[uint]bool, len(s.Lines))
		for _, line := range s.Lines {
			if line.Quantity < 1 || line.Quantity > MaxQuantity || seen[line.CourseID] {
				return fmt.Errorf("%w: bad line for course %d", ErrCorruptCart, line.CourseID)
			}
			seen[line.CourseID] = true
		}
		restored.state = StateLocked
		restored.universityID = s.UniversityID
		restored.lines = s.Lines
	}

	*c = restored
	return nil
}
