package submission

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderIDGenerator produces the identifier written to the spreadsheet
type OrderIDGenerator interface {
	NewOrderID(now time.Time) string
}

// LegacyOrderID appends the last four digits of the unix second to a fixed
// prefix. With a 7 character prefix every id is 11 characters long.
// Ids repeat every 10000 seconds, so this only suits sheets that already
// depend on the format.
type LegacyOrderID struct {
	Prefix string
}

func (g LegacyOrderID) NewOrderID(now time.Time) string {
	return fmt.Sprintf("%s%04d", g.Prefix, now.Unix()%10000)
}

// UUIDOrderID keeps the 11 character shape but fills the suffix from a
// random UUID instead of the clock
type UUIDOrderID struct {
	Prefix string
}

func (g UUIDOrderID) NewOrderID(time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s%X", g.Prefix, id[:2])
}
