package portal

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// referencePattern matches incident reference numbers such as RD-2024-0417.
var referencePattern = regexp.MustCompile(`^RD-\d{4}-\d{4}$`)

// maxReferenceAttempts bounds regeneration after reference collisions.
const maxReferenceAttempts = 8

// NewReferenceNumber returns RD-<year>-<4 random digits> for now.
func NewReferenceNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("RD-%04d-%04d", now.Year(), n.Int64())
}

// ValidReferenceNumber reports whether ref has the RD-YYYY-NNNN shape.
func ValidReferenceNumber(ref string) bool {
	return referencePattern.MatchString(ref)
}

// SubmitIncident stores r under a fresh reference number. Four random digits
// collide quickly within a year, so a taken number is regenerated.
func (s *Store) SubmitIncident(ctx context.Context, r *IncidentReport) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		r.ID = ""
		r.ReferenceNumber = NewReferenceNumber(time.Now())
		err = s.CreateIncident(ctx, r)
		if err == nil || !isUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("allocate reference number: %w", err)
}
