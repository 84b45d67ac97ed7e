package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReferenceNumber generates a collision-resistant payment reference:
// timestamp + a fragment of the student id + a random suffix, e.g.
// PAY-20260115093042-3F2A81C4-D91B0A. Uniqueness is still enforced by the
// database; callers regenerate on collision.
func NewReferenceNumber(studentID string, now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(studentID, "-", ""))
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}

	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]

	return fmt.Sprintf("PAY-%s-%s-%s", now.Format("20060102150405"), fragment, suffix)
}
