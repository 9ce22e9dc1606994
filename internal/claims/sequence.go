package claims

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultIDPrefix is the tenant-agnostic prefix of sequential claim IDs.
const DefaultIDPrefix = "CSHLSIP"

// DayScanner lists the claim IDs already allocated within a calendar day
// (YYYYMMDD). The store backs this with a prefix query over the day
// partition.
type DayScanner interface {
	ClaimIDsForDay(ctx context.Context, prefix, day string) ([]string, error)
}

// NextClaimID mints the next sequential claim identifier for the given day:
// PREFIX-YYYYMMDD-N where N is one above the highest sequence number already
// present. The scan and the subsequent write are not atomic; concurrent
// submissions in the same day window can observe the same maximum. When the
// scan fails, a timestamp suffix replaces the sequence number so allocation
// itself never fails.
func NextClaimID(ctx context.Context, scanner DayScanner, prefix string, now time.Time) string {
	day := now.UTC().Format("20060102")
	full := fmt.Sprintf("%s-%s-", prefix, day)

	ids, err := scanner.ClaimIDsForDay(ctx, prefix, day)
	if err != nil {
		return fmt.Sprintf("%s%d", full, now.Unix())
	}

	next := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, full) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, full))
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%d", full, next)
}

// DayOf formats the day partition key component for a timestamp.
func DayOf(now time.Time) string {
	return now.UTC().Format("20060102")
}

// Draft and draft-submission identifiers use a random 8-hex suffix instead
// of the date-sequential scheme, trading the human-readable numbering for
// collision-free minting.

// NewDraftID mints a draft identifier: draft_<8 hex chars>.
func NewDraftID() string { return "draft_" + hex8() }

// NewDraftClaimID mints the claim identifier used when a draft is
// submitted: claim_<8 hex chars>.
func NewDraftClaimID() string { return "claim_" + hex8() }

// NewDocumentID mints a document identifier: doc_<8 hex chars>.
func NewDocumentID() string { return "doc_" + hex8() }

func hex8() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
