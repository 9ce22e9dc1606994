package claims

import (
	"strings"

	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/models"
)

// settableStatuses are the values accepted by the explicit status-update
// operation. Any of them may follow any current status; no transition table
// restricts the sequence.
var settableStatuses = []string{
	models.StatusSubmitted,
	models.StatusUnderReview,
	models.StatusApproved,
	models.StatusRejected,
	models.StatusSettled,
	models.StatusPending,
}

// CheckStatus validates a status value for the status-update operation.
func CheckStatus(status string) error {
	for _, s := range settableStatuses {
		if status == s {
			return nil
		}
	}
	return apperr.Validation("invalid status. valid statuses: %s",
		strings.Join(settableStatuses, ", "))
}

// Visibility is the set of module-visibility flags on a claim. The flags are
// independent booleans; only their creation-time defaults derive from the
// source module.
type Visibility struct {
	ShowInClaims  bool
	ShowInPreauth bool
	ShowInReimb   bool
}

// DefaultVisibility resolves the creation-time visibility flags for a claim
// created in the given module, honoring explicit overrides in the form.
// Claims created in the claims module surface there immediately; preauth and
// reimb records stay hidden until moved.
func DefaultVisibility(module string, f Form) Visibility {
	return Visibility{
		ShowInClaims:  f.Bool("show_in_claims", module == models.ModuleClaims),
		ShowInPreauth: f.Bool("show_in_preauth", false),
		ShowInReimb:   f.Bool("show_in_reimb", false),
	}
}
