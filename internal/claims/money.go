package claims

import "github.com/cshls/claims-backend/internal/apperr"

// Amounts carries the parsed currency fields of a submission plus the two
// derived ones. TotalPatientPaid and ChargedToPayer are always recomputed;
// client-supplied values for them are ignored.
type Amounts struct {
	TotalAuthorized  float64
	Claimed          float64
	TotalBill        float64
	PatientDiscount  float64
	PaidByPatient    float64
	SecurityDeposit  float64
	MOUDiscount      float64
	TotalPatientPaid float64
	ChargedToPayer   float64
}

// CalculateAmounts parses the currency fields of a submission and derives
// the dependent ones. It rejects a claimed amount above the authorized
// amount before any derivation. ChargedToPayer is stored as computed even
// when negative.
func CalculateAmounts(f Form) (Amounts, error) {
	a := Amounts{
		TotalAuthorized: f.Float("total_authorized_amount"),
		Claimed:         f.Float("claimed_amount"),
		TotalBill:       f.Float("total_bill_amount"),
		PatientDiscount: f.Float("patient_discount_amount"),
		PaidByPatient:   f.Float("amount_paid_by_patient"),
		SecurityDeposit: f.Float("security_deposit"),
		MOUDiscount:     f.Float("mou_discount_amount"),
	}
	if a.Claimed > a.TotalAuthorized {
		return Amounts{}, apperr.Validation(
			"claimed amount (%.2f) cannot exceed total authorized amount (%.2f)",
			a.Claimed, a.TotalAuthorized)
	}
	a.TotalPatientPaid = a.PatientDiscount + a.PaidByPatient
	a.ChargedToPayer = a.TotalBill - a.TotalPatientPaid
	return a, nil
}
