package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/models"
)

// validForm returns a submission carrying every required field.
func validForm() Form {
	return Form{
		"patient_name":     "John Doe",
		"age":              45.0,
		"gender":           "M",
		"id_card_type":     "aadhar",
		"beneficiary_type": "self",
		"relationship":     "self",

		"payer_patient_id":        "PP-1001",
		"authorization_number":    "AUTH-42",
		"total_authorized_amount": 50000.0,
		"payer_type":              "INSURER",
		"payer_name":              "Star Health",

		"patient_registration_number": "REG-77",
		"specialty":                   "CARDIOLOGY",
		"doctor":                      "Dr. Rao",
		"treatment_line":              "medical",
		"claim_type":                  "cashless",
		"service_start_date":          "2026-08-01",
		"service_end_date":            "2026-08-05",
		"inpatient_number":            "IP-9",
		"admission_type":              "planned",
		"hospitalization_type":        "inpatient",
		"ward_type":                   "general",
		"final_diagnosis":             "CAD",
		"treatment_done":              "angioplasty",

		"bill_number":       "B-100",
		"bill_date":         "2026-08-05",
		"total_bill_amount": 48000.0,
		"claimed_amount":    45000.0,
	}
}

func TestAssembleBuildsFourSections(t *testing.T) {
	c, err := Assemble(validForm())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, c.ClaimStatus)
	require.NotNil(t, c.Patient)
	require.NotNil(t, c.Payer)
	require.NotNil(t, c.Provider)
	require.NotNil(t, c.Bill)

	assert.Equal(t, "John Doe", c.Patient.PatientName)
	assert.Equal(t, 45, c.Patient.Age)
	assert.Equal(t, "YRS", c.Patient.AgeUnit)
	assert.Equal(t, "Star Health", c.Payer.PayerName)
	assert.Equal(t, "CARDIOLOGY", c.Provider.Specialty)
	assert.Equal(t, 45000.0, c.Bill.ClaimedAmount)
}

func TestAssembleReportsEveryMissingField(t *testing.T) {
	f := validForm()
	delete(f, "patient_name")
	f["doctor"] = ""
	f["claimed_amount"] = 0.0

	_, err := Assemble(f)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.ElementsMatch(t, []string{"patient_name", "doctor", "claimed_amount"}, appErr.Fields)
}

func TestAssembleTPARequiresInsurer(t *testing.T) {
	f := validForm()
	f["payer_type"] = "TPA"

	_, err := Assemble(f)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "insurer name is required")

	f["insurer_name"] = "United Insurance"
	c, err := Assemble(f)
	require.NoError(t, err)
	assert.Equal(t, "United Insurance", c.Payer.InsurerName)
}

func TestAssembleNonTPAClearsInsurer(t *testing.T) {
	f := validForm()
	f["insurer_name"] = "Should Be Dropped"

	c, err := Assemble(f)
	require.NoError(t, err)
	assert.Empty(t, c.Payer.InsurerName)
}

func TestAssembleDerivesBillAmounts(t *testing.T) {
	f := validForm()
	f["patient_discount_amount"] = 1000.0
	f["amount_paid_by_patient"] = 2000.0

	c, err := Assemble(f)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, c.Bill.TotalPatientPaidAmount)
	assert.Equal(t, 45000.0, c.Bill.AmountChargedToPayer)
}

func TestAssembleMoneyGateRunsAfterPresenceCheck(t *testing.T) {
	f := validForm()
	f["claimed_amount"] = 60000.0

	_, err := Assemble(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed total authorized amount")
}

func TestAssembleVisibilityDefaults(t *testing.T) {
	c, err := Assemble(validForm())
	require.NoError(t, err)
	assert.Equal(t, models.ModuleClaims, c.CreatedInModule)
	assert.True(t, c.ShowInClaims)
	assert.False(t, c.ShowInPreauth)
	assert.False(t, c.ShowInReimb)

	f := validForm()
	f["created_in_module"] = models.ModulePreauth
	f["show_in_preauth"] = true
	c, err = Assemble(f)
	require.NoError(t, err)
	assert.False(t, c.ShowInClaims)
	assert.True(t, c.ShowInPreauth)
}

func TestAssembleLeavesOwnershipToCaller(t *testing.T) {
	c, err := Assemble(validForm())
	require.NoError(t, err)
	assert.Empty(t, c.ClaimID)
	assert.Empty(t, c.HospitalID)
	assert.Empty(t, c.CreatedAt)
}
