package claims

import (
	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/models"
)

// RequiredFields is the fixed set a submission must satisfy, covering all
// four sections. The check is presence-only; types and ranges are not
// validated beyond the money rule.
var RequiredFields = []string{
	// Patient details
	"patient_name", "age", "gender", "id_card_type", "beneficiary_type", "relationship",
	// Payer details
	"payer_patient_id", "authorization_number", "total_authorized_amount", "payer_type", "payer_name",
	// Provider details
	"patient_registration_number", "specialty", "doctor", "treatment_line", "claim_type",
	"service_start_date", "service_end_date", "inpatient_number", "admission_type",
	"hospitalization_type", "ward_type", "final_diagnosis", "treatment_done",
	// Bill details
	"bill_number", "bill_date", "total_bill_amount", "claimed_amount",
}

// MissingFields returns every required field absent from the form.
func MissingFields(f Form) []string {
	var missing []string
	for _, field := range RequiredFields {
		if !f.Present(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Assemble validates a flat submission form and reshapes it into the
// four-section claim record. The record carries no identifier, timestamps or
// ownership metadata; the caller fills those in.
//
// Validation order: required-field presence, the TPA insurer rule, then the
// money gate. A non-TPA payer always stores an empty insurer name regardless
// of input.
func Assemble(f Form) (*models.Claim, error) {
	if missing := MissingFields(f); len(missing) > 0 {
		return nil, apperr.MissingFields(missing)
	}

	insurer := f.Str("insurer_name")
	if f.Str("payer_type") == "TPA" {
		if insurer == "" {
			return nil, apperr.Validation("insurer name is required when payer type is TPA")
		}
	} else {
		insurer = ""
	}

	amounts, err := CalculateAmounts(f)
	if err != nil {
		return nil, err
	}

	module := f.StrDefault("created_in_module", models.ModuleClaims)
	vis := DefaultVisibility(module, f)

	return &models.Claim{
		ClaimStatus:     models.StatusPending,
		ShowInClaims:    vis.ShowInClaims,
		ShowInPreauth:   vis.ShowInPreauth,
		ShowInReimb:     vis.ShowInReimb,
		CreatedInModule: module,
		Patient: &models.PatientDetails{
			PatientName:          f.Str("patient_name"),
			Age:                  f.Int("age"),
			AgeUnit:              f.StrDefault("age_unit", "YRS"),
			Gender:               f.Str("gender"),
			IDCardType:           f.Str("id_card_type"),
			IDCardNumber:         f.Str("id_card_number"),
			PatientContactNumber: f.Str("patient_contact_number"),
			PatientEmailID:       f.Str("patient_email_id"),
			BeneficiaryType:      f.Str("beneficiary_type"),
			Relationship:         f.Str("relationship"),
		},
		Payer: &models.PayerDetails{
			PayerPatientID:         f.Str("payer_patient_id"),
			AuthorizationNumber:    f.Str("authorization_number"),
			TotalAuthorizedAmount:  amounts.TotalAuthorized,
			PayerType:              f.Str("payer_type"),
			PayerName:              f.Str("payer_name"),
			InsurerName:            insurer,
			PolicyNumber:           f.Str("policy_number"),
			SponsorerCorporateName: f.Str("sponsorer_corporate_name"),
			SponsorerEmployeeID:    f.Str("sponsorer_employee_id"),
			SponsorerEmployeeName:  f.Str("sponsorer_employee_name"),
		},
		Provider: &models.ProviderDetails{
			PatientRegistrationNumber: f.Str("patient_registration_number"),
			Specialty:                 f.Str("specialty"),
			Doctor:                    f.Str("doctor"),
			TreatmentLine:             f.Str("treatment_line"),
			ClaimType:                 f.Str("claim_type"),
			ServiceStartDate:          f.Str("service_start_date"),
			ServiceEndDate:            f.Str("service_end_date"),
			InpatientNumber:           f.Str("inpatient_number"),
			AdmissionType:             f.Str("admission_type"),
			HospitalizationType:       f.Str("hospitalization_type"),
			WardType:                  f.Str("ward_type"),
			FinalDiagnosis:            f.Str("final_diagnosis"),
			ICD10Code:                 f.Str("icd_10_code"),
			TreatmentDone:             f.Str("treatment_done"),
			PCSCode:                   f.Str("pcs_code"),
		},
		Bill: &models.BillDetails{
			BillNumber:             f.Str("bill_number"),
			BillDate:               f.Str("bill_date"),
			SecurityDeposit:        amounts.SecurityDeposit,
			TotalBillAmount:        amounts.TotalBill,
			PatientDiscountAmount:  amounts.PatientDiscount,
			AmountPaidByPatient:    amounts.PaidByPatient,
			TotalPatientPaidAmount: amounts.TotalPatientPaid,
			AmountChargedToPayer:   amounts.ChargedToPayer,
			MOUDiscountAmount:      amounts.MOUDiscount,
			ClaimedAmount:          amounts.Claimed,
			SubmissionRemarks:      f.Str("submission_remarks"),
		},
	}, nil
}
