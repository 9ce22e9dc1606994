package claims

import (
	"context"

	"github.com/cshls/claims-backend/internal/models"
)

// GeneralSpecialty is the specialty key of a payer's catch-all checklist.
const GeneralSpecialty = "GENERAL"

// ChecklistSource looks up a stored checklist by payer and specialty,
// returning nil when none exists.
type ChecklistSource interface {
	GetChecklist(ctx context.Context, payerName, specialty string) (*models.Checklist, error)
}

// ResolveChecklist returns the required-document list for a payer and
// specialty. Resolution order, first match wins: the exact pair, then the
// payer's GENERAL checklist, then the built-in default. isDefault reports
// whether the built-in list was used. A missing checklist is not a failure.
func ResolveChecklist(ctx context.Context, src ChecklistSource, payerName, specialty string) (items []models.ChecklistItem, isDefault bool, err error) {
	cl, err := src.GetChecklist(ctx, payerName, specialty)
	if err != nil {
		return nil, false, err
	}
	if cl == nil {
		cl, err = src.GetChecklist(ctx, payerName, GeneralSpecialty)
		if err != nil {
			return nil, false, err
		}
	}
	if cl == nil {
		return DefaultChecklist(), true, nil
	}
	return cl.Documents, false, nil
}

// DefaultChecklist is the fixed fallback list used when a payer has no
// checklist on record.
func DefaultChecklist() []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: "discharge_summary", Name: "Discharge Summary", Required: true,
			Description: "Complete discharge summary from the hospital"},
		{ID: "medical_records", Name: "Medical Records", Required: true,
			Description: "Complete medical records including treatment details"},
		{ID: "bill_receipt", Name: "Hospital Bill/Receipt", Required: true,
			Description: "Original hospital bill with all charges"},
		{ID: "prescription", Name: "Prescription", Required: false,
			Description: "Prescription for medications (if applicable)"},
		{ID: "lab_reports", Name: "Lab Reports", Required: false,
			Description: "Laboratory test reports (if applicable)"},
		{ID: "scan_reports", Name: "Scan/Imaging Reports", Required: false,
			Description: "CT Scan, MRI, X-Ray reports (if applicable)"},
		{ID: "authorization_letter", Name: "Authorization Letter", Required: true,
			Description: "Insurance authorization letter"},
		{ID: "id_proof", Name: "ID Proof", Required: true,
			Description: "Valid ID proof of the patient"},
	}
}
