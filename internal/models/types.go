// Package models defines the record shapes stored in the claims table.
package models

// Claim statuses. A record in the claims partition is either a submitted
// claim or a draft; drafts are distinguished by StatusDraft plus IsDraft.
const (
	StatusDraft       = "draft"
	StatusPending     = "pending"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusSettled     = "settled"
	StatusOnHold      = "on_hold"
)

// Document record statuses.
const (
	DocStatusPending  = "pending"
	DocStatusUploaded = "uploaded"
)

// Source modules a claim can be created in.
const (
	ModuleClaims  = "claims"
	ModulePreauth = "preauth"
	ModuleReimb   = "reimb"
)

// PatientDetails is the patient section of a claim.
type PatientDetails struct {
	PatientName          string `dynamodbav:"patient_name" json:"patient_name"`
	Age                  int    `dynamodbav:"age" json:"age"`
	AgeUnit              string `dynamodbav:"age_unit" json:"age_unit"`
	Gender               string `dynamodbav:"gender" json:"gender"`
	IDCardType           string `dynamodbav:"id_card_type" json:"id_card_type"`
	IDCardNumber         string `dynamodbav:"id_card_number" json:"id_card_number"`
	PatientContactNumber string `dynamodbav:"patient_contact_number" json:"patient_contact_number"`
	PatientEmailID       string `dynamodbav:"patient_email_id" json:"patient_email_id"`
	BeneficiaryType      string `dynamodbav:"beneficiary_type" json:"beneficiary_type"`
	Relationship         string `dynamodbav:"relationship" json:"relationship"`
}

// PayerDetails is the payer section of a claim. InsurerName is non-empty
// only when PayerType is TPA.
type PayerDetails struct {
	PayerPatientID         string  `dynamodbav:"payer_patient_id" json:"payer_patient_id"`
	AuthorizationNumber    string  `dynamodbav:"authorization_number" json:"authorization_number"`
	TotalAuthorizedAmount  float64 `dynamodbav:"total_authorized_amount" json:"total_authorized_amount"`
	PayerType              string  `dynamodbav:"payer_type" json:"payer_type"`
	PayerName              string  `dynamodbav:"payer_name" json:"payer_name"`
	InsurerName            string  `dynamodbav:"insurer_name" json:"insurer_name"`
	PolicyNumber           string  `dynamodbav:"policy_number" json:"policy_number"`
	SponsorerCorporateName string  `dynamodbav:"sponsorer_corporate_name" json:"sponsorer_corporate_name"`
	SponsorerEmployeeID    string  `dynamodbav:"sponsorer_employee_id" json:"sponsorer_employee_id"`
	SponsorerEmployeeName  string  `dynamodbav:"sponsorer_employee_name" json:"sponsorer_employee_name"`
}

// ProviderDetails is the provider section of a claim.
type ProviderDetails struct {
	PatientRegistrationNumber string `dynamodbav:"patient_registration_number" json:"patient_registration_number"`
	Specialty                 string `dynamodbav:"specialty" json:"specialty"`
	Doctor                    string `dynamodbav:"doctor" json:"doctor"`
	TreatmentLine             string `dynamodbav:"treatment_line" json:"treatment_line"`
	ClaimType                 string `dynamodbav:"claim_type" json:"claim_type"`
	ServiceStartDate          string `dynamodbav:"service_start_date" json:"service_start_date"`
	ServiceEndDate            string `dynamodbav:"service_end_date" json:"service_end_date"`
	InpatientNumber           string `dynamodbav:"inpatient_number" json:"inpatient_number"`
	AdmissionType             string `dynamodbav:"admission_type" json:"admission_type"`
	HospitalizationType       string `dynamodbav:"hospitalization_type" json:"hospitalization_type"`
	WardType                  string `dynamodbav:"ward_type" json:"ward_type"`
	FinalDiagnosis            string `dynamodbav:"final_diagnosis" json:"final_diagnosis"`
	ICD10Code                 string `dynamodbav:"icd_10_code" json:"icd_10_code"`
	TreatmentDone             string `dynamodbav:"treatment_done" json:"treatment_done"`
	PCSCode                   string `dynamodbav:"pcs_code" json:"pcs_code"`
}

// BillDetails is the bill section of a claim. TotalPatientPaidAmount and
// AmountChargedToPayer are derived at submission time, never taken from input.
type BillDetails struct {
	BillNumber             string  `dynamodbav:"bill_number" json:"bill_number"`
	BillDate               string  `dynamodbav:"bill_date" json:"bill_date"`
	SecurityDeposit        float64 `dynamodbav:"security_deposit" json:"security_deposit"`
	TotalBillAmount        float64 `dynamodbav:"total_bill_amount" json:"total_bill_amount"`
	PatientDiscountAmount  float64 `dynamodbav:"patient_discount_amount" json:"patient_discount_amount"`
	AmountPaidByPatient    float64 `dynamodbav:"amount_paid_by_patient" json:"amount_paid_by_patient"`
	TotalPatientPaidAmount float64 `dynamodbav:"total_patient_paid_amount" json:"total_patient_paid_amount"`
	AmountChargedToPayer   float64 `dynamodbav:"amount_charged_to_payer" json:"amount_charged_to_payer"`
	MOUDiscountAmount      float64 `dynamodbav:"mou_discount_amount" json:"mou_discount_amount"`
	ClaimedAmount          float64 `dynamodbav:"claimed_amount" json:"claimed_amount"`
	SubmissionRemarks      string  `dynamodbav:"submission_remarks" json:"submission_remarks"`
}

// DocumentRef is the lightweight reference a claim keeps for each of its
// uploaded documents; the full record lives in the document partition.
type DocumentRef struct {
	DocumentID   string `dynamodbav:"document_id" json:"document_id"`
	DocumentType string `dynamodbav:"document_type" json:"document_type"`
	DocumentName string `dynamodbav:"document_name" json:"document_name"`
	UploadedAt   string `dynamodbav:"uploaded_at" json:"uploaded_at"`
	Status       string `dynamodbav:"status" json:"status"`
}

// Claim is a claim or draft item in the table. Drafts carry the opaque
// FormData map instead of the structured sections; structure is imposed only
// when the draft is submitted.
type Claim struct {
	// Table keys
	PK     string `dynamodbav:"PK" json:"-"`     // CLAIM#<id>
	SK     string `dynamodbav:"SK" json:"-"`     // META
	GSI1PK string `dynamodbav:"GSI1PK" json:"-"` // HOSPITAL#<hospital_id>
	GSI1SK string `dynamodbav:"GSI1SK" json:"-"` // CLAIM#<id>
	// Day partition for the sequential-ID range scan; submitted claims only.
	GSI2PK string `dynamodbav:"GSI2PK,omitempty" json:"-"`
	GSI2SK string `dynamodbav:"GSI2SK,omitempty" json:"-"`

	ClaimID     string `dynamodbav:"claim_id,omitempty" json:"claim_id,omitempty"`
	DraftID     string `dynamodbav:"draft_id,omitempty" json:"draft_id,omitempty"`
	ClaimStatus string `dynamodbav:"claim_status" json:"claim_status"`
	IsDraft     bool   `dynamodbav:"is_draft,omitempty" json:"is_draft,omitempty"`

	// Module visibility flags; independent of each other after creation.
	ShowInClaims    bool   `dynamodbav:"show_in_claims" json:"show_in_claims"`
	ShowInPreauth   bool   `dynamodbav:"show_in_preauth" json:"show_in_preauth"`
	ShowInReimb     bool   `dynamodbav:"show_in_reimb" json:"show_in_reimb"`
	CreatedInModule string `dynamodbav:"created_in_module" json:"created_in_module"`

	Patient  *PatientDetails  `dynamodbav:"patient_details,omitempty" json:"patient_details,omitempty"`
	Payer    *PayerDetails    `dynamodbav:"payer_details,omitempty" json:"payer_details,omitempty"`
	Provider *ProviderDetails `dynamodbav:"provider_details,omitempty" json:"provider_details,omitempty"`
	Bill     *BillDetails     `dynamodbav:"bill_details,omitempty" json:"bill_details,omitempty"`

	Documents []DocumentRef `dynamodbav:"documents,omitempty" json:"documents,omitempty"`

	// Draft form data, opaque until submission.
	FormData map[string]any `dynamodbav:"form_data,omitempty" json:"form_data,omitempty"`

	HospitalID       string `dynamodbav:"hospital_id" json:"hospital_id"`
	HospitalName     string `dynamodbav:"hospital_name,omitempty" json:"hospital_name,omitempty"`
	SubmittedBy      string `dynamodbav:"submitted_by,omitempty" json:"submitted_by,omitempty"`
	SubmittedByEmail string `dynamodbav:"submitted_by_email,omitempty" json:"submitted_by_email,omitempty"`
	CreatedBy        string `dynamodbav:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedByEmail   string `dynamodbav:"created_by_email,omitempty" json:"created_by_email,omitempty"`

	SubmissionDate   string `dynamodbav:"submission_date,omitempty" json:"submission_date,omitempty"`
	CreatedAt        string `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at" json:"updated_at"`
	StatusRemarks    string `dynamodbav:"status_remarks,omitempty" json:"status_remarks,omitempty"`
	StatusUpdatedAt  string `dynamodbav:"status_updated_at,omitempty" json:"status_updated_at,omitempty"`
	MovedToClaimsAt  string `dynamodbav:"moved_to_claims_at,omitempty" json:"moved_to_claims_at,omitempty"`
}

// ID returns the record identifier regardless of whether it is a draft.
func (c *Claim) ID() string {
	if c.IsDraft {
		return c.DraftID
	}
	return c.ClaimID
}

// Document is the full metadata record for one uploaded file.
type Document struct {
	PK string `dynamodbav:"PK" json:"-"` // DOC#<document_id>
	SK string `dynamodbav:"SK" json:"-"` // META

	DocumentID       string `dynamodbav:"document_id" json:"document_id"`
	ClaimID          string `dynamodbav:"claim_id" json:"claim_id"`
	DocumentType     string `dynamodbav:"document_type" json:"document_type"`
	DocumentName     string `dynamodbav:"document_name" json:"document_name"`
	OriginalFilename string `dynamodbav:"original_filename" json:"original_filename"`
	StoragePath      string `dynamodbav:"storage_path" json:"storage_path"`
	DownloadURL      string `dynamodbav:"download_url" json:"download_url"`
	FileSize         int64  `dynamodbav:"file_size" json:"file_size"`
	FileType         string `dynamodbav:"file_type" json:"file_type"`
	ETag             string `dynamodbav:"etag,omitempty" json:"etag,omitempty"`
	UploadedBy       string `dynamodbav:"uploaded_by" json:"uploaded_by"`
	HospitalID       string `dynamodbav:"hospital_id" json:"hospital_id"`
	UploadedAt       string `dynamodbav:"uploaded_at" json:"uploaded_at"`
	Status           string `dynamodbav:"status" json:"status"`
}

// ChecklistItem is one required-document descriptor in a checklist.
type ChecklistItem struct {
	ID          string `dynamodbav:"id" json:"id"`
	Name        string `dynamodbav:"name" json:"name"`
	Required    bool   `dynamodbav:"required" json:"required"`
	Description string `dynamodbav:"description" json:"description"`
}

// Checklist is a required-document template keyed by payer and specialty.
type Checklist struct {
	PK string `dynamodbav:"PK" json:"-"` // CHECKLIST#<payer>#<specialty>
	SK string `dynamodbav:"SK" json:"-"` // META

	PayerName      string          `dynamodbav:"payer_name" json:"payer_name"`
	Specialty      string          `dynamodbav:"specialty" json:"specialty"`
	Documents      []ChecklistItem `dynamodbav:"documents" json:"documents"`
	CreatedAt      string          `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt      string          `dynamodbav:"updated_at" json:"updated_at"`
	CreatedBy      string          `dynamodbav:"created_by" json:"created_by"`
	CreatedByEmail string          `dynamodbav:"created_by_email" json:"created_by_email"`
}

// User is a hospital staff profile in the users partition.
type User struct {
	PK string `dynamodbav:"PK" json:"-"` // USER#<sub>
	SK string `dynamodbav:"SK" json:"-"` // PROFILE

	Sub          string `dynamodbav:"sub" json:"sub"`
	Email        string `dynamodbav:"email" json:"email"`
	Role         string `dynamodbav:"role" json:"role"`
	HospitalID   string `dynamodbav:"hospital_id" json:"hospital_id"`
	HospitalName string `dynamodbav:"hospital_name" json:"hospital_name"`
}

// Identity is the caller identity the access gate hands to every handler.
type Identity struct {
	Sub          string
	Role         string
	HospitalID   string
	HospitalName string
	Email        string
}
