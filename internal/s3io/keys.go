package s3io

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// keyRoot is the bucket prefix all claim documents live under.
const keyRoot = "IP_Claims"

// NewObjectName mints a unique object name for an upload.
func NewObjectName() string {
	return strings.ToLower(ulid.Make().String())
}

// BuildDocumentKey constructs the storage key for a claim document:
// IP_Claims/{hospital_id}/{claim_id}/{document_type}/{object}.{ext}
func BuildDocumentKey(hospitalID, claimID, documentType, objectName, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s", keyRoot, hospitalID, claimID, documentType, objectName, ext)
}

// ParseDocumentKey extracts the hospital, claim and document type from a
// storage key, reporting ok=false for keys outside the documents prefix.
func ParseDocumentKey(key string) (hospitalID, claimID, documentType string, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 5 || parts[0] != keyRoot {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}

// ObjectURL is the stable retrieval URL for a stored object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// UploadHeaders are the headers the client must send on the presigned PUT.
func UploadHeaders(contentType string, meta map[string]string) map[string]string {
	h := map[string]string{"Content-Type": contentType}
	for k, v := range meta {
		h["x-amz-meta-"+k] = v
	}
	return h
}
