// Package main serves the document endpoints: presigned upload URLs,
// per-claim listings, presigned downloads and deletion.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/authz"
	"github.com/cshls/claims-backend/internal/awsutil"
	"github.com/cshls/claims-backend/internal/claims"
	"github.com/cshls/claims-backend/internal/config"
	"github.com/cshls/claims-backend/internal/ddb"
	"github.com/cshls/claims-backend/internal/httpx"
	"github.com/cshls/claims-backend/internal/models"
	"github.com/cshls/claims-backend/internal/s3io"
	"github.com/cshls/claims-backend/internal/validate"
)

// documentStore is the slice of the repository the document handlers use.
type documentStore interface {
	authz.UserSource
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	GetDocument(ctx context.Context, documentID string) (*models.Document, error)
	PutDocument(ctx context.Context, d *models.Document) error
	DeleteDocument(ctx context.Context, documentID string) error
	SetClaimDocumentRefs(ctx context.Context, claimID string, refs []models.DocumentRef) error
}

// App holds the per-process state: configuration, stores and logger.
type App struct {
	env     config.Env
	store   documentStore
	s3      *s3.Client
	presign *s3.PresignClient
	log     zerolog.Logger
}

func main() {
	env := config.MustLoad()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "documents").Logger()

	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		logger.Fatal().Err(err).Msg("aws config")
	}
	db := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		}
	})

	app := &App{
		env:     env,
		store:   ddb.New(db, env.Table),
		s3:      s3c,
		presign: s3.NewPresignClient(s3c),
		log:     logger,
	}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	id, err := authz.Authenticate(ctx, a.store, req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Err(err)
	}

	method := req.RequestContext.HTTP.Method
	rest := routeRest(req.RawPath, "documents")

	switch {
	case method == http.MethodPost && len(rest) == 1 && rest[0] == "upload-url":
		return a.uploadURL(ctx, id, req.Body)
	case method == http.MethodGet && len(rest) == 2 && rest[0] == "get-claim-documents":
		return a.listForClaim(ctx, id, rest[1])
	case method == http.MethodGet && len(rest) == 2 && rest[0] == "download":
		return a.download(ctx, id, rest[1])
	case method == http.MethodDelete && len(rest) == 2 && rest[0] == "delete-document":
		return a.delete(ctx, id, rest[1])
	default:
		return httpx.Fail(http.StatusNotFound, "route not found")
	}
}

// uploadRequest is the body of an upload-url request.
type uploadRequest struct {
	ClaimID      string `json:"claim_id"`
	DocumentType string `json:"document_type"`
	DocumentName string `json:"document_name"`
	Filename     string `json:"filename"`
	ContentType  string `json:"content_type"`
}

// uploadURL validates the upload request against the owning claim, writes a
// pending document record and hands the client a presigned PUT plus the
// headers the upload must carry. The record stays pending until the indexer
// observes the stored object.
func (a *App) uploadURL(ctx context.Context, id *models.Identity, body string) (events.APIGatewayV2HTTPResponse, error) {
	var in uploadRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}
	if err := validate.DocumentFields(in.ClaimID, in.DocumentType, in.DocumentName, in.Filename); err != nil {
		return httpx.Err(err)
	}

	c, err := a.store.GetClaim(ctx, in.ClaimID)
	if err != nil {
		a.log.Error().Err(err).Str("claim_id", in.ClaimID).Msg("get claim")
		return httpx.Err(apperr.Unexpected(err))
	}
	if c == nil {
		return httpx.Err(apperr.NotFound("claim"))
	}
	if err := authz.CheckTenant(c.HospitalID, id); err != nil {
		return httpx.Err(err)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := claims.NewDocumentID()
	ext := validate.Extension(in.Filename)
	key := s3io.BuildDocumentKey(id.HospitalID, in.ClaimID, in.DocumentType, s3io.NewObjectName(), ext)

	doc := &models.Document{
		DocumentID:       docID,
		ClaimID:          in.ClaimID,
		DocumentType:     in.DocumentType,
		DocumentName:     in.DocumentName,
		OriginalFilename: validate.SafeFilename(in.Filename),
		StoragePath:      key,
		FileType:         ext,
		UploadedBy:       id.Sub,
		HospitalID:       id.HospitalID,
		Status:           models.DocStatusPending,
	}
	if err := a.store.PutDocument(ctx, doc); err != nil {
		a.log.Error().Err(err).Str("document_id", docID).Msg("put document")
		return httpx.Err(apperr.Unexpected(err))
	}

	meta := map[string]string{
		"document_id": docID,
		"claim_id":    in.ClaimID,
		"hospital_id": id.HospitalID,
	}
	url, err := s3io.PresignPut(ctx, a.presign, a.env.Bucket, key, contentType, meta, a.env.PresignTTL())
	if err != nil {
		a.log.Error().Err(err).Str("document_id", docID).Msg("presign put")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("document_id", docID).Str("claim_id", in.ClaimID).Msg("upload url issued")
	return httpx.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"document_id": docID,
		"upload_url":  url,
		"headers":     s3io.UploadHeaders(contentType, meta),
		"expires_in":  a.env.PresignTTLSeconds,
	})
}

// listForClaim returns the claim's document references hydrated from the
// document records; references whose record has gone missing are returned
// as stored.
func (a *App) listForClaim(ctx context.Context, id *models.Identity, claimID string) (events.APIGatewayV2HTTPResponse, error) {
	c, err := a.store.GetClaim(ctx, claimID)
	if err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("get claim")
		return httpx.Err(apperr.Unexpected(err))
	}
	if c == nil {
		return httpx.Err(apperr.NotFound("claim"))
	}
	if err := authz.CheckTenant(c.HospitalID, id); err != nil {
		return httpx.Err(err)
	}

	docs := make([]any, 0, len(c.Documents))
	for _, ref := range c.Documents {
		d, err := a.store.GetDocument(ctx, ref.DocumentID)
		if err != nil {
			a.log.Error().Err(err).Str("document_id", ref.DocumentID).Msg("get document")
			return httpx.Err(apperr.Unexpected(err))
		}
		if d != nil {
			docs = append(docs, d)
		} else {
			docs = append(docs, ref)
		}
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"claim_id":        claimID,
		"total_documents": len(docs),
		"documents":       docs,
	})
}

// download returns a presigned GET for an uploaded document.
func (a *App) download(ctx context.Context, id *models.Identity, documentID string) (events.APIGatewayV2HTTPResponse, error) {
	d, err := a.fetchOwned(ctx, id, documentID)
	if err != nil {
		return httpx.Err(err)
	}
	if d.Status != models.DocStatusUploaded {
		return httpx.Err(apperr.Validation("document has not been uploaded yet"))
	}

	url, err := s3io.PresignGet(ctx, a.presign, a.env.Bucket, d.StoragePath, a.env.PresignTTL())
	if err != nil {
		a.log.Error().Err(err).Str("document_id", documentID).Msg("presign get")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"document_id":   documentID,
		"document_name": d.DocumentName,
		"download_url":  url,
		"expires_in":    a.env.PresignTTLSeconds,
	})
}

// delete removes the stored object best-effort, drops the claim's reference
// and deletes the document record.
func (a *App) delete(ctx context.Context, id *models.Identity, documentID string) (events.APIGatewayV2HTTPResponse, error) {
	d, err := a.fetchOwned(ctx, id, documentID)
	if err != nil {
		return httpx.Err(err)
	}

	if err := s3io.Delete(ctx, a.s3, a.env.Bucket, d.StoragePath); err != nil {
		a.log.Warn().Err(err).Str("document_id", documentID).Msg("delete stored object")
	}

	c, err := a.store.GetClaim(ctx, d.ClaimID)
	if err != nil {
		a.log.Error().Err(err).Str("claim_id", d.ClaimID).Msg("get claim")
		return httpx.Err(apperr.Unexpected(err))
	}
	if c != nil {
		refs := make([]models.DocumentRef, 0, len(c.Documents))
		for _, ref := range c.Documents {
			if ref.DocumentID != documentID {
				refs = append(refs, ref)
			}
		}
		if len(refs) != len(c.Documents) {
			if err := a.store.SetClaimDocumentRefs(ctx, d.ClaimID, refs); err != nil {
				a.log.Error().Err(err).Str("claim_id", d.ClaimID).Msg("remove document ref")
				return httpx.Err(apperr.Unexpected(err))
			}
		}
	}

	if err := a.store.DeleteDocument(ctx, documentID); err != nil {
		a.log.Error().Err(err).Str("document_id", documentID).Msg("delete document")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("document_id", documentID).Msg("document deleted")
	return httpx.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Document deleted successfully",
		"document_id": documentID,
	})
}

// fetchOwned loads a document and enforces the tenant boundary.
func (a *App) fetchOwned(ctx context.Context, id *models.Identity, documentID string) (*models.Document, error) {
	d, err := a.store.GetDocument(ctx, documentID)
	if err != nil {
		a.log.Error().Err(err).Str("document_id", documentID).Msg("get document")
		return nil, apperr.Unexpected(err)
	}
	if d == nil {
		return nil, apperr.NotFound("document")
	}
	if err := authz.CheckTenant(d.HospitalID, id); err != nil {
		return nil, err
	}
	return d, nil
}

// routeRest returns the path segments after the resource root, tolerating a
// stage prefix in front of it.
func routeRest(rawPath, root string) []string {
	segs := strings.Split(strings.Trim(rawPath, "/"), "/")
	for i, s := range segs {
		if s == root {
			return segs[i+1:]
		}
	}
	return segs
}
