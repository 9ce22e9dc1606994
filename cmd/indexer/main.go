// Package main finalizes document records when their objects land in the
// bucket. Triggered by S3 ObjectCreated notifications.
package main

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/cshls/claims-backend/internal/awsutil"
	"github.com/cshls/claims-backend/internal/config"
	"github.com/cshls/claims-backend/internal/ddb"
	"github.com/cshls/claims-backend/internal/models"
	"github.com/cshls/claims-backend/internal/s3io"
)

// indexerStore is the slice of the repository the indexer uses.
type indexerStore interface {
	GetDocument(ctx context.Context, documentID string) (*models.Document, error)
	FinalizeDocument(ctx context.Context, documentID string, size int64, etag, downloadURL, uploadedAt string) error
	AppendClaimDocumentRef(ctx context.Context, claimID string, ref models.DocumentRef) error
}

// objectHeader reads stored-object metadata.
type objectHeader interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// App holds the per-process state: configuration, stores and logger.
type App struct {
	env   config.Env
	store indexerStore
	s3    objectHeader
	log   zerolog.Logger
}

func main() {
	env := config.MustLoad()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "indexer").Logger()

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

	app := &App{env: env, store: ddb.New(db, env.Table), s3: s3c, log: logger}
	lambda.Start(app.handler)
}

// handler processes each notification record independently; a failure on
// one object does not block the others. Errors are logged and swallowed so
// the notification is not redelivered forever for a record that will never
// finalize.
func (a *App) handler(ctx context.Context, evt events.S3Event) error {
	for _, rec := range evt.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			key = rec.S3.Object.Key
		}
		if err := a.finalize(ctx, rec.S3.Bucket.Name, key); err != nil {
			a.log.Error().Err(err).Str("key", key).Msg("finalize document")
		}
	}
	return nil
}

// finalize marks the document record uploaded and appends the reference to
// the owning claim. Re-delivered notifications for an already-finalized
// record are skipped.
func (a *App) finalize(ctx context.Context, bucket, key string) error {
	if _, _, _, ok := s3io.ParseDocumentKey(key); !ok {
		a.log.Debug().Str("key", key).Msg("skipping object outside documents prefix")
		return nil
	}

	head, err := a.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}

	docID := head.Metadata["document_id"]
	claimID := head.Metadata["claim_id"]
	if docID == "" || claimID == "" {
		a.log.Warn().Str("key", key).Msg("object missing document metadata")
		return nil
	}

	doc, err := a.store.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		a.log.Warn().Str("document_id", docID).Str("key", key).Msg("no record for stored object")
		return nil
	}
	if doc.Status == models.DocStatusUploaded {
		a.log.Debug().Str("document_id", docID).Msg("already finalized")
		return nil
	}

	uploadedAt := ddb.NowISO()
	size := aws.ToInt64(head.ContentLength)
	etag := strings.Trim(aws.ToString(head.ETag), `"`)
	downloadURL := s3io.ObjectURL(bucket, a.env.Region, key)

	if err := a.store.FinalizeDocument(ctx, docID, size, etag, downloadURL, uploadedAt); err != nil {
		return err
	}

	ref := models.DocumentRef{
		DocumentID:   docID,
		DocumentType: doc.DocumentType,
		DocumentName: doc.DocumentName,
		UploadedAt:   uploadedAt,
		Status:       models.DocStatusUploaded,
	}
	if err := a.store.AppendClaimDocumentRef(ctx, claimID, ref); err != nil {
		return err
	}

	a.log.Info().Str("document_id", docID).Str("claim_id", claimID).Int64("size", size).Msg("document finalized")
	return nil
}
