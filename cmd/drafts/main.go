// Package main serves the draft endpoints: create, list, get, update,
// submit and delete. Drafts hold an opaque form until submission imposes
// the claim structure.
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
	"github.com/rs/zerolog"

	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/authz"
	"github.com/cshls/claims-backend/internal/awsutil"
	"github.com/cshls/claims-backend/internal/claims"
	"github.com/cshls/claims-backend/internal/config"
	"github.com/cshls/claims-backend/internal/ddb"
	"github.com/cshls/claims-backend/internal/httpx"
	"github.com/cshls/claims-backend/internal/models"
)

// draftStore is the slice of the repository the draft handlers use.
type draftStore interface {
	authz.UserSource
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	PutClaim(ctx context.Context, c *models.Claim) error
	DeleteClaim(ctx context.Context, id string) error
	ListClaimsByHospital(ctx context.Context, hospitalID string, f ddb.ClaimFilter) ([]models.Claim, error)
	SetDraftForm(ctx context.Context, id string, form map[string]any) error
}

// App holds the per-process state: configuration, store and logger.
type App struct {
	env   config.Env
	store draftStore
	log   zerolog.Logger
}

func main() {
	env := config.MustLoad()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "drafts").Logger()

	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		logger.Fatal().Err(err).Msg("aws config")
	}
	db := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})

	app := &App{env: env, store: ddb.New(db, env.Table), log: logger}
	lambda.Start(app.handler)
}

func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	id, err := authz.Authenticate(ctx, a.store, req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Err(err)
	}

	method := req.RequestContext.HTTP.Method
	rest := routeRest(req.RawPath, "drafts")

	switch {
	case method == http.MethodPost && len(rest) == 1 && rest[0] == "save-draft":
		return a.create(ctx, id, req.Body)
	case method == http.MethodGet && len(rest) == 1 && rest[0] == "get-drafts":
		return a.list(ctx, id)
	case method == http.MethodGet && len(rest) == 2 && rest[0] == "get-draft":
		return a.get(ctx, id, rest[1])
	case method == http.MethodPut && len(rest) == 2 && rest[0] == "update-draft":
		return a.update(ctx, id, rest[1], req.Body)
	case method == http.MethodPost && len(rest) == 2 && rest[0] == "submit-draft":
		return a.submit(ctx, id, rest[1], req.Body)
	case method == http.MethodDelete && len(rest) == 2 && rest[0] == "delete-draft":
		return a.delete(ctx, id, rest[1])
	default:
		return httpx.Fail(http.StatusNotFound, "route not found")
	}
}

// create stores a new draft with whatever partial form the caller sent.
// Only patient_name is required at this stage.
func (a *App) create(ctx context.Context, id *models.Identity, body string) (events.APIGatewayV2HTTPResponse, error) {
	var form claims.Form
	if body != "" {
		if err := json.Unmarshal([]byte(body), &form); err != nil {
			return httpx.Err(apperr.Validation("invalid json"))
		}
	}
	if form == nil {
		form = claims.Form{}
	}
	if !form.Present("patient_name") {
		return httpx.Err(apperr.Validation("patient_name is required"))
	}

	vis := claims.DefaultVisibility(models.ModuleClaims, form)
	draft := &models.Claim{
		DraftID:         claims.NewDraftID(),
		IsDraft:         true,
		ClaimStatus:     models.StatusDraft,
		FormData:        form,
		CreatedInModule: models.ModuleClaims,
		ShowInClaims:    vis.ShowInClaims,
		ShowInPreauth:   vis.ShowInPreauth,
		ShowInReimb:     vis.ShowInReimb,
		HospitalID:      id.HospitalID,
		HospitalName:    id.HospitalName,
		CreatedBy:       id.Sub,
		CreatedByEmail:  id.Email,
	}

	if err := a.store.PutClaim(ctx, draft); err != nil {
		a.log.Error().Err(err).Str("draft_id", draft.DraftID).Msg("put draft")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("draft_id", draft.DraftID).Str("hospital_id", id.HospitalID).Msg("draft created")
	return httpx.JSON(http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Draft saved successfully",
		"draft_id": draft.DraftID,
	})
}

// list returns lightweight summaries of the hospital's drafts, pulling the
// display fields out of each stored form.
func (a *App) list(ctx context.Context, id *models.Identity) (events.APIGatewayV2HTTPResponse, error) {
	items, err := a.store.ListClaimsByHospital(ctx, id.HospitalID, ddb.ClaimFilter{DraftsOnly: true})
	if err != nil {
		a.log.Error().Err(err).Msg("list drafts")
		return httpx.Err(apperr.Unexpected(err))
	}

	summaries := make([]map[string]any, 0, len(items))
	for _, d := range items {
		f := claims.Form(d.FormData)
		summaries = append(summaries, map[string]any{
			"draft_id":       d.DraftID,
			"status":         d.ClaimStatus,
			"created_at":     d.CreatedAt,
			"updated_at":     d.UpdatedAt,
			"patient_name":   f.Str("patient_name"),
			"claimed_amount": f.Float("claimed_amount"),
			"specialty":      f.Str("specialty"),
		})
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"total_drafts": len(summaries),
		"drafts":       summaries,
	})
}

// get returns the full draft record including its form data.
func (a *App) get(ctx context.Context, id *models.Identity, draftID string) (events.APIGatewayV2HTTPResponse, error) {
	d, err := a.fetchOwned(ctx, id, draftID)
	if err != nil {
		return httpx.Err(err)
	}
	return httpx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"draft":   d,
	})
}

// update merges the incoming fields over the stored form; a field present in
// the body overwrites the stored one, absent fields are left alone.
func (a *App) update(ctx context.Context, id *models.Identity, draftID, body string) (events.APIGatewayV2HTTPResponse, error) {
	d, err := a.fetchOwned(ctx, id, draftID)
	if err != nil {
		return httpx.Err(err)
	}

	var incoming map[string]any
	if err := json.Unmarshal([]byte(body), &incoming); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}

	merged := claims.Form(d.FormData).Merge(incoming)
	if err := a.store.SetDraftForm(ctx, draftID, merged); err != nil {
		a.log.Error().Err(err).Str("draft_id", draftID).Msg("update draft")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Draft updated successfully",
		"draft_id": draftID,
	})
}

// submit promotes a draft to a full claim: the body fields are merged over
// the stored form, the merged form passes the full submission validation,
// and the draft record is replaced by the claim record.
func (a *App) submit(ctx context.Context, id *models.Identity, draftID, body string) (events.APIGatewayV2HTTPResponse, error) {
	d, err := a.fetchOwned(ctx, id, draftID)
	if err != nil {
		return httpx.Err(err)
	}

	var incoming map[string]any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &incoming); err != nil {
			return httpx.Err(apperr.Validation("invalid json"))
		}
	}
	merged := claims.Form(d.FormData).Merge(incoming)

	c, err := claims.Assemble(merged)
	if err != nil {
		return httpx.Err(err)
	}

	c.ClaimID = claims.NewDraftClaimID()
	c.CreatedAt = d.CreatedAt
	c.HospitalID = d.HospitalID
	c.HospitalName = d.HospitalName
	c.CreatedBy = d.CreatedBy
	c.CreatedByEmail = d.CreatedByEmail
	c.SubmittedBy = id.Sub
	c.SubmittedByEmail = id.Email
	c.Documents = d.Documents

	if err := a.store.PutClaim(ctx, c); err != nil {
		a.log.Error().Err(err).Str("draft_id", draftID).Msg("put submitted claim")
		return httpx.Err(apperr.Unexpected(err))
	}
	if err := a.store.DeleteClaim(ctx, draftID); err != nil {
		// The claim record already exists; the orphaned draft is the lesser
		// failure, so report success and log.
		a.log.Error().Err(err).Str("draft_id", draftID).Str("claim_id", c.ClaimID).Msg("delete draft after submit")
	}

	a.log.Info().Str("draft_id", draftID).Str("claim_id", c.ClaimID).Msg("draft submitted")
	return httpx.JSON(http.StatusCreated, map[string]any{
		"success":         true,
		"message":         "Draft submitted as claim successfully",
		"claim_id":        c.ClaimID,
		"claim_status":    models.StatusPending,
		"submission_date": c.SubmissionDate,
	})
}

// delete removes a draft.
func (a *App) delete(ctx context.Context, id *models.Identity, draftID string) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := a.fetchOwned(ctx, id, draftID); err != nil {
		return httpx.Err(err)
	}

	if err := a.store.DeleteClaim(ctx, draftID); err != nil {
		a.log.Error().Err(err).Str("draft_id", draftID).Msg("delete draft")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Draft deleted successfully",
		"draft_id": draftID,
	})
}

// fetchOwned loads a draft and enforces the tenant boundary.
func (a *App) fetchOwned(ctx context.Context, id *models.Identity, draftID string) (*models.Claim, error) {
	d, err := a.store.GetClaim(ctx, draftID)
	if err != nil {
		a.log.Error().Err(err).Str("draft_id", draftID).Msg("get draft")
		return nil, apperr.Unexpected(err)
	}
	if d == nil || !d.IsDraft {
		return nil, apperr.NotFound("draft")
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
