// Package main serves the claim endpoints: submission, listing, retrieval,
// update, status changes, module moves, deletion and statistics.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

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

// claimStore is the slice of the repository the claim handlers use.
type claimStore interface {
	authz.UserSource
	claims.DayScanner
	GetClaim(ctx context.Context, id string) (*models.Claim, error)
	PutClaim(ctx context.Context, c *models.Claim) error
	DeleteClaim(ctx context.Context, id string) error
	ListClaimsByHospital(ctx context.Context, hospitalID string, f ddb.ClaimFilter) ([]models.Claim, error)
	UpdateClaimStatus(ctx context.Context, id, status, remarks string) error
	MarkMovedToClaims(ctx context.Context, id string) error
	UpdateClaimSections(ctx context.Context, id string, sections map[string]map[string]any, status string) error
}

// App holds the per-process state: configuration, store and logger.
type App struct {
	env   config.Env
	store claimStore
	log   zerolog.Logger
}

func main() {
	env := config.MustLoad()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "claims").Logger()

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

// handler dispatches claim routes by method and path.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	id, err := authz.Authenticate(ctx, a.store, req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Err(err)
	}

	method := req.RequestContext.HTTP.Method
	rest := routeRest(req.RawPath, "claims")

	switch {
	case method == http.MethodPost && len(rest) == 1 && rest[0] == "submit":
		return a.submit(ctx, id, req.Body)
	case method == http.MethodGet && len(rest) == 1 && rest[0] == "list":
		return a.list(ctx, id, req.QueryStringParameters)
	case method == http.MethodGet && len(rest) == 1 && rest[0] == "statistics":
		return a.statistics(ctx, id)
	case method == http.MethodPut && len(rest) == 2 && rest[0] == "move-to-claims":
		return a.moveToClaims(ctx, id, rest[1])
	case method == http.MethodGet && len(rest) == 1:
		return a.get(ctx, id, rest[0])
	case method == http.MethodPut && len(rest) == 1:
		return a.update(ctx, id, rest[0], req.Body)
	case method == http.MethodDelete && len(rest) == 1:
		return a.delete(ctx, id, rest[0])
	case method == http.MethodPatch && len(rest) == 2 && rest[1] == "status":
		return a.updateStatus(ctx, id, rest[0], req.Body)
	default:
		return httpx.Fail(http.StatusNotFound, "route not found")
	}
}

// submit validates and assembles a direct submission, mints the sequential
// claim identifier and persists the record in pending state.
func (a *App) submit(ctx context.Context, id *models.Identity, body string) (events.APIGatewayV2HTTPResponse, error) {
	var form claims.Form
	if err := json.Unmarshal([]byte(body), &form); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}

	c, err := claims.Assemble(form)
	if err != nil {
		return httpx.Err(err)
	}

	now := time.Now()
	claimID := claims.NextClaimID(ctx, a.store, a.env.ClaimIDPrefix, now)
	c.ClaimID = claimID
	c.GSI2PK = ddb.DayPartition(claims.DayOf(now))
	c.GSI2SK = claimID
	c.HospitalID = id.HospitalID
	c.HospitalName = id.HospitalName
	c.SubmittedBy = id.Sub
	c.SubmittedByEmail = id.Email

	if err := a.store.PutClaim(ctx, c); err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("put claim")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("claim_id", claimID).Str("hospital_id", id.HospitalID).Msg("claim submitted")
	return httpx.JSON(http.StatusCreated, map[string]any{
		"success":         true,
		"message":         "Claim submitted successfully",
		"claim_id":        claimID,
		"claim_status":    models.StatusPending,
		"submission_date": c.SubmissionDate,
	})
}

// list returns the caller's hospital claims, filtered by module visibility
// and the optional status and claim_type parameters.
func (a *App) list(ctx context.Context, id *models.Identity, params map[string]string) (events.APIGatewayV2HTTPResponse, error) {
	limit := int32(50)
	if v := params["limit"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = int32(n)
		}
	}
	module := params["module"]
	if module == "" {
		module = models.ModuleClaims
	}

	items, err := a.store.ListClaimsByHospital(ctx, id.HospitalID, ddb.ClaimFilter{
		Module:    module,
		Status:    params["status"],
		ClaimType: params["claim_type"],
		Limit:     limit,
	})
	if err != nil {
		a.log.Error().Err(err).Msg("list claims")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"total_claims": len(items),
		"claims":       items,
	})
}

// get returns one claim, enforcing the hospital ownership boundary.
func (a *App) get(ctx context.Context, id *models.Identity, claimID string) (events.APIGatewayV2HTTPResponse, error) {
	c, err := a.fetchOwned(ctx, id, claimID)
	if err != nil {
		return httpx.Err(err)
	}
	return httpx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"claim":   c,
	})
}

// update applies a section-wise merge to an existing claim; each provided
// section field overwrites the stored one, everything else stays.
func (a *App) update(ctx context.Context, id *models.Identity, claimID, body string) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := a.fetchOwned(ctx, id, claimID); err != nil {
		return httpx.Err(err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}

	sections := map[string]map[string]any{}
	for _, name := range []string{"patient_details", "payer_details", "provider_details", "bill_details"} {
		if fields, ok := payload[name].(map[string]any); ok && len(fields) > 0 {
			sections[name] = fields
		}
	}
	status, _ := payload["claim_status"].(string)

	if err := a.store.UpdateClaimSections(ctx, claimID, sections, status); err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("update claim")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Claim updated successfully",
		"claim_id": claimID,
	})
}

// statusRequest is the body of a status update.
type statusRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// updateStatus sets the lifecycle status from the fixed valid set. Any
// valid status may follow any other.
func (a *App) updateStatus(ctx context.Context, id *models.Identity, claimID, body string) (events.APIGatewayV2HTTPResponse, error) {
	var in statusRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}
	if in.Status == "" {
		return httpx.Err(apperr.Validation("status is required"))
	}
	if err := claims.CheckStatus(in.Status); err != nil {
		return httpx.Err(err)
	}

	if _, err := a.fetchOwned(ctx, id, claimID); err != nil {
		return httpx.Err(err)
	}

	if err := a.store.UpdateClaimStatus(ctx, claimID, in.Status, in.Remarks); err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("update status")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("claim_id", claimID).Str("status", in.Status).Msg("claim status updated")
	return httpx.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Claim status updated successfully",
		"claim_id":   claimID,
		"new_status": in.Status,
	})
}

// moveToClaims flips the claims-module visibility flag on, surfacing a
// preauth record in the claims module. There is no inverse operation.
func (a *App) moveToClaims(ctx context.Context, id *models.Identity, claimID string) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := a.fetchOwned(ctx, id, claimID); err != nil {
		return httpx.Err(err)
	}

	if err := a.store.MarkMovedToClaims(ctx, claimID); err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("move to claims")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Claim moved to claims module successfully",
		"claim_id": claimID,
	})
}

// delete removes a claim from any state. Document records and stored files
// are not cascaded.
func (a *App) delete(ctx context.Context, id *models.Identity, claimID string) (events.APIGatewayV2HTTPResponse, error) {
	if _, err := a.fetchOwned(ctx, id, claimID); err != nil {
		return httpx.Err(err)
	}

	if err := a.store.DeleteClaim(ctx, claimID); err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("delete claim")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Claim deleted successfully",
		"claim_id": claimID,
	})
}

// statistics aggregates the caller's hospital claims: totals, claimed sum,
// and counts by status and claim type.
func (a *App) statistics(ctx context.Context, id *models.Identity) (events.APIGatewayV2HTTPResponse, error) {
	items, err := a.store.ListClaimsByHospital(ctx, id.HospitalID, ddb.ClaimFilter{})
	if err != nil {
		a.log.Error().Err(err).Msg("statistics query")
		return httpx.Err(apperr.Unexpected(err))
	}

	var totalClaimed float64
	byStatus := map[string]int{}
	byType := map[string]int{}
	for _, c := range items {
		if c.Bill != nil {
			totalClaimed += c.Bill.ClaimedAmount
		}
		status := c.ClaimStatus
		if status == "" {
			status = "unknown"
		}
		byStatus[status]++

		claimType := "unknown"
		if c.Provider != nil && c.Provider.ClaimType != "" {
			claimType = c.Provider.ClaimType
		}
		byType[claimType]++
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"statistics": map[string]any{
			"total_claims":         len(items),
			"total_claimed_amount": totalClaimed,
			"claims_by_status":     byStatus,
			"claims_by_type":       byType,
		},
	})
}

// fetchOwned loads a claim and enforces the tenant boundary, without
// leaking record contents on a mismatch.
func (a *App) fetchOwned(ctx context.Context, id *models.Identity, claimID string) (*models.Claim, error) {
	c, err := a.store.GetClaim(ctx, claimID)
	if err != nil {
		a.log.Error().Err(err).Str("claim_id", claimID).Msg("get claim")
		return nil, apperr.Unexpected(err)
	}
	if c == nil {
		return nil, apperr.NotFound("claim")
	}
	if err := authz.CheckTenant(c.HospitalID, id); err != nil {
		return nil, err
	}
	return c, nil
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
