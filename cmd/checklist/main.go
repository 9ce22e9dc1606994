// Package main serves the document-checklist endpoints: resolve, create
// and list.
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

// checklistStore is the slice of the repository the checklist handlers use.
type checklistStore interface {
	authz.UserSource
	claims.ChecklistSource
	PutChecklist(ctx context.Context, cl *models.Checklist) error
	ListChecklists(ctx context.Context) ([]models.Checklist, error)
}

// App holds the per-process state: configuration, store and logger.
type App struct {
	env   config.Env
	store checklistStore
	log   zerolog.Logger
}

func main() {
	env := config.MustLoad()
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "checklist").Logger()

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
	rest := routeRest(req.RawPath, "checklist")

	switch {
	case method == http.MethodGet && len(rest) == 1 && rest[0] == "get-checklist":
		return a.get(ctx, req.QueryStringParameters)
	case method == http.MethodPost && len(rest) == 1 && rest[0] == "create-checklist":
		return a.create(ctx, id, req.Body)
	case method == http.MethodGet && len(rest) == 1 && rest[0] == "list-checklists":
		return a.list(ctx)
	default:
		return httpx.Fail(http.StatusNotFound, "route not found")
	}
}

// get resolves the required-document list for a payer and specialty,
// falling back to the payer's general checklist and then the built-in
// default. Resolution never fails for lack of a stored template.
func (a *App) get(ctx context.Context, params map[string]string) (events.APIGatewayV2HTTPResponse, error) {
	payer := params["payer_name"]
	specialty := params["specialty"]
	if payer == "" || specialty == "" {
		return httpx.Err(apperr.Validation("both payer_name and specialty are required"))
	}

	items, isDefault, err := claims.ResolveChecklist(ctx, a.store, payer, specialty)
	if err != nil {
		a.log.Error().Err(err).Str("payer_name", payer).Msg("resolve checklist")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"payer_name": payer,
		"specialty":  specialty,
		"is_default": isDefault,
		"documents":  items,
	})
}

// createRequest is the body of a create-checklist request.
type createRequest struct {
	PayerName string                 `json:"payer_name"`
	Specialty string                 `json:"specialty"`
	Documents []models.ChecklistItem `json:"documents"`
}

// create stores or replaces a checklist template for a payer/specialty pair.
func (a *App) create(ctx context.Context, id *models.Identity, body string) (events.APIGatewayV2HTTPResponse, error) {
	var in createRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return httpx.Err(apperr.Validation("invalid json"))
	}
	if in.PayerName == "" || len(in.Documents) == 0 {
		return httpx.Err(apperr.Validation("payer_name and documents are required"))
	}
	if in.Specialty == "" {
		in.Specialty = claims.GeneralSpecialty
	}

	cl := &models.Checklist{
		PayerName:      in.PayerName,
		Specialty:      in.Specialty,
		Documents:      in.Documents,
		CreatedBy:      id.Sub,
		CreatedByEmail: id.Email,
	}
	if err := a.store.PutChecklist(ctx, cl); err != nil {
		a.log.Error().Err(err).Str("payer_name", in.PayerName).Msg("put checklist")
		return httpx.Err(apperr.Unexpected(err))
	}

	a.log.Info().Str("payer_name", in.PayerName).Str("specialty", in.Specialty).Msg("checklist created")
	return httpx.JSON(http.StatusCreated, map[string]any{
		"success":      true,
		"message":      "Checklist created successfully",
		"checklist_id": ddb.ChecklistID(in.PayerName, in.Specialty),
	})
}

// list returns every stored checklist template.
func (a *App) list(ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	items, err := a.store.ListChecklists(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("list checklists")
		return httpx.Err(apperr.Unexpected(err))
	}

	return httpx.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"total_checklists": len(items),
		"checklists":       items,
	})
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
