package authz

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cshls/claims-backend/internal/apperr"
	"github.com/cshls/claims-backend/internal/models"
)

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetUser(_ context.Context, sub string) (*models.User, error) {
	return f.users[sub], nil
}

func usersWith(sub, role string) *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{
		sub: {Sub: sub, Role: role, HospitalID: "HOSP-1", HospitalName: "City Hospital", Email: "u@example.com"},
	}}
}

func jwtRequest(sub string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			Authorizer: &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
				JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
					Claims: map[string]string{"sub": sub},
				},
			},
		},
	}
}

func TestClassifyRole(t *testing.T) {
	for _, r := range []string{"hospital_user", "claim_processor", "reconciler"} {
		assert.Equal(t, DecisionAllowed, ClassifyRole(r), r)
	}
	for _, r := range []string{"admin", "super_admin", "system_admin", "hospital_admin", "rm", "rp", "employee"} {
		assert.Equal(t, DecisionBlocked, ClassifyRole(r), r)
	}
	assert.Equal(t, DecisionUnknown, ClassifyRole("auditor"))
	assert.Equal(t, DecisionUnknown, ClassifyRole(""))
	assert.Equal(t, DecisionAllowed, ClassifyRole(" Hospital_User "))
}

func TestAuthenticateAllowsKnownRole(t *testing.T) {
	id, err := Authenticate(context.Background(), usersWith("sub-1", "hospital_user"), jwtRequest("sub-1"), false)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id.Sub)
	assert.Equal(t, "HOSP-1", id.HospitalID)
	assert.Equal(t, "hospital_user", id.Role)
}

func TestAuthenticateBlocksAdministrators(t *testing.T) {
	_, err := Authenticate(context.Background(), usersWith("sub-1", "hospital_admin"), jwtRequest("sub-1"), false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "administrators cannot access")
}

func TestAuthenticateDeniesUnknownRoleByDefault(t *testing.T) {
	_, err := Authenticate(context.Background(), usersWith("sub-1", "auditor"), jwtRequest("sub-1"), false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
}

func TestAuthenticateUnknownUserIs404(t *testing.T) {
	_, err := Authenticate(context.Background(), &fakeUsers{}, jwtRequest("ghost"), false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAuthenticateMissingCredentialIs401(t *testing.T) {
	_, err := Authenticate(context.Background(), usersWith("sub-1", "hospital_user"), events.APIGatewayV2HTTPRequest{}, false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestCallerSubDevBypassHeader(t *testing.T) {
	req := events.APIGatewayV2HTTPRequest{Headers: map[string]string{"X-User-Sub": "dev-sub"}}

	sub, err := CallerSub(req, true)
	require.NoError(t, err)
	assert.Equal(t, "dev-sub", sub)

	// Bypass disabled: the header alone is not a credential.
	_, err = CallerSub(req, false)
	assert.Error(t, err)
}

func TestCallerSubFromBearerToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "token-sub"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := events.APIGatewayV2HTTPRequest{Headers: map[string]string{"Authorization": "Bearer " + signed}}

	sub, err := CallerSub(req, false)
	require.NoError(t, err)
	assert.Equal(t, "token-sub", sub)
}

func TestCallerSubAuthorizerClaimsWinOverHeader(t *testing.T) {
	req := jwtRequest("authorizer-sub")
	req.Headers = map[string]string{"Authorization": "Bearer not-a-jwt"}

	sub, err := CallerSub(req, false)
	require.NoError(t, err)
	assert.Equal(t, "authorizer-sub", sub)
}

func TestCheckTenant(t *testing.T) {
	id := &models.Identity{HospitalID: "HOSP-1"}

	assert.NoError(t, CheckTenant("HOSP-1", id))

	err := CheckTenant("HOSP-2", id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAccessDenied, apperr.KindOf(err))
}
