package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cshls/claims-backend/internal/config"
	"github.com/cshls/claims-backend/internal/ddb"
	"github.com/cshls/claims-backend/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetUser(ctx context.Context, sub string) (*models.User, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockStore) ClaimIDsForDay(ctx context.Context, prefix, day string) ([]string, error) {
	args := m.Called(ctx, prefix, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *mockStore) PutClaim(ctx context.Context, c *models.Claim) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockStore) DeleteClaim(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) ListClaimsByHospital(ctx context.Context, hospitalID string, f ddb.ClaimFilter) ([]models.Claim, error) {
	args := m.Called(ctx, hospitalID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *mockStore) UpdateClaimStatus(ctx context.Context, id, status, remarks string) error {
	return m.Called(ctx, id, status, remarks).Error(0)
}

func (m *mockStore) MarkMovedToClaims(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) UpdateClaimSections(ctx context.Context, id string, sections map[string]map[string]any, status string) error {
	return m.Called(ctx, id, sections, status).Error(0)
}

func newTestApp(st *mockStore) *App {
	return &App{env: config.Env{ClaimIDPrefix: "CSHLSIP"}, store: st, log: zerolog.Nop()}
}

func authedRequest(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: method},
			Authorizer: &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
				JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
					Claims: map[string]string{"sub": "sub-1"},
				},
			},
		},
	}
}

func hospitalUser() *models.User {
	return &models.User{
		Sub: "sub-1", Role: "hospital_user", Email: "u@example.com",
		HospitalID: "HOSP-1", HospitalName: "City Hospital",
	}
}

func TestStatisticsAggregatesOnlyCallerHospital(t *testing.T) {
	st := new(mockStore)
	st.On("GetUser", mock.Anything, "sub-1").Return(hospitalUser(), nil)
	st.On("ListClaimsByHospital", mock.Anything, "HOSP-1", ddb.ClaimFilter{}).Return([]models.Claim{
		{
			ClaimID: "CSHLSIP-20260901-0", ClaimStatus: models.StatusPending,
			Bill:     &models.BillDetails{ClaimedAmount: 45000},
			Provider: &models.ProviderDetails{ClaimType: "cashless"},
		},
		{
			ClaimID: "CSHLSIP-20260901-1", ClaimStatus: models.StatusApproved,
			Bill:     &models.BillDetails{ClaimedAmount: 5000},
			Provider: &models.ProviderDetails{ClaimType: "cashless"},
		},
		{
			ClaimID: "claim_a1b2c3d4", ClaimStatus: models.StatusPending,
		},
	}, nil)

	resp, err := newTestApp(st).handler(context.Background(),
		authedRequest(http.MethodGet, "/claims/statistics", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success    bool `json:"success"`
		Statistics struct {
			TotalClaims        int            `json:"total_claims"`
			TotalClaimedAmount float64        `json:"total_claimed_amount"`
			ClaimsByStatus     map[string]int `json:"claims_by_status"`
			ClaimsByType       map[string]int `json:"claims_by_type"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Statistics.TotalClaims)
	assert.Equal(t, 50000.0, body.Statistics.TotalClaimedAmount)
	assert.Equal(t, map[string]int{"pending": 2, "approved": 1}, body.Statistics.ClaimsByStatus)
	assert.Equal(t, map[string]int{"cashless": 2, "unknown": 1}, body.Statistics.ClaimsByType)
	st.AssertExpectations(t)
}

func TestGetClaimOfAnotherHospitalIsDenied(t *testing.T) {
	st := new(mockStore)
	st.On("GetUser", mock.Anything, "sub-1").Return(hospitalUser(), nil)
	st.On("GetClaim", mock.Anything, "CSHLSIP-20260901-5").Return(&models.Claim{
		ClaimID: "CSHLSIP-20260901-5", HospitalID: "HOSP-2",
		Patient: &models.PatientDetails{PatientName: "Someone Else"},
	}, nil)

	resp, err := newTestApp(st).handler(context.Background(),
		authedRequest(http.MethodGet, "/claims/CSHLSIP-20260901-5", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotContains(t, resp.Body, "Someone Else")
}

func TestUpdateStatusRejectsUnknownValueWithoutWrite(t *testing.T) {
	st := new(mockStore)
	st.On("GetUser", mock.Anything, "sub-1").Return(hospitalUser(), nil)

	resp, err := newTestApp(st).handler(context.Background(),
		authedRequest(http.MethodPatch, "/claims/CSHLSIP-20260901-0/status", `{"status":"done"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	st.AssertNotCalled(t, "UpdateClaimStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
