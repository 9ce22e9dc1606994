package ddb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records inputs and plays back canned outputs.
type fakeClient struct {
	Client

	queries      []*dynamodb.QueryInput
	queryOutputs []*dynamodb.QueryOutput
}

func (f *fakeClient) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	out := f.queryOutputs[0]
	if len(f.queryOutputs) > 1 {
		f.queryOutputs = f.queryOutputs[1:]
	}
	return out, nil
}

func claimIDItem(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"claim_id": &types.AttributeValueMemberS{Value: id},
	}
}

func TestClaimIDsForDayQueriesDayPrefix(t *testing.T) {
	fc := &fakeClient{queryOutputs: []*dynamodb.QueryOutput{{
		Items: []map[string]types.AttributeValue{
			claimIDItem("CSHLSIP-20260901-0"),
			claimIDItem("CSHLSIP-20260901-1"),
		},
	}}}
	s := New(fc, "claims-table")

	ids, err := s.ClaimIDsForDay(context.Background(), "CSHLSIP", "20260901")
	require.NoError(t, err)
	assert.Equal(t, []string{"CSHLSIP-20260901-0", "CSHLSIP-20260901-1"}, ids)

	require.Len(t, fc.queries, 1)
	q := fc.queries[0]
	assert.Equal(t, "GSI2", *q.IndexName)
	assert.Equal(t, "GSI2PK = :d AND begins_with(GSI2SK, :p)", *q.KeyConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "CLAIMDAY#20260901"}, q.ExpressionAttributeValues[":d"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "CSHLSIP-20260901-"}, q.ExpressionAttributeValues[":p"])
}

func TestClaimIDsForDayPaginates(t *testing.T) {
	fc := &fakeClient{queryOutputs: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{claimIDItem("CSHLSIP-20260901-0")},
			LastEvaluatedKey: claimIDItem("CSHLSIP-20260901-0"),
		},
		{
			Items: []map[string]types.AttributeValue{claimIDItem("CSHLSIP-20260901-1")},
		},
	}}
	s := New(fc, "claims-table")

	ids, err := s.ClaimIDsForDay(context.Background(), "CSHLSIP", "20260901")
	require.NoError(t, err)
	assert.Equal(t, []string{"CSHLSIP-20260901-0", "CSHLSIP-20260901-1"}, ids)
	assert.Len(t, fc.queries, 2)
}

func TestListClaimsByHospitalScopesToHospitalPartition(t *testing.T) {
	fc := &fakeClient{queryOutputs: []*dynamodb.QueryOutput{{}}}
	s := New(fc, "claims-table")

	_, err := s.ListClaimsByHospital(context.Background(), "HOSP-1", ClaimFilter{Module: "claims"})
	require.NoError(t, err)

	require.Len(t, fc.queries, 1)
	q := fc.queries[0]
	assert.Equal(t, "GSI1", *q.IndexName)
	assert.Equal(t, "GSI1PK = :h", *q.KeyConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "HOSPITAL#HOSP-1"}, q.ExpressionAttributeValues[":h"])
	require.NotNil(t, q.FilterExpression)
	assert.Equal(t, "#vis = :vis", *q.FilterExpression)
	assert.Equal(t, "show_in_claims", q.ExpressionAttributeNames["#vis"])
}
