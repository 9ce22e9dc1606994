package ddb

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cshls/claims-backend/internal/models"
)

const checklistPKPrefix = "CHECKLIST#"

// checklistKeyPart normalizes a payer or specialty value for use inside a
// key: spaces and slashes become underscores.
func checklistKeyPart(v string) string {
	return strings.NewReplacer(" ", "_", "/", "_").Replace(v)
}

func checklistPK(payerName, specialty string) string {
	return checklistPKPrefix + checklistKeyPart(payerName) + "#" + checklistKeyPart(specialty)
}

// ChecklistID is the caller-visible identifier of a checklist record.
func ChecklistID(payerName, specialty string) string {
	return checklistKeyPart(payerName) + "_" + checklistKeyPart(specialty)
}

// GetChecklist fetches the checklist for an exact payer/specialty pair,
// returning nil when none exists. Implements claims.ChecklistSource.
func (s *Store) GetChecklist(ctx context.Context, payerName, specialty string) (*models.Checklist, error) {
	out, err := s.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: checklistPK(payerName, specialty)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var cl models.Checklist
	if err := attributevalue.UnmarshalMap(out.Item, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// PutChecklist creates or replaces a checklist template.
func (s *Store) PutChecklist(ctx context.Context, cl *models.Checklist) error {
	cl.PK, cl.SK = checklistPK(cl.PayerName, cl.Specialty), skMeta
	now := NowISO()
	if cl.CreatedAt == "" {
		cl.CreatedAt = now
	}
	cl.UpdatedAt = now

	item, err := attributevalue.MarshalMap(cl)
	if err != nil {
		return err
	}
	_, err = s.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.Table,
		Item:      item,
	})
	return err
}

// ListChecklists scans every checklist template in the table.
func (s *Store) ListChecklists(ctx context.Context) ([]models.Checklist, error) {
	in := &dynamodb.ScanInput{
		TableName:        &s.Table,
		FilterExpression: awsStr("begins_with(PK, :p)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: checklistPKPrefix},
		},
	}

	var out []models.Checklist
	for {
		page, err := s.DB.Scan(ctx, in)
		if err != nil {
			return nil, err
		}
		var batch []models.Checklist
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if page.LastEvaluatedKey == nil {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
	return out, nil
}
