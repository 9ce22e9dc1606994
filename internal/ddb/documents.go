package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cshls/claims-backend/internal/models"
)

// PutDocument inserts a document metadata record.
func (s *Store) PutDocument(ctx context.Context, d *models.Document) error {
	d.PK, d.SK = documentPK(d.DocumentID), skMeta
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return err
	}
	_, err = s.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.Table,
		Item:                item,
		ConditionExpression: awsStr("attribute_not_exists(PK)"),
	})
	return err
}

// GetDocument fetches a document record, returning nil when absent.
func (s *Store) GetDocument(ctx context.Context, documentID string) (*models.Document, error) {
	out, err := s.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: documentPK(documentID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var d models.Document
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDocument removes a document metadata record.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: documentPK(documentID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	return err
}

// FinalizeDocument marks a record uploaded and fills in the size, etag,
// retrieval URL and upload timestamp observed by the indexer.
func (s *Store) FinalizeDocument(ctx context.Context, documentID string, size int64, etag, downloadURL, uploadedAt string) error {
	sizeAV, err := attributevalue.Marshal(size)
	if err != nil {
		return err
	}
	_, err = s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: documentPK(documentID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET #st = :st, file_size = :sz, etag = :e, download_url = :u, uploaded_at = :t"),
		ExpressionAttributeNames: map[string]string{
			"#st": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":st": &types.AttributeValueMemberS{Value: models.DocStatusUploaded},
			":sz": sizeAV,
			":e":  &types.AttributeValueMemberS{Value: etag},
			":u":  &types.AttributeValueMemberS{Value: downloadURL},
			":t":  &types.AttributeValueMemberS{Value: uploadedAt},
		},
	})
	return err
}
