package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cshls/claims-backend/internal/models"
)

// PutClaim inserts a claim or draft record, refusing to overwrite an
// existing identifier. Key attributes and write timestamps are filled here.
func (s *Store) PutClaim(ctx context.Context, c *models.Claim) error {
	id := c.ID()
	c.PK, c.SK = claimPK(id), skMeta
	c.GSI1PK, c.GSI1SK = hospitalGSI1PK(c.HospitalID), claimPK(id)

	now := NowISO()
	if c.CreatedAt == "" {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if !c.IsDraft && c.SubmissionDate == "" {
		c.SubmissionDate = now
	}

	item, err := attributevalue.MarshalMap(c)
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

// GetClaim fetches a claim or draft by identifier, returning nil when the
// record does not exist.
func (s *Store) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	out, err := s.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var c models.Claim
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteClaim removes a claim or draft record. Attached document records
// are not cascaded.
func (s *Store) DeleteClaim(ctx context.Context, id string) error {
	_, err := s.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	return err
}

// ClaimFilter narrows a hospital listing.
type ClaimFilter struct {
	Module     string // claims|preauth|reimb: matches the visibility flag
	Status     string
	ClaimType  string
	DraftsOnly bool
	Limit      int32 // 0 means unbounded
}

// moduleFlagAttr maps a module name onto its visibility attribute.
func moduleFlagAttr(module string) string {
	switch module {
	case models.ModulePreauth:
		return "show_in_preauth"
	case models.ModuleReimb:
		return "show_in_reimb"
	case models.ModuleClaims:
		return "show_in_claims"
	default:
		return ""
	}
}

// ListClaimsByHospital queries GSI1 for a hospital's records, applying the
// filter server-side. With Limit 0 it pages through the whole partition.
func (s *Store) ListClaimsByHospital(ctx context.Context, hospitalID string, f ClaimFilter) ([]models.Claim, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":h": &types.AttributeValueMemberS{Value: hospitalGSI1PK(hospitalID)},
	}
	var filters []string

	if attr := moduleFlagAttr(f.Module); attr != "" {
		names["#vis"] = attr
		values[":vis"] = &types.AttributeValueMemberBOOL{Value: true}
		filters = append(filters, "#vis = :vis")
	}
	if f.DraftsOnly {
		f.Status = models.StatusDraft
	}
	if f.Status != "" {
		names["#cs"] = "claim_status"
		values[":cs"] = &types.AttributeValueMemberS{Value: f.Status}
		filters = append(filters, "#cs = :cs")
	}
	if f.ClaimType != "" {
		names["#prov"] = "provider_details"
		names["#ct"] = "claim_type"
		values[":ct"] = &types.AttributeValueMemberS{Value: f.ClaimType}
		filters = append(filters, "#prov.#ct = :ct")
	}

	in := &dynamodb.QueryInput{
		TableName:                 &s.Table,
		IndexName:                 awsStr(gsi1),
		KeyConditionExpression:    awsStr("GSI1PK = :h"),
		ExpressionAttributeValues: values,
	}
	if len(filters) > 0 {
		in.FilterExpression = awsStr(strings.Join(filters, " AND "))
	}
	if len(names) > 0 {
		in.ExpressionAttributeNames = names
	}
	if f.Limit > 0 {
		in.Limit = &f.Limit
	}

	var out []models.Claim
	for {
		page, err := s.DB.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		var batch []models.Claim
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if page.LastEvaluatedKey == nil || (f.Limit > 0 && int32(len(out)) >= f.Limit) {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
	if f.Limit > 0 && int32(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ClaimIDsForDay lists the sequential claim identifiers already allocated
// within a day, via a prefix query over the GSI2 day partition. Implements
// the allocator's DayScanner.
func (s *Store) ClaimIDsForDay(ctx context.Context, prefix, day string) ([]string, error) {
	in := &dynamodb.QueryInput{
		TableName:              &s.Table,
		IndexName:              awsStr(gsi2),
		KeyConditionExpression: awsStr("GSI2PK = :d AND begins_with(GSI2SK, :p)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberS{Value: DayPartition(day)},
			":p": &types.AttributeValueMemberS{Value: fmt.Sprintf("%s-%s-", prefix, day)},
		},
		ProjectionExpression:     awsStr("#cid"),
		ExpressionAttributeNames: map[string]string{"#cid": "claim_id"},
	}

	var ids []string
	for {
		page, err := s.DB.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if v, ok := item["claim_id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
		if page.LastEvaluatedKey == nil {
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
	return ids, nil
}

// UpdateClaimStatus sets the lifecycle status plus remarks on an existing
// claim. No transition table restricts which status may follow which.
func (s *Store) UpdateClaimStatus(ctx context.Context, id, status, remarks string) error {
	now := NowISO()
	_, err := s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET claim_status = :s, status_remarks = :r, status_updated_at = :t, updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
			":r": &types.AttributeValueMemberS{Value: remarks},
			":t": &types.AttributeValueMemberS{Value: now},
		},
	})
	return err
}

// MarkMovedToClaims flips show_in_claims on; there is no inverse operation.
func (s *Store) MarkMovedToClaims(ctx context.Context, id string) error {
	now := NowISO()
	_, err := s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET show_in_claims = :on, moved_to_claims_at = :t, updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":on": &types.AttributeValueMemberBOOL{Value: true},
			":t":  &types.AttributeValueMemberS{Value: now},
		},
	})
	return err
}

// UpdateClaimSections applies a section-wise merge: each provided field is
// set at its dotted path inside the section map, and the status is replaced
// when given. Omitted fields stay untouched.
func (s *Store) UpdateClaimSections(ctx context.Context, id string, sections map[string]map[string]any, status string) error {
	names := map[string]string{}
	values := map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberS{Value: NowISO()},
	}
	exprs := []string{"updated_at = :t"}

	si := 0
	for section, fields := range sections {
		sName := fmt.Sprintf("#s%d", si)
		names[sName] = section
		fi := 0
		for field, value := range fields {
			av, err := attributevalue.Marshal(value)
			if err != nil {
				return err
			}
			fName := fmt.Sprintf("#s%df%d", si, fi)
			vName := fmt.Sprintf(":s%df%d", si, fi)
			names[fName] = field
			values[vName] = av
			exprs = append(exprs, fmt.Sprintf("%s.%s = %s", sName, fName, vName))
			fi++
		}
		si++
	}
	if status != "" {
		values[":cs"] = &types.AttributeValueMemberS{Value: status}
		exprs = append(exprs, "claim_status = :cs")
	}

	in := &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression:       awsStr("attribute_exists(PK)"),
		UpdateExpression:          awsStr("SET " + strings.Join(exprs, ", ")),
		ExpressionAttributeValues: values,
	}
	if len(names) > 0 {
		in.ExpressionAttributeNames = names
	}
	_, err := s.DB.UpdateItem(ctx, in)
	return err
}

// SetDraftForm replaces a draft's form data after the caller has merged the
// incoming fields over the stored ones.
func (s *Store) SetDraftForm(ctx context.Context, id string, form map[string]any) error {
	av, err := attributevalue.Marshal(form)
	if err != nil {
		return err
	}
	_, err = s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET form_data = :f, updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f": av,
			":t": &types.AttributeValueMemberS{Value: NowISO()},
		},
	})
	return err
}

// AppendClaimDocumentRef appends one document reference to a claim's
// ordered documents list.
func (s *Store) AppendClaimDocumentRef(ctx context.Context, claimID string, ref models.DocumentRef) error {
	av, err := attributevalue.Marshal([]models.DocumentRef{ref})
	if err != nil {
		return err
	}
	_, err = s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(claimID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET documents = list_append(if_not_exists(documents, :empty), :ref), updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref":   av,
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":t":     &types.AttributeValueMemberS{Value: NowISO()},
		},
	})
	return err
}

// SetClaimDocumentRefs replaces a claim's documents list, used when a
// reference is removed.
func (s *Store) SetClaimDocumentRefs(ctx context.Context, claimID string, refs []models.DocumentRef) error {
	av, err := attributevalue.Marshal(refs)
	if err != nil {
		return err
	}
	if refs == nil {
		av = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
	}
	_, err = s.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.Table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: claimPK(claimID)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConditionExpression: awsStr("attribute_exists(PK)"),
		UpdateExpression:    awsStr("SET documents = :d, updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": av,
			":t": &types.AttributeValueMemberS{Value: NowISO()},
		},
	})
	return err
}
