// Package ddb is the repository over the single claims table. Claims and
// drafts share the CLAIM# partition, distinguished by claim_status; users,
// documents and checklists live in their own partitions. GSI1 serves
// per-hospital listing, GSI2 the per-day claim-id range scan behind
// sequential identifier allocation.
package ddb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	skMeta    = "META"
	skProfile = "PROFILE"

	gsi1 = "GSI1"
	gsi2 = "GSI2"
)

// Client is the slice of the DynamoDB API the store uses.
type Client interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store wraps a DynamoDB client and table name for all record operations.
type Store struct {
	DB    Client
	Table string
}

// New builds a Store over the given client and table.
func New(db Client, table string) *Store {
	return &Store{DB: db, Table: table}
}

// NowISO returns the current time in ISO8601 format. Record timestamps are
// set here at write time, never taken from client input.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }

func claimPK(id string) string    { return "CLAIM#" + id }
func userPK(sub string) string    { return "USER#" + sub }
func documentPK(id string) string { return "DOC#" + id }

func hospitalGSI1PK(hospitalID string) string { return "HOSPITAL#" + hospitalID }

// DayPartition is the GSI2 partition key for a calendar day (YYYYMMDD).
func DayPartition(day string) string { return "CLAIMDAY#" + day }

func awsStr(s string) *string { return &s }
