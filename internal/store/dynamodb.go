package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/internal/config"
)

// DynamoDBClient is the subset of the DynamoDB client used by the store.
type DynamoDBClient interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, opts ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, opts ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, opts ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// NewDynamoDBClient returns a DynamoDB client for the configured region.
// Static credentials are used when both keys are set.
func NewDynamoDBClient(ctx context.Context, c config.AWS) (*sdk.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: load aws configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

// item is the DynamoDB representation of a Backup.
type item struct {
	RoomID    string `dynamodbav:"RoomID"`
	Document  string `dynamodbav:"Document"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// DynamoDB is a Store on top of a DynamoDB table with the string partition
// key "RoomID".
type DynamoDB struct {
	client DynamoDBClient
	table  string
	now    func() time.Time
}

var _ Store = (*DynamoDB)(nil)

// NewDynamoDB returns a store writing to the given table.
func NewDynamoDB(client DynamoDBClient, table string) *DynamoDB {
	return &DynamoDB{client: client, table: table, now: time.Now}
}

func (d *DynamoDB) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"RoomID": &types.AttributeValueMemberS{Value: id}}
}

// Put implements Store. CreatedAt is only set when the item is new.
func (d *DynamoDB) Put(ctx context.Context, b *Backup) (bool, error) {
	id, err := validate(b)
	if err != nil {
		return false, err
	}
	now := strfmt.DateTime(d.now().UTC())
	values, err := attributevalue.MarshalMap(map[string]string{
		":d": string(b.Document),
		":u": now.String(),
	})
	if err != nil {
		return false, fmt.Errorf("store: marshal backup %s: %w", id, err)
	}
	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 aws.String(d.table),
		Key:                       d.key(id),
		UpdateExpression:          aws.String("SET Document = :d, UpdatedAt = :u, CreatedAt = if_not_exists(CreatedAt, :u)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("store: put backup %s: %w", id, err)
	}
	b.RoomID, b.CreatedAt, b.UpdatedAt = id, now, now
	if len(out.Attributes) == 0 {
		return true, nil
	}
	var old item
	if err := attributevalue.UnmarshalMap(out.Attributes, &old); err != nil {
		return false, fmt.Errorf("store: unmarshal backup %s: %w", id, err)
	}
	if created, err := strfmt.ParseDateTime(old.CreatedAt); err == nil {
		b.CreatedAt = created
	}
	return false, nil
}

// Get implements Store.
func (d *DynamoDB) Get(ctx context.Context, roomID string) (*Backup, error) {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("store: get backup %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, umlgen.NewNotFoundErrorWithID(label, id)
	}
	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("store: unmarshal backup %s: %w", id, err)
	}
	b := &Backup{RoomID: id, Document: []byte(it.Document)}
	if b.CreatedAt, err = strfmt.ParseDateTime(it.CreatedAt); err != nil {
		return nil, fmt.Errorf("store: backup %s: created at: %w", id, err)
	}
	if b.UpdatedAt, err = strfmt.ParseDateTime(it.UpdatedAt); err != nil {
		return nil, fmt.Errorf("store: backup %s: updated at: %w", id, err)
	}
	return b, nil
}

// Delete implements Store.
func (d *DynamoDB) Delete(ctx context.Context, roomID string) error {
	id, err := ParseRoomID(roomID)
	if err != nil {
		return err
	}
	out, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    aws.String(d.table),
		Key:          d.key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("store: delete backup %s: %w", id, err)
	}
	if len(out.Attributes) == 0 {
		return umlgen.NewNotFoundErrorWithID(label, id)
	}
	return nil
}

// Close implements Store.
func (*DynamoDB) Close() error { return nil }
