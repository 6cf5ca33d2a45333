package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
)

// API é o subconjunto do cliente DynamoDB usado pelo Store
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Table associa uma coleção à tabela e ao atributo de chave
type Table struct {
	Name string
	Key  string
}

type Store struct {
	client API
	tables map[store.Collection]Table
}

// TablesFromConfig monta o mapeamento padrão coleção -> tabela
func TablesFromConfig(cfg config.DynamoDB) map[store.Collection]Table {
	return map[store.Collection]Table{
		store.Dentists: {Name: cfg.DentistsTable, Key: "dentist_id"},
		store.Requests: {Name: cfg.RequestsTable, Key: "request_id"},
		store.Settings: {Name: cfg.SettingsTable, Key: "config_id"},
	}
}

// NewClient cria o cliente DynamoDB a partir da cadeia padrão de credenciais da AWS
func NewClient(ctx context.Context, cfg config.DynamoDB) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar configuração da AWS: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func New(client API, tables map[store.Collection]Table) *Store {
	return &Store{client: client, tables: tables}
}

func (s *Store) table(collection store.Collection) (Table, error) {
	t, ok := s.tables[collection]
	if !ok || t.Name == "" {
		return Table{}, store.Invalid(fmt.Errorf("coleção sem tabela configurada: %s", collection))
	}
	return t, nil
}

func keyOf(t Table, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{t.Key: &types.AttributeValueMemberS{Value: id}}
}

func (s *Store) Get(ctx context.Context, collection store.Collection, id string) (store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.Name),
		Key:       keyOf(t, id),
	})
	if err != nil {
		return nil, translate(ctx, err)
	}
	if len(out.Item) == 0 {
		return nil, store.ErrNotFound
	}

	return decode(out.Item)
}

func (s *Store) Put(ctx context.Context, collection store.Collection, id string, record store.Record) error {
	t, err := s.table(collection)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(map[string]any(record))
	if err != nil {
		return store.Invalid(fmt.Errorf("erro ao serializar registro: %w", err))
	}
	item[t.Key] = &types.AttributeValueMemberS{Value: id}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.Name),
		Item:      item,
	})
	return translate(ctx, err)
}

// Update aplica um SET por campo de primeiro nível, preservando os demais atributos
func (s *Store) Update(ctx context.Context, collection store.Collection, id string, fields store.Record) error {
	t, err := s.table(collection)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != t.Key {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for i, name := range names {
		if i == 0 {
			update = expression.Set(expression.Name(name), expression.Value(fields[name]))
			continue
		}
		update = update.Set(expression.Name(name), expression.Value(fields[name]))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return store.Invalid(fmt.Errorf("erro ao montar expressão de atualização: %w", err))
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.Name),
		Key:                       keyOf(t, id),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return translate(ctx, err)
}

func (s *Store) Scan(ctx context.Context, collection store.Collection) ([]store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	return s.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(t.Name)})
}

// Query é um Scan com FilterExpression; a tabela não possui índices secundários
func (s *Store) Query(ctx context.Context, collection store.Collection, filters []store.Filter) ([]store.Record, error) {
	t, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return s.Scan(ctx, collection)
	}

	cond, err := condition(filters)
	if err != nil {
		return nil, err
	}

	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, store.Invalid(fmt.Errorf("erro ao montar expressão de filtro: %w", err))
	}

	return s.scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(t.Name),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (s *Store) scan(ctx context.Context, input *dynamodb.ScanInput) ([]store.Record, error) {
	records := make([]store.Record, 0)

	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translate(ctx, err)
		}
		for _, item := range page.Items {
			record, err := decode(item)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	return records, nil
}

func condition(filters []store.Filter) (expression.ConditionBuilder, error) {
	conds := make([]expression.ConditionBuilder, 0, len(filters))
	for _, f := range filters {
		name := expression.Name(f.Field)
		value := expression.Value(f.Value)

		var c expression.ConditionBuilder
		switch f.Operator {
		case store.OpEqual:
			c = equalTo(name, f.Value)
		case store.OpNotEqual:
			c = expression.Not(equalTo(name, f.Value))
		case store.OpLess:
			c = expression.LessThan(name, value)
		case store.OpLessOrEqual:
			c = expression.LessThanEqual(name, value)
		case store.OpGreater:
			c = expression.GreaterThan(name, value)
		case store.OpGreaterOrEqual:
			c = expression.GreaterThanEqual(name, value)
		default:
			return expression.ConditionBuilder{}, store.Invalid(fmt.Errorf("operador de filtro não suportado: %q", f.Operator))
		}
		conds = append(conds, c)
	}

	if len(conds) == 1 {
		return conds[0], nil
	}
	return expression.And(conds[0], conds[1], conds[2:]...), nil
}

// equalTo compara com o valor informado; texto numérico também casa com o
// mesmo número gravado como atributo N (ex.: dentist_id importado como número)
func equalTo(name expression.NameBuilder, v any) expression.ConditionBuilder {
	s, ok := v.(string)
	if !ok {
		return expression.Equal(name, expression.Value(v))
	}
	number, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return expression.Equal(name, expression.Value(s))
	}
	return expression.Or(
		expression.Equal(name, expression.Value(s)),
		expression.Equal(name, expression.Value(types.AttributeValueMemberN{Value: number.String()})),
	)
}

var permanentCodes = map[string]bool{
	"ValidationException":       true,
	"ResourceNotFoundException": true,
	"AccessDeniedException":     true,
	"SerializationException":    true,
}

func translate(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return store.ErrCancelled
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && permanentCodes[apiErr.ErrorCode()] {
		return store.Invalid(err)
	}
	return err
}

func decode(item map[string]types.AttributeValue) (store.Record, error) {
	record := store.Record{}
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, store.Invalid(fmt.Errorf("erro ao decodificar item: %w", err))
	}
	return record, nil
}
