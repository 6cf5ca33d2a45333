package dynamo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
)

// fakeDynamo guarda itens por tabela e pagina o Scan em blocos de pageSize
type fakeDynamo struct {
	items     map[string]map[string]map[string]types.AttributeValue
	keys      map[string]string
	pageSize  int
	lastScan  *dynamodb.ScanInput
	scanCalls int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		items: map[string]map[string]map[string]types.AttributeValue{},
		keys: map[string]string{
			"cirod_dentists": "dentist_id",
			"cirod_requests": "request_id",
			"cirod_settings": "config_id",
		},
		pageSize: 2,
	}
}

func (f *fakeDynamo) keyValue(table string, key map[string]types.AttributeValue) string {
	return key[f.keys[table]].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := aws.ToString(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.items[table][f.keyValue(table, in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	table := aws.ToString(in.TableName)
	if f.items[table] == nil {
		f.items[table] = map[string]map[string]types.AttributeValue{}
	}
	f.items[table][f.keyValue(table, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	table := aws.ToString(in.TableName)
	id := f.keyValue(table, in.Key)
	if f.items[table] == nil {
		f.items[table] = map[string]map[string]types.AttributeValue{}
	}
	item, ok := f.items[table][id]
	if !ok {
		item = map[string]types.AttributeValue{}
		for k, v := range in.Key {
			item[k] = v
		}
		f.items[table][id] = item
	}

	assignments := strings.TrimPrefix(aws.ToString(in.UpdateExpression), "SET ")
	for _, assignment := range strings.Split(assignments, ",") {
		parts := strings.Split(strings.TrimSpace(assignment), " = ")
		item[in.ExpressionAttributeNames[parts[0]]] = in.ExpressionAttributeValues[parts[1]]
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanCalls++
	f.lastScan = in
	table := aws.ToString(in.TableName)

	ids := make([]string, 0, len(f.items[table]))
	for id := range f.items[table] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := f.keyValue(table, in.ExclusiveStartKey)
		start = sort.SearchStrings(ids, last) + 1
	}
	end := start + f.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.items[table][id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			f.keys[table]: &types.AttributeValueMemberS{Value: ids[end-1]},
		}
	}
	return out, nil
}

func newTestStore() (*Store, *fakeDynamo) {
	fake := newFakeDynamo()
	return New(fake, map[store.Collection]Table{
		store.Dentists: {Name: "cirod_dentists", Key: "dentist_id"},
		store.Requests: {Name: "cirod_requests", Key: "request_id"},
		store.Settings: {Name: "cirod_settings", Key: "config_id"},
	}), fake
}

func TestStore_GetInexistente(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Get(context.Background(), store.Dentists, "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutEGet(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, store.Dentists, "42", store.Record{
		"dentist_name": "Daniela",
		"dentist_cro":  nil,
		"KPIs":         map[string]any{"expectedMonthlyQtd": 4.5},
	}))

	got, err := s.Get(ctx, store.Dentists, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got["dentist_id"])
	assert.Equal(t, "Daniela", got["dentist_name"])
	assert.Nil(t, got["dentist_cro"])
	assert.Equal(t, 4.5, got["KPIs"].(map[string]any)["expectedMonthlyQtd"])
}

func TestStore_UpdatePreservaOutrosCampos(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, store.Dentists, "7", store.Record{"dentist_name": "Eduardo"}))
	require.NoError(t, s.Update(ctx, store.Dentists, "7", store.Record{
		"KPIs":       map[string]any{"expectedMonthlyRevenue": 900.0},
		"dentist_id": "ignorado",
	}))

	got, err := s.Get(ctx, store.Dentists, "7")
	require.NoError(t, err)
	assert.Equal(t, "Eduardo", got["dentist_name"])
	assert.Equal(t, "7", got["dentist_id"])
	assert.Equal(t, 900.0, got["KPIs"].(map[string]any)["expectedMonthlyRevenue"])
}

func TestStore_ScanPaginado(t *testing.T) {
	s, fake := newTestStore()
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, s.Put(ctx, store.Requests, id, store.Record{"creation_date_inv": "2024-01-0" + id}))
	}

	records, err := s.Scan(ctx, store.Requests)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, 3, fake.scanCalls)
}

func TestStore_QueryMontaFiltro(t *testing.T) {
	s, fake := newTestStore()

	_, err := s.Query(context.Background(), store.Requests, []store.Filter{
		{Field: "dentist.dentist_id", Operator: store.OpEqual, Value: "7"},
		{Field: "creation_date_inv", Operator: store.OpGreaterOrEqual, Value: "2024-01-01"},
	})
	require.NoError(t, err)

	require.NotNil(t, fake.lastScan)
	assert.NotEmpty(t, aws.ToString(fake.lastScan.FilterExpression))
	assert.Contains(t, aws.ToString(fake.lastScan.FilterExpression), "AND")

	names := make([]string, 0)
	for _, n := range fake.lastScan.ExpressionAttributeNames {
		names = append(names, n)
	}
	assert.ElementsMatch(t, []string{"dentist", "dentist_id", "creation_date_inv"}, names)
}

func TestStore_QueryIdentificadorNumerico(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		expectOr  bool
		expectedS []string
		expectedN []string
	}{
		{
			name:      "Texto numérico casa com atributo S ou N",
			value:     "7",
			expectOr:  true,
			expectedS: []string{"7"},
			expectedN: []string{"7"},
		},
		{
			name:      "Texto não numérico compara apenas como S",
			value:     "D9",
			expectedS: []string{"D9"},
		},
		{
			name:      "Número compara apenas como N",
			value:     7,
			expectedN: []string{"7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fake := newTestStore()

			_, err := s.Query(context.Background(), store.Requests, []store.Filter{
				{Field: "dentist.dentist_id", Operator: store.OpEqual, Value: tt.value},
			})
			require.NoError(t, err)
			require.NotNil(t, fake.lastScan)

			filter := aws.ToString(fake.lastScan.FilterExpression)
			assert.Equal(t, tt.expectOr, strings.Contains(filter, "OR"), filter)

			var gotS, gotN []string
			for _, v := range fake.lastScan.ExpressionAttributeValues {
				switch av := v.(type) {
				case *types.AttributeValueMemberS:
					gotS = append(gotS, av.Value)
				case *types.AttributeValueMemberN:
					gotN = append(gotN, av.Value)
				}
			}
			assert.ElementsMatch(t, tt.expectedS, gotS)
			assert.ElementsMatch(t, tt.expectedN, gotN)
		})
	}
}

func TestStore_QueryDiferenteDeIdentificadorNumerico(t *testing.T) {
	s, fake := newTestStore()

	_, err := s.Query(context.Background(), store.Dentists, []store.Filter{
		{Field: "dentist_id", Operator: store.OpNotEqual, Value: "42"},
	})
	require.NoError(t, err)

	filter := aws.ToString(fake.lastScan.FilterExpression)
	assert.Contains(t, filter, "NOT")
	assert.Contains(t, filter, "OR")
	assert.Len(t, fake.lastScan.ExpressionAttributeValues, 2)
}

func TestStore_ColecaoSemTabela(t *testing.T) {
	s := New(newFakeDynamo(), map[store.Collection]Table{})

	_, err := s.Scan(context.Background(), store.Dentists)
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestStore_OperadorNaoSuportado(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Query(context.Background(), store.Requests, []store.Filter{
		{Field: "comment", Operator: "LIKE", Value: "x"},
	})
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		invalid   bool
		cancelled bool
	}{
		{name: "Requisição rejeitada", err: &smithy.GenericAPIError{Code: "ValidationException", Message: "invalid"}, invalid: true},
		{name: "Tabela inexistente", err: &smithy.GenericAPIError{Code: "ResourceNotFoundException"}, invalid: true},
		{name: "Throttling é transitório", err: &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException"}},
		{name: "Contexto cancelado", err: context.Canceled, cancelled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(context.Background(), tt.err)
			assert.Equal(t, tt.invalid, errors.Is(err, store.ErrInvalid))
			assert.Equal(t, tt.cancelled, errors.Is(err, store.ErrCancelled))
		})
	}
}

func TestStore_ContextoCancelado(t *testing.T) {
	s, _ := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, store.Dentists, "1")
	assert.ErrorIs(t, err, store.ErrCancelled)
}
