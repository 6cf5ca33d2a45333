package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	pgdb "github.com/vfg2006/cirod-kpi-engine/infrastructure/database/postgres"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const documentsTable = "kv_documents"

var sqlOperators = map[store.Operator]string{
	store.OpEqual:          "=",
	store.OpNotEqual:       "<>",
	store.OpLess:           "<",
	store.OpLessOrEqual:    "<=",
	store.OpGreater:        ">",
	store.OpGreaterOrEqual: ">=",
}

// Store grava cada registro como um documento JSONB identificado por (collection, id)
type Store struct {
	db pgdb.Queryer
}

func New(db pgdb.Queryer) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, collection store.Collection, id string) (store.Record, error) {
	query, args, err := squirrel.
		Select("data").
		From(documentsTable).
		Where(squirrel.Eq{"collection": string(collection), "id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, store.Invalid(fmt.Errorf("erro ao construir a query: %w", err))
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, translate(ctx, err)
	}

	return decode(raw)
}

func (s *Store) Put(ctx context.Context, collection store.Collection, id string, record store.Record) error {
	return s.upsert(ctx, collection, id, record,
		"ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at")
}

func (s *Store) Update(ctx context.Context, collection store.Collection, id string, fields store.Record) error {
	return s.upsert(ctx, collection, id, fields,
		"ON CONFLICT (collection, id) DO UPDATE SET data = "+documentsTable+".data || EXCLUDED.data, updated_at = EXCLUDED.updated_at")
}

func (s *Store) upsert(ctx context.Context, collection store.Collection, id string, record store.Record, conflict string) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return store.Invalid(fmt.Errorf("erro ao serializar registro: %w", err))
	}

	query, args, err := squirrel.
		Insert(documentsTable).
		Columns("collection", "id", "data", "updated_at").
		Values(string(collection), id, string(raw), time.Now().UTC()).
		Suffix(conflict).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return store.Invalid(fmt.Errorf("erro ao construir a query: %w", err))
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return translate(ctx, err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, collection store.Collection) ([]store.Record, error) {
	return s.Query(ctx, collection, nil)
}

func (s *Store) Query(ctx context.Context, collection store.Collection, filters []store.Filter) ([]store.Record, error) {
	builder := squirrel.
		Select("data").
		From(documentsTable).
		Where(squirrel.Eq{"collection": string(collection)}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	for _, f := range filters {
		clause, err := filterClause(f)
		if err != nil {
			return nil, err
		}
		builder = builder.Where(clause)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, store.Invalid(fmt.Errorf("erro ao construir a query: %w", err))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(ctx, err)
	}
	defer rows.Close()

	records := make([]store.Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, translate(ctx, err)
		}
		record, err := decode(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(ctx, err)
	}

	return records, nil
}

// filterClause traduz o filtro para um predicado sobre o caminho JSON
func filterClause(f store.Filter) (squirrel.Sqlizer, error) {
	op, ok := sqlOperators[f.Operator]
	if !ok {
		return nil, store.Invalid(fmt.Errorf("operador de filtro não suportado: %q", f.Operator))
	}

	path := pq.Array(strings.Split(f.Field, "."))
	if store.IsNumeric(f.Value) {
		return squirrel.Expr(fmt.Sprintf("(data #>> ?)::numeric %s ?", op), path, f.Value), nil
	}
	if f.Operator == store.OpNotEqual {
		return squirrel.Expr("(data #>> ?) IS DISTINCT FROM ?", path, fmt.Sprint(f.Value)), nil
	}
	return squirrel.Expr(fmt.Sprintf("(data #>> ?) %s ?", op), path, fmt.Sprint(f.Value)), nil
}

func translate(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return store.ErrCancelled
	}
	return err
}

func decode(raw []byte) (store.Record, error) {
	record := store.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, store.Invalid(fmt.Errorf("erro ao decodificar documento: %w", err))
	}
	return record, nil
}
