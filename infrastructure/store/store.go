package store

import (
	"context"
	"errors"
	"fmt"
)

// Record é um documento da coleção, no formato trafegado pelo armazenamento
type Record map[string]any

type Collection string

const (
	Dentists Collection = "dentists"
	Requests Collection = "requests"
	Settings Collection = "settings"
)

var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrCancelled = errors.New("operação cancelada")
	// ErrInvalid marca falhas que uma nova tentativa não corrige (filtro,
	// tabela ausente, serialização, requisição rejeitada pelo backend)
	ErrInvalid = errors.New("operação inválida")
)

type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
)

// Filter compara o campo (caminho separado por ponto, ex.: dentist.dentist_cro) com Value
type Filter struct {
	Field    string
	Operator Operator
	Value    any
}

// Store é o contrato de chave-valor usado pelo núcleo de KPIs.
// Put sobrescreve o registro inteiro; Update mescla apenas os campos informados.
type Store interface {
	Get(ctx context.Context, collection Collection, id string) (Record, error)
	Put(ctx context.Context, collection Collection, id string, record Record) error
	Update(ctx context.Context, collection Collection, id string, fields Record) error
	Scan(ctx context.Context, collection Collection) ([]Record, error)
	Query(ctx context.Context, collection Collection, filters []Filter) ([]Record, error)
}

type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusCancelled
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusCancelled:
		return "cancelled"
	default:
		return "error"
	}
}

// Classify traduz o erro de uma operação no resultado correspondente
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusError
	}
}

// Invalid envolve err em ErrInvalid, preservando a mensagem original
func Invalid(err error) error {
	if err == nil || errors.Is(err, ErrInvalid) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

// IsCancelled indica se a operação foi abandonada pelo chamador
func IsCancelled(err error) bool {
	return Classify(err) == StatusCancelled
}

// CheckContext retorna ErrCancelled quando o contexto já terminou
func CheckContext(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}
