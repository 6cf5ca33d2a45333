package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

//go:generate mockgen -source=request.go -destination=mocks/request.go -package=mocks
type RequestRepository interface {
	Save(ctx context.Context, request *domain.Request) error
	List(ctx context.Context) ([]*domain.Request, error)
	ListByDentistCRO(ctx context.Context, cro string) ([]*domain.Request, error)
	ListDates(ctx context.Context, dentistID, cro, since, until string) ([]string, error)
}

type requestRepository struct {
	store store.Store
}

func NewRequestRepository(s store.Store) RequestRepository {
	return &requestRepository{store: s}
}

// DecodeRequest normaliza um registro bruto de requisição (valores textuais, ids numéricos)
func DecodeRequest(record store.Record) (*domain.Request, error) {
	normalized := make(store.Record, len(record))
	for k, v := range record {
		normalized[k] = v
	}
	normalized["total_value"] = cast.ToFloat64(normalizeDecimal(record["total_value"]))
	if _, ok := normalized["clinic"]; !ok {
		normalized["clinic"] = map[string]any{}
	}
	if _, ok := normalized["dentist"]; !ok {
		normalized["dentist"] = map[string]any{}
	}

	request := &domain.Request{}
	extra, err := fromRecord(normalized, request)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar requisição")
	}
	if len(extra) > 0 {
		request.Extra = extra
	}

	request.ID = strings.TrimSpace(request.ID)
	request.Dentist.ID = strings.TrimSpace(request.Dentist.ID)
	if request.Dentist.CRO != nil && strings.TrimSpace(*request.Dentist.CRO) == "" {
		request.Dentist.CRO = nil
	}

	return request, nil
}

// normalizeDecimal aceita valores como "1.234,56" vindos da tela de origem
func normalizeDecimal(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

func (r *requestRepository) Save(ctx context.Context, request *domain.Request) error {
	if request == nil || request.ID == "" {
		return errors.New("requisição sem identificador")
	}

	record, err := toRecord(request, request.Extra)
	if err != nil {
		return errors.Wrapf(err, "erro ao serializar requisição %s", request.ID)
	}

	if err := r.store.Put(ctx, store.Requests, request.ID, record); err != nil {
		return errors.Wrapf(err, "erro ao salvar requisição %s", request.ID)
	}
	return nil
}

func (r *requestRepository) List(ctx context.Context) ([]*domain.Request, error) {
	records, err := r.store.Scan(ctx, store.Requests)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar requisições")
	}
	return decodeRequests(records), nil
}

func (r *requestRepository) ListByDentistCRO(ctx context.Context, cro string) ([]*domain.Request, error) {
	records, err := r.store.Query(ctx, store.Requests, []store.Filter{
		{Field: "dentist.dentist_cro", Operator: store.OpEqual, Value: strings.TrimSpace(cro)},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar requisições do CRO %s", cro)
	}
	return decodeRequests(records), nil
}

// ListDates retorna as datas das requisições do dentista em [since, until).
// Busca pelo id e, sem resultados, repete pelo CRO.
func (r *requestRepository) ListDates(ctx context.Context, dentistID, cro, since, until string) ([]string, error) {
	period := []store.Filter{
		{Field: "creation_date_inv", Operator: store.OpGreaterOrEqual, Value: since},
		{Field: "creation_date_inv", Operator: store.OpLess, Value: until},
	}

	lookups := make([]store.Filter, 0, 2)
	if dentistID = strings.TrimSpace(dentistID); dentistID != "" {
		lookups = append(lookups, store.Filter{Field: "dentist.dentist_id", Operator: store.OpEqual, Value: dentistID})
	}
	if cro = strings.TrimSpace(cro); cro != "" {
		lookups = append(lookups, store.Filter{Field: "dentist.dentist_cro", Operator: store.OpEqual, Value: cro})
	}

	for _, lookup := range lookups {
		records, err := r.store.Query(ctx, store.Requests, append([]store.Filter{lookup}, period...))
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao listar datas do dentista %s", dentistID)
		}
		if len(records) == 0 {
			continue
		}

		dates := make([]string, 0, len(records))
		for _, record := range records {
			if date := cast.ToString(record["creation_date_inv"]); date != "" {
				dates = append(dates, date)
			}
		}
		return dates, nil
	}

	return []string{}, nil
}

func decodeRequests(records []store.Record) []*domain.Request {
	requests := make([]*domain.Request, 0, len(records))
	for _, record := range records {
		request, err := DecodeRequest(record)
		if err != nil {
			logrus.WithError(err).WithField("request_id", record["request_id"]).Warn("repository: requisição inválida ignorada")
			continue
		}
		requests = append(requests, request)
	}
	return requests
}
