package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

//go:generate mockgen -source=dentist.go -destination=mocks/dentist.go -package=mocks
type DentistRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Dentist, error)
	FindByCRO(ctx context.Context, cro string) (*domain.Dentist, error)
	List(ctx context.Context) ([]*domain.Dentist, error)
	Save(ctx context.Context, dentist *domain.Dentist) error
	SaveKPIs(ctx context.Context, dentistID string, kpis *domain.KPIs) error
}

type dentistRepository struct {
	store store.Store
	codec *KPICodec
}

func NewDentistRepository(s store.Store, codec *KPICodec) DentistRepository {
	return &dentistRepository{
		store: s,
		codec: codec,
	}
}

// FindByID retorna nil quando o dentista não existe
func (r *dentistRepository) FindByID(ctx context.Context, id string) (*domain.Dentist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	record, err := r.store.Get(ctx, store.Dentists, id)
	if err != nil {
		if store.Classify(err) == store.StatusNotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar dentista %s", id)
	}

	return r.decode(record)
}

// FindByCRO retorna o primeiro dentista com o CRO informado, ou nil
func (r *dentistRepository) FindByCRO(ctx context.Context, cro string) (*domain.Dentist, error) {
	cro = strings.TrimSpace(cro)
	if cro == "" {
		return nil, nil
	}

	records, err := r.store.Query(ctx, store.Dentists, []store.Filter{
		{Field: "dentist_cro", Operator: store.OpEqual, Value: cro},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar dentista pelo CRO %s", cro)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if len(records) > 1 {
		logrus.WithFields(logrus.Fields{
			"cro":     cro,
			"matches": len(records),
		}).Warn("repository: mais de um dentista com o mesmo CRO, usando o primeiro")
	}

	return r.decode(records[0])
}

// List devolve todos os dentistas; registros sem id são descartados
func (r *dentistRepository) List(ctx context.Context) ([]*domain.Dentist, error) {
	records, err := r.store.Scan(ctx, store.Dentists)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar dentistas")
	}

	dentists := make([]*domain.Dentist, 0, len(records))
	for _, record := range records {
		dentist, err := r.decode(record)
		if err != nil {
			logrus.WithError(err).WithField("dentist_id", record["dentist_id"]).Warn("repository: dentista inválido ignorado")
			continue
		}
		if dentist.ID == "" {
			continue
		}
		dentists = append(dentists, dentist)
	}

	return dentists, nil
}

// Save grava o registro completo, incluindo os KPIs; campos em Undecoded voltam como foram lidos
func (r *dentistRepository) Save(ctx context.Context, dentist *domain.Dentist) error {
	if dentist == nil || strings.TrimSpace(dentist.ID) == "" {
		return errors.New("dentista sem identificador")
	}

	record, err := r.encode(dentist)
	if err != nil {
		return errors.Wrapf(err, "erro ao serializar dentista %s", dentist.ID)
	}

	if err := r.store.Put(ctx, store.Dentists, dentist.ID, record); err != nil {
		return errors.Wrapf(err, "erro ao salvar dentista %s", dentist.ID)
	}
	return nil
}

// SaveKPIs atualiza somente o campo KPIs do dentista
func (r *dentistRepository) SaveKPIs(ctx context.Context, dentistID string, kpis *domain.KPIs) error {
	err := r.store.Update(ctx, store.Dentists, dentistID, store.Record{
		kpisField: r.codec.Encode(kpis),
	})
	if err != nil {
		return errors.Wrapf(err, "erro ao atualizar KPIs do dentista %s", dentistID)
	}
	return nil
}

func (r *dentistRepository) decode(record store.Record) (*domain.Dentist, error) {
	dentist := &domain.Dentist{}
	extra, invalid, err := fromRecordLenient(record, dentist)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar dentista")
	}
	if len(invalid) > 0 {
		if dentist.ID == "" {
			dentist.ID = cast.ToString(record["dentist_id"])
		}
		delete(invalid, "dentist_id")
		dentist.Undecoded = invalid

		fields := make([]string, 0, len(invalid))
		for k := range invalid {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		logrus.WithFields(logrus.Fields{
			"dentist_id": dentist.ID,
			"fields":     fields,
		}).Warn("repository: campos do dentista em formato inesperado, preservados sem alteração")
	}

	delete(extra, kpisField)
	if len(extra) > 0 {
		dentist.Extra = extra
	}

	dentist.ID = strings.TrimSpace(dentist.ID)
	if dentist.CRO != nil && strings.TrimSpace(*dentist.CRO) == "" {
		dentist.CRO = nil
	}
	dentist.KPIs = r.codec.Decode(record[kpisField])

	return dentist, nil
}

func (r *dentistRepository) encode(dentist *domain.Dentist) (store.Record, error) {
	record, err := toRecord(dentist, dentist.Extra)
	if err != nil {
		return nil, err
	}
	if dentist.Emails == nil {
		record["dentist_email"] = []any{}
	}
	if dentist.Clinics == nil {
		record["dental_clinics"] = []any{}
	}
	for k, v := range dentist.Undecoded {
		record[k] = v
	}
	record[kpisField] = r.codec.Encode(dentist.KPIs)
	return record, nil
}
