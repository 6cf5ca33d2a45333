// Package importing carrega lotes de dentistas e requisições exportados da origem
package importing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/internal/usecases/requesting"
	"gopkg.in/yaml.v3"
)

var ErrInvalidBatch = errors.New("invalid import batch")

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Batch é o arquivo de carga
type Batch struct {
	Dentists []map[string]any `yaml:"dentists" json:"dentists"`
	Requests []map[string]any `yaml:"requests" json:"requests"`
}

// Summary conta o resultado da carga
type Summary struct {
	DentistsImported  int            `json:"dentistsImported"`
	DentistsSkipped   int            `json:"dentistsSkipped"`
	RequestsByOutcome map[string]int `json:"requestsByOutcome"`
	RequestsFailed    int            `json:"requestsFailed"`
	Duration          time.Duration  `json:"duration"`
}

// FormatFromPath escolhe o formato pela extensão do arquivo
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseBatch lê o lote de r no formato informado
func ParseBatch(r io.Reader, format string) (*Batch, error) {
	batch := &Batch{}

	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(batch)
	case FormatYAML, "":
		err = yaml.NewDecoder(r).Decode(batch)
	default:
		return nil, fmt.Errorf("%w: formato desconhecido %q", ErrInvalidBatch, format)
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			return batch, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return batch, nil
}

type Service struct {
	store    store.Store
	requests requesting.RequestService
	now      func() time.Time
}

func NewService(s store.Store, requests requesting.RequestService) *Service {
	return &Service{store: s, requests: requests, now: time.Now}
}

// Import grava os dentistas como vieram e registra cada requisição pelo caminho incremental.
// Falhas individuais são contadas; cancelamento interrompe a carga.
func (s *Service) Import(ctx context.Context, batch *Batch) (*Summary, error) {
	start := s.now()
	summary := &Summary{RequestsByOutcome: map[string]int{}}

	logrus.WithFields(logrus.Fields{
		"dentists": len(batch.Dentists),
		"requests": len(batch.Requests),
	}).Info("importacao: iniciando carga")

	for i, raw := range batch.Dentists {
		id := strings.TrimSpace(cast.ToString(raw["dentist_id"]))
		if id == "" {
			logrus.WithField("index", i).Warn("importacao: dentista sem dentist_id ignorado")
			summary.DentistsSkipped++
			continue
		}

		if err := s.store.Put(ctx, store.Dentists, id, store.Record(raw)); err != nil {
			if store.IsCancelled(err) {
				return summary, store.ErrCancelled
			}
			return summary, fmt.Errorf("erro ao gravar dentista %s: %w", id, err)
		}
		summary.DentistsImported++
	}

	for i, raw := range batch.Requests {
		result, err := s.requests.Register(ctx, store.Record(raw))
		if err != nil {
			if store.IsCancelled(err) {
				return summary, store.ErrCancelled
			}
			logrus.WithError(err).WithField("index", i).Warn("importacao: requisição rejeitada")
			summary.RequestsFailed++
			continue
		}
		summary.RequestsByOutcome[result.Outcome]++
	}

	summary.Duration = s.now().Sub(start)
	logrus.WithFields(logrus.Fields{
		"dentists_imported": summary.DentistsImported,
		"requests_failed":   summary.RequestsFailed,
		"duration":          summary.Duration,
	}).Info("importacao: carga finalizada")

	return summary, nil
}
