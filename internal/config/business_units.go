package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

type businessUnitsFile struct {
	Units domain.BusinessUnits `yaml:"units"`
}

// LoadBusinessUnits lê a lista de unidades do arquivo YAML; sem arquivo usa a lista padrão
func LoadBusinessUnits(path string) (domain.BusinessUnits, error) {
	if path == "" {
		return domain.DefaultBusinessUnits(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de unidades %s: %w", path, err)
	}

	return ParseBusinessUnits(raw)
}

func ParseBusinessUnits(raw []byte) (domain.BusinessUnits, error) {
	var file businessUnitsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("erro ao interpretar arquivo de unidades: %w", err)
	}

	if len(file.Units) == 0 {
		return nil, fmt.Errorf("arquivo de unidades sem nenhuma unidade")
	}

	if err := file.Units.Validate(); err != nil {
		return nil, err
	}

	logrus.WithField("units", len(file.Units)).Info("Unidades carregadas do arquivo de configuração")
	return file.Units, nil
}
