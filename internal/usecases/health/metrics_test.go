package health

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// daysAgo gera datas YYYY-MM-DD relativas a testNow
func daysAgo(offsets ...int) []string {
	out := make([]string, 0, len(offsets))
	for _, n := range offsets {
		out = append(out, utils.FormatDay(testNow.AddDate(0, 0, -n)))
	}
	return out
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name     string
		dates    []string
		validate func(t *testing.T, m domain.HealthMetrics)
	}{
		{
			name:  "Sem datas é oportunidade sem métricas",
			dates: nil,
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthOpportunity, m.Status)
				assert.Equal(t, domain.ConfidenceLow, m.Confidence)
				assert.Nil(t, m.GapDays)
				assert.Nil(t, m.FreqCurrent)
			},
		},
		{
			name:  "Uma indicação há 70 dias é inativa",
			dates: daysAgo(70),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthInactive, m.Status)
				assert.Equal(t, domain.ConfidenceLow, m.Confidence)
				require.NotNil(t, m.GapDays)
				assert.Equal(t, 70, *m.GapDays)
				assert.Nil(t, m.FreqCurrent)
				assert.Nil(t, m.BestHistory)
				assert.Nil(t, m.PercentPotential)
				assert.Nil(t, m.ScoreChurn)
			},
		},
		{
			name:  "Histórico longo também fica inativo após 60 dias",
			dates: daysAgo(200, 150, 120, 90, 61),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthInactive, m.Status)
				assert.Nil(t, m.FreqCurrent)
			},
		},
		{
			name:  "Duas indicações, a última há 10 dias, é oportunidade",
			dates: daysAgo(40, 10),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthOpportunity, m.Status)
				assert.Equal(t, 10, *m.GapDays)
				assert.Nil(t, m.FreqCurrent)
			},
		},
		{
			name:  "Duas indicações, a última há 30 dias, pede atenção",
			dates: daysAgo(45, 30),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthAttention, m.Status)
				assert.Equal(t, domain.ConfidenceLow, m.Confidence)
				assert.Nil(t, m.ScoreChurn)
			},
		},
		{
			name:  "Indicações a cada 30 dias são estáveis",
			dates: daysAgo(210, 180, 150, 120, 90, 60, 30),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthStable, m.Status)
				assert.Equal(t, domain.ConfidenceHigh, m.Confidence)
				assert.InDelta(t, 30, *m.FreqCurrent, 0.0001)
				assert.InDelta(t, 30, *m.BestHistory, 0.0001)
				assert.InDelta(t, 100, *m.PercentPotential, 0.0001)
				assert.Equal(t, 30, *m.GapDays)
				assert.Equal(t, 28, *m.ScoreChurn)
			},
		},
		{
			name:  "Três indicações nos últimos 30 dias aceleram",
			dates: daysAgo(140, 95, 50, 25, 15, 5),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthAccelerating, m.Status)
				assert.InDelta(t, 18.447, *m.FreqCurrent, 0.001)
				assert.InDelta(t, 10, *m.BestHistory, 0.0001)
				assert.Equal(t, 5, *m.GapDays)
			},
		},
		{
			name:  "Intervalo atual bem acima do histórico é queda",
			dates: daysAgo(70, 60, 50, 40, 30, 20),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthDropping, m.Status)
				assert.InDelta(t, 13, *m.FreqCurrent, 0.0001)
				assert.Equal(t, 43, *m.ScoreChurn)
			},
		},
		{
			name:  "Tendência moderada de alta pede atenção",
			dates: daysAgo(64, 54, 44, 34, 24, 14),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.HealthAttention, m.Status)
				assert.InDelta(t, 11.2, *m.FreqCurrent, 0.0001)
			},
		},
		{
			name:  "Poucas datas usam confiança média",
			dates: daysAgo(50, 40, 30, 20),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				assert.Equal(t, domain.ConfidenceMedium, m.Confidence)
			},
		},
		{
			name:  "Indicações no mesmo dia não geram NaN",
			dates: daysAgo(0, 0, 0),
			validate: func(t *testing.T, m domain.HealthMetrics) {
				for _, v := range []float64{*m.FreqCurrent, *m.BestHistory, *m.PercentPotential} {
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
				}
				assert.Equal(t, 100.0, *m.PercentPotential)
				assert.Equal(t, 0, *m.ScoreChurn)
				assert.Equal(t, domain.HealthAccelerating, m.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ComputeMetrics(ParseDates(tt.dates), testNow))
		})
	}
}

func TestParseDates(t *testing.T) {
	dates := ParseDates([]string{"2025-03-01", "", "invalida", "2025-01-10", "2025-02-05T10:00:00Z", "2025-13-40"})

	require.Len(t, dates, 3)
	assert.Equal(t, "2025-01-10", utils.FormatDay(dates[0]))
	assert.Equal(t, "2025-02-05", utils.FormatDay(dates[1]))
	assert.Equal(t, "2025-03-01", utils.FormatDay(dates[2]))
}

func TestFormatGap(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name     string
		gap      *int
		expected string
	}{
		{name: "Sem histórico", gap: nil, expected: "Histórico insuficiente"},
		{name: "Zero dias", gap: intPtr(0), expected: "0 dias"},
		{name: "Um dia", gap: intPtr(1), expected: "1 dia"},
		{name: "Vários dias", gap: intPtr(12), expected: "12 dias"},
		{name: "Um mês exato", gap: intPtr(30), expected: "1 mês"},
		{name: "Meses e um dia", gap: intPtr(61), expected: "2 meses e 1 dia"},
		{name: "Meses e dias", gap: intPtr(63), expected: "2 meses e 3 dias"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatGap(tt.gap))
		})
	}
}
