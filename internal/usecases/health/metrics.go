// Package health classifica a saúde da parceria de cada dentista a partir das datas de indicação
package health

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
	"github.com/vfg2006/cirod-kpi-engine/pkg/utils"
)

const (
	day = 24 * time.Hour

	ewmaAlpha           = 0.3
	inactiveAfterDays   = 60
	opportunityMaxGap   = 20
	minDatesForTrend    = 3
	highConfidenceDates = 6
	bestWindow          = 60 * day
	recentWindowDays    = 30
	gapTolerance        = 1.8
	accelerationFactor  = 1.3
	dropTrend           = 0.2
	dropMinGapDays      = 15
	attentionTrend      = 0.1
)

// ParseDates converte datas YYYY-MM-DD ou RFC3339, descarta as inválidas e ordena
func ParseDates(raw []string) []time.Time {
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			dates = append(dates, t)
			continue
		}
		if t, err := utils.ParseDate(s); err == nil {
			dates = append(dates, *t)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// ComputeMetrics classifica a parceria; dates deve estar em ordem crescente
func ComputeMetrics(dates []time.Time, now time.Time) domain.HealthMetrics {
	if len(dates) == 0 {
		return domain.HealthMetrics{Confidence: domain.ConfidenceLow, Status: domain.HealthOpportunity}
	}

	gap := int(math.Floor(now.Sub(dates[len(dates)-1]).Hours() / 24))
	short := domain.HealthMetrics{GapDays: &gap, Confidence: domain.ConfidenceLow}

	if gap > inactiveAfterDays {
		short.Status = domain.HealthInactive
		return short
	}

	if len(dates) < minDatesForTrend {
		if gap <= opportunityMaxGap {
			short.Status = domain.HealthOpportunity
		} else {
			short.Status = domain.HealthAttention
		}
		return short
	}

	intervals := make([]float64, 0, len(dates))
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, days(dates[i].Sub(dates[i-1])))
	}
	intervals = append(intervals, float64(gap))

	freq := ewma(intervals)
	prev := ewma(intervals[:len(intervals)-1])

	best := bestHistory(dates, freq)

	percentPotential := 100.0
	if best > 0 {
		percentPotential = 100 * freq / best
	}

	confidence := domain.ConfidenceMedium
	if len(dates) >= highConfidenceDates {
		confidence = domain.ConfidenceHigh
	}

	trend := 0.0
	if prev != 0 {
		trend = (freq - prev) / prev
	}

	var gapRel float64
	switch {
	case freq > 0:
		gapRel = math.Min(float64(gap)/(freq*gapTolerance), 1)
	case gap > 0:
		gapRel = 1
	}

	quedaRel := 0.0
	if percentPotential < 100 {
		quedaRel = (100 - percentPotential) / 100
	}

	score := int(math.Round(100 * weight(confidence) * (gapRel + quedaRel) / 2))

	cutoff := now.Add(-recentWindowDays * day)
	recent := 0
	for _, d := range dates {
		if !d.Before(cutoff) {
			recent++
		}
	}
	rateRecent := float64(recent) / recentWindowDays
	rateCurrent := 0.0
	if freq > 0 {
		rateCurrent = 1 / freq
	}

	var status domain.HealthStatus
	switch {
	case rateRecent > rateCurrent*accelerationFactor:
		status = domain.HealthAccelerating
	case gap > inactiveAfterDays:
		status = domain.HealthInactive
	case trend >= dropTrend && gap >= dropMinGapDays:
		status = domain.HealthDropping
	case trend >= attentionTrend:
		status = domain.HealthAttention
	default:
		status = domain.HealthStable
	}

	return domain.HealthMetrics{
		FreqCurrent:      &freq,
		GapDays:          &gap,
		BestHistory:      &best,
		PercentPotential: &percentPotential,
		ScoreChurn:       &score,
		Confidence:       confidence,
		Status:           status,
	}
}

func days(d time.Duration) float64 {
	return d.Hours() / 24
}

// ewma usa o primeiro intervalo como semente
func ewma(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := values[0]
	for _, v := range values[1:] {
		avg = ewmaAlpha*v + (1-ewmaAlpha)*avg
	}
	return avg
}

// bestHistory é o menor intervalo médio em qualquer janela de 60 dias iniciada em uma indicação
func bestHistory(dates []time.Time, fallback float64) float64 {
	best := math.Inf(1)
	for i, start := range dates {
		end := start.Add(bestWindow)
		j := i
		for j+1 < len(dates) && !dates[j+1].After(end) {
			j++
		}
		if j == i {
			continue
		}
		avg := days(dates[j].Sub(start)) / float64(j-i)
		if avg < best {
			best = avg
		}
	}
	if math.IsInf(best, 1) {
		return fallback
	}
	return best
}

func weight(c domain.Confidence) float64 {
	switch c {
	case domain.ConfidenceHigh:
		return 1
	case domain.ConfidenceMedium:
		return 0.75
	default:
		return 0.5
	}
}

// FormatGap descreve o intervalo em meses de 30 dias e dias
func FormatGap(gapDays *int) string {
	if gapDays == nil {
		return "Histórico insuficiente"
	}

	months, rest := *gapDays/30, *gapDays%30
	monthLabel := func(n int) string {
		if n == 1 {
			return "1 mês"
		}
		return fmt.Sprintf("%d meses", n)
	}
	dayLabel := func(n int) string {
		if n == 1 {
			return "1 dia"
		}
		return fmt.Sprintf("%d dias", n)
	}

	switch {
	case months > 0 && rest > 0:
		return monthLabel(months) + " e " + dayLabel(rest)
	case months > 0:
		return monthLabel(months)
	default:
		return dayLabel(rest)
	}
}
