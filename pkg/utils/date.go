package utils

import "time"

const (
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04"
)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(DayLayout, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// FormatDay formata a data como YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// FormatClock formata o horário como HH:MM
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// YearRange devolve o intervalo [1º de janeiro, fim) do ano.
// Para o ano corrente o fim é o início do dia seguinte a now.
func YearRange(year int, now time.Time) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(1, 0, 0)
	if now.Before(end) && !now.Before(start) {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	}
	return start, end
}

// PreviousMonth retorna o primeiro dia do mês anterior ao de t
func PreviousMonth(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, -1, 0)
}
