package utils

import "github.com/shopspring/decimal"

// Round arredonda meio para longe de zero com a quantidade de casas informada
func Round(f float64, places int32) float64 {
	if f == 0 {
		return 0
	}

	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// Sum soma valores monetários sem acumular erro de ponto flutuante
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// Mean calcula a média arredondada; zero quando não há valores
func Mean(values []float64, places int32) float64 {
	if len(values) == 0 {
		return 0
	}

	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Div(decimal.NewFromInt(int64(len(values)))).Round(places).InexactFloat64()
}
