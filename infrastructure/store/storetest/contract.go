// Package storetest reúne os testes de contrato compartilhados pelas implementações de store.Store
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
)

// RunContract executa o contrato de chave-valor contra um Store vazio criado por newStore
func RunContract(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("Get de registro inexistente retorna ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), store.Dentists, "nao-existe")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Equal(t, store.StatusNotFound, store.Classify(err))
	})

	t.Run("Put sobrescreve o registro inteiro", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, store.Dentists, "10", store.Record{
			"dentist_id":   "10",
			"dentist_name": "Ana",
			"comment":      "antigo",
		}))
		require.NoError(t, s.Put(ctx, store.Dentists, "10", store.Record{
			"dentist_id":   "10",
			"dentist_name": "Ana Souza",
		}))

		got, err := s.Get(ctx, store.Dentists, "10")
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", got["dentist_name"])
		_, hasComment := got["comment"]
		assert.False(t, hasComment)
	})

	t.Run("Update mescla apenas os campos informados", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, store.Dentists, "20", store.Record{
			"dentist_id":   "20",
			"dentist_name": "Bruno",
		}))
		require.NoError(t, s.Update(ctx, store.Dentists, "20", store.Record{
			"KPIs": map[string]any{"expectedMonthlyRevenue": 700.5},
		}))

		got, err := s.Get(ctx, store.Dentists, "20")
		require.NoError(t, err)
		assert.Equal(t, "Bruno", got["dentist_name"])
		kpis, ok := got["KPIs"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 700.5, kpis["expectedMonthlyRevenue"])
	})

	t.Run("Scan devolve todos os registros da coleção", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"b", "a", "c"} {
			require.NoError(t, s.Put(ctx, store.Requests, id, store.Record{"request_id": id}))
		}
		require.NoError(t, s.Put(ctx, store.Dentists, "x", store.Record{"dentist_id": "x"}))

		records, err := s.Scan(ctx, store.Requests)
		require.NoError(t, err)
		ids := make([]any, 0, len(records))
		for _, r := range records {
			ids = append(ids, r["request_id"])
		}
		assert.ElementsMatch(t, []any{"a", "b", "c"}, ids)
	})

	t.Run("Query filtra por campo aninhado e intervalo de datas", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seed := []store.Record{
			{"request_id": "1", "creation_date_inv": "2024-01-10", "dentist": map[string]any{"dentist_id": "7"}},
			{"request_id": "2", "creation_date_inv": "2024-02-10", "dentist": map[string]any{"dentist_id": "7"}},
			{"request_id": "3", "creation_date_inv": "2024-03-10", "dentist": map[string]any{"dentist_id": "8"}},
			{"request_id": "4", "creation_date_inv": "2025-01-05", "dentist": map[string]any{"dentist_id": "7"}},
		}
		for _, r := range seed {
			require.NoError(t, s.Put(ctx, store.Requests, r["request_id"].(string), r))
		}

		records, err := s.Query(ctx, store.Requests, []store.Filter{
			{Field: "dentist.dentist_id", Operator: store.OpEqual, Value: "7"},
			{Field: "creation_date_inv", Operator: store.OpGreaterOrEqual, Value: "2024-01-01"},
			{Field: "creation_date_inv", Operator: store.OpLess, Value: "2025-01-01"},
		})
		require.NoError(t, err)
		ids := make([]any, 0, len(records))
		for _, r := range records {
			ids = append(ids, r["request_id"])
		}
		assert.ElementsMatch(t, []any{"1", "2"}, ids)
	})

	t.Run("Números sobrevivem à serialização", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, store.Dentists, "30", store.Record{
			"dentist_id": "30",
			"KPIs": map[string]any{
				"expectedMonthlyRevenue": 0.0,
				"periodKPIs": map[string]any{
					"2024": map[string]any{
						"03": map[string]any{"faturamentoTotalMes": 1250.75, "totalPedidos": 3.0, "avgTicket": 416.92},
					},
				},
			},
		}))

		got, err := s.Get(ctx, store.Dentists, "30")
		require.NoError(t, err)
		month := got["KPIs"].(map[string]any)["periodKPIs"].(map[string]any)["2024"].(map[string]any)["03"].(map[string]any)
		assert.Equal(t, 1250.75, month["faturamentoTotalMes"])
		assert.Equal(t, 3.0, month["totalPedidos"])
	})

	t.Run("Contexto cancelado resulta em ErrCancelled", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Get(ctx, store.Dentists, "1")
		assert.True(t, store.IsCancelled(err))
	})
}
