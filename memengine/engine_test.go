package memengine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	warden "github.com/wardenkit/warden"
	"github.com/wardenkit/warden/memengine"
	"github.com/wardenkit/warden/predicate"
	"github.com/wardenkit/warden/schema"
)

func ordersSchema() *schema.Schema {
	return schema.New("Orders",
		schema.Int("customer_number").Index(),
		schema.String("status"),
		schema.Float("total"),
	)
}

func seed(t *testing.T, e *memengine.Engine, sc *schema.Schema, rows ...map[string]any) {
	t.Helper()
	for _, row := range rows {
		_, err := e.Save(context.Background(), sc.Load(row))
		require.NoError(t, err)
	}
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	sc := ordersSchema()

	t.Run("AssignsUUID", func(t *testing.T) {
		e := memengine.New()
		r := sc.Load(map[string]any{"status": "open"})
		n, err := e.Save(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		id, ok := r.ID().(string)
		require.True(t, ok)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("OverwritesInPlace", func(t *testing.T) {
		e := memengine.New()
		seed(t, e, sc,
			map[string]any{"id": int64(1), "status": "open"},
			map[string]any{"id": int64(1), "status": "shipped"},
		)
		assert.Equal(t, 1, e.Len("Orders"))

		r, err := e.GetByID(ctx, sc, int64(1))
		require.NoError(t, err)
		v, _ := r.Get("status")
		assert.Equal(t, "shipped", v)
	})

	t.Run("StoresCopy", func(t *testing.T) {
		e := memengine.New()
		r := sc.Load(map[string]any{"id": int64(1), "status": "open"})
		_, err := e.Save(ctx, r)
		require.NoError(t, err)
		require.NoError(t, r.Set("status", "mutated"))

		got, err := e.GetByID(ctx, sc, int64(1))
		require.NoError(t, err)
		v, _ := got.Get("status")
		assert.Equal(t, "open", v)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	sc := ordersSchema()
	e := memengine.New()
	seed(t, e, sc, map[string]any{"id": int64(1), "status": "open"})

	t.Run("Hit", func(t *testing.T) {
		r, err := e.GetByID(ctx, sc, int64(1))
		require.NoError(t, err)
		assert.Equal(t, int64(1), r.ID())
	})

	t.Run("CrossWidthIdentity", func(t *testing.T) {
		r, err := e.GetByID(ctx, sc, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), r.ID())
	})

	t.Run("Miss", func(t *testing.T) {
		_, err := e.GetByID(ctx, sc, int64(99))
		assert.True(t, warden.IsNotFound(err))
	})
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	sc := ordersSchema()
	e := memengine.New()
	seed(t, e, sc,
		map[string]any{"id": int64(1), "customer_number": int64(5), "status": "open", "total": 40.0},
		map[string]any{"id": int64(2), "customer_number": int64(5), "status": "shipped", "total": 12.5},
		map[string]any{"id": int64(3), "customer_number": int64(7), "status": "open", "total": 99.0},
	)

	compile := func(t *testing.T, text string) predicate.Expr {
		expr, err := predicate.Compile(text, sc)
		require.NoError(t, err)
		return expr
	}

	ids := func(records []*schema.Record) []any {
		out := make([]any, len(records))
		for i, r := range records {
			out[i] = r.ID()
		}
		return out
	}

	t.Run("NilFilterReturnsAll", func(t *testing.T) {
		records, err := e.Select(ctx, sc, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ids(records))
	})

	t.Run("Equality", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `customer_number == 5`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2)}, ids(records))
	})

	t.Run("And", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `customer_number == 5 and status == "open"`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1)}, ids(records))
	})

	t.Run("Or", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `total > 50 or status == "shipped"`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2), int64(3)}, ids(records))
	})

	t.Run("In", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `id in [1, 3]`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(3)}, ids(records))
	})

	t.Run("Comparisons", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `total >= 12.5 and total < 99`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2)}, ids(records))
	})

	t.Run("NotEqual", func(t *testing.T) {
		records, err := e.Select(ctx, sc, compile(t, `status != "open"`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2)}, ids(records))
	})

	t.Run("OrderDescending", func(t *testing.T) {
		records, err := e.Select(ctx, sc, nil, compile(t, `-total`))
		require.NoError(t, err)
		assert.Equal(t, []any{int64(3), int64(1), int64(2)}, ids(records))
	})

	t.Run("OrderByString", func(t *testing.T) {
		records, err := e.Select(ctx, sc, nil, compile(t, `status`))
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(3), int64(2)}, ids(records))
	})

	t.Run("OrderMultiKey", func(t *testing.T) {
		records, err := e.Select(ctx, sc, nil, compile(t, `status, -total`))
		require.NoError(t, err)
		assert.Equal(t, []any{int64(3), int64(1), int64(2)}, ids(records))
	})

	t.Run("BadOrderExpression", func(t *testing.T) {
		_, err := e.Select(ctx, sc, nil, compile(t, `total > 1`))
		assert.True(t, predicate.IsUnsupported(err))
	})

	t.Run("ReturnsClones", func(t *testing.T) {
		records, err := e.Select(ctx, sc, nil, nil)
		require.NoError(t, err)
		require.NotEmpty(t, records)
		require.NoError(t, records[0].Set("status", "mutated"))

		again, err := e.Select(ctx, sc, nil, nil)
		require.NoError(t, err)
		v, _ := again[0].Get("status")
		assert.Equal(t, "open", v)
	})

	t.Run("MixedWidthComparison", func(t *testing.T) {
		// Constants compile as int64; values may be narrower after a
		// caller round-trip. 12.5 < 40 holds across int/float mixes.
		records, err := e.Select(ctx, sc, compile(t, `total < 40`), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(2)}, ids(records))
	})

	t.Run("UnknownModelEmpty", func(t *testing.T) {
		other := schema.New("Ghost")
		records, err := e.Select(ctx, other, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
