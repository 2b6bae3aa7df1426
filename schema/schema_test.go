package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenkit/warden/schema"
)

func TestNew(t *testing.T) {
	t.Run("PrependsID", func(t *testing.T) {
		s := schema.New("User", schema.String("name"))
		fields := s.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "id", fields[0].Name())
		assert.Equal(t, schema.TypeInt, fields[0].Type())
		assert.Equal(t, "name", fields[1].Name())
	})

	t.Run("KeepsDeclaredID", func(t *testing.T) {
		s := schema.New("User", schema.String("id"), schema.String("name"))
		fields := s.Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, schema.TypeString, fields[0].Type())
	})

	t.Run("DuplicateFieldPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			schema.New("User", schema.String("name"), schema.Int("name"))
		})
	})

	t.Run("TableName", func(t *testing.T) {
		assert.Equal(t, "order_items", schema.New("OrderItem").TableName())
		assert.Equal(t, "legacy", schema.New("OrderItem").Table("legacy").TableName())
	})
}

func TestFieldBuilders(t *testing.T) {
	t.Run("Types", func(t *testing.T) {
		assert.Equal(t, schema.TypeString, schema.String("a").Type())
		assert.Equal(t, schema.TypeInt, schema.Int("a").Type())
		assert.Equal(t, schema.TypeFloat, schema.Float("a").Type())
		assert.Equal(t, schema.TypeBool, schema.Bool("a").Type())
		assert.Equal(t, schema.TypeTime, schema.Time("a").Type())
		assert.Equal(t, schema.TypeBytes, schema.Bytes("a").Type())
	})

	t.Run("Index", func(t *testing.T) {
		s := schema.New("Orders",
			schema.Int("customer_number").Index(),
			schema.String("status").Index(),
			schema.Float("total"),
		)
		indexed := s.Indexed()
		require.Len(t, indexed, 2)
		assert.Equal(t, "customer_number", indexed[0].Name())
		assert.Equal(t, "status", indexed[1].Name())
	})

	t.Run("MaskDefault", func(t *testing.T) {
		f := schema.String("name")
		assert.Equal(t, schema.DefaultFieldMask, f.Mask())
		f.Perm(0o600)
		assert.Equal(t, schema.Mask(0o600), f.Mask())
	})
}

func TestMask(t *testing.T) {
	t.Run("CanRead", func(t *testing.T) {
		assert.True(t, schema.Mask(0o604).CanRead(schema.RoleOther))
		assert.False(t, schema.Mask(0o600).CanRead(schema.RoleOther))
		assert.True(t, schema.Mask(0o600).CanRead(schema.RoleOwner))
	})

	t.Run("CanWrite", func(t *testing.T) {
		assert.True(t, schema.Mask(0o604).CanWrite(schema.RoleOwner))
		assert.False(t, schema.Mask(0o604).CanWrite(schema.RoleOther))
		assert.True(t, schema.Mask(0o606).CanWrite(schema.RoleOther))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "0o604", schema.Mask(0o604).String())
		assert.Equal(t, "0o007", schema.Mask(0o007).String())
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Lookup", func(t *testing.T) {
		user := schema.New("User", schema.String("name"))
		reg, err := schema.NewRegistry(user)
		require.NoError(t, err)

		s, err := reg.Lookup("User")
		require.NoError(t, err)
		assert.Same(t, user, s)

		_, err = reg.Lookup("Ghost")
		assert.True(t, schema.IsUnknownModel(err))
	})

	t.Run("DuplicateModel", func(t *testing.T) {
		_, err := schema.NewRegistry(schema.New("User"), schema.New("User"))
		assert.Error(t, err)
	})

	t.Run("FreezesSchemas", func(t *testing.T) {
		s := schema.New("User", schema.String("name"))
		_, err := schema.NewRegistry(s)
		require.NoError(t, err)
		assert.Panics(t, func() { s.Perm(0o600) })
	})

	t.Run("Order", func(t *testing.T) {
		reg, err := schema.NewRegistry(schema.New("B"), schema.New("A"))
		require.NoError(t, err)
		schemas := reg.Schemas()
		require.Len(t, schemas, 2)
		assert.Equal(t, "B", schemas[0].Name())
		assert.Equal(t, "A", schemas[1].Name())
	})
}

func TestRecord(t *testing.T) {
	s := schema.New("User", schema.String("name"), schema.Int("age"))

	t.Run("LoadDropsUnknown", func(t *testing.T) {
		r := s.Load(map[string]any{"name": "ann", "ghost": 1})
		_, ok := r.Get("ghost")
		assert.False(t, ok)
		v, ok := r.Get("name")
		require.True(t, ok)
		assert.Equal(t, "ann", v)
	})

	t.Run("SetUnknownField", func(t *testing.T) {
		r := s.NewRecord()
		err := r.Set("ghost", 1)
		assert.True(t, schema.IsUnknownField(err))
	})

	t.Run("ValuesCopies", func(t *testing.T) {
		r := s.Load(map[string]any{"name": "ann"})
		m := r.Values()
		m["name"] = "bob"
		v, _ := r.Get("name")
		assert.Equal(t, "ann", v)
	})

	t.Run("CloneIsolated", func(t *testing.T) {
		r := s.Load(map[string]any{"name": "ann"})
		c := r.Clone()
		require.NoError(t, c.Set("name", "bob"))
		v, _ := r.Get("name")
		assert.Equal(t, "ann", v)
		assert.Same(t, r.Schema(), c.Schema())
	})

	t.Run("ID", func(t *testing.T) {
		r := s.NewRecord()
		assert.Nil(t, r.ID())
		r.SetID(int64(7))
		assert.Equal(t, int64(7), r.ID())
	})
}

func TestOwnerRole(t *testing.T) {
	s := schema.New("Orders", schema.Int("customer_number")).
		Role(schema.OwnerRole("customer_number"))
	r := s.Load(map[string]any{"customer_number": int64(5)})

	t.Run("Owner", func(t *testing.T) {
		role := s.RoleOf(r, int64(5))
		assert.Equal(t, schema.RoleOwner|schema.DefaultRole, role)
	})

	t.Run("OwnerAcrossWidths", func(t *testing.T) {
		// Identities round-trip through codecs as int64.
		role := s.RoleOf(r, 5)
		assert.Equal(t, schema.RoleOwner|schema.DefaultRole, role)
	})

	t.Run("Stranger", func(t *testing.T) {
		assert.Equal(t, schema.DefaultRole, s.RoleOf(r, int64(42)))
	})

	t.Run("NoResolver", func(t *testing.T) {
		plain := schema.New("User")
		assert.Equal(t, schema.DefaultRole, plain.RoleOf(plain.NewRecord(), "anyone"))
	})
}

func TestApplyPermissionsYAML(t *testing.T) {
	doc := []byte(`
models:
  User:
    perm: 0o604
    fields:
      name: 0o604
      mobile: "0600"
`)

	t.Run("Applies", func(t *testing.T) {
		user := schema.New("User", schema.String("name"), schema.String("mobile"))
		require.NoError(t, schema.ApplyPermissionsYAML(doc, user))
		assert.Equal(t, schema.Mask(0o604), user.Mask())

		name, err := user.Field("name")
		require.NoError(t, err)
		assert.Equal(t, schema.Mask(0o604), name.Mask())

		mobile, err := user.Field("mobile")
		require.NoError(t, err)
		assert.Equal(t, schema.Mask(0o600), mobile.Mask())
	})

	t.Run("UnknownModel", func(t *testing.T) {
		err := schema.ApplyPermissionsYAML(doc, schema.New("Orders"))
		assert.True(t, schema.IsUnknownModel(err))
	})

	t.Run("UnknownField", func(t *testing.T) {
		err := schema.ApplyPermissionsYAML(doc, schema.New("User", schema.String("name")))
		assert.True(t, schema.IsUnknownField(err))
	})

	t.Run("FrozenSchema", func(t *testing.T) {
		user := schema.New("User", schema.String("name"), schema.String("mobile"))
		_, err := schema.NewRegistry(user)
		require.NoError(t, err)
		assert.Error(t, schema.ApplyPermissionsYAML(doc, user))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := schema.ApplyPermissionsYAML([]byte("models:\n  User:\n    perm: 1000\n"), schema.New("User"))
		assert.Error(t, err)
	})
}
