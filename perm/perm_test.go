package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenkit/warden/perm"
	"github.com/wardenkit/warden/schema"
)

// userSchema mirrors a profile model where the owner manages their own
// row: contact data hidden from others, the role assigned read-only.
func userSchema() *schema.Schema {
	return schema.New("User",
		schema.String("name").Perm(0o604),
		schema.String("mobile").Perm(0o600),
		schema.String("role").Perm(0o404),
	).Perm(0o604).Role(schema.OwnerRole(schema.IDField))
}

func TestEffective(t *testing.T) {
	sc := userSchema()

	t.Run("ModelIsCeiling", func(t *testing.T) {
		f, err := sc.Field("name")
		require.NoError(t, err)
		// 0o604 & 0o604
		assert.Equal(t, schema.Mask(0o604), perm.Effective(f, sc))

		f, err = sc.Field("role")
		require.NoError(t, err)
		// 0o404 & 0o604: the model mask cannot grant write back.
		assert.Equal(t, schema.Mask(0o404), perm.Effective(f, sc))
	})

	t.Run("DefaultFieldMask", func(t *testing.T) {
		sc := schema.New("Note", schema.String("body"))
		f, err := sc.Field("body")
		require.NoError(t, err)
		assert.Equal(t, schema.DefaultFieldMask&schema.DefaultModelMask, perm.Effective(f, sc))
	})
}

func TestReadableWritable(t *testing.T) {
	sc := userSchema()

	t.Run("OtherReads", func(t *testing.T) {
		names := fieldNames(perm.Readable(sc, schema.RoleOther))
		assert.Equal(t, []string{"id", "name", "role"}, names)
	})

	t.Run("OwnerReads", func(t *testing.T) {
		names := fieldNames(perm.Readable(sc, schema.RoleOwner))
		assert.Equal(t, []string{"id", "name", "mobile", "role"}, names)
	})

	t.Run("OtherWrites", func(t *testing.T) {
		assert.Empty(t, perm.Writable(sc, schema.RoleOther))
	})

	t.Run("OwnerWrites", func(t *testing.T) {
		names := fieldNames(perm.Writable(sc, schema.RoleOwner))
		assert.Equal(t, []string{"id", "name", "mobile"}, names)
	})

	t.Run("Monotonic", func(t *testing.T) {
		narrow := fieldNames(perm.Readable(sc, schema.RoleOther))
		wide := fieldNames(perm.Readable(sc, schema.RoleOther|schema.RoleOwner))
		assert.Subset(t, wide, narrow)
	})
}

func TestSerialize(t *testing.T) {
	sc := userSchema()
	r := sc.Load(map[string]any{
		"name":   "ann",
		"mobile": "555-0100",
		"role":   "admin",
	})

	t.Run("Stranger", func(t *testing.T) {
		out := perm.Serialize(r, int64(42))
		assert.Equal(t, map[string]any{"name": "ann", "role": "admin"}, out)
	})

	t.Run("Owner", func(t *testing.T) {
		r := r.Clone()
		r.SetID(int64(7))
		out := perm.Serialize(r, int64(7))
		assert.Equal(t, map[string]any{
			"id":     int64(7),
			"name":   "ann",
			"mobile": "555-0100",
			"role":   "admin",
		}, out)
	})

	t.Run("Include", func(t *testing.T) {
		out := perm.Serialize(r, int64(42), perm.Include("name"))
		assert.Equal(t, map[string]any{"name": "ann"}, out)
	})

	t.Run("IncludeCannotWiden", func(t *testing.T) {
		out := perm.Serialize(r, int64(42), perm.Include("mobile"))
		assert.Empty(t, out)
	})

	t.Run("Exclude", func(t *testing.T) {
		out := perm.Serialize(r, int64(42), perm.Exclude("role"))
		assert.Equal(t, map[string]any{"name": "ann"}, out)
	})

	t.Run("UnsetFieldOmitted", func(t *testing.T) {
		r := sc.Load(map[string]any{"name": "bob"})
		out := perm.Serialize(r, int64(42))
		assert.Equal(t, map[string]any{"name": "bob"}, out)
	})
}

func TestApplyUpdates(t *testing.T) {
	sc := userSchema()

	newRecord := func() *schema.Record {
		r := sc.Load(map[string]any{"name": "ann", "mobile": "555-0100", "role": "user"})
		r.SetID(int64(7))
		return r
	}

	t.Run("OwnerWritesName", func(t *testing.T) {
		r := newRecord()
		require.NoError(t, perm.ApplyUpdates(r, map[string]any{"name": "X"}, int64(7)))
		v, _ := r.Get("name")
		assert.Equal(t, "X", v)
	})

	t.Run("OwnerDeniedRole", func(t *testing.T) {
		r := newRecord()
		err := perm.ApplyUpdates(r, map[string]any{"role": "admin"}, int64(7))
		require.True(t, perm.IsDenied(err))
		var denied *perm.DeniedError
		require.ErrorAs(t, err, &denied)
		assert.Equal(t, "role", denied.Field)
		assert.Equal(t, int64(7), denied.Subject)

		v, _ := r.Get("role")
		assert.Equal(t, "user", v)
	})

	t.Run("FailsFastOnFirstDenied", func(t *testing.T) {
		r := newRecord()
		err := perm.ApplyUpdates(r, map[string]any{"name": "X", "role": "admin"}, int64(7))
		require.True(t, perm.IsDenied(err))

		// Keys are visited in sorted order, so "name" was staged before
		// "role" was rejected. Nothing was persisted at that point.
		v, _ := r.Get("name")
		assert.Equal(t, "X", v)
		v, _ = r.Get("role")
		assert.Equal(t, "user", v)
	})

	t.Run("StrangerDeniedEverything", func(t *testing.T) {
		r := newRecord()
		err := perm.ApplyUpdates(r, map[string]any{"name": "X"}, int64(42))
		assert.True(t, perm.IsDenied(err))
	})

	t.Run("UnknownField", func(t *testing.T) {
		r := newRecord()
		err := perm.ApplyUpdates(r, map[string]any{"ghost": 1}, int64(7))
		assert.True(t, perm.IsDenied(err))
	})
}

func fieldNames(fields []*schema.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}
