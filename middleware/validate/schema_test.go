package validate_test

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/middleware/validate"
)

var productSchema = validate.NewSchema(
	validate.Required("name", validate.String, validation.Required, validation.Length(2, 20)),
	validate.Required("price", validate.Number, validation.Min(1.0)),
	validate.Optional("stock", validate.Integer, validation.Min(int64(0))).WithDefault(int64(0)),
	validate.Optional("active", validate.Bool),
)

func issuesOf(t *testing.T, err error) []auth.FieldIssue {
	t.Helper()

	var verr *auth.Error
	require.True(t, errors.As(err, &verr), "expected *auth.Error, got %T", err)
	require.Equal(t, auth.KindValidation, verr.Kind)
	return verr.Fields
}

func TestSchema_Validate(t *testing.T) {
	t.Run("valid body is normalized", func(t *testing.T) {
		out, err := productSchema.Validate([]byte(`{"name":"lamp","price":12.5,"stock":3,"unknown":"x"}`))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"name":  "lamp",
			"price": 12.5,
			"stock": int64(3),
		}, out)
	})

	t.Run("defaults are applied", func(t *testing.T) {
		out, err := productSchema.Validate([]byte(`{"name":"lamp","price":3}`))
		require.NoError(t, err)
		assert.Equal(t, int64(0), out["stock"])
	})

	t.Run("every offending field is reported", func(t *testing.T) {
		_, err := productSchema.Validate([]byte(`{"name":"x","stock":1.5,"active":"yes"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrValidation)

		assert.Equal(t, []auth.FieldIssue{
			{Field: "active", Issue: "must be a boolean"},
			{Field: "name", Issue: "the length must be between 2 and 20"},
			{Field: "price", Issue: "is required"},
			{Field: "stock", Issue: "must be an integer"},
		}, issuesOf(t, err))
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := productSchema.Validate([]byte(`{"name":42,"price":"12"}`))
		assert.Equal(t, []auth.FieldIssue{
			{Field: "name", Issue: "must be a string"},
			{Field: "price", Issue: "must be a number"},
		}, issuesOf(t, err))
	})

	t.Run("null is a type mismatch", func(t *testing.T) {
		_, err := productSchema.Validate([]byte(`{"name":null,"price":2}`))
		assert.Equal(t, []auth.FieldIssue{{Field: "name", Issue: "must be a string"}}, issuesOf(t, err))
	})

	t.Run("rule failure", func(t *testing.T) {
		_, err := productSchema.Validate([]byte(`{"name":"lamp","price":0.5}`))
		assert.Equal(t, []auth.FieldIssue{{Field: "price", Issue: "must be no less than 1"}}, issuesOf(t, err))
	})

	t.Run("empty body is an empty object", func(t *testing.T) {
		_, err := productSchema.Validate(nil)
		assert.Equal(t, []auth.FieldIssue{
			{Field: "name", Issue: "is required"},
			{Field: "price", Issue: "is required"},
		}, issuesOf(t, err))
	})

	for _, body := range []string{`[1,2]`, `"text"`, `null`, `{"name":`} {
		t.Run("not an object "+body, func(t *testing.T) {
			_, err := productSchema.Validate([]byte(body))
			assert.Equal(t, []auth.FieldIssue{{Field: "body", Issue: "must be a JSON object"}}, issuesOf(t, err))
		})
	}
}

func TestSchema_Partial(t *testing.T) {
	partial := productSchema.Partial()

	assert.True(t, partial.IsPartial())
	assert.False(t, productSchema.IsPartial(), "partial returns a copy")

	t.Run("missing fields are accepted", func(t *testing.T) {
		out, err := partial.Validate([]byte(`{"price":4}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"price": 4.0}, out, "defaults are not applied")
	})

	t.Run("empty body is accepted", func(t *testing.T) {
		out, err := partial.Validate([]byte(``))
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("present fields keep their constraints", func(t *testing.T) {
		_, err := partial.Validate([]byte(`{"name":"x","price":-1}`))
		assert.Equal(t, []auth.FieldIssue{
			{Field: "name", Issue: "the length must be between 2 and 20"},
			{Field: "price", Issue: "must be no less than 1"},
		}, issuesOf(t, err))
	})
}

func TestSchema_Fields(t *testing.T) {
	fields := productSchema.Fields()
	require.Len(t, fields, 4)

	fields[0].Name = "changed"
	assert.Equal(t, "name", productSchema.Fields()[0].Name)
}
