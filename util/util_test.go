package util_test

import (
	"testing"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/testutil"
	"github.com/autom8ter/logbook/util"
	"github.com/stretchr/testify/assert"
)

func TestUtil(t *testing.T) {
	t.Run("yaml / json conversions", func(t *testing.T) {
		doc := testutil.NewSpeciesDoc(1)
		yml, err := util.JSONToYAML([]byte(doc.String()))
		assert.Nil(t, err)
		jsonData, err := util.YAMLToJSON(yml)
		assert.Nil(t, err)
		doc2, err := logbook.NewDocumentFromBytes(jsonData)
		assert.Nil(t, err)
		assert.Equal(t, doc.String(), doc2.String())
	})
	t.Run("yaml to json passthrough", func(t *testing.T) {
		jsonData, err := util.YAMLToJSON([]byte(`{"name": "acme"}`))
		assert.Nil(t, err)
		assert.Equal(t, `{"name": "acme"}`, string(jsonData))
	})
	t.Run("json string", func(t *testing.T) {
		doc := testutil.NewSpeciesDoc(2)
		assert.Equal(t, doc.String(), util.JSONString(doc))
	})
	t.Run("decode", func(t *testing.T) {
		doc := testutil.NewSpeciesDoc(3)
		data := map[string]any{}
		assert.Nil(t, util.Decode(doc.Value(), &data))
		doc2, err := logbook.NewDocumentFrom(data)
		assert.Nil(t, err)
		assert.Equal(t, doc.String(), doc2.String())
	})
	t.Run("validate", func(t *testing.T) {
		type usr struct {
			Name string `validate:"required"`
		}
		var u = usr{}
		assert.NotNil(t, util.ValidateStruct(&u))
		u.Name = "a name"
		assert.Nil(t, util.ValidateStruct(&u))
	})
}
