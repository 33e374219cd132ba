package rules_test

import (
	"strings"
	"testing"

	"ukuvi-assistant/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *rules.Table {
	table, err := rules.NewTable([]rules.Entry{
		{Name: "greeting", Keywords: []string{"hola"}, Response: "A", Priority: 10},
		{Name: "contact", Keywords: []string{"crear contacto"}, Response: "B", Priority: 100},
		{Name: "fallback", Response: "F", Priority: 0},
	})
	require.NoError(t, err)
	return table
}

func TestSelectSingleMatch(t *testing.T) {
	table := testTable(t)
	assert.Equal(t, "A", table.SelectResponse("hola"))
	assert.Equal(t, "A", table.SelectResponse("  HOLA amigo  "))
}

func TestSelectHigherPriorityWins(t *testing.T) {
	table := testTable(t)
	assert.Equal(t, "B", table.SelectResponse("hola, quiero crear contacto"))
	assert.Equal(t, "contact", table.Select("hola, quiero crear contacto").Name)
}

func TestSelectTieGoesToEarlierEntry(t *testing.T) {
	table, err := rules.NewTable([]rules.Entry{
		{Name: "first", Keywords: []string{"x"}, Response: "R1", Priority: 5},
		{Name: "second", Keywords: []string{"x"}, Response: "R2", Priority: 5},
		{Name: "fallback", Response: "F", Priority: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, "R1", table.SelectResponse("x"))
}

func TestSelectFallbackWhenNothingMatches(t *testing.T) {
	table := testTable(t)
	assert.Equal(t, "F", table.SelectResponse("zzz"))
	assert.Equal(t, "F", table.SelectResponse(""))
	assert.True(t, table.Select("zzz").IsFallback())
}

func TestSelectFallbackPositionDoesNotMatter(t *testing.T) {
	table, err := rules.NewTable([]rules.Entry{
		{Name: "fallback", Response: "F", Priority: 0},
		{Name: "greeting", Keywords: []string{"hola"}, Response: "A", Priority: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, "A", table.SelectResponse("hola"))
	assert.Equal(t, "F", table.SelectResponse("adios"))
}

func TestSelectMatchesSubstrings(t *testing.T) {
	table, err := rules.NewTable([]rules.Entry{
		{Name: "ok", Keywords: []string{"ok"}, Response: "OK", Priority: 10},
		{Name: "fallback", Response: "F", Priority: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, "OK", table.SelectResponse("tokio"))
}

func TestKeywordsAreNormalized(t *testing.T) {
	table, err := rules.NewTable([]rules.Entry{
		{Name: "contact", Keywords: []string{"  Crear Contacto "}, Response: "B", Priority: 10},
		{Name: "fallback", Response: "F", Priority: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"crear contacto"}, table.Entries()[0].Keywords)
	assert.Equal(t, "B", table.SelectResponse("CREAR CONTACTO"))
}

func TestNewTableValidation(t *testing.T) {
	cases := map[string][]rules.Entry{
		"empty": {},
		"no fallback": {
			{Name: "a", Keywords: []string{"a"}, Response: "A", Priority: 1},
		},
		"two fallbacks": {
			{Name: "f1", Response: "F1"},
			{Name: "f2", Response: "F2"},
		},
		"empty response": {
			{Name: "a", Keywords: []string{"a"}, Response: "  ", Priority: 1},
			{Name: "f", Response: "F"},
		},
		"blank keyword": {
			{Name: "a", Keywords: []string{"a", " "}, Response: "A", Priority: 1},
			{Name: "f", Response: "F"},
		},
		"priority not above fallback": {
			{Name: "a", Keywords: []string{"a"}, Response: "A", Priority: 0},
			{Name: "f", Response: "F", Priority: 0},
		},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rules.NewTable(entries)
			assert.ErrorIs(t, err, rules.ErrInvalidTable)
		})
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	table := testTable(t)
	entries := table.Entries()
	entries[0].Keywords[0] = "changed"
	entries[0].Response = "changed"

	assert.Equal(t, "A", table.SelectResponse("hola"))
}

func TestDefaultTable(t *testing.T) {
	table := rules.Default()

	assert.Equal(t, 16, table.Len())
	assert.Equal(t, "fallback", table.Fallback().Name)

	contact := table.SelectResponse("Quiero crear un nuevo contacto")
	assert.True(t, strings.HasPrefix(contact, "Para crear un nuevo contacto en UKUVI, sigue estos pasos:"))
	assert.True(t, strings.HasSuffix(contact, "¿Necesitas ayuda con algo más?"))

	fallback := table.SelectResponse("xyz random gibberish")
	assert.Equal(t, table.Fallback().Response, fallback)
	assert.True(t, strings.HasPrefix(fallback, "No estoy seguro de cómo ayudarte con eso específicamente."))
}

func TestDefaultTableSelection(t *testing.T) {
	table := rules.Default()

	cases := map[string]string{
		"Hola":                              "saludo",
		"hola, ¿cómo creo una cotización?":  "saludo",
		"quiero cotizar un seguro de auto":  "crear-cotizacion",
		"¿dónde está el módulo de pólizas?": "ubicaciones",
		"necesito un seguro de vida":        "seguro-vida",
		"¿cómo registro un pago?":           "cobranza",
		"ayuda por favor":                   "ayuda",
		"muchas gracias":                    "despedida",
		"quiero ver mis reportes":           "reportes",
		"GMM para mi familia":               "gastos-medicos",
		"invitar asesor nuevo":              "permisos-asesores",
	}

	for message, rule := range cases {
		assert.Equal(t, rule, table.Select(message).Name, message)
	}
}

func TestStaticSource(t *testing.T) {
	table := testTable(t)
	assert.Same(t, table, rules.Static(table).Table())
}
