package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gobangs/pkg/types"
)

func TestDecodeRecords_ShortAliases(t *testing.T) {
	data := []byte(`[
		{"c":"Online Services","d":"www.google.com","r":10,"s":"Google","sc":"Search","t":"g","u":"https://www.google.com/search?q={{{s}}}"}
	]`)

	bangs, warnings, err := DecodeRecords("db.json", data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, bangs, 1)

	assert.Equal(t, types.Bang{
		Trigger:     "g",
		URL:         "https://www.google.com/search?q={{{s}}}",
		Name:        "Google",
		Domain:      "www.google.com",
		Category:    "Online Services",
		Subcategory: "Search",
		Relevance:   10,
	}, bangs[0])
}

func TestDecodeRecords_LongNames(t *testing.T) {
	data := []byte(`[{"trigger":"ddg","url":"https://d.example/?q={{{s}}}","name":"DuckDuckGo","relevance":5}]`)

	bangs, warnings, err := DecodeRecords("db.json", data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, bangs, 1)
	assert.Equal(t, "ddg", bangs[0].Trigger)
	assert.Equal(t, int64(5), bangs[0].Relevance)
}

func TestDecodeRecords_OptionalFieldsDefault(t *testing.T) {
	bangs, _, err := DecodeRecords("db.json", []byte(`[{"t":"x","u":"https://x.example"}]`))
	require.NoError(t, err)
	require.Len(t, bangs, 1)
	assert.Equal(t, int64(0), bangs[0].Relevance)
	assert.Empty(t, bangs[0].Category)
}

func TestDecodeRecords_SkipsMalformedElements(t *testing.T) {
	data := []byte(`[
		{"t":"g","u":"https://g.example"},
		{"u":"https://missing-trigger.example"},
		{"t":"bad-r","u":"https://r.example","r":"high"},
		{"t":"neg","u":"https://n.example","r":-1},
		"not an object",
		{"t":"ok","u":"https://ok.example"}
	]`)

	bangs, warnings, err := DecodeRecords("db.json", data)
	require.NoError(t, err)

	require.Len(t, bangs, 2)
	assert.Equal(t, "g", bangs[0].Trigger)
	assert.Equal(t, "ok", bangs[1].Trigger)

	require.Len(t, warnings, 4)
	assert.Equal(t, 1, warnings[0].Index)
	assert.Equal(t, "bad-r", warnings[1].Trigger)
	assert.Equal(t, "db.json", warnings[2].Source)
	assert.Equal(t, 4, warnings[3].Index)
}

func TestDecodeRecords_NotArray(t *testing.T) {
	_, _, err := DecodeRecords("db.json", []byte(`{"t":"g"}`))
	assert.ErrorIs(t, err, ErrNotArray)

	_, _, err = DecodeRecords("db.json", []byte(`not json`))
	assert.ErrorIs(t, err, ErrNotArray)

	bangs, _, err := DecodeRecords("db.json", []byte(`null`))
	assert.ErrorIs(t, err, ErrNotArray)
	assert.Nil(t, bangs)
}

func TestDecodeRecords_EmptyArray(t *testing.T) {
	bangs, warnings, err := DecodeRecords("db.json", []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, bangs)
	assert.Empty(t, warnings)
}

func TestEncodeRecords_RoundTripsThroughDecode(t *testing.T) {
	in := []types.Bang{
		{Trigger: "g", URL: "https://g.example/?q={{{s}}}", Name: "G", Relevance: 3},
		{Trigger: "w", URL: "https://w.example/?q={{{s}}}", Category: "Ref", Subcategory: "Wiki"},
	}

	data, err := EncodeRecords(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"t":"g"`)
	assert.NotContains(t, string(data), `"trigger"`)

	out, warnings, err := DecodeRecords("encoded", data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, in, out)
}
