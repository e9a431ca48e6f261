package ident

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix_Bijective(t *testing.T) {
	seen := map[string]Kind{}
	for _, k := range Kinds {
		p := k.Prefix()
		assert.Len(t, p, 2)
		_, dup := seen[p]
		assert.False(t, dup, "prefix %q reused", p)
		seen[p] = k

		back, ok := KindFromPrefix(p)
		require.True(t, ok)
		assert.Equal(t, k, back)
	}
}

func TestName_RoundTrip(t *testing.T) {
	for _, k := range Kinds {
		back, ok := KindFromName(k.Name())
		require.True(t, ok, k.Name())
		assert.Equal(t, k, back)
	}
	_, ok := KindFromName("CombatPage")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	id, err := Parse("c#607204")
	require.NoError(t, err)
	assert.Equal(t, TypedID{Kind: CombatPage, ID: "607204"}, id)
	assert.Equal(t, "c#607204", id.String())

	id, err = Parse("k#250036")
	require.NoError(t, err)
	assert.Equal(t, KeyPage, id.Kind)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "c", "c#", "x#123", "607204", "c# 12"} {
		_, err := Parse(in)
		require.Error(t, err, in)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), in)
	}
}

func TestParse_PaddedID(t *testing.T) {
	for _, in := range []string{"c# 607204", "c#607204 ", "k#\t250036", "p#\n"} {
		_, err := Parse(in)
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "%q", in)
		assert.Equal(t, "empty or padded id", pe.Reason)
	}

	id, err := Parse("c#Weight of Sin")
	require.NoError(t, err)
	assert.Equal(t, "Weight of Sin", id.ID)
}

func TestParse_FormatRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		orig := New(k, "Weight_of_Sin")
		back, err := Parse(orig.String())
		require.NoError(t, err)
		assert.Equal(t, orig, back)
	}
}

func TestLess_KindThenID(t *testing.T) {
	assert.True(t, New(AbnoPage, "9").Less(New(CombatPage, "1")))
	assert.True(t, New(CombatPage, "202002").Less(New(CombatPage, "202005")))
	assert.False(t, New(Passive, "1").Less(New(KeyPage, "2")))
}

func TestTypedID_JSONMapKey(t *testing.T) {
	m := map[TypedID]int{New(Passive, "250403"): 1}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"p#250403":1}`, string(b))

	var back map[TypedID]int
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, m, back)
}
