package person

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList_DegradesToEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty string", data: ""},
		{name: "json null", data: "null"},
		{name: "truncated array", data: `[{"pk":1,"first_name":"Ada"`},
		{name: "object instead of array", data: `{"pk":1}`},
		{name: "garbage", data: "not json at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			people := DecodeList(tt.data)
			require.NotNil(t, people)
			assert.Empty(t, people)
		})
	}
}

func TestDecodeList_PreservesStoredOrder(t *testing.T) {
	t.Parallel()

	data := `[
		{"pk":7,"first_name":"Grace","last_name":"Hopper","points":12},
		{"pk":2,"first_name":"Ada","last_name":"Lovelace","points":40},
		{"pk":9,"first_name":"Alan","last_name":"Turing","points":0}
	]`

	people := DecodeList(data)
	require.Len(t, people, 3)
	assert.Equal(t, []int{7, 2, 9}, []int{people[0].PK, people[1].PK, people[2].PK})
	assert.Equal(t, "Ada Lovelace", people[1].DisplayName())
	assert.Equal(t, "40", people[1].PointsLabel())
}

func TestEncodeList(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	people := []Person{
		{PK: 1, FirstName: "Filip", LastName: "Novak", Points: 5},
		{PK: 3, FirstName: "Jana", LastName: "Dvorak", Points: -2},
	}
	encoded, err = EncodeList(people)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"pk":1,"first_name":"Filip","last_name":"Novak","points":5},
		  {"pk":3,"first_name":"Jana","last_name":"Dvorak","points":-2}]`,
		encoded)
	assert.Equal(t, people, DecodeList(encoded))
}
