package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID(t *testing.T) {
	var body struct {
		Room  *FlexID `json:"room_id"`
		Space *FlexID `json:"space_id"`
		PI    FlexID  `json:"pi_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"room_id":"12","space_id":null,"pi_id":7}`), &body))
	require.NotNil(t, body.Room)
	assert.Equal(t, uint(12), body.Room.Uint())
	assert.Nil(t, body.Space)
	assert.Equal(t, uint(7), body.PI.Uint())

	require.NoError(t, json.Unmarshal([]byte(`{"room_id":" "}`), &body))
	assert.Equal(t, uint(0), body.Room.Uint())
	assert.Nil(t, PtrUint(body.Room))

	assert.Error(t, json.Unmarshal([]byte(`{"room_id":"twelve"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"room_id":true}`), &body))

	out, err := json.Marshal(FlexID(5))
	require.NoError(t, err)
	assert.Equal(t, "5", string(out))

	id := FlexID(9)
	assert.Equal(t, uint(9), *PtrUint(&id))
}

func TestFlexFloat(t *testing.T) {
	var body struct {
		Amount FlexFloat `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"2.5"}`), &body))
	assert.Equal(t, 2.5, body.Amount.Float64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":3}`), &body))
	assert.Equal(t, 3.0, body.Amount.Float64())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"lots"}`), &body))

	for _, raw := range []string{`"NaN"`, `"Inf"`, `"-Infinity"`, `" +inf "`} {
		assert.Error(t, json.Unmarshal([]byte(`{"amount":`+raw+`}`), &body), raw)
	}
}

func TestFlexList(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	var one FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(` {"name":"a"}`), &one))
	assert.Equal(t, []item{{Name: "a"}}, one.Items())

	var many FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"a"},{"name":"b"}]`), &many))
	assert.Len(t, many.Items(), 2)

	var none FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`null`), &none))
	assert.Empty(t, none.Items())

	var scalar FlexList[item]
	assert.Error(t, json.Unmarshal([]byte(`"a"`), &scalar))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &scalar))
}

func TestCustomError(t *testing.T) {
	cause := assert.AnError
	err := Internal(cause)
	assert.Equal(t, 500, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", err.Message)

	nf := NotFound("room %d not found", 4)
	assert.Equal(t, "404: room 4 not found [type: not_found]", nf.Error())
	assert.True(t, IsType(nf, ErrTypeNotFound))
	assert.False(t, IsType(nf, ErrTypeConflict))

	wrapped := AsCustomError(cause)
	assert.Equal(t, ErrTypeInternal, wrapped.Type)
	assert.Same(t, nf, AsCustomError(nf))

	assert.Equal(t, 401, Unauthorized("no").WithErr(cause).Code)
	assert.Equal(t, 409, Conflict("dup").Code)
	assert.Equal(t, 403, Forbidden("out of scope").Code)
	assert.Equal(t, 502, Upstream(cause, "down").Code)
}
