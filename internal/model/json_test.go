package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{-9999, `-9999`},
		{0.5, `0.5`},
		{math.NaN(), `"nan"`},
		{math.Inf(1), `"inf"`},
		{math.Inf(-1), `"-inf"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(JSONFloat(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

// TestBandInfo_MarshalJSON checks that a NaN nodata band still encodes and
// that an unset nodata is omitted.
func TestBandInfo_MarshalJSON(t *testing.T) {
	nan := math.NaN()
	data, err := json.Marshal(BandInfo{Index: 1, DataType: TypeFloat32, NoData: &nan})
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":1,"dataType":"Float32","nodata":"nan"}`, string(data))

	data, err = json.Marshal([]BandInfo{{Index: 2, DataType: TypeByte}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"index":2,"dataType":"Byte"}]`, string(data))
}
