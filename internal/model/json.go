package model

import (
	"encoding/json"
	"math"
)

// JSONFloat is a float64 that can always be encoded as JSON. NaN and the
// infinities, which encoding/json rejects but which are common nodata
// values, are written as the strings "nan", "inf" and "-inf".
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(v)
}

// NoDataJSON converts an optional nodata value for JSON output; nil stays nil.
func NoDataJSON(nodata *float64) *JSONFloat {
	if nodata == nil {
		return nil
	}
	f := JSONFloat(*nodata)
	return &f
}

// MarshalJSON encodes the band with a JSON-safe nodata value.
func (b BandInfo) MarshalJSON() ([]byte, error) {
	type plain BandInfo
	return json.Marshal(struct {
		plain
		NoData *JSONFloat `json:"nodata,omitempty"`
	}{plain(b), NoDataJSON(b.NoData)})
}
