package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// marshalJSON swallows encode errors: every value passed here is one of our
// own JSON-tagged structs or slices, which cannot fail to encode.
func marshalJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func unmarshalJSON(data datatypes.JSON, v interface{}) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, v)
}
