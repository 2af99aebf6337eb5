package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Text is a string field that older imports sometimes stored as a number,
// e.g. established_year: 1963. Numbers are read back as their decimal text.
type Text string

func (t *Text) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bson.TypeNull, bson.TypeUndefined:
		*t = ""
	case bson.TypeString:
		*t = Text(raw.StringValue())
	case bson.TypeInt32:
		*t = Text(strconv.FormatInt(int64(raw.Int32()), 10))
	case bson.TypeInt64:
		*t = Text(strconv.FormatInt(raw.Int64(), 10))
	case bson.TypeDouble:
		*t = Text(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bson.TypeBoolean:
		*t = Text(strconv.FormatBool(raw.Boolean()))
	default:
		return fmt.Errorf("cannot decode %s into text", bt)
	}
	return nil
}

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*t = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*t = Text(n.String())
		return nil
	default:
		return fmt.Errorf("expected text or number, got %s", trimmed)
	}
}

// Number is a numeric field that scraped records sometimes carry as a
// string ("600000", "6,00,000"). Blank strings read as 0.
type Number float64

func (n *Number) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bson.TypeNull, bson.TypeUndefined:
		*n = 0
	case bson.TypeDouble:
		*n = Number(raw.Double())
	case bson.TypeInt32:
		*n = Number(raw.Int32())
	case bson.TypeInt64:
		*n = Number(raw.Int64())
	case bson.TypeDecimal128:
		return n.parse(raw.Decimal128().String())
	case bson.TypeString:
		return n.parse(raw.StringValue())
	default:
		return fmt.Errorf("cannot decode %s into number", bt)
	}
	return nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*n = 0
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		return n.parse(s)
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
}

func (n *Number) parse(s string) error {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot decode %q into number", s)
	}
	*n = Number(f)
	return nil
}
