package jsoncodec

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/litecodec/errors"
	"github.com/wippyai/litecodec/value"
)

// Marshal encodes an intermediate value as compact JSON. Integer numbers
// keep their exact digits; they never round-trip through float64.
func Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent encodes an intermediate value as indented JSON.
func MarshalIndent(v value.Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v value.Value) error {
	switch v.Kind() {
	case value.KindNone:
		buf.WriteString("null")
	case value.KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case value.KindNumber:
		n, _ := v.AsNumber()
		return encodeNumber(buf, n)
	case value.KindString:
		s, _ := v.AsString()
		return encodeString(buf, s)
	case value.KindArray:
		arr, _ := v.AsArray()
		buf.WriteByte('[')
		for i, elem := range arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case value.KindMap:
		m, _ := v.AsMap()
		buf.WriteByte('{')
		first := true
		var encodeErr error
		m.Range(func(key string, elem value.Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := encodeString(buf, key); err != nil {
				encodeErr = err
				return false
			}
			buf.WriteByte(':')
			if err := encode(buf, elem); err != nil {
				encodeErr = err
				return false
			}
			return true
		})
		if encodeErr != nil {
			return encodeErr
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeNumber(buf *bytes.Buffer, n value.Number) error {
	if n.Kind() == value.NumFloat {
		f := n.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Custom(errors.PhaseSerialize, "cannot encode non-finite float as JSON")
		}
	}
	buf.WriteString(n.String())
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return errors.Custom(errors.PhaseSerialize, "cannot encode string: %v", err)
	}
	buf.Write(quoted)
	return nil
}

// Unmarshal decodes JSON text into an intermediate value. Decoding is
// token-based so ordered builds keep object key order. Numbers narrow to
// the tightest representation: signed integer, then unsigned integer,
// then float. JSON null becomes None.
func Unmarshal(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return value.Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidValue).
			Expected("single JSON document").
			Build()
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, decodeError(err)
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.None(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.Str(t), nil
	case json.Number:
		return decodeNumber(t)
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidValue).
		Expected("JSON value").
		Value(tok).
		Build()
}

func decodeArray(dec *json.Decoder) (value.Value, error) {
	elems := []value.Value{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil {
		return value.Value{}, decodeError(err)
	}
	return value.ArrayOf(elems), nil
}

func decodeObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return value.Value{}, decodeError(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return value.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidKey).
				Value(keyTok).
				Build()
		}
		v, err := decodeValue(dec)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return value.Value{}, decodeError(err)
	}
	return value.MapValue(m), nil
}

func decodeNumber(n json.Number) (value.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return value.Uint(u), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return value.Value{}, decodeError(err)
	}
	return value.Float(f), nil
}

func decodeError(err error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidValue).
		Detail("malformed JSON").
		Cause(err).
		Build()
}
