package ups

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// jsonElement is the on-the-wire shape of one DICOM-JSON attribute, per
// PS3.18 Annex F.2.2. Exactly one of Value/BulkDataURI/InlineBinary is
// populated for a present attribute; all three absent means a present-but-
// empty attribute.
type jsonElement struct {
	VR           string `json:"vr"`
	Value        []any  `json:"Value,omitempty"`
	BulkDataURI  string `json:"BulkDataURI,omitempty"`
	InlineBinary string `json:"InlineBinary,omitempty"`
}

// jsonDataset is keyed by 8-hex-digit tag, e.g. "00100010" for PatientName.
type jsonDataset map[string]jsonElement

// EncodeDataSet renders a DataSet as DICOM-JSON (PS3.18 Annex F), the wire
// format every UPS-RS response body and PUT/POST request body uses.
func EncodeDataSet(ds *dicom.DataSet) ([]byte, error) {
	obj, err := datasetToJSONObject(ds)
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

func datasetToJSONObject(ds *dicom.DataSet) (jsonDataset, error) {
	obj := make(jsonDataset, ds.Len())
	for _, elem := range ds.Elements() {
		je, err := elementToJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", elem.Tag(), err)
		}
		obj[tagKey(elem.Tag())] = je
	}
	return obj, nil
}

func elementToJSON(elem *element.Element) (jsonElement, error) {
	je := jsonElement{VR: elem.VR().String()}

	switch v := elem.Value().(type) {
	case *value.StringValue:
		for _, s := range v.Strings() {
			je.Value = append(je.Value, s)
		}
	case *value.IntValue:
		for _, n := range v.Ints() {
			je.Value = append(je.Value, n)
		}
	case *value.FloatValue:
		for _, f := range v.Floats() {
			je.Value = append(je.Value, f)
		}
	case *value.BytesValue:
		je.InlineBinary = base64.StdEncoding.EncodeToString(v.Bytes())
	case *dicom.SequenceValue:
		for _, item := range v.Items() {
			itemObj, err := datasetToJSONObject(item.DataSet())
			if err != nil {
				return je, err
			}
			je.Value = append(je.Value, itemObj)
		}
	default:
		return je, fmt.Errorf("unsupported value type %T", v)
	}

	return je, nil
}

func tagKey(t tag.Tag) string {
	return fmt.Sprintf("%04X%04X", t.Group, t.Element)
}

// DecodeDataSet parses a DICOM-JSON document into a DataSet.
func DecodeDataSet(data []byte) (*dicom.DataSet, error) {
	var obj jsonDataset
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse DICOM-JSON: %w", err)
	}
	return jsonObjectToDataset(obj)
}

func jsonObjectToDataset(obj jsonDataset) (*dicom.DataSet, error) {
	// Stable insertion order: ascending tag, since JSON object key order
	// is not preserved by encoding/json's map decoding.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ds := dicom.NewDataSet()
	for _, k := range keys {
		t, err := parseTagKey(k)
		if err != nil {
			return nil, err
		}
		elem, err := jsonToElement(t, obj[k])
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		if err := ds.Add(elem); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// reinterpretAsJSONDataset converts a generic map[string]interface{} (the
// shape encoding/json produces for a nested object inside a []any) back
// into a jsonDataset by round-tripping through JSON, reusing the same
// jsonElement decoding encoding/json already knows how to do.
func reinterpretAsJSONDataset(raw any) (jsonDataset, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected sequence item object, got %T", raw)
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var obj jsonDataset
	if err := json.Unmarshal(encoded, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseTagKey(k string) (tag.Tag, error) {
	if len(k) != 8 {
		return tag.Tag{}, fmt.Errorf("invalid tag key %q", k)
	}
	group, err := strconv.ParseUint(k[:4], 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid tag key %q: %w", k, err)
	}
	elem, err := strconv.ParseUint(k[4:], 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid tag key %q: %w", k, err)
	}
	return tag.New(uint16(group), uint16(elem)), nil
}

func jsonToElement(t tag.Tag, je jsonElement) (*element.Element, error) {
	v, err := vr.Parse(je.VR)
	if err != nil {
		return nil, err
	}

	if je.InlineBinary != "" {
		raw, err := base64.StdEncoding.DecodeString(je.InlineBinary)
		if err != nil {
			return nil, fmt.Errorf("invalid InlineBinary: %w", err)
		}
		val, err := value.NewBytesValue(v, raw)
		if err != nil {
			return nil, err
		}
		return element.NewElement(t, v, val)
	}

	switch {
	case v == vr.SequenceOfItems:
		items := make([]*dicom.Item, 0, len(je.Value))
		for _, raw := range je.Value {
			itemObj, err := reinterpretAsJSONDataset(raw)
			if err != nil {
				return nil, err
			}
			itemDS, err := jsonObjectToDataset(itemObj)
			if err != nil {
				return nil, err
			}
			items = append(items, dicom.NewItem(itemDS))
		}
		return element.NewElement(t, v, dicom.NewSequenceValue(items))

	case v.IsStringType():
		strs := make([]string, 0, len(je.Value))
		for _, raw := range je.Value {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("expected string value for VR %s", v)
			}
			strs = append(strs, s)
		}
		val, err := value.NewStringValue(v, strs)
		if err != nil {
			return nil, err
		}
		return element.NewElement(t, v, val)

	case v.IsNumericType():
		if v == vr.FloatingPointDouble || v == vr.FloatingPointSingle {
			floats := make([]float64, 0, len(je.Value))
			for _, raw := range je.Value {
				f, ok := raw.(float64)
				if !ok {
					return nil, fmt.Errorf("expected numeric value for VR %s", v)
				}
				floats = append(floats, f)
			}
			val, err := value.NewFloatValue(v, floats)
			if err != nil {
				return nil, err
			}
			return element.NewElement(t, v, val)
		}
		ints := make([]int64, 0, len(je.Value))
		for _, raw := range je.Value {
			f, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("expected numeric value for VR %s", v)
			}
			ints = append(ints, int64(f))
		}
		val, err := value.NewIntValue(v, ints)
		if err != nil {
			return nil, err
		}
		return element.NewElement(t, v, val)

	default:
		// No Value, BulkDataURI or InlineBinary: present-but-empty
		// attribute. Encode as a zero-length bytes value.
		val, err := value.NewBytesValue(v, nil)
		if err != nil {
			return nil, err
		}
		return element.NewElement(t, v, val)
	}
}
