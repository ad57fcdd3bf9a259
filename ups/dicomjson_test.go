package ups_test

import (
	"testing"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
	"github.com/codeninja55/go-radx/ups"
	"github.com/stretchr/testify/require"
)

func TestDicomJSON_RoundTripStringAndInt(t *testing.T) {
	ds := dicom.NewDataSet()

	nameVal, err := value.NewStringValue(vr.PersonName, []string{"Doe^Jane"})
	require.NoError(t, err)
	nameElem, err := element.NewElement(tag.New(0x0010, 0x0010), vr.PersonName, nameVal)
	require.NoError(t, err)
	require.NoError(t, ds.Add(nameElem))

	priorityVal, err := value.NewStringValue(vr.CodeString, []string{"HIGH"})
	require.NoError(t, err)
	priorityElem, err := element.NewElement(tag.New(0x0074, 0x1200), vr.CodeString, priorityVal)
	require.NoError(t, err)
	require.NoError(t, ds.Add(priorityElem))

	encoded, err := ups.EncodeDataSet(ds)
	require.NoError(t, err)

	decoded, err := ups.DecodeDataSet(encoded)
	require.NoError(t, err)

	got, err := decoded.Get(tag.New(0x0010, 0x0010))
	require.NoError(t, err)
	sv, ok := got.Value().(*value.StringValue)
	require.True(t, ok)
	require.Equal(t, []string{"Doe^Jane"}, sv.Strings())
}

func TestDicomJSON_RoundTripSequence(t *testing.T) {
	itemDS := dicom.NewDataSet()
	codeVal, err := value.NewStringValue(vr.ShortText, []string{"some code"})
	require.NoError(t, err)
	codeElem, err := element.NewElement(tag.New(0x0040, 0xA168), vr.ShortText, codeVal)
	require.NoError(t, err)
	require.NoError(t, itemDS.Add(codeElem))

	seqVal := dicom.NewSequenceValue([]*dicom.Item{dicom.NewItem(itemDS)})
	seqElem, err := element.NewElement(tag.New(0x0040, 0xA730), vr.SequenceOfItems, seqVal)
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(seqElem))

	encoded, err := ups.EncodeDataSet(ds)
	require.NoError(t, err)

	decoded, err := ups.DecodeDataSet(encoded)
	require.NoError(t, err)

	got, err := decoded.Get(tag.New(0x0040, 0xA730))
	require.NoError(t, err)
	decodedSeq, ok := got.Value().(*dicom.SequenceValue)
	require.True(t, ok)
	require.Equal(t, 1, decodedSeq.Len())
}

func TestDicomJSON_InlineBinary(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	val, err := value.NewBytesValue(vr.OtherByte, raw)
	require.NoError(t, err)
	elem, err := element.NewElement(tag.New(0x7FE0, 0x0010), vr.OtherByte, val)
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(elem))

	encoded, err := ups.EncodeDataSet(ds)
	require.NoError(t, err)

	decoded, err := ups.DecodeDataSet(encoded)
	require.NoError(t, err)

	got, err := decoded.Get(tag.New(0x7FE0, 0x0010))
	require.NoError(t, err)
	bv, ok := got.Value().(*value.BytesValue)
	require.True(t, ok)
	require.Equal(t, raw, bv.Bytes())
}
