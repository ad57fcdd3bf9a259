package dicom

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustElement(t *testing.T, tg tag.Tag, v vr.VR, val value.Value) *element.Element {
	t.Helper()
	elem, err := element.NewElement(tg, v, val)
	require.NoError(t, err)
	return elem
}

// TestElementParser_ReadElement_SequenceDefinedLength verifies that a
// defined-length SQ element is parsed into a real Item/DataSet tree rather
// than a placeholder byte blob.
func TestElementParser_ReadElement_SequenceDefinedLength(t *testing.T) {
	codeValue, err := value.NewStringValue(vr.ShortString, []string{"CODE1"})
	require.NoError(t, err)
	itemDS := NewDataSet()
	require.NoError(t, itemDS.Add(mustElement(t, tag.New(0x0008, 0x0100), vr.ShortString, codeValue)))

	var itemBuf bytes.Buffer
	require.NoError(t, writeElement(&itemBuf, itemDS.Elements()[0], true))

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x0040)) // group
	binary.Write(&buf, binary.LittleEndian, uint16(0xA370)) // element
	buf.WriteString("SQ")
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&buf, binary.LittleEndian, uint32(8+itemBuf.Len()))
	binary.Write(&buf, binary.LittleEndian, uint16(0xFFFE)) // Item tag
	binary.Write(&buf, binary.LittleEndian, uint16(0xE000))
	binary.Write(&buf, binary.LittleEndian, uint32(itemBuf.Len()))
	buf.Write(itemBuf.Bytes())

	reader := NewReader(&buf, binary.LittleEndian)
	ts := &TransferSyntax{ExplicitVR: true, ByteOrder: binary.LittleEndian}
	parser := NewElementParser(reader, ts)

	elem, err := parser.ReadElement()
	require.NoError(t, err)
	require.Equal(t, vr.SequenceOfItems, elem.VR())

	seq, ok := elem.Value().(*SequenceValue)
	require.True(t, ok, "expected *SequenceValue")
	require.Equal(t, 1, seq.Len())

	nested, err := seq.Items()[0].DataSet().Get(tag.New(0x0008, 0x0100))
	require.NoError(t, err)
	assert.Equal(t, "CODE1", nested.Value().String())
}

// TestElementParser_ReadElement_SequenceUndefinedLength verifies a
// two-item, undefined-length sequence terminated by a Sequence
// Delimitation Item parses into the correct nested tree.
func TestElementParser_ReadElement_SequenceUndefinedLength(t *testing.T) {
	meaning1, err := value.NewStringValue(vr.LongString, []string{"First"})
	require.NoError(t, err)
	meaning2, err := value.NewStringValue(vr.LongString, []string{"Second"})
	require.NoError(t, err)

	encodeItem := func(elem *element.Element) []byte {
		var b bytes.Buffer
		require.NoError(t, writeElement(&b, elem, true))
		return b.Bytes()
	}

	item1 := encodeItem(mustElement(t, tag.New(0x0008, 0x0104), vr.LongString, meaning1))
	item2 := encodeItem(mustElement(t, tag.New(0x0008, 0x0104), vr.LongString, meaning2))

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x0074)) // group
	binary.Write(&buf, binary.LittleEndian, uint16(0x1002)) // element
	buf.WriteString("SQ")
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint32(0xFFFFFFFF)) // undefined length

	writeItem := func(content []byte) {
		binary.Write(&buf, binary.LittleEndian, uint16(0xFFFE))
		binary.Write(&buf, binary.LittleEndian, uint16(0xE000))
		binary.Write(&buf, binary.LittleEndian, uint32(len(content)))
		buf.Write(content)
	}
	writeItem(item1)
	writeItem(item2)

	// Sequence Delimitation Item
	binary.Write(&buf, binary.LittleEndian, uint16(0xFFFE))
	binary.Write(&buf, binary.LittleEndian, uint16(0xE0DD))
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	reader := NewReader(&buf, binary.LittleEndian)
	ts := &TransferSyntax{ExplicitVR: true, ByteOrder: binary.LittleEndian}
	parser := NewElementParser(reader, ts)

	elem, err := parser.ReadElement()
	require.NoError(t, err)

	seq, ok := elem.Value().(*SequenceValue)
	require.True(t, ok)
	require.Equal(t, 2, seq.Len())

	codeMeaning1, err := seq.Items()[0].DataSet().Get(tag.New(0x0008, 0x0104))
	require.NoError(t, err)
	assert.Equal(t, "First", codeMeaning1.Value().String())

	codeMeaning2, err := seq.Items()[1].DataSet().Get(tag.New(0x0008, 0x0104))
	require.NoError(t, err)
	assert.Equal(t, "Second", codeMeaning2.Value().String())
}

// TestElementParser_ReadElement_EmptySequence verifies a zero-length SQ
// parses to an empty, non-nil sequence rather than erroring.
func TestElementParser_ReadElement_EmptySequence(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(0x0028))
	binary.Write(&buf, binary.LittleEndian, uint16(0x3010))
	buf.WriteString("SQ")
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	reader := NewReader(&buf, binary.LittleEndian)
	ts := &TransferSyntax{ExplicitVR: true, ByteOrder: binary.LittleEndian}
	parser := NewElementParser(reader, ts)

	elem, err := parser.ReadElement()
	require.NoError(t, err)

	seq, ok := elem.Value().(*SequenceValue)
	require.True(t, ok)
	assert.Equal(t, 0, seq.Len())
}

// TestWriteElement_SequenceRoundTrip verifies that encoding a SequenceValue
// with writeElement and re-parsing it with ElementParser yields back the
// same nested attribute values.
func TestWriteElement_SequenceRoundTrip(t *testing.T) {
	label, err := value.NewStringValue(vr.LongString, []string{"STEP-1"})
	require.NoError(t, err)
	itemDS := NewDataSet()
	require.NoError(t, itemDS.Add(mustElement(t, tag.New(0x0074, 0x1204), vr.LongString, label)))

	seqVal := NewSequenceValue([]*Item{NewItem(itemDS)})
	seqElem := mustElement(t, tag.New(0x0040, 0xA370), vr.SequenceOfItems, seqVal)

	var buf bytes.Buffer
	require.NoError(t, writeElement(&buf, seqElem, true))

	reader := NewReader(&buf, binary.LittleEndian)
	ts := &TransferSyntax{ExplicitVR: true, ByteOrder: binary.LittleEndian}
	parser := NewElementParser(reader, ts)

	parsed, err := parser.ReadElement()
	require.NoError(t, err)

	seq, ok := parsed.Value().(*SequenceValue)
	require.True(t, ok)
	require.Equal(t, 1, seq.Len())

	labelElem, err := seq.Items()[0].DataSet().Get(tag.New(0x0074, 0x1204))
	require.NoError(t, err)
	assert.Equal(t, "STEP-1", labelElem.Value().String())
}

// TestWriteElement_SequenceImplicitVR verifies sequences encode correctly
// under Implicit VR Little Endian, where item elements omit the VR field.
func TestWriteElement_SequenceImplicitVR(t *testing.T) {
	meaning, err := value.NewStringValue(vr.ShortString, []string{"VAL"})
	require.NoError(t, err)
	itemDS := NewDataSet()
	require.NoError(t, itemDS.Add(mustElement(t, tag.New(0x0008, 0x0100), vr.ShortString, meaning)))

	seqVal := NewSequenceValue([]*Item{NewItem(itemDS)})
	seqElem := mustElement(t, tag.New(0x0040, 0xA370), vr.SequenceOfItems, seqVal)

	var buf bytes.Buffer
	require.NoError(t, writeElement(&buf, seqElem, false))

	reader := NewReader(&buf, binary.LittleEndian)
	ts := &TransferSyntax{ExplicitVR: false, ByteOrder: binary.LittleEndian}
	parser := NewElementParser(reader, ts)

	parsed, err := parser.ReadElement()
	require.NoError(t, err)

	seq, ok := parsed.Value().(*SequenceValue)
	require.True(t, ok)
	require.Equal(t, 1, seq.Len())

	elem, err := seq.Items()[0].DataSet().Get(tag.New(0x0008, 0x0100))
	require.NoError(t, err)
	assert.Equal(t, "VAL", elem.Value().String())
}
