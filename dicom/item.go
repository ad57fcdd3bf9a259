package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// Item represents a single Item of a DICOM Sequence of Items (SQ), owning a
// nested DataSet of its own. Items may themselves contain elements whose
// values are sequences, giving DataSet an arbitrarily deep tree shape.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type Item struct {
	elements *DataSet
}

// NewItem creates an Item wrapping the given DataSet. A nil DataSet is
// replaced with an empty one.
func NewItem(ds *DataSet) *Item {
	if ds == nil {
		ds = NewDataSet()
	}
	return &Item{elements: ds}
}

// DataSet returns the Item's nested DataSet.
func (i *Item) DataSet() *DataSet {
	return i.elements
}

// String returns a human-readable summary of the item.
func (i *Item) String() string {
	return fmt.Sprintf("Item{%d elements}", i.elements.Len())
}

// SequenceValue is the value.Value implementation for VR Sequence of Items
// (SQ). It holds the ordered list of nested Items parsed from, or to be
// written as, the sequence's content.
type SequenceValue struct {
	items []*Item
}

// NewSequenceValue creates a SequenceValue from a slice of Items.
func NewSequenceValue(items []*Item) *SequenceValue {
	return &SequenceValue{items: items}
}

// VR returns vr.SequenceOfItems.
func (s *SequenceValue) VR() vr.VR {
	return vr.SequenceOfItems
}

// Items returns the sequence's items in encounter order.
func (s *SequenceValue) Items() []*Item {
	return s.items
}

// Len returns the number of items in the sequence.
func (s *SequenceValue) Len() int {
	return len(s.items)
}

// String returns a human-readable summary of the sequence.
func (s *SequenceValue) String() string {
	return fmt.Sprintf("Sequence[%d items]", len(s.items))
}

// Equals reports whether other is a SequenceValue with the same number of
// items, each holding element-wise equal datasets in the same order.
func (s *SequenceValue) Equals(other value.Value) bool {
	o, ok := other.(*SequenceValue)
	if !ok || len(s.items) != len(o.items) {
		return false
	}
	for i, item := range s.items {
		a := item.DataSet().Elements()
		b := o.items[i].DataSet().Elements()
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !a[j].Equals(b[j]) {
				return false
			}
		}
	}
	return true
}

// Bytes encodes the sequence using Implicit VR Little Endian framing, the
// encoding DIMSE command and dataset fragments use for attribute lists. File
// writing bypasses this and encodes sequences according to the file's
// negotiated transfer syntax; see the encodeSequenceValue call in writer.go.
func (s *SequenceValue) Bytes() []byte {
	encoded, err := encodeSequenceValue(s, false)
	if err != nil {
		return nil
	}
	return encoded
}

// itemTag, itemDelimitationTag and sequenceDelimitationTag are the raw
// (group,element) tag values used to frame items within a Sequence of Items.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
const (
	itemTagValue                 = uint32(0xFFFEE000)
	itemDelimitationTagValue     = uint32(0xFFFEE00D)
	sequenceDelimitationTagValue = uint32(0xFFFEE0DD)
)

// encodeSequenceValue serializes a sequence's items into wire bytes using
// defined-length item framing, recursing through writeElement for nested
// content. explicitVR selects Explicit vs Implicit VR Little Endian for the
// items' elements, matching whatever encoding the parent element used.
func encodeSequenceValue(seq *SequenceValue, explicitVR bool) ([]byte, error) {
	var buf bytes.Buffer
	for _, item := range seq.Items() {
		var itemBuf bytes.Buffer
		for _, elem := range item.DataSet().Elements() {
			if err := writeElement(&itemBuf, elem, explicitVR); err != nil {
				return nil, fmt.Errorf("encode sequence item: %w", err)
			}
		}

		if err := binary.Write(&buf, binary.LittleEndian, uint16(0xFFFE)); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint16(0xE000)); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(itemBuf.Len())); err != nil {
			return nil, err
		}
		if _, err := buf.Write(itemBuf.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
