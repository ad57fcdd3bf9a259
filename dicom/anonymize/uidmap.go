package anonymize

import (
	"sync"

	"github.com/codeninja55/go-radx/dicom/uid"
)

// UIDMap maintains a session-scoped old->new UID mapping so that every
// occurrence of a given original UID across a batch of anonymized
// instances remaps to the same new UID, preserving inter-object references
// (StudyInstanceUID, SeriesInstanceUID, SOPInstanceUID,
// FrameOfReferenceUID, ReferencedSOPInstanceUID, ...) within the batch.
//
// A zero-value UIDMap is ready to use.
type UIDMap struct {
	mu sync.Mutex
	m  map[string]string
}

// NewUIDMap creates an empty UIDMap.
func NewUIDMap() *UIDMap {
	return &UIDMap{m: make(map[string]string)}
}

// Remap returns the new UID for original, generating and recording one on
// first sight. Calling Remap again with the same original within the same
// UIDMap always returns the same new UID.
func (u *UIDMap) Remap(original string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.m == nil {
		u.m = make(map[string]string)
	}
	if existing, ok := u.m[original]; ok {
		return existing
	}
	replacement := uid.Generate()
	u.m[original] = replacement
	return replacement
}

// Len returns the number of distinct UIDs remapped so far.
func (u *UIDMap) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.m)
}
