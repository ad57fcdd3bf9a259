// Package ups implements the Unified Procedure Step (UPS) worklist
// subsystem: the workitem lifecycle state machine, an in-memory store,
// subscription-based event dispatch, and the UPS-RS HTTP binding
// (PS3.18 Annex F DICOM-JSON over REST) that modern worklist clients use
// in place of the N-CREATE/N-SET/N-GET/N-ACTION DIMSE services.
package ups
