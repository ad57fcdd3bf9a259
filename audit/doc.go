// Package audit writes the append-only JSONL audit trail DIMSE and UPS-RS
// services emit for security-relevant events: association open/reject,
// C-STORE/FIND/MOVE/GET outcomes, UPS state changes, and anonymization
// runs. One JSON object per line, never rewritten once written.
package audit
