package audit

// Event type names used across the DIMSE and UPS-RS surfaces. Kept as
// constants so producers and any downstream audit-log consumer agree on
// spelling.
const (
	EventAssociationOpened  = "AssociationOpened"
	EventAssociationRejected = "AssociationRejected"
	EventAssociationAborted = "AssociationAborted"
	EventCStore             = "CStore"
	EventCFind              = "CFind"
	EventCMove              = "CMove"
	EventCGet               = "CGet"
	EventUPSStateChange     = "UPSStateChange"
	EventUPSSubscribe       = "UPSSubscribe"
	EventAnonymizationRun   = "AnonymizationRun"
)

// Association records an A-ASSOCIATE outcome.
func Association(eventType string, outcome Outcome, callingAE, calledAE, remoteAddr string, reason string) Event {
	details := map[string]any{
		"callingAE":  callingAE,
		"calledAE":   calledAE,
		"remoteAddr": remoteAddr,
	}
	if reason != "" {
		details["reason"] = reason
	}
	return Event{
		EventType: eventType,
		Outcome:   outcome,
		Source:    calledAE,
		User:      callingAE,
		Details:   details,
	}
}

// DIMSEOperation records a completed C-STORE/FIND/MOVE/GET exchange.
func DIMSEOperation(eventType string, outcome Outcome, callingAE, calledAE, sopInstanceUID string, status uint16) Event {
	return Event{
		EventType: eventType,
		Outcome:   outcome,
		Source:    calledAE,
		User:      callingAE,
		Details: map[string]any{
			"sopInstanceUID": sopInstanceUID,
			"status":         status,
		},
	}
}

// UPSStateChange records a workitem state transition (or a rejected one).
func UPSStateChange(outcome Outcome, workitemUID, aeTitle string, from, to string, transactionUID string) Event {
	return Event{
		EventType: EventUPSStateChange,
		Outcome:   outcome,
		Source:    "ups-rs",
		User:      aeTitle,
		Details: map[string]any{
			"workitemUID":    workitemUID,
			"from":           from,
			"to":             to,
			"transactionUID": transactionUID,
		},
	}
}

// AnonymizationRun records a completed anonymization pass over a batch.
func AnonymizationRun(outcome Outcome, profile string, instanceCount int, privateGroupWarnings []string) Event {
	return Event{
		EventType: EventAnonymizationRun,
		Outcome:   outcome,
		Source:    "anonymize",
		Details: map[string]any{
			"profile":              profile,
			"instanceCount":        instanceCount,
			"privateGroupWarnings": privateGroupWarnings,
		},
	}
}
