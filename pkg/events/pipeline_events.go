package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeDocumentStatusChanged = "DOCUMENT_STATUS_CHANGED"
	TypeIndexingProgress      = "INDEXING_PROGRESS"
	TypeRunFinalized          = "RUN_FINALIZED"
)

func NewDocumentStatusChanged(documentId uuid.UUID, status string) Event {
	return BaseEvent{
		Type: TypeDocumentStatusChanged,
		Data: map[string]interface{}{
			"documentId": documentId.String(),
			"status":     status,
		},
		OccurredAt: time.Now(),
	}
}

func NewIndexingProgress(documentId uuid.UUID, done, total int) Event {
	return BaseEvent{
		Type: TypeIndexingProgress,
		Data: map[string]interface{}{
			"documentId": documentId.String(),
			"done":       done,
			"total":      total,
		},
		OccurredAt: time.Now(),
	}
}

func NewRunFinalized(runId uuid.UUID, status string, doneItems, failedItems int) Event {
	return BaseEvent{
		Type: TypeRunFinalized,
		Data: map[string]interface{}{
			"runId":       runId.String(),
			"status":      status,
			"doneItems":   doneItems,
			"failedItems": failedItems,
		},
		OccurredAt: time.Now(),
	}
}
