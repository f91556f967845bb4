package dto

import "github.com/google/uuid"

// Queue job payloads. Field names are part of the wire contract between
// enqueuers and workers.

type ParseJob struct {
	DocumentId uuid.UUID `json:"documentId"`
	ChainIndex bool      `json:"chainIndex"`
}

type ChunkJob struct {
	DocumentId  uuid.UUID `json:"documentId"`
	TokenTarget int       `json:"tokenTarget"`
	Reset       bool      `json:"reset"`
}

type EmbedJob struct {
	DocumentId uuid.UUID `json:"documentId"`
	BatchSize  int       `json:"batchSize"`
}

type GenerateBatchJob struct {
	RunId            uuid.UUID   `json:"runId"`
	BlueprintItemIds []uuid.UUID `json:"blueprintItemIds"`
	BatchNo          int         `json:"batchNo"`
}
