package constant

// Queue job names.
const (
	JobParse         = "parse"
	JobChunk         = "chunk"
	JobEmbed         = "embed"
	JobGenerateBatch = "generate-batch"
)

// Pipeline tuning defaults.
const (
	DefaultTokenTarget     = 600
	DefaultEmbedBatchSize  = 8
	DefaultTopKContext     = 3
	GenerationBatchSize    = 10
	MaxContextCharsPerItem = 800
	SnippetLength          = 400
)
