package queue

const (
	TypeMemoryReindex = "memory:reindex"
)

type MemoryReindexPayload struct {
	Force bool `json:"force"`
}
