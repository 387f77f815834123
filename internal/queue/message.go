package queue

// Annotation export formats accepted by the ingest queue.
const (
	FormatMentionStream = "mention_stream"
	FormatStandoff      = "standoff"
)

// QueueIngestMsg asks the worker to parse annotation exports from the
// object store. Format may be empty, in which case the worker sniffs it
// from the file contents.
type QueueIngestMsg struct {
	Message       string   `json:"message"`
	CorrelationID string   `json:"correlation_id"`
	ObjectKeys    []string `json:"object_keys"`
	Format        string   `json:"format,omitempty"`
}

// QueueExportMsg asks the worker to render a finished batch as
// bulk-load files and upload them.
type QueueExportMsg struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}
