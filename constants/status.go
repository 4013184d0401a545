package constants

// RunStatus is the canonical status for rows in mapping_runs.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusQueued  RunStatus = "QUEUED"
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusOCROK   RunStatus = "OCR_OK" // images recognized, not yet mapped
	RunStatusMapped  RunStatus = "MAPPED" // mapping result stored
	RunStatusFailed  RunStatus = "FAILED" // terminal failure
)
