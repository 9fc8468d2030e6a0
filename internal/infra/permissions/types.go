package permissions

// Record is a read-only snapshot of a principal's permissions as returned by
// the Permission Lookup Service. It is never persisted beyond the request.
type Record struct {
	ID        string   `json:"id"`
	Role      string   `json:"role"`
	Companies []string `json:"companies"`
}
