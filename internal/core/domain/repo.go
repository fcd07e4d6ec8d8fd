package domain

// Repo is one repository of the organization, as recorded in the master
// index. Fields coming from the remote API may be empty; consumers must
// tolerate missing descriptions, topics and counters.
type Repo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Archived    bool     `json:"archived"`
	URL         string   `json:"url"`
}

// ID returns the stable identifier used by checkpoints and the failure
// ledger. Full names are unique within GitHub.
func (r *Repo) ID() string {
	return r.FullName
}
