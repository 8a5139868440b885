package models

// IntegrationWithRepositories is the listing shape for one integration: the
// integration itself plus its repositories (deduplicated by owner/name) and
// its per-output-type toggles.
type IntegrationWithRepositories struct {
	Integration  *Integration  `json:"integration"`
	Repositories []*Repository `json:"repositories"`
	Outputs      []*Output     `json:"outputs"`
}
