package models

// StatusSnapshot is a point-in-time read of the live server. Player counts
// are pointers because "the server is not reporting" and "zero players" are
// different answers.
type StatusSnapshot struct {
	ContainerExists bool    `json:"container_exists"`
	ContainerState  string  `json:"container_state"`
	Health          string  `json:"health"`
	PlayersOnline   *int    `json:"players_online"`
	PlayersMax      *int    `json:"players_max"`
	WhitelistCount  int     `json:"whitelist_count"`
	LastStatusLine  *string `json:"last_status_line"`
	UpdatedAt       string  `json:"updated_at"`
}
