package monitor

import "time"

type Status struct {
	Services  map[string]bool `json:"services"`
	Online    bool            `json:"online"`
	LastCheck time.Time       `json:"last_check"`
}
