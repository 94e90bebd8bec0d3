package hec

import "time"

// Event is the HTTP Event Collector envelope for one forwarded record.
// The zero-valued metadata fields are omitted so the collector applies
// its own defaults.
type Event struct {
	Time       *float64    `json:"time,omitempty"`
	Host       string      `json:"host,omitempty"`
	Source     string      `json:"source,omitempty"`
	SourceType string      `json:"sourcetype,omitempty"`
	Index      string      `json:"index,omitempty"`
	Event      interface{} `json:"event"`
}

// Response is the collector's status body. Code 0 denotes success.
type Response struct {
	Text string `json:"text"`
	Code int    `json:"code"`
}

// EpochSeconds converts t to the collector's time representation,
// fractional seconds since the Unix epoch.
func EpochSeconds(t time.Time) *float64 {
	secs := float64(t.UnixNano()) / float64(time.Second)
	return &secs
}
